package weather

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Target names a place whose forecast should be fetched.
type Target struct {
	ID     string
	Coords Coordinates
}

// Result is the outcome of fetching one Target.
type Result struct {
	Target   Target
	Forecast *Forecast
	Err      error
}

// Service fetches forecasts through a ForecastProvider.
type Service struct {
	provider ForecastProvider
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(provider ForecastProvider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		logger:   logger,
	}
}

// GetForecast fetches the forecast for a single coordinate.
func (s *Service) GetForecast(ctx context.Context, coords Coordinates) (*Forecast, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("no forecast provider configured")
	}
	f, err := s.provider.FetchForecast(ctx, coords)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast for %.4f,%.4f: %w", coords.Latitude, coords.Longitude, err)
	}
	return f, nil
}

// FetchEach fetches every target concurrently and hands each result to
// deliver as soon as it is available. Completions arrive in no particular
// order and deliver must be safe for concurrent use. A failed target does not
// affect the others. FetchEach returns once every target has been delivered.
func (s *Service) FetchEach(ctx context.Context, targets []Target, deliver func(Result)) {
	var wg sync.WaitGroup
	for _, t := range targets {
		wg.Add(1)
		go func(t Target) {
			defer wg.Done()

			f, err := s.GetForecast(ctx, t.Coords)
			if err != nil {
				// Log and continue; the caller renders the failure for this target only.
				s.logger.Warn("forecast fetch failed", "target", t.ID, "error", err)
			}
			deliver(Result{Target: t, Forecast: f, Err: err})
		}(t)
	}
	wg.Wait()
}
