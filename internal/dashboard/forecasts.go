package dashboard

import (
	"context"

	"github.com/i474232898/weather-dashboard/internal/render"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// RefreshAll reloads the current location's forecast and then every
// tracked city's.
func (s *Service) RefreshAll(ctx context.Context) {
	s.LoadCurrentLocation(ctx)
	s.LoadTrackedCities(ctx)
}

// LoadCurrentLocation fetches and renders the current location's forecast.
// It does nothing without a current location.
func (s *Service) LoadCurrentLocation(ctx context.Context) {
	s.mu.Lock()
	loc := s.state.CurrentLocation
	var target weather.Target
	if loc != nil {
		target = weather.Target{
			ID:     render.TargetCurrentWeather,
			Coords: loc.Coordinates(),
		}
	}
	s.mu.Unlock()

	if loc == nil {
		return
	}
	s.fetch(ctx, []weather.Target{target})
}

// LoadTrackedCities fetches every tracked city's forecast concurrently.
func (s *Service) LoadTrackedCities(ctx context.Context) {
	s.mu.Lock()
	targets := make([]weather.Target, 0, len(s.state.AdditionalCities))
	for _, c := range s.state.AdditionalCities {
		targets = append(targets, weather.Target{ID: render.CityTarget(c.ID), Coords: c.Coordinates()})
	}
	s.mu.Unlock()

	s.fetch(ctx, targets)
}

// fetch shows the loading view on every target, then replaces each with its
// forecast or the error view as results arrive.
func (s *Service) fetch(ctx context.Context, targets []weather.Target) {
	if len(targets) == 0 {
		return
	}
	s.mu.Lock()
	for _, t := range targets {
		if s.hasTargetLocked(t.ID) {
			s.views.Write(t.ID, render.Loading())
		}
	}
	s.mu.Unlock()

	s.forecasts.FetchEach(ctx, targets, s.deliver)
}

// deliver writes r to its target. The check that the target still exists
// and the write happen under s.mu, so a concurrent RemoveCity either sees
// the view and deletes it or makes deliver drop it.
func (s *Service) deliver(r weather.Result) {
	view := render.ErrorState(render.MsgLoadFailed)
	if r.Err == nil {
		view = render.WeatherView(r.Forecast, s.opts.ForecastDays)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasTargetLocked(r.Target.ID) {
		s.logger.Debug("dropping forecast for removed target", "target", r.Target.ID)
		return
	}
	s.views.Write(r.Target.ID, view)
}

// hasTargetLocked must be called with s.mu held.
func (s *Service) hasTargetLocked(target string) bool {
	if target == render.TargetCurrentWeather {
		return s.state.CurrentLocation != nil
	}
	for _, c := range s.state.AdditionalCities {
		if render.CityTarget(c.ID) == target {
			return true
		}
	}
	return false
}
