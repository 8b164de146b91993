// Package dashboard holds the single dashboard session: the current
// location, the tracked cities, the theme and the latest content of every
// render target. Every user action of the dashboard is a method here.
package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/render"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Phase is the location acquisition state.
type Phase string

const (
	PhaseNoLocation Phase = "no-location"
	PhaseLocating   Phase = "locating"
	PhaseReady      Phase = "ready"
	PhasePrompt     Phase = "prompt"
)

// Options tunes a Service.
type Options struct {
	ForecastDays       int
	ProximityThreshold float64
	DebounceDelay      time.Duration
	GeolocationTimeout time.Duration
	// FetchTimeout bounds work that outlives the request that started it:
	// the forecast of a newly added city and debounced searches.
	FetchTimeout time.Duration
}

// DefaultOptions returns the stock dashboard settings.
func DefaultOptions() Options {
	return Options{
		ForecastDays:       7,
		ProximityThreshold: weather.DefaultProximityThreshold,
		DebounceDelay:      300 * time.Millisecond,
		GeolocationTimeout: 10 * time.Second,
		FetchTimeout:       15 * time.Second,
	}
}

// Deps are the collaborators of a Service.
type Deps struct {
	Forecasts *weather.Service
	Searcher  *weather.Searcher
	Locator   weather.Locator
	Storage   *store.StateStorage
	Views     *store.ViewStore
	Logger    *slog.Logger
}

// Service is the dashboard session.
type Service struct {
	forecasts *weather.Service
	searcher  *weather.Searcher
	locator   weather.Locator
	storage   *store.StateStorage
	views     *store.ViewStore
	opts      Options
	logger    *slog.Logger

	mu    sync.Mutex
	state weather.State
	theme weather.Theme
	phase Phase

	boxes map[Box]*common.Debouncer
	bg    sync.WaitGroup
}

// New creates a Service in the no-location phase. Call Init to restore the
// persisted session.
func New(deps Deps, opts Options) *Service {
	def := DefaultOptions()
	if opts.ForecastDays <= 0 {
		opts.ForecastDays = def.ForecastDays
	}
	if opts.ProximityThreshold <= 0 {
		opts.ProximityThreshold = def.ProximityThreshold
	}
	if opts.DebounceDelay < 0 {
		opts.DebounceDelay = def.DebounceDelay
	}
	if opts.GeolocationTimeout <= 0 {
		opts.GeolocationTimeout = def.GeolocationTimeout
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = def.FetchTimeout
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Locator == nil {
		deps.Locator = weather.UnsupportedLocator{}
	}
	if deps.Views == nil {
		deps.Views = store.NewViewStore()
	}

	return &Service{
		forecasts: deps.Forecasts,
		searcher:  deps.Searcher,
		locator:   deps.Locator,
		storage:   deps.Storage,
		views:     deps.Views,
		opts:      opts,
		logger:    deps.Logger,
		state:     weather.State{AdditionalCities: []weather.TrackedCity{}},
		theme:     weather.ThemeLight,
		phase:     PhaseNoLocation,
		boxes: map[Box]*common.Debouncer{
			BoxModal: common.NewDebouncer(opts.DebounceDelay),
			BoxAdd:   common.NewDebouncer(opts.DebounceDelay),
		},
	}
}

// Init restores the persisted session. With a saved current location every
// forecast is loaded; otherwise the device position is requested.
func (s *Service) Init(ctx context.Context) {
	state := s.storage.Load(ctx)
	theme := s.storage.LoadTheme(ctx)

	s.mu.Lock()
	s.state = state
	s.theme = theme
	s.mu.Unlock()

	s.logger.Info("dashboard restored",
		"hasLocation", state.CurrentLocation != nil,
		"trackedCities", len(state.AdditionalCities),
		"theme", theme)

	if state.CurrentLocation == nil {
		s.RequestLocation(ctx)
		return
	}

	s.setPhase(PhaseReady)
	s.RefreshAll(ctx)
}

// State returns a copy of the session state.
func (s *Service) State() weather.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Service) Theme() weather.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Service) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Service) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

// ToggleTheme flips and persists the theme.
func (s *Service) ToggleTheme(ctx context.Context) weather.Theme {
	s.mu.Lock()
	s.theme = s.theme.Toggle()
	theme := s.theme
	s.mu.Unlock()

	if err := s.storage.SaveTheme(ctx, theme); err != nil {
		s.logger.Error("failed to persist theme", "error", err)
	}
	return theme
}

// Reset forgets the persisted session and starts location acquisition
// again. The theme is kept.
func (s *Service) Reset(ctx context.Context) {
	if err := s.storage.Clear(ctx); err != nil {
		s.logger.Error("failed to clear state", "error", err)
	}

	s.mu.Lock()
	s.state = weather.State{AdditionalCities: []weather.TrackedCity{}}
	s.phase = PhaseNoLocation
	s.views.Reset()
	s.mu.Unlock()

	s.logger.Info("dashboard reset")
	s.RequestLocation(ctx)
}

// Page returns the model of the full dashboard document.
func (s *Service) Page() render.PageModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	return render.PageModel{
		Theme:     s.theme,
		State:     s.state.Clone(),
		Prompting: s.phase == PhasePrompt,
		View:      s.views.Node,
	}
}

// Partial returns the current content of one render target.
func (s *Service) Partial(target string) (*render.Node, bool) {
	if target == render.TargetCitiesContainer {
		return render.CitiesContainer(s.Page()), true
	}
	v, ok := s.views.Get(target)
	if !ok {
		return nil, false
	}
	return v.Node, true
}

// Search returns ranked city candidates for query.
func (s *Service) Search(ctx context.Context, query string) []weather.City {
	return s.searcher.Search(ctx, query)
}

// Forecast fetches the forecast for coords without touching any target.
func (s *Service) Forecast(ctx context.Context, coords weather.Coordinates) (*weather.Forecast, error) {
	return s.forecasts.GetForecast(ctx, coords)
}

// Wait blocks until background forecast fetches have finished.
func (s *Service) Wait() {
	s.bg.Wait()
}

// Close cancels pending searches and waits for background fetches.
func (s *Service) Close() {
	for _, d := range s.boxes {
		d.Stop()
	}
	s.Wait()
}

func (s *Service) persist(ctx context.Context, state weather.State) {
	if err := s.storage.Save(ctx, state); err != nil {
		s.logger.Error("failed to persist state", "error", err)
	}
}
