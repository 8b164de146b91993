package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Default keys of the persisted dashboard.
const (
	DefaultStateKey = "weather-dashboard-state"
	DefaultThemeKey = "weather-dashboard-theme"
)

// StateStorage persists the dashboard session and theme in a KV under two
// keys: one JSON document and one plain theme string.
type StateStorage struct {
	kv       KV
	stateKey string
	themeKey string
	logger   *slog.Logger
}

// NewStateStorage creates a StateStorage. Empty keys take the defaults.
func NewStateStorage(kv KV, stateKey, themeKey string, logger *slog.Logger) *StateStorage {
	if stateKey == "" {
		stateKey = DefaultStateKey
	}
	if themeKey == "" {
		themeKey = DefaultThemeKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StateStorage{kv: kv, stateKey: stateKey, themeKey: themeKey, logger: logger}
}

// Save writes the current location and tracked cities.
func (s *StateStorage) Save(ctx context.Context, state weather.State) error {
	if state.AdditionalCities == nil {
		state.AdditionalCities = []weather.TrackedCity{}
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := s.kv.Set(ctx, s.stateKey, string(data)); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Load reads the persisted state. A missing, unreadable or malformed value
// yields the empty state.
func (s *StateStorage) Load(ctx context.Context) weather.State {
	empty := weather.State{AdditionalCities: []weather.TrackedCity{}}

	raw, err := s.kv.Get(ctx, s.stateKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to load state", "error", err)
		}
		return empty
	}

	var state weather.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logger.Error("stored state is malformed, starting empty", "error", err)
		return empty
	}
	if state.AdditionalCities == nil {
		state.AdditionalCities = []weather.TrackedCity{}
	}
	return state
}

// Clear removes the persisted state. The theme is kept.
func (s *StateStorage) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.stateKey); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}

func (s *StateStorage) SaveTheme(ctx context.Context, theme weather.Theme) error {
	if err := s.kv.Set(ctx, s.themeKey, string(theme)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

// LoadTheme returns the stored theme, light by default.
func (s *StateStorage) LoadTheme(ctx context.Context) weather.Theme {
	raw, err := s.kv.Get(ctx, s.themeKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to load theme", "error", err)
		}
		return weather.ThemeLight
	}
	return weather.ParseTheme(raw)
}
