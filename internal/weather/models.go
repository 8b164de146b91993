package weather

import (
	"math"
	"time"
)

// DefaultProximityThreshold is the coordinate delta, in degrees, under which
// two places on both axes are treated as the same place.
const DefaultProximityThreshold = 0.01

// GeolocationName is the display name given to a device-provided location.
const GeolocationName = "Текущее местоположение"

// Coordinates is a point in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Near reports whether c and o are closer than threshold degrees in both
// latitude and longitude.
func (c Coordinates) Near(o Coordinates, threshold float64) bool {
	return math.Abs(c.Latitude-o.Latitude) < threshold &&
		math.Abs(c.Longitude-o.Longitude) < threshold
}

// City is a search candidate or a user's selection from the suggestions.
type City struct {
	Name      string  `json:"name" yaml:"name"`
	Country   string  `json:"country,omitempty" yaml:"country"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

func (c City) Coordinates() Coordinates {
	return Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
}

// DisplayName returns "Name, Country" or just the name.
func (c City) DisplayName() string {
	if c.Country == "" {
		return c.Name
	}
	return c.Name + ", " + c.Country
}

// Location is the place the primary forecast panel is shown for.
type Location struct {
	Name          string  `json:"name"`
	Country       string  `json:"country,omitempty"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	IsGeolocation bool    `json:"isGeolocation"`
}

func (l Location) Coordinates() Coordinates {
	return Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
}

// TrackedCity is a secondary location added for side-by-side tracking.
type TrackedCity struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (t TrackedCity) Coordinates() Coordinates {
	return Coordinates{Latitude: t.Latitude, Longitude: t.Longitude}
}

func (t TrackedCity) DisplayName() string {
	return City{Name: t.Name, Country: t.Country}.DisplayName()
}

// State is the persisted dashboard session.
// AdditionalCities is ordered most-recently-added first.
type State struct {
	CurrentLocation  *Location     `json:"currentLocation"`
	AdditionalCities []TrackedCity `json:"additionalCities"`
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s State) Clone() State {
	out := State{AdditionalCities: make([]TrackedCity, len(s.AdditionalCities))}
	copy(out.AdditionalCities, s.AdditionalCities)
	if s.CurrentLocation != nil {
		loc := *s.CurrentLocation
		out.CurrentLocation = &loc
	}
	return out
}

// Theme is the colour scheme of the dashboard.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme maps anything other than "dark" to the light theme.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// ForecastDay is one day of the daily forecast.
type ForecastDay struct {
	Date                     time.Time `json:"date"`
	WeatherCode              int       `json:"weatherCode"`
	TempMax                  float64   `json:"tempMax"`
	TempMin                  float64   `json:"tempMin"`
	PrecipitationProbability float64   `json:"precipitationProbability"`
	WindSpeed                float64   `json:"windSpeed"`
}

// Current holds the scalar "current conditions" block of a forecast.
type Current struct {
	Time             time.Time `json:"time"`
	Temperature      float64   `json:"temperature"`
	WeatherCode      int       `json:"weatherCode"`
	WindSpeed        float64   `json:"windSpeed"`
	RelativeHumidity float64   `json:"relativeHumidity"`
}

// Forecast is a multi-day forecast for one place.
// Days are ordered by Date ascending.
type Forecast struct {
	Timezone string        `json:"timezone"`
	Current  Current       `json:"current"`
	Days     []ForecastDay `json:"days"`
}
