package weather

import (
	"context"
	"errors"
)

var (
	// ErrDuplicateCity is returned when a city is within the proximity
	// threshold of one already tracked.
	ErrDuplicateCity = errors.New("city is already tracked")

	// ErrCityNotFound is returned when no tracked city has the given id.
	ErrCityNotFound = errors.New("tracked city not found")

	// ErrNoCitySelected is returned when a submit carries no selected city.
	ErrNoCitySelected = errors.New("no city selected")

	// ErrMalformedForecast is returned when a forecast payload fails shape checks.
	ErrMalformedForecast = errors.New("malformed forecast response")

	// ErrLocationUnsupported is returned by a Locator that has no device position source.
	ErrLocationUnsupported = errors.New("geolocation is not supported")
)

// ForecastProvider fetches a multi-day forecast for a coordinate.
type ForecastProvider interface {
	FetchForecast(ctx context.Context, coords Coordinates) (*Forecast, error)
}

// Geocoder resolves a free-text city name into candidates.
type Geocoder interface {
	SearchCities(ctx context.Context, query string) ([]City, error)
}

// Locator acquires the device position.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// StaticLocator reports a fixed position.
type StaticLocator struct {
	Position Coordinates
}

func (l StaticLocator) Locate(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	return l.Position, nil
}

// UnsupportedLocator always fails, as a client without geolocation would.
type UnsupportedLocator struct{}

func (UnsupportedLocator) Locate(context.Context) (Coordinates, error) {
	return Coordinates{}, ErrLocationUnsupported
}
