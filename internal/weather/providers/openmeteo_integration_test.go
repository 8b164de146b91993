//go:build integration

package providers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestOpenMeteoProvider_FetchForecast_Integration(t *testing.T) {
	client := &http.Client{Timeout: 15 * time.Second}
	p := NewOpenMeteoProvider(client, OpenMeteoConfig{ForecastDays: 7})

	f, err := p.FetchForecast(context.Background(), weather.Coordinates{Latitude: 55.7558, Longitude: 37.6173})
	if err != nil {
		t.Fatalf("Failed to get forecast: %v", err)
	}

	t.Logf("Timezone: %s, days: %d", f.Timezone, len(f.Days))
	if len(f.Days) != 7 {
		t.Errorf("expected 7 days, got %d", len(f.Days))
	}
}

func TestGeocodingProvider_SearchCities_Integration(t *testing.T) {
	client := &http.Client{Timeout: 15 * time.Second}
	p := NewGeocodingProvider(client, GeocodingConfig{})

	cities, err := p.SearchCities(context.Background(), "Москва")
	if err != nil {
		t.Fatalf("Failed to search cities: %v", err)
	}
	if len(cities) == 0 {
		t.Fatal("expected at least one city")
	}
	t.Logf("First result: %+v", cities[0])
}
