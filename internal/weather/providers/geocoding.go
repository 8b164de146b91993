package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/sony/gobreaker"
)

// API Docs: https://open-meteo.com/en/docs/geocoding-api
const DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// GeocodingProvider implements weather.Geocoder for the Open-Meteo geocoding API.
type GeocodingProvider struct {
	baseURL  string
	count    int
	language string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

// GeocodingConfig configures a GeocodingProvider.
type GeocodingConfig struct {
	BaseURL    string
	Count      int
	Language   string
	MaxRetries int
}

func NewGeocodingProvider(client *http.Client, cfg GeocodingConfig) *GeocodingProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeocodingURL
	}
	if cfg.Count <= 0 {
		cfg.Count = 10
	}
	if cfg.Language == "" {
		cfg.Language = "ru"
	}

	return &GeocodingProvider{
		baseURL:  cfg.BaseURL,
		count:    cfg.Count,
		language: cfg.Language,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff(cfg.MaxRetries),
		},
		circuit: newCircuitBreaker("openmeteo-geocoding"),
	}
}

// SearchCities looks up cities by name. A response without results yields an
// empty slice.
func (p *GeocodingProvider) SearchCities(ctx context.Context, query string) ([]weather.City, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("name", query)
		values.Set("count", strconv.Itoa(p.count))
		values.Set("language", p.language)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Country   string  `json:"country"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	cities := make([]weather.City, 0, len(payload.Results))
	for _, r := range payload.Results {
		cities = append(cities, weather.City{
			Name:      r.Name,
			Country:   r.Country,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}
	return cities, nil
}
