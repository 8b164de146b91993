package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const forecastBody = `{
  "timezone": "Europe/Moscow",
  "current": {"time": "2024-01-15T13:45", "temperature_2m": -7.4, "weather_code": 71, "wind_speed_10m": 12.3, "relative_humidity_2m": 81},
  "daily": {
    "time": ["2024-01-15", "2024-01-16"],
    "weather_code": [71, 3],
    "temperature_2m_max": [-5.6, -2.1],
    "temperature_2m_min": [-11.2, -8.0],
    "precipitation_probability_max": [80, 15],
    "wind_speed_10m_max": [18.4, 9.9]
  }
}`

func TestOpenMeteoProvider_FetchForecast(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), OpenMeteoConfig{BaseURL: srv.URL, ForecastDays: 5})
	f, err := p.FetchForecast(context.Background(), weather.Coordinates{Latitude: 55.7558, Longitude: 37.6173})
	if err != nil {
		t.Fatalf("FetchForecast() error = %v", err)
	}

	wantQuery := map[string]string{
		"latitude":      "55.7558",
		"longitude":     "37.6173",
		"timezone":      "auto",
		"forecast_days": "5",
		"daily":         "weather_code,temperature_2m_max,temperature_2m_min,precipitation_probability_max,wind_speed_10m_max",
		"current":       "temperature_2m,weather_code,wind_speed_10m,relative_humidity_2m",
	}
	for k, v := range wantQuery {
		if query[k] != v {
			t.Errorf("query %s = %q, want %q", k, query[k], v)
		}
	}

	if len(f.Days) != 2 {
		t.Fatalf("len(Days) = %d, want 2", len(f.Days))
	}
	day := f.Days[0]
	if !day.Date.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", day.Date)
	}
	if day.WeatherCode != 71 || day.TempMax != -5.6 || day.TempMin != -11.2 ||
		day.PrecipitationProbability != 80 || day.WindSpeed != 18.4 {
		t.Errorf("unexpected day: %+v", day)
	}
	if f.Current.Temperature != -7.4 || f.Current.RelativeHumidity != 81 {
		t.Errorf("unexpected current: %+v", f.Current)
	}
	if f.Timezone != "Europe/Moscow" {
		t.Errorf("Timezone = %q", f.Timezone)
	}
}

func TestOpenMeteoProvider_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), OpenMeteoConfig{BaseURL: srv.URL})
	_, err := p.FetchForecast(context.Background(), weather.Coordinates{})
	if !errors.Is(err, errServerError) {
		t.Fatalf("error = %v, want %v", err, errServerError)
	}
}

func TestOpenMeteoProvider_MalformedDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"daily": {"time": ["2024-01-15"], "weather_code": []}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), OpenMeteoConfig{BaseURL: srv.URL})
	_, err := p.FetchForecast(context.Background(), weather.Coordinates{})
	if !errors.Is(err, weather.ErrMalformedForecast) {
		t.Fatalf("error = %v, want ErrMalformedForecast", err)
	}
}

func TestDoRequestWithResilience_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := HTTPClientConfig{
		Client:  srv.Client(),
		Backoff: BackoffConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond},
	}
	build := func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	}

	resp, err := doRequestWithResilience(context.Background(), cfg, newCircuitBreaker("test"), build)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = resp.Body.Close()
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestDoRequestWithResilience_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := HTTPClientConfig{Client: srv.Client(), Backoff: DefaultBackoff(0)}
	build := func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	}

	if _, err := doRequestWithResilience(context.Background(), cfg, newCircuitBreaker("test"), build); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestDoRequestWithResilience_NoClient(t *testing.T) {
	_, err := doRequestWithResilience(context.Background(), HTTPClientConfig{}, newCircuitBreaker("test"), nil)
	if !errors.Is(err, errNoHTTPClient) {
		t.Fatalf("error = %v, want %v", err, errNoHTTPClient)
	}
}
