package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/sony/gobreaker"
)

// API Docs: https://open-meteo.com/en/docs
const DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

var (
	dailyVars = []string{
		"weather_code",
		"temperature_2m_max",
		"temperature_2m_min",
		"precipitation_probability_max",
		"wind_speed_10m_max",
	}

	currentVars = []string{
		"temperature_2m",
		"weather_code",
		"wind_speed_10m",
		"relative_humidity_2m",
	}
)

// OpenMeteoProvider implements weather.ForecastProvider for Open-Meteo.
type OpenMeteoProvider struct {
	name         string
	baseURL      string
	forecastDays int
	httpCfg      HTTPClientConfig
	circuit      *gobreaker.CircuitBreaker
}

// OpenMeteoConfig configures an OpenMeteoProvider.
type OpenMeteoConfig struct {
	BaseURL      string
	ForecastDays int
	MaxRetries   int
}

func NewOpenMeteoProvider(client *http.Client, cfg OpenMeteoConfig) *OpenMeteoProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultForecastURL
	}
	if cfg.ForecastDays <= 0 {
		cfg.ForecastDays = 7
	}

	return &OpenMeteoProvider{
		name:         "openmeteo",
		baseURL:      cfg.BaseURL,
		forecastDays: cfg.ForecastDays,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff(cfg.MaxRetries),
		},
		circuit: newCircuitBreaker("openmeteo-forecast"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type forecastPayload struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Time             string  `json:"time"`
		Temperature      float64 `json:"temperature_2m"`
		WeatherCode      int     `json:"weather_code"`
		WindSpeed        float64 `json:"wind_speed_10m"`
		RelativeHumidity float64 `json:"relative_humidity_2m"`
	} `json:"current"`
	Daily struct {
		Time                     []string  `json:"time"`
		WeatherCode              []int     `json:"weather_code"`
		TemperatureMax           []float64 `json:"temperature_2m_max"`
		TemperatureMin           []float64 `json:"temperature_2m_min"`
		PrecipitationProbability []float64 `json:"precipitation_probability_max"`
		WindSpeedMax             []float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// FetchForecast requests current and daily fields for coords.
func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, coords weather.Coordinates) (*weather.Forecast, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
		values.Set("daily", strings.Join(dailyVars, ","))
		values.Set("current", strings.Join(currentVars, ","))
		values.Set("timezone", "auto")
		values.Set("forecast_days", strconv.Itoa(p.forecastDays))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload forecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode forecast: %w", err)
	}

	return toForecast(payload)
}

// toForecast zips the parallel daily arrays into ForecastDays.
func toForecast(payload forecastPayload) (*weather.Forecast, error) {
	d := payload.Daily
	n := len(d.Time)
	if len(d.WeatherCode) != n || len(d.TemperatureMax) != n || len(d.TemperatureMin) != n ||
		len(d.PrecipitationProbability) != n || len(d.WindSpeedMax) != n {
		return nil, fmt.Errorf("%w: daily arrays have mismatched lengths", weather.ErrMalformedForecast)
	}

	days := make([]weather.ForecastDay, 0, n)
	for i := 0; i < n; i++ {
		date, err := time.Parse("2006-01-02", d.Time[i])
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q", weather.ErrMalformedForecast, d.Time[i])
		}
		days = append(days, weather.ForecastDay{
			Date:                     date,
			WeatherCode:              d.WeatherCode[i],
			TempMax:                  d.TemperatureMax[i],
			TempMin:                  d.TemperatureMin[i],
			PrecipitationProbability: d.PrecipitationProbability[i],
			WindSpeed:                d.WindSpeedMax[i],
		})
	}

	current := weather.Current{
		Temperature:      payload.Current.Temperature,
		WeatherCode:      payload.Current.WeatherCode,
		WindSpeed:        payload.Current.WindSpeed,
		RelativeHumidity: payload.Current.RelativeHumidity,
	}
	// Open-Meteo reports local time without a zone, e.g. 2024-01-15T13:45.
	if ts, err := time.Parse("2006-01-02T15:04", payload.Current.Time); err == nil {
		current.Time = ts
	}

	return &weather.Forecast{
		Timezone: payload.Timezone,
		Current:  current,
		Days:     days,
	}, nil
}
