package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration `validate:"gt=0"`
	// FetchTimeout bounds background work: added-city fetches, debounced
	// searches and scheduled refreshes.
	FetchTimeout time.Duration `validate:"gt=0"`

	ForecastAPIURL     string `validate:"required,url"`
	GeocodingAPIURL    string `validate:"required,url"`
	ForecastDays       int    `validate:"min=1,max=16"`
	GeocodingCount     int    `validate:"min=1,max=100"`
	GeocodingLanguage  string `validate:"required"`
	ProviderMaxRetries int    `validate:"min=0,max=10"`

	SearchMinLength    int           `validate:"min=1"`
	SearchLimit        int           `validate:"min=1"`
	ProximityThreshold float64       `validate:"gt=0"`
	DebounceDelay      time.Duration `validate:"gte=0"`
	CitiesFile         string

	GeolocationTimeout time.Duration `validate:"gt=0"`
	// Device is the fixed device position, nil when geolocation is
	// unsupported.
	Device *weather.Coordinates

	StorageDriver string `validate:"oneof=file sqlite postgres memory"`
	StoragePath   string `validate:"required_if=StorageDriver file,required_if=StorageDriver sqlite"`
	StorageDSN    string `validate:"required_if=StorageDriver postgres"`
	StateKey      string `validate:"required"`
	ThemeKey      string `validate:"required,nefield=StateKey"`

	// RefreshInterval is the auto-refresh period; 0 disables it.
	RefreshInterval time.Duration `validate:"gte=0"`

	LogLevel  string `validate:"oneof=debug info warn warning error"`
	LogFormat string `validate:"oneof=text json"`
}

var validate = validator.New()

// Load reads configuration from .env, an optional config.yaml and the
// environment, with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("fetch_timeout", "15s")
	v.SetDefault("forecast_api_url", providers.DefaultForecastURL)
	v.SetDefault("geocoding_api_url", providers.DefaultGeocodingURL)
	v.SetDefault("forecast_days", 7)
	v.SetDefault("geocoding_count", 10)
	v.SetDefault("geocoding_language", "ru")
	v.SetDefault("provider_max_retries", 0)
	v.SetDefault("search_min_length", 2)
	v.SetDefault("search_limit", 15)
	v.SetDefault("proximity_threshold", weather.DefaultProximityThreshold)
	v.SetDefault("debounce_delay", "300ms")
	v.SetDefault("cities_file", "")
	v.SetDefault("geolocation_timeout", "10s")
	v.SetDefault("device_latitude", "")
	v.SetDefault("device_longitude", "")
	v.SetDefault("storage_driver", "file")
	v.SetDefault("storage_path", "data/dashboard.json")
	v.SetDefault("storage_dsn", "")
	v.SetDefault("state_key", "weather-dashboard-state")
	v.SetDefault("theme_key", "weather-dashboard-theme")
	v.SetDefault("refresh_interval", "30m")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

func fromViper(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		Port:               v.GetString("port"),
		HTTPTimeout:        v.GetDuration("http_timeout"),
		FetchTimeout:       v.GetDuration("fetch_timeout"),
		ForecastAPIURL:     v.GetString("forecast_api_url"),
		GeocodingAPIURL:    v.GetString("geocoding_api_url"),
		ForecastDays:       v.GetInt("forecast_days"),
		GeocodingCount:     v.GetInt("geocoding_count"),
		GeocodingLanguage:  v.GetString("geocoding_language"),
		ProviderMaxRetries: v.GetInt("provider_max_retries"),
		SearchMinLength:    v.GetInt("search_min_length"),
		SearchLimit:        v.GetInt("search_limit"),
		ProximityThreshold: v.GetFloat64("proximity_threshold"),
		DebounceDelay:      v.GetDuration("debounce_delay"),
		CitiesFile:         v.GetString("cities_file"),
		GeolocationTimeout: v.GetDuration("geolocation_timeout"),
		StorageDriver:      strings.ToLower(v.GetString("storage_driver")),
		StoragePath:        v.GetString("storage_path"),
		StorageDSN:         v.GetString("storage_dsn"),
		StateKey:           v.GetString("state_key"),
		ThemeKey:           v.GetString("theme_key"),
		RefreshInterval:    v.GetDuration("refresh_interval"),
		LogLevel:           strings.ToLower(v.GetString("log_level")),
		LogFormat:          strings.ToLower(v.GetString("log_format")),
	}

	device, err := parseDevice(v.GetString("device_latitude"), v.GetString("device_longitude"))
	if err != nil {
		return nil, err
	}
	cfg.Device = device

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// parseDevice reads the fixed device position. Both coordinates or neither
// must be given.
func parseDevice(lat, lon string) (*weather.Coordinates, error) {
	lat, lon = strings.TrimSpace(lat), strings.TrimSpace(lon)
	if lat == "" && lon == "" {
		return nil, nil
	}
	if lat == "" || lon == "" {
		return nil, fmt.Errorf("DEVICE_LATITUDE and DEVICE_LONGITUDE must be set together")
	}

	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil || latitude < -90 || latitude > 90 {
		return nil, fmt.Errorf("invalid DEVICE_LATITUDE %q", lat)
	}
	longitude, err := strconv.ParseFloat(lon, 64)
	if err != nil || longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("invalid DEVICE_LONGITUDE %q", lon)
	}
	return &weather.Coordinates{Latitude: latitude, Longitude: longitude}, nil
}

// Locator returns the device position source for this configuration.
func (c *AppConfig) Locator() weather.Locator {
	if c.Device == nil {
		return weather.UnsupportedLocator{}
	}
	return weather.StaticLocator{Position: *c.Device}
}

// Addr returns the listen address in the format ":port".
func (c *AppConfig) Addr() string {
	return ":" + c.Port
}

// NewLogger creates a slog.Logger writing to stdout at the configured level
// and format.
func (c *AppConfig) NewLogger() *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch c.LogFormat {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
