package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Open-Meteo needs no API key for either forecasts or geocoding.
	forecastProvider := providers.NewOpenMeteoProvider(httpClient, providers.OpenMeteoConfig{
		BaseURL:      cfg.ForecastAPIURL,
		ForecastDays: cfg.ForecastDays,
		MaxRetries:   cfg.ProviderMaxRetries,
	})
	geocoder := providers.NewGeocodingProvider(httpClient, providers.GeocodingConfig{
		BaseURL:    cfg.GeocodingAPIURL,
		Count:      cfg.GeocodingCount,
		Language:   cfg.GeocodingLanguage,
		MaxRetries: cfg.ProviderMaxRetries,
	})

	popular, err := weather.PopularCities(cfg.CitiesFile)
	if err != nil {
		logger.Error("failed to load popular cities", "error", err)
		os.Exit(1)
	}

	searchOpts := weather.DefaultSearchOptions()
	searchOpts.MinLength = cfg.SearchMinLength
	searchOpts.Limit = cfg.SearchLimit
	searchOpts.ProximityThreshold = cfg.ProximityThreshold
	searcher := weather.NewSearcher(popular, geocoder, searchOpts, logger)

	kv, err := store.Open(store.Options{
		Driver: cfg.StorageDriver,
		Path:   cfg.StoragePath,
		DSN:    cfg.StorageDSN,
	})
	if err != nil {
		logger.Error("failed to open storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	svc := dashboard.New(dashboard.Deps{
		Forecasts: weather.NewService(forecastProvider, logger),
		Searcher:  searcher,
		Locator:   cfg.Locator(),
		Storage:   store.NewStateStorage(kv, cfg.StateKey, cfg.ThemeKey, logger),
		Logger:    logger,
	}, dashboard.Options{
		ForecastDays:       cfg.ForecastDays,
		ProximityThreshold: cfg.ProximityThreshold,
		DebounceDelay:      cfg.DebounceDelay,
		GeolocationTimeout: cfg.GeolocationTimeout,
		FetchTimeout:       cfg.FetchTimeout,
	})
	defer svc.Close()

	initCtx, cancelInit := context.WithTimeout(context.Background(), cfg.GeolocationTimeout+cfg.FetchTimeout)
	svc.Init(initCtx)
	cancelInit()

	// Periodic refresh of every forecast on the dashboard.
	sched := scheduler.New(svc, cfg.RefreshInterval, cfg.FetchTimeout, logger)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})

	httpapi.RegisterRoutes(app, svc)

	go func() {
		logger.Info("listening", "addr", cfg.Addr())
		if err := app.Listen(cfg.Addr()); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}
