package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/agrosense/agrosense-backend/internal/api/http"
	"github.com/agrosense/agrosense-backend/internal/assistant"
	"github.com/agrosense/agrosense-backend/internal/config"
	"github.com/agrosense/agrosense-backend/internal/logger"
	"github.com/agrosense/agrosense-backend/internal/notify"
	"github.com/agrosense/agrosense-backend/internal/ratelimit"
	"github.com/agrosense/agrosense-backend/internal/scheduler"
	"github.com/agrosense/agrosense-backend/internal/store"
	"github.com/agrosense/agrosense-backend/internal/weather"
	"github.com/agrosense/agrosense-backend/internal/weather/providers"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logger.GetLogger()
	defer logger.Close()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Errorw("Failed to load config", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client for outbound provider calls.
	httpCfg := providers.HTTPClientConfig{
		Client: &http.Client{Timeout: cfg.HTTPTimeout},
	}

	var provider weather.Provider
	switch cfg.WeatherProvider {
	case config.ProviderWeatherAPI:
		provider = providers.NewWeatherAPIProvider(httpCfg, cfg.WeatherAPIKey)
	default:
		provider = providers.NewOpenWeatherProvider(httpCfg, cfg.OpenWeatherAPIKey)
	}

	var opts []weather.Option
	if cfg.GeocoderAPIKey != "" {
		opts = append(opts, weather.WithGeocoder(weather.NewGoogleGeocoder(cfg.GeocoderAPIKey)))
	}
	weatherService := weather.NewService(provider, opts...)

	generator, err := assistant.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Errorw("Failed to create Gemini client", "error", err)
		return 1
	}
	gate := ratelimit.NewGate(cfg.AIMinInterval)
	advisor := assistant.New(generator, gate)

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	var publisher notify.Publisher = notify.LogPublisher{}
	if cfg.MQTTEnabled() {
		mqttPub, err := notify.NewMQTTPublisher(notify.MQTTConfig{
			Broker:   cfg.MQTTBroker,
			ClientID: cfg.MQTTClientID,
			Username: cfg.MQTTUsername,
			Password: cfg.MQTTPassword,
			Topic:    cfg.MQTTTopic,
		})
		if err != nil {
			log.Errorw("Failed to connect to MQTT broker", "broker", cfg.MQTTBroker, "error", err)
			return 1
		}
		publisher = mqttPub
	}
	defer publisher.Close()

	sched := scheduler.New(cfg.Locations, cfg.WatchInterval, weatherService, memStore, publisher)
	if err := sched.Start(); err != nil {
		log.Errorw("Failed to start scheduler", "error", err)
		return 1
	}
	defer sched.Stop()

	app := httpapi.NewApp(httpapi.AppOptions{AllowedOrigins: cfg.AllowedOrigins})
	httpapi.RegisterRoutes(app, httpapi.NewHandler(weatherService, advisor, memStore))

	log.Infow("AgroSense backend starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"weather_provider", weatherService.ProviderName(),
		"weather_key", logger.MaskSecret(cfg.WeatherProviderKey()),
		"gemini_model", generator.Model(),
		"gemini_key", logger.MaskSecret(cfg.GeminiAPIKey),
		"ai_min_interval", gate.Interval(),
		"watch_locations", len(cfg.Locations),
		"mqtt", cfg.MQTTEnabled())

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
	case err := <-listenErr:
		if err != nil {
			log.Errorw("Fiber server stopped", "error", err)
			return 1
		}
	}

	log.Infow("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("Error during shutdown", "error", err)
		return 1
	}
	return 0
}
