// Package config loads the service configuration from the environment.
// A .env file in the working directory is read first; real environment
// variables take precedence over it.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/agrosense/agrosense-backend/internal/logger"
	"github.com/agrosense/agrosense-backend/internal/weather"
)

const (
	ProviderOpenWeather = "openweather"
	ProviderWeatherAPI  = "weatherapi"

	defaultWatchCountry = "IN"
)

type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development" validate:"oneof=development production test"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Port        string `envconfig:"PORT" default:"5000" validate:"required,numeric"`

	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY" validate:"required"`
	GeminiModel   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	AIMinInterval time.Duration `envconfig:"AI_MIN_INTERVAL" default:"4s" validate:"gt=0"`

	WeatherProvider   string        `envconfig:"WEATHER_PROVIDER" default:"openweather" validate:"oneof=openweather weatherapi"`
	OpenWeatherAPIKey string        `envconfig:"OPENWEATHER_API_KEY" validate:"required_if=WeatherProvider openweather"`
	WeatherAPIKey     string        `envconfig:"WEATHERAPI_API_KEY" validate:"required_if=WeatherProvider weatherapi"`
	GeocoderAPIKey    string        `envconfig:"GEOCODER_API_KEY"`
	HTTPTimeout       time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"https://agriculture-ai-rouge.vercel.app" validate:"min=1,dive,required"`

	// Watch list: locations reported on every WatchInterval.
	WatchCities    []string      `envconfig:"WATCH_CITIES"`
	WatchCountries []string      `envconfig:"WATCH_COUNTRIES"`
	WatchInterval  time.Duration `envconfig:"WATCH_INTERVAL" default:"30m" validate:"gt=0"`

	// In-memory store retention.
	StoreMaxHistory int           `envconfig:"STORE_MAX_HISTORY" default:"48" validate:"gte=0"` // 0 = unlimited
	StoreMaxAge     time.Duration `envconfig:"STORE_MAX_AGE" default:"24h" validate:"gte=0"`    // 0 = unlimited

	// MQTT broadcast is disabled when MQTTBroker is empty.
	MQTTBroker   string `envconfig:"MQTT_BROKER"`
	MQTTClientID string `envconfig:"MQTT_CLIENT_ID" default:"agrosense-backend"`
	MQTTUsername string `envconfig:"MQTT_USERNAME"`
	MQTTPassword string `envconfig:"MQTT_PASSWORD"`
	MQTTTopic    string `envconfig:"MQTT_TOPIC" default:"agrosense/advisory/{location}"`

	// Locations is derived from WatchCities and WatchCountries.
	Locations []weather.Location `ignored:"true"`
}

// Load reads configuration from environment with sensible defaults and
// validates it. Any invalid or missing required value is an error.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.GetLogger().Infow("No .env file loaded", "error", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	locs, err := watchLocations(cfg.WatchCities, cfg.WatchCountries)
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	return cfg, nil
}

// WeatherProviderKey returns the key of the selected weather provider.
func (c *AppConfig) WeatherProviderKey() string {
	if c.WeatherProvider == ProviderWeatherAPI {
		return c.WeatherAPIKey
	}
	return c.OpenWeatherAPIKey
}

// MQTTEnabled reports whether advisories should be broadcast.
func (c *AppConfig) MQTTEnabled() bool {
	return strings.TrimSpace(c.MQTTBroker) != ""
}

// watchLocations pairs cities with countries. An empty country list means
// every city is in India.
func watchLocations(cities, countries []string) ([]weather.Location, error) {
	cities = trimAll(cities)
	countries = trimAll(countries)

	if len(cities) == 0 {
		return nil, nil
	}
	if len(countries) != 0 && len(cities) != len(countries) {
		return nil, fmt.Errorf("number of cities and countries must be the same")
	}

	locs := make([]weather.Location, 0, len(cities))
	for i, city := range cities {
		country := defaultWatchCountry
		if len(countries) != 0 {
			country = countries[i]
		}
		locs = append(locs, weather.Location{
			City:    city,
			Country: country,
		})
	}
	return locs, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
