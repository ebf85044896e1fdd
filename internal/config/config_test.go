package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrosense/agrosense-backend/internal/weather"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("OPENWEATHER_API_KEY", "ow-key")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 4*time.Second, cfg.AIMinInterval)
	assert.Equal(t, ProviderOpenWeather, cfg.WeatherProvider)
	assert.Equal(t, "ow-key", cfg.WeatherProviderKey())
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"https://agriculture-ai-rouge.vercel.app"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.WatchInterval)
	assert.Equal(t, 48, cfg.StoreMaxHistory)
	assert.Equal(t, 24*time.Hour, cfg.StoreMaxAge)
	assert.Equal(t, "agrosense/advisory/{location}", cfg.MQTTTopic)
	assert.False(t, cfg.MQTTEnabled())
	assert.Empty(t, cfg.Locations)
}

func TestLoadRequiresGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENWEATHER_API_KEY", "ow-key")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GeminiAPIKey")
}

func TestLoadRequiresSelectedProviderKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("OPENWEATHER_API_KEY", "ow-key")
	t.Setenv("WEATHER_PROVIDER", "weatherapi")
	t.Setenv("WEATHERAPI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WeatherAPIKey")

	t.Setenv("WEATHERAPI_API_KEY", "wa-key")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "wa-key", cfg.WeatherProviderKey())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"PORT":             "http",
		"WEATHER_PROVIDER": "openmeteo",
		"AI_MIN_INTERVAL":  "soon",
		"ENVIRONMENT":      "staging",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadWatchList(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("WATCH_CITIES", "Pune, Nagpur")
	t.Setenv("WATCH_COUNTRIES", "IN,IN")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173,https://agrosense.example")
	t.Setenv("MQTT_BROKER", "tcp://localhost:1883")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []weather.Location{
		{City: "Pune", Country: "IN"},
		{City: "Nagpur", Country: "IN"},
	}, cfg.Locations)
	assert.Len(t, cfg.AllowedOrigins, 2)
	assert.True(t, cfg.MQTTEnabled())
}

func TestWatchLocations(t *testing.T) {
	locs, err := watchLocations([]string{"Nashik", "Indore"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []weather.Location{{City: "Nashik", Country: "IN"}, {City: "Indore", Country: "IN"}}, locs)

	_, err = watchLocations([]string{"Nashik", "Indore"}, []string{"IN"})
	assert.Error(t, err)

	locs, err = watchLocations([]string{" "}, []string{"IN"})
	require.NoError(t, err)
	assert.Empty(t, locs)
}
