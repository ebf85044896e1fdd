package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrosense/agrosense-backend/internal/apperrors"
	"github.com/agrosense/agrosense-backend/internal/weather"
)

// weatherAPIBody builds a one-day forecast.json payload for Asia/Kolkata with
// hourly slots starting at local midnight on 2024-03-10.
func weatherAPIBody() string {
	ist := time.FixedZone("IST", 19800)
	midnight := time.Date(2024, 3, 10, 0, 0, 0, 0, ist)

	hours := make([]string, 0, 24)
	for h := range 24 {
		text := "Sunny"
		if h >= 15 {
			text = "Patchy rain possible"
		}
		hours = append(hours, fmt.Sprintf(
			`{"time_epoch": %d, "temp_c": %d, "condition": {"text": %q, "icon": "//cdn.weatherapi.com/113.png"}}`,
			midnight.Add(time.Duration(h)*time.Hour).Unix(), 20+h/2, text))
	}

	return `{
  "location": {"name": "Nagpur", "country": "India", "tz_id": "Asia/Kolkata"},
  "current": {
    "last_updated_epoch": 1710050400,
    "temp_c": 33.2, "feelslike_c": 35.1, "humidity": 28,
    "wind_kph": 18.0, "wind_degree": 90, "pressure_mb": 1011,
    "vis_km": 6.0, "cloud": 10, "precip_mm": 0,
    "condition": {"text": "Partly cloudy", "icon": "//cdn.weatherapi.com/116.png"}
  },
  "forecast": {"forecastday": [{
    "date": "2024-03-10",
    "astro": {"sunrise": "06:28 AM", "sunset": "06:22 PM"},
    "hour": [` + strings.Join(hours, ",") + `]
  }]}
}`
}

func TestWeatherAPIFetchCurrent(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast.json", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		assert.Equal(t, "3", r.URL.Query().Get("days"))
		_, _ = w.Write([]byte(weatherAPIBody()))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(HTTPClientConfig{Client: srv.Client(), BaseURL: srv.URL}, "key")
	got, err := p.FetchCurrent(context.Background(), weather.Location{City: "Nagpur", Country: "IN"})
	require.NoError(t, err)

	assert.Equal(t, "Nagpur,IN", gotQuery)
	assert.Equal(t, "Clouds", got.Condition)
	assert.Equal(t, "partly cloudy", got.Description)
	assert.Equal(t, "https://cdn.weatherapi.com/116.png", got.Icon)
	assert.InDelta(t, 5.0, got.WindSpeedMS, 1e-9)
	require.NotNil(t, got.VisibilityM)
	assert.Equal(t, 6000.0, *got.VisibilityM)

	shaped := weather.ShapeCurrent(got)
	assert.Equal(t, 18.0, shaped.Wind)
	assert.Equal(t, "E", shaped.WindDirection)
	assert.Equal(t, "06:28 AM", shaped.Sunrise)
	assert.Equal(t, "06:22 PM", shaped.Sunset)
	assert.Equal(t, 6.0, shaped.Visibility)
}

func TestWeatherAPIFetchForecastKeepsThreeHourSlots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(weatherAPIBody()))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(HTTPClientConfig{Client: srv.Client(), BaseURL: srv.URL}, "key")
	feed, err := p.FetchForecast(context.Background(), weather.Location{City: "Nagpur"})
	require.NoError(t, err)

	require.Len(t, feed.Samples, 8)
	for _, s := range feed.Samples {
		assert.Zero(t, s.Timestamp.In(feed.Zone).Hour()%3)
	}

	days := weather.AggregateForecast(feed.Samples, feed.Zone)
	require.Len(t, days, 1)
	assert.Equal(t, "Mar 10", days[0].Date)
	// Five sunny slots (00..12h) beat three rainy ones (15..21h).
	assert.Equal(t, "Clear", days[0].Condition)
}

func TestWeatherAPIReportMakesOneRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(weatherAPIBody()))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(HTTPClientConfig{Client: srv.Client(), BaseURL: srv.URL}, "key")
	report, err := weather.NewService(p).Report(context.Background(), weather.Location{City: "Nagpur"}, "")
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "Nagpur, India", report.Weather.Current.Location)
	require.Len(t, report.Weather.Forecast, 1)
	assert.Equal(t, "Clear", report.Weather.Forecast[0].Condition)
}

func TestWeatherAPIFetchSnapshot(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(weatherAPIBody()))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(HTTPClientConfig{Client: srv.Client(), BaseURL: srv.URL}, "key")
	current, feed, err := p.FetchSnapshot(context.Background(), weather.Location{City: "Nagpur"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 33.2, current.TemperatureC)
	assert.Len(t, feed.Samples, 8)
	assert.Equal(t, "Asia/Kolkata", feed.Zone.String())
}

func TestWeatherAPIUnknownLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(HTTPClientConfig{Client: srv.Client(), BaseURL: srv.URL}, "key")
	_, err := p.FetchCurrent(context.Background(), weather.Location{City: "Atlantis"})
	assert.True(t, apperrors.Is(err, apperrors.UpstreamNotFound))
}

func TestMapWeatherAPICondition(t *testing.T) {
	tests := map[string]string{
		"Sunny":                       "Clear",
		"Clear":                       "Clear",
		"Overcast":                    "Clouds",
		"Patchy rain possible":        "Rain",
		"Light drizzle":               "Drizzle",
		"Moderate or heavy snow":      "Snow",
		"Thundery outbreaks possible": "Thunderstorm",
		"Mist":                        "Mist",
		"":                            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, mapWeatherAPICondition(in), in)
	}
}
