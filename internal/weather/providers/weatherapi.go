package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	"github.com/agrosense/agrosense-backend/internal/apperrors"
	"github.com/agrosense/agrosense-backend/internal/common"
	"github.com/agrosense/agrosense-backend/internal/weather"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
// Current conditions and the forecast both come from forecast.json.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker

	inflight singleflight.Group
}

func NewWeatherAPIProvider(cfg HTTPClientConfig, apiKey string) *WeatherAPIProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.weatherapi.com/v1"
	}

	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

var weatherAPIMessages = errorMessages{
	auth:     "Invalid API key. Please check your WeatherAPI configuration.",
	notFound: "Location not found. Please try a different city name.",
}

type waCondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

type waPayload struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
		TzID    string `json:"tz_id"`
	} `json:"location"`
	Current struct {
		LastUpdatedEpoch int64       `json:"last_updated_epoch"`
		TempC            float64     `json:"temp_c"`
		FeelsLikeC       float64     `json:"feelslike_c"`
		Humidity         int         `json:"humidity"`
		WindKph          float64     `json:"wind_kph"`
		WindDegree       float64     `json:"wind_degree"`
		PressureMb       float64     `json:"pressure_mb"`
		VisKm            *float64    `json:"vis_km"`
		Cloud            int         `json:"cloud"`
		PrecipMm         float64     `json:"precip_mm"`
		Condition        waCondition `json:"condition"`
	} `json:"current"`
	Forecast struct {
		Forecastday []struct {
			Date  string `json:"date"`
			Astro struct {
				Sunrise string `json:"sunrise"`
				Sunset  string `json:"sunset"`
			} `json:"astro"`
			Hour []struct {
				TimeEpoch int64       `json:"time_epoch"`
				TempC     float64     `json:"temp_c"`
				Condition waCondition `json:"condition"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) FetchCurrent(ctx context.Context, loc weather.Location) (weather.CurrentReading, error) {
	payload, zone, err := p.fetch(ctx, loc)
	if err != nil {
		return weather.CurrentReading{}, err
	}
	return p.current(payload, zone), nil
}

// FetchForecast keeps every third hourly slot so the feed matches the 3-hour
// cadence of the other providers.
func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, loc weather.Location) (weather.ForecastFeed, error) {
	payload, zone, err := p.fetch(ctx, loc)
	if err != nil {
		return weather.ForecastFeed{}, err
	}
	return p.forecast(payload, zone), nil
}

// FetchSnapshot reads current conditions and the forecast from one
// forecast.json response.
func (p *WeatherAPIProvider) FetchSnapshot(ctx context.Context, loc weather.Location) (weather.CurrentReading, weather.ForecastFeed, error) {
	payload, zone, err := p.fetch(ctx, loc)
	if err != nil {
		return weather.CurrentReading{}, weather.ForecastFeed{}, err
	}
	return p.current(payload, zone), p.forecast(payload, zone), nil
}

func (p *WeatherAPIProvider) current(payload waPayload, zone *time.Location) weather.CurrentReading {
	cur := payload.Current
	ts := time.Now().UTC()
	if cur.LastUpdatedEpoch > 0 {
		ts = time.Unix(cur.LastUpdatedEpoch, 0).UTC()
	}

	var visibility *float64
	if cur.VisKm != nil {
		m := *cur.VisKm * 1000
		visibility = &m
	}

	reading := weather.CurrentReading{
		ProviderName: p.name,
		Timestamp:    ts,
		Place:        payload.Location.Name,
		CountryCode:  payload.Location.Country,
		Condition:    mapWeatherAPICondition(cur.Condition.Text),
		Description:  strings.ToLower(strings.TrimSpace(cur.Condition.Text)),
		Icon:         iconURL(cur.Condition.Icon),
		TemperatureC: cur.TempC,
		FeelsLikeC:   cur.FeelsLikeC,
		HumidityPct:  cur.Humidity,
		// Convert wind from kph to m/s.
		WindSpeedMS: cur.WindKph / 3.6,
		WindDeg:     cur.WindDegree,
		PressureHpa: cur.PressureMb,
		VisibilityM: visibility,
		CloudsPct:   cur.Cloud,
		Rain1hMm:    cur.PrecipMm,
		Zone:        zone,
	}

	if days := payload.Forecast.Forecastday; len(days) > 0 {
		reading.Sunrise = astroTime(days[0].Date, days[0].Astro.Sunrise, zone)
		reading.Sunset = astroTime(days[0].Date, days[0].Astro.Sunset, zone)
	}
	return reading
}

func (p *WeatherAPIProvider) forecast(payload waPayload, zone *time.Location) weather.ForecastFeed {
	var samples []weather.ForecastSample
	for _, day := range payload.Forecast.Forecastday {
		for _, h := range day.Hour {
			ts := time.Unix(h.TimeEpoch, 0).In(zone)
			if ts.Hour()%3 != 0 {
				continue
			}
			samples = append(samples, weather.ForecastSample{
				Timestamp:    ts.UTC(),
				TemperatureC: h.TempC,
				Condition:    mapWeatherAPICondition(h.Condition.Text),
				Icon:         iconURL(h.Condition.Icon),
			})
		}
	}

	return weather.ForecastFeed{Samples: samples, Zone: zone}
}

func (p *WeatherAPIProvider) fetch(ctx context.Context, loc weather.Location) (waPayload, *time.Location, error) {
	if p.apiKey == "" {
		return waPayload{}, nil, apperrors.AuthFailed(weatherAPIMessages.auth, errMissingKey)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("days", "3")
	values.Set("aqi", "no")
	values.Set("alerts", "no")
	// WeatherAPI uses "q" for location; it accepts "city,country" or "lat,lon".
	if loc.HasCoordinates() {
		values.Set("q", fmt.Sprintf("%f,%f", *loc.Lat, *loc.Lon))
	} else {
		values.Set("q", loc.Query())
	}

	u := fmt.Sprintf("%s/forecast.json?%s", p.baseURL, values.Encode())
	// Concurrent requests for the same location share one upstream call, so
	// one caller going away must not cancel it for the others.
	v, err, _ := p.inflight.Do(u, func() (interface{}, error) {
		var payload waPayload
		if err := getJSON(context.WithoutCancel(ctx), p.httpCfg, p.circuit, u, &payload); err != nil {
			return nil, err
		}
		return payload, nil
	})
	if err != nil {
		// WeatherAPI answers unknown locations with 400 (error code 1006).
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusBadRequest {
			return waPayload{}, nil, apperrors.LocationNotFound(weatherAPIMessages.notFound, err)
		}
		return waPayload{}, nil, classify(err, weatherAPIMessages)
	}
	payload := v.(waPayload)

	zone := time.UTC
	if payload.Location.TzID != "" {
		if z, err := time.LoadLocation(payload.Location.TzID); err == nil {
			zone = z
		}
	}
	return payload, zone, nil
}

// mapWeatherAPICondition folds WeatherAPI's free-text condition into the
// OpenWeather main groups used across the report.
func mapWeatherAPICondition(text string) string {
	switch {
	case text == "":
		return ""
	case common.HasAnyFold(text, "thunder", "storm"):
		return "Thunderstorm"
	case common.HasAnyFold(text, "drizzle"):
		return "Drizzle"
	case common.HasAnyFold(text, "rain", "shower"):
		return "Rain"
	case common.HasAnyFold(text, "snow", "sleet", "blizzard", "ice pellets"):
		return "Snow"
	case common.HasAnyFold(text, "mist", "fog", "haze"):
		return "Mist"
	case common.HasAnyFold(text, "cloud", "overcast"):
		return "Clouds"
	case common.HasAnyFold(text, "sunny", "clear"):
		return "Clear"
	default:
		return strings.TrimSpace(text)
	}
}

func iconURL(icon string) string {
	if strings.HasPrefix(icon, "//") {
		return "https:" + icon
	}
	return icon
}

// astroTime parses WeatherAPI's "06:45 AM" astro times on the given local date.
func astroTime(date, clock string, zone *time.Location) time.Time {
	t, err := time.ParseInLocation("2006-01-02 03:04 PM", date+" "+clock, zone)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

var _ weather.SnapshotProvider = (*WeatherAPIProvider)(nil)
