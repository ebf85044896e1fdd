package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/agrosense/agrosense-backend/internal/apperrors"
	"github.com/agrosense/agrosense-backend/internal/weather"
)

// forecastSlots is three days of 3-hour slots.
const forecastSlots = 9

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(cfg HTTPClientConfig, apiKey string) *OpenWeatherProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5"
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

var openWeatherMessages = errorMessages{
	auth:     "Invalid API key. Please check your OpenWeather API configuration.",
	notFound: "Location not found. Please try a different city name.",
}

type owCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, loc weather.Location) (weather.CurrentReading, error) {
	if p.apiKey == "" {
		return weather.CurrentReading{}, apperrors.AuthFailed(openWeatherMessages.auth, errMissingKey)
	}

	var payload struct {
		Dt       int64         `json:"dt"`
		Name     string        `json:"name"`
		Timezone *int          `json:"timezone"`
		Weather  []owCondition `json:"weather"`
		Main     struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
			Pressure  float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
		Visibility *float64 `json:"visibility"`
		Clouds     struct {
			All int `json:"all"`
		} `json:"clouds"`
		Rain struct {
			OneH float64 `json:"1h"`
		} `json:"rain"`
		Sys struct {
			Country string `json:"country"`
			Sunrise int64  `json:"sunrise"`
			Sunset  int64  `json:"sunset"`
		} `json:"sys"`
	}

	if err := getJSON(ctx, p.httpCfg, p.circuit, p.endpoint("weather", loc, false), &payload); err != nil {
		return weather.CurrentReading{}, classify(err, openWeatherMessages)
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	var cond owCondition
	if len(payload.Weather) > 0 {
		cond = payload.Weather[0]
	}

	return weather.CurrentReading{
		ProviderName: p.name,
		Timestamp:    ts,
		Place:        payload.Name,
		CountryCode:  payload.Sys.Country,
		Condition:    cond.Main,
		Description:  cond.Description,
		Icon:         cond.Icon,
		TemperatureC: payload.Main.Temp,
		FeelsLikeC:   payload.Main.FeelsLike,
		HumidityPct:  payload.Main.Humidity,
		WindSpeedMS:  payload.Wind.Speed,
		WindDeg:      payload.Wind.Deg,
		PressureHpa:  payload.Main.Pressure,
		VisibilityM:  payload.Visibility,
		CloudsPct:    payload.Clouds.All,
		Rain1hMm:     payload.Rain.OneH,
		Sunrise:      unixOrZero(payload.Sys.Sunrise),
		Sunset:       unixOrZero(payload.Sys.Sunset),
		Zone:         offsetZone(payload.Timezone),
	}, nil
}

func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, loc weather.Location) (weather.ForecastFeed, error) {
	if p.apiKey == "" {
		return weather.ForecastFeed{}, apperrors.AuthFailed(openWeatherMessages.auth, errMissingKey)
	}

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
			Weather []owCondition `json:"weather"`
		} `json:"list"`
		City struct {
			Timezone *int `json:"timezone"`
		} `json:"city"`
	}

	if err := getJSON(ctx, p.httpCfg, p.circuit, p.endpoint("forecast", loc, true), &payload); err != nil {
		return weather.ForecastFeed{}, classify(err, openWeatherMessages)
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		s := weather.ForecastSample{
			Timestamp:    time.Unix(item.Dt, 0).UTC(),
			TemperatureC: item.Main.Temp,
		}
		if len(item.Weather) > 0 {
			s.Condition = item.Weather[0].Main
			s.Icon = item.Weather[0].Icon
		}
		samples = append(samples, s)
	}

	return weather.ForecastFeed{
		Samples: samples,
		Zone:    offsetZone(payload.City.Timezone),
	}, nil
}

func (p *OpenWeatherProvider) endpoint(path string, loc weather.Location, forecast bool) string {
	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	if loc.HasCoordinates() {
		values.Set("lat", strconv.FormatFloat(*loc.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(*loc.Lon, 'f', -1, 64))
	} else {
		values.Set("q", loc.Query())
	}
	if forecast {
		values.Set("cnt", strconv.Itoa(forecastSlots))
	}
	return fmt.Sprintf("%s/%s?%s", p.baseURL, path, values.Encode())
}

// offsetZone turns OpenWeather's "seconds east of UTC" into a zone.
func offsetZone(offset *int) *time.Location {
	if offset == nil {
		return nil
	}
	return time.FixedZone(fmt.Sprintf("UTC%+03d:%02d", *offset/3600, abs(*offset%3600)/60), *offset)
}

func unixOrZero(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)
