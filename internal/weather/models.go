package weather

import (
	"fmt"
	"strings"
	"time"

	"github.com/agrosense/agrosense-backend/internal/advisory"
	"github.com/agrosense/agrosense-backend/internal/apperrors"
)

// Location identifies the place a report is for. Coordinates take precedence
// over the city name when both are present.
type Location struct {
	City    string   `json:"city,omitempty"`
	Country string   `json:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (l Location) HasCoordinates() bool {
	return l.Lat != nil && l.Lon != nil
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	if l.HasCoordinates() {
		return fmt.Sprintf("%.4f,%.4f", *l.Lat, *l.Lon)
	}
	return strings.ToLower(strings.TrimSpace(l.City)) + ":" + strings.ToUpper(strings.TrimSpace(l.Country))
}

// Query renders the "city,country" form providers accept.
func (l Location) Query() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

// Validate rejects locations with neither a city nor coordinates.
func (l Location) Validate() error {
	if l.HasCoordinates() || strings.TrimSpace(l.City) != "" {
		return nil
	}
	return apperrors.ValidationFailed("Either city or coordinates must be provided")
}

// CurrentReading is a provider's current-weather payload in provider-neutral form.
// Zero values stand in for anything the provider omitted.
type CurrentReading struct {
	ProviderName string
	Timestamp    time.Time

	Place       string
	CountryCode string
	Condition   string
	Description string
	Icon        string

	TemperatureC float64
	FeelsLikeC   float64
	HumidityPct  int
	WindSpeedMS  float64
	WindDeg      float64
	PressureHpa  float64
	// VisibilityM is nil when the provider did not report visibility.
	VisibilityM *float64
	CloudsPct   int
	Rain1hMm    float64

	Sunrise time.Time
	Sunset  time.Time
	// Zone is the location's local zone when the provider reports it.
	Zone *time.Location
}

// CurrentConditions is the display shape of the current weather.
type CurrentConditions struct {
	Condition     string  `json:"condition"`
	Description   string  `json:"description"`
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feelsLike"`
	Humidity      int     `json:"humidity"`
	Wind          float64 `json:"wind"` // km/h
	WindDirection string  `json:"windDirection"`
	Pressure      float64 `json:"pressure"`
	Visibility    float64 `json:"visibility"` // km
	Location      string  `json:"location"`
	Icon          string  `json:"icon"`
	Sunrise       string  `json:"sunrise"`
	Sunset        string  `json:"sunset"`
	Clouds        int     `json:"clouds"`
	Rain          float64 `json:"rain"`
}

// Snapshot converts the shaped conditions into advisory engine input.
func (c CurrentConditions) Snapshot() advisory.Snapshot {
	return advisory.Snapshot{
		TemperatureC: c.Temperature,
		FeelsLikeC:   c.FeelsLike,
		HumidityPct:  c.Humidity,
		WindKph:      c.Wind,
		Condition:    c.Condition,
		RainMm:       c.Rain,
	}
}

// ForecastSample is one 3-hour forecast slot.
type ForecastSample struct {
	Timestamp    time.Time
	TemperatureC float64
	Condition    string
	Icon         string
}

// ForecastFeed is the provider's forecast response.
type ForecastFeed struct {
	Samples []ForecastSample
	Zone    *time.Location
}

// DaySummary collapses one calendar day of forecast samples.
type DaySummary struct {
	Day       string `json:"day"`
	Temp      int    `json:"temp"`
	Condition string `json:"condition"`
	Icon      string `json:"icon"`
	Date      string `json:"date"`
}

// Conditions groups the current weather with the daily outlook.
type Conditions struct {
	Current  CurrentConditions `json:"current"`
	Forecast []DaySummary      `json:"forecast"`
}

// Report is everything computed for one location in one pass.
type Report struct {
	ID          string          `json:"id"`
	Location    Location        `json:"location"`
	Provider    string          `json:"provider"`
	GeneratedAt time.Time       `json:"generatedAt"` // always UTC
	Weather     Conditions      `json:"weather"`
	Advisory    advisory.Result `json:"aiSuggestion"`
	CropAdvice  string          `json:"cropAdvice,omitempty"`
}
