package weather

import (
	"fmt"
	"math"
	"time"
)

const (
	msToKph            = 3.6
	defaultVisibilityM = 10000
)

// ShapeCurrent normalizes a provider reading into display and engine units:
// whole degrees, km/h wind, km visibility and local 12-hour sunrise/sunset.
func ShapeCurrent(r CurrentReading) CurrentConditions {
	visibility := float64(defaultVisibilityM)
	if r.VisibilityM != nil && *r.VisibilityM > 0 {
		visibility = *r.VisibilityM
	}

	zone := r.Zone
	if zone == nil {
		zone = time.UTC
	}

	return CurrentConditions{
		Condition:     r.Condition,
		Description:   r.Description,
		Temperature:   math.Round(r.TemperatureC),
		FeelsLike:     math.Round(r.FeelsLikeC),
		Humidity:      clampPercent(r.HumidityPct),
		Wind:          math.Round(math.Max(r.WindSpeedMS, 0) * msToKph),
		WindDirection: ResolveDirection(r.WindDeg),
		Pressure:      r.PressureHpa,
		Visibility:    math.Round(visibility / 1000),
		Location:      placeLabel(r.Place, r.CountryCode),
		Icon:          r.Icon,
		Sunrise:       clockTime(r.Sunrise, zone),
		Sunset:        clockTime(r.Sunset, zone),
		Clouds:        clampPercent(r.CloudsPct),
		Rain:          math.Max(r.Rain1hMm, 0),
	}
}

func placeLabel(place, country string) string {
	switch {
	case place == "":
		return country
	case country == "":
		return place
	default:
		return fmt.Sprintf("%s, %s", place, country)
	}
}

func clockTime(t time.Time, zone *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(zone).Format("03:04 PM")
}

func clampPercent(v int) int {
	return min(max(v, 0), 100)
}
