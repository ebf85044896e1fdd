package weather

import (
	"context"
	"time"
)

// Provider abstracts a weather data source (e.g. OpenWeatherMap, WeatherAPI).
type Provider interface {
	Name() string
	FetchCurrent(ctx context.Context, loc Location) (CurrentReading, error)
	FetchForecast(ctx context.Context, loc Location) (ForecastFeed, error)
}

// SnapshotProvider is implemented by providers whose current conditions and
// forecast come from a single upstream response. The service prefers it so a
// report costs one call and both halves describe the same moment.
type SnapshotProvider interface {
	Provider
	FetchSnapshot(ctx context.Context, loc Location) (CurrentReading, ForecastFeed, error)
}

// Geocoder resolves a city to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, city, country string) (lat, lon float64, err error)
}

// Store is the contract the in-memory report store must satisfy.
type Store interface {
	SaveReport(report Report)
	GetLatest(loc Location) (Report, error)
	GetRange(loc Location, from, to time.Time) ([]Report, error)
	LatestAll() []Report
}
