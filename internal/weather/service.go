package weather

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agrosense/agrosense-backend/internal/advisory"
	"github.com/agrosense/agrosense-backend/internal/logger"
)

// Service fetches weather from one provider and derives the advisory report.
type Service struct {
	provider Provider
	geocoder Geocoder
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithGeocoder resolves city-only locations to coordinates before fetching.
func WithGeocoder(g Geocoder) Option {
	return func(s *Service) {
		s.geocoder = g
	}
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new Service.
func NewService(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProviderName reports which source backs the service.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// Report fetches current conditions and the forecast, then shapes,
// aggregates and evaluates them. crop is optional; when it names a known crop
// the report carries a temperature-suitability note for it.
// Any provider failure fails the whole report.
func (s *Service) Report(ctx context.Context, loc Location, crop string) (*Report, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	log := logger.GetLogger()
	target := s.resolve(ctx, loc)
	log.Debugw("Fetching weather", "provider", s.provider.Name(), "location", target.Key())

	current, feed, err := s.fetch(ctx, target)
	if err != nil {
		log.Errorw("Weather fetch failed", "provider", s.provider.Name(), "location", target.Key(), "error", err)
		return nil, err
	}

	zone := feed.Zone
	if zone == nil {
		zone = current.Zone
	}

	shaped := ShapeCurrent(current)
	report := &Report{
		ID:          uuid.NewString(),
		Location:    loc,
		Provider:    s.provider.Name(),
		GeneratedAt: s.now().UTC(),
		Weather: Conditions{
			Current:  shaped,
			Forecast: AggregateForecast(feed.Samples, zone),
		},
		Advisory:   advisory.Compute(shaped.Snapshot()),
		CropAdvice: advisory.LookupCropAdvice(crop, shaped.Temperature),
	}

	log.Infow("Weather report ready",
		"location", target.Key(),
		"priority", report.Advisory.Priority,
		"forecastDays", len(report.Weather.Forecast))

	return report, nil
}

// fetch gets current conditions and the forecast, in one call when the
// provider supports it and concurrently otherwise.
func (s *Service) fetch(ctx context.Context, loc Location) (CurrentReading, ForecastFeed, error) {
	if sp, ok := s.provider.(SnapshotProvider); ok {
		return sp.FetchSnapshot(ctx, loc)
	}

	var (
		current CurrentReading
		feed    ForecastFeed
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.provider.FetchCurrent(gctx, loc)
		return err
	})
	g.Go(func() error {
		var err error
		feed, err = s.provider.FetchForecast(gctx, loc)
		return err
	})
	if err := g.Wait(); err != nil {
		return CurrentReading{}, ForecastFeed{}, err
	}
	return current, feed, nil
}

// resolve geocodes city-only locations when a geocoder is configured. Geocoding
// failures fall back to the provider's own city search.
func (s *Service) resolve(ctx context.Context, loc Location) Location {
	if s.geocoder == nil || loc.HasCoordinates() {
		return loc
	}

	lat, lon, err := s.geocoder.Geocode(ctx, loc.City, loc.Country)
	if err != nil {
		logger.GetLogger().Warnw("Geocoding failed, using city query", "city", loc.City, "country", loc.Country, "error", err)
		return loc
	}

	resolved := loc
	resolved.Lat = &lat
	resolved.Lon = &lon
	return resolved
}
