// Package scheduler refreshes advisories for the configured watch list.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/agrosense/agrosense-backend/internal/apperrors"
	"github.com/agrosense/agrosense-backend/internal/logger"
	"github.com/agrosense/agrosense-backend/internal/weather"
)

const (
	defaultInterval = 30 * time.Minute
	jobTimeout      = 30 * time.Second
)

// Reporter builds a live report for one location.
type Reporter interface {
	Report(ctx context.Context, loc weather.Location, crop string) (*weather.Report, error)
}

// Publisher broadcasts a freshly stored report.
type Publisher interface {
	Publish(ctx context.Context, report weather.Report) error
}

// Scheduler periodically reports on every watched location, stores the
// result and hands it to the publisher.
type Scheduler struct {
	scheduler *gocron.Scheduler
	reporter  Reporter
	store     weather.Store
	publisher Publisher
	locations []weather.Location
	interval  time.Duration
}

// New creates a new Scheduler. A nil publisher disables broadcasting.
func New(locations []weather.Location, interval time.Duration, reporter Reporter, store weather.Store, publisher Publisher) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		reporter:  reporter,
		store:     store,
		publisher: publisher,
		locations: locations,
		interval:  interval,
	}
}

// Start schedules the refresh job, runs it immediately and starts the
// underlying scheduler.
func (s *Scheduler) Start() error {
	log := logger.GetLogger()
	if len(s.locations) == 0 {
		log.Infow("Scheduler has no watch locations; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Infow("Scheduler started", "locations", len(s.locations), "interval", s.interval)
	return nil
}

// RunOnce refreshes every watched location concurrently and returns the
// number of reports stored. Failures are logged and skipped.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	log := logger.GetLogger()
	log.Debugw("Running watch-list refresh", "locations", len(s.locations))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		stored int
	)
	for _, loc := range s.locations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.refresh(ctx, loc) {
				mu.Lock()
				stored++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	log.Infow("Watch-list refresh completed", "stored", stored, "locations", len(s.locations))
	return stored
}

func (s *Scheduler) refresh(ctx context.Context, loc weather.Location) bool {
	log := logger.GetLogger()

	report, err := s.reporter.Report(ctx, loc, "")
	if err != nil {
		if apperrors.Is(err, apperrors.UpstreamNotFound) {
			log.Errorw("Watched location is unknown to the provider; check WATCH_CITIES", "location", loc.Key(), "error", err)
		} else {
			log.Warnw("Watch-list report failed", "location", loc.Key(), "error", err)
		}
		return false
	}
	s.store.SaveReport(*report)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, *report); err != nil {
			log.Warnw("Advisory publish failed", "location", loc.Key(), "error", err)
		}
	}
	return true
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
