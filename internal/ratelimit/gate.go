// Package ratelimit provides the process-wide gate in front of the language model.
package ratelimit

import (
	"sync"
	"time"
)

// DefaultInterval is the minimum gap between two outbound model calls.
const DefaultInterval = 4 * time.Second

// Clock abstracts time so tests can observe waits without sleeping.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Gate enforces a minimum interval between calls across all goroutines.
// Callers queue on the mutex and each one waits out the remainder of the
// interval while holding it, so admissions are strictly serialized.
type Gate struct {
	mu       sync.Mutex
	interval time.Duration
	clock    Clock
	last     time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(g *Gate) {
		g.clock = c
	}
}

// NewGate creates a gate. A non-positive interval falls back to DefaultInterval.
func NewGate(interval time.Duration, opts ...Option) *Gate {
	if interval <= 0 {
		interval = DefaultInterval
	}
	g := &Gate{
		interval: interval,
		clock:    systemClock{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Wait blocks until at least the gate interval has passed since the previous
// admission, then records this admission. It returns how long the caller slept.
// There is no cancellation: once a caller is admitted the slot is spent even if
// its request is abandoned.
func (g *Gate) Wait() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	var waited time.Duration
	if !g.last.IsZero() {
		if elapsed := g.clock.Now().Sub(g.last); elapsed < g.interval {
			waited = g.interval - elapsed
			g.clock.Sleep(waited)
		}
	}
	g.last = g.clock.Now()
	return waited
}

// Interval returns the configured minimum gap.
func (g *Gate) Interval() time.Duration {
	return g.interval
}
