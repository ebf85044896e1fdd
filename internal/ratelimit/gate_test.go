package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when Sleep is called.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestGateFirstCallDoesNotWait(t *testing.T) {
	clock := newFakeClock()
	g := NewGate(4*time.Second, WithClock(clock))

	assert.Zero(t, g.Wait())
	assert.Empty(t, clock.sleeps)
}

func TestGateWaitsOutRemainder(t *testing.T) {
	clock := newFakeClock()
	g := NewGate(4*time.Second, WithClock(clock))

	g.Wait()
	clock.Advance(1500 * time.Millisecond)

	assert.Equal(t, 2500*time.Millisecond, g.Wait())
	clock.Advance(10 * time.Second)
	assert.Zero(t, g.Wait())
}

func TestGateSerializesConcurrentCallers(t *testing.T) {
	clock := newFakeClock()
	g := NewGate(4*time.Second, WithClock(clock))

	const callers = 5
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted []time.Time
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Wait()
			mu.Lock()
			admitted = append(admitted, clock.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, admitted, callers)
	// Every admission after the first slept the full interval.
	assert.Len(t, clock.sleeps, callers-1)
	for _, d := range clock.sleeps {
		assert.Equal(t, 4*time.Second, d)
	}
	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, start.Add(time.Duration(callers-1)*4*time.Second), clock.Now())
}

func TestNewGateDefaultsInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, NewGate(0).Interval())
	assert.Equal(t, time.Second, NewGate(time.Second).Interval())
}
