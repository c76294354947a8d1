// internal/sched/clock.go

package sched

import (
	"math"
	"sync/atomic"
	"time"
)

// Clock is the monotonic time source used for deadlines and frame budgets.
// Readings are offsets from an arbitrary origin and never decrease.
type Clock interface {
	Now() time.Duration
}

// MonotonicClock reads the process monotonic clock relative to its creation.
type MonotonicClock struct {
	origin time.Time
}

// NewMonotonicClock creates a clock whose origin is the current instant.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{origin: time.Now()}
}

// Now returns the time elapsed since the clock was created.
func (c *MonotonicClock) Now() time.Duration {
	return time.Since(c.origin)
}

// ManualClock only moves when told to. It is meant for tests and replays
// where the flush loop must observe exact readings.
type ManualClock struct {
	now atomic.Int64
}

// NewManualClock creates a manual clock reading start.
func NewManualClock(start time.Duration) *ManualClock {
	c := &ManualClock{}
	c.now.Store(int64(start))
	return c
}

// Now returns the current reading.
func (c *ManualClock) Now() time.Duration {
	return time.Duration(c.now.Load())
}

// Advance moves the clock forward by d. Negative values are ignored so the
// clock stays monotonic.
func (c *ManualClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.now.Add(int64(d))
}

// addSat returns t+d, pinned at the largest reading instead of wrapping.
func addSat(t, d time.Duration) time.Duration {
	if d > 0 && t > math.MaxInt64-d {
		return math.MaxInt64
	}
	return t + d
}
