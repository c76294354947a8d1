// internal/hostloop/frameclock.go

package hostloop

import (
	"sync/atomic"
	"time"
)

// FrameClock emits frame boundaries and counts them atomically.
// A boundary that arrives while the previous one is still unconsumed is
// counted but not delivered, the way a busy host drops frames.
type FrameClock struct {
	Ch      chan struct{}
	count   atomic.Int64
	dropped atomic.Int64
	started atomic.Bool
	stop    chan struct{}
	done    chan struct{}
}

// NewFrameClock creates a clock but does not start it.
func NewFrameClock() *FrameClock {
	return &FrameClock{
		Ch:   make(chan struct{}, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start begins emitting frames at the given interval.
func (c *FrameClock) Start(interval time.Duration) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer close(c.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.count.Add(1)
				select {
				case c.Ch <- struct{}{}:
				default:
					c.dropped.Add(1)
				}
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop signals the clock to stop emitting frames and waits for it.
// It must be called at most once, and only after Start.
func (c *FrameClock) Stop() {
	if !c.started.Load() {
		return
	}
	close(c.stop)
	<-c.done
}

// Count returns the number of frame boundaries so far.
func (c *FrameClock) Count() int64 {
	return c.count.Load()
}

// Dropped returns the number of boundaries the consumer missed.
func (c *FrameClock) Dropped() int64 {
	return c.dropped.Load()
}
