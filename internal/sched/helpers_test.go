package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeHost offers every primitive and runs nothing until told to.
type fakeHost struct {
	messages []func()
	frames   []func()
	timeouts []func()
	delays   []time.Duration
}

func (h *fakeHost) PostMessage(fn func())  { h.messages = append(h.messages, fn) }
func (h *fakeHost) RequestFrame(fn func()) { h.frames = append(h.frames, fn) }
func (h *fakeHost) SetTimeout(fn func(), delay time.Duration) {
	h.timeouts = append(h.timeouts, fn)
	h.delays = append(h.delays, delay)
}

// runNext runs the oldest queued message. It reports false when none is queued.
func (h *fakeHost) runNext() bool {
	if len(h.messages) == 0 {
		return false
	}
	fn := h.messages[0]
	h.messages = h.messages[1:]
	fn()
	return true
}

// runFrame runs the frame callbacks requested so far.
func (h *fakeHost) runFrame() int {
	batch := h.frames
	h.frames = nil
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// runTimeouts runs the timeout callbacks queued so far.
func (h *fakeHost) runTimeouts() int {
	batch := h.timeouts
	h.timeouts = nil
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// drain runs messages one at a time until none are left.
func (h *fakeHost) drain(t *testing.T, limit int) int {
	t.Helper()
	n := 0
	for h.runNext() {
		n++
		require.LessOrEqual(t, n, limit, "host never went quiet")
	}
	return n
}

// timeoutHost only offers the deferred-execution fallback.
type timeoutHost struct {
	fns    []func()
	delays []time.Duration
}

func (h *timeoutHost) SetTimeout(fn func(), delay time.Duration) {
	h.fns = append(h.fns, fn)
	h.delays = append(h.delays, delay)
}

func (h *timeoutHost) runAll() int {
	batch := h.fns
	h.fns = nil
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// messageOnlyHost has macrotasks but no frames.
type messageOnlyHost struct {
	timeoutHost
	messages []func()
}

func (h *messageOnlyHost) PostMessage(fn func()) { h.messages = append(h.messages, fn) }

func newTestScheduler(t *testing.T, cfg Config, host Host, clock Clock, opts ...Option) *Scheduler {
	t.Helper()
	s, err := New(cfg, host, append([]Option{WithClock(clock)}, opts...)...)
	require.NoError(t, err)
	return s
}

// record returns a callback that appends name to order and completes.
func record(order *[]string, name string) Callback {
	return func(bool) Result {
		*order = append(*order, name)
		return Done()
	}
}
