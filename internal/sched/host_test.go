package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYieldAdapter_AutoPrefersMessages(t *testing.T) {
	host := &fakeHost{}
	s := newTestScheduler(t, DefaultConfig(), host, NewManualClock(0))

	assert.Equal(t, HostModeMessage, s.HostMode())

	s.Schedule(func(bool) Result { return Done() })
	assert.Len(t, host.messages, 1)
	assert.Empty(t, host.frames)
	assert.Empty(t, host.timeouts)
}

func TestYieldAdapter_ExplicitTargetUsesFrames(t *testing.T) {
	host := &fakeHost{}
	s := newTestScheduler(t, DefaultConfig(), host, NewManualClock(0))

	ran := false
	s.PlanWork(func() { ran = true })

	assert.Empty(t, host.messages)
	require.Len(t, host.frames, 1)
	host.runFrame()
	assert.True(t, ran)
}

func TestYieldAdapter_TimeoutFallback(t *testing.T) {
	host := &timeoutHost{}
	s := newTestScheduler(t, DefaultConfig(), host, NewManualClock(0))

	assert.Equal(t, HostModeTimeout, s.HostMode())

	var order []string
	s.Schedule(record(&order, "A"))
	require.Len(t, host.fns, 1)
	assert.Equal(t, []time.Duration{0}, host.delays)

	host.runAll()
	assert.Equal(t, []string{"A"}, order)
	assert.Equal(t, StateIdle, s.State())

	ran := false
	s.PlanWork(func() { ran = true })
	require.Len(t, host.fns, 1)
	host.runAll()
	assert.True(t, ran, "explicit targets also go through the fallback")
}

func TestYieldAdapter_PartialHostFallsBack(t *testing.T) {
	host := &messageOnlyHost{}
	s := newTestScheduler(t, DefaultConfig(), host, NewManualClock(0))

	assert.Equal(t, HostModeTimeout, s.HostMode())

	s.Schedule(func(bool) Result { return Done() })
	assert.Empty(t, host.messages)
	assert.Len(t, host.fns, 1)
}

func TestYieldAdapter_ForcedTimeout(t *testing.T) {
	host := &fakeHost{}
	cfg := DefaultConfig()
	cfg.HostMode = "timeout"
	s := newTestScheduler(t, cfg, host, NewManualClock(0))

	assert.Equal(t, HostModeTimeout, s.HostMode())

	var order []string
	s.Schedule(record(&order, "A"))
	assert.Empty(t, host.messages)
	require.Len(t, host.timeouts, 1)

	host.runTimeouts()
	assert.Equal(t, []string{"A"}, order)
}

func TestYieldAdapter_ForcedMessageDegrades(t *testing.T) {
	host := &timeoutHost{}
	cfg := DefaultConfig()
	cfg.HostMode = "message"
	s := newTestScheduler(t, cfg, host, NewManualClock(0))

	assert.Equal(t, HostModeTimeout, s.HostMode())
}

func TestYieldAdapter_RearmAfterYieldUsesSamePath(t *testing.T) {
	host := &timeoutHost{}
	clock := NewManualClock(0)
	s := newTestScheduler(t, DefaultConfig(), host, clock)

	var order []string
	slow := func(name string) Callback {
		return func(bool) Result {
			order = append(order, name)
			clock.Advance(10 * time.Millisecond)
			return Done()
		}
	}
	s.Schedule(slow("A"))
	s.Schedule(slow("B"))

	for i := 0; i < 5 && len(host.fns) > 0; i++ {
		host.runAll()
	}

	assert.Equal(t, []string{"A", "B"}, order)
	assert.Empty(t, host.fns)
}
