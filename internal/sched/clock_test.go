package sched

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock_Advance(t *testing.T) {
	c := NewManualClock(time.Second)
	assert.Equal(t, time.Second, c.Now())

	c.Advance(5 * time.Millisecond)
	assert.Equal(t, time.Second+5*time.Millisecond, c.Now())
}

func TestManualClock_IgnoresNegativeAdvance(t *testing.T) {
	c := NewManualClock(time.Second)

	c.Advance(-time.Millisecond)
	c.Advance(0)

	assert.Equal(t, time.Second, c.Now())
}

func TestMonotonicClock_NonDecreasing(t *testing.T) {
	c := NewMonotonicClock()

	prev := c.Now()
	for i := 0; i < 1000; i++ {
		now := c.Now()
		assert.GreaterOrEqual(t, now, prev)
		prev = now
	}
}

func TestAddSat(t *testing.T) {
	assert.Equal(t, 3*time.Second, addSat(time.Second, 2*time.Second))
	assert.Equal(t, time.Duration(math.MaxInt64), addSat(time.Second, math.MaxInt64))
	assert.Equal(t, time.Duration(math.MaxInt64), addSat(math.MaxInt64, time.Nanosecond))
	assert.Equal(t, time.Second, addSat(time.Second, 0))
}
