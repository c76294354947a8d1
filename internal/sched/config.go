package sched

import (
	"math"
	"strings"
	"time"
)

// Config mirrors the scheduler section of config.yml.
type Config struct {
	FrameBudgetMS int    `yaml:"frame_budget_ms"` // 5 (by default)
	TaskTimeoutMS int    `yaml:"task_timeout_ms"` // 3000 (by default)
	HostMode      string `yaml:"host_mode"`       // auto | message | timeout
	RearmOnFrame  bool   `yaml:"rearm_on_frame"`  // resume yielded work at the next frame boundary
}

// maxMS is the largest millisecond count a time.Duration can hold.
var maxMS = math.MaxInt64 / int64(time.Millisecond)

// DefaultConfig returns the reference scheduler settings.
func DefaultConfig() Config {
	return Config{
		FrameBudgetMS: 5,
		TaskTimeoutMS: 3000,
		HostMode:      HostModeAuto.String(),
	}
}

// Normalize applies sanity clamps in place.
func (c *Config) Normalize() {
	if c.FrameBudgetMS <= 0 {
		c.FrameBudgetMS = 5
	}
	if c.TaskTimeoutMS < 0 {
		c.TaskTimeoutMS = 3000
	}
	if int64(c.FrameBudgetMS) > maxMS {
		c.FrameBudgetMS = int(maxMS)
	}
	if int64(c.TaskTimeoutMS) > maxMS {
		c.TaskTimeoutMS = int(maxMS)
	}
	c.HostMode = ParseHostMode(c.HostMode).String()
}

// FrameBudget is the slice granted per host wake-up.
func (c Config) FrameBudget() time.Duration {
	return time.Duration(c.FrameBudgetMS) * time.Millisecond
}

// TaskTimeout is the default deadline offset for new tasks.
func (c Config) TaskTimeout() time.Duration {
	return time.Duration(c.TaskTimeoutMS) * time.Millisecond
}

// ParseHostMode maps a config string to a HostMode. Unknown values mean auto.
func ParseHostMode(s string) HostMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "message":
		return HostModeMessage
	case "timeout":
		return HostModeTimeout
	default:
		return HostModeAuto
	}
}
