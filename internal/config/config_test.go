package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
scheduler:
  frame_budget_ms: 8
  host_mode: timeout
  rearm_on_frame: true
host:
  frame_interval_ms: 33
  frames: false
log:
  level: debug
  format: json
trace_csv: /tmp/trace.csv
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Scheduler.FrameBudgetMS)
	assert.Equal(t, 3000, cfg.Scheduler.TaskTimeoutMS, "unset keys keep defaults")
	assert.Equal(t, "timeout", cfg.Scheduler.HostMode)
	assert.True(t, cfg.Scheduler.RearmOnFrame)
	assert.Equal(t, 33, cfg.Host.FrameIntervalMS)
	assert.True(t, cfg.Host.Messages)
	assert.False(t, cfg.Host.Frames)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/trace.csv", cfg.TraceCSV)
}

func TestLoad_SanityClamps(t *testing.T) {
	path := writeConfig(t, `
scheduler:
  frame_budget_ms: 0
  task_timeout_ms: -1
  host_mode: carrier-pigeon
host:
  frame_interval_ms: -3
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Scheduler.FrameBudgetMS)
	assert.Equal(t, 3000, cfg.Scheduler.TaskTimeoutMS)
	assert.Equal(t, "auto", cfg.Scheduler.HostMode)
	assert.Equal(t, 16, cfg.Host.FrameIntervalMS)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "scheduler: [not, a, map\n")

	cfg, err := Load(path)

	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}
