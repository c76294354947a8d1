package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	yaml "github.com/goccy/go-yaml"

	"framesched/internal/hostloop"
	"framesched/internal/logging"
	"framesched/internal/sched"
)

// Config mirrors config.yml
type Config struct {
	Scheduler sched.Config    `yaml:"scheduler"`
	Host      hostloop.Config `yaml:"host"`
	Log       logging.Config  `yaml:"log"`
	TraceCSV  string          `yaml:"trace_csv"` // empty = no trace
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Scheduler: sched.DefaultConfig(),
		Host:      hostloop.DefaultConfig(),
		Log:       logging.DefaultConfig(),
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only.
// A missing file also yields defaults. A malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}

	// sanity clamps
	cfg.Scheduler.Normalize()
	if cfg.Host.FrameIntervalMS <= 0 {
		cfg.Host.FrameIntervalMS = 16
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}
