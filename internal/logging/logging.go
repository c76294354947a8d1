package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05.000"

// Config mirrors the log section of config.yml.
type Config struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // console (human-readable) or json
}

// DefaultConfig logs info and above to the console.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console"}
}

// New creates a logger writing to stderr (stdout is reserved for program output).
func New(cfg Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter creates a logger writing to the given writer.
func NewWithWriter(cfg Config, w io.Writer) zerolog.Logger {
	if strings.ToLower(strings.TrimSpace(cfg.Format)) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat, NoColor: true}
	}
	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().Timestamp().
		Logger()
}

// ParseLevel converts a string log level to zerolog.Level.
// Returns zerolog.InfoLevel for unrecognized values.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
