// Package logging builds the zerolog loggers used by the lrucache command.
package logging

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// New creates a zerolog logger writing to w.
func New(cfg Config, w io.Writer) zerolog.Logger {
	output := w
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: cfg.TimeFormat,
		}
	}

	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name (trace, debug, info, warn, error) to a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info", "":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// FromContext extracts the logger from ctx.
// If none is attached, a disabled logger is returned.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context carrying logger.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}
