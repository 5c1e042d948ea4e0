package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys used by the logger.
type ContextKey string

// LoggerKey is the context key for the logger instance.
const LoggerKey ContextKey = "logger"

// Options selects level, encoding and destination.
type Options struct {
	Level  string // zerolog level name; empty means info
	Format string // "console" or "json"
	Out    io.Writer
}

// New builds a logger. Output defaults to stderr so stdout stays free for
// report text.
func New(opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("parsing log level %q: %w", opts.Level, err)
		}
		level = l
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	switch opts.Format {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", opts.Format)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// NewWithWriter creates a JSON logger writing to w at debug level.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// WithContext adds the logger to the context.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from the context, or a disabled logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}
