// Package logging builds the [log/slog] logger csvprune reports diagnostics
// through and carries it in a context. Logs always go to stderr (or the
// writer a test supplies) because stdout is reserved for CSV.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/hupe1980/csvprune/internal/config"
)

type ctxKey struct{}

// New creates a *slog.Logger configured according to cfg, writing to w.
func New(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.EffectiveLogLevel())}

	var handler slog.Handler

	switch cfg.LogFormat {
	case config.LogFormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Setup is New followed by slog.SetDefault, so code without a context
// (timer callbacks, for one) logs the same way.
func Setup(cfg *config.Config, w io.Writer) *slog.Logger {
	logger := New(cfg, w)
	slog.SetDefault(logger)

	return logger
}

// ParseLevel converts a string log level to slog.Level. Unknown values
// map to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewContext returns a child context carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts a logger from ctx, falling back to slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}

	return slog.Default()
}
