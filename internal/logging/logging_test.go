package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/csvprune/internal/config"
)

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&config.Config{LogLevel: "debug", LogFormat: "text"}, &buf)
	require.NotNil(t, logger)

	logger.Info("hello", slog.Int("rows", 3))
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "rows=3")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&config.Config{LogLevel: "info", LogFormat: "json"}, &buf)

	logger.Info("test-msg")
	assert.Contains(t, buf.String(), `"msg":"test-msg"`)
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.Config
		debugSeen bool
		infoSeen  bool
	}{
		{"debug shows debug", config.Config{LogLevel: "debug", LogFormat: "text"}, true, true},
		{"info hides debug", config.Config{LogLevel: "info", LogFormat: "text"}, false, true},
		{"quiet hides info", config.Config{LogLevel: "debug", LogFormat: "text", Quiet: true}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&tt.cfg, &buf)

			logger.Debug("debug-msg")
			logger.Info("info-msg")
			logger.Error("error-msg")

			assert.Equal(t, tt.debugSeen, bytes.Contains(buf.Bytes(), []byte("debug-msg")))
			assert.Equal(t, tt.infoSeen, bytes.Contains(buf.Bytes(), []byte("info-msg")))
			assert.Contains(t, buf.String(), "error-msg")
		})
	}
}

func TestSetup_SetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := Setup(config.Default(), io.Discard)
	assert.Equal(t, logger.Handler(), slog.Default().Handler())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestContext_RoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := NewContext(context.Background(), logger)
	assert.Equal(t, logger, FromContext(ctx))
}

func TestFromContext_FallbackToDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
}
