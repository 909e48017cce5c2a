package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: "TRACE", expected: slog.LevelDebug},
		{input: "info", expected: slog.LevelInfo},
		{input: "warn", expected: slog.LevelWarn},
		{input: "warning", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "bogus", expected: slog.LevelInfo},
		{input: "", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestNewTextHandler(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		enabled  []slog.Level
		disabled []slog.Level
	}{
		{
			name:     "debug",
			level:    "debug",
			enabled:  []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelError},
			disabled: nil,
		},
		{
			name:     "info",
			level:    "info",
			enabled:  []slog.Level{slog.LevelInfo, slog.LevelWarn},
			disabled: []slog.Level{slog.LevelDebug},
		},
		{
			name:     "error",
			level:    "error",
			enabled:  []slog.Level{slog.LevelError},
			disabled: []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewTextHandler(tt.level, &buf)
			for _, lvl := range tt.enabled {
				assert.True(t, handler.Enabled(context.Background(), lvl), "level %s should be enabled", lvl)
			}
			for _, lvl := range tt.disabled {
				assert.False(t, handler.Enabled(context.Background(), lvl), "level %s should be disabled", lvl)
			}
		})
	}
}

func TestNewTextHandler_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewTextHandler("info", &buf))

	logger.With("error", "first").Info("failed", "error", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "err=boom")
	assert.Contains(t, out, "err=first")
	assert.NotContains(t, out, "error=")
}

func TestNewJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewJSONHandler("warn", &buf))

	logger.Info("hidden")
	logger.Warn("shown", "error", "boom")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"err":"boom"`)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	New("json", "info", &buf).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	New("text", "info", &buf).Info("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"msg"`)
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	assert.NotNil(t, logger)
	logger.Info("discarded")
}
