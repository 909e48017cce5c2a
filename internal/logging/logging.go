// Package logging builds the slog loggers used by the stateflow command.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewTextHandler returns a colored console handler writing to w (stderr when nil).
func NewTextHandler(level string, w io.Writer) slog.Handler {
	if w == nil {
		w = os.Stderr
	}

	lvl := log.InfoLevel
	reportTimestamp := false
	switch ParseLevel(level) {
	case slog.LevelDebug:
		lvl = log.DebugLevel
		reportTimestamp = true
	case slog.LevelWarn:
		lvl = log.WarnLevel
	case slog.LevelError:
		lvl = log.ErrorLevel
	}

	return &errKeyHandler{Handler: log.NewWithOptions(w, log.Options{
		ReportTimestamp: reportTimestamp,
		ReportCaller:    strings.EqualFold(level, "trace"),
		Level:           lvl,
	})}
}

// NewJSONHandler returns a JSON handler writing to w (stderr when nil).
func NewJSONHandler(level string, w io.Writer) slog.Handler {
	if w == nil {
		w = os.Stderr
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     ParseLevel(level),
		AddSource: strings.EqualFold(level, "trace"),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	})
}

// New returns a logger for the given format ("text" or "json") and level.
func New(format, level string, w io.Writer) *slog.Logger {
	if strings.EqualFold(format, "json") {
		return slog.New(NewJSONHandler(level, w))
	}
	return slog.New(NewTextHandler(level, w))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// errKeyHandler renames "error" attributes to "err" for handlers without ReplaceAttr.
type errKeyHandler struct {
	slog.Handler
}

func (h *errKeyHandler) Handle(ctx context.Context, r slog.Record) error {
	renamed := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		renamed.AddAttrs(renameErr(a))
		return true
	})
	return h.Handler.Handle(ctx, renamed)
}

func (h *errKeyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	renamed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		renamed[i] = renameErr(a)
	}
	return &errKeyHandler{Handler: h.Handler.WithAttrs(renamed)}
}

func (h *errKeyHandler) WithGroup(name string) slog.Handler {
	return &errKeyHandler{Handler: h.Handler.WithGroup(name)}
}

func renameErr(a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}
