package stateflow

import (
	"io"
	"log/slog"
	"time"
)

// DefaultExportTimeout bounds destination resolution in GetInfo.
const DefaultExportTimeout = 100 * time.Millisecond

type machineOptions struct {
	name          string
	logger        *slog.Logger
	observers     []Observer
	exportTimeout time.Duration
}

// Option configures a Machine.
type Option func(*machineOptions)

// WithName sets the machine name used in logs, metrics and exports.
func WithName(name string) Option {
	return func(o *machineOptions) {
		o.name = name
	}
}

// WithLogger sets the logger for the machine. Records are emitted at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *machineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver registers an observer notified after every firing.
func WithObserver(observer Observer) Option {
	return func(o *machineOptions) {
		if observer != nil {
			o.observers = append(o.observers, observer)
		}
	}
}

// WithExportTimeout sets how long GetInfo waits for each destination selector.
func WithExportTimeout(timeout time.Duration) Option {
	return func(o *machineOptions) {
		if timeout > 0 {
			o.exportTimeout = timeout
		}
	}
}

func defaultMachineOptions() machineOptions {
	return machineOptions{
		name:          "stateflow",
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		exportTimeout: DefaultExportTimeout,
	}
}
