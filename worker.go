package stateflow

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrWorkerStarted is returned by Run when the worker is already running or has run.
	ErrWorkerStarted = errors.New("worker already started")
	// ErrWorkerStopped is returned by Fire once the worker's Run loop has exited.
	ErrWorkerStopped = errors.New("worker stopped")
	// ErrQueueFull is returned by Send when the queue has no free slot.
	ErrQueueFull = errors.New("worker queue full")
)

// DefaultQueueSize is used by NewWorker when queueSize is not positive.
const DefaultQueueSize = 64

type fireRequest[TTrigger comparable] struct {
	ctx     context.Context
	trigger TTrigger
	done    chan error
}

// Worker serializes firings of one Machine on a single goroutine. Triggers sent from
// inside an action with Send are processed after the current firing completes.
type Worker[TState, TTrigger comparable] struct {
	machine *Machine[TState, TTrigger]
	queue   chan fireRequest[TTrigger]
	stopped chan struct{}
	started atomic.Bool
}

// NewWorker creates a worker for machine with room for queueSize pending triggers.
func NewWorker[TState, TTrigger comparable](machine *Machine[TState, TTrigger], queueSize int) *Worker[TState, TTrigger] {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Worker[TState, TTrigger]{
		machine: machine,
		queue:   make(chan fireRequest[TTrigger], queueSize),
		stopped: make(chan struct{}),
	}
}

// Run processes queued triggers until ctx is done. It returns ctx.Err().
func (w *Worker[TState, TTrigger]) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrWorkerStarted
	}
	defer close(w.stopped)

	w.machine.logger.Debug("worker started", "queue_size", cap(w.queue))
	for {
		select {
		case <-ctx.Done():
			w.machine.logger.Debug("worker stopped", "pending", len(w.queue))
			return ctx.Err()
		case req := <-w.queue:
			err := w.machine.FireCtx(req.ctx, req.trigger)
			if req.done != nil {
				req.done <- err
			} else if err != nil {
				w.machine.logger.Warn("queued trigger failed", "trigger", req.trigger, "error", err)
			}
		}
	}
}

// Fire queues trigger and waits for its firing to complete. It must not be called from an
// action running on the worker; use Send there.
func (w *Worker[TState, TTrigger]) Fire(ctx context.Context, trigger TTrigger) error {
	req := fireRequest[TTrigger]{ctx: ctx, trigger: trigger, done: make(chan error, 1)}

	select {
	case w.queue <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-w.stopped:
		return ErrWorkerStopped
	}

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-w.stopped:
		return ErrWorkerStopped
	}
}

// Send queues trigger without waiting. Failures of the firing are logged at warn level.
func (w *Worker[TState, TTrigger]) Send(trigger TTrigger) error {
	select {
	case w.queue <- fireRequest[TTrigger]{ctx: context.Background(), trigger: trigger}:
		return nil
	default:
		return fmt.Errorf("%w: trigger '%v'", ErrQueueFull, trigger)
	}
}

// Machine returns the machine driven by the worker.
func (w *Worker[TState, TTrigger]) Machine() *Machine[TState, TTrigger] {
	return w.machine
}
