package stateflow

import (
	"context"
	"time"
)

// Outcome classifies how a firing ended.
type Outcome string

const (
	// OutcomeTransitioned means a state-changing transition completed.
	OutcomeTransitioned Outcome = "transitioned"
	// OutcomeInternal means an internal transition ran its action.
	OutcomeInternal Outcome = "internal"
	// OutcomeUnhandled means no transition resolved and the unhandled trigger handler ran.
	OutcomeUnhandled Outcome = "unhandled"
	// OutcomeFailed means the firing returned an error.
	OutcomeFailed Outcome = "failed"
)

// FireEvent is reported to an Observer once per firing.
type FireEvent struct {
	Machine   string
	MachineID string

	Trigger     any
	Source      any
	Destination any

	Outcome  Outcome
	Duration time.Duration
	Err      error
}

// Observer receives a FireEvent after every firing. It is called synchronously on the
// firing goroutine, so it should return quickly.
type Observer interface {
	ObserveFire(ctx context.Context, event FireEvent)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, event FireEvent)

func (f ObserverFunc) ObserveFire(ctx context.Context, event FireEvent) {
	f(ctx, event)
}
