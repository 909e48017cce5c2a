package stateflow

import (
	"errors"
	"fmt"
)

var (
	// ErrTransitionNotFound matches every failure to resolve a trigger into a transition,
	// whether nothing was registered or every guard rejected.
	ErrTransitionNotFound = errors.New("transition not found")

	// ErrGuardRejected matches only the case where candidates exist but no guard passed.
	ErrGuardRejected = errors.New("guard rejected")

	// ErrNoPendingTransition is raised when a guard is attached before any candidate.
	ErrNoPendingTransition = errors.New("no pending transition")

	// ErrFireInProgress is returned when a machine is fired while another firing is in flight.
	ErrFireInProgress = errors.New("fire already in progress")
)

// TransitionNotFoundError is returned when a fired trigger does not resolve to a transition
// and no unhandled trigger handler is registered.
type TransitionNotFoundError struct {
	State   any
	Trigger any

	// Candidates is the number of transitions registered for (State, Trigger).
	// Zero means nothing was registered; otherwise every guard evaluated false.
	Candidates int
}

func (e *TransitionNotFoundError) Error() string {
	if e.Candidates > 0 {
		return fmt.Sprintf(
			"trigger '%v' is valid for transition from state '%v' but guard conditions are not met (%d candidates rejected)",
			e.Trigger, e.State, e.Candidates)
	}
	return fmt.Sprintf("no transition registered from state '%v' for trigger '%v'", e.State, e.Trigger)
}

// GuardsRejected reports whether candidates existed but none of their guards passed.
func (e *TransitionNotFoundError) GuardsRejected() bool {
	return e.Candidates > 0
}

func (e *TransitionNotFoundError) Is(target error) bool {
	switch target {
	case ErrTransitionNotFound:
		return true
	case ErrGuardRejected:
		return e.GuardsRejected()
	}
	return false
}

// NoPendingTransitionError indicates If/IfCtx was called before ChangeState or ExecuteAction
// inside one OnTrigger configurator.
type NoPendingTransitionError struct {
	State   any
	Trigger any
}

func (e *NoPendingTransitionError) Error() string {
	return fmt.Sprintf("guard attached before any transition for trigger '%v' on state '%v'", e.Trigger, e.State)
}

func (e *NoPendingTransitionError) Unwrap() error {
	return ErrNoPendingTransition
}

// IsTransitionNotFound reports whether err means no valid transition exists.
func IsTransitionNotFound(err error) bool {
	return errors.Is(err, ErrTransitionNotFound)
}

// IsGuardRejected reports whether err means transitions exist but every guard rejected.
func IsGuardRejected(err error) bool {
	return errors.Is(err, ErrGuardRejected)
}
