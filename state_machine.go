package stateflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Machine is a finite state machine over states of type TState and triggers of type TTrigger.
//
// Configuration (Configure, ConfigureMany, DefaultOnEntry, OnUnhandledTrigger, ...) must be
// complete before the machine is fired. At most one firing may be in flight per machine: a
// concurrent or re-entrant Fire fails with ErrFireInProgress. Callers that need to fire from
// several goroutines should serialize through a Worker or their own mutex.
//
// If a guard, selector or action fails, or the caller's context is canceled while one of them
// runs, the firing stops where it is. No rollback is performed: exit actions may have run while
// the current state is still the source.
type Machine[TState, TTrigger comparable] struct {
	// state is the current state. It is written only by the firing protocol.
	state        TState
	initialState TState

	table        *transitionTable[TState, TTrigger]
	stateActions map[TState]*stateActions[TState, TTrigger]
	stateOrder   []TState
	defaults     defaultActions[TState, TTrigger]

	unhandledTriggerHandler UnhandledTriggerHandler[TState, TTrigger]
	onTransitioned          []func(Transition[TState, TTrigger])

	name          string
	id            string
	logger        *slog.Logger
	observers     []Observer
	exportTimeout time.Duration

	firing atomic.Bool
}

// NewMachine creates a new machine in the specified initial state.
func NewMachine[TState, TTrigger comparable](initialState TState, opts ...Option) *Machine[TState, TTrigger] {
	o := defaultMachineOptions()
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	return &Machine[TState, TTrigger]{
		state:         initialState,
		initialState:  initialState,
		table:         newTransitionTable[TState, TTrigger](),
		stateActions:  make(map[TState]*stateActions[TState, TTrigger]),
		name:          o.name,
		id:            id,
		logger:        o.logger.With("machine", o.name, "machine_id", id),
		observers:     o.observers,
		exportTimeout: o.exportTimeout,
	}
}

// State returns the current state.
func (sm *Machine[TState, TTrigger]) State() TState {
	return sm.state
}

// Name returns the machine name.
func (sm *Machine[TState, TTrigger]) Name() string {
	return sm.name
}

// ID returns the unique identifier generated for this machine instance.
func (sm *Machine[TState, TTrigger]) ID() string {
	return sm.id
}

// Configure begins configuration of a state, creating its action set if needed.
func (sm *Machine[TState, TTrigger]) Configure(state TState) *StateConfiguration[TState, TTrigger] {
	return sm.ConfigureMany(state)
}

// ConfigureMany applies the same configuration calls to several states.
// Transitions are registered separately for each state.
func (sm *Machine[TState, TTrigger]) ConfigureMany(states ...TState) *StateConfiguration[TState, TTrigger] {
	actions := make([]*stateActions[TState, TTrigger], len(states))
	for i, state := range states {
		actions[i] = sm.getOrCreateActions(state)
	}
	return newStateConfiguration(sm, actions)
}

// DefaultOnEntry registers an action run on entry to every state that does not opt out.
func (sm *Machine[TState, TTrigger]) DefaultOnEntry(action func()) *Machine[TState, TTrigger] {
	sm.defaults.entry.add(syncAction[TState, TTrigger](action), CreateInvocationInfo(action, ""))
	return sm
}

// DefaultOnEntryCtx is DefaultOnEntry for actions that take the machine and may fail.
func (sm *Machine[TState, TTrigger]) DefaultOnEntryCtx(action Action[TState, TTrigger], description ...string) *Machine[TState, TTrigger] {
	sm.defaults.entry.add(action, CreateInvocationInfo(action, firstOrEmpty(description)))
	return sm
}

// DefaultOnExit registers an action run on exit from every state that does not opt out.
func (sm *Machine[TState, TTrigger]) DefaultOnExit(action func()) *Machine[TState, TTrigger] {
	sm.defaults.exit.add(syncAction[TState, TTrigger](action), CreateInvocationInfo(action, ""))
	return sm
}

// DefaultOnExitCtx is DefaultOnExit for actions that take the machine and may fail.
func (sm *Machine[TState, TTrigger]) DefaultOnExitCtx(action Action[TState, TTrigger], description ...string) *Machine[TState, TTrigger] {
	sm.defaults.exit.add(action, CreateInvocationInfo(action, firstOrEmpty(description)))
	return sm
}

// OnUnhandledTrigger sets the handler invoked when a trigger resolves to no transition,
// replacing any previous handler. With a handler set, Fire no longer returns
// TransitionNotFoundError.
func (sm *Machine[TState, TTrigger]) OnUnhandledTrigger(handler func(trigger TTrigger, m *Machine[TState, TTrigger])) {
	if handler == nil {
		sm.unhandledTriggerHandler = nil
		return
	}
	sm.unhandledTriggerHandler = func(_ context.Context, trigger TTrigger, m *Machine[TState, TTrigger]) error {
		handler(trigger, m)
		return nil
	}
}

// OnUnhandledTriggerCtx is OnUnhandledTrigger for handlers that may fail.
func (sm *Machine[TState, TTrigger]) OnUnhandledTriggerCtx(handler UnhandledTriggerHandler[TState, TTrigger]) {
	sm.unhandledTriggerHandler = handler
}

// OnTransitioned registers a callback invoked after a state-changing transition completes,
// including its entry actions. Internal transitions do not invoke it.
func (sm *Machine[TState, TTrigger]) OnTransitioned(callback func(Transition[TState, TTrigger])) {
	sm.onTransitioned = append(sm.onTransitioned, callback)
}

// Fire fires a trigger and blocks until the firing completes.
func (sm *Machine[TState, TTrigger]) Fire(trigger TTrigger) error {
	return sm.FireCtx(context.Background(), trigger)
}

// FireCtx fires a trigger with a context handed to every guard, selector and action.
func (sm *Machine[TState, TTrigger]) FireCtx(ctx context.Context, trigger TTrigger) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !sm.firing.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: machine '%s' trigger '%v'", ErrFireInProgress, sm.name, trigger)
	}
	defer sm.firing.Store(false)

	return sm.fire(ctx, trigger)
}

// FireAsync runs the firing on a new goroutine. The returned channel receives exactly one
// value, the result of the firing, and is then closed.
func (sm *Machine[TState, TTrigger]) FireAsync(ctx context.Context, trigger TTrigger) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- sm.FireCtx(ctx, trigger)
	}()
	return done
}

// fire resolves the trigger against the current state and executes the winning transition.
func (sm *Machine[TState, TTrigger]) fire(ctx context.Context, trigger TTrigger) (err error) {
	started := time.Now()
	source := sm.state
	event := FireEvent{
		Machine:   sm.name,
		MachineID: sm.id,
		Trigger:   trigger,
		Source:    source,
	}
	defer func() {
		if err != nil {
			event.Outcome = OutcomeFailed
			event.Err = err
		}
		event.Destination = sm.state
		event.Duration = time.Since(started)
		sm.notify(ctx, event)
	}()

	sm.logger.Debug("processing trigger", "trigger", trigger, "state", source)

	records, ok := sm.table.lookup(source, trigger)
	if !ok {
		event.Outcome = OutcomeUnhandled
		return sm.handleUnhandledTrigger(ctx, source, trigger, 0)
	}

	winner, err := selectWinner(ctx, records)
	if err != nil {
		return err
	}
	if winner == nil {
		sm.logger.Debug("all guards rejected", "trigger", trigger, "state", source, "candidates", len(records))
		event.Outcome = OutcomeUnhandled
		return sm.handleUnhandledTrigger(ctx, source, trigger, len(records))
	}

	if winner.internal {
		sm.logger.Debug("executing internal transition", "trigger", trigger, "state", source)
		event.Outcome = OutcomeInternal
		_, err := winner.destination(ctx)
		return err
	}

	event.Outcome = OutcomeTransitioned
	return sm.executeTransition(ctx, source, trigger, winner)
}

// executeTransition runs specific exit, default exit, the state change, default entry and
// specific entry, in that order.
func (sm *Machine[TState, TTrigger]) executeTransition(
	ctx context.Context,
	source TState,
	trigger TTrigger,
	winner *transitionRecord[TState],
) error {
	if err := sm.stateActions[source].Exit(ctx, sm); err != nil {
		return err
	}

	destination, err := winner.destination(ctx)
	if err != nil {
		return err
	}
	sm.state = destination
	sm.logger.Debug("state changed", "trigger", trigger, "from", source, "to", destination)

	if err := sm.stateActions[destination].Enter(ctx, sm); err != nil {
		return err
	}

	transition := Transition[TState, TTrigger]{Source: source, Destination: destination, Trigger: trigger}
	for _, callback := range sm.onTransitioned {
		callback(transition)
	}
	return nil
}

// handleUnhandledTrigger invokes the unhandled trigger handler or reports TransitionNotFoundError.
func (sm *Machine[TState, TTrigger]) handleUnhandledTrigger(ctx context.Context, state TState, trigger TTrigger, candidates int) error {
	if sm.unhandledTriggerHandler != nil {
		sm.logger.Debug("unhandled trigger", "trigger", trigger, "state", state, "candidates", candidates)
		return sm.unhandledTriggerHandler(ctx, trigger, sm)
	}

	return &TransitionNotFoundError{
		State:      state,
		Trigger:    trigger,
		Candidates: candidates,
	}
}

func (sm *Machine[TState, TTrigger]) notify(ctx context.Context, event FireEvent) {
	for _, observer := range sm.observers {
		observer.ObserveFire(ctx, event)
	}
}

// CanFire reports whether trigger would resolve to a transition from the current state.
// Guards are evaluated, so their side effects apply.
func (sm *Machine[TState, TTrigger]) CanFire(ctx context.Context, trigger TTrigger) (bool, error) {
	records, ok := sm.table.lookup(sm.state, trigger)
	if !ok {
		return false, nil
	}
	winner, err := selectWinner(ctx, records)
	if err != nil {
		return false, err
	}
	return winner != nil, nil
}

// PermittedTriggers returns the triggers that can be fired from the current state,
// in registration order.
func (sm *Machine[TState, TTrigger]) PermittedTriggers(ctx context.Context) ([]TTrigger, error) {
	var result []TTrigger
	for _, trigger := range sm.table.triggers(sm.state) {
		ok, err := sm.CanFire(ctx, trigger)
		if err != nil {
			return nil, err
		}
		if ok {
			result = append(result, trigger)
		}
	}
	return result, nil
}

// getOrCreateActions returns the action set for a state, creating an empty one if absent.
func (sm *Machine[TState, TTrigger]) getOrCreateActions(state TState) *stateActions[TState, TTrigger] {
	actions, exists := sm.stateActions[state]
	if !exists {
		actions = newStateActions[TState, TTrigger](state)
		sm.stateActions[state] = actions
		sm.stateOrder = append(sm.stateOrder, state)
	}
	return actions
}

// String returns a string representation of the current state.
func (sm *Machine[TState, TTrigger]) String() string {
	return fmt.Sprintf("Machine { Name = %s, State = %v }", sm.name, sm.state)
}
