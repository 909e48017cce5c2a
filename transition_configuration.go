package stateflow

import "context"

// TransitionConfiguration collects the candidate transitions for one trigger inside
// StateConfiguration.OnTrigger. Nothing reaches the transition table until the configurator
// returns.
type TransitionConfiguration[TState, TTrigger comparable] struct {
	state   *StateConfiguration[TState, TTrigger]
	trigger TTrigger
	pending []*pendingTransition[TState]
}

type pendingTransition[TState comparable] struct {
	guard           TransitionGuard
	destination     func(source TState) Selector[TState]
	destinationInfo InvocationInfo
	dynamic         bool
	internal        bool
}

func newTransitionConfiguration[TState, TTrigger comparable](
	state *StateConfiguration[TState, TTrigger],
	trigger TTrigger,
) *TransitionConfiguration[TState, TTrigger] {
	return &TransitionConfiguration[TState, TTrigger]{
		state:   state,
		trigger: trigger,
	}
}

// Trigger returns the trigger being configured.
func (tc *TransitionConfiguration[TState, TTrigger]) Trigger() TTrigger {
	return tc.trigger
}

// ChangeState adds a candidate transition to a fixed destination.
func (tc *TransitionConfiguration[TState, TTrigger]) ChangeState(destination TState) *TransitionConfiguration[TState, TTrigger] {
	tc.state.machine.getOrCreateActions(destination)
	selector := func(context.Context) (TState, error) { return destination, nil }
	return tc.add(&pendingTransition[TState]{
		destination: func(TState) Selector[TState] { return selector },
	})
}

// ChangeStateFunc adds a candidate transition whose destination is chosen when it fires.
func (tc *TransitionConfiguration[TState, TTrigger]) ChangeStateFunc(selector func() TState, description ...string) *TransitionConfiguration[TState, TTrigger] {
	resolve := func(context.Context) (TState, error) { return selector(), nil }
	return tc.add(&pendingTransition[TState]{
		destination:     func(TState) Selector[TState] { return resolve },
		destinationInfo: CreateInvocationInfo(selector, firstOrEmpty(description)),
		dynamic:         true,
	})
}

// ChangeStateCtx adds a candidate transition whose destination selector may block or fail.
func (tc *TransitionConfiguration[TState, TTrigger]) ChangeStateCtx(selector Selector[TState], description ...string) *TransitionConfiguration[TState, TTrigger] {
	return tc.add(&pendingTransition[TState]{
		destination:     func(TState) Selector[TState] { return selector },
		destinationInfo: CreateInvocationInfo(selector, firstOrEmpty(description)),
		dynamic:         true,
	})
}

// ExecuteAction adds an internal candidate: action runs, the state does not change and no
// entry or exit action runs.
func (tc *TransitionConfiguration[TState, TTrigger]) ExecuteAction(action func()) *TransitionConfiguration[TState, TTrigger] {
	return tc.executeAction(syncAction[TState, TTrigger](action), CreateInvocationInfo(action, ""))
}

// ExecuteActionCtx is ExecuteAction for actions that receive the machine and may fail.
func (tc *TransitionConfiguration[TState, TTrigger]) ExecuteActionCtx(action Action[TState, TTrigger], description ...string) *TransitionConfiguration[TState, TTrigger] {
	return tc.executeAction(action, CreateInvocationInfo(action, firstOrEmpty(description)))
}

func (tc *TransitionConfiguration[TState, TTrigger]) executeAction(action Action[TState, TTrigger], info InvocationInfo) *TransitionConfiguration[TState, TTrigger] {
	machine := tc.state.machine
	return tc.add(&pendingTransition[TState]{
		destination: func(source TState) Selector[TState] {
			return func(ctx context.Context) (TState, error) {
				if action == nil {
					return source, nil
				}
				return source, action(ctx, machine)
			}
		},
		destinationInfo: info,
		internal:        true,
	})
}

// If guards the most recently added candidate. Repeated calls must all pass.
// It panics with *NoPendingTransitionError when no candidate was added yet.
func (tc *TransitionConfiguration[TState, TTrigger]) If(guard func() bool, description ...string) *TransitionConfiguration[TState, TTrigger] {
	return tc.guard(syncGuard(guard), CreateInvocationInfo(guard, firstOrEmpty(description)))
}

// IfCtx is If for guards that may block or fail.
func (tc *TransitionConfiguration[TState, TTrigger]) IfCtx(guard Guard, description ...string) *TransitionConfiguration[TState, TTrigger] {
	return tc.guard(guard, CreateInvocationInfo(guard, firstOrEmpty(description)))
}

func (tc *TransitionConfiguration[TState, TTrigger]) guard(guard Guard, info InvocationInfo) *TransitionConfiguration[TState, TTrigger] {
	if len(tc.pending) == 0 {
		var state any
		if states := tc.state.States(); len(states) == 1 {
			state = states[0]
		} else {
			state = states
		}
		panic(&NoPendingTransitionError{State: state, Trigger: tc.trigger})
	}
	last := tc.pending[len(tc.pending)-1]
	last.guard = last.guard.with(NewGuardCondition(guard, info))
	return tc
}

func (tc *TransitionConfiguration[TState, TTrigger]) add(p *pendingTransition[TState]) *TransitionConfiguration[TState, TTrigger] {
	tc.pending = append(tc.pending, p)
	return tc
}

// commit registers one fresh record per bound state and pending candidate.
func (tc *TransitionConfiguration[TState, TTrigger]) commit() {
	table := tc.state.machine.table
	for _, a := range tc.state.actions {
		for _, p := range tc.pending {
			table.register(a.state, tc.trigger, &transitionRecord[TState]{
				guard:           p.guard,
				destination:     p.destination(a.state),
				destinationInfo: p.destinationInfo,
				dynamic:         p.dynamic,
				internal:        p.internal,
			})
		}
	}
	tc.pending = nil
}
