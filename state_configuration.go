package stateflow

// StateConfiguration provides a fluent interface for configuring one or more states.
// Every call applies to each bound state.
type StateConfiguration[TState, TTrigger comparable] struct {
	machine *Machine[TState, TTrigger]
	actions []*stateActions[TState, TTrigger]
}

func newStateConfiguration[TState, TTrigger comparable](
	machine *Machine[TState, TTrigger],
	actions []*stateActions[TState, TTrigger],
) *StateConfiguration[TState, TTrigger] {
	return &StateConfiguration[TState, TTrigger]{
		machine: machine,
		actions: actions,
	}
}

// States returns the states being configured.
func (sc *StateConfiguration[TState, TTrigger]) States() []TState {
	states := make([]TState, len(sc.actions))
	for i, a := range sc.actions {
		states[i] = a.state
	}
	return states
}

// OnEntry configures an action to be executed when entering the state.
func (sc *StateConfiguration[TState, TTrigger]) OnEntry(action func()) *StateConfiguration[TState, TTrigger] {
	info := CreateInvocationInfo(action, "")
	for _, a := range sc.actions {
		a.entry.add(syncAction[TState, TTrigger](action), info)
	}
	return sc
}

// OnEntryCtx configures an action that receives the machine and may fail.
func (sc *StateConfiguration[TState, TTrigger]) OnEntryCtx(action Action[TState, TTrigger], description ...string) *StateConfiguration[TState, TTrigger] {
	info := CreateInvocationInfo(action, firstOrEmpty(description))
	for _, a := range sc.actions {
		a.entry.add(action, info)
	}
	return sc
}

// OnExit configures an action to be executed when leaving the state.
func (sc *StateConfiguration[TState, TTrigger]) OnExit(action func()) *StateConfiguration[TState, TTrigger] {
	info := CreateInvocationInfo(action, "")
	for _, a := range sc.actions {
		a.exit.add(syncAction[TState, TTrigger](action), info)
	}
	return sc
}

// OnExitCtx configures an exit action that receives the machine and may fail.
func (sc *StateConfiguration[TState, TTrigger]) OnExitCtx(action Action[TState, TTrigger], description ...string) *StateConfiguration[TState, TTrigger] {
	info := CreateInvocationInfo(action, firstOrEmpty(description))
	for _, a := range sc.actions {
		a.exit.add(action, info)
	}
	return sc
}

// IgnoreDefaultEntry opts the state out of the machine-wide entry actions.
func (sc *StateConfiguration[TState, TTrigger]) IgnoreDefaultEntry() *StateConfiguration[TState, TTrigger] {
	for _, a := range sc.actions {
		a.ignoreDefaultEntry = true
	}
	return sc
}

// IgnoreDefaultExit opts the state out of the machine-wide exit actions.
func (sc *StateConfiguration[TState, TTrigger]) IgnoreDefaultExit() *StateConfiguration[TState, TTrigger] {
	for _, a := range sc.actions {
		a.ignoreDefaultExit = true
	}
	return sc
}

// OnTrigger configures the candidate transitions for trigger. The candidates added by
// configure are registered when it returns, in the order they were added.
func (sc *StateConfiguration[TState, TTrigger]) OnTrigger(
	trigger TTrigger,
	configure func(tc *TransitionConfiguration[TState, TTrigger]),
) *StateConfiguration[TState, TTrigger] {
	tc := newTransitionConfiguration(sc, trigger)
	configure(tc)
	tc.commit()
	return sc
}

// Permit configures the state to transition to destination when trigger is fired.
func (sc *StateConfiguration[TState, TTrigger]) Permit(trigger TTrigger, destination TState) *StateConfiguration[TState, TTrigger] {
	return sc.OnTrigger(trigger, func(tc *TransitionConfiguration[TState, TTrigger]) {
		tc.ChangeState(destination)
	})
}

// PermitIf configures the state to transition to destination when trigger is fired,
// if the guard condition is met.
func (sc *StateConfiguration[TState, TTrigger]) PermitIf(trigger TTrigger, destination TState, guard func() bool, guardDescription ...string) *StateConfiguration[TState, TTrigger] {
	return sc.OnTrigger(trigger, func(tc *TransitionConfiguration[TState, TTrigger]) {
		tc.ChangeState(destination).If(guard, guardDescription...)
	})
}

// PermitDynamic configures the state to transition to a state chosen by selector when
// trigger is fired.
func (sc *StateConfiguration[TState, TTrigger]) PermitDynamic(trigger TTrigger, selector func() TState, description ...string) *StateConfiguration[TState, TTrigger] {
	return sc.OnTrigger(trigger, func(tc *TransitionConfiguration[TState, TTrigger]) {
		tc.ChangeStateFunc(selector, description...)
	})
}

// InternalTransition configures an action run on trigger without leaving the state and
// without entry or exit actions.
func (sc *StateConfiguration[TState, TTrigger]) InternalTransition(trigger TTrigger, action func()) *StateConfiguration[TState, TTrigger] {
	return sc.OnTrigger(trigger, func(tc *TransitionConfiguration[TState, TTrigger]) {
		tc.ExecuteAction(action)
	})
}
