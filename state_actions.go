package stateflow

import (
	"context"
	"fmt"
)

// stateActions holds the entry/exit behaviour of one state.
type stateActions[TState, TTrigger comparable] struct {
	state TState

	// entry actions run, in order, after the state becomes current.
	entry actionList[TState, TTrigger]

	// exit actions run, in order, before the state is left.
	exit actionList[TState, TTrigger]

	// ignoreDefaultEntry skips the machine-wide entry actions when entering this state.
	ignoreDefaultEntry bool

	// ignoreDefaultExit skips the machine-wide exit actions when leaving this state.
	ignoreDefaultExit bool
}

func newStateActions[TState, TTrigger comparable](state TState) *stateActions[TState, TTrigger] {
	return &stateActions[TState, TTrigger]{state: state}
}

// Exit runs the state's own exit actions, then the default exit actions unless opted out.
// A nil receiver is a state that was never configured.
func (sa *stateActions[TState, TTrigger]) Exit(ctx context.Context, m *Machine[TState, TTrigger]) error {
	if sa != nil {
		if err := sa.exit.execute(ctx, m); err != nil {
			return err
		}
		if sa.ignoreDefaultExit {
			return nil
		}
	}
	return m.defaults.exit.execute(ctx, m)
}

// Enter runs the default entry actions unless opted out, then the state's own entry actions.
func (sa *stateActions[TState, TTrigger]) Enter(ctx context.Context, m *Machine[TState, TTrigger]) error {
	if sa == nil || !sa.ignoreDefaultEntry {
		if err := m.defaults.entry.execute(ctx, m); err != nil {
			return err
		}
	}
	if sa == nil {
		return nil
	}
	return sa.entry.execute(ctx, m)
}

func (sa *stateActions[TState, TTrigger]) String() string {
	return fmt.Sprintf("%v", sa.state)
}
