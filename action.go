package stateflow

import "context"

// Action is an entry, exit, default or internal-transition action. It receives the
// machine it runs on.
type Action[TState, TTrigger comparable] func(ctx context.Context, m *Machine[TState, TTrigger]) error

// UnhandledTriggerHandler is invoked instead of failing when a trigger resolves to no transition.
type UnhandledTriggerHandler[TState, TTrigger comparable] func(ctx context.Context, trigger TTrigger, m *Machine[TState, TTrigger]) error

// actionBehaviour is a registered action and its description.
type actionBehaviour[TState, TTrigger comparable] struct {
	action      Action[TState, TTrigger]
	description InvocationInfo
}

// actionList runs every action in registration order.
type actionList[TState, TTrigger comparable] []actionBehaviour[TState, TTrigger]

func (l *actionList[TState, TTrigger]) add(action Action[TState, TTrigger], description InvocationInfo) {
	*l = append(*l, actionBehaviour[TState, TTrigger]{action: action, description: description})
}

// execute stops at the first failing action; the error is returned unchanged.
func (l actionList[TState, TTrigger]) execute(ctx context.Context, m *Machine[TState, TTrigger]) error {
	for _, b := range l {
		if b.action == nil {
			continue
		}
		if err := b.action(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (l actionList[TState, TTrigger]) descriptions() []InvocationInfo {
	result := make([]InvocationInfo, len(l))
	for i, b := range l {
		result[i] = b.description
	}
	return result
}

// defaultActions is the machine-wide registry applied on every non-internal transition.
type defaultActions[TState, TTrigger comparable] struct {
	entry actionList[TState, TTrigger]
	exit  actionList[TState, TTrigger]
}

func syncAction[TState, TTrigger comparable](action func()) Action[TState, TTrigger] {
	if action == nil {
		return nil
	}
	return func(context.Context, *Machine[TState, TTrigger]) error {
		action()
		return nil
	}
}
