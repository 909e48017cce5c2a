package stateflow

import "context"

// Guard decides whether a candidate transition may fire.
type Guard func(ctx context.Context) (bool, error)

// GuardCondition is a single guard with its method description.
type GuardCondition struct {
	Guard Guard

	methodDescription InvocationInfo
}

// NewGuardCondition creates a guard condition.
func NewGuardCondition(guard Guard, description InvocationInfo) GuardCondition {
	return GuardCondition{
		Guard:             guard,
		methodDescription: description,
	}
}

// Description returns the description of the guard method.
func (g GuardCondition) Description() string {
	return g.methodDescription.Description()
}

// MethodDescription returns the full method description.
func (g GuardCondition) MethodDescription() InvocationInfo {
	return g.methodDescription
}

// TransitionGuard holds guard conditions that must all pass, evaluated in order.
type TransitionGuard struct {
	Conditions []GuardCondition
}

// IsEmpty returns true if the transition guard has no conditions.
func (tg TransitionGuard) IsEmpty() bool {
	return len(tg.Conditions) == 0
}

// Met evaluates the conditions in order and stops at the first one that is false or fails.
func (tg TransitionGuard) Met(ctx context.Context) (bool, error) {
	for _, c := range tg.Conditions {
		if c.Guard == nil {
			continue
		}
		ok, err := c.Guard(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (tg TransitionGuard) with(c GuardCondition) TransitionGuard {
	conditions := make([]GuardCondition, 0, len(tg.Conditions)+1)
	conditions = append(conditions, tg.Conditions...)
	return TransitionGuard{Conditions: append(conditions, c)}
}

func (tg TransitionGuard) descriptions() []InvocationInfo {
	result := make([]InvocationInfo, len(tg.Conditions))
	for i, c := range tg.Conditions {
		result[i] = c.MethodDescription()
	}
	return result
}

// syncGuard adapts a plain predicate to a Guard.
func syncGuard(guard func() bool) Guard {
	if guard == nil {
		return nil
	}
	return func(context.Context) (bool, error) {
		return guard(), nil
	}
}
