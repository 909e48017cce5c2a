package stateflow

import "context"

// Selector resolves the destination of a transition.
type Selector[TState any] func(ctx context.Context) (TState, error)

// transitionRecord is one candidate transition. It is created when a trigger configuration
// is committed and never modified afterwards.
type transitionRecord[TState comparable] struct {
	guard TransitionGuard

	// destination is invoked for side effects only when internal is set.
	destination     Selector[TState]
	destinationInfo InvocationInfo

	dynamic  bool
	internal bool
}

type transitionKey[TState, TTrigger comparable] struct {
	source  TState
	trigger TTrigger
}

// transitionTable maps (source, trigger) to candidates in registration order.
// Registration is append-only.
type transitionTable[TState, TTrigger comparable] struct {
	entries map[transitionKey[TState, TTrigger]][]*transitionRecord[TState]

	// keys remembers first registration order for introspection.
	keys []transitionKey[TState, TTrigger]
}

func newTransitionTable[TState, TTrigger comparable]() *transitionTable[TState, TTrigger] {
	return &transitionTable[TState, TTrigger]{
		entries: make(map[transitionKey[TState, TTrigger]][]*transitionRecord[TState]),
	}
}

func (t *transitionTable[TState, TTrigger]) register(source TState, trigger TTrigger, record *transitionRecord[TState]) {
	key := transitionKey[TState, TTrigger]{source: source, trigger: trigger}
	records, exists := t.entries[key]
	if !exists {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = append(records, record)
}

func (t *transitionTable[TState, TTrigger]) lookup(source TState, trigger TTrigger) ([]*transitionRecord[TState], bool) {
	records, ok := t.entries[transitionKey[TState, TTrigger]{source: source, trigger: trigger}]
	return records, ok
}

// triggers returns the triggers registered for source, in registration order.
func (t *transitionTable[TState, TTrigger]) triggers(source TState) []TTrigger {
	var result []TTrigger
	for _, key := range t.keys {
		if key.source == source {
			result = append(result, key.trigger)
		}
	}
	return result
}

func (t *transitionTable[TState, TTrigger]) each(fn func(transitionKey[TState, TTrigger], []*transitionRecord[TState])) {
	for _, key := range t.keys {
		fn(key, t.entries[key])
	}
}

// selectWinner evaluates guards in registration order and returns the first candidate whose
// guard passes, or nil. Later candidates are not evaluated.
func selectWinner[TState comparable](ctx context.Context, records []*transitionRecord[TState]) (*transitionRecord[TState], error) {
	for _, record := range records {
		ok, err := record.guard.Met(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			return record, nil
		}
	}
	return nil, nil
}
