package stateflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(state string) Selector[string] {
	return func(context.Context) (string, error) { return state, nil }
}

func guarded(result bool) TransitionGuard {
	return TransitionGuard{}.with(NewGuardCondition(func(context.Context) (bool, error) { return result, nil }, InvocationInfo{}))
}

func TestTransitionTable_RegisterAppends(t *testing.T) {
	table := newTransitionTable[string, string]()
	first := &transitionRecord[string]{destination: fixed("B")}
	second := &transitionRecord[string]{destination: fixed("C")}

	table.register("A", "x", first)
	table.register("A", "x", second)

	records, ok := table.lookup("A", "x")
	require.True(t, ok)
	assert.Equal(t, []*transitionRecord[string]{first, second}, records)

	_, ok = table.lookup("A", "y")
	assert.False(t, ok)
}

func TestTransitionTable_TriggersInRegistrationOrder(t *testing.T) {
	table := newTransitionTable[string, string]()
	table.register("A", "z", &transitionRecord[string]{})
	table.register("B", "x", &transitionRecord[string]{})
	table.register("A", "x", &transitionRecord[string]{})
	table.register("A", "z", &transitionRecord[string]{})

	assert.Equal(t, []string{"z", "x"}, table.triggers("A"))
	assert.Equal(t, []string{"x"}, table.triggers("B"))
	assert.Empty(t, table.triggers("C"))

	var keys []transitionKey[string, string]
	table.each(func(key transitionKey[string, string], _ []*transitionRecord[string]) {
		keys = append(keys, key)
	})
	assert.Equal(t, []transitionKey[string, string]{
		{source: "A", trigger: "z"},
		{source: "B", trigger: "x"},
		{source: "A", trigger: "x"},
	}, keys)
}

func TestSelectWinner(t *testing.T) {
	rejected := &transitionRecord[string]{guard: guarded(false), destination: fixed("B")}
	open := &transitionRecord[string]{destination: fixed("C")}
	passing := &transitionRecord[string]{guard: guarded(true), destination: fixed("D")}

	tests := []struct {
		name     string
		records  []*transitionRecord[string]
		expected *transitionRecord[string]
	}{
		{name: "empty", records: nil, expected: nil},
		{name: "all rejected", records: []*transitionRecord[string]{rejected, rejected}, expected: nil},
		{name: "unguarded wins", records: []*transitionRecord[string]{rejected, open, passing}, expected: open},
		{name: "first passing wins", records: []*transitionRecord[string]{passing, open}, expected: passing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner, err := selectWinner(context.Background(), tt.records)
			require.NoError(t, err)
			if tt.expected == nil {
				assert.Nil(t, winner)
				return
			}
			assert.Same(t, tt.expected, winner)
		})
	}
}

func TestSelectWinner_GuardError(t *testing.T) {
	boom := errors.New("boom")
	failing := &transitionRecord[string]{
		guard: TransitionGuard{}.with(NewGuardCondition(func(context.Context) (bool, error) { return false, boom }, InvocationInfo{})),
	}

	winner, err := selectWinner(context.Background(), []*transitionRecord[string]{failing})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, winner)
}

func TestTransitionGuard_WithDoesNotAlias(t *testing.T) {
	base := guarded(true)
	a := base.with(NewGuardCondition(nil, NewInvocationInfo("a", "")))
	b := base.with(NewGuardCondition(nil, NewInvocationInfo("b", "")))

	require.Len(t, a.Conditions, 2)
	require.Len(t, b.Conditions, 2)
	assert.Equal(t, "a", a.Conditions[1].MethodDescription().MethodName)
	assert.Equal(t, "b", b.Conditions[1].MethodDescription().MethodName)
	assert.True(t, TransitionGuard{}.IsEmpty())
}

func TestStateActions_NilReceiverRunsDefaults(t *testing.T) {
	m := NewMachine[string, string]("A")
	var calls []string
	m.DefaultOnEntry(func() { calls = append(calls, "entry") })
	m.DefaultOnExit(func() { calls = append(calls, "exit") })

	var sa *stateActions[string, string]
	require.NoError(t, sa.Exit(context.Background(), m))
	require.NoError(t, sa.Enter(context.Background(), m))

	assert.Equal(t, []string{"exit", "entry"}, calls)
}
