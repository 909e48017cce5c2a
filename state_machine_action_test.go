package stateflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlekbai/stateflow"
)

// recorder collects action names in call order.
type recorder struct {
	calls []string
}

func (r *recorder) record(name string) func() {
	return func() { r.calls = append(r.calls, name) }
}

func TestActionOrder(t *testing.T) {
	sm := stateflow.NewMachine[State, Trigger](StateA)
	rec := &recorder{}

	sm.Configure(StateA).
		Permit(TriggerX, StateB).
		OnExit(rec.record("exit-specific"))
	sm.Configure(StateB).
		OnEntry(rec.record("entry-specific"))
	sm.DefaultOnExit(rec.record("exit-default")).
		DefaultOnEntry(rec.record("entry-default"))

	require.NoError(t, sm.Fire(TriggerX))
	assert.Equal(t, []string{"exit-specific", "exit-default", "entry-default", "entry-specific"}, rec.calls)
}

func TestActionOrder_StateWrittenBetweenExitAndEntry(t *testing.T) {
	sm := stateflow.NewMachine[State, Trigger](StateA)
	var duringExit, duringEntry State

	sm.Configure(StateA).
		Permit(TriggerX, StateB).
		OnExitCtx(func(_ context.Context, m *stateflow.Machine[State, Trigger]) error {
			duringExit = m.State()
			return nil
		})
	sm.DefaultOnEntryCtx(func(_ context.Context, m *stateflow.Machine[State, Trigger]) error {
		duringEntry = m.State()
		return nil
	})

	require.NoError(t, sm.Fire(TriggerX))
	assert.Equal(t, StateA, duringExit)
	assert.Equal(t, StateB, duringEntry)
}

func TestActionOrder_MultipleActionsInRegistrationOrder(t *testing.T) {
	sm := stateflow.NewMachine[State, Trigger](StateA)
	rec := &recorder{}

	sm.Configure(StateA).Permit(TriggerX, StateB)
	sm.Configure(StateB).
		OnEntry(rec.record("entry-1")).
		OnEntry(rec.record("entry-2"))
	sm.DefaultOnEntry(rec.record("default-1"))
	sm.DefaultOnEntry(rec.record("default-2"))

	require.NoError(t, sm.Fire(TriggerX))
	assert.Equal(t, []string{"default-1", "default-2", "entry-1", "entry-2"}, rec.calls)
}

func TestIgnoreDefaultExit(t *testing.T) {
	sm := stateflow.NewMachine[State, Trigger](StateA)
	rec := &recorder{}

	sm.Configure(StateA).
		Permit(TriggerX, StateB).
		OnExit(rec.record("exit-specific")).
		IgnoreDefaultExit()
	sm.Configure(StateB).Permit(TriggerY, StateA)
	sm.DefaultOnExit(rec.record("exit-default"))
	sm.DefaultOnEntry(rec.record("entry-default"))

	require.NoError(t, sm.Fire(TriggerX))
	assert.Equal(t, []string{"exit-specific", "entry-default"}, rec.calls)

	rec.calls = nil
	require.NoError(t, sm.Fire(TriggerY))
	assert.Equal(t, []string{"exit-default", "entry-default"}, rec.calls)
}

func TestIgnoreDefaultEntry(t *testing.T) {
	sm := stateflow.NewMachine[State, Trigger](StateA)
	rec := &recorder{}

	sm.Configure(StateA).Permit(TriggerX, StateB)
	sm.Configure(StateB).
		OnEntry(rec.record("entry-specific")).
		IgnoreDefaultEntry().
		Permit(TriggerY, StateC)
	sm.DefaultOnExit(rec.record("exit-default"))
	sm.DefaultOnEntry(rec.record("entry-default"))

	require.NoError(t, sm.Fire(TriggerX))
	assert.Equal(t, []string{"exit-default", "entry-specific"}, rec.calls)

	rec.calls = nil
	require.NoError(t, sm.Fire(TriggerY))
	assert.Equal(t, []string{"exit-default", "entry-default"}, rec.calls)
}

func TestDefaultActions_UnconfiguredDestination(t *testing.T) {
	sm := stateflow.NewMachine[string, string]("A")
	rec := &recorder{}

	sm.Configure("A").PermitDynamic("go", func() string { return "Z" })
	sm.DefaultOnEntry(rec.record("entry-default"))

	require.NoError(t, sm.Fire("go"))
	assert.Equal(t, "Z", sm.State())
	assert.Equal(t, []string{"entry-default"}, rec.calls)
}

func TestExitActionError_StopsBeforeStateChange(t *testing.T) {
	sm := stateflow.NewMachine[State, Trigger](StateA)
	boom := errors.New("exit failed")
	rec := &recorder{}

	sm.Configure(StateA).
		Permit(TriggerX, StateB).
		OnExitCtx(func(context.Context, *stateflow.Machine[State, Trigger]) error { return boom })
	sm.DefaultOnExit(rec.record("exit-default"))

	err := sm.Fire(TriggerX)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateA, sm.State())
	assert.Empty(t, rec.calls)
}

func TestEntryActionError_NoRollback(t *testing.T) {
	sm := stateflow.NewMachine[State, Trigger](StateA)
	boom := errors.New("entry failed")
	rec := &recorder{}
	transitioned := false

	sm.Configure(StateA).
		Permit(TriggerX, StateB).
		OnExit(rec.record("exit-specific"))
	sm.Configure(StateB).
		OnEntryCtx(func(context.Context, *stateflow.Machine[State, Trigger]) error { return boom }).
		OnEntry(rec.record("entry-after-failure"))
	sm.OnTransitioned(func(stateflow.Transition[State, Trigger]) { transitioned = true })

	err := sm.Fire(TriggerX)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateB, sm.State())
	assert.Equal(t, []string{"exit-specific"}, rec.calls)
	assert.False(t, transitioned)
}

func TestOnTransitioned(t *testing.T) {
	sm := stateflow.NewMachine[State, Trigger](StateA)
	var transitions []stateflow.Transition[State, Trigger]

	sm.Configure(StateA).
		Permit(TriggerX, StateB).
		InternalTransition(TriggerY, func() {})
	sm.OnTransitioned(func(tr stateflow.Transition[State, Trigger]) {
		transitions = append(transitions, tr)
	})

	require.NoError(t, sm.Fire(TriggerY))
	require.NoError(t, sm.Fire(TriggerX))

	require.Len(t, transitions, 1)
	assert.Equal(t, stateflow.Transition[State, Trigger]{Source: StateA, Destination: StateB, Trigger: TriggerX}, transitions[0])
}

func TestActionCanQueryMachine(t *testing.T) {
	sm := stateflow.NewMachine[State, Trigger](StateA)
	var permitted []Trigger

	sm.Configure(StateA).Permit(TriggerX, StateB)
	sm.Configure(StateB).
		Permit(TriggerY, StateC).
		OnEntryCtx(func(ctx context.Context, m *stateflow.Machine[State, Trigger]) error {
			var err error
			permitted, err = m.PermittedTriggers(ctx)
			return err
		})

	require.NoError(t, sm.Fire(TriggerX))
	assert.Equal(t, []Trigger{TriggerY}, permitted)
}
