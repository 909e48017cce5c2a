package definition_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlekbai/stateflow"
	"github.com/atlekbai/stateflow/definition"
)

func TestBuild(t *testing.T) {
	def, err := definition.Parse([]byte(turnstileYAML), definition.FormatYAML)
	require.NoError(t, err)

	var buf bytes.Buffer
	registry := definition.NewRegistry(slog.New(slog.NewTextHandler(&buf, nil)))

	m, err := definition.Build(def, registry)
	require.NoError(t, err)

	assert.Equal(t, "turnstile", m.Name())
	assert.Equal(t, "Locked", m.State())

	require.NoError(t, m.Fire("push"))
	assert.Equal(t, "Locked", m.State())
	assert.Contains(t, buf.String(), "state=Locked")

	require.NoError(t, m.Fire("coin"))
	assert.Equal(t, "Unlocked", m.State())
	assert.Zero(t, registry.Count("Unlocked"))

	require.NoError(t, m.Fire("push"))
	assert.Equal(t, "Locked", m.State())
	assert.Equal(t, 1, registry.Count("Locked"))

	require.NoError(t, m.Fire("unknown"))
	assert.Equal(t, "Locked", m.State())
}

func TestBuild_WithNameOverrides(t *testing.T) {
	def, err := definition.Parse([]byte(turnstileJSON), definition.FormatJSON)
	require.NoError(t, err)

	m, err := definition.Build(def, definition.NewRegistry(nil), stateflow.WithName("gate"))
	require.NoError(t, err)
	assert.Equal(t, "gate", m.Name())
}

func TestBuild_GuardsInOrder(t *testing.T) {
	def := &definition.Definition{
		Initial: "Idle",
		States: []definition.StateDefinition{
			{Name: "Idle", Transitions: []definition.TransitionDefinition{
				{Trigger: "go", To: "Fast", Guards: []string{"never"}},
				{Trigger: "go", To: "Slow", Guards: []string{"!never", "always"}},
				{Trigger: "go", To: "Fast"},
			}},
			{Name: "Fast"},
			{Name: "Slow"},
		},
	}

	m, err := definition.Build(def, definition.NewRegistry(nil))
	require.NoError(t, err)

	require.NoError(t, m.Fire("go"))
	assert.Equal(t, "Slow", m.State())

	info := m.GetInfo()
	require.Len(t, info.Transitions, 3)
	require.Len(t, info.Transitions[1].GuardConditions, 2)
	assert.Equal(t, "!never", info.Transitions[1].GuardConditions[0].Description())
}

func TestBuild_CustomRegistrations(t *testing.T) {
	registry := definition.NewRegistry(nil)
	boom := errors.New("denied")
	opened := false

	registry.RegisterGuard("authorized", func(context.Context) (bool, error) { return true, nil })
	registry.RegisterAction("open", func(context.Context, *definition.Machine) error {
		opened = true
		return nil
	})
	registry.RegisterUnhandled("deny", func(context.Context, string, *definition.Machine) error { return boom })

	def := &definition.Definition{
		Initial:   "Closed",
		Unhandled: "deny",
		States: []definition.StateDefinition{
			{Name: "Closed", Transitions: []definition.TransitionDefinition{
				{Trigger: "open", To: "Open", Guards: []string{"authorized"}},
			}},
			{Name: "Open", OnEntry: []string{"open"}},
		},
	}

	m, err := definition.Build(def, registry)
	require.NoError(t, err)

	require.NoError(t, m.Fire("open"))
	assert.True(t, opened)
	assert.ErrorIs(t, m.Fire("open"), boom)
}

func TestBuild_UnknownNames(t *testing.T) {
	def := &definition.Definition{
		Initial:   "A",
		Unhandled: "shrug",
		Defaults:  definition.DefaultsDefinition{OnExit: []string{"audit"}},
		States: []definition.StateDefinition{
			{Name: "A", OnEntry: []string{"greet"}, Transitions: []definition.TransitionDefinition{
				{Trigger: "go", To: "A", Guards: []string{"ready"}},
				{Trigger: "tick", Internal: true, Action: "tock"},
			}},
		},
	}

	_, err := definition.Build(def, definition.NewRegistry(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, definition.ErrInvalidDefinition)
	for _, name := range []string{"shrug", "audit", "greet", "ready", "tock"} {
		assert.ErrorContains(t, err, "'"+name+"'")
	}
}

func TestBuild_InvalidDefinition(t *testing.T) {
	_, err := definition.Build(&definition.Definition{}, definition.NewRegistry(nil))
	assert.ErrorIs(t, err, definition.ErrInvalidDefinition)
}

func TestRegistry_Names(t *testing.T) {
	guards, actions := definition.NewRegistry(nil).Names()

	assert.Equal(t, []string{"always", "never"}, guards)
	assert.Equal(t, []string{"count", "log"}, actions)
}
