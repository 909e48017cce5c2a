package definition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlekbai/stateflow/definition"
)

func TestValidate(t *testing.T) {
	valid := func() *definition.Definition {
		return &definition.Definition{
			Initial: "A",
			States: []definition.StateDefinition{
				{Name: "A", Transitions: []definition.TransitionDefinition{{Trigger: "go", To: "B"}}},
				{Name: "B"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(d *definition.Definition)
		message string
	}{
		{name: "valid", mutate: func(*definition.Definition) {}},
		{name: "missing initial", mutate: func(d *definition.Definition) { d.Initial = "" }, message: "initial state is required"},
		{name: "undeclared initial", mutate: func(d *definition.Definition) { d.Initial = "Z" }, message: "initial state 'Z' is not declared"},
		{name: "no states", mutate: func(d *definition.Definition) { d.States = nil }, message: "at least one state is required"},
		{name: "unnamed state", mutate: func(d *definition.Definition) { d.States[1].Name = "" }, message: "state 1: name is required"},
		{name: "duplicate state", mutate: func(d *definition.Definition) { d.States[1].Name = "A" }, message: "declared more than once"},
		{
			name:    "missing trigger",
			mutate:  func(d *definition.Definition) { d.States[0].Transitions[0].Trigger = "" },
			message: "trigger is required",
		},
		{
			name:    "missing destination",
			mutate:  func(d *definition.Definition) { d.States[0].Transitions[0].To = "" },
			message: "destination is required",
		},
		{
			name:    "undeclared destination",
			mutate:  func(d *definition.Definition) { d.States[0].Transitions[0].To = "Q" },
			message: "destination 'Q' is not declared",
		},
		{
			name: "internal with destination",
			mutate: func(d *definition.Definition) {
				d.States[0].Transitions[0].Internal = true
			},
			message: "internal transition cannot have a destination",
		},
		{
			name: "action on normal transition",
			mutate: func(d *definition.Definition) {
				d.States[0].Transitions[0].Action = "log"
			},
			message: "action is only allowed on internal transitions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := valid()
			tt.mutate(def)

			err := def.Validate()
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, definition.ErrInvalidDefinition)
			assert.ErrorContains(t, err, tt.message)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	def := &definition.Definition{
		States: []definition.StateDefinition{
			{Name: "A", Transitions: []definition.TransitionDefinition{{To: "A"}}},
			{Name: "A"},
		},
	}

	err := def.Validate()
	assert.ErrorContains(t, err, "initial state is required")
	assert.ErrorContains(t, err, "declared more than once")
	assert.ErrorContains(t, err, "trigger is required")
}
