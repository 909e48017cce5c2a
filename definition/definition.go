// Package definition loads state machines from declarative YAML, JSON or TOML files.
package definition

import (
	"errors"
	"fmt"
)

// ErrInvalidDefinition wraps every validation failure.
var ErrInvalidDefinition = errors.New("invalid definition")

// Definition describes a machine with string states and triggers.
type Definition struct {
	Name      string             `mapstructure:"name"`
	Initial   string             `mapstructure:"initial"`
	Defaults  DefaultsDefinition `mapstructure:"defaults"`
	Unhandled string             `mapstructure:"unhandled"`
	States    []StateDefinition  `mapstructure:"states"`
}

// DefaultsDefinition names the machine-wide entry and exit actions.
type DefaultsDefinition struct {
	OnEntry []string `mapstructure:"on_entry"`
	OnExit  []string `mapstructure:"on_exit"`
}

// StateDefinition configures one state.
type StateDefinition struct {
	Name               string                 `mapstructure:"name"`
	OnEntry            []string               `mapstructure:"on_entry"`
	OnExit             []string               `mapstructure:"on_exit"`
	IgnoreDefaultEntry bool                   `mapstructure:"ignore_default_entry"`
	IgnoreDefaultExit  bool                   `mapstructure:"ignore_default_exit"`
	Transitions        []TransitionDefinition `mapstructure:"transitions"`
}

// TransitionDefinition is one candidate for a trigger. Candidates for the same trigger
// are tried in the order they are listed.
type TransitionDefinition struct {
	Trigger string `mapstructure:"trigger"`

	// To is the destination of a state-changing transition.
	To string `mapstructure:"to"`

	// Internal transitions run Action and stay in the state.
	Internal bool   `mapstructure:"internal"`
	Action   string `mapstructure:"action"`

	// Guards must all pass. A leading "!" negates a guard.
	Guards []string `mapstructure:"guards"`
}

// Validate checks the structure of the definition. Names of guards and actions are
// checked against a Registry by Build.
func (d *Definition) Validate() error {
	var errz []error

	if d.Initial == "" {
		errz = append(errz, errors.New("initial state is required"))
	}
	if len(d.States) == 0 {
		errz = append(errz, errors.New("at least one state is required"))
	}

	declared := make(map[string]bool, len(d.States))
	for i, s := range d.States {
		if s.Name == "" {
			errz = append(errz, fmt.Errorf("state %d: name is required", i))
			continue
		}
		if declared[s.Name] {
			errz = append(errz, fmt.Errorf("state '%s': declared more than once", s.Name))
		}
		declared[s.Name] = true
	}

	if d.Initial != "" && len(d.States) > 0 && !declared[d.Initial] {
		errz = append(errz, fmt.Errorf("initial state '%s' is not declared", d.Initial))
	}

	for _, s := range d.States {
		for j, t := range s.Transitions {
			if err := t.validate(declared); err != nil {
				errz = append(errz, fmt.Errorf("state '%s' transition %d: %w", s.Name, j, err))
			}
		}
	}

	if len(errz) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDefinition, errors.Join(errz...))
	}
	return nil
}

func (t TransitionDefinition) validate(declared map[string]bool) error {
	switch {
	case t.Trigger == "":
		return errors.New("trigger is required")
	case t.Internal && t.To != "":
		return fmt.Errorf("trigger '%s': internal transition cannot have a destination", t.Trigger)
	case !t.Internal && t.To == "":
		return fmt.Errorf("trigger '%s': destination is required", t.Trigger)
	case !t.Internal && t.Action != "":
		return fmt.Errorf("trigger '%s': action is only allowed on internal transitions", t.Trigger)
	case t.To != "" && !declared[t.To]:
		return fmt.Errorf("trigger '%s': destination '%s' is not declared", t.Trigger, t.To)
	}
	return nil
}
