package definition

import (
	"errors"
	"fmt"

	"github.com/atlekbai/stateflow"
)

// Build validates def and configures a new machine from it. Options are applied after
// the definition's name, so WithName overrides it.
func Build(def *Definition, registry *Registry, opts ...stateflow.Option) (*Machine, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	b := &builder{registry: registry}
	if def.Name != "" {
		opts = append([]stateflow.Option{stateflow.WithName(def.Name)}, opts...)
	}
	m := stateflow.NewMachine[string, string](def.Initial, opts...)

	for _, name := range def.Defaults.OnEntry {
		if action := b.action(name); action != nil {
			m.DefaultOnEntryCtx(action, name)
		}
	}
	for _, name := range def.Defaults.OnExit {
		if action := b.action(name); action != nil {
			m.DefaultOnExitCtx(action, name)
		}
	}

	if def.Unhandled != "" {
		handler, err := registry.Unhandled(def.Unhandled)
		if err != nil {
			b.errz = append(b.errz, err)
		} else {
			m.OnUnhandledTriggerCtx(handler)
		}
	}

	for _, s := range def.States {
		b.configureState(m, s)
	}

	if len(b.errz) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, errors.Join(b.errz...))
	}
	return m, nil
}

// builder collects lookup errors so that one Build reports every unknown name.
type builder struct {
	registry *Registry
	errz     []error
}

func (b *builder) action(name string) stateflow.Action[string, string] {
	action, err := b.registry.Action(name)
	if err != nil {
		b.errz = append(b.errz, err)
		return nil
	}
	return action
}

func (b *builder) guard(name string) stateflow.Guard {
	guard, err := b.registry.Guard(name)
	if err != nil {
		b.errz = append(b.errz, err)
		return nil
	}
	return guard
}

func (b *builder) configureState(m *Machine, s StateDefinition) {
	sc := m.Configure(s.Name)

	for _, name := range s.OnEntry {
		if action := b.action(name); action != nil {
			sc.OnEntryCtx(action, name)
		}
	}
	for _, name := range s.OnExit {
		if action := b.action(name); action != nil {
			sc.OnExitCtx(action, name)
		}
	}
	if s.IgnoreDefaultEntry {
		sc.IgnoreDefaultEntry()
	}
	if s.IgnoreDefaultExit {
		sc.IgnoreDefaultExit()
	}

	triggers, candidates := groupByTrigger(s.Transitions)
	for _, trigger := range triggers {
		sc.OnTrigger(trigger, func(tc *stateflow.TransitionConfiguration[string, string]) {
			for _, t := range candidates[trigger] {
				b.addCandidate(tc, t)
			}
		})
	}
}

func (b *builder) addCandidate(tc *stateflow.TransitionConfiguration[string, string], t TransitionDefinition) {
	if t.Internal {
		var action stateflow.Action[string, string]
		if t.Action != "" {
			action = b.action(t.Action)
		}
		tc.ExecuteActionCtx(action, t.Action)
	} else {
		tc.ChangeState(t.To)
	}

	for _, name := range t.Guards {
		if guard := b.guard(name); guard != nil {
			tc.IfCtx(guard, name)
		}
	}
}

// groupByTrigger keeps the first-appearance order of triggers and the listed order of
// candidates within each trigger.
func groupByTrigger(transitions []TransitionDefinition) ([]string, map[string][]TransitionDefinition) {
	var order []string
	grouped := make(map[string][]TransitionDefinition)
	for _, t := range transitions {
		if _, seen := grouped[t.Trigger]; !seen {
			order = append(order, t.Trigger)
		}
		grouped[t.Trigger] = append(grouped[t.Trigger], t)
	}
	return order, grouped
}
