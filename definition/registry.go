package definition

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/atlekbai/stateflow"
)

// Machine is the machine type built from definitions.
type Machine = stateflow.Machine[string, string]

// Registry resolves the guard, action and unhandled handler names used in a definition.
type Registry struct {
	mu        sync.RWMutex
	guards    map[string]stateflow.Guard
	actions   map[string]stateflow.Action[string, string]
	unhandled map[string]stateflow.UnhandledTriggerHandler[string, string]

	logger *slog.Logger
	counts map[string]int
}

// NewRegistry creates a registry with the built-ins:
//
//   - guards "always" and "never"
//   - actions "log" (info record with the current state) and "count" (counts per state)
//   - unhandled handlers "log" (warn record) and "ignore"
//
// A nil logger discards the records of the log built-ins.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Registry{
		guards:    make(map[string]stateflow.Guard),
		actions:   make(map[string]stateflow.Action[string, string]),
		unhandled: make(map[string]stateflow.UnhandledTriggerHandler[string, string]),
		logger:    logger,
		counts:    make(map[string]int),
	}

	r.RegisterGuard("always", func(context.Context) (bool, error) { return true, nil })
	r.RegisterGuard("never", func(context.Context) (bool, error) { return false, nil })

	r.RegisterAction("log", func(ctx context.Context, m *Machine) error {
		r.logger.InfoContext(ctx, "action", "machine", m.Name(), "state", m.State())
		return nil
	})
	r.RegisterAction("count", func(_ context.Context, m *Machine) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.counts[m.State()]++
		return nil
	})

	r.RegisterUnhandled("log", func(ctx context.Context, trigger string, m *Machine) error {
		r.logger.WarnContext(ctx, "unhandled trigger", "machine", m.Name(), "state", m.State(), "trigger", trigger)
		return nil
	})
	r.RegisterUnhandled("ignore", func(context.Context, string, *Machine) error { return nil })

	return r
}

// RegisterGuard adds or replaces a named guard.
func (r *Registry) RegisterGuard(name string, guard stateflow.Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards[name] = guard
}

// RegisterAction adds or replaces a named action.
func (r *Registry) RegisterAction(name string, action stateflow.Action[string, string]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = action
}

// RegisterUnhandled adds or replaces a named unhandled trigger handler.
func (r *Registry) RegisterUnhandled(name string, handler stateflow.UnhandledTriggerHandler[string, string]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unhandled[name] = handler
}

// Guard looks up a guard. A leading "!" returns the negated guard.
func (r *Registry) Guard(name string) (stateflow.Guard, error) {
	negate := len(name) > 1 && name[0] == '!'
	if negate {
		name = name[1:]
	}

	r.mu.RLock()
	guard, ok := r.guards[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown guard '%s'", name)
	}
	if !negate {
		return guard, nil
	}
	return func(ctx context.Context) (bool, error) {
		ok, err := guard(ctx)
		return !ok, err
	}, nil
}

// Action looks up an action.
func (r *Registry) Action(name string) (stateflow.Action[string, string], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	action, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("unknown action '%s'", name)
	}
	return action, nil
}

// Unhandled looks up an unhandled trigger handler.
func (r *Registry) Unhandled(name string) (stateflow.UnhandledTriggerHandler[string, string], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.unhandled[name]
	if !ok {
		return nil, fmt.Errorf("unknown unhandled handler '%s'", name)
	}
	return handler, nil
}

// Count returns how often the "count" action ran while the machine was in state.
func (r *Registry) Count(state string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counts[state]
}

// Names returns the registered guard and action names, sorted.
func (r *Registry) Names() (guards, actions []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name := range r.guards {
		guards = append(guards, name)
	}
	for name := range r.actions {
		actions = append(actions, name)
	}
	sort.Strings(guards)
	sort.Strings(actions)
	return guards, actions
}
