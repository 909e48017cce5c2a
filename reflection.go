package stateflow

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"
)

// InvocationInfo describes a method - an action, a guard condition or a destination selector.
type InvocationInfo struct {
	// MethodName is the name of the invoked method.
	MethodName string
	// description is the user-specified description (can be empty).
	description string
}

// DefaultFunctionDescription is the text returned for compiler-generated functions
// where the caller has not specified a description.
var DefaultFunctionDescription = "Function"

// NullString is the string representation of a null value.
const NullString = "<null>"

// UnknownDestination is reported by GetInfo for destinations that could not be resolved in time.
const UnknownDestination = "<unknown>"

// NewInvocationInfo creates a new InvocationInfo.
func NewInvocationInfo(methodName, description string) InvocationInfo {
	return InvocationInfo{
		MethodName:  methodName,
		description: description,
	}
}

// CreateInvocationInfo creates InvocationInfo from a function and description.
func CreateInvocationInfo(fn any, description string) InvocationInfo {
	return NewInvocationInfo(getFunctionName(fn), description)
}

// Description returns the description of the invoked method.
// Returns:
// 1. The user-specified description, if any
// 2. Otherwise, if the method name is compiler-generated, returns DefaultFunctionDescription
// 3. Otherwise, the unqualified method name
func (i InvocationInfo) Description() string {
	if i.description != "" {
		return i.description
	}
	if i.MethodName == "" {
		return NullString
	}
	name := i.MethodName
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if name == "" || strings.HasPrefix(name, "func") {
		return DefaultFunctionDescription
	}
	return name
}

func getFunctionName(fn any) string {
	if fn == nil {
		return ""
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	name := runtime.FuncForPC(v.Pointer()).Name()
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

func firstOrEmpty(s []string) string {
	if len(s) > 0 {
		return s[0]
	}
	return ""
}

// MachineInfo exposes the states, transitions and actions of a machine for visualization.
// Destinations are best-effort and must not be treated as authoritative.
type MachineInfo struct {
	Name         string
	InitialState any
	CurrentState any

	// States are listed in the order they were first configured or referenced.
	States []*StateInfo

	// Transitions lists every table entry, keys in registration order and
	// candidates in guard-evaluation order.
	Transitions []TransitionInfo

	DefaultEntryActions []InvocationInfo
	DefaultExitActions  []InvocationInfo

	StateType   string
	TriggerType string
}

// StateInfo describes one configured state.
type StateInfo struct {
	UnderlyingState    any
	EntryActions       []InvocationInfo
	ExitActions        []InvocationInfo
	IgnoreDefaultEntry bool
	IgnoreDefaultExit  bool
}

// String returns the string representation of the state.
func (s *StateInfo) String() string {
	if s == nil || s.UnderlyingState == nil {
		return NullString
	}
	return fmt.Sprintf("%v", s.UnderlyingState)
}

// TransitionInfo describes one candidate transition.
type TransitionInfo struct {
	Source  any
	Trigger any

	// Destination is the resolved destination, the source for internal transitions,
	// or UnknownDestination when Resolved is false.
	Destination any
	Resolved    bool

	// IsDynamic marks destinations chosen by a selector when the trigger fires.
	IsDynamic       bool
	IsInternal      bool
	GuardConditions []InvocationInfo

	// DestinationSelector describes the resolver for dynamic destinations.
	DestinationSelector InvocationInfo
}

// GetInfo returns a snapshot of the machine configuration. It never fires triggers or
// evaluates guards, but destination selectors are invoked with a bounded wait
// (see WithExportTimeout) and may have side effects of their own.
func (sm *Machine[TState, TTrigger]) GetInfo() *MachineInfo {
	info := &MachineInfo{
		Name:         sm.name,
		InitialState: sm.initialState,
		CurrentState: sm.state,
		StateType:    fmt.Sprintf("%T", *new(TState)),
		TriggerType:  fmt.Sprintf("%T", *new(TTrigger)),
	}

	for _, state := range sm.stateOrder {
		actions := sm.stateActions[state]
		info.States = append(info.States, &StateInfo{
			UnderlyingState:    state,
			EntryActions:       actions.entry.descriptions(),
			ExitActions:        actions.exit.descriptions(),
			IgnoreDefaultEntry: actions.ignoreDefaultEntry,
			IgnoreDefaultExit:  actions.ignoreDefaultExit,
		})
	}
	info.DefaultEntryActions = sm.defaults.entry.descriptions()
	info.DefaultExitActions = sm.defaults.exit.descriptions()

	sm.table.each(func(key transitionKey[TState, TTrigger], records []*transitionRecord[TState]) {
		for _, record := range records {
			ti := TransitionInfo{
				Source:              key.source,
				Trigger:             key.trigger,
				IsDynamic:           record.dynamic,
				IsInternal:          record.internal,
				GuardConditions:     record.guard.descriptions(),
				DestinationSelector: record.destinationInfo,
			}
			if record.internal {
				ti.Destination, ti.Resolved = key.source, true
			} else if dest, ok := resolveWithin(record.destination, sm.exportTimeout); ok {
				ti.Destination, ti.Resolved = dest, true
			} else {
				ti.Destination = UnknownDestination
			}
			info.Transitions = append(info.Transitions, ti)
		}
	})

	return info
}

// resolveWithin runs the selector on its own goroutine and gives up after timeout.
// A selector that ignores its context keeps running in the background.
func resolveWithin[TState any](selector Selector[TState], timeout time.Duration) (TState, bool) {
	var zero TState
	if selector == nil {
		return zero, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	type result struct {
		state TState
		err   error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("destination selector panicked: %v", r)}
			}
		}()
		s, err := selector(ctx)
		done <- result{state: s, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return zero, false
		}
		return r.state, true
	case <-ctx.Done():
		return zero, false
	}
}
