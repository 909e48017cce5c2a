// Package graph provides visualization utilities for state machines.
package graph

import (
	"github.com/atlekbai/stateflow"
)

// State represents a state in the graph.
type State struct {
	// StateName is the name of the state.
	StateName string

	// NodeName is the name used for the node in the graph.
	NodeName string

	// EntryActions are the entry actions for this state.
	EntryActions []string

	// ExitActions are the exit actions for this state.
	ExitActions []string

	// IgnoreDefaultEntry and IgnoreDefaultExit mirror the state's opt-out flags.
	IgnoreDefaultEntry bool
	IgnoreDefaultExit  bool

	// Leaving are the transitions leaving this state.
	Leaving []*Transition

	// Arriving are the transitions arriving at this state.
	Arriving []*Transition

	// StateInfo contains the underlying state information. It is nil for states that
	// only appear as a resolved destination.
	StateInfo *stateflow.StateInfo
}

// Decision represents a decision node in the graph, drawn for transitions whose
// destination is chosen by a selector.
type Decision struct {
	// NodeName is the name of the decision node.
	NodeName string

	// Method contains information about the destination selector.
	Method stateflow.InvocationInfo

	// Arriving is the transition leading into the decision node.
	Arriving *Transition

	// Leaving is the edge to the destination observed at export time, if any.
	Leaving *Transition
}

// Transition represents an edge in the graph.
type Transition struct {
	// Trigger is the formatted trigger.
	Trigger string

	// SourceNode and DestinationNode are graph node names; either may be a decision node.
	SourceNode      string
	DestinationNode string

	// Guards are the guard descriptions, in evaluation order.
	Guards []string

	// Internal marks transitions that run an action without leaving the state.
	Internal bool
}
