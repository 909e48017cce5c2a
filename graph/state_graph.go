package graph

import (
	"fmt"
	"strings"

	"github.com/atlekbai/stateflow"
)

// StateGraph generates a symbolic representation of the graph structure.
type StateGraph struct {
	// Name is the machine name.
	Name string

	// InitialState is the name of the initial state.
	InitialState string

	// States contains all states in the graph, indexed by state name.
	States map[string]*State

	// Order lists state names in the order the machine reports them.
	Order []string

	// Transitions contains all edges in the graph.
	Transitions []*Transition

	// Decisions contains all decision nodes in the graph.
	Decisions []*Decision

	// DefaultEntryActions and DefaultExitActions are the machine-wide actions.
	DefaultEntryActions []string
	DefaultExitActions  []string
}

// NewStateGraph creates a new state graph from machine info.
func NewStateGraph(machineInfo *stateflow.MachineInfo) *StateGraph {
	sg := &StateGraph{
		Name:                machineInfo.Name,
		InitialState:        formatValue(machineInfo.InitialState),
		States:              make(map[string]*State),
		DefaultEntryActions: descriptions(machineInfo.DefaultEntryActions),
		DefaultExitActions:  descriptions(machineInfo.DefaultExitActions),
	}

	for _, stateInfo := range machineInfo.States {
		sg.addState(stateInfo)
	}
	sg.ensureState(sg.InitialState)

	for _, ti := range machineInfo.Transitions {
		sg.addTransition(ti)
	}

	return sg
}

func (sg *StateGraph) addState(stateInfo *stateflow.StateInfo) {
	name := stateInfo.String()
	state := sg.ensureState(name)
	state.EntryActions = descriptions(stateInfo.EntryActions)
	state.ExitActions = descriptions(stateInfo.ExitActions)
	state.IgnoreDefaultEntry = stateInfo.IgnoreDefaultEntry
	state.IgnoreDefaultExit = stateInfo.IgnoreDefaultExit
	state.StateInfo = stateInfo
}

// ensureState returns the named state, adding a bare node when it is not known yet.
func (sg *StateGraph) ensureState(name string) *State {
	if state, exists := sg.States[name]; exists {
		return state
	}
	state := &State{StateName: name, NodeName: name}
	sg.States[name] = state
	sg.Order = append(sg.Order, name)
	return state
}

func (sg *StateGraph) addTransition(ti stateflow.TransitionInfo) {
	source := sg.ensureState(formatValue(ti.Source))
	trigger := formatValue(ti.Trigger)
	guards := descriptions(ti.GuardConditions)

	if ti.IsInternal {
		sg.link(&Transition{
			Trigger:         trigger,
			SourceNode:      source.NodeName,
			DestinationNode: source.NodeName,
			Guards:          guards,
			Internal:        true,
		}, source, source)
		return
	}

	if !ti.IsDynamic && ti.Resolved {
		destination := sg.ensureState(formatValue(ti.Destination))
		sg.link(&Transition{
			Trigger:         trigger,
			SourceNode:      source.NodeName,
			DestinationNode: destination.NodeName,
			Guards:          guards,
		}, source, destination)
		return
	}

	decision := &Decision{
		NodeName: fmt.Sprintf("Decision%d", len(sg.Decisions)+1),
		Method:   ti.DestinationSelector,
	}
	sg.Decisions = append(sg.Decisions, decision)

	decision.Arriving = &Transition{
		Trigger:         trigger,
		SourceNode:      source.NodeName,
		DestinationNode: decision.NodeName,
		Guards:          guards,
	}
	sg.link(decision.Arriving, source, nil)

	if ti.Resolved {
		destination := sg.ensureState(formatValue(ti.Destination))
		decision.Leaving = &Transition{
			SourceNode:      decision.NodeName,
			DestinationNode: destination.NodeName,
		}
		sg.link(decision.Leaving, nil, destination)
	}
}

func (sg *StateGraph) link(transit *Transition, source, destination *State) {
	sg.Transitions = append(sg.Transitions, transit)
	if source != nil {
		source.Leaving = append(source.Leaving, transit)
	}
	if destination != nil {
		destination.Arriving = append(destination.Arriving, transit)
	}
}

// ToGraph converts the state graph to a string representation using the specified style.
func (sg *StateGraph) ToGraph(style Style) string {
	var sb strings.Builder

	sb.WriteString(style.GetPrefix())

	for _, name := range sg.Order {
		sb.WriteString(style.FormatOneState(sg.States[name]))
	}

	for _, dec := range sg.Decisions {
		sb.WriteString(style.FormatOneDecisionNode(dec.NodeName, dec.Method.Description()))
	}

	for _, line := range FormatTransitions(style, sg.Transitions) {
		sb.WriteString("\n")
		sb.WriteString(line)
	}

	sb.WriteString(style.GetInitialTransition(sg.InitialState))

	return sb.String()
}

func descriptions(infos []stateflow.InvocationInfo) []string {
	var result []string
	for _, info := range infos {
		result = append(result, info.Description())
	}
	return result
}

func formatValue(v any) string {
	if v == nil {
		return stateflow.NullString
	}
	return fmt.Sprintf("%v", v)
}
