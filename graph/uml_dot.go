package graph

import (
	"fmt"
	"strings"

	"github.com/atlekbai/stateflow"
)

// UmlDotGraphStyle generates DOT graphs in basic UML style.
type UmlDotGraphStyle struct{}

// NewUmlDotGraphStyle creates a new UML DOT graph style.
func NewUmlDotGraphStyle() *UmlDotGraphStyle {
	return &UmlDotGraphStyle{}
}

// GetPrefix returns the text that starts a new DOT graph.
func (s *UmlDotGraphStyle) GetPrefix() string {
	var sb strings.Builder
	sb.WriteString("digraph {\n")
	sb.WriteString("compound=true;\n")
	sb.WriteString("node [shape=Mrecord]\n")
	sb.WriteString("rankdir=\"LR\"\n")
	return sb.String()
}

// FormatOneState formats a single state.
func (s *UmlDotGraphStyle) FormatOneState(state *State) string {
	escapedName := EscapeLabel(state.StateName)

	var actions []string
	for _, act := range state.EntryActions {
		actions = append(actions, "entry / "+EscapeLabel(act))
	}
	for _, act := range state.ExitActions {
		actions = append(actions, "exit / "+EscapeLabel(act))
	}
	if state.IgnoreDefaultEntry {
		actions = append(actions, "no default entry")
	}
	if state.IgnoreDefaultExit {
		actions = append(actions, "no default exit")
	}

	if len(actions) == 0 {
		return fmt.Sprintf("\"%s\" [label=\"%s\"];\n", escapedName, escapedName)
	}
	return fmt.Sprintf("\"%s\" [label=\"%s|%s\"];\n", escapedName, escapedName, strings.Join(actions, "\\n"))
}

// FormatOneDecisionNode formats a decision node.
func (s *UmlDotGraphStyle) FormatOneDecisionNode(nodeName, label string) string {
	return fmt.Sprintf("\"%s\" [shape = \"diamond\", label = \"%s\"];\n",
		EscapeLabel(nodeName), EscapeLabel(label))
}

// FormatOneTransition formats a single transition. Internal transitions are dashed.
func (s *UmlDotGraphStyle) FormatOneTransition(
	sourceNodeName, trigger, destinationNodeName string,
	guards []string,
	internal bool,
) string {
	style := "solid"
	if internal {
		style = "dashed"
	}
	return fmt.Sprintf("\"%s\" -> \"%s\" [style=\"%s\", label=\"%s\"];",
		EscapeLabel(sourceNodeName), EscapeLabel(destinationNodeName), style,
		EscapeLabel(transitionLabel(trigger, guards)))
}

// GetInitialTransition returns the text for the initial state transition.
func (s *UmlDotGraphStyle) GetInitialTransition(initialNodeName string) string {
	if initialNodeName == "" {
		return "\n}"
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(" init [label=\"\", shape=point];")
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(" init -> \"%s\"[style = \"solid\"]", EscapeLabel(initialNodeName)))
	sb.WriteString("\n")
	sb.WriteString("}")

	return sb.String()
}

// EscapeLabel escapes special characters in a label.
func EscapeLabel(label string) string {
	label = strings.ReplaceAll(label, "\\", "\\\\")
	label = strings.ReplaceAll(label, "\"", "\\\"")
	return label
}

// UmlDotGraph generates a UML DOT graph from machine info.
func UmlDotGraph(machineInfo *stateflow.MachineInfo) string {
	graph := NewStateGraph(machineInfo)
	return graph.ToGraph(NewUmlDotGraphStyle())
}
