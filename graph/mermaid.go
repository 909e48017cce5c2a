package graph

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/atlekbai/stateflow"
)

// MermaidGraphDirection specifies the direction of the Mermaid graph.
type MermaidGraphDirection int

const (
	// TopToBottom flows from top to bottom.
	TopToBottom MermaidGraphDirection = iota
	// BottomToTop flows from bottom to top.
	BottomToTop
	// LeftToRight flows from left to right.
	LeftToRight
	// RightToLeft flows from right to left.
	RightToLeft
)

// MermaidGraphStyle generates Mermaid stateDiagram-v2 graphs.
type MermaidGraphStyle struct {
	graph     *StateGraph
	direction *MermaidGraphDirection

	// aliases maps state names to sanitized node ids.
	aliases map[string]string
}

// NewMermaidGraphStyle creates a new Mermaid graph style.
func NewMermaidGraphStyle(graph *StateGraph, direction *MermaidGraphDirection) *MermaidGraphStyle {
	s := &MermaidGraphStyle{
		graph:     graph,
		direction: direction,
		aliases:   make(map[string]string),
	}
	s.buildAliases()
	return s
}

// GetPrefix returns the text that starts a new Mermaid graph.
func (s *MermaidGraphStyle) GetPrefix() string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2")

	if s.direction != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("\tdirection %s", getDirectionCode(*s.direction)))
	}

	for _, name := range s.graph.Order {
		if alias := s.aliases[name]; alias != name {
			sb.WriteString("\n")
			sb.WriteString(fmt.Sprintf("\t%s : %s", alias, name))
		}
	}

	return sb.String()
}

// FormatOneState formats a single state. Only action notes are emitted; Mermaid declares
// states implicitly.
func (s *MermaidGraphStyle) FormatOneState(state *State) string {
	if len(state.EntryActions) == 0 && len(state.ExitActions) == 0 {
		return ""
	}

	var lines []string
	for _, act := range state.EntryActions {
		lines = append(lines, "entry / "+act)
	}
	for _, act := range state.ExitActions {
		lines = append(lines, "exit / "+act)
	}
	return fmt.Sprintf("\n\tnote right of %s\n\t\t%s\n\tend note", s.nodeID(state.StateName), strings.Join(lines, "\n\t\t"))
}

// FormatOneDecisionNode formats a decision node.
func (s *MermaidGraphStyle) FormatOneDecisionNode(nodeName, _ string) string {
	return fmt.Sprintf("\n\tstate %s <<choice>>", nodeName)
}

// FormatOneTransition formats a single transition.
func (s *MermaidGraphStyle) FormatOneTransition(
	sourceNodeName, trigger, destinationNodeName string,
	guards []string,
	internal bool,
) string {
	label := transitionLabel(trigger, guards)
	if internal {
		label += " (internal)"
	}

	line := fmt.Sprintf("\t%s --> %s", s.nodeID(sourceNodeName), s.nodeID(destinationNodeName))
	if label == "" {
		return line
	}
	return line + " : " + label
}

// GetInitialTransition returns the text for the initial state transition.
func (s *MermaidGraphStyle) GetInitialTransition(initialNodeName string) string {
	if initialNodeName == "" {
		return ""
	}
	return fmt.Sprintf("\n[*] --> %s", s.nodeID(initialNodeName))
}

// buildAliases assigns every state a unique sanitized id, in graph order.
func (s *MermaidGraphStyle) buildAliases() {
	taken := make(map[string]bool)
	for _, name := range s.graph.Order {
		if sanitizeStateName(name) == name {
			taken[name] = true
		}
	}

	for _, name := range s.graph.Order {
		sanitized := sanitizeStateName(name)
		if sanitized == name {
			s.aliases[name] = name
			continue
		}
		alias := sanitized
		for count := 1; taken[alias]; count++ {
			alias = fmt.Sprintf("%s_%d", sanitized, count)
		}
		taken[alias] = true
		s.aliases[name] = alias
	}
}

func (s *MermaidGraphStyle) nodeID(name string) string {
	if alias, ok := s.aliases[name]; ok {
		return alias
	}
	return name
}

// sanitizeStateName removes characters that would cause invalid Mermaid graphs.
func sanitizeStateName(name string) string {
	var result strings.Builder
	for _, c := range name {
		if !unicode.IsSpace(c) && c != ':' && c != '-' {
			result.WriteRune(c)
		}
	}
	return result.String()
}

// getDirectionCode returns the Mermaid direction code.
func getDirectionCode(direction MermaidGraphDirection) string {
	switch direction {
	case TopToBottom:
		return "TB"
	case BottomToTop:
		return "BT"
	case LeftToRight:
		return "LR"
	case RightToLeft:
		return "RL"
	default:
		return "TB"
	}
}

// MermaidGraph generates a Mermaid graph from machine info.
func MermaidGraph(machineInfo *stateflow.MachineInfo, direction *MermaidGraphDirection) string {
	graph := NewStateGraph(machineInfo)
	return graph.ToGraph(NewMermaidGraphStyle(graph, direction))
}
