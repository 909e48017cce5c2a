package graph

// Style defines the interface for formatting state graphs.
type Style interface {
	// GetPrefix returns the text that starts a new graph.
	GetPrefix() string

	// FormatOneState formats a single state.
	FormatOneState(state *State) string

	// FormatOneDecisionNode formats a decision node.
	FormatOneDecisionNode(nodeName, label string) string

	// FormatOneTransition formats a single transition.
	FormatOneTransition(sourceNodeName, trigger, destinationNodeName string, guards []string, internal bool) string

	// GetInitialTransition returns the text for the initial state transition and the end of the graph.
	GetInitialTransition(initialNodeName string) string
}

// FormatTransitions is a helper that formats all transitions using the given style.
func FormatTransitions(style Style, transitions []*Transition) []string {
	var lines []string
	for _, transit := range transitions {
		if transit.DestinationNode == "" {
			continue
		}
		line := style.FormatOneTransition(
			transit.SourceNode,
			transit.Trigger,
			transit.DestinationNode,
			transit.Guards,
			transit.Internal,
		)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// transitionLabel renders "trigger [guard] [guard]".
func transitionLabel(trigger string, guards []string) string {
	label := trigger
	for _, g := range guards {
		if label != "" {
			label += " "
		}
		label += "[" + g + "]"
	}
	return label
}
