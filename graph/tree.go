package graph

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/atlekbai/stateflow"
)

// Terminal colors for the tree view.
var (
	colorBlue     = lipgloss.Color("39")
	colorGreen    = lipgloss.Color("82")
	colorYellow   = lipgloss.Color("228")
	colorGray     = lipgloss.Color("250")
	colorDarkGray = lipgloss.Color("240")
)

// TreeStyles controls how Tree renders each kind of node.
type TreeStyles struct {
	Root       lipgloss.Style
	State      lipgloss.Style
	Initial    lipgloss.Style
	Trigger    lipgloss.Style
	Annotation lipgloss.Style
	Branch     lipgloss.Style
}

// DefaultTreeStyles returns the colored styles used by Tree.
func DefaultTreeStyles() TreeStyles {
	return TreeStyles{
		Root:       lipgloss.NewStyle().Foreground(colorBlue).Bold(true),
		State:      lipgloss.NewStyle().Bold(true),
		Initial:    lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
		Trigger:    lipgloss.NewStyle().Foreground(colorYellow),
		Annotation: lipgloss.NewStyle().Foreground(colorGray).Italic(true),
		Branch:     lipgloss.NewStyle().Foreground(colorDarkGray),
	}
}

// PlainTreeStyles returns unstyled renderers, for output that is not a terminal.
func PlainTreeStyles() TreeStyles {
	plain := lipgloss.NewStyle()
	return TreeStyles{Root: plain, State: plain, Initial: plain, Trigger: plain, Annotation: plain, Branch: plain}
}

// Tree renders the machine as a terminal tree: one branch per state listing its
// actions and outgoing transitions.
func Tree(machineInfo *stateflow.MachineInfo, styles TreeStyles) string {
	sg := NewStateGraph(machineInfo)

	t := tree.New()
	t.EnumeratorStyle(styles.Branch)
	t.Enumerator(tree.RoundedEnumerator)
	t.Root(styles.Root.Render(sg.Name))

	if len(sg.DefaultEntryActions) > 0 || len(sg.DefaultExitActions) > 0 {
		defaults := tree.Root(styles.Annotation.Render("defaults"))
		for _, act := range sg.DefaultEntryActions {
			defaults.Child("entry / " + act)
		}
		for _, act := range sg.DefaultExitActions {
			defaults.Child("exit / " + act)
		}
		t.Child(defaults)
	}

	decisions := make(map[string]*Decision, len(sg.Decisions))
	for _, dec := range sg.Decisions {
		decisions[dec.NodeName] = dec
	}

	for _, name := range sg.Order {
		state := sg.States[name]

		label := styles.State.Render(name)
		if name == sg.InitialState {
			label = styles.Initial.Render(name) + " " + styles.Annotation.Render("(initial)")
		}
		branch := tree.Root(label)

		for _, act := range state.EntryActions {
			branch.Child(styles.Annotation.Render("entry / " + act))
		}
		for _, act := range state.ExitActions {
			branch.Child(styles.Annotation.Render("exit / " + act))
		}
		if state.IgnoreDefaultEntry {
			branch.Child(styles.Annotation.Render("ignores default entry"))
		}
		if state.IgnoreDefaultExit {
			branch.Child(styles.Annotation.Render("ignores default exit"))
		}
		for _, transit := range state.Leaving {
			branch.Child(styles.Trigger.Render(transit.Trigger) + " " + describeEdge(transit, decisions))
		}

		t.Child(branch)
	}

	return t.String()
}

func describeEdge(transit *Transition, decisions map[string]*Decision) string {
	var sb strings.Builder
	switch {
	case transit.Internal:
		sb.WriteString("(internal)")
	case decisions[transit.DestinationNode] != nil:
		dec := decisions[transit.DestinationNode]
		target := stateflow.UnknownDestination
		if dec.Leaving != nil {
			target = dec.Leaving.DestinationNode
		}
		sb.WriteString(fmt.Sprintf("-> %s via %s", target, dec.Method.Description()))
	default:
		sb.WriteString("-> " + transit.DestinationNode)
	}
	for _, g := range transit.Guards {
		sb.WriteString(" [" + g + "]")
	}
	return sb.String()
}
