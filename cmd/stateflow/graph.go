package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atlekbai/stateflow/graph"
	"github.com/atlekbai/stateflow/internal/config"
)

var mermaidDirections = map[string]graph.MermaidGraphDirection{
	"TB": graph.TopToBottom,
	"BT": graph.BottomToTop,
	"LR": graph.LeftToRight,
	"RL": graph.RightToLeft,
}

func newGraphCmd(a *app) *cobra.Command {
	var (
		format    string
		direction string
		plain     bool
	)

	graphCmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Export the structure of a machine definition",
		Long: `Render the states and transitions of the machine described by <file>.
Formats: dot (Graphviz), mermaid (stateDiagram-v2) and tree (terminal).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.GraphFormat
			}

			m, _, err := a.loadMachine(args[0])
			if err != nil {
				return err
			}
			info := m.GetInfo()

			var out string
			switch strings.ToLower(format) {
			case "dot":
				out = graph.UmlDotGraph(info)
			case "mermaid":
				var dir *graph.MermaidGraphDirection
				if direction != "" {
					d, ok := mermaidDirections[strings.ToUpper(direction)]
					if !ok {
						return fmt.Errorf("unknown mermaid direction '%s': want TB, BT, LR or RL", direction)
					}
					dir = &d
				}
				out = graph.MermaidGraph(info, dir)
			case "tree":
				styles := graph.DefaultTreeStyles()
				if plain {
					styles = graph.PlainTreeStyles()
				}
				out = graph.Tree(info, styles)
			default:
				return fmt.Errorf("unknown graph format '%s': want one of %s", format, strings.Join(config.GraphFormats, ", "))
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	graphCmd.Flags().StringVarP(&format, "format", "f", "", "output format: dot, mermaid or tree (env STATEFLOW_GRAPH_FORMAT)")
	graphCmd.Flags().StringVar(&direction, "direction", "", "mermaid direction: TB, BT, LR or RL")
	graphCmd.Flags().BoolVar(&plain, "plain", false, "render the tree without colors")
	return graphCmd
}
