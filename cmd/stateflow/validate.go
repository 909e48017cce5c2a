package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a machine definition loads and builds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := a.loadMachine(args[0])
			if err != nil {
				return err
			}

			info := m.GetInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				StateStyle.Render("ok"),
				InfoStyle.Render(fmt.Sprintf("%s: %d states, %d transitions", info.Name, len(info.States), len(info.Transitions))),
			)
			return nil
		},
	}
}
