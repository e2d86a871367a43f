package main

import (
	"github.com/spf13/cobra"

	"github.com/muurk/factorydata/internal/factorydata"
	"github.com/muurk/factorydata/internal/tui"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse factory data interactively",
		Long: `Open a full-screen table of every identifier and load the values
one by one. Sensitive values stay masked until 'r' is pressed.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTTY(cmd.OutOrStdout()) {
				return &factorydata.Error{
					Kind:    factorydata.KindInvalidArgument,
					Message: "browse needs a terminal; use 'fdctl dump' instead",
				}
			}
			return tui.Run(cmd.Context(), a.accessor, a.accessor.Tool(), a.accessor.Registry().Entries())
		},
	}
}
