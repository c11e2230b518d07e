package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/netpbm-tools-mcp/internal/console"
	"github.com/ironsheep/netpbm-tools-mcp/internal/session"
)

func newConsoleCmd(a *app) *cobra.Command {
	var noPrompt bool

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Edit images interactively",
		Long: `Starts the interactive editor. Commands are read one per line; type
'help' for the list. Commands can also be piped in from a script.`,
		Example: `  # Interactive session
  netpbm-mcp console

  # Run a script
  netpbm-mcp console --no-prompt < edits.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.store()
			mgr := session.NewManager(store, store, a.logger)

			var opts []console.Option
			if !noPrompt {
				opts = append(opts, console.WithPrompt())
			}
			return console.New(mgr, os.Stdin, cmd.OutOrStdout(), a.logger, opts...).Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "Do not print a prompt before each command")

	return cmd
}
