package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ironsheep/netpbm-tools-mcp/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdin/stdout",
		Long: `Runs the MCP server. Requests are read from stdin and responses written
to stdout, one JSON-RPC message per line; logs go to stderr.

Configure it in your MCP client (e.g., Claude Desktop) with the command
"netpbm-mcp serve".`,
		Example: `  # Serve with the default configuration
  netpbm-mcp serve

  # Debug logging
  NETPBM_MCP_LOGGING_LEVEL=debug netpbm-mcp serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	a.logger.Info("netpbm MCP server starting",
		"version", Version,
		"build_time", BuildTime,
		"commit", GitCommit,
		"output_dir", a.cfg.Workspace.OutputDir)

	srv := server.New(server.Options{
		Store:       a.store(),
		Decode:      a.decodeOptions(),
		JPEGQuality: a.cfg.Export.JPEGQuality,
		Version:     Version,
		Logger:      a.logger,
	})
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		a.logger.Error("server error", "error", err)
		return err
	}
	a.logger.Info("server stopped")
	return nil
}
