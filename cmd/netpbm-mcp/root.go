package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ironsheep/netpbm-tools-mcp/internal/config"
	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
	"github.com/ironsheep/netpbm-tools-mcp/internal/workspace"
)

// app holds what every subcommand needs once configuration is loaded.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "netpbm-mcp",
		Short: "Editor for plain PBM, PGM and PPM images",
		Long: `netpbm-mcp edits plain Netpbm images (P1, P2, P3).

Images are loaded into sessions; grayscale, monochrome, negative and
rotations are queued per session and applied on save. The editor runs
as an MCP server over stdio (the default) or as an interactive console.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "Config file (default: config.yaml in ., ./configs or $HOME/.config/netpbm-mcp)")

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newConsoleCmd(a))

	return cmd
}

func (a *app) load() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cfg.Logging)
	slog.SetDefault(a.logger)
	return nil
}

// newLogger writes to stderr; stdout carries the MCP protocol.
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func (a *app) decodeOptions() netpbm.DecodeOptions {
	return netpbm.DecodeOptions{
		MaxHeaderLines: a.cfg.Codec.MaxHeaderLines,
		MaxPixels:      a.cfg.Codec.MaxPixels,
	}
}

func (a *app) store() *workspace.Store {
	ws := a.cfg.Workspace
	return workspace.NewStore(
		workspace.NewResolver(ws.SearchDirs, ws.Extensions),
		workspace.NewWriter(ws.OutputDir),
		a.decodeOptions(),
		a.logger,
	)
}
