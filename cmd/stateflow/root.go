package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/atlekbai/stateflow/internal/config"
	"github.com/atlekbai/stateflow/internal/logging"
)

// app carries the settings resolved before any subcommand runs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "stateflow",
		Short: "stateflow runs and renders state machine definitions",
		Long: `stateflow loads a state machine definition from a YAML, JSON or TOML file,
fires triggers against it and exports its structure as DOT, Mermaid or a tree.

Settings are read from STATEFLOW_* environment variables (and an optional .env
file); flags take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (env STATEFLOW_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text or json (env STATEFLOW_LOG_FORMAT)")

	rootCmd.AddCommand(newRunCmd(a), newGraphCmd(a), newValidateCmd(a), newVersionCmd())
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.New(cfg.LogFormat, cfg.LogLevel, cmd.ErrOrStderr()).With("cmd", cmd.Name())
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
