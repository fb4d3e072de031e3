// Package commands implements the futdash command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/okian/futdash/internal/config"
	"github.com/okian/futdash/pkg/logger"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	envFile    string
	logLevel   string
}

// NewRootCmd builds the futdash command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "futdash",
		Short:         "futdash scrapes player cards and serves them as a filterable scatter API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML config file (default $"+config.EnvConfig+")")
	root.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "dotenv file loaded before the config; a missing file is ignored")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "override log_level: debug, info, warn, error")

	root.AddCommand(
		newStageCmd(g, "run", "Fetch, update and process in order", (*runner).run),
		newStageCmd(g, "fetch", "Append new players and repair failed rows in the raw table", (*runner).fetch),
		newStageCmd(g, "update", "Refresh games, goals, assists and prices of every stored player", (*runner).update),
		newStageCmd(g, "process", "Derive the dashboard tables from the raw table and history", (*runner).process),
		newServeCmd(g),
		newInspectCmd(g),
	)
	return root
}

// ExecuteContext runs the command tree and exits non-zero on error.
func ExecuteContext(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the dotenv file and the config, then initializes logging on stderr.
func (g *globalFlags) setup(cmd *cobra.Command) (*config.Config, error) {
	if g.envFile != "" {
		if err := godotenv.Load(g.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", g.envFile, err)
		}
	}

	path := g.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	cfg, err := config.LoadFile(cmd.Context(), path)
	if err != nil {
		return nil, err
	}

	if err := logger.InitWith(cmd.ErrOrStderr(), cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	level := cfg.LogLevel
	if g.logLevel != "" {
		level = g.logLevel
	}
	if err := logger.SetLevelString(level); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log level; falling back to info", logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}
