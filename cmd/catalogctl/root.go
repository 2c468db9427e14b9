// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/listify/internal/platform/config"
)

var jsonLogs bool

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "catalogctl",
	Short:         "Listify catalog maintenance",
	Long:          `catalogctl runs maintenance tasks against the Listify database: orphan sweeps and migrations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "emit JSON logs")
}

// setup loads the tool configuration and installs the logger.
func setup() (*config.ToolConfig, *slog.Logger, error) {
	cfg, err := config.LoadTool()
	if err != nil {
		return nil, nil, err
	}

	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Debug {
		options.Level = slog.LevelDebug
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, options)
	if jsonLogs {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}

	logger := slog.New(handler).With(slog.String("app", "catalogctl"))
	slog.SetDefault(logger)
	return cfg, logger, nil
}
