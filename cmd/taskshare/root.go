// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/taskshare/taskshare/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the TaskShare CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taskshare",
		Short: "TaskShare - account and session API",
		Long: `TaskShare serves the account API: sign-up, cookie-based login
sessions and profile management backed by PostgreSQL.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: $XDG_CONFIG_HOME/taskshare/config.yaml if present)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewConfigCmd())
	cmd.AddCommand(NewDevCertCmd())

	return cmd
}

// configPath returns the --config value, or the XDG config file when the
// flag is unset and that file exists.
func configPath() string {
	if configFile != "" {
		return configFile
	}
	if path, ok := xdg.FindConfigFile(); ok {
		return path
	}
	return ""
}
