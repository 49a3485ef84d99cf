// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 my-login-app Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the loginapp CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loginapp",
		Short: "loginapp - credential management web application",
		Long: `loginapp serves a small credential-management web application:
account signup, cookie-based login, role-gated account listing, and
password changes, backed by a PostgreSQL users table.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
