// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 my-login-app Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/KobbyFlex00/my-login-app/internal/config"
	"github.com/KobbyFlex00/my-login-app/internal/store"
)

// statusTimeout bounds the database probe.
const statusTimeout = 5 * time.Second

// AppStatus holds the status information reported by the status command.
type AppStatus struct {
	Database      string `json:"database"`
	SchemaVersion uint   `json:"schema_version"`
	SchemaDirty   bool   `json:"schema_dirty"`
	Users         int64  `json:"users"`
	Error         string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database and schema status",
		Long:  `Probe the PostgreSQL database and report connectivity, schema version, and account count.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	appCfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
	defer cancel()

	status := queryStatus(ctx, appCfg.Database.URL)

	var output string
	if cfg.jsonOutput {
		output, err = formatStatusJSON(status)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
	} else {
		output = formatStatusTable(status)
	}

	cmd.Println(output)
	return nil
}

// queryStatus probes the database and gathers status fields. Failures
// are reported in the status rather than returned, so the command
// always prints something useful.
func queryStatus(ctx context.Context, databaseURL string) AppStatus {
	status := AppStatus{Database: "unreachable"}

	if databaseURL == "" {
		status.Error = "database.url (or DATABASE_URL) is not set"
		return status
	}

	pool, err := store.Connect(ctx, databaseURL)
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	defer pool.Close()
	status.Database = "ok"

	m, err := store.NewMigrator(databaseURL)
	if err != nil {
		status.Error = fmt.Sprintf("failed to open migrator: %v", err)
		return status
	}
	defer func() { _ = m.Close() }()

	status.SchemaVersion, status.SchemaDirty, err = m.Version()
	if err != nil {
		status.Error = fmt.Sprintf("failed to read schema version: %v", err)
		return status
	}

	if status.SchemaVersion > 0 {
		if err := pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&status.Users); err != nil {
			status.Error = fmt.Sprintf("failed to count users: %v", err)
		}
	}

	return status
}

// formatStatusTable formats the status as a human-readable table.
func formatStatusTable(status AppStatus) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "DATABASE\tSCHEMA\tDIRTY\tUSERS")
	_, _ = fmt.Fprintln(w, "--------\t------\t-----\t-----")
	_, _ = fmt.Fprintf(w, "%s\t%d\t%t\t%d\n",
		status.Database, status.SchemaVersion, status.SchemaDirty, status.Users)
	_ = w.Flush()

	if status.Error != "" {
		sb.WriteString("\nerror: " + status.Error)
	}
	return sb.String()
}

// formatStatusJSON formats the status as indented JSON.
func formatStatusJSON(status AppStatus) (string, error) {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
