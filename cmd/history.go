package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/regsweep/internal/contract"
	"github.com/huangsam/regsweep/internal/history"
	"github.com/huangsam/regsweep/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyConfig reads the history settings without the full shared setup.
func historyConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend, err := contract.ParseHistoryBackend(viper.GetString("history-backend"))
	if err != nil {
		return "", "", err
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	contract.SetVerbose(viper.GetBool("verbose"))
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	backend, connStr, err := historyConfig()
	if err != nil {
		return err
	}

	if err := history.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize sweep history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = history.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on sweep history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by run. This avoids tool and fixture validation
// for simple database operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the record of past sweeps",
	Long: `Manage the sweep history that regsweep writes when --history-backend is set.

Every sweep gets a row with its UUID, timing, tool, target, totals and final
status, plus one row per fixture invocation.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show row counts and connection info
  export  - Write the history to Parquet files
  clear   - Remove all recorded sweeps
  migrate - Upgrade or roll back the history schema

Examples:
  # Check history status in the default SQLite database
  regsweep history status --history-backend sqlite

  # Use PostgreSQL (set connection string via env variable)
  REGSWEEP_HISTORY_BACKEND=postgresql REGSWEEP_HISTORY_DB_CONNECT="..." regsweep history status`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show detailed information about the sweep history store.

Displays:
- Backend type and connection status
- Total number of sweeps and invocations
- Last and oldest sweep timestamps
- Row counts per table

Examples:
  regsweep history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := history.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", fmt.Errorf("no history backend configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded sweeps to Parquet for analytics",
	Long: `Export all stored sweep history to Parquet format.

Writes two files next to --output-file:
- <output-file>.sweep_runs.parquet   - one row per sweep
- <output-file>.invocations.parquet  - one row per fixture invocation

Requires: --output-file parameter

Examples:
  # Export everything recorded in SQLite
  regsweep history export --history-backend sqlite --output-file sweeps

  # Query the failures with DuckDB
  duckdb -c "SELECT fixture_path, failure_kind FROM read_parquet('sweeps.invocations.parquet') WHERE NOT success"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ExecuteHistoryExport(os.Stdout, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export sweep history", err)
		}
	},
}

// historyClearCmd clears the history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded sweeps",
	Long: `Delete all sweep history from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables (recreated on the next sweep)

Examples:
  regsweep history clear --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// The SQLite file cannot be removed while the store holds it open.
		history.CloseStores()
		if err := history.ClearHistory(cfg.HistoryBackend, history.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear sweep history", err)
		}
		fmt.Println("Sweep history cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the sweep history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  regsweep history migrate --history-backend sqlite

  # Migrate to specific version
  regsweep history migrate --history-backend sqlite --target-version 2

  # Rollback everything
  regsweep history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := history.Migrate(os.Stdout, cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
