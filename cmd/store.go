package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/internal/store"
	"github.com/huangsam/steward/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeBackendFromViper reads and validates the store backend settings.
func storeBackendFromViper() (schema.DatabaseBackend, string, error) {
	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("store-backend")))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("store-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := storeBackendFromViper()
	if err != nil {
		return err
	}

	if err := store.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize analysis store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// It does NOT open the store, so migrations can run on a fresh database.
func storeMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := storeBackendFromViper()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetStoreDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// storeCmd focused on analysis run history.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup. This avoids source validation and complex config
// processing for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the history of analysis runs",
	Long: `Manage the analysis run history used for longitudinal tracking and reporting.

When enabled with --store-backend, Steward records every analyze and compare run:
- Run metadata (timestamp, window, repository count, configuration)
- One report row per repository (status, statistics, risk score and severity)
- One row per contributor (classification, activity share, trend)

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Track runs in the default SQLite file
  steward compare a/b c/d --store-backend sqlite

  # Check tracking status
  steward store status --store-backend sqlite`,
}

// storeClearCmd clears the analysis data.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all analysis run history",
	Long: `Delete all stored analysis runs, repository reports and contributor rows.

For SQLite the database file is removed. For MySQL and PostgreSQL the
tables are dropped, migration bookkeeping included.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  steward store export --store-backend sqlite --output-file backup
  steward store clear --store-backend sqlite`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		var dbFilePath string
		if cfg.StoreBackend == schema.SQLiteBackend {
			dbFilePath = cfg.StoreDBConnect
		}
		if err := store.ClearStore(cfg.StoreBackend, dbFilePath, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear analysis data", err)
		}
		fmt.Println("Analysis data cleared successfully.")
	},
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display analysis tracking statistics and connection details",
	Long: `Show detailed information about the analysis run history.

Displays:
- Backend type and connection status
- Total number of runs stored, with the latest run ID
- Last and oldest run timestamps
- Distinct repositories and contributors recorded
- Table sizes

Examples:
  steward store status --store-backend sqlite`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		s := store.Manager.GetAnalysisStore()
		if s == nil {
			store.PrintAnalysisStatus(os.Stdout, schema.AnalysisStatus{Backend: string(schema.NoneBackend)})
			return
		}
		status, err := s.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get analysis status", err)
		}
		store.PrintAnalysisStatus(os.Stdout, status)
	},
}

// storeExportCmd exports analysis data to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export analysis history to Parquet for BI tools and analytics",
	Long: `Export all stored analysis data to Parquet format for use with analytics tools.

Writes three files named after --output-file:
- <prefix>.analysis_runs.parquet      - one row per run
- <prefix>.repository_reports.parquet - one row per repository and run
- <prefix>.contributors.parquet       - one row per contributor and run

Requires: --output-file parameter

Examples:
  # Export all data
  steward store export --store-backend sqlite --output-file steward-data

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('steward-data.repository_reports.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ExecuteAnalysisExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the analysis store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the analysis store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  steward store migrate --store-backend sqlite

  # Migrate to specific version
  steward store migrate --store-backend sqlite --target-version 2

  # Rollback to initial state
  steward store migrate --store-backend sqlite --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := store.MigrateAnalysis(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
