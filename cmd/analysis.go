package cmd

import (
	"fmt"
	"os"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/internal/iocache"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// analysisBackendConfig reads and validates the analysis store settings.
// An empty backend means tracking is disabled.
func analysisBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.NoneBackend
	if s := viper.GetString("analysis-backend"); s != "" {
		backend = schema.DatabaseBackend(s)
	}
	connStr := viper.GetString("analysis-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// analysisSetup loads minimal configuration needed for analysis operations.
// This is used by commands that need analysis access without full shared setup.
func analysisSetup() error {
	backend, connStr, err := analysisBackendConfig()
	if err != nil {
		return err
	}

	// No corpus cache for analysis commands
	if err := iocache.InitCaching("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize analysis: %w", err)
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// analysisSetupWrapper wraps analysisSetup to provide PreRunE for analysis commands.
func analysisSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisSetup()
}

// analysisMigrateSetup loads minimal configuration needed for migrate operations.
// It does NOT initialize stores or create tables, allowing migrations to run on
// a fresh database.
func analysisMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := analysisBackendConfig()
	if err != nil {
		return err
	}

	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetAnalysisDBFilePath()
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	setupLogger(configuredLogLevel())

	return nil
}

// analysisDBFilePath is the SQLite file the analysis store lives in.
func analysisDBFilePath() string {
	if cfg.AnalysisDBConnect != "" {
		return cfg.AnalysisDBConnect
	}
	return contract.GetAnalysisDBFilePath()
}

// analysisCmd focused on analysis data management.
var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage query run tracking and exports",
	Long: `Manage the record of past query runs.

When --analysis-backend is set, every kwic, ngrams, compare and authors run is stored:
- Run metadata (corpus, operation, parameters, duration, result count)
- Ranked n-grams of ngrams and compare runs
- Author profiles of authors runs

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  commitlens analysis status --analysis-backend sqlite
  commitlens analysis export --analysis-backend sqlite --output-file lens`,
}

// analysisClearCmd clears the analysis data.
var analysisClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all tracked query runs",
	Long: `Delete all stored query runs and their results.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  commitlens analysis export --output-file backup
  commitlens analysis clear`,
	PreRunE: analysisSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := iocache.ClearAnalysis(cfg.AnalysisBackend, analysisDBFilePath(), cfg.AnalysisDBConnect); err != nil {
			return fmt.Errorf("failed to clear analysis data: %w", err)
		}
		fmt.Println("Analysis data cleared successfully.")
		return nil
	},
}

// analysisStatusCmd shows analysis status.
var analysisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display tracking statistics and connection details",
	Long: `Show detailed information about query run tracking.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Stored n-gram and author rows
- Database table sizes

Examples:
  commitlens analysis status`,
	PreRunE: analysisSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		status, err := iocache.Manager.GetAnalysisStore().GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get analysis status: %w", err)
		}
		iocache.PrintAnalysisStatus(os.Stdout, status)
		return nil
	},
}

// analysisExportCmd exports analysis data to Parquet files.
var analysisExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tracked runs to Parquet for BI tools and analytics",
	Long: `Export all stored query runs to Parquet files sharing the --output-file prefix:

  <prefix>.analysis_runs.parquet   - one row per run
  <prefix>.ngram_results.parquet   - ranked n-grams
  <prefix>.author_results.parquet  - author profiles

Requires: --output-file parameter

Examples:
  commitlens analysis export --output-file lens
  duckdb -c "SELECT operation, count(*) FROM read_parquet('lens.analysis_runs.parquet') GROUP BY 1"`,
	PreRunE: analysisSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := iocache.ExecuteAnalysisExport(iocache.Manager.GetAnalysisStore(), cfg.OutputFile, os.Stdout); err != nil {
			return fmt.Errorf("failed to export analysis data: %w", err)
		}
		return nil
	},
}

// analysisMigrateCmd runs database migrations for the analysis store.
var analysisMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the analysis tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  commitlens analysis migrate --analysis-backend sqlite

  # Rollback to initial state
  commitlens analysis migrate --analysis-backend sqlite --target-version 0`,
	PreRunE: analysisMigrateSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateAnalysis(cfg.AnalysisBackend, cfg.AnalysisDBConnect, targetVersion, logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	},
}
