package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/Andyyyy64/el331-commit-analysis/core"
	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/internal/iocache"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// No analysis tracking for cache commands
	if err := iocache.InitCaching(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheDBFilePath is the SQLite file the cache lives in.
func cacheDBFilePath() string {
	if cfg.CacheDBConnect != "" {
		return cfg.CacheDBConnect
	}
	return contract.GetCacheDBFilePath()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by the query commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the annotated corpus cache",
	Long: `Manage the cache of annotated corpora that every query command reads.

Annotating thousands of commit messages takes a while, so each corpus is stored
once per key and reused until it is older than --cache-ttl.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status - Show cache statistics and one line per cached corpus
  clear  - Remove one cached corpus, or all of them

Examples:
  commitlens cache status
  commitlens cache clear golang/go`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear [corpus]",
	Short: "Remove one cached corpus or the whole cache",
	Long: `With a corpus key, forget that corpus only. Without one, delete every cached corpus.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Forget one corpus so the next analyze refetches it
  commitlens cache clear user:octocat

  # Clear a PostgreSQL cache (set connection string via env variable)
  COMMITLENS_CACHE_BACKEND=postgresql COMMITLENS_CACHE_DB_CONNECT="..." commitlens cache clear`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: cacheSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		if len(args) == 1 {
			key, err := contract.ParseCorpusKey(args[0])
			if err != nil {
				return err
			}
			if err := core.NewCorpusCache(iocache.Manager).Delete(key); err != nil {
				return fmt.Errorf("failed to clear corpus %s: %w", key, err)
			}
			fmt.Printf("Cached corpus %s cleared.\n", key)
			return nil
		}

		if err := iocache.ClearCache(cfg.CacheBackend, cacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Println("Cache cleared successfully.")
		return nil
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and cached corpora",
	Long: `Show detailed information about the corpus cache.

Displays:
- Backend type and connection status
- Total number of cached corpora
- Last and oldest build timestamps
- Cache database size
- One line per corpus with its size and build time

Examples:
  commitlens cache status`,
	PreRunE: cacheSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store := iocache.Manager.GetCorpusStore()
		if store == nil {
			return errors.New("corpus cache is not configured")
		}
		status, err := store.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get cache status: %w", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
		return nil
	},
}
