// Package cmd defines the command-line interface for commitlens.
package cmd

import (
	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(kwicCmd)
	rootCmd.AddCommand(ngramsCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(authorsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	analyzeCmd.AddCommand(analyzeRepoCmd)
	analyzeCmd.AddCommand(analyzeUserCmd)

	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of rows to display (0 = all)")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "How long a built corpus stays fresh")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Analysis tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for analysis tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("github-token", "", "GitHub token (falls back to GITHUB_TOKEN or GITHUB_PAT)")
	rootCmd.PersistentFlags().Int("rate-limit-threshold", contract.DefaultRateLimitThreshold, "Pause GitHub requests when fewer calls remain")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of the analyze commands to Viper
	analyzeCmd.PersistentFlags().Bool("refresh", false, "Rebuild even when a fresh cached corpus exists")
	analyzeRepoCmd.Flags().Int("max-commits", contract.DefaultMaxCommits, "Maximum commits to fetch")
	analyzeUserCmd.Flags().Int("max-repos", contract.DefaultMaxRepos, "Maximum repositories to read")
	analyzeUserCmd.Flags().Int("per-repo-commits", contract.DefaultPerRepoCommits, "Maximum commits per repository")
	analyzeUserCmd.Flags().Int("max-total-commits", contract.DefaultMaxTotalCommits, "Maximum commits across all repositories")
	if err := viper.BindPFlags(analyzeCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding analyze flags", err)
	}
	if err := viper.BindPFlags(analyzeRepoCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analyze repo flags", err)
	}
	if err := viper.BindPFlags(analyzeUserCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analyze user flags", err)
	}

	// Bind all flags of kwicCmd to Viper
	kwicCmd.Flags().StringP("keyword", "k", "", "Token text, POS tag or entity label to find")
	kwicCmd.Flags().String("search-type", string(schema.TokenSearch), "Match on: token or part_of_speech or entity")
	kwicCmd.Flags().IntP("window", "w", contract.DefaultWindowSize, "Tokens of context on each side")
	kwicCmd.Flags().String("sort", string(schema.SequentialSort), "Order: sequential or next_token_frequency or next_pos_frequency or next_token_pos_combination_frequency")
	_ = kwicCmd.MarkFlagRequired("keyword")
	if err := viper.BindPFlags(kwicCmd.Flags()); err != nil {
		contract.LogFatal("Error binding kwic flags", err)
	}

	// Bind all flags of ngramsCmd to Viper
	ngramsCmd.Flags().Int("n", contract.DefaultN, "N-gram length")
	ngramsCmd.Flags().Int("min-frequency", contract.DefaultMinFrequency, "Drop n-grams seen fewer times")
	if err := viper.BindPFlags(ngramsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding ngrams flags", err)
	}

	// Bind all flags of compareCmd to Viper
	compareCmd.Flags().String("n-values", contract.DefaultNValues, "Comma-separated n-gram lengths to compare")
	compareCmd.Flags().Int("step", contract.DefaultStepSize, "Ranks per window")
	compareCmd.Flags().Int("max-rank", contract.DefaultMaxRank, "Deepest rank compared")
	compareCmd.Flags().Int("min-freq-q", contract.DefaultMinFreqQ, "Minimum n-gram frequency in the first corpus")
	compareCmd.Flags().Int("min-freq-k", contract.DefaultMinFreqK, "Minimum n-gram frequency in the second corpus")
	if err := viper.BindPFlags(compareCmd.Flags()); err != nil {
		contract.LogFatal("Error binding compare flags", err)
	}

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}
