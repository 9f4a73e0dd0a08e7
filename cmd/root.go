package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/Andyyyy64/el331-commit-analysis/core"
	"github.com/Andyyyy64/el331-commit-analysis/internal/annotate"
	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/internal/github"
	"github.com/Andyyyy64/el331-commit-analysis/internal/iocache"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profile holds profiling configuration.
var profile = &contract.ProfileConfig{}

// logger is the process logger, configured from --log-level.
var logger = logrus.StandardLogger()

// corpora is the corpus cache shared by the commands of this process.
var corpora *core.CorpusCache

// startProfiling starts CPU and memory profiling if enabled.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	// Memory profiling will be captured at the end
	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return err
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profile.Prefix)
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "commitlens",
	Short:              "Analyze the language of GitHub commit messages.",
	Long:               `Commitlens annotates the commit messages of a repository or a user and lets you search them in context, rank their n-grams, compare two histories and profile their authors.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	// A missing .env file is normal outside development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		contract.LogWarn("Error loading .env file", err)
	}

	setConfigFile()

	viper.SetEnvPrefix("COMMITLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// The token also honors the variables the GitHub tooling uses
	if err := viper.BindEnv("github-token", "COMMITLENS_GITHUB_TOKEN", "GITHUB_TOKEN", "GITHUB_PAT"); err != nil {
		contract.LogWarn("Error binding github-token env", err)
	}

	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("cache-ttl", contract.DefaultCacheTTL.String())
	viper.SetDefault("analysis-backend", "")
	viper.SetDefault("analysis-db-connect", "")
	viper.SetDefault("rate-limit-threshold", contract.DefaultRateLimitThreshold)
	viper.SetDefault("max-commits", contract.DefaultMaxCommits)
	viper.SetDefault("max-repos", contract.DefaultMaxRepos)
	viper.SetDefault("per-repo-commits", contract.DefaultPerRepoCommits)
	viper.SetDefault("max-total-commits", contract.DefaultMaxTotalCommits)
	viper.SetDefault("search-type", schema.TokenSearch)
	viper.SetDefault("window", contract.DefaultWindowSize)
	viper.SetDefault("sort", schema.SequentialSort)
	viper.SetDefault("n", contract.DefaultN)
	viper.SetDefault("min-frequency", contract.DefaultMinFrequency)
	viper.SetDefault("n-values", contract.DefaultNValues)
	viper.SetDefault("step", contract.DefaultStepSize)
	viper.SetDefault("max-rank", contract.DefaultMaxRank)
	viper.SetDefault("min-freq-q", contract.DefaultMinFreqQ)
	viper.SetDefault("min-freq-k", contract.DefaultMinFreqK)
}

// setConfigFile points viper at --config or the default .commitlens file.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".commitlens")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// sharedSetup unmarshals config and runs validation. corpus and compareCorpus
// carry the positional corpus keys of the command, if any.
func sharedSetup(ctx context.Context, corpus, compareCorpus string) error {
	profilePrefix := viper.GetString("profile")
	if err := contract.ProcessProfilingConfig(profile, profilePrefix); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if err := startProfiling(); err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.CorpusStr = corpus
	input.CompareCorpusStr = compareCorpus

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	setupLogger(cfg.LogLevel)
	rootCtx = core.WithLogger(ctx, logger)

	// 5. Initialize persistence layer with validated config
	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect, cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	corpora = core.NewCorpusCache(iocache.Manager)

	return nil
}

// setupLogger builds the process logger. The standard logger follows it so that
// code reached without our context still logs at the right level.
func setupLogger(level logrus.Level) {
	logger = contract.NewLogger(os.Stderr, level)
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(level)
	logrus.SetFormatter(logger.Formatter)
}

// configuredLogLevel reads --log-level for commands that skip sharedSetup.
func configuredLogLevel() logrus.Level {
	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigFile()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	return nil
}

// newCollaborators creates the GitHub fetcher and the annotator from cfg.
func newCollaborators() (*github.Client, *annotate.Annotator, error) {
	annotator, err := annotate.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load annotator: %w", err)
	}
	if cfg.GitHubToken == "" {
		logger.Warn("No GitHub token configured, requests are limited to 60 per hour")
	}
	return github.NewClient(cfg.GitHubToken, cfg.RateLimitThreshold, logger), annotator, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
