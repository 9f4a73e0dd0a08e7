package contract

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/sirupsen/logrus"
)

// Default values for configuration.
const (
	DefaultResultLimit        = 0 // 0 renders every row
	MaxResultLimit            = 100000
	DefaultPrecision          = 1
	DefaultWorkers            = 10
	DefaultRateLimitThreshold = 50
	DefaultCacheTTL           = 7 * 24 * time.Hour
	DefaultLogLevel           = "info"

	DefaultMaxCommits      = 1000
	DefaultMaxRepos        = 100
	DefaultPerRepoCommits  = 100
	DefaultMaxTotalCommits = 5000

	DefaultWindowSize   = 5
	DefaultN            = 2
	DefaultMinFrequency = 2
	DefaultNValues      = "1,2,3"
	DefaultStepSize     = 10
	DefaultMaxRank      = 50
	DefaultMinFreqQ     = 1
	DefaultMinFreqK     = 1
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a command.
// This struct is the "final, validated" config.
type Config struct {
	Output      schema.OutputMode
	OutputFile  string
	ResultLimit int
	Precision   int
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	GitHubToken        string
	Workers            int
	RateLimitThreshold int
	LogLevel           logrus.Level

	// Corpus build
	Corpus          schema.CorpusKey
	MaxCommits      int
	MaxRepos        int
	PerRepoCommits  int
	MaxTotalCommits int
	Refresh         bool

	// KWIC
	Keyword    string
	SearchType schema.SearchType
	WindowSize int
	SortType   schema.SortType

	// N-grams
	N            int
	MinFrequency int

	// Comparison
	CompareCorpus schema.CorpusKey
	NValues       []int
	StepSize      int
	MaxRank       int
	MinFreqQ      int
	MinFreqK      int
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	CorpusStr        string
	CompareCorpusStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output             string `mapstructure:"output"`
	OutputFile         string `mapstructure:"output-file"`
	Limit              int    `mapstructure:"limit"`
	Precision          int    `mapstructure:"precision"`
	Width              int    `mapstructure:"width"`
	Color              string `mapstructure:"color"`
	CacheBackend       string `mapstructure:"cache-backend"`
	CacheDBConnect     string `mapstructure:"cache-db-connect"`
	CacheTTL           string `mapstructure:"cache-ttl"`
	AnalysisBackend    string `mapstructure:"analysis-backend"`
	AnalysisDBConnect  string `mapstructure:"analysis-db-connect"`
	GitHubToken        string `mapstructure:"github-token"`
	Workers            int    `mapstructure:"workers"`
	RateLimitThreshold int    `mapstructure:"rate-limit-threshold"`
	LogLevel           string `mapstructure:"log-level"`

	// --- Fields from analyzeCmd.PersistentFlags() ---
	MaxCommits      int  `mapstructure:"max-commits"`
	MaxRepos        int  `mapstructure:"max-repos"`
	PerRepoCommits  int  `mapstructure:"per-repo-commits"`
	MaxTotalCommits int  `mapstructure:"max-total-commits"`
	Refresh         bool `mapstructure:"refresh"`

	// --- Fields from kwicCmd.Flags() ---
	Keyword    string `mapstructure:"keyword"`
	SearchType string `mapstructure:"search-type"`
	Window     int    `mapstructure:"window"`
	Sort       string `mapstructure:"sort"`

	// --- Fields from ngramsCmd.Flags() ---
	N            int `mapstructure:"n"`
	MinFrequency int `mapstructure:"min-frequency"`

	// --- Fields from compareCmd.Flags() ---
	NValues  string `mapstructure:"n-values"`
	Step     int    `mapstructure:"step"`
	MaxRank  int    `mapstructure:"max-rank"`
	MinFreqQ int    `mapstructure:"min-freq-q"`
	MinFreqK int    `mapstructure:"min-freq-k"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.NValues != nil {
		clone.NValues = slices.Clone(c.NValues)
	}
	return &clone
}

// FetchOptions derives the fetch limits from the config.
func (c *Config) FetchOptions() FetchOptions {
	return FetchOptions{
		MaxCommits:      c.MaxCommits,
		MaxRepos:        c.MaxRepos,
		PerRepoCommits:  c.PerRepoCommits,
		MaxTotalCommits: c.MaxTotalCommits,
		Workers:         c.Workers,
	}
}

// KwicQuery returns the KWIC parameters of the config.
func (c *Config) KwicQuery() schema.KwicQuery {
	return schema.KwicQuery{
		Keyword:    c.Keyword,
		SearchType: c.SearchType,
		WindowSize: c.WindowSize,
		SortType:   c.SortType,
	}
}

// ComparisonParams returns the comparison parameters of the config.
func (c *Config) ComparisonParams() schema.ComparisonParams {
	return schema.ComparisonParams{
		NValues:  slices.Clone(c.NValues),
		StepSize: c.StepSize,
		MaxRank:  c.MaxRank,
		MinFreqQ: c.MinFreqQ,
		MinFreqK: c.MinFreqK,
	}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processCorpusKeys(cfg, input); err != nil {
		return err
	}
	if err := processFetchLimits(cfg, input); err != nil {
		return err
	}
	if err := processKwicParams(cfg, input); err != nil {
		return err
	}
	if err := processNgramParams(cfg, input); err != nil {
		return err
	}
	if err := processCompareParams(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return InvalidArgument("cache backend '%s' must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("invalid --cache-db-connect: %w", err)
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return InvalidArgument("analysis backend '%s' must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return fmt.Errorf("invalid --analysis-db-connect: %w", err)
	}

	// Cache and analysis must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		analysisDBPath := cfg.AnalysisDBConnect
		if analysisDBPath == "" {
			analysisDBPath = GetAnalysisDBFilePath()
		}
		if cacheDBPath == analysisDBPath {
			return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output, storage and runtime fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.GitHubToken = strings.TrimSpace(input.GitHubToken)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return InvalidArgument("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return InvalidArgument("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.RateLimitThreshold < 0 {
		return InvalidArgument("rate-limit-threshold cannot be negative (received %d)", input.RateLimitThreshold)
	}
	cfg.RateLimitThreshold = input.RateLimitThreshold

	if input.Precision < 1 || input.Precision > 2 {
		return InvalidArgument("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return InvalidArgument("output format '%s' must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return InvalidArgument("parquet output requires --output-file")
	}

	level, err := logrus.ParseLevel(input.LogLevel)
	if err != nil {
		return InvalidArgument("log-level: %v", err)
	}
	cfg.LogLevel = level

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil || ttl <= 0 {
			return InvalidArgument("cache-ttl '%s' must be a positive duration such as 168h", input.CacheTTL)
		}
		cfg.CacheTTL = ttl
	}

	return validateBackendConfigs(cfg, input)
}

// processCorpusKeys parses the positional corpus arguments, when present.
func processCorpusKeys(cfg *Config, input *ConfigRawInput) error {
	if input.CorpusStr != "" {
		key, err := ParseCorpusKey(input.CorpusStr)
		if err != nil {
			return err
		}
		cfg.Corpus = key
	}
	if input.CompareCorpusStr != "" {
		key, err := ParseCorpusKey(input.CompareCorpusStr)
		if err != nil {
			return err
		}
		cfg.CompareCorpus = key
	}
	return nil
}

// processFetchLimits validates the history caps used when building a corpus.
func processFetchLimits(cfg *Config, input *ConfigRawInput) error {
	limits := []struct {
		name  string
		value int
		dest  *int
	}{
		{"max-commits", input.MaxCommits, &cfg.MaxCommits},
		{"max-repos", input.MaxRepos, &cfg.MaxRepos},
		{"per-repo-commits", input.PerRepoCommits, &cfg.PerRepoCommits},
		{"max-total-commits", input.MaxTotalCommits, &cfg.MaxTotalCommits},
	}
	for _, l := range limits {
		if l.value <= 0 {
			return InvalidArgument("%s must be greater than 0 (received %d)", l.name, l.value)
		}
		*l.dest = l.value
	}
	cfg.Refresh = input.Refresh
	return nil
}

// processKwicParams validates the KWIC flags. The keyword itself is only
// required by the kwic command and is checked there.
func processKwicParams(cfg *Config, input *ConfigRawInput) error {
	cfg.Keyword = strings.TrimSpace(input.Keyword)

	searchType, err := ParseSearchType(input.SearchType)
	if err != nil {
		return err
	}
	cfg.SearchType = searchType

	sortType, err := ParseSortType(input.Sort)
	if err != nil {
		return err
	}
	cfg.SortType = sortType

	if input.Window < 0 {
		return InvalidArgument("window must be 0 or greater (received %d)", input.Window)
	}
	cfg.WindowSize = input.Window
	return nil
}

// processNgramParams validates the n-gram flags.
func processNgramParams(cfg *Config, input *ConfigRawInput) error {
	if input.N <= 0 {
		return InvalidArgument("n must be greater than 0 (received %d)", input.N)
	}
	if input.MinFrequency < 0 {
		return InvalidArgument("min-frequency cannot be negative (received %d)", input.MinFrequency)
	}
	cfg.N = input.N
	cfg.MinFrequency = input.MinFrequency
	return nil
}

// processCompareParams validates the comparison flags.
func processCompareParams(cfg *Config, input *ConfigRawInput) error {
	nValues, err := ParseIntList(input.NValues)
	if err != nil {
		return fmt.Errorf("invalid --n-values: %w", err)
	}
	for _, n := range nValues {
		if n <= 0 {
			return InvalidArgument("n-values must all be greater than 0 (received %d)", n)
		}
	}
	cfg.NValues = nValues

	if input.Step <= 0 {
		return InvalidArgument("step must be greater than 0 (received %d)", input.Step)
	}
	if input.MaxRank <= 0 {
		return InvalidArgument("max-rank must be greater than 0 (received %d)", input.MaxRank)
	}
	if input.MinFreqQ < 0 || input.MinFreqK < 0 {
		return InvalidArgument("min-freq-q and min-freq-k cannot be negative (received %d, %d)", input.MinFreqQ, input.MinFreqK)
	}
	cfg.StepSize = input.Step
	cfg.MaxRank = input.MaxRank
	cfg.MinFreqQ = input.MinFreqQ
	cfg.MinFreqK = input.MinFreqK
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ParseCorpusKey parses "owner/repo" or "user:name" into a CorpusKey.
func ParseCorpusKey(s string) (schema.CorpusKey, error) {
	s = strings.TrimSpace(s)
	if name, ok := strings.CutPrefix(s, "user:"); ok {
		if name == "" || strings.ContainsAny(name, "/: ") {
			return "", InvalidArgument("corpus %q must be user:<username>", s)
		}
		return schema.UserKey(name), nil
	}
	owner, repo, ok := strings.Cut(s, "/")
	if !ok || owner == "" || repo == "" || strings.ContainsAny(repo, "/ ") || strings.Contains(owner, " ") {
		return "", InvalidArgument("corpus %q must be <owner>/<repo> or user:<username>", s)
	}
	return schema.RepoKey(owner, repo), nil
}

// ParseSearchType validates a KWIC match mode, case-insensitively.
func ParseSearchType(s string) (schema.SearchType, error) {
	st := schema.SearchType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schema.ValidSearchTypes[st]; !ok {
		return "", InvalidArgument("search type '%s' must be token, part_of_speech, entity", s)
	}
	return st, nil
}

// ParseSortType validates a KWIC ordering, case-insensitively.
func ParseSortType(s string) (schema.SortType, error) {
	st := schema.SortType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schema.ValidSortTypes[st]; !ok {
		return "", InvalidArgument("sort type '%s' must be sequential, next_token_frequency, next_pos_frequency, next_token_pos_combination_frequency", s)
	}
	return st, nil
}

// ParseIntList parses a comma-separated list of integers such as "1,2,3".
// Duplicates are dropped while keeping first-seen order.
func ParseIntList(s string) ([]int, error) {
	var out []int
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, InvalidArgument("'%s' is not an integer", part)
		}
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, InvalidArgument("at least one value is required")
	}
	return out, nil
}
