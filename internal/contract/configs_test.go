package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validRawInput mirrors the flag defaults registered by the CLI.
func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		Output:             "text",
		Limit:              DefaultResultLimit,
		Precision:          DefaultPrecision,
		Color:              "yes",
		CacheBackend:       "sqlite",
		AnalysisBackend:    "none",
		Workers:            DefaultWorkers,
		RateLimitThreshold: DefaultRateLimitThreshold,
		LogLevel:           DefaultLogLevel,
		MaxCommits:         DefaultMaxCommits,
		MaxRepos:           DefaultMaxRepos,
		PerRepoCommits:     DefaultPerRepoCommits,
		MaxTotalCommits:    DefaultMaxTotalCommits,
		SearchType:         string(schema.TokenSearch),
		Window:             DefaultWindowSize,
		Sort:               string(schema.SequentialSort),
		N:                  DefaultN,
		MinFrequency:       DefaultMinFrequency,
		NValues:            DefaultNValues,
		Step:               DefaultStepSize,
		MaxRank:            DefaultMaxRank,
		MinFreqQ:           DefaultMinFreqQ,
		MinFreqK:           DefaultMinFreqK,
	}
}

func TestProcessAndValidate(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &Config{}
		input := validRawInput()
		input.CorpusStr = "octo/hello"

		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, schema.TextOut, cfg.Output)
		assert.Equal(t, schema.CorpusKey("octo/hello"), cfg.Corpus)
		assert.Equal(t, schema.TokenSearch, cfg.SearchType)
		assert.Equal(t, schema.SequentialSort, cfg.SortType)
		assert.Equal(t, []int{1, 2, 3}, cfg.NValues)
		assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
		assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
		assert.True(t, cfg.UseColors)
		assert.Equal(t, FetchOptions{
			MaxCommits:      DefaultMaxCommits,
			MaxRepos:        DefaultMaxRepos,
			PerRepoCommits:  DefaultPerRepoCommits,
			MaxTotalCommits: DefaultMaxTotalCommits,
			Workers:         DefaultWorkers,
		}, cfg.FetchOptions())
	})

	t.Run("enum values are case-insensitive", func(t *testing.T) {
		cfg := &Config{}
		input := validRawInput()
		input.SearchType = "Part_Of_Speech"
		input.Sort = "NEXT_POS_FREQUENCY"
		input.Output = "JSON"

		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, schema.PartOfSpeechSearch, cfg.SearchType)
		assert.Equal(t, schema.NextPOSFrequencySort, cfg.SortType)
		assert.Equal(t, schema.JSONOut, cfg.Output)
	})

	t.Run("compare corpora and cache ttl", func(t *testing.T) {
		cfg := &Config{}
		input := validRawInput()
		input.CorpusStr = "user:alice"
		input.CompareCorpusStr = "octo/hello"
		input.CacheTTL = "24h"
		input.NValues = "2, 4"

		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, schema.UserKey("alice"), cfg.Corpus)
		assert.Equal(t, schema.RepoKey("octo", "hello"), cfg.CompareCorpus)
		assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
		assert.Equal(t, []int{2, 4}, cfg.ComparisonParams().NValues)
	})

	invalid := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{"unknown search type", func(in *ConfigRawInput) { in.SearchType = "lemma" }},
		{"unknown sort type", func(in *ConfigRawInput) { in.Sort = "random" }},
		{"negative window", func(in *ConfigRawInput) { in.Window = -1 }},
		{"zero n", func(in *ConfigRawInput) { in.N = 0 }},
		{"negative min frequency", func(in *ConfigRawInput) { in.MinFrequency = -1 }},
		{"zero step", func(in *ConfigRawInput) { in.Step = 0 }},
		{"zero max rank", func(in *ConfigRawInput) { in.MaxRank = 0 }},
		{"bad n-values", func(in *ConfigRawInput) { in.NValues = "1,two" }},
		{"non-positive n-value", func(in *ConfigRawInput) { in.NValues = "0,1" }},
		{"negative limit", func(in *ConfigRawInput) { in.Limit = -5 }},
		{"zero workers", func(in *ConfigRawInput) { in.Workers = 0 }},
		{"bad precision", func(in *ConfigRawInput) { in.Precision = 3 }},
		{"bad output", func(in *ConfigRawInput) { in.Output = "xml" }},
		{"parquet without file", func(in *ConfigRawInput) { in.Output = "parquet" }},
		{"bad log level", func(in *ConfigRawInput) { in.LogLevel = "chatty" }},
		{"bad cache ttl", func(in *ConfigRawInput) { in.CacheTTL = "soon" }},
		{"bad backend", func(in *ConfigRawInput) { in.CacheBackend = "redis" }},
		{"bad corpus", func(in *ConfigRawInput) { in.CorpusStr = "just-a-name" }},
		{"zero max commits", func(in *ConfigRawInput) { in.MaxCommits = 0 }},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput()
			tt.mutate(input)
			err := ProcessAndValidate(&Config{}, input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	t.Run("bad color is rejected", func(t *testing.T) {
		input := validRawInput()
		input.Color = "sometimes"
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})
}

func TestValidateBackendConfigs(t *testing.T) {
	t.Run("shared sqlite file is rejected", func(t *testing.T) {
		shared := filepath.Join(t.TempDir(), "commitlens.db")
		input := validRawInput()
		input.CacheDBConnect = shared
		input.AnalysisBackend = "sqlite"
		input.AnalysisDBConnect = shared
		err := ProcessAndValidate(&Config{}, input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "different SQLite database files")
	})

	t.Run("default sqlite files are distinct", func(t *testing.T) {
		input := validRawInput()
		input.AnalysisBackend = "sqlite"
		assert.NoError(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("distinct sqlite files are accepted", func(t *testing.T) {
		dir := t.TempDir()
		input := validRawInput()
		input.CacheDBConnect = filepath.Join(dir, "cache.db")
		input.AnalysisBackend = "sqlite"
		input.AnalysisDBConnect = filepath.Join(dir, "analysis.db")
		assert.NoError(t, ProcessAndValidate(&Config{}, input))
	})
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite ignores connection", schema.SQLiteBackend, "", false},
		{"none ignores connection", schema.NoneBackend, "anything", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/commitlens", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/commitlens", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=commitlens", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=commitlens", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseCorpusKey(t *testing.T) {
	tests := []struct {
		input   string
		want    schema.CorpusKey
		wantErr bool
	}{
		{input: "octo/hello", want: "octo/hello"},
		{input: "  octo/hello  ", want: "octo/hello"},
		{input: "user:alice", want: "user:alice"},
		{input: "user:", wantErr: true},
		{input: "user:a/b", wantErr: true},
		{input: "octo", wantErr: true},
		{input: "/hello", wantErr: true},
		{input: "octo/", wantErr: true},
		{input: "a/b/c", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCorpusKey(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIntList(t *testing.T) {
	got, err := ParseIntList("3, 1,3,,2")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, got)

	_, err = ParseIntList("")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ParseIntList("1,x")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{NValues: []int{1, 2}}
	clone := cfg.Clone()
	clone.NValues[0] = 9
	assert.Equal(t, 1, cfg.NValues[0])
}
