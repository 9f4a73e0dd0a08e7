package core

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/internal/iocache"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// testContext returns a context carrying a logger that discards output.
func testContext() (context.Context, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	return WithLogger(context.Background(), logger), hook
}

func testLogger() (*logrus.Logger, *logtest.Hook) {
	return logtest.NewNullLogger()
}

func testConfig(key schema.CorpusKey) *contract.Config {
	return &contract.Config{
		Corpus:          key,
		CacheTTL:        time.Hour,
		Workers:         2,
		MaxCommits:      contract.DefaultMaxCommits,
		MaxRepos:        contract.DefaultMaxRepos,
		PerRepoCommits:  contract.DefaultPerRepoCommits,
		MaxTotalCommits: contract.DefaultMaxTotalCommits,
		Keyword:         "fix",
		SearchType:      schema.TokenSearch,
		WindowSize:      contract.DefaultWindowSize,
		SortType:        schema.SequentialSort,
		N:               contract.DefaultN,
		MinFrequency:    contract.DefaultMinFrequency,
		NValues:         []int{1, 2},
		StepSize:        2,
		MaxRank:         4,
		MinFreqQ:        1,
		MinFreqK:        1,
	}
}

// rawCommits returns a small history, newest first.
func rawCommits() []schema.Commit {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	return []schema.Commit{
		{Hash: "a1b2c3d4e5f6", Author: "alice", Email: "alice@example.com", RawMessage: "  Fix parser\n\nbug ", CommittedAt: base},
		{Hash: "b2c3d4e5f6a1", Author: "alice", Email: "alice@example.com", RawMessage: "fix parser crash", CommittedAt: base.Add(-time.Hour)},
		{Hash: "c3d4e5f6a1b2", Author: "bob", Email: "bob@example.com", RawMessage: "add parser tests", CommittedAt: base.Add(-2 * time.Hour)},
	}
}

// sqliteManager opens real corpus and analysis stores in a temporary directory.
func sqliteManager(t *testing.T) *iocache.CacheStoreManager {
	t.Helper()
	dir := t.TempDir()
	corpus, analysis, err := iocache.OpenStores(
		schema.SQLiteBackend, filepath.Join(dir, "cache.db"),
		schema.SQLiteBackend, filepath.Join(dir, "analysis.db"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = corpus.Close()
		_ = analysis.Close()
	})
	return iocache.NewManager(corpus, analysis)
}
