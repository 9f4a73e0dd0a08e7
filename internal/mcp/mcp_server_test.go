package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/annotate"
	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/internal/github"
	"github.com/Andyyyy64/el331-commit-analysis/internal/iocache"
	"github.com/Andyyyy64/el331-commit-analysis/internal/jobs"
	mcp_internal "github.com/Andyyyy64/el331-commit-analysis/internal/mcp"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		CacheTTL:        time.Hour,
		Workers:         2,
		MaxCommits:      contract.DefaultMaxCommits,
		MaxRepos:        contract.DefaultMaxRepos,
		PerRepoCommits:  contract.DefaultPerRepoCommits,
		MaxTotalCommits: contract.DefaultMaxTotalCommits,
		SearchType:      schema.TokenSearch,
		WindowSize:      contract.DefaultWindowSize,
		SortType:        schema.SequentialSort,
		N:               contract.DefaultN,
		MinFrequency:    contract.DefaultMinFrequency,
		NValues:         []int{1, 2, 3},
		StepSize:        contract.DefaultStepSize,
		MaxRank:         contract.DefaultMaxRank,
		MinFreqQ:        contract.DefaultMinFreqQ,
		MinFreqK:        contract.DefaultMinFreqK,
	}
}

func commits() []schema.Commit {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	return []schema.Commit{
		{Hash: "a1b2c3d4e5f6", Author: "alice", Email: "alice@example.com", RawMessage: "fix parser bug", CommittedAt: base},
		{Hash: "b2c3d4e5f6a1", Author: "alice", Email: "alice@example.com", RawMessage: "fix parser crash", CommittedAt: base.Add(-time.Hour)},
		{Hash: "c3d4e5f6a1b2", Author: "bob", Email: "bob@example.com", RawMessage: "add parser tests", CommittedAt: base.Add(-2 * time.Hour)},
	}
}

type fixture struct {
	server  *server.MCPServer
	tracker *jobs.Tracker
	fetcher *github.MockCommitFetcher
}

func newFixture(t *testing.T, mgr contract.CacheManager) *fixture {
	t.Helper()

	logger, _ := logtest.NewNullLogger()
	tracker := jobs.NewTracker(logger)
	fetcher := &github.MockCommitFetcher{}
	fetcher.On("FetchRepository", mock.Anything, "octo", "hello", mock.Anything).Return(commits(), nil)
	fetcher.On("FetchRepository", mock.Anything, "octo", "missing", mock.Anything).
		Return(nil, contract.ErrNotFound)

	s := mcp_internal.NewMCPServer(baseConfig(), mgr, mcp_internal.Deps{
		Fetcher:   fetcher,
		Annotator: annotate.NewStub(nil),
		Tracker:   tracker,
	})
	return &fixture{server: s, tracker: tracker, fetcher: fetcher}
}

func (f *fixture) call(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := f.server.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

func decode(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.False(t, res.IsError, text(t, res))
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	return out
}

func (f *fixture) analyzeHello(t *testing.T) {
	t.Helper()
	out := decode(t, f.call(t, "analyze_repository", map[string]any{"owner": "octo", "repo": "hello", "wait": true}))
	job := out["job"].(map[string]any)
	require.Equal(t, string(schema.JobCompleted), job["status"])
}

func TestToolsAreRegistered(t *testing.T) {
	f := newFixture(t, nil)
	for _, name := range []string{
		"analyze_repository", "analyze_user", "job_status", "search_kwic", "rank_ngrams",
		"compare_corpora", "aggregate_authors", "clear_cache", "cache_status",
	} {
		assert.NotNil(t, f.server.GetTool(name), "Tool %s should exist", name)
	}
}

func TestAnalyzeRepository_Wait(t *testing.T) {
	f := newFixture(t, nil)

	out := decode(t, f.call(t, "analyze_repository", map[string]any{"owner": "octo", "repo": "hello", "wait": true}))
	job := out["job"].(map[string]any)
	assert.Equal(t, "octo/hello", job["corpus"])
	assert.Equal(t, string(schema.JobCompleted), job["status"])

	corpus := out["corpus"].(map[string]any)
	assert.EqualValues(t, 3, corpus["total_commits"])
	assert.EqualValues(t, 2, corpus["authors"])
}

func TestAnalyzeRepository_Background(t *testing.T) {
	f := newFixture(t, nil)

	out := decode(t, f.call(t, "analyze_repository", map[string]any{"owner": "octo", "repo": "hello"}))
	job := out["job"].(map[string]any)
	assert.NotContains(t, out, "corpus")
	id := job["id"].(string)

	done, err := f.tracker.Wait(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, schema.JobCompleted, done.Status)

	status := decode(t, f.call(t, "job_status", map[string]any{"corpus": "octo/hello"}))
	assert.Equal(t, id, status["id"])
	assert.Equal(t, string(schema.JobCompleted), status["status"])
}

func TestAnalyzeErrors(t *testing.T) {
	f := newFixture(t, nil)

	t.Run("missing owner", func(t *testing.T) {
		res := f.call(t, "analyze_repository", map[string]any{"repo": "hello"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(t, res), "invalid argument")
	})

	t.Run("missing username", func(t *testing.T) {
		res := f.call(t, "analyze_user", map[string]any{"username": " "})
		assert.True(t, res.IsError)
	})

	t.Run("unknown repository", func(t *testing.T) {
		res := f.call(t, "analyze_repository", map[string]any{"owner": "octo", "repo": "missing", "wait": true})
		assert.True(t, res.IsError)
		assert.Contains(t, text(t, res), "not found")

		status := decode(t, f.call(t, "job_status", map[string]any{"corpus": "octo/missing"}))
		assert.Equal(t, string(schema.JobFailed), status["status"])
	})

	t.Run("job status without job", func(t *testing.T) {
		res := f.call(t, "job_status", map[string]any{"corpus": "octo/never"})
		assert.True(t, res.IsError)
	})
}

func TestAnalyzeUser(t *testing.T) {
	f := newFixture(t, nil)
	f.fetcher.On("FetchUser", mock.Anything, "octo", mock.Anything).Return(contract.UserCommits{
		Commits:           commits(),
		Repositories:      []string{"octo/hello"},
		TotalRepositories: 2,
	}, nil)

	out := decode(t, f.call(t, "analyze_user", map[string]any{"username": "octo", "wait": true}))
	corpus := out["corpus"].(map[string]any)
	assert.Equal(t, "user:octo", corpus["key"])
	assert.EqualValues(t, 2, corpus["total_repositories"])
}

func TestQueryTools(t *testing.T) {
	f := newFixture(t, nil)
	f.analyzeHello(t)

	t.Run("search_kwic", func(t *testing.T) {
		out := decode(t, f.call(t, "search_kwic", map[string]any{
			"corpus":      "octo/hello",
			"keyword":     "parser",
			"window_size": 1.0,
			"sort_type":   "next_token_frequency",
		}))
		assert.Equal(t, "parser", out["keyword"])
		assert.EqualValues(t, 1, out["window_size"])
		assert.Equal(t, "next_token_frequency", out["sort_type"])
		assert.EqualValues(t, 3, out["total"])
	})

	t.Run("rank_ngrams", func(t *testing.T) {
		out := decode(t, f.call(t, "rank_ngrams", map[string]any{"corpus": "octo/hello", "n": 1.0, "min_frequency": 2.0}))
		assert.EqualValues(t, 2, out["total_ngrams"])
		first := out["ngrams"].([]any)[0].(map[string]any)
		assert.Equal(t, "parser", first["ngram"])
	})

	t.Run("compare_corpora", func(t *testing.T) {
		out := decode(t, f.call(t, "compare_corpora", map[string]any{
			"corpus_q":  "octo/hello",
			"corpus_k":  "octo/hello",
			"n_values":  "1",
			"step_size": 3.0,
		}))
		steps := out["1"].([]any)
		require.NotEmpty(t, steps)
		assert.EqualValues(t, 3, steps[0].(map[string]any)["common_ngrams_count"])
	})

	t.Run("aggregate_authors", func(t *testing.T) {
		out := decode(t, f.call(t, "aggregate_authors", map[string]any{"corpus": "octo/hello"}))
		assert.EqualValues(t, 2, out["total_authors"])
	})
}

func TestQueryToolErrors(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"not analyzed", "search_kwic", map[string]any{"corpus": "octo/hello", "keyword": "fix"}, "corpus not analyzed"},
		{"bad corpus key", "rank_ngrams", map[string]any{"corpus": "no-slash"}, "invalid argument"},
		{"missing corpus", "aggregate_authors", map[string]any{}, "corpus is required"},
		{"bad search type", "search_kwic", map[string]any{"corpus": "octo/hello", "keyword": "fix", "search_type": "regex"}, "invalid argument"},
		{"bad n values", "compare_corpora", map[string]any{"corpus_q": "octo/a", "corpus_k": "octo/b", "n_values": "one"}, "invalid argument"},
		{"zero n", "rank_ngrams", map[string]any{"corpus": "octo/hello", "n": 0.0}, "invalid argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.call(t, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, text(t, res), tt.want)
		})
	}
}

func TestClearCache(t *testing.T) {
	store := &iocache.MockCacheStore{}
	store.On("Get", "octo/hello").Return(nil, 0, int64(0), assert.AnError)
	store.On("Set", "octo/hello", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store.On("Delete", "octo/hello").Return(nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetCorpusStore").Return(store)
	mgr.On("GetAnalysisStore").Return(nil)

	f := newFixture(t, mgr)
	f.analyzeHello(t)

	res := f.call(t, "clear_cache", map[string]any{"corpus": "octo/hello"})
	require.False(t, res.IsError, text(t, res))
	assert.Contains(t, text(t, res), "octo/hello")
	store.AssertCalled(t, "Delete", "octo/hello")

	res = f.call(t, "search_kwic", map[string]any{"corpus": "octo/hello", "keyword": "fix"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "corpus not analyzed")
}

func TestCacheStatus(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		f := newFixture(t, nil)
		res := f.call(t, "cache_status", nil)
		assert.True(t, res.IsError)
	})

	t.Run("entries", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("GetStatus").Return(schema.CacheStatus{
			Backend:      "sqlite",
			Connected:    true,
			TotalEntries: 1,
			Entries:      []schema.CacheEntry{{Key: "octo/hello", Version: 1, SizeBytes: 512}},
		}, nil)
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetCorpusStore").Return(store)

		f := newFixture(t, mgr)
		out := decode(t, f.call(t, "cache_status", nil))
		assert.EqualValues(t, 1, out["total_entries"])
	})
}

func TestServersDoNotShareCorpora(t *testing.T) {
	first := newFixture(t, nil)
	first.analyzeHello(t)

	second := newFixture(t, nil)
	res := second.call(t, "aggregate_authors", map[string]any{"corpus": "octo/hello"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "corpus not analyzed")

	out := decode(t, first.call(t, "aggregate_authors", map[string]any{"corpus": "octo/hello"}))
	assert.EqualValues(t, 2, out["total_authors"])
}
