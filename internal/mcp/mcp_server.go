// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/Andyyyy64/el331-commit-analysis/core"
	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/internal/jobs"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Deps are the collaborators the tools need besides the stores.
type Deps struct {
	Fetcher   contract.CommitFetcher
	Annotator contract.Annotator
	Tracker   *jobs.Tracker
}

// NewMCPServer initializes and configures the commitlens MCP server without starting it.
// The server owns a corpus cache persisting through mgr.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"Commitlens Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:   baseCfg,
		corpora:   core.NewCorpusCache(mgr),
		fetcher:   deps.Fetcher,
		annotator: deps.Annotator,
		tracker:   deps.Tracker,
	}

	// --- Corpus building ---
	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Fetch and annotate the commit history of one GitHub repository."),
		mcp.WithString("owner", mcp.Description("Repository owner."), mcp.Required()),
		mcp.WithString("repo", mcp.Description("Repository name."), mcp.Required()),
		mcp.WithBoolean("refresh", mcp.Description("Rebuild even when a fresh cached corpus exists.")),
		mcp.WithBoolean("wait", mcp.Description("Block until annotation finishes instead of returning the job.")),
	), h.handleAnalyzeRepository)

	s.AddTool(mcp.NewTool("analyze_user",
		mcp.WithDescription("Fetch and annotate the merged commit history of a GitHub user's repositories."),
		mcp.WithString("username", mcp.Description("GitHub username."), mcp.Required()),
		mcp.WithBoolean("refresh", mcp.Description("Rebuild even when a fresh cached corpus exists.")),
		mcp.WithBoolean("wait", mcp.Description("Block until annotation finishes instead of returning the job.")),
	), h.handleAnalyzeUser)

	s.AddTool(mcp.NewTool("job_status",
		mcp.WithDescription("Report the state of the latest annotation job of a corpus."),
		mcp.WithString("corpus", mcp.Description("Corpus key: owner/repo or user:name."), mcp.Required()),
	), h.handleJobStatus)

	// --- Queries ---
	s.AddTool(mcp.NewTool("search_kwic",
		mcp.WithDescription("Keyword-in-context search over an analyzed corpus."),
		mcp.WithString("corpus", mcp.Description("Corpus key: owner/repo or user:name."), mcp.Required()),
		mcp.WithString("keyword", mcp.Description("Token text, POS tag or entity label to find."), mcp.Required()),
		mcp.WithString("search_type", mcp.Description("How the keyword is matched. Defaults to 'token'."), mcp.Enum("token", "part_of_speech", "entity")),
		mcp.WithNumber("window_size", mcp.Description("Tokens of context on each side. Defaults to 5.")),
		mcp.WithString("sort_type", mcp.Description("Result ordering. Defaults to 'sequential'."),
			mcp.Enum("sequential", "next_token_frequency", "next_pos_frequency", "next_token_pos_combination_frequency")),
	), h.handleSearchKwic)

	s.AddTool(mcp.NewTool("rank_ngrams",
		mcp.WithDescription("Rank the n-grams of content words in an analyzed corpus."),
		mcp.WithString("corpus", mcp.Description("Corpus key: owner/repo or user:name."), mcp.Required()),
		mcp.WithNumber("n", mcp.Description("N-gram length. Defaults to 2.")),
		mcp.WithNumber("min_frequency", mcp.Description("Drop n-grams seen fewer times. Defaults to 2.")),
	), h.handleRankNgrams)

	s.AddTool(mcp.NewTool("compare_corpora",
		mcp.WithDescription("Compare the n-gram rankings of two analyzed corpora window by window."),
		mcp.WithString("corpus_q", mcp.Description("First corpus key."), mcp.Required()),
		mcp.WithString("corpus_k", mcp.Description("Second corpus key."), mcp.Required()),
		mcp.WithString("n_values", mcp.Description("Comma-separated n-gram lengths. Defaults to '1,2,3'.")),
		mcp.WithNumber("step_size", mcp.Description("Ranks per window. Defaults to 10.")),
		mcp.WithNumber("max_rank", mcp.Description("Deepest rank compared. Defaults to 50.")),
		mcp.WithNumber("min_freq_q", mcp.Description("Minimum frequency in the first corpus. Defaults to 1.")),
		mcp.WithNumber("min_freq_k", mcp.Description("Minimum frequency in the second corpus. Defaults to 1.")),
	), h.handleCompareCorpora)

	s.AddTool(mcp.NewTool("aggregate_authors",
		mcp.WithDescription("Profile the commit authors of an analyzed corpus."),
		mcp.WithString("corpus", mcp.Description("Corpus key: owner/repo or user:name."), mcp.Required()),
	), h.handleAggregateAuthors)

	// --- Cache ---
	s.AddTool(mcp.NewTool("clear_cache",
		mcp.WithDescription("Forget the cached corpus of one key."),
		mcp.WithString("corpus", mcp.Description("Corpus key: owner/repo or user:name."), mcp.Required()),
	), h.handleClearCache)

	s.AddTool(mcp.NewTool("cache_status",
		mcp.WithDescription("Summarize the corpus cache, one entry per cached corpus."),
	), h.handleCacheStatus)

	return s
}

// StartMCPServer starts the commitlens MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager, deps Deps) error {
	s := NewMCPServer(baseCfg, mgr, deps)
	return server.ServeStdio(s)
}
