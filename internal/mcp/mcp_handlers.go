package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Andyyyy64/el331-commit-analysis/core"
	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/internal/jobs"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg   *contract.Config
	corpora   *core.CorpusCache
	fetcher   contract.CommitFetcher
	annotator contract.Annotator
	tracker   *jobs.Tracker
}

// analyzeResponse is returned by the analyze tools.
type analyzeResponse struct {
	Job    jobs.Job              `json:"job"`
	Corpus *schema.CorpusSummary `json:"corpus,omitempty"`
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

func errorResult(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", action, err))
}

// corpusArg parses a required corpus key argument.
func corpusArg(request mcp.CallToolRequest, name string) (schema.CorpusKey, error) {
	raw := strings.TrimSpace(request.GetString(name, ""))
	if raw == "" {
		return "", contract.InvalidArgument("%s is required", name)
	}
	return contract.ParseCorpusKey(raw)
}

func (h *toolHandler) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := strings.TrimSpace(request.GetString("owner", ""))
	repo := strings.TrimSpace(request.GetString("repo", ""))
	key, err := contract.ParseCorpusKey(owner + "/" + repo)
	if err != nil {
		return errorResult("analyze", err), nil
	}
	return h.analyze(ctx, request, key), nil
}

func (h *toolHandler) handleAnalyzeUser(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username := strings.TrimSpace(request.GetString("username", ""))
	key, err := contract.ParseCorpusKey("user:" + username)
	if err != nil {
		return errorResult("analyze", err), nil
	}
	return h.analyze(ctx, request, key), nil
}

// analyze submits a build for key and optionally waits for it.
func (h *toolHandler) analyze(ctx context.Context, request mcp.CallToolRequest, key schema.CorpusKey) *mcp.CallToolResult {
	cfg := h.baseCfg.Clone()
	cfg.Corpus = key
	cfg.Refresh = request.GetBool("refresh", false)

	job := core.SubmitBuild(ctx, h.tracker, key, cfg, h.fetcher, h.annotator, h.corpora)
	if !request.GetBool("wait", false) {
		return jsonResult(analyzeResponse{Job: job})
	}

	done, err := h.tracker.Wait(ctx, job.ID)
	if err != nil {
		return errorResult("analyze", err)
	}
	corpus, err := core.LoadCorpus(key, cfg, h.corpora, h.tracker)
	if err != nil {
		return errorResult("analyze", err)
	}
	summary := corpus.Summarize()
	return jsonResult(analyzeResponse{Job: done, Corpus: &summary})
}

func (h *toolHandler) handleJobStatus(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := corpusArg(request, "corpus")
	if err != nil {
		return errorResult("job status", err), nil
	}
	job, ok := h.tracker.ForCorpus(key)
	if !ok {
		return errorResult("job status", fmt.Errorf("%w: no annotation job for %s", contract.ErrNotFound, key)), nil
	}
	return jsonResult(job), nil
}

func (h *toolHandler) handleSearchKwic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	key, err := corpusArg(request, "corpus")
	if err != nil {
		return errorResult("search", err), nil
	}
	cfg.Corpus = key
	cfg.Keyword = strings.TrimSpace(request.GetString("keyword", ""))
	cfg.WindowSize = request.GetInt("window_size", cfg.WindowSize)

	if s := request.GetString("search_type", ""); s != "" {
		if cfg.SearchType, err = contract.ParseSearchType(s); err != nil {
			return errorResult("search", err), nil
		}
	}
	if s := request.GetString("sort_type", ""); s != "" {
		if cfg.SortType, err = contract.ParseSortType(s); err != nil {
			return errorResult("search", err), nil
		}
	}

	result, err := core.GetKwicResults(ctx, cfg, h.corpora, h.tracker)
	if err != nil {
		return errorResult("search", err), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleRankNgrams(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	key, err := corpusArg(request, "corpus")
	if err != nil {
		return errorResult("n-gram ranking", err), nil
	}
	cfg.Corpus = key
	cfg.N = request.GetInt("n", cfg.N)
	cfg.MinFrequency = request.GetInt("min_frequency", cfg.MinFrequency)

	result, err := core.GetNgramResults(ctx, cfg, h.corpora, h.tracker)
	if err != nil {
		return errorResult("n-gram ranking", err), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleCompareCorpora(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	q, err := corpusArg(request, "corpus_q")
	if err != nil {
		return errorResult("comparison", err), nil
	}
	k, err := corpusArg(request, "corpus_k")
	if err != nil {
		return errorResult("comparison", err), nil
	}
	cfg.Corpus = q
	cfg.CompareCorpus = k

	if s := request.GetString("n_values", ""); s != "" {
		if cfg.NValues, err = contract.ParseIntList(s); err != nil {
			return errorResult("comparison", err), nil
		}
	}
	cfg.StepSize = request.GetInt("step_size", cfg.StepSize)
	cfg.MaxRank = request.GetInt("max_rank", cfg.MaxRank)
	cfg.MinFreqQ = request.GetInt("min_freq_q", cfg.MinFreqQ)
	cfg.MinFreqK = request.GetInt("min_freq_k", cfg.MinFreqK)

	result, err := core.GetComparisonResults(ctx, cfg, h.corpora, h.tracker)
	if err != nil {
		return errorResult("comparison", err), nil
	}
	return jsonResult(result.Steps), nil
}

func (h *toolHandler) handleAggregateAuthors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	key, err := corpusArg(request, "corpus")
	if err != nil {
		return errorResult("author aggregation", err), nil
	}
	cfg.Corpus = key

	result, err := core.GetAuthorResults(ctx, cfg, h.corpora, h.tracker)
	if err != nil {
		return errorResult("author aggregation", err), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleClearCache(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := corpusArg(request, "corpus")
	if err != nil {
		return errorResult("cache clear", err), nil
	}
	if err := h.corpora.Delete(key); err != nil {
		return errorResult("cache clear", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Cleared cached corpus %s", key)), nil
}

func (h *toolHandler) handleCacheStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mgr := h.corpora.Manager()
	if mgr == nil || mgr.GetCorpusStore() == nil {
		return errorResult("cache status", fmt.Errorf("corpus cache is not configured")), nil
	}
	status, err := mgr.GetCorpusStore().GetStatus()
	if err != nil {
		return errorResult("cache status", err), nil
	}
	return jsonResult(status), nil
}
