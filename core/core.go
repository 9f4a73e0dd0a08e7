// Package core has the orchestration around the analysis engine: building
// and loading corpora, running queries and tracking query runs.
package core

import (
	"context"
	"strings"

	"github.com/Andyyyy64/el331-commit-analysis/core/algo"
	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
)

// GetKwicResults runs a KWIC search over the corpus named by cfg.Corpus.
func GetKwicResults(ctx context.Context, cfg *contract.Config, corpora *CorpusCache, builds BuildStatus) (schema.KwicResult, error) {
	q := cfg.KwicQuery()
	if err := validateKwicQuery(q); err != nil {
		return schema.KwicResult{}, err
	}
	corpus, err := LoadCorpus(cfg.Corpus, cfg, corpora, builds)
	if err != nil {
		return schema.KwicResult{}, err
	}

	ctx, run := beginRun(ctx, corpora.Manager(), corpus.Key, schema.KwicOperation, map[string]any{
		"keyword":     q.Keyword,
		"search_type": string(q.SearchType),
		"window_size": q.WindowSize,
		"sort_type":   string(q.SortType),
	})
	matches, err := algo.Search(corpus.Commits, q)
	if err != nil {
		return schema.KwicResult{}, err
	}
	run.end(ctx, corpus.Key, len(matches))

	return schema.KwicResult{
		Corpus:    corpus.Key,
		KwicQuery: q,
		Results:   matches,
		Total:     len(matches),
	}, nil
}

// GetNgramResults ranks the n-grams of the corpus named by cfg.Corpus.
func GetNgramResults(ctx context.Context, cfg *contract.Config, corpora *CorpusCache, builds BuildStatus) (schema.NgramResult, error) {
	if err := validateNgramParams(cfg.N, cfg.MinFrequency); err != nil {
		return schema.NgramResult{}, err
	}
	corpus, err := LoadCorpus(cfg.Corpus, cfg, corpora, builds)
	if err != nil {
		return schema.NgramResult{}, err
	}

	ctx, run := beginRun(ctx, corpora.Manager(), corpus.Key, schema.NgramOperation, map[string]any{
		"n":             cfg.N,
		"min_frequency": cfg.MinFrequency,
	})
	entries, err := algo.RankNgrams(corpus.Commits, cfg.N, cfg.MinFrequency)
	if err != nil {
		return schema.NgramResult{}, err
	}
	run.recordNgrams(ctx, corpus.Key, cfg.N, entries)
	run.end(ctx, corpus.Key, len(entries))

	return schema.NgramResult{
		Corpus:       corpus.Key,
		N:            cfg.N,
		MinFrequency: cfg.MinFrequency,
		Ngrams:       entries,
		TotalNgrams:  len(entries),
	}, nil
}

// GetComparisonResults compares the n-gram rankings of cfg.Corpus (Q) and
// cfg.CompareCorpus (K).
func GetComparisonResults(ctx context.Context, cfg *contract.Config, corpora *CorpusCache, builds BuildStatus) (schema.ComparisonResult, error) {
	params := cfg.ComparisonParams()
	if err := validateComparisonParams(params); err != nil {
		return schema.ComparisonResult{}, err
	}
	q, err := LoadCorpus(cfg.Corpus, cfg, corpora, builds)
	if err != nil {
		return schema.ComparisonResult{}, err
	}
	k, err := LoadCorpus(cfg.CompareCorpus, cfg, corpora, builds)
	if err != nil {
		return schema.ComparisonResult{}, err
	}

	ctx, run := beginRun(ctx, corpora.Manager(), q.Key, schema.CompareOperation, map[string]any{
		"corpus_k":   string(k.Key),
		"n_values":   params.NValues,
		"step_size":  params.StepSize,
		"max_rank":   params.MaxRank,
		"min_freq_q": params.MinFreqQ,
		"min_freq_k": params.MinFreqK,
	})
	steps, err := algo.Compare(q.Commits, k.Commits, params)
	if err != nil {
		return schema.ComparisonResult{}, err
	}

	result := schema.ComparisonResult{
		CorpusQ: q.Key,
		CorpusK: k.Key,
		Params:  params,
		Steps:   steps,
	}
	total := 0
	for _, n := range params.NValues {
		total += result.TotalCommon(n)
	}
	run.end(ctx, q.Key, total)
	return result, nil
}

// GetAuthorResults profiles the authors of the corpus named by cfg.Corpus.
func GetAuthorResults(ctx context.Context, cfg *contract.Config, corpora *CorpusCache, builds BuildStatus) (schema.AuthorResult, error) {
	corpus, err := LoadCorpus(cfg.Corpus, cfg, corpora, builds)
	if err != nil {
		return schema.AuthorResult{}, err
	}

	ctx, run := beginRun(ctx, corpora.Manager(), corpus.Key, schema.AuthorOperation, nil)
	profiles := algo.AggregateAuthors(corpus.Commits)
	run.recordAuthors(ctx, corpus.Key, profiles)
	run.end(ctx, corpus.Key, len(profiles))

	return schema.AuthorResult{
		Corpus:       corpus.Key,
		Authors:      profiles,
		TotalAuthors: len(profiles),
	}, nil
}

// validateKwicQuery rejects a query before any corpus is loaded.
func validateKwicQuery(q schema.KwicQuery) error {
	if strings.TrimSpace(q.Keyword) == "" {
		return contract.InvalidArgument("keyword is required")
	}
	if _, ok := schema.ValidSearchTypes[q.SearchType]; !ok {
		return contract.InvalidArgument("unknown search type %q", q.SearchType)
	}
	if _, ok := schema.ValidSortTypes[q.SortType]; !ok {
		return contract.InvalidArgument("unknown sort type %q", q.SortType)
	}
	if q.WindowSize < 0 {
		return contract.InvalidArgument("window size cannot be negative (received %d)", q.WindowSize)
	}
	return nil
}

func validateNgramParams(n, minFrequency int) error {
	if n <= 0 {
		return contract.InvalidArgument("n must be greater than 0 (received %d)", n)
	}
	if minFrequency < 0 {
		return contract.InvalidArgument("min frequency cannot be negative (received %d)", minFrequency)
	}
	return nil
}

func validateComparisonParams(p schema.ComparisonParams) error {
	if len(p.NValues) == 0 {
		return contract.InvalidArgument("at least one n value is required")
	}
	for _, n := range p.NValues {
		if err := validateNgramParams(n, 0); err != nil {
			return err
		}
	}
	if p.StepSize <= 0 {
		return contract.InvalidArgument("step size must be greater than 0 (received %d)", p.StepSize)
	}
	if p.MaxRank <= 0 {
		return contract.InvalidArgument("max rank must be greater than 0 (received %d)", p.MaxRank)
	}
	if p.MinFreqQ < 0 || p.MinFreqK < 0 {
		return contract.InvalidArgument("min frequencies cannot be negative (received %d, %d)", p.MinFreqQ, p.MinFreqK)
	}
	return nil
}
