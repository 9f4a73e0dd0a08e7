package core

import (
	"context"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/internal/jobs"
	"github.com/Andyyyy64/el331-commit-analysis/internal/outwriter"
)

// ExecutorFunc defines the function signature for the query commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, corpora *CorpusCache) error

var output = outwriter.NewOutWriter()

// ExecuteAnalyze builds the corpus named by cfg.Corpus as a tracked job,
// waits for it and prints its summary.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, corpora *CorpusCache, fetcher contract.CommitFetcher, annotator contract.Annotator) error {
	start := time.Now()
	tracker := jobs.NewTracker(loggerFromContext(ctx))

	job := SubmitBuild(ctx, tracker, cfg.Corpus, cfg, fetcher, annotator, corpora)
	if _, err := tracker.Wait(ctx, job.ID); err != nil {
		return err
	}

	corpus, err := LoadCorpus(cfg.Corpus, cfg, corpora, tracker)
	if err != nil {
		return err
	}
	return output.WriteCorpus(corpus.Summarize(), cfg, time.Since(start))
}

// ExecuteKwic runs a KWIC search and prints the matches.
func ExecuteKwic(ctx context.Context, cfg *contract.Config, corpora *CorpusCache) error {
	start := time.Now()
	result, err := GetKwicResults(ctx, cfg, corpora, nil)
	if err != nil {
		return err
	}
	return output.WriteKwic(result, cfg, time.Since(start))
}

// ExecuteNgrams ranks n-grams and prints the ranking.
func ExecuteNgrams(ctx context.Context, cfg *contract.Config, corpora *CorpusCache) error {
	start := time.Now()
	result, err := GetNgramResults(ctx, cfg, corpora, nil)
	if err != nil {
		return err
	}
	return output.WriteNgrams(result, cfg, time.Since(start))
}

// ExecuteCompare compares two corpora and prints the rank windows.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, corpora *CorpusCache) error {
	start := time.Now()
	result, err := GetComparisonResults(ctx, cfg, corpora, nil)
	if err != nil {
		return err
	}
	return output.WriteComparison(result, cfg, time.Since(start))
}

// ExecuteAuthors aggregates authors and prints their profiles.
func ExecuteAuthors(ctx context.Context, cfg *contract.Config, corpora *CorpusCache) error {
	start := time.Now()
	result, err := GetAuthorResults(ctx, cfg, corpora, nil)
	if err != nil {
		return err
	}
	return output.WriteAuthors(result, cfg, time.Since(start))
}
