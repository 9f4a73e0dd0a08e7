package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/annotate"
	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/internal/jobs"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/sirupsen/logrus"
)

// progressEvery is how many annotated commits pass between progress logs.
const progressEvery = 100

// BuildStatus reports whether a corpus is being built in the background.
type BuildStatus interface {
	IsBuilding(key schema.CorpusKey) bool
}

// BuildCorpus fetches the commits of key, annotates every message and stores
// the corpus in corpora. A fresh cached corpus is returned as is unless
// cfg.Refresh is set.
func BuildCorpus(ctx context.Context, key schema.CorpusKey, cfg *contract.Config, fetcher contract.CommitFetcher, annotator contract.Annotator, corpora *CorpusCache) (*schema.Corpus, error) {
	log := loggerFromContext(ctx).WithField("corpus", key)
	ttl := cacheTTL(cfg)

	if !cfg.Refresh {
		if corpus, ok := corpora.lookup(key, ttl); ok {
			log.WithField("commits", len(corpus.Commits)).Info("Using cached corpus")
			return corpus, nil
		}
	}

	log.Info("Fetching commits")
	commits, repos, totalRepos, err := fetchCommits(ctx, key, cfg, fetcher)
	if err != nil {
		return nil, err
	}

	annotated, err := annotateCommits(ctx, commits, annotator, log)
	if err != nil {
		return nil, err
	}

	corpus := &schema.Corpus{
		Key:               key,
		Commits:           annotated,
		Repositories:      repos,
		TotalRepositories: totalRepos,
		BuiltAt:           time.Now().UTC(),
	}
	if err := corpora.put(corpus, ttl); err != nil {
		log.WithError(err).Warn("Corpus is only cached in memory")
	}
	log.WithField("commits", len(annotated)).Info("Corpus ready")
	return corpus, nil
}

// fetchCommits pulls the raw history of a repository or user corpus.
func fetchCommits(ctx context.Context, key schema.CorpusKey, cfg *contract.Config, fetcher contract.CommitFetcher) ([]schema.Commit, []string, int, error) {
	if key.IsUser() {
		uc, err := fetcher.FetchUser(ctx, key.Username(), cfg.FetchOptions())
		if err != nil {
			return nil, nil, 0, fmt.Errorf("failed to fetch commits for %s: %w", key, err)
		}
		return uc.Commits, uc.Repositories, uc.TotalRepositories, nil
	}

	owner, repo := key.OwnerRepo()
	commits, err := fetcher.FetchRepository(ctx, owner, repo, cfg.FetchOptions())
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to fetch commits for %s: %w", key, err)
	}
	return commits, nil, 0, nil
}

// annotateCommits normalizes and annotates commits in order.
func annotateCommits(ctx context.Context, commits []schema.Commit, annotator contract.Annotator, log *logrus.Entry) ([]schema.AnnotatedCommit, error) {
	annotated := make([]schema.AnnotatedCommit, 0, len(commits))
	for i, c := range commits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		normalized := annotate.Normalize(c.RawMessage)
		msg, err := annotator.Annotate(normalized)
		if err != nil {
			if !errors.Is(err, contract.ErrAnnotationUnavailable) {
				err = fmt.Errorf("%w: %w", contract.ErrAnnotationUnavailable, err)
			}
			return nil, fmt.Errorf("failed to annotate commit %s: %w", c.Hash, err)
		}

		annotated = append(annotated, schema.AnnotatedCommit{
			Commit:            c,
			NormalizedMessage: normalized,
			Tokens:            msg.Tokens,
			Entities:          msg.Entities,
		})
		if (i+1)%progressEvery == 0 {
			log.WithFields(logrus.Fields{"annotated": i + 1, "total": len(commits)}).Info("Annotating commits")
		}
	}
	return annotated, nil
}

// LoadCorpus returns the cached corpus for key. builds may be nil.
func LoadCorpus(key schema.CorpusKey, cfg *contract.Config, corpora *CorpusCache, builds BuildStatus) (*schema.Corpus, error) {
	if corpus, ok := corpora.lookup(key, cacheTTL(cfg)); ok {
		return corpus, nil
	}
	if builds != nil && builds.IsBuilding(key) {
		return nil, fmt.Errorf("%w: %s", contract.ErrCorpusBuilding, key)
	}
	return nil, fmt.Errorf("%w: %s (run analyze first)", contract.ErrCorpusNotAnalyzed, key)
}

// SubmitBuild starts BuildCorpus for key as a background job. A build that
// is already queued or running for key is returned instead.
func SubmitBuild(ctx context.Context, tracker *jobs.Tracker, key schema.CorpusKey, cfg *contract.Config, fetcher contract.CommitFetcher, annotator contract.Annotator, corpora *CorpusCache) jobs.Job {
	buildCfg := cfg.Clone()
	return tracker.Submit(ctx, key, func(ctx context.Context) error {
		_, err := BuildCorpus(ctx, key, buildCfg, fetcher, annotator, corpora)
		return err
	})
}
