// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/schema"
)

// FetchOptions bounds how much commit history a fetch may pull.
type FetchOptions struct {
	MaxCommits      int // Cap for a single-repository corpus
	MaxRepos        int // Cap on repositories considered for a user corpus
	PerRepoCommits  int // Cap per repository for a user corpus
	MaxTotalCommits int // Cap after merging a user corpus
	Workers         int // Repositories fetched concurrently
}

// UserCommits is the merged commit history of a user's repositories.
type UserCommits struct {
	Commits           []schema.Commit
	Repositories      []string // Repositories that contributed at least one commit
	TotalRepositories int      // Repositories considered before per-repo fetches
}

// CommitFetcher retrieves commit history from the hosting service.
// This allows corpus building to be tested without network access.
type CommitFetcher interface {
	// FetchRepository returns the commits of one repository, newest first.
	FetchRepository(ctx context.Context, owner, repo string, opts FetchOptions) ([]schema.Commit, error)

	// FetchUser returns the merged commits of a user's repositories, newest first.
	FetchUser(ctx context.Context, username string, opts FetchOptions) (UserCommits, error)
}

// Annotator turns normalized text into tokens and entity spans.
// Implementations must be deterministic for identical input.
type Annotator interface {
	Annotate(text string) (schema.AnnotatedMessage, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetCorpusStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(key string) error
	List() ([]schema.CacheEntry, error)
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking query runs and storing their results.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(corpusKey string, op schema.Operation, startTime time.Time, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalResults int) error

	// RecordNgramResults stores the ranked n-grams of a run
	RecordNgramResults(analysisID int64, n int, entries []schema.NgramEntry) error

	// RecordAuthorResults stores the author profiles of a run
	RecordAuthorResults(analysisID int64, profiles []schema.AuthorProfile) error

	// GetAllAnalysisRuns returns every recorded run in ID order
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllNgramResults returns every recorded n-gram row
	GetAllNgramResults() ([]schema.NgramResultRecord, error)

	// GetAllAuthorResults returns every recorded author row
	GetAllAuthorResults() ([]schema.AuthorResultRecord, error)

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// Close closes the underlying connection
	Close() error
}
