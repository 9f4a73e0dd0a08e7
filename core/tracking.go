package core

import (
	"context"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
)

// runTracker records one query run in the analysis store. A zero value
// tracks nothing.
type runTracker struct {
	store contract.AnalysisStore
	id    int64
}

// beginRun starts tracking a query run when an analysis store is configured.
// The returned context carries the run ID.
func beginRun(ctx context.Context, mgr contract.CacheManager, key schema.CorpusKey, op schema.Operation, params map[string]any) (context.Context, runTracker) {
	if mgr == nil {
		return ctx, runTracker{}
	}
	store := mgr.GetAnalysisStore()
	if store == nil {
		return ctx, runTracker{}
	}

	id, err := store.BeginAnalysis(string(key), op, time.Now(), params)
	if err != nil {
		logTrackingError(ctx, "BeginAnalysis", key, err)
		return ctx, runTracker{}
	}
	if id <= 0 {
		return ctx, runTracker{}
	}
	return withAnalysisID(ctx, id), runTracker{store: store, id: id}
}

// active reports whether the run is being tracked.
func (rt runTracker) active() bool {
	return rt.store != nil && rt.id > 0
}

// end finalizes the run with its result count.
func (rt runTracker) end(ctx context.Context, key schema.CorpusKey, totalResults int) {
	if !rt.active() {
		return
	}
	if err := rt.store.EndAnalysis(rt.id, time.Now(), totalResults); err != nil {
		logTrackingError(ctx, "EndAnalysis", key, err)
	}
}

// recordNgrams stores the ranked n-grams of the run.
func (rt runTracker) recordNgrams(ctx context.Context, key schema.CorpusKey, n int, entries []schema.NgramEntry) {
	if !rt.active() || len(entries) == 0 {
		return
	}
	if err := rt.store.RecordNgramResults(analysisIDFromContext(ctx), n, entries); err != nil {
		logTrackingError(ctx, "RecordNgramResults", key, err)
	}
}

// recordAuthors stores the author profiles of the run.
func (rt runTracker) recordAuthors(ctx context.Context, key schema.CorpusKey, profiles []schema.AuthorProfile) {
	if !rt.active() || len(profiles) == 0 {
		return
	}
	if err := rt.store.RecordAuthorResults(analysisIDFromContext(ctx), profiles); err != nil {
		logTrackingError(ctx, "RecordAuthorResults", key, err)
	}
}

// logTrackingError logs database tracking errors without disrupting the query.
func logTrackingError(ctx context.Context, operation string, key schema.CorpusKey, err error) {
	loggerFromContext(ctx).WithError(err).WithField("corpus", key).Warnf("Analysis tracking failed for %s", operation)
}
