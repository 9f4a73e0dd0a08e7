package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/sirupsen/logrus"
)

// Func is the work of a job. It receives a context that outlives the
// request which submitted it.
type Func func(ctx context.Context) error

type entry struct {
	job  *Job
	err  error
	done chan struct{}
}

// Tracker runs jobs in goroutines and remembers the latest job of each corpus.
type Tracker struct {
	mu     sync.Mutex
	byID   map[string]*entry
	byKey  map[schema.CorpusKey]*entry
	logger *logrus.Logger
}

// NewTracker creates an empty Tracker.
func NewTracker(logger *logrus.Logger) *Tracker {
	return &Tracker{
		byID:   make(map[string]*entry),
		byKey:  make(map[schema.CorpusKey]*entry),
		logger: logger,
	}
}

// Submit starts fn for key unless a job for key is still queued or running,
// in which case that job is returned instead.
func (t *Tracker) Submit(ctx context.Context, key schema.CorpusKey, fn Func) Job {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.byKey[key]; ok && !e.job.IsTerminal() {
		return *e.job
	}

	e := &entry{job: newJob(key), done: make(chan struct{})}
	t.byID[e.job.ID] = e
	t.byKey[key] = e
	snapshot := *e.job

	go t.run(context.WithoutCancel(ctx), e, fn)
	return snapshot
}

func (t *Tracker) run(ctx context.Context, e *entry, fn Func) {
	defer close(e.done)

	t.mu.Lock()
	e.job.markStarted()
	log := t.logger.WithFields(logrus.Fields{"corpus": e.job.Corpus, "job": e.job.ID})
	t.mu.Unlock()

	log.Debug("Job started")
	err := safeCall(ctx, fn)

	t.mu.Lock()
	e.job.markFinished(err)
	e.err = err
	duration := e.job.Duration()
	t.mu.Unlock()

	if err != nil {
		log.WithError(err).Warn("Job failed")
		return
	}
	log.WithField("duration", duration).Info("Job completed")
}

func safeCall(ctx context.Context, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return fn(ctx)
}

// Get returns the job with the given ID.
func (t *Tracker) Get(id string) (Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.byID[id]
	if !ok {
		return Job{}, false
	}
	return *e.job, true
}

// ForCorpus returns the most recent job submitted for key.
func (t *Tracker) ForCorpus(key schema.CorpusKey) (Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.byKey[key]
	if !ok {
		return Job{}, false
	}
	return *e.job, true
}

// IsBuilding reports whether a job for key is queued or running.
func (t *Tracker) IsBuilding(key schema.CorpusKey) bool {
	job, ok := t.ForCorpus(key)
	return ok && !job.IsTerminal()
}

// Wait blocks until the job finishes or ctx is done. A failed job is
// returned together with the error its Func returned.
func (t *Tracker) Wait(ctx context.Context, id string) (Job, error) {
	t.mu.Lock()
	e, ok := t.byID[id]
	t.mu.Unlock()
	if !ok {
		return Job{}, fmt.Errorf("%w: job %s", contract.ErrNotFound, id)
	}

	select {
	case <-ctx.Done():
		return Job{}, ctx.Err()
	case <-e.done:
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return *e.job, e.err
}
