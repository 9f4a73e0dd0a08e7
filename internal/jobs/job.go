// Package jobs tracks background corpus builds, one live job per corpus.
package jobs

import (
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/google/uuid"
)

// Job is a snapshot of one background build.
type Job struct {
	ID          string           `json:"id"`
	Corpus      schema.CorpusKey `json:"corpus"`
	Status      schema.JobStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	Error       string           `json:"error,omitempty"`
}

func newJob(key schema.CorpusKey) *Job {
	return &Job{
		ID:        uuid.New().String(),
		Corpus:    key,
		Status:    schema.JobQueued,
		CreatedAt: time.Now().UTC(),
	}
}

// IsTerminal returns true if the job finished, successfully or not.
func (j *Job) IsTerminal() bool {
	return j.Status.IsTerminal()
}

func (j *Job) markStarted() {
	now := time.Now().UTC()
	j.Status = schema.JobRunning
	j.StartedAt = &now
}

func (j *Job) markFinished(err error) {
	now := time.Now().UTC()
	j.CompletedAt = &now
	if err != nil {
		j.Status = schema.JobFailed
		j.Error = err.Error()
		return
	}
	j.Status = schema.JobCompleted
}

// Duration returns how long the job took (or has been running).
func (j *Job) Duration() time.Duration {
	if j.StartedAt == nil {
		return 0
	}
	end := time.Now().UTC()
	if j.CompletedAt != nil {
		end = *j.CompletedAt
	}
	return end.Sub(*j.StartedAt)
}
