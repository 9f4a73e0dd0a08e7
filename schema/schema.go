// Package schema has the models and enums shared by all parts of commitlens.
package schema

import "time"

// Commit is a single commit as fetched from the hosting service.
type Commit struct {
	Hash        string    `json:"hash"`
	Author      string    `json:"author"`
	Email       string    `json:"email"`
	RawMessage  string    `json:"message"`
	CommittedAt time.Time `json:"date"`
	Repository  string    `json:"repository,omitempty"` // Set only for user-wide corpora
}

// AnnotatedToken is one linguistic unit of a normalized commit message.
type AnnotatedToken struct {
	Text         string `json:"text"`
	Lemma        string `json:"lemma"`
	PartOfSpeech string `json:"pos"`
	FineTag      string `json:"tag"`
	IsAlpha      bool   `json:"is_alpha"`
	IsStop       bool   `json:"is_stop"`
}

// EntitySpan labels the token range [Start, End) of a commit's token sequence.
type EntitySpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

// Len returns the number of tokens covered by the span.
func (e EntitySpan) Len() int {
	return e.End - e.Start
}

// AnnotatedMessage is what an annotator produces for one piece of text.
type AnnotatedMessage struct {
	Tokens   []AnnotatedToken `json:"tokens"`
	Entities []EntitySpan     `json:"entities"`
}

// AnnotatedCommit is a commit plus its normalized message, tokens and entities.
type AnnotatedCommit struct {
	Commit
	NormalizedMessage string           `json:"processed_message"`
	Tokens            []AnnotatedToken `json:"tokens"`
	Entities          []EntitySpan     `json:"entities"`
}

// Corpus is an ordered set of annotated commits analyzed together.
type Corpus struct {
	Key               CorpusKey         `json:"key"`
	Commits           []AnnotatedCommit `json:"commits"`
	Repositories      []string          `json:"repositories,omitempty"`
	TotalRepositories int               `json:"total_repositories,omitempty"`
	BuiltAt           time.Time         `json:"built_at"`
}

// IsEmpty reports whether the corpus has no commits.
func (c *Corpus) IsEmpty() bool {
	return c == nil || len(c.Commits) == 0
}
