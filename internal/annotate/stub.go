package annotate

import (
	"fmt"
	"strings"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
)

// Stub is a deterministic Annotator for tests. Texts present in Canned get
// the stored annotation; any other text is split on whitespace and each
// token is tagged X. A non-nil Err makes every call fail.
type Stub struct {
	Canned map[string]schema.AnnotatedMessage
	Err    error

	stopwords map[string]struct{}
}

var _ contract.Annotator = &Stub{}

// NewStub returns a Stub answering from canned annotations.
func NewStub(canned map[string]schema.AnnotatedMessage) *Stub {
	return &Stub{Canned: canned, stopwords: parseWordList(stopwordData)}
}

// Annotate implements contract.Annotator.
func (s *Stub) Annotate(text string) (schema.AnnotatedMessage, error) {
	if s.Err != nil {
		return schema.AnnotatedMessage{}, fmt.Errorf("%w: %w", contract.ErrAnnotationUnavailable, s.Err)
	}
	if msg, ok := s.Canned[text]; ok {
		return msg, nil
	}

	fields := strings.Fields(text)
	tokens := make([]schema.AnnotatedToken, len(fields))
	for i, f := range fields {
		lower := strings.ToLower(f)
		tokens[i] = schema.AnnotatedToken{
			Text:         f,
			Lemma:        lower,
			PartOfSpeech: posX,
			FineTag:      "XX",
			IsAlpha:      isAlpha(f),
			IsStop:       has(s.stopwords, lower),
		}
	}
	return schema.AnnotatedMessage{Tokens: tokens}, nil
}
