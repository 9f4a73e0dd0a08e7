// Package annotate implements a rule-based English annotator for commit
// messages: tokenization, coarse and fine part-of-speech tags, lemmas,
// stopword flags and entity spans.
package annotate

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
)

// Annotator is a deterministic, dictionary and suffix driven tagger.
// It is safe for concurrent use once constructed.
type Annotator struct {
	stopwords map[string]struct{}
}

var _ contract.Annotator = &Annotator{}

// New returns an Annotator using the embedded English stopword list.
func New() (*Annotator, error) {
	return NewWithStopwords(stopwordData)
}

// NewWithStopwords returns an Annotator using a newline-separated stopword list.
func NewWithStopwords(data string) (*Annotator, error) {
	stopwords := parseWordList(data)
	if len(stopwords) == 0 {
		return nil, fmt.Errorf("%w: stopword list is empty", contract.ErrAnnotationUnavailable)
	}
	return &Annotator{stopwords: stopwords}, nil
}

// IsStopword reports whether the lower-cased word is in the stopword list.
func (a *Annotator) IsStopword(word string) bool {
	return has(a.stopwords, strings.ToLower(word))
}

// Annotate tokenizes and tags text. The text is expected to be normalized.
func (a *Annotator) Annotate(text string) (schema.AnnotatedMessage, error) {
	if !utf8.ValidString(text) {
		return schema.AnnotatedMessage{}, fmt.Errorf("%w: text is not valid UTF-8", contract.ErrAnnotationUnavailable)
	}

	raw := tokenize(text)
	tokens := make([]schema.AnnotatedToken, len(raw))
	for i, rt := range raw {
		pos, tag := tagToken(raw, tokens, i)
		tokens[i] = schema.AnnotatedToken{
			Text:         rt.text,
			Lemma:        lemmatize(rt.text, pos, tag),
			PartOfSpeech: pos,
			FineTag:      tag,
			IsAlpha:      isAlpha(rt.text),
			IsStop:       a.IsStopword(rt.text),
		}
	}

	return schema.AnnotatedMessage{
		Tokens:   tokens,
		Entities: findEntities(raw, tokens),
	}, nil
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isCapitalized(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func isAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 2
}

// clauseStart reports whether token i begins a clause: the first token,
// or one following sentence punctuation, a colon, or a list bullet.
func clauseStart(raw []rawToken, i int) bool {
	if i == 0 {
		return true
	}
	switch raw[i-1].text {
	case ".", "!", "?", ":", ";", "*", "-", "(":
		return true
	}
	return false
}
