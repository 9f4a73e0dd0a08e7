package algo

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Andyyyy64/el331-commit-analysis/schema"
)

var testStopwords = map[string]bool{
	"the": true, "a": true, "in": true, "of": true, "to": true, "and": true, "for": true, "is": true,
}

// tok builds a token from "text/POS"; a bare "text" gets POS "X".
func tok(spec string) schema.AnnotatedToken {
	text, pos, ok := strings.Cut(spec, "/")
	if !ok || text == "" {
		text, pos = spec, "X"
	}
	alpha := text != ""
	for _, r := range text {
		if !unicode.IsLetter(r) {
			alpha = false
			break
		}
	}
	return schema.AnnotatedToken{
		Text:         text,
		Lemma:        strings.ToLower(text),
		PartOfSpeech: pos,
		IsAlpha:      alpha,
		IsStop:       testStopwords[strings.ToLower(text)],
	}
}

// commit builds an annotated commit whose tokens are the space-separated specs of msg.
func commit(hash, author, msg string) schema.AnnotatedCommit {
	var tokens []schema.AnnotatedToken
	var words []string
	for _, spec := range strings.Fields(msg) {
		t := tok(spec)
		tokens = append(tokens, t)
		words = append(words, t.Text)
	}
	raw := strings.Join(words, " ")
	return schema.AnnotatedCommit{
		Commit: schema.Commit{
			Hash:       hash,
			Author:     author,
			Email:      strings.ToLower(author) + "@example.com",
			RawMessage: raw,
		},
		NormalizedMessage: raw,
		Tokens:            tokens,
	}
}

// plain builds commits from whitespace-separated messages; commit i has a hash starting "0i".
func plain(messages ...string) []schema.AnnotatedCommit {
	out := make([]schema.AnnotatedCommit, len(messages))
	for i, msg := range messages {
		out[i] = commit(fmt.Sprintf("%02dabcdef0123", i), "dev", msg)
	}
	return out
}
