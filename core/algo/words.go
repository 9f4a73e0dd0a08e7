// Package algo holds the pure analytics over an annotated corpus:
// keyword-in-context search, n-gram ranking, rank-windowed corpus
// comparison and author aggregation. Nothing here does I/O.
package algo

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Andyyyy64/el331-commit-analysis/schema"
)

// contentWords returns the lower-cased surface text of every alphabetic,
// non-stopword token, in order.
func contentWords(tokens []schema.AnnotatedToken) []string {
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsAlpha && !tok.IsStop {
			words = append(words, strings.ToLower(tok.Text))
		}
	}
	return words
}

// counter tallies string occurrences and remembers the order in which
// each distinct value was first seen.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(s string) {
	if _, ok := c.counts[s]; !ok {
		c.order = append(c.order, s)
	}
	c.counts[s]++
}

// mostCommon returns distinct values by count descending. Ties keep
// first-seen order. A limit of 0 or less returns every value.
func (c *counter) mostCommon(limit int) []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	slices.SortStableFunc(out, func(a, b string) int {
		return cmp.Compare(c.counts[b], c.counts[a])
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
