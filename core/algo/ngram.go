package algo

import (
	"strings"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
)

// RankNgrams counts every contiguous run of n content words across the
// commits and ranks the distinct n-grams by frequency.
//
// Ranks are assigned over the full ranking before entries below
// minFrequency are dropped, so surviving ranks keep their global standing
// and may have gaps. Ties keep first-seen order.
func RankNgrams(commits []schema.AnnotatedCommit, n, minFrequency int) ([]schema.NgramEntry, error) {
	if n <= 0 {
		return nil, contract.InvalidArgument("n must be greater than 0 (received %d)", n)
	}
	if minFrequency < 0 {
		return nil, contract.InvalidArgument("min frequency cannot be negative (received %d)", minFrequency)
	}

	c := newCounter()
	for _, ac := range commits {
		words := contentWords(ac.Tokens)
		for i := 0; i+n <= len(words); i++ {
			c.add(strings.Join(words[i:i+n], " "))
		}
	}

	entries := make([]schema.NgramEntry, 0)
	for i, ngram := range c.mostCommon(0) {
		freq := c.counts[ngram]
		if freq < minFrequency {
			continue
		}
		entries = append(entries, schema.NgramEntry{Ngram: ngram, Frequency: freq, Rank: i + 1})
	}
	return entries, nil
}
