package algo

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
)

// Labels attached to KWIC results after sorting.
const (
	SequenceLabel     = "Sequence"
	NextTokenLabel    = "Next Token"
	NextPOSLabel      = "Next POS"
	NextTokenPOSLabel = "Next Token/POS"

	endOfMessage = "(end of message)"
	noValue      = "(none)"
)

// hashPrefixLen is how much of a commit hash a KWIC result keeps.
const hashPrefixLen = 8

// Search finds every occurrence of the query keyword in the commits and
// returns one KwicMatch per occurrence, ordered by the query's sort type.
// Discovery order is commit-major, then left to right within a commit.
func Search(commits []schema.AnnotatedCommit, q schema.KwicQuery) ([]schema.KwicMatch, error) {
	if strings.TrimSpace(q.Keyword) == "" {
		return nil, contract.InvalidArgument("keyword is required")
	}
	if _, ok := schema.ValidSearchTypes[q.SearchType]; !ok {
		return nil, contract.InvalidArgument("unknown search type %q", q.SearchType)
	}
	if _, ok := schema.ValidSortTypes[q.SortType]; !ok {
		return nil, contract.InvalidArgument("unknown sort type %q", q.SortType)
	}
	if q.WindowSize < 0 {
		return nil, contract.InvalidArgument("window size cannot be negative (received %d)", q.WindowSize)
	}

	var results []schema.KwicMatch
	for _, ac := range commits {
		for _, span := range findAnchors(ac, q) {
			results = append(results, buildMatch(ac, span, q.WindowSize))
		}
	}

	sortMatches(results, q.SortType)
	return results, nil
}

// anchor is a matched token range [start, start+length).
type anchor struct {
	start  int
	length int
}

// findAnchors returns the matched ranges of one commit in left-to-right order.
func findAnchors(ac schema.AnnotatedCommit, q schema.KwicQuery) []anchor {
	var anchors []anchor
	switch q.SearchType {
	case schema.TokenSearch:
		for i, tok := range ac.Tokens {
			if strings.EqualFold(tok.Text, q.Keyword) {
				anchors = append(anchors, anchor{start: i, length: 1})
			}
		}
	case schema.PartOfSpeechSearch:
		want := strings.ToUpper(q.Keyword)
		for i, tok := range ac.Tokens {
			if tok.PartOfSpeech == want {
				anchors = append(anchors, anchor{start: i, length: 1})
			}
		}
	case schema.EntitySearch:
		want := strings.ToUpper(q.Keyword)
		for _, ent := range ac.Entities {
			if ent.Label != want || ent.Start < 0 || ent.Start >= len(ac.Tokens) || ent.Len() <= 0 {
				continue
			}
			end := min(ent.End, len(ac.Tokens))
			anchors = append(anchors, anchor{start: ent.Start, length: end - ent.Start})
		}
	}
	return anchors
}

// buildMatch cuts the context window around one anchor.
func buildMatch(ac schema.AnnotatedCommit, a anchor, window int) schema.KwicMatch {
	tokens := ac.Tokens
	matchEnd := a.start + a.length
	leftStart := max(0, a.start-window)
	rightEnd := min(len(tokens), matchEnd+window)

	m := schema.KwicMatch{
		Context:    joinText(tokens[leftStart:rightEnd]),
		Keyword:    joinText(tokens[a.start:matchEnd]),
		Left:       joinText(tokens[leftStart:a.start]),
		Right:      joinText(tokens[matchEnd:rightEnd]),
		CommitHash: truncateHash(ac.Hash),
	}
	if matchEnd < len(tokens) {
		next := tokens[matchEnd]
		m.NextToken = strings.ToLower(next.Text)
		m.NextPOS = next.PartOfSpeech
	}
	return m
}

func joinText(tokens []schema.AnnotatedToken) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.Text
	}
	return strings.Join(parts, " ")
}

func truncateHash(hash string) string {
	if len(hash) > hashPrefixLen {
		return hash[:hashPrefixLen]
	}
	return hash
}

// comboKey is the grouping key of the token/POS combination sort.
// An absent part is the empty string.
type comboKey struct {
	token string
	pos   string
}

// sortMatches reorders results in place and fills in the sort metric fields.
// Frequencies are counted once over the whole result set before sorting.
func sortMatches(results []schema.KwicMatch, sortType schema.SortType) {
	switch sortType {
	case schema.SequentialSort:
		for i := range results {
			results[i].SortMetricLabel = SequenceLabel
			results[i].SortMetricValue = strconv.Itoa(i + 1)
		}

	case schema.NextTokenFrequencySort:
		counts := make(map[string]int)
		for _, m := range results {
			if m.NextToken != "" {
				counts[m.NextToken]++
			}
		}
		stableByFrequency(results, func(m schema.KwicMatch) int { return counts[m.NextToken] })
		for i := range results {
			m := &results[i]
			m.SortMetricLabel = NextTokenLabel
			m.SortMetricValue = metricValue(m.NextToken, counts[m.NextToken])
		}

	case schema.NextPOSFrequencySort:
		counts := make(map[string]int)
		for _, m := range results {
			if m.NextPOS != "" {
				counts[m.NextPOS]++
			}
		}
		stableByFrequency(results, func(m schema.KwicMatch) int { return counts[m.NextPOS] })
		for i := range results {
			m := &results[i]
			m.SortMetricLabel = NextPOSLabel
			m.SortMetricValue = metricValue(m.NextPOS, counts[m.NextPOS])
		}

	case schema.NextTokenPOSCombinationSort:
		counts := make(map[comboKey]int)
		for _, m := range results {
			if k := keyOf(m); k != (comboKey{}) {
				counts[k]++
			}
		}
		stableByFrequency(results, func(m schema.KwicMatch) int { return counts[keyOf(m)] })
		for i := range results {
			m := &results[i]
			k := keyOf(*m)
			m.SortMetricLabel = NextTokenPOSLabel
			if k == (comboKey{}) {
				m.SortMetricValue = metricValue("", 0)
				continue
			}
			m.SortMetricValue = metricValue(orNone(k.token)+"/"+orNone(k.pos), counts[k])
		}
	}
}

func keyOf(m schema.KwicMatch) comboKey {
	return comboKey{token: m.NextToken, pos: m.NextPOS}
}

// stableByFrequency sorts by descending frequency, keeping discovery order for ties.
func stableByFrequency(results []schema.KwicMatch, freq func(schema.KwicMatch) int) {
	slices.SortStableFunc(results, func(a, b schema.KwicMatch) int {
		return cmp.Compare(freq(b), freq(a))
	})
}

// metricValue renders "value (count)"; an absent value is the end of the message.
func metricValue(value string, count int) string {
	if value == "" {
		return fmt.Sprintf("%s (%d)", endOfMessage, 0)
	}
	return fmt.Sprintf("%s (%d)", value, count)
}

func orNone(s string) string {
	if s == "" {
		return noValue
	}
	return s
}
