package algo

import (
	"slices"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
)

// Compare ranks the n-grams of both corpora for every requested length and
// reports, window by window down the ranking, which n-grams they share.
//
// Windows are [0, step), [step, 2*step), ... up to
// min(maxRank, max(len(q), len(k))) over the filtered rankings. A step's
// RankEnd is the deepest rank either window actually holds.
func Compare(q, k []schema.AnnotatedCommit, params schema.ComparisonParams) (map[int][]schema.ComparisonStep, error) {
	if len(params.NValues) == 0 {
		return nil, contract.InvalidArgument("at least one n value is required")
	}
	if params.StepSize <= 0 {
		return nil, contract.InvalidArgument("step size must be greater than 0 (received %d)", params.StepSize)
	}
	if params.MaxRank <= 0 {
		return nil, contract.InvalidArgument("max rank must be greater than 0 (received %d)", params.MaxRank)
	}

	steps := make(map[int][]schema.ComparisonStep, len(params.NValues))
	for _, n := range params.NValues {
		rankedQ, err := RankNgrams(q, n, params.MinFreqQ)
		if err != nil {
			return nil, err
		}
		rankedK, err := RankNgrams(k, n, params.MinFreqK)
		if err != nil {
			return nil, err
		}
		steps[n] = compareRankings(n, ngramTexts(rankedQ), ngramTexts(rankedK), params.StepSize, params.MaxRank)
	}
	return steps, nil
}

func compareRankings(n int, q, k []string, step, maxRank int) []schema.ComparisonStep {
	limit := min(maxRank, max(len(q), len(k)))
	out := make([]schema.ComparisonStep, 0)
	for start := 0; start < limit; start += step {
		end := start + step
		windowQ := window(q, start, end)
		windowK := window(k, start, end)
		common := intersect(windowQ, windowK)
		out = append(out, schema.ComparisonStep{
			N:                 n,
			RankStart:         start + 1,
			RankEnd:           start + max(len(windowQ), len(windowK)),
			QNgrams:           windowQ,
			KNgrams:           windowK,
			CommonNgrams:      common,
			CommonNgramsCount: len(common),
		})
	}
	return out
}

// window returns s[start:end] clamped to the slice bounds, never nil.
func window(s []string, start, end int) []string {
	if start >= len(s) {
		return []string{}
	}
	return slices.Clone(s[start:min(end, len(s))])
}

// intersect returns the distinct values present in both slices, sorted.
func intersect(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, s := range b {
		inB[s] = struct{}{}
	}
	seen := make(map[string]struct{})
	common := make([]string, 0)
	for _, s := range a {
		if _, ok := inB[s]; !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		common = append(common, s)
	}
	slices.Sort(common)
	return common
}

func ngramTexts(entries []schema.NgramEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Ngram
	}
	return out
}
