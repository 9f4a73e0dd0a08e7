package schema

// ComparisonStep holds one rank window of a two-corpus n-gram comparison.
type ComparisonStep struct {
	N                 int      `json:"n"`                   // N-gram length
	RankStart         int      `json:"rank_start"`          // First rank in the window (1-based)
	RankEnd           int      `json:"rank_end"`            // Last rank in the window (1-based, inclusive)
	QNgrams           []string `json:"q_ngrams"`            // Corpus Q n-grams ranked inside the window
	KNgrams           []string `json:"k_ngrams"`            // Corpus K n-grams ranked inside the window
	CommonNgrams      []string `json:"common_ngrams"`       // Intersection, lexicographically sorted
	CommonNgramsCount int      `json:"common_ngrams_count"` // len(CommonNgrams)
}

// ComparisonParams are the inputs of a comparison besides the two corpora.
type ComparisonParams struct {
	NValues  []int `json:"n_values"`
	StepSize int   `json:"step_size"`
	MaxRank  int   `json:"max_rank"`
	MinFreqQ int   `json:"min_freq_q"`
	MinFreqK int   `json:"min_freq_k"`
}

// ComparisonResult is the full comparison output for a pair of corpora.
type ComparisonResult struct {
	CorpusQ CorpusKey                `json:"corpus_q"`
	CorpusK CorpusKey                `json:"corpus_k"`
	Params  ComparisonParams         `json:"params"`
	Steps   map[int][]ComparisonStep `json:"steps"`
}

// TotalCommon returns the number of shared n-grams across all windows of length n.
func (r ComparisonResult) TotalCommon(n int) int {
	total := 0
	for _, step := range r.Steps[n] {
		total += step.CommonNgramsCount
	}
	return total
}
