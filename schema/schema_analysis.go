package schema

// KwicMatch is one keyword-in-context hit.
type KwicMatch struct {
	Context    string `json:"context"`     // Left context, keyword and right context joined
	Keyword    string `json:"keyword"`     // Matched surface text (whole span for entities)
	Left       string `json:"left"`        // Tokens before the match
	Right      string `json:"right"`       // Tokens after the match
	CommitHash string `json:"commit_hash"` // First 8 characters of the commit hash
	NextToken  string `json:"next_token,omitempty"`
	NextPOS    string `json:"next_pos,omitempty"`

	// Filled in after sorting.
	SortMetricLabel string `json:"sort_metric_label,omitempty"`
	SortMetricValue string `json:"sort_metric_value,omitempty"`
}

// HasNext reports whether a token follows the match.
func (m KwicMatch) HasNext() bool {
	return m.NextToken != ""
}

// KwicQuery are the inputs of a KWIC search besides the corpus.
type KwicQuery struct {
	Keyword    string     `json:"keyword"`
	SearchType SearchType `json:"search_type"`
	WindowSize int        `json:"window_size"`
	SortType   SortType   `json:"sort_type"`
}

// KwicResult wraps a KWIC search with its query.
type KwicResult struct {
	Corpus CorpusKey `json:"corpus"`
	KwicQuery
	Results []KwicMatch `json:"results"`
	Total   int         `json:"total"`
}

// NgramEntry is one ranked n-gram.
type NgramEntry struct {
	Ngram     string `json:"ngram"`
	Frequency int    `json:"frequency"`
	Rank      int    `json:"rank"` // Position in the full ranking, before min-frequency filtering
}

// NgramResult wraps a ranking with its parameters.
type NgramResult struct {
	Corpus       CorpusKey    `json:"corpus"`
	N            int          `json:"n"`
	MinFrequency int          `json:"min_frequency"`
	Ngrams       []NgramEntry `json:"ngrams"`
	TotalNgrams  int          `json:"total_ngrams"`
}

// AuthorProfile holds the lexical statistics of one author.
type AuthorProfile struct {
	Author           string   `json:"author"`
	Email            string   `json:"email"` // First email seen for the author
	CommitCount      int      `json:"commit_count"`
	AvgMessageLength float64  `json:"avg_message_length"`
	CommonWords      []string `json:"common_words"`
	TotalChars       int      `json:"total_chars"`
}

// AuthorResult wraps the author aggregation of a corpus.
type AuthorResult struct {
	Corpus       CorpusKey       `json:"corpus"`
	Authors      []AuthorProfile `json:"authors"`
	TotalAuthors int             `json:"total_authors"`
}
