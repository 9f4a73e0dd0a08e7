package schema

import "time"

// AnalysisRunRecord represents a row from the commitlens_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID    int64
	CorpusKey     string
	Operation     string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalResults  int32
	ConfigParams  *string
}

// NgramResultRecord represents a row from the commitlens_ngram_results table.
type NgramResultRecord struct {
	AnalysisID int64
	N          int32
	Ngram      string
	Frequency  int32
	Rank       int32
}

// AuthorResultRecord represents a row from the commitlens_author_results table.
type AuthorResultRecord struct {
	AnalysisID       int64
	Author           string
	Email            string
	CommitCount      int32
	AvgMessageLength float64
	TotalChars       int64
	CommonWords      string // Space-separated, most frequent first
}
