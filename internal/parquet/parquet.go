// Package parquet provides the row structs and writers used to export commitlens
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single recorded query run.
// This struct maps to the commitlens_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// CorpusKey is the corpus the query ran against
	CorpusKey string `parquet:"corpus_key,snappy"`

	// Operation is the engine query (kwic, ngrams, compare, authors)
	Operation string `parquet:"operation,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalResults is the number of results the query produced
	TotalResults int32 `parquet:"total_results,snappy"`

	// ConfigParams contains the JSON-encoded query parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// NgramResult is one ranked n-gram of a recorded run.
// This struct maps to the commitlens_ngram_results database table.
type NgramResult struct {
	AnalysisID int64  `parquet:"analysis_id,snappy"`
	N          int32  `parquet:"n,snappy"`
	Ngram      string `parquet:"ngram,snappy"`
	Frequency  int32  `parquet:"frequency,snappy"`
	Rank       int32  `parquet:"ngram_rank,snappy"`
}

// AuthorResult is one author profile of a recorded run.
// This struct maps to the commitlens_author_results database table.
type AuthorResult struct {
	AnalysisID       int64   `parquet:"analysis_id,snappy"`
	Author           string  `parquet:"author,snappy"`
	Email            string  `parquet:"email,snappy"`
	CommitCount      int32   `parquet:"commit_count,snappy"`
	AvgMessageLength float64 `parquet:"avg_message_length,snappy"`
	TotalChars       int64   `parquet:"total_chars,snappy"`
	CommonWords      string  `parquet:"common_words,snappy"`
}

// KwicRow is one KWIC match as written by --output parquet.
type KwicRow struct {
	Corpus          string  `parquet:"corpus,snappy"`
	Keyword         string  `parquet:"keyword,snappy"`
	Left            string  `parquet:"left,snappy"`
	Right           string  `parquet:"right,snappy"`
	Context         string  `parquet:"context,snappy"`
	CommitHash      string  `parquet:"commit_hash,snappy"`
	NextToken       *string `parquet:"next_token,optional,snappy"`
	NextPOS         *string `parquet:"next_pos,optional,snappy"`
	SortMetricLabel *string `parquet:"sort_metric_label,optional,snappy"`
	SortMetricValue *string `parquet:"sort_metric_value,optional,snappy"`
}

// NgramRow is one ranked n-gram as written by --output parquet.
type NgramRow struct {
	Corpus    string `parquet:"corpus,snappy"`
	N         int32  `parquet:"n,snappy"`
	Ngram     string `parquet:"ngram,snappy"`
	Frequency int32  `parquet:"frequency,snappy"`
	Rank      int32  `parquet:"ngram_rank,snappy"`
}

// ComparisonRow is one rank window of a comparison.
type ComparisonRow struct {
	CorpusQ      string   `parquet:"corpus_q,snappy"`
	CorpusK      string   `parquet:"corpus_k,snappy"`
	N            int32    `parquet:"n,snappy"`
	RankStart    int32    `parquet:"rank_start,snappy"`
	RankEnd      int32    `parquet:"rank_end,snappy"`
	QNgrams      []string `parquet:"q_ngrams,list"`
	KNgrams      []string `parquet:"k_ngrams,list"`
	CommonNgrams []string `parquet:"common_ngrams,list"`
	CommonCount  int32    `parquet:"common_ngrams_count,snappy"`
}

// AuthorRow is one author profile as written by --output parquet.
type AuthorRow struct {
	Corpus           string  `parquet:"corpus,snappy"`
	Author           string  `parquet:"author,snappy"`
	Email            string  `parquet:"email,snappy"`
	CommitCount      int32   `parquet:"commit_count,snappy"`
	AvgMessageLength float64 `parquet:"avg_message_length,snappy"`
	TotalChars       int64   `parquet:"total_chars,snappy"`
	CommonWords      string  `parquet:"common_words,snappy"`
}

// CorpusRow summarizes a built corpus.
type CorpusRow struct {
	Corpus            string `parquet:"corpus,snappy"`
	TotalCommits      int32  `parquet:"total_commits,snappy"`
	Authors           int32  `parquet:"authors,snappy"`
	TotalTokens       int64  `parquet:"total_tokens,snappy"`
	Repositories      string `parquet:"repositories,snappy"`
	TotalRepositories int32  `parquet:"total_repositories,snappy"`
	BuiltAt           string `parquet:"built_at,snappy"`
}

// Write encodes rows to w, with the schema derived from the struct tags of T.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](rows []T, outputPath string) (err error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { err = errors.Join(err, file.Close()) }()

	return Write(file, rows)
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:    record.AnalysisID,
			CorpusKey:     record.CorpusKey,
			Operation:     record.Operation,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalResults:  record.TotalResults,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertNgramResultRecords converts schema.NgramResultRecord to NgramResult for Parquet export.
func ConvertNgramResultRecords(records []schema.NgramResultRecord) []NgramResult {
	result := make([]NgramResult, len(records))
	for i, record := range records {
		result[i] = NgramResult(record)
	}
	return result
}

// ConvertAuthorResultRecords converts schema.AuthorResultRecord to AuthorResult for Parquet export.
func ConvertAuthorResultRecords(records []schema.AuthorResultRecord) []AuthorResult {
	result := make([]AuthorResult, len(records))
	for i, record := range records {
		result[i] = AuthorResult(record)
	}
	return result
}

// KwicRows flattens a KWIC result.
func KwicRows(r schema.KwicResult) []KwicRow {
	rows := make([]KwicRow, len(r.Results))
	for i, m := range r.Results {
		rows[i] = KwicRow{
			Corpus:          string(r.Corpus),
			Keyword:         m.Keyword,
			Left:            m.Left,
			Right:           m.Right,
			Context:         m.Context,
			CommitHash:      m.CommitHash,
			NextToken:       optional(m.NextToken),
			NextPOS:         optional(m.NextPOS),
			SortMetricLabel: optional(m.SortMetricLabel),
			SortMetricValue: optional(m.SortMetricValue),
		}
	}
	return rows
}

// NgramRows flattens an n-gram ranking.
func NgramRows(r schema.NgramResult) []NgramRow {
	rows := make([]NgramRow, len(r.Ngrams))
	for i, e := range r.Ngrams {
		rows[i] = NgramRow{
			Corpus:    string(r.Corpus),
			N:         int32(r.N),
			Ngram:     e.Ngram,
			Frequency: int32(e.Frequency),
			Rank:      int32(e.Rank),
		}
	}
	return rows
}

// ComparisonRows flattens a comparison, ordered by n then window.
func ComparisonRows(r schema.ComparisonResult) []ComparisonRow {
	ns := make([]int, 0, len(r.Steps))
	for n := range r.Steps {
		ns = append(ns, n)
	}
	slices.Sort(ns)

	var rows []ComparisonRow
	for _, n := range ns {
		for _, step := range r.Steps[n] {
			rows = append(rows, ComparisonRow{
				CorpusQ:      string(r.CorpusQ),
				CorpusK:      string(r.CorpusK),
				N:            int32(step.N),
				RankStart:    int32(step.RankStart),
				RankEnd:      int32(step.RankEnd),
				QNgrams:      step.QNgrams,
				KNgrams:      step.KNgrams,
				CommonNgrams: step.CommonNgrams,
				CommonCount:  int32(step.CommonNgramsCount),
			})
		}
	}
	return rows
}

// AuthorRows flattens an author aggregation.
func AuthorRows(r schema.AuthorResult) []AuthorRow {
	rows := make([]AuthorRow, len(r.Authors))
	for i, p := range r.Authors {
		rows[i] = AuthorRow{
			Corpus:           string(r.Corpus),
			Author:           p.Author,
			Email:            p.Email,
			CommitCount:      int32(p.CommitCount),
			AvgMessageLength: p.AvgMessageLength,
			TotalChars:       int64(p.TotalChars),
			CommonWords:      strings.Join(p.CommonWords, " "),
		}
	}
	return rows
}

// CorpusRows wraps a corpus summary as a single row.
func CorpusRows(s schema.CorpusSummary) []CorpusRow {
	return []CorpusRow{{
		Corpus:            string(s.Key),
		TotalCommits:      int32(s.TotalCommits),
		Authors:           int32(s.Authors),
		TotalTokens:       int64(s.TotalTokens),
		Repositories:      strings.Join(s.Repositories, " "),
		TotalRepositories: int32(s.TotalRepositories),
		BuiltAt:           s.BuiltAt,
	}}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
