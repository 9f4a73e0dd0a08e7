// Package outwriter renders query results as tables, CSV, JSON and Parquet.
package outwriter

import (
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteKwic prints a KWIC search using the configured output format.
func (ow *OutWriter) WriteKwic(result schema.KwicResult, cfg *contract.Config, duration time.Duration) error {
	return PrintKwicResults(result, cfg, duration)
}

// WriteNgrams prints an n-gram ranking using the configured output format.
func (ow *OutWriter) WriteNgrams(result schema.NgramResult, cfg *contract.Config, duration time.Duration) error {
	return PrintNgramResults(result, cfg, duration)
}

// WriteComparison prints a corpus comparison using the configured output format.
func (ow *OutWriter) WriteComparison(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	return PrintComparisonResults(result, cfg, duration)
}

// WriteAuthors prints an author aggregation using the configured output format.
func (ow *OutWriter) WriteAuthors(result schema.AuthorResult, cfg *contract.Config, duration time.Duration) error {
	return PrintAuthorResults(result, cfg, duration)
}

// WriteCorpus prints the summary of a built corpus using the configured output format.
func (ow *OutWriter) WriteCorpus(summary schema.CorpusSummary, cfg *contract.Config, duration time.Duration) error {
	return PrintCorpusSummary(summary, cfg, duration)
}
