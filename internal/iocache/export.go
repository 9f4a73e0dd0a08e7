package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/internal/parquet"
)

// ExecuteAnalysisExport writes every recorded run and result row to Parquet files
// named after prefix, reporting progress to w.
func ExecuteAnalysisExport(store contract.AnalysisStore, prefix string, w io.Writer) error {
	if prefix == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("analysis store is not configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total analysis runs: %d\n", status.TotalRuns)

	runs, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	ngrams, err := store.GetAllNgramResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve n-gram results: %w", err)
	}
	authors, err := store.GetAllAuthorResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve author results: %w", err)
	}

	runsFile := prefix + ".analysis_runs.parquet"
	if err := parquet.WriteFile(parquet.ConvertAnalysisRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d analysis runs to: %s\n", len(runs), runsFile)

	ngramsFile := prefix + ".ngram_results.parquet"
	if err := parquet.WriteFile(parquet.ConvertNgramResultRecords(ngrams), ngramsFile); err != nil {
		return fmt.Errorf("failed to write n-gram results: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d n-gram rows to: %s\n", len(ngrams), ngramsFile)

	authorsFile := prefix + ".author_results.parquet"
	if err := parquet.WriteFile(parquet.ConvertAuthorResultRecords(authors), authorsFile); err != nil {
		return fmt.Errorf("failed to write author results: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d author rows to: %s\n", len(authors), authorsFile)

	return nil
}
