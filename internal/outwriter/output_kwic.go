package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/internal/parquet"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintKwicResults outputs a KWIC search, dispatching based on the output format configured.
func PrintKwicResults(result schema.KwicResult, cfg *contract.Config, duration time.Duration) error {
	result.Results = limitRows(result.Results, cfg.ResultLimit)
	if cfg.Output == schema.ParquetOut {
		return writeParquetFile(cfg.OutputFile, parquet.KwicRows(result))
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteKwicResults(w, result, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteKwicResults renders a KWIC search as text, JSON or CSV.
func WriteKwicResults(w io.Writer, result schema.KwicResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForKwic(w, result.Results); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeKwicTable(w, result, cfg, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

func writeCSVResultsForKwic(w io.Writer, matches []schema.KwicMatch) error {
	header := []string{
		"index",
		"left",
		"keyword",
		"right",
		"context",
		"commit_hash",
		"next_token",
		"next_pos",
		"sort_metric_label",
		"sort_metric_value",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, m := range matches {
			row := []string{
				strconv.Itoa(i + 1),
				m.Left,
				m.Keyword,
				m.Right,
				m.Context,
				m.CommitHash,
				m.NextToken,
				m.NextPOS,
				m.SortMetricLabel,
				m.SortMetricValue,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeKwicTable prints one concordance line per match with the keyword centred.
func writeKwicTable(w io.Writer, result schema.KwicResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	sorted := result.SortType != "" && result.SortType != schema.SequentialSort
	headers := []string{"#", "Left", "Keyword", "Right", "Commit"}
	var metricLabel string
	if sorted && len(result.Results) > 0 {
		metricLabel = result.Results[0].SortMetricLabel
		headers = append(headers, metricLabel)
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	keywordWidth := 0
	for _, m := range result.Results {
		keywordWidth = max(keywordWidth, len([]rune(m.Keyword)))
	}
	width := GetMaxContextWidth(cfg, keywordWidth, sorted)
	keyword := paint(contract.KeywordColor, cfg.UseColors)
	metric := paint(contract.MetricColor, cfg.UseColors)

	var data [][]string
	for i, m := range result.Results {
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateLeft(m.Left, width),
			keyword(m.Keyword),
			contract.TruncateRight(m.Right, width),
			m.CommitHash,
		}
		if metricLabel != "" {
			row = append(row, metric(m.SortMetricValue))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Showing %d of %d matches for %q in %s (search: %s, window: %d, sort: %s)\n",
		len(result.Results), result.Total, result.Keyword, result.Corpus, result.SearchType, result.WindowSize, result.SortType)
	_, _ = fmt.Fprintf(w, "Query completed in %v\n", duration)
	return nil
}
