package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/internal/parquet"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintComparisonResults outputs a corpus comparison, dispatching based on the output format configured.
// The limit applies to the windows rendered per n.
func PrintComparisonResults(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	result = limitSteps(result, cfg.ResultLimit)
	if cfg.Output == schema.ParquetOut {
		return writeParquetFile(cfg.OutputFile, parquet.ComparisonRows(result))
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteComparisonResults(w, result, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteComparisonResults renders a corpus comparison as text, JSON or CSV.
func WriteComparisonResults(w io.Writer, result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result.Steps); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForComparison(w, result); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeComparisonTable(w, result, cfg, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

func limitSteps(result schema.ComparisonResult, limit int) schema.ComparisonResult {
	if limit <= 0 {
		return result
	}
	steps := make(map[int][]schema.ComparisonStep, len(result.Steps))
	for n, s := range result.Steps {
		steps[n] = limitRows(s, limit)
	}
	result.Steps = steps
	return result
}

// sortedN returns the n-gram lengths of a comparison in ascending order.
func sortedN(result schema.ComparisonResult) []int {
	ns := make([]int, 0, len(result.Steps))
	for n := range result.Steps {
		ns = append(ns, n)
	}
	slices.Sort(ns)
	return ns
}

func writeCSVResultsForComparison(w io.Writer, result schema.ComparisonResult) error {
	header := []string{
		"n",
		"rank_start",
		"rank_end",
		"q_ngrams",
		"k_ngrams",
		"common_ngrams",
		"common_ngrams_count",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, n := range sortedN(result) {
			for _, s := range result.Steps[n] {
				row := []string{
					strconv.Itoa(s.N),
					strconv.Itoa(s.RankStart),
					strconv.Itoa(s.RankEnd),
					strings.Join(s.QNgrams, "|"),
					strings.Join(s.KNgrams, "|"),
					strings.Join(s.CommonNgrams, "|"),
					strconv.Itoa(s.CommonNgramsCount),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// writeComparisonTable prints one table per n-gram length, one row per rank window.
func writeComparisonTable(w io.Writer, result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	common := paint(contract.CommonColor, cfg.UseColors)
	width := GetMaxListWidth(cfg, 3)

	for _, n := range sortedN(result) {
		_, _ = fmt.Fprintf(w, "\n%d-grams: %s vs %s (common: %d)\n", n, result.CorpusQ, result.CorpusK, result.TotalCommon(n))

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Ranks", "Q", "K", "Common", "Count"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignLeft
		})

		var data [][]string
		for _, s := range result.Steps[n] {
			data = append(data, []string{
				fmt.Sprintf("%d-%d", s.RankStart, s.RankEnd),
				contract.TruncateRight(strings.Join(s.QNgrams, ", "), width),
				contract.TruncateRight(strings.Join(s.KNgrams, ", "), width),
				common(contract.TruncateRight(strings.Join(s.CommonNgrams, ", "), width)),
				strconv.Itoa(s.CommonNgramsCount),
			})
		}

		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		_ = table.Close()
	}

	p := result.Params
	_, _ = fmt.Fprintf(w, "Compared n=%v in windows of %d up to rank %d (min frequency: Q %d, K %d)\n",
		p.NValues, p.StepSize, p.MaxRank, p.MinFreqQ, p.MinFreqK)
	_, _ = fmt.Fprintf(w, "Query completed in %v\n", duration)
	return nil
}
