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

// PrintNgramResults outputs an n-gram ranking, dispatching based on the output format configured.
func PrintNgramResults(result schema.NgramResult, cfg *contract.Config, duration time.Duration) error {
	result.Ngrams = limitRows(result.Ngrams, cfg.ResultLimit)
	if cfg.Output == schema.ParquetOut {
		return writeParquetFile(cfg.OutputFile, parquet.NgramRows(result))
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteNgramResults(w, result, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteNgramResults renders an n-gram ranking as text, JSON or CSV.
func WriteNgramResults(w io.Writer, result schema.NgramResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForNgrams(w, result); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeNgramTable(w, result, cfg, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

func writeCSVResultsForNgrams(w io.Writer, result schema.NgramResult) error {
	header := []string{"rank", "ngram", "frequency", "n"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range result.Ngrams {
			row := []string{
				strconv.Itoa(e.Rank),
				e.Ngram,
				strconv.Itoa(e.Frequency),
				strconv.Itoa(result.N),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeNgramTable(w io.Writer, result schema.NgramResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Rank", "N-gram", "Frequency"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	metric := paint(contract.MetricColor, cfg.UseColors)
	width := GetMaxListWidth(cfg, 1)

	var data [][]string
	for _, e := range result.Ngrams {
		data = append(data, []string{
			strconv.Itoa(e.Rank),
			contract.TruncateRight(e.Ngram, width),
			metric(strconv.Itoa(e.Frequency)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Showing %d of %d %d-grams in %s (min frequency: %d)\n",
		len(result.Ngrams), result.TotalNgrams, result.N, result.Corpus, result.MinFrequency)
	_, _ = fmt.Fprintf(w, "Query completed in %v\n", duration)
	return nil
}
