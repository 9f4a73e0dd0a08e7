package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/internal/parquet"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintCorpusSummary outputs the summary of a built corpus.
func PrintCorpusSummary(summary schema.CorpusSummary, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return writeParquetFile(cfg.OutputFile, parquet.CorpusRows(summary))
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteCorpusSummary(w, summary, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteCorpusSummary renders a corpus summary as text, JSON or CSV.
func WriteCorpusSummary(w io.Writer, summary schema.CorpusSummary, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, summary); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		header := []string{"key", "total_commits", "authors", "total_tokens", "repositories", "total_repositories", "built_at"}
		err := writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			return cw.Write([]string{
				string(summary.Key),
				strconv.Itoa(summary.TotalCommits),
				strconv.Itoa(summary.Authors),
				strconv.Itoa(summary.TotalTokens),
				strings.Join(summary.Repositories, "|"),
				strconv.Itoa(summary.TotalRepositories),
				summary.BuiltAt,
			})
		})
		if err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeCorpusTable(w, summary, cfg, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

func writeCorpusTable(w io.Writer, summary schema.CorpusSummary, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Field", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := [][]string{
		{"Corpus", string(summary.Key)},
		{"Commits", strconv.Itoa(summary.TotalCommits)},
		{"Authors", strconv.Itoa(summary.Authors)},
		{"Tokens", strconv.Itoa(summary.TotalTokens)},
	}
	if summary.Key.IsUser() {
		repos := contract.TruncateRight(strings.Join(summary.Repositories, ", "), GetMaxListWidth(cfg, 1))
		data = append(data,
			[]string{"Repositories", fmt.Sprintf("%d of %d", len(summary.Repositories), summary.TotalRepositories)},
			[]string{"Analyzed", repos},
		)
	}
	data = append(data, []string{"Built At", summary.BuiltAt})

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Corpus ready in %v\n", duration)
	return nil
}
