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

// commonWordsShown caps the words listed per author in the text table.
const commonWordsShown = 5

// PrintAuthorResults outputs an author aggregation, dispatching based on the output format configured.
func PrintAuthorResults(result schema.AuthorResult, cfg *contract.Config, duration time.Duration) error {
	result.Authors = limitRows(result.Authors, cfg.ResultLimit)
	if cfg.Output == schema.ParquetOut {
		return writeParquetFile(cfg.OutputFile, parquet.AuthorRows(result))
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteAuthorResults(w, result, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteAuthorResults renders an author aggregation as text, JSON or CSV.
func WriteAuthorResults(w io.Writer, result schema.AuthorResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForAuthors(w, result.Authors, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeAuthorTable(w, result, cfg, fmtFloat, intFmt, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

func writeCSVResultsForAuthors(w io.Writer, profiles []schema.AuthorProfile, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"author",
		"email",
		"commit_count",
		"avg_message_length",
		"total_chars",
		"common_words",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range profiles {
			row := []string{
				p.Author,
				p.Email,
				fmt.Sprintf(intFmt, p.CommitCount),
				fmtFloat(p.AvgMessageLength),
				fmt.Sprintf(intFmt, p.TotalChars),
				strings.Join(p.CommonWords, "|"),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeAuthorTable(w io.Writer, result schema.AuthorResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Rank", "Author", "Email", "Commits", "Avg Length", "Chars", "Common Words"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	metric := paint(contract.MetricColor, cfg.UseColors)
	width := GetMaxListWidth(cfg, 3)

	var data [][]string
	for i, p := range result.Authors {
		words := p.CommonWords[:min(len(p.CommonWords), commonWordsShown)]
		data = append(data, []string{
			strconv.Itoa(i + 1),
			p.Author,
			p.Email,
			metric(fmt.Sprintf(intFmt, p.CommitCount)),
			fmtFloat(p.AvgMessageLength),
			fmt.Sprintf(intFmt, p.TotalChars),
			contract.TruncateRight(strings.Join(words, ", "), width),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Showing %d of %d authors in %s\n", len(result.Authors), result.TotalAuthors, result.Corpus)
	_, _ = fmt.Fprintf(w, "Query completed in %v\n", duration)
	return nil
}
