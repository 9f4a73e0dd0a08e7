package outwriter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutWriter_WritesEveryResultKind(t *testing.T) {
	ow := NewOutWriter()
	dir := t.TempDir()

	tests := []struct {
		name  string
		write func(cfg *contract.Config) error
	}{
		{"kwic", func(cfg *contract.Config) error { return ow.WriteKwic(sampleKwic(), cfg, time.Second) }},
		{"ngrams", func(cfg *contract.Config) error { return ow.WriteNgrams(sampleNgrams(), cfg, time.Second) }},
		{"compare", func(cfg *contract.Config) error { return ow.WriteComparison(sampleComparison(), cfg, time.Second) }},
		{"authors", func(cfg *contract.Config) error { return ow.WriteAuthors(sampleAuthors(), cfg, time.Second) }},
		{"corpus", func(cfg *contract.Config) error { return ow.WriteCorpus(sampleSummary(), cfg, time.Second) }},
	}

	for _, tt := range tests {
		for _, mode := range []schema.OutputMode{schema.TextOut, schema.CSVOut, schema.JSONOut, schema.ParquetOut} {
			t.Run(tt.name+"/"+string(mode), func(t *testing.T) {
				path := filepath.Join(dir, tt.name+"."+string(mode))
				cfg := &contract.Config{Output: mode, OutputFile: path, Width: 120, Precision: 1}
				require.NoError(t, tt.write(cfg))

				info, err := os.Stat(path)
				require.NoError(t, err)
				assert.Positive(t, info.Size())
			})
		}
	}
}
