package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleComparison() schema.ComparisonResult {
	return schema.ComparisonResult{
		CorpusQ: "octo/a",
		CorpusK: "octo/b",
		Params:  schema.ComparisonParams{NValues: []int{1, 2}, StepSize: 2, MaxRank: 4, MinFreqQ: 1, MinFreqK: 1},
		Steps: map[int][]schema.ComparisonStep{
			2: {
				{N: 2, RankStart: 1, RankEnd: 2, QNgrams: []string{"fix bug"}, KNgrams: []string{"add test"}, CommonNgrams: []string{}, CommonNgramsCount: 0},
			},
			1: {
				{N: 1, RankStart: 1, RankEnd: 2, QNgrams: []string{"fix", "bug"}, KNgrams: []string{"bug", "fix"}, CommonNgrams: []string{"bug", "fix"}, CommonNgramsCount: 2},
				{N: 1, RankStart: 3, RankEnd: 4, QNgrams: []string{"test"}, KNgrams: []string{"docs"}, CommonNgrams: []string{}, CommonNgramsCount: 0},
			},
		},
	}
}

func TestWriteComparisonResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteComparisonResults(&buf, sampleComparison(), &contract.Config{Output: schema.JSONOut}, time.Second))

	var got map[string][]schema.ComparisonStep
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	require.Len(t, got["1"], 2)
	assert.Equal(t, 2, got["1"][0].CommonNgramsCount)
	assert.Equal(t, []string{"bug", "fix"}, got["1"][0].CommonNgrams)
}

func TestWriteComparisonResults_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteComparisonResults(&buf, sampleComparison(), &contract.Config{Output: schema.CSVOut}, time.Second))

	assert.Equal(t, []string{
		"n,rank_start,rank_end,q_ngrams,k_ngrams,common_ngrams,common_ngrams_count",
		"1,1,2,fix|bug,bug|fix,bug|fix,2",
		"1,3,4,test,docs,,0",
		"2,1,2,fix bug,add test,,0",
	}, lines(buf.String()))
}

func TestWriteComparisonResults_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteComparisonResults(&buf, sampleComparison(), &contract.Config{Width: 160}, time.Second))

	out := buf.String()
	assert.Contains(t, out, "1-grams: octo/a vs octo/b (common: 2)")
	assert.Contains(t, out, "2-grams: octo/a vs octo/b (common: 0)")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("1-grams")), bytes.Index(buf.Bytes(), []byte("2-grams")))
	assert.Contains(t, out, "3-4")
	assert.Contains(t, out, "bug, fix")
	assert.Contains(t, out, "Compared n=[1 2] in windows of 2 up to rank 4 (min frequency: Q 1, K 1)")
}

func TestLimitSteps(t *testing.T) {
	original := sampleComparison()
	limited := limitSteps(original, 1)
	assert.Len(t, limited.Steps[1], 1)
	assert.Len(t, limited.Steps[2], 1)
	assert.Len(t, original.Steps[1], 2, "the caller's map is left untouched")

	assert.Len(t, limitSteps(original, 0).Steps[1], 2)
}

func TestPrintComparisonResults_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compare.csv")
	cfg := &contract.Config{Output: schema.CSVOut, OutputFile: path}
	require.NoError(t, PrintComparisonResults(sampleComparison(), cfg, time.Second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, lines(string(data)), 4)
}
