package algo

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Andyyyy64/el331-commit-analysis/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateAuthorsSingleCommit(t *testing.T) {
	commits := []schema.AnnotatedCommit{commit("abc12345", "alice", "Fix the parser for a crash")}

	profiles := AggregateAuthors(commits)
	require.Len(t, profiles, 1)

	p := profiles[0]
	assert.Equal(t, "alice", p.Author)
	assert.Equal(t, "alice@example.com", p.Email)
	assert.Equal(t, 1, p.CommitCount)
	assert.Equal(t, 26, p.TotalChars)
	assert.InDelta(t, float64(p.TotalChars), p.AvgMessageLength, 1e-9)
	assert.Equal(t, []string{"fix", "parser", "crash"}, p.CommonWords)
	for _, w := range p.CommonWords {
		assert.False(t, testStopwords[w], "stopword %q in common words", w)
	}
}

func TestAggregateAuthorsOrdering(t *testing.T) {
	commits := []schema.AnnotatedCommit{
		commit("1", "bob", "add docs"),
		commit("2", "carol", "add tests"),
		commit("3", "alice", "fix bug"),
		commit("4", "carol", "fix tests"),
		commit("5", "alice", "fix lint"),
		commit("6", "dave", "bump"),
	}

	profiles := AggregateAuthors(commits)
	var names []string
	for _, p := range profiles {
		names = append(names, p.Author)
	}
	assert.Equal(t, []string{"carol", "alice", "bob", "dave"}, names)

	assert.Equal(t, []string{"tests", "add", "fix"}, profiles[0].CommonWords)
	assert.Equal(t, 2, profiles[1].CommitCount)
	assert.Equal(t, 15, profiles[1].TotalChars)
	assert.InDelta(t, 7.5, profiles[1].AvgMessageLength, 1e-9)
}

func TestAggregateAuthorsFirstEmailWins(t *testing.T) {
	first := commit("1", "alice", "fix bug")
	first.Email = "alice@work.example"
	second := commit("2", "alice", "fix docs")
	second.Email = "alice@home.example"

	profiles := AggregateAuthors([]schema.AnnotatedCommit{first, second})
	require.Len(t, profiles, 1)
	assert.Equal(t, "alice@work.example", profiles[0].Email)
}

func TestAggregateAuthorsExactNameMatch(t *testing.T) {
	profiles := AggregateAuthors([]schema.AnnotatedCommit{
		commit("1", "Alice", "fix bug"),
		commit("2", "alice", "fix bug"),
	})
	assert.Len(t, profiles, 2)
}

func TestAggregateAuthorsCommonWordsLimit(t *testing.T) {
	var words []string
	for i := range 30 {
		words = append(words, fmt.Sprintf("word%c", 'a'+rune(i%26))+strings.Repeat("x", i/26))
	}
	ac := commit("1", "alice", strings.Join(words, " "))
	for i := range ac.Tokens {
		ac.Tokens[i].IsAlpha = true
	}

	profiles := AggregateAuthors([]schema.AnnotatedCommit{ac})
	require.Len(t, profiles, 1)
	assert.Len(t, profiles[0].CommonWords, CommonWordsLimit)
	assert.Equal(t, words[:CommonWordsLimit], profiles[0].CommonWords)
}

func TestAggregateAuthorsCountsRunes(t *testing.T) {
	profiles := AggregateAuthors([]schema.AnnotatedCommit{commit("1", "kenji", "修正 bug")})
	require.Len(t, profiles, 1)
	assert.Equal(t, 6, profiles[0].TotalChars)
}

func TestAggregateAuthorsEmptyCorpus(t *testing.T) {
	profiles := AggregateAuthors(nil)
	assert.NotNil(t, profiles)
	assert.Empty(t, profiles)
}
