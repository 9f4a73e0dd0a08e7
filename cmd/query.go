package cmd

import (
	"github.com/Andyyyy64/el331-commit-analysis/core"
	"github.com/spf13/cobra"
)

// singleCorpusSetup runs sharedSetup with the first positional argument as the corpus key.
func singleCorpusSetup(_ *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, args[0], "")
}

// runExecutor adapts a core executor to a cobra RunE.
func runExecutor(fn core.ExecutorFunc) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		return fn(rootCtx, cfg, corpora)
	}
}

// kwicCmd searches an analyzed corpus.
var kwicCmd = &cobra.Command{
	Use:   "kwic <corpus>",
	Short: "Search commit messages for a keyword in context",
	Long: `Find every occurrence of a keyword and show the tokens around it.

The keyword is matched against token text (case-insensitive), part-of-speech tags
or entity labels depending on --search-type. Matches can be ordered by how often
the following token or POS tag occurs among all matches.

Examples:
  # Show where "fix" is used
  commitlens kwic golang/go --keyword fix

  # Every proper noun, grouped by what follows it
  commitlens kwic golang/go --search-type part_of_speech --keyword PROPN --sort next_token_frequency

  # Issue references in a user's history
  commitlens kwic user:octocat --search-type entity --keyword ISSUE --window 3`,
	Args:    cobra.ExactArgs(1),
	PreRunE: singleCorpusSetup,
	RunE:    runExecutor(core.ExecuteKwic),
}

// ngramsCmd ranks n-grams of an analyzed corpus.
var ngramsCmd = &cobra.Command{
	Use:   "ngrams <corpus>",
	Short: "Rank the most frequent n-grams of content words",
	Long: `Count the n-grams of lowercased content words (stopwords, numbers and
punctuation removed) and rank them by frequency.

Examples:
  commitlens ngrams golang/go
  commitlens ngrams golang/go --n 3 --min-frequency 5 --limit 20`,
	Args:    cobra.ExactArgs(1),
	PreRunE: singleCorpusSetup,
	RunE:    runExecutor(core.ExecuteNgrams),
}

// compareCmd compares the n-gram rankings of two corpora.
var compareCmd = &cobra.Command{
	Use:   "compare <corpusQ> <corpusK>",
	Short: "Compare the n-gram rankings of two corpora",
	Long: `Walk both n-gram rankings in windows of --step ranks, up to --max-rank, and
report the n-grams the two corpora share in each window.

Examples:
  # How similar are two projects' commit vocabularies?
  commitlens compare golang/go rust-lang/rust

  # Bigrams only, in windows of 5
  commitlens compare user:alice user:bob --n-values 2 --step 5`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(_ *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, args[0], args[1])
	},
	RunE: runExecutor(core.ExecuteCompare),
}

// authorsCmd profiles the authors of an analyzed corpus.
var authorsCmd = &cobra.Command{
	Use:   "authors <corpus>",
	Short: "Profile the commit authors of a corpus",
	Long: `Group commits by author and report each author's commit count, email and
first and last commit dates, most active authors first.

Examples:
  commitlens authors golang/go --limit 10
  commitlens authors golang/go --output csv --output-file authors.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: singleCorpusSetup,
	RunE:    runExecutor(core.ExecuteAuthors),
}
