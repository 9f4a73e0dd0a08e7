package cmd

import (
	"github.com/Andyyyy64/el331-commit-analysis/core"
	"github.com/spf13/cobra"
)

// analyzeCmd groups the corpus building commands.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fetch and annotate commit messages into a cached corpus",
	Long: `Fetch commit messages from GitHub, annotate every token and cache the result.

Every query command reads a corpus built here. Corpora are cached for
--cache-ttl (7 days by default); use --refresh to rebuild sooner.

Subcommands:
  repo - Build the corpus of one repository (key: owner/repo)
  user - Build the merged corpus of a user's repositories (key: user:name)`,
}

// analyzeRepoCmd builds a repository corpus.
var analyzeRepoCmd = &cobra.Command{
	Use:   "repo <owner>/<repo>",
	Short: "Build the corpus of one repository",
	Long: `Fetch up to --max-commits commits of a repository, newest first, and annotate them.

Examples:
  # Analyze the last 1000 commits of a repository
  commitlens analyze repo golang/go

  # Rebuild even if a cached corpus exists
  commitlens analyze repo golang/go --refresh --max-commits 300`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(_ *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, args[0], "")
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return runAnalyze()
	},
}

// analyzeUserCmd builds a user corpus.
var analyzeUserCmd = &cobra.Command{
	Use:   "user <username>",
	Short: "Build the merged corpus of a user's repositories",
	Long: `Fetch the repositories a user owns (forks and archived ones excluded) and merge
their commits into one corpus.

At most --max-repos repositories and --per-repo-commits commits per repository
are read, stopping once --max-total-commits commits are collected.

Examples:
  commitlens analyze user octocat
  commitlens analyze user octocat --max-repos 20 --per-repo-commits 50`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(_ *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, "user:"+args[0], "")
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return runAnalyze()
	},
}

func runAnalyze() error {
	fetcher, annotator, err := newCollaborators()
	if err != nil {
		return err
	}
	return core.ExecuteAnalyze(rootCtx, cfg, corpora, fetcher, annotator)
}
