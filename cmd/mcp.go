package cmd

import (
	"github.com/Andyyyy64/el331-commit-analysis/internal/iocache"
	"github.com/Andyyyy64/el331-commit-analysis/internal/jobs"
	"github.com/Andyyyy64/el331-commit-analysis/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Commitlens MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents build corpora and query them.

Corpus builds run in the background; agents poll job_status or pass wait=true.
Logs are written to stderr since stdout carries the protocol.`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return sharedSetup(rootCtx, "", "")
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		fetcher, annotator, err := newCollaborators()
		if err != nil {
			return err
		}
		deps := mcp.Deps{
			Fetcher:   fetcher,
			Annotator: annotator,
			Tracker:   jobs.NewTracker(logger),
		}
		return mcp.StartMCPServer(rootCtx, cfg, iocache.Manager, deps)
	},
}
