package main

import (
	"github.com/spf13/cobra"

	"github.com/gitscribe/gitscribe/internal/workflow"
)

var contributorsCmd = &cobra.Command{
	Use:   "contributors",
	Short: "Browse contributors and their statistics",
	Long: `List everyone who has committed to this repository, then drill into
per-contributor statistics and an AI-written profile. The list stays
open until you pick Exit.`,
	RunE: runContributors,
}

func runContributors(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	tk, err := newToolkit(ctx)
	if err != nil {
		return err
	}

	flow := workflow.NewContributorsFlow(tk.repo, tk.client, tk.console, reportOptions(), cfg.Report.RecentCommits)
	return flow.Run(ctx)
}
