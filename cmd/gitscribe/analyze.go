package main

import (
	"github.com/spf13/cobra"

	"github.com/gitscribe/gitscribe/internal/workflow"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Explain pending changes file by file",
	Long: `Walk every file with pending changes and explain what changed in each,
one file at a time. Read-only; nothing is staged or committed.`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	tk, err := newToolkit(ctx)
	if err != nil {
		return err
	}

	return workflow.NewAnalyzeFlow(tk.repo, tk.client, tk.console).Run(ctx)
}
