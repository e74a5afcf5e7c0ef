package main

import (
	"github.com/spf13/cobra"

	"github.com/gitscribe/gitscribe/internal/workflow"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Generate a commit message and commit interactively",
	Long: `Generate a commit message from your pending changes, then refine it:
regenerate, change the commit type, commit, or cancel. Nothing is staged
or committed until you explicitly confirm.`,
	RunE: runCommit,
}

func runCommit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	tk, err := newToolkit(ctx)
	if err != nil {
		return err
	}

	outcome, err := workflow.NewCommitFlow(tk.repo, tk.client, tk.console).Run(ctx)
	if err != nil {
		return err
	}

	logger.WithField("outcome", outcome.String()).Debug("Commit session finished")
	return nil
}
