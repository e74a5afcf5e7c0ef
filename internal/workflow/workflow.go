// Package workflow drives the interactive sessions: commit message
// refinement, per-file change analysis, and contributor browsing. Flows
// talk to git, the generation backend, and the terminal through small
// interfaces so each loop can be tested with scripted fakes.
//
// Flows are strictly sequential. Nothing runs concurrently, nothing is
// retried automatically; the only retry is the user asking for one.
package workflow

import (
	"context"

	"github.com/gitscribe/gitscribe/internal/stats"
)

// Repository is the slice of git access the flows need.
type Repository interface {
	// Diff returns the full pending diff, or a no-changes error when the
	// working tree is clean.
	Diff(ctx context.Context) (string, error)
	// ChangedFiles lists pending paths in discovery order. Empty on a
	// clean tree, without error.
	ChangedFiles(ctx context.Context) ([]string, error)
	// FileDiff returns the pending diff for one path.
	FileDiff(ctx context.Context, path string) (string, error)
	// Contributors returns per-identity aggregates, busiest first.
	Contributors(ctx context.Context, opts stats.Options) ([]*stats.ContributorStats, error)
	// ContributorCommits lists one identity's commits as "hash subject"
	// lines, newest first.
	ContributorCommits(ctx context.Context, name, email string) ([]string, error)
	// StageAndCommit stages everything and writes one commit.
	StageAndCommit(ctx context.Context, message string) error
}

// Backend generates text. Implemented by llm.Client.
type Backend interface {
	GenerateCommitMessage(ctx context.Context, diff string) (string, error)
	ExplainChange(ctx context.Context, path, diff string) (string, error)
	AnalyzeContributor(ctx context.Context, report string) (string, error)
}

// Terminal is the interactive surface. Implemented by ui.Console.
type Terminal interface {
	// Select shows a numbered menu and returns the chosen index.
	Select(prompt string, options []string, defaultIndex int) (int, error)
	Section(title string)
	Subsection(title string)
	Println(a ...any)
	Printf(format string, a ...any)
	Markdown(text string)
	// Spin starts a progress indicator; the returned function stops it.
	Spin(message string) func()
	// Acknowledge blocks until the user presses Enter.
	Acknowledge(prompt string) error
	ClearScreen()
}

// Outcome reports how a commit session ended.
type Outcome int

const (
	// OutcomeCommitted - a commit was created
	OutcomeCommitted Outcome = iota
	// OutcomeCancelled - the user backed out; nothing was written
	OutcomeCancelled
	// OutcomeClean - there was nothing to commit in the first place
	OutcomeClean
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeClean:
		return "clean"
	default:
		return "unknown"
	}
}

// FileAnalysis pairs a changed file with the backend's explanation of it.
type FileAnalysis struct {
	Path        string
	Explanation string
}
