package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gitscribe/gitscribe/internal/stats"
)

// exitEntry is the sentinel appended to the contributor menu. Picking it
// is the only way to leave the browse loop.
const exitEntry = "❌ Exit"

// ContributorsFlow is the list, detail, summary browse loop.
type ContributorsFlow struct {
	repo    Repository
	backend Backend
	term    Terminal
	opts    stats.Options
	recent  int
	logger  *slog.Logger
}

// NewContributorsFlow wires a browse session. recent bounds how many
// commits the detail view prints.
func NewContributorsFlow(repo Repository, backend Backend, term Terminal, opts stats.Options, recent int) *ContributorsFlow {
	if recent <= 0 {
		recent = 5
	}
	return &ContributorsFlow{
		repo:    repo,
		backend: backend,
		term:    term,
		opts:    opts,
		recent:  recent,
		logger:  slog.Default().With("flow", "contributors", "session_id", uuid.NewString()),
	}
}

// Run lists contributors and loops detail views, one selection at a
// time, until the user picks the exit entry.
func (f *ContributorsFlow) Run(ctx context.Context) error {
	contributors, err := f.repo.Contributors(ctx, f.opts)
	if err != nil {
		return err
	}

	f.term.Section("👥 Repository Contributors")

	entries := make([]string, 0, len(contributors)+1)
	for _, c := range contributors {
		entries = append(entries, fmt.Sprintf("%s <%s> (%d commits)", c.Name, c.Email, c.CommitCount))
	}
	entries = append(entries, exitEntry)

	for {
		selection, err := f.term.Select("Select a contributor to view details", entries, 0)
		if err != nil {
			return err
		}
		if selection == len(entries)-1 {
			f.logger.Info("browse session ended")
			return nil
		}

		if err := f.showContributor(ctx, contributors[selection]); err != nil {
			return err
		}
	}
}

// showContributor renders the detail view, asks the backend for a
// narrative summary of the same report, and waits for acknowledgement.
// The report is rebuilt fresh on every viewing.
func (f *ContributorsFlow) showContributor(ctx context.Context, c *stats.ContributorStats) error {
	f.displayDetails(c)

	commits, err := f.repo.ContributorCommits(ctx, c.Name, c.Email)
	if err != nil {
		return err
	}

	f.term.Subsection("🔄 Recent Commits")
	for i, commit := range commits {
		if i >= f.recent {
			break
		}
		f.term.Println("• " + commit)
	}

	report := stats.BuildReport(c, commits, c.FilesChanged)

	stop := f.term.Spin("Analyzing contributor's work")
	summary, err := f.backend.AnalyzeContributor(ctx, report)
	stop()
	if err != nil {
		return err
	}

	f.term.Section("🤖 AI Analysis")
	f.term.Markdown(summary)

	if err := f.term.Acknowledge("Press Enter to continue..."); err != nil {
		return err
	}
	f.term.ClearScreen()
	f.logger.Debug("contributor viewed", "name", c.Name, "email", c.Email)
	return nil
}

// displayDetails prints the statistics card for one contributor.
func (f *ContributorsFlow) displayDetails(c *stats.ContributorStats) {
	f.term.Section(fmt.Sprintf("👤 Contributor Details: %s", c.Name))
	f.term.Printf("📧 Email: %s\n", c.Email)

	f.term.Subsection("📊 Statistics")
	f.term.Printf("  • Commits: %d\n", c.CommitCount)
	f.term.Printf("  • Lines added: %d\n", c.Additions)
	f.term.Printf("  • Lines deleted: %d\n", c.Deletions)
	f.term.Printf("  • Files changed: %d\n", len(c.FilesChanged))

	f.term.Subsection("📁 Most Modified Files")
	for _, fc := range c.MostModified {
		f.term.Printf("  • %s (%d modifications)\n", fc.Path, fc.Count)
	}

	f.term.Subsection("🔧 File Types")
	for _, ft := range stats.SortedFileTypes(c.FileTypes) {
		f.term.Printf("  • %s: %d files\n", ft.Path, ft.Count)
	}

	f.term.Subsection("📈 Largest Contributions")
	for _, cs := range c.LargestCommits {
		f.term.Printf("  • +%d -%d : %s\n", cs.Additions, cs.Deletions, cs.Subject)
	}
}
