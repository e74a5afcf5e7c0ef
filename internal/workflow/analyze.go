package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gitscribe/gitscribe/internal/errors"
)

// AnalyzeFlow explains the pending changes one file at a time.
type AnalyzeFlow struct {
	repo    Repository
	backend Backend
	term    Terminal
	logger  *slog.Logger
}

// NewAnalyzeFlow wires a file analysis session.
func NewAnalyzeFlow(repo Repository, backend Backend, term Terminal) *AnalyzeFlow {
	return &AnalyzeFlow{
		repo:    repo,
		backend: backend,
		term:    term,
		logger:  slog.Default().With("flow", "analyze", "session_id", uuid.NewString()),
	}
}

// Run analyzes every changed file in sequence and renders one markdown
// block per file. A clean tree is a notice, not an error.
func (f *AnalyzeFlow) Run(ctx context.Context) error {
	stop := f.term.Spin("Analyzing changes")
	analyses, err := f.analyzeChanges(ctx)
	stop()

	if err != nil {
		if errors.IsNoChanges(err) {
			f.term.Section("📊 Repository Status")
			f.term.Println("No changes to analyze. Your working directory is clean.")
			f.logger.Info("nothing to analyze")
			return nil
		}
		return err
	}

	f.term.Section("📊 File Analysis Results")
	for _, analysis := range analyses {
		f.term.Markdown(fmt.Sprintf("## 📁 %s\n%s", analysis.Path, analysis.Explanation))
	}
	return nil
}

// analyzeChanges walks the changed files strictly in order, one backend
// request per file. The first failure aborts the rest.
func (f *AnalyzeFlow) analyzeChanges(ctx context.Context) ([]FileAnalysis, error) {
	files, err := f.repo.ChangedFiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.ErrNoChanges
	}

	analyses := make([]FileAnalysis, 0, len(files))
	for _, path := range files {
		diff, err := f.repo.FileDiff(ctx, path)
		if err != nil {
			return nil, err
		}

		explanation, err := f.backend.ExplainChange(ctx, path, diff)
		if err != nil {
			return nil, err
		}

		f.logger.Debug("file analyzed", "path", path)
		analyses = append(analyses, FileAnalysis{Path: path, Explanation: explanation})
	}
	return analyses, nil
}
