package workflow

import (
	"context"
	"strings"
	"testing"

	"github.com/gitscribe/gitscribe/internal/errors"
)

func TestAnalyzeFlow_CleanTree(t *testing.T) {
	repo := &fakeRepo{changed: nil}
	backend := &fakeBackend{}
	term := &scriptTerm{}

	if err := NewAnalyzeFlow(repo, backend, term).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(backend.explainCalls) != 0 {
		t.Errorf("Clean tree must not hit the backend, got %v", backend.explainCalls)
	}
	if !strings.Contains(term.out.String(), "No changes to analyze") {
		t.Error("Expected the clean-tree notice")
	}
}

func TestAnalyzeFlow_WalksFilesInOrder(t *testing.T) {
	repo := &fakeRepo{
		changed: []string{"internal/git/log.go", "cmd/main.go", "README.md"},
		fileDiffs: map[string]string{
			"internal/git/log.go": "+log change",
			"cmd/main.go":         "+main change",
			"README.md":           "+doc change",
		},
	}
	backend := &fakeBackend{}
	term := &scriptTerm{}

	if err := NewAnalyzeFlow(repo, backend, term).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"internal/git/log.go", "cmd/main.go", "README.md"}
	if len(backend.explainCalls) != len(want) {
		t.Fatalf("Expected %d explanations, got %d", len(want), len(backend.explainCalls))
	}
	for i, path := range want {
		if backend.explainCalls[i] != path {
			t.Errorf("Call %d = %q, want %q (strict file order)", i, backend.explainCalls[i], path)
		}
	}

	rendered := term.out.String()
	for _, path := range want {
		if !strings.Contains(rendered, "## 📁 "+path) {
			t.Errorf("Expected a markdown block for %s", path)
		}
	}
	if !strings.Contains(rendered, "📊 File Analysis Results") {
		t.Error("Expected the results section header")
	}
}

func TestAnalyzeFlow_BackendErrorAborts(t *testing.T) {
	repo := &fakeRepo{
		changed:   []string{"a.go", "b.go"},
		fileDiffs: map[string]string{"a.go": "+x", "b.go": "+y"},
	}
	backend := &fakeBackend{explainErr: errors.New(errors.KindBackend, "model unavailable")}
	term := &scriptTerm{}

	err := NewAnalyzeFlow(repo, backend, term).Run(context.Background())
	if err == nil {
		t.Fatal("Expected the backend error to surface")
	}
	if !errors.IsBackend(err) {
		t.Errorf("Expected a backend error, got %v", err)
	}
	// Only the first file was attempted; no partial results rendered.
	if len(repo.fileDiffCalls) != 1 {
		t.Errorf("Expected the walk to stop at the first failure, diffed %v", repo.fileDiffCalls)
	}
	if strings.Contains(term.out.String(), "File Analysis Results") {
		t.Error("No results section should render after a failure")
	}
}

func TestAnalyzeFlow_RepoErrorAborts(t *testing.T) {
	repo := &fakeRepo{changedErr: errors.New(errors.KindAccess, "not a repository")}
	backend := &fakeBackend{}
	term := &scriptTerm{}

	err := NewAnalyzeFlow(repo, backend, term).Run(context.Background())
	if err == nil {
		t.Fatal("Expected the repository error to surface")
	}
	if !errors.IsAccess(err) {
		t.Errorf("Expected an access error, got %v", err)
	}
	if len(backend.explainCalls) != 0 {
		t.Error("No backend calls should happen when listing files fails")
	}
}

func TestAnalyzeFlow_SpinnerWrapsWholeRun(t *testing.T) {
	repo := &fakeRepo{
		changed:   []string{"a.go"},
		fileDiffs: map[string]string{"a.go": "+x"},
	}
	backend := &fakeBackend{}
	term := &scriptTerm{}

	if err := NewAnalyzeFlow(repo, backend, term).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(term.spins) != 1 || term.spins[0] != "Analyzing changes" {
		t.Errorf("Expected one spinner around the analysis, got %v", term.spins)
	}
}
