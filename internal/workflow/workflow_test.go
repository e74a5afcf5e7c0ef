package workflow

// Scripted fakes shared by the flow tests. Each records the calls it
// receives so tests can assert ordering and side effect counts.

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gitscribe/gitscribe/internal/stats"
)

type fakeRepo struct {
	diff         string
	diffErr      error
	changed      []string
	changedErr   error
	fileDiffs    map[string]string
	fileDiffErr  error
	contributors []*stats.ContributorStats
	commits      map[string][]string
	commitErr    error

	fileDiffCalls []string
	commitCalls   []string
}

func (r *fakeRepo) Diff(ctx context.Context) (string, error) {
	if r.diffErr != nil {
		return "", r.diffErr
	}
	return r.diff, nil
}

func (r *fakeRepo) ChangedFiles(ctx context.Context) ([]string, error) {
	return r.changed, r.changedErr
}

func (r *fakeRepo) FileDiff(ctx context.Context, path string) (string, error) {
	r.fileDiffCalls = append(r.fileDiffCalls, path)
	if r.fileDiffErr != nil {
		return "", r.fileDiffErr
	}
	return r.fileDiffs[path], nil
}

func (r *fakeRepo) Contributors(ctx context.Context, opts stats.Options) ([]*stats.ContributorStats, error) {
	return r.contributors, nil
}

func (r *fakeRepo) ContributorCommits(ctx context.Context, name, email string) ([]string, error) {
	return r.commits[name+"|"+email], nil
}

func (r *fakeRepo) StageAndCommit(ctx context.Context, message string) error {
	if r.commitErr != nil {
		return r.commitErr
	}
	r.commitCalls = append(r.commitCalls, message)
	return nil
}

type fakeBackend struct {
	messages    []string
	generateErr error
	explainErr  error
	summary     string
	summaryErr  error

	generated    int
	explainCalls []string
	analyzeCalls []string
}

func (b *fakeBackend) GenerateCommitMessage(ctx context.Context, diff string) (string, error) {
	if b.generateErr != nil {
		return "", b.generateErr
	}
	msg := b.messages[min(b.generated, len(b.messages)-1)]
	b.generated++
	return msg, nil
}

func (b *fakeBackend) ExplainChange(ctx context.Context, path, diff string) (string, error) {
	if b.explainErr != nil {
		return "", b.explainErr
	}
	b.explainCalls = append(b.explainCalls, path)
	return "explanation for " + path, nil
}

func (b *fakeBackend) AnalyzeContributor(ctx context.Context, report string) (string, error) {
	if b.summaryErr != nil {
		return "", b.summaryErr
	}
	b.analyzeCalls = append(b.analyzeCalls, report)
	if b.summary == "" {
		return "a summary", nil
	}
	return b.summary, nil
}

// scriptTerm feeds pre-programmed selections to Select and records every
// menu it was shown.
type scriptTerm struct {
	selections []int
	step       int

	out      strings.Builder
	prompts  []string
	menus    [][]string
	defaults []int
	spins    []string
	acks     int
	clears   int
}

func (t *scriptTerm) Select(prompt string, options []string, defaultIndex int) (int, error) {
	t.prompts = append(t.prompts, prompt)
	t.menus = append(t.menus, options)
	t.defaults = append(t.defaults, defaultIndex)
	if t.step >= len(t.selections) {
		return 0, io.ErrUnexpectedEOF
	}
	sel := t.selections[t.step]
	t.step++
	return sel, nil
}

func (t *scriptTerm) Section(title string)    { t.out.WriteString(title + "\n") }
func (t *scriptTerm) Subsection(title string) { t.out.WriteString(title + "\n") }

func (t *scriptTerm) Println(a ...any) {
	t.out.WriteString(fmt.Sprintln(a...))
}

func (t *scriptTerm) Printf(format string, a ...any) {
	fmt.Fprintf(&t.out, format, a...)
}

func (t *scriptTerm) Markdown(text string) {
	t.out.WriteString(text + "\n")
}

func (t *scriptTerm) Spin(message string) func() {
	t.spins = append(t.spins, message)
	return func() {}
}

func (t *scriptTerm) Acknowledge(prompt string) error {
	t.acks++
	return nil
}

func (t *scriptTerm) ClearScreen() {
	t.clears++
}
