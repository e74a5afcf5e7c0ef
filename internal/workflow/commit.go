package workflow

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/gitscribe/gitscribe/internal/errors"
)

// Commit menu entries, in presentation order. The indices below must
// track this slice.
var commitActions = []string{
	"✨ Regenerate message",
	"📝 Edit commit type",
	"✅ Stage and commit",
	"❌ Cancel",
}

const (
	actionRegenerate = iota
	actionEditType
	actionCommit
	actionCancel
)

// commitTypes is the edit-type menu. Each entry is "type: emoji label";
// the type token before the colon becomes the new draft type.
var commitTypes = []string{
	"feat: ✨ New feature",
	"fix: 🐛 Bug fix",
	"docs: 📚 Documentation",
	"style: 💅 Formatting",
	"refactor: ♻️ Code restructure",
	"test: 🧪 Testing",
	"chore: 🔧 Maintenance",
}

var confirmActions = []string{
	"✅ Confirm and commit",
	"🔄 Start over",
	"❌ Cancel",
}

const (
	confirmCommit = iota
	confirmRestart
	confirmCancel
)

// CommitFlow drives one commit message session from diff to commit.
type CommitFlow struct {
	repo    Repository
	backend Backend
	term    Terminal
	logger  *slog.Logger
}

// NewCommitFlow wires a commit session.
func NewCommitFlow(repo Repository, backend Backend, term Terminal) *CommitFlow {
	return &CommitFlow{
		repo:    repo,
		backend: backend,
		term:    term,
		logger:  slog.Default().With("flow", "commit", "session_id", uuid.NewString()),
	}
}

// Run executes the refinement loop until the user commits, cancels, or an
// error occurs. The diff is captured once up front; regenerations reuse
// it. The commit side effect happens at most once, only on an explicit
// confirmation.
func (f *CommitFlow) Run(ctx context.Context) (Outcome, error) {
	diff, err := f.repo.Diff(ctx)
	if err != nil {
		if errors.IsNoChanges(err) {
			f.term.Section("📝 Repository Status")
			f.term.Println("No changes to commit. Your working directory is clean.")
			f.logger.Info("nothing to commit")
			return OutcomeClean, nil
		}
		return OutcomeCancelled, err
	}

	for {
		draft, err := f.generate(ctx, diff)
		if err != nil {
			return OutcomeCancelled, err
		}

		action, err := f.term.Select("What would you like to do?", commitActions, actionCommit)
		if err != nil {
			return OutcomeCancelled, err
		}

		switch action {
		case actionRegenerate:
			f.logger.Debug("regenerating draft")
			continue

		case actionEditType:
			outcome, done, err := f.editType(ctx, draft)
			if err != nil {
				return OutcomeCancelled, err
			}
			if done {
				return outcome, nil
			}
			// Start over: loop back into a fresh generation.

		case actionCommit:
			if err := f.commit(ctx, draft.Message()); err != nil {
				return OutcomeCancelled, err
			}
			return OutcomeCommitted, nil

		default:
			f.logger.Info("session cancelled")
			return OutcomeCancelled, nil
		}
	}
}

// generate asks the backend for a fresh draft and presents it. Any prior
// draft is already forgotten by the time this runs.
func (f *CommitFlow) generate(ctx context.Context, diff string) (Draft, error) {
	stop := f.term.Spin("Generating commit message")
	message, err := f.backend.GenerateCommitMessage(ctx, diff)
	stop()
	if err != nil {
		return Draft{}, err
	}

	f.term.Section("📝 Generated Commit Message")
	f.term.Println(message)
	f.term.Println()

	return ParseDraft(message), nil
}

// editType lets the user swap the draft's type, then runs the nested
// confirmation. done=false means the user chose to start over and the
// outer loop should regenerate.
func (f *CommitFlow) editType(ctx context.Context, draft Draft) (outcome Outcome, done bool, err error) {
	typeIdx, err := f.term.Select("Select commit type", commitTypes, 0)
	if err != nil {
		return OutcomeCancelled, true, err
	}

	commitType, _, _ := strings.Cut(commitTypes[typeIdx], ":")
	edited := draft.WithType(commitType)

	f.term.Section("📝 New Commit Message")
	f.term.Println(edited.Message())
	f.term.Println()

	choice, err := f.term.Select("Would you like to proceed with this commit message?", confirmActions, confirmCommit)
	if err != nil {
		return OutcomeCancelled, true, err
	}

	switch choice {
	case confirmCommit:
		if err := f.commit(ctx, edited.Message()); err != nil {
			return OutcomeCancelled, true, err
		}
		return OutcomeCommitted, true, nil
	case confirmRestart:
		f.logger.Debug("starting over after type edit")
		return OutcomeCancelled, false, nil
	default:
		f.logger.Info("session cancelled")
		return OutcomeCancelled, true, nil
	}
}

// commit stages everything and writes the commit. Reached from exactly
// the two confirmation points.
func (f *CommitFlow) commit(ctx context.Context, message string) error {
	if err := f.repo.StageAndCommit(ctx, message); err != nil {
		return err
	}
	f.term.Println("Changes committed successfully!")
	f.logger.Info("commit created", "message", message)
	return nil
}
