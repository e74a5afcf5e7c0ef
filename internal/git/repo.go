// Package git is the repository data source. Every operation shells out to
// the git binary; nothing is cached between calls.
package git

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"

	"github.com/gitscribe/gitscribe/internal/errors"
)

// Repo is a handle to a local working tree.
type Repo struct {
	dir    string
	logger *slog.Logger
}

// Open verifies dir is inside a git working tree and returns a handle rooted
// at the repository top level. An empty dir means the current directory.
func Open(ctx context.Context, dir string) (*Repo, error) {
	r := &Repo{
		dir:    dir,
		logger: slog.Default().With("component", "git"),
	}

	if _, err := r.run(ctx, "rev-parse", "--is-inside-work-tree"); err != nil {
		return nil, errors.AccessError(err, "not a git repository")
	}

	root, err := r.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, errors.AccessError(err, "failed to resolve repository root")
	}
	r.dir = strings.TrimSpace(root)

	return r, nil
}

// Root returns the repository top-level directory.
func (r *Repo) Root() string {
	return r.dir
}

// run executes git with the given arguments in the repository directory.
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %w (stderr: %s)",
				args[0], err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(output), nil
}

// hasHead reports whether the repository has any commit yet. A freshly
// initialized repository has an unborn branch and no HEAD to diff against.
func (r *Repo) hasHead(ctx context.Context) bool {
	_, err := r.run(ctx, "rev-parse", "--verify", "HEAD")
	return err == nil
}

// Branch returns the current branch name.
func (r *Repo) Branch(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", errors.AccessError(err, "failed to resolve current branch")
	}
	return strings.TrimSpace(out), nil
}

// Remote returns the origin remote URL, or empty when none is configured.
func (r *Repo) Remote(ctx context.Context) string {
	out, err := r.run(ctx, "config", "--get", "remote.origin.url")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ParseRepoURL extracts owner and repo name from a git remote URL.
// Supports HTTPS (https://host/owner/repo.git), SSH (git@host:owner/repo.git)
// and the git protocol (git://host/owner/repo.git).
func ParseRepoURL(remoteURL string) (owner, repo string, err error) {
	remoteURL = strings.TrimSuffix(remoteURL, ".git")

	for _, re := range []*regexp.Regexp{
		regexp.MustCompile(`https?://[^/]+/([^/]+)/([^/]+)`),
		regexp.MustCompile(`git@[^:]+:([^/]+)/([^/]+)`),
		regexp.MustCompile(`git://[^/]+/([^/]+)/([^/]+)`),
	} {
		if matches := re.FindStringSubmatch(remoteURL); len(matches) == 3 {
			return matches[1], matches[2], nil
		}
	}

	return "", "", fmt.Errorf("unrecognized git URL format: %s", remoteURL)
}

// porcelain returns the machine-readable status lines for the working tree.
func (r *Repo) porcelain(ctx context.Context) ([]string, error) {
	out, err := r.run(ctx, "status", "--porcelain")
	if err != nil {
		return nil, errors.AccessError(err, "failed to read repository status")
	}

	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Diff returns the full pending diff against HEAD: staged and unstaged
// edits plus a listing of untracked files, so the caller sees everything a
// later StageAndCommit would pick up. Returns ErrNoChanges when the working
// tree is clean.
func (r *Repo) Diff(ctx context.Context) (string, error) {
	status, err := r.porcelain(ctx)
	if err != nil {
		return "", err
	}
	if len(status) == 0 {
		return "", errors.NoChanges("working tree is clean")
	}

	var diff string
	if r.hasHead(ctx) {
		diff, err = r.run(ctx, "diff", "HEAD")
	} else {
		// Unborn branch: diff the index against the empty tree.
		diff, err = r.run(ctx, "diff", "--cached")
	}
	if err != nil {
		return "", errors.AccessError(err, "failed to read diff")
	}

	untracked := untrackedFrom(status)
	if len(untracked) > 0 {
		var b strings.Builder
		b.WriteString(diff)
		if diff != "" && !strings.HasSuffix(diff, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\nUntracked files (will be added on commit):\n")
		for _, path := range untracked {
			fmt.Fprintf(&b, "  %s\n", path)
		}
		diff = b.String()
	}

	return diff, nil
}

// ChangedFiles returns the distinct pending paths in status order: staged,
// unstaged and untracked alike. An empty slice means a clean tree.
func (r *Repo) ChangedFiles(ctx context.Context) ([]string, error) {
	status, err := r.porcelain(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var files []string
	for _, line := range status {
		path := pathFromStatus(line)
		if path != "" && !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	return files, nil
}

// FileDiff returns the pending diff for a single path. Staged changes win
// over unstaged ones; untracked files get a real new-file diff via
// --no-index so the caller always sees content.
func (r *Repo) FileDiff(ctx context.Context, path string) (string, error) {
	out, err := r.run(ctx, "diff", "--cached", "--", path)
	if err == nil && strings.TrimSpace(out) != "" {
		return out, nil
	}

	out, err = r.run(ctx, "diff", "--", path)
	if err != nil {
		return "", errors.AccessErrorf(err, "failed to diff %s", path)
	}
	if strings.TrimSpace(out) != "" {
		return out, nil
	}

	// Likely untracked. git diff --no-index exits 1 when the files differ,
	// which Output reports as an error even though stdout holds the diff.
	cmd := exec.CommandContext(ctx, "git", "diff", "--no-index", "--", "/dev/null", path)
	cmd.Dir = r.dir
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 && len(output) > 0 {
			return string(output), nil
		}
		return "", errors.AccessErrorf(err, "failed to diff %s", path)
	}
	return string(output), nil
}

// StageAndCommit stages every pending change and records one commit with
// the given message. This is the only mutating operation in the package.
func (r *Repo) StageAndCommit(ctx context.Context, message string) error {
	if _, err := r.run(ctx, "add", "-A"); err != nil {
		return errors.AccessError(err, "failed to stage changes")
	}

	if _, err := r.run(ctx, "commit", "-m", message); err != nil {
		return errors.AccessError(err, "failed to commit")
	}

	r.logger.Info("created commit", "message_length", len(message))
	return nil
}

// untrackedFrom extracts untracked paths from porcelain status lines.
func untrackedFrom(status []string) []string {
	var untracked []string
	for _, line := range status {
		if strings.HasPrefix(line, "?? ") {
			untracked = append(untracked, pathFromStatus(line))
		}
	}
	return untracked
}

// pathFromStatus parses one porcelain line ("XY path" or "XY old -> new")
// and returns the current path.
func pathFromStatus(line string) string {
	if len(line) < 4 {
		return ""
	}
	path := strings.TrimSpace(line[3:])
	if idx := strings.Index(path, " -> "); idx >= 0 {
		path = path[idx+4:]
	}
	return strings.Trim(path, `"`)
}
