package git

import (
	"context"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/gitscribe/gitscribe/internal/errors"
	"github.com/gitscribe/gitscribe/internal/stats"
)

// fieldSep separates pretty-format fields. The unit separator cannot appear
// in author names, emails or subjects, unlike tabs or pipes.
const fieldSep = "\x1f"

// Log walks the full history and returns every commit with its numstat
// line counts, newest first. A repository with no commits yet yields an
// empty slice, not an error.
func (r *Repo) Log(ctx context.Context) ([]stats.Commit, error) {
	if !r.hasHead(ctx) {
		return nil, nil
	}

	format := "--pretty=format:%H" + fieldSep + "%an" + fieldSep + "%ae" + fieldSep + "%s"
	out, err := r.run(ctx, "log", format, "--numstat")
	if err != nil {
		return nil, errors.AccessError(err, "failed to read history")
	}

	return parseLog(out), nil
}

// parseLog turns `git log --pretty --numstat` output into commits. Each
// commit starts with one separator-delimited header line; the numstat lines
// that follow belong to it. Merge commits show no numstat lines by default
// and come through with empty file lists.
func parseLog(out string) []stats.Commit {
	var commits []stats.Commit
	var current *stats.Commit

	flush := func() {
		if current != nil {
			commits = append(commits, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, fieldSep) {
			flush()
			parts := strings.SplitN(line, fieldSep, 4)
			if len(parts) != 4 {
				continue
			}
			current = &stats.Commit{
				Hash:    parts[0],
				Name:    parts[1],
				Email:   parts[2],
				Subject: parts[3],
			}
			continue
		}

		if current == nil {
			continue
		}

		cols := strings.SplitN(line, "\t", 3)
		if len(cols) != 3 {
			continue
		}

		add := parseNumstat(cols[0])
		del := parseNumstat(cols[1])
		current.Additions += add
		current.Deletions += del
		current.Files = append(current.Files, stats.FileChange{
			Path:      resolveRenamePath(cols[2]),
			Additions: add,
			Deletions: del,
		})
	}
	flush()

	return commits
}

// parseNumstat converts one numstat count column. Binary files show "-",
// which counts as zero lines.
func parseNumstat(col string) int {
	n, err := strconv.Atoi(strings.TrimSpace(col))
	if err != nil {
		return 0
	}
	return n
}

// resolveRenamePath maps numstat rename notation to the new path.
// Git prints either "old => new" or the brace form "dir/{old => new}/rest".
func resolveRenamePath(p string) string {
	if !strings.Contains(p, " => ") {
		return p
	}

	if open := strings.Index(p, "{"); open >= 0 {
		if end := strings.Index(p, "}"); end > open {
			inner := p[open+1 : end]
			parts := strings.SplitN(inner, " => ", 2)
			return path.Clean(p[:open] + parts[1] + p[end+1:])
		}
	}

	parts := strings.SplitN(p, " => ", 2)
	return parts[1]
}

// Contributors scans the full history once and returns aggregate stats for
// every identity, ordered by commit count descending. Identities with equal
// counts keep their first-appearance order.
func (r *Repo) Contributors(ctx context.Context, opts stats.Options) ([]*stats.ContributorStats, error) {
	commits, err := r.Log(ctx)
	if err != nil {
		return nil, err
	}

	identities := stats.EnumerateIdentities(commits)
	contributors := make([]*stats.ContributorStats, 0, len(identities))
	for _, id := range identities {
		contributors = append(contributors, stats.Aggregate(id, commits, opts))
	}

	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].CommitCount > contributors[j].CommitCount
	})

	r.logger.Debug("scanned history", "commits", len(commits), "contributors", len(contributors))
	return contributors, nil
}

// ContributorCommits returns one-line summaries ("abbrev-hash subject") of
// the commits authored by exactly this name and email, newest first.
func (r *Repo) ContributorCommits(ctx context.Context, name, email string) ([]string, error) {
	if !r.hasHead(ctx) {
		return nil, nil
	}

	format := "--pretty=format:%h %s" + fieldSep + "%an" + fieldSep + "%ae"
	out, err := r.run(ctx, "log", format)
	if err != nil {
		return nil, errors.AccessError(err, "failed to read history")
	}

	var summaries []string
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, fieldSep, 3)
		if len(parts) != 3 {
			continue
		}
		if parts[1] == name && parts[2] == email {
			summaries = append(summaries, parts[0])
		}
	}
	return summaries, nil
}
