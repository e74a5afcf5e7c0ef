// Package stats turns raw commit history into per-contributor statistics.
//
// Everything here is a pure fold over parsed commits: no git access, no
// caching, no clock. Callers re-run the aggregation whenever they need
// fresh numbers.
package stats

import (
	"path/filepath"
	"sort"
	"strings"
)

// NoExtension is the file-type bucket for paths whose base name has no dot.
const NoExtension = "no-ext"

// Identity names a contributor. Two identities are the same contributor
// only when both name and email match exactly; no normalization or
// similar-identity merging is attempted.
type Identity struct {
	Name  string
	Email string
}

// FileChange is one touched path within a commit, with numstat line counts.
// Binary files carry zero counts.
type FileChange struct {
	Path      string
	Additions int
	Deletions int
}

// Commit is one parsed history entry.
type Commit struct {
	Hash      string
	Name      string
	Email     string
	Subject   string
	Additions int
	Deletions int
	Files     []FileChange
}

// FileCount pairs a path with how many commits modified it.
type FileCount struct {
	Path  string
	Count int
}

// CommitSize records the footprint of a single commit.
type CommitSize struct {
	Additions int
	Deletions int
	Subject   string
}

// ContributorStats is the aggregate view of one identity's history.
type ContributorStats struct {
	Name        string
	Email       string
	CommitCount int
	Additions   int
	Deletions   int

	// FilesChanged holds distinct paths in discovery order.
	FilesChanged []string

	// MostModified is sorted by modification count descending; paths with
	// equal counts keep their discovery order. Bounded by Options.TopFiles.
	MostModified []FileCount

	// FileTypes counts distinct files per extension bucket.
	FileTypes map[string]int

	// LargestCommits is sorted by total line change descending; on equal
	// totals the earlier commit is kept. Bounded by Options.TopCommits.
	LargestCommits []CommitSize
}

// Options bounds the ranked sections of ContributorStats. Zero values fall
// back to the defaults.
type Options struct {
	TopFiles   int
	TopCommits int
}

const (
	defaultTopFiles   = 5
	defaultTopCommits = 5
)

func (o Options) normalized() Options {
	if o.TopFiles <= 0 {
		o.TopFiles = defaultTopFiles
	}
	if o.TopCommits <= 0 {
		o.TopCommits = defaultTopCommits
	}
	return o
}

// EnumerateIdentities returns every identity appearing in commits, in
// first-appearance order. This is the single full-history scan the browse
// flow runs before aggregating per contributor.
func EnumerateIdentities(commits []Commit) []Identity {
	seen := make(map[Identity]bool)
	var identities []Identity
	for _, c := range commits {
		id := Identity{Name: c.Name, Email: c.Email}
		if !seen[id] {
			seen[id] = true
			identities = append(identities, id)
		}
	}
	return identities
}

// CommitsFor returns the subset of commits authored by id, preserving order.
func CommitsFor(id Identity, commits []Commit) []Commit {
	var matched []Commit
	for _, c := range commits {
		if c.Name == id.Name && c.Email == id.Email {
			matched = append(matched, c)
		}
	}
	return matched
}

// Aggregate folds the commits authored by id into a ContributorStats.
// Each commit is visited once; commits by other identities are skipped.
// An identity with no matching commits yields zero-valued stats with empty
// collections.
func Aggregate(id Identity, commits []Commit, opts Options) *ContributorStats {
	opts = opts.normalized()

	s := &ContributorStats{
		Name:         id.Name,
		Email:        id.Email,
		FilesChanged: []string{},
		FileTypes:    make(map[string]int),
	}

	modifications := make(map[string]int)
	seenPath := make(map[string]bool)
	var pathOrder []string
	var sizes []CommitSize

	for _, c := range commits {
		if c.Name != id.Name || c.Email != id.Email {
			continue
		}

		s.CommitCount++
		s.Additions += c.Additions
		s.Deletions += c.Deletions
		sizes = append(sizes, CommitSize{
			Additions: c.Additions,
			Deletions: c.Deletions,
			Subject:   c.Subject,
		})

		for _, f := range c.Files {
			modifications[f.Path]++
			if !seenPath[f.Path] {
				seenPath[f.Path] = true
				pathOrder = append(pathOrder, f.Path)
				s.FilesChanged = append(s.FilesChanged, f.Path)
				s.FileTypes[extensionBucket(f.Path)]++
			}
		}
	}

	// Rank paths by modification count. The input is in discovery order and
	// the sort is stable, so equal counts keep that order.
	ranked := make([]FileCount, 0, len(pathOrder))
	for _, path := range pathOrder {
		ranked = append(ranked, FileCount{Path: path, Count: modifications[path]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > opts.TopFiles {
		ranked = ranked[:opts.TopFiles]
	}
	s.MostModified = ranked

	// Same idea for commit footprints: stable sort over encounter order
	// means equal totals favor the earlier commit.
	sort.SliceStable(sizes, func(i, j int) bool {
		return sizes[i].Additions+sizes[i].Deletions > sizes[j].Additions+sizes[j].Deletions
	})
	if len(sizes) > opts.TopCommits {
		sizes = sizes[:opts.TopCommits]
	}
	if sizes == nil {
		sizes = []CommitSize{}
	}
	s.LargestCommits = sizes

	return s
}

// extensionBucket maps a path to its file-type bucket: the suffix after the
// final dot of the base name, or NoExtension when there is none.
func extensionBucket(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return NoExtension
	}
	return ext
}
