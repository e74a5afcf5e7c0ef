package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = Identity{Name: "Alice", Email: "alice@example.com"}

func commit(hash, subject string, add, del int, paths ...string) Commit {
	c := Commit{
		Hash:      hash,
		Name:      alice.Name,
		Email:     alice.Email,
		Subject:   subject,
		Additions: add,
		Deletions: del,
	}
	for _, p := range paths {
		c.Files = append(c.Files, FileChange{Path: p, Additions: add / max(len(paths), 1), Deletions: del / max(len(paths), 1)})
	}
	return c
}

func TestAggregate_Totals(t *testing.T) {
	commits := []Commit{
		commit("a1", "add parser", 100, 20, "parser.go", "parser_test.go"),
		commit("a2", "fix lexer", 30, 10, "lexer.go"),
		commit("a3", "docs", 5, 0, "README.md"),
	}

	s := Aggregate(alice, commits, Options{})

	assert.Equal(t, 3, s.CommitCount)
	assert.Equal(t, 135, s.Additions)
	assert.Equal(t, 30, s.Deletions)
	assert.Len(t, s.FilesChanged, 4)
}

func TestAggregate_LargestCommitsNeverExceedTotals(t *testing.T) {
	commits := []Commit{
		commit("a1", "one", 50, 5, "a.go"),
		commit("a2", "two", 200, 40, "b.go"),
		commit("a3", "three", 10, 2, "c.go"),
		commit("a4", "four", 70, 30, "d.go"),
	}

	s := Aggregate(alice, commits, Options{TopCommits: 2})

	require.Len(t, s.LargestCommits, 2)

	var largestAdd, largestDel int
	for _, cs := range s.LargestCommits {
		largestAdd += cs.Additions
		largestDel += cs.Deletions
	}
	assert.LessOrEqual(t, largestAdd, s.Additions)
	assert.LessOrEqual(t, largestDel, s.Deletions)
}

func TestAggregate_LargestCommitsRanking(t *testing.T) {
	commits := []Commit{
		commit("a1", "small", 5, 5, "a.go"),
		commit("a2", "big", 300, 100, "b.go"),
		commit("a3", "medium", 50, 20, "c.go"),
	}

	s := Aggregate(alice, commits, Options{})

	require.Len(t, s.LargestCommits, 3)
	assert.Equal(t, "big", s.LargestCommits[0].Subject)
	assert.Equal(t, "medium", s.LargestCommits[1].Subject)
	assert.Equal(t, "small", s.LargestCommits[2].Subject)
}

func TestAggregate_LargestCommitsTieFavorsEarlier(t *testing.T) {
	commits := []Commit{
		commit("a1", "first", 40, 10, "a.go"),
		commit("a2", "second same size", 30, 20, "b.go"),
		commit("a3", "third bigger", 60, 0, "c.go"),
	}

	s := Aggregate(alice, commits, Options{TopCommits: 2})

	require.Len(t, s.LargestCommits, 2)
	assert.Equal(t, "third bigger", s.LargestCommits[0].Subject)
	// a1 and a2 both total 50; the earlier one must be kept.
	assert.Equal(t, "first", s.LargestCommits[1].Subject)
}

func TestAggregate_MostModifiedSubsetOfFilesChanged(t *testing.T) {
	commits := []Commit{
		commit("a1", "one", 10, 0, "hot.go", "warm.go"),
		commit("a2", "two", 10, 0, "hot.go", "cold.go"),
		commit("a3", "three", 10, 0, "hot.go", "warm.go"),
	}

	s := Aggregate(alice, commits, Options{})

	changed := make(map[string]bool)
	for _, p := range s.FilesChanged {
		changed[p] = true
	}
	for _, fc := range s.MostModified {
		assert.True(t, changed[fc.Path], "most-modified path %s missing from files-changed", fc.Path)
	}
	assert.GreaterOrEqual(t, len(s.FilesChanged), len(s.MostModified))
}

func TestAggregate_MostModifiedOrderAndTies(t *testing.T) {
	commits := []Commit{
		commit("a1", "one", 1, 0, "b.go", "a.go"),
		commit("a2", "two", 1, 0, "b.go", "a.go"),
		commit("a3", "three", 1, 0, "c.go"),
	}

	s := Aggregate(alice, commits, Options{})

	require.Len(t, s.MostModified, 3)
	// b.go and a.go both have 2 modifications; b.go was discovered first.
	assert.Equal(t, FileCount{Path: "b.go", Count: 2}, s.MostModified[0])
	assert.Equal(t, FileCount{Path: "a.go", Count: 2}, s.MostModified[1])
	assert.Equal(t, FileCount{Path: "c.go", Count: 1}, s.MostModified[2])
}

func TestAggregate_MostModifiedBound(t *testing.T) {
	c := commit("a1", "wide", 10, 0, "a.go", "b.go", "c.go", "d.go", "e.go", "f.go", "g.go")

	s := Aggregate(alice, []Commit{c}, Options{TopFiles: 3})

	assert.Len(t, s.MostModified, 3)
	assert.Len(t, s.FilesChanged, 7)
}

func TestAggregate_RepeatedPathCountedOncePerCommit(t *testing.T) {
	commits := []Commit{
		commit("a1", "one", 10, 0, "core.go"),
		commit("a2", "two", 10, 0, "core.go"),
		commit("a3", "three", 10, 0, "core.go"),
	}

	s := Aggregate(alice, commits, Options{})

	assert.Equal(t, []string{"core.go"}, s.FilesChanged)
	require.Len(t, s.MostModified, 1)
	assert.Equal(t, 3, s.MostModified[0].Count)
	assert.Equal(t, 1, s.FileTypes["go"])
}

func TestAggregate_FileTypeBuckets(t *testing.T) {
	c := commit("a1", "mixed", 10, 0,
		"main.go", "util.go", "README.md", "Makefile", "dir.v2/data", "archive.tar.gz")

	s := Aggregate(alice, []Commit{c}, Options{})

	assert.Equal(t, 2, s.FileTypes["go"])
	assert.Equal(t, 1, s.FileTypes["md"])
	assert.Equal(t, 1, s.FileTypes["gz"], "only the suffix after the final dot counts")
	// Dotted directory names do not give extension-less files an extension.
	assert.Equal(t, 2, s.FileTypes[NoExtension])
}

func TestAggregate_SkipsOtherIdentities(t *testing.T) {
	bob := commit("b1", "bobs work", 500, 500, "bob.go")
	bob.Name = "Bob"
	bob.Email = "bob@example.com"

	sameNameOtherEmail := commit("b2", "impostor", 100, 100, "other.go")
	sameNameOtherEmail.Email = "alice@work.example.com"

	commits := []Commit{
		bob,
		commit("a1", "alices work", 10, 1, "alice.go"),
		sameNameOtherEmail,
	}

	s := Aggregate(alice, commits, Options{})

	// Name+email must both match; a matching name alone is a different identity.
	assert.Equal(t, 1, s.CommitCount)
	assert.Equal(t, 10, s.Additions)
	assert.Equal(t, []string{"alice.go"}, s.FilesChanged)
}

func TestAggregate_NoMatchingCommits(t *testing.T) {
	s := Aggregate(Identity{Name: "Nobody", Email: "nobody@example.com"}, []Commit{
		commit("a1", "work", 10, 0, "a.go"),
	}, Options{})

	assert.Equal(t, 0, s.CommitCount)
	assert.Empty(t, s.FilesChanged)
	assert.Empty(t, s.MostModified)
	assert.Empty(t, s.LargestCommits)
	assert.Empty(t, s.FileTypes)
}

func TestAggregate_CommitWithNoFiles(t *testing.T) {
	merge := commit("m1", "merge branch", 0, 0)

	s := Aggregate(alice, []Commit{merge}, Options{})

	assert.Equal(t, 1, s.CommitCount)
	assert.Empty(t, s.FilesChanged)
}

func TestEnumerateIdentities(t *testing.T) {
	bob := commit("b1", "bob", 1, 0, "b.go")
	bob.Name = "Bob"
	bob.Email = "bob@example.com"

	commits := []Commit{
		commit("a1", "first", 1, 0, "a.go"),
		bob,
		commit("a2", "again", 1, 0, "a.go"),
	}

	ids := EnumerateIdentities(commits)

	require.Len(t, ids, 2)
	assert.Equal(t, alice, ids[0])
	assert.Equal(t, Identity{Name: "Bob", Email: "bob@example.com"}, ids[1])
}

func TestCommitsFor(t *testing.T) {
	bob := commit("b1", "bob", 1, 0, "b.go")
	bob.Name = "Bob"
	bob.Email = "bob@example.com"

	commits := []Commit{
		commit("a1", "first", 1, 0, "a.go"),
		bob,
		commit("a2", "second", 1, 0, "a.go"),
	}

	mine := CommitsFor(alice, commits)

	require.Len(t, mine, 2)
	assert.Equal(t, "a1", mine[0].Hash)
	assert.Equal(t, "a2", mine[1].Hash)
}
