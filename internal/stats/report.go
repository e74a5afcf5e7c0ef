package stats

import (
	"fmt"
	"sort"
	"strings"
)

// maxRecentCommits caps the recent-commit section of a report.
const maxRecentCommits = 5

// SortedFileTypes flattens a FileTypes map for display: descending by count,
// ties ordered by extension so the output is stable across runs.
func SortedFileTypes(fileTypes map[string]int) []FileCount {
	sorted := make([]FileCount, 0, len(fileTypes))
	for ext, count := range fileTypes {
		sorted = append(sorted, FileCount{Path: ext, Count: count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Path < sorted[j].Path
	})
	return sorted
}

// BuildReport renders one contributor's statistics as a markdown text block.
// The same text is shown to the user and sent verbatim to the backend as the
// analysis prompt body, so it is rebuilt fresh on every viewing.
//
// The function is pure: identical inputs produce identical output. Sections
// with no data keep their headers and simply have no bullets.
func BuildReport(s *ContributorStats, recent []string, filesChanged []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Contributor: %s <%s>\n\n", s.Name, s.Email)

	b.WriteString("### Statistics\n")
	fmt.Fprintf(&b, "- Total commits: %d\n", s.CommitCount)
	fmt.Fprintf(&b, "- Lines added: %d\n", s.Additions)
	fmt.Fprintf(&b, "- Lines deleted: %d\n", s.Deletions)
	fmt.Fprintf(&b, "- Files modified: %d\n", len(filesChanged))

	b.WriteString("\n### Most frequently modified files\n")
	for _, fc := range s.MostModified {
		fmt.Fprintf(&b, "- %s (%d modifications)\n", fc.Path, fc.Count)
	}

	b.WriteString("\n### File type distribution\n")
	for _, ft := range SortedFileTypes(s.FileTypes) {
		fmt.Fprintf(&b, "- %s: %d files\n", ft.Path, ft.Count)
	}

	b.WriteString("\n### Largest contributions\n")
	for _, cs := range s.LargestCommits {
		fmt.Fprintf(&b, "- +%d -%d : %s\n", cs.Additions, cs.Deletions, cs.Subject)
	}

	b.WriteString("\n### Recent commits\n")
	for i, summary := range recent {
		if i >= maxRecentCommits {
			break
		}
		fmt.Fprintf(&b, "- %s\n", summary)
	}

	b.WriteString("\n### Modified files\n")
	for _, path := range filesChanged {
		fmt.Fprintf(&b, "- %s\n", path)
	}

	return b.String()
}
