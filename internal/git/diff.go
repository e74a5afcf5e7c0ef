package git

import (
	"strings"
)

// CountDiffLines counts the added and deleted lines in a unified diff.
// Returns (linesAdded, linesDeleted).
func CountDiffLines(diff string) (int, int) {
	if diff == "" {
		return 0, 0
	}

	linesAdded := 0
	linesDeleted := 0

	for _, line := range strings.Split(diff, "\n") {
		if len(line) == 0 {
			continue
		}

		switch line[0] {
		case '+':
			// Ignore +++ header lines
			if !strings.HasPrefix(line, "+++") {
				linesAdded++
			}
		case '-':
			// Ignore --- header lines
			if !strings.HasPrefix(line, "---") {
				linesDeleted++
			}
		}
	}

	return linesAdded, linesDeleted
}

// TruncateDiff bounds a diff for use inside a model prompt. Headers always
// survive; beyond maxLines only the first few hunks are kept, with an
// elision marker so the model knows content was cut.
func TruncateDiff(diff string, maxLines int) string {
	if diff == "" {
		return ""
	}

	lines := strings.Split(diff, "\n")
	if len(lines) <= maxLines {
		return diff
	}

	var result []string
	hunkCount := 0
	maxHunks := 3
	inHunk := false

	for _, line := range lines {
		// Always include diff headers
		if strings.HasPrefix(line, "diff --git") ||
			strings.HasPrefix(line, "index") ||
			strings.HasPrefix(line, "---") ||
			strings.HasPrefix(line, "+++") {
			result = append(result, line)
			continue
		}

		// Track hunks (@@ markers)
		if strings.HasPrefix(line, "@@") {
			hunkCount++
			if hunkCount > maxHunks {
				result = append(result, "... (remaining hunks truncated)")
				break
			}
			inHunk = true
			result = append(result, line)
			continue
		}

		// Include lines from first N hunks
		if inHunk && hunkCount <= maxHunks {
			result = append(result, line)
		}

		// Stop if we've hit max lines
		if len(result) >= maxLines {
			result = append(result, "... (diff truncated)")
			break
		}
	}

	return strings.Join(result, "\n")
}
