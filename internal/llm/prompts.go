package llm

import "fmt"

// commitSystemPrompt steers the model toward a single conventional-commit
// subject line. The "type: description" shape is load-bearing: the
// refinement flow splits on the first colon when the user edits the type.
const commitSystemPrompt = `You are a git commit message generator.

Given a diff of uncommitted changes, write exactly one commit message line in the conventional commit format:

  type: short description

Rules:
- type is one of: feat, fix, docs, style, refactor, test, chore
- the description is imperative and lower case ("add", not "added" or "Adds")
- at most 72 characters total
- output the single line only, with no quotes, code fences, or commentary`

// explainSystemPrompt covers the per-file analysis mode. One file per
// request keeps each answer focused and lets the flow stream results.
const explainSystemPrompt = `You are a code reviewer summarizing uncommitted changes one file at a time.

For the file and diff you are given, explain in two to four sentences what changed and why it matters. Plain prose or short markdown bullets. Do not repeat the diff, and do not speculate beyond what the diff shows.`

// contributorSystemPrompt turns a statistics report into a narrative
// profile. The report text is produced by stats.BuildReport.
const contributorSystemPrompt = `You are analyzing a contributor's activity in a git repository.

From the statistics report you are given, write a short markdown profile covering:
- the areas of the codebase this person works on
- the character of their contributions (features, fixes, docs, refactoring)
- anything notable about the shape of their commits

Keep it under 200 words. Base every statement on the report; do not invent details.`

func commitUserPrompt(diff string) string {
	return fmt.Sprintf("Generate a commit message for the following changes:\n\n```diff\n%s\n```", diff)
}

func explainUserPrompt(path, diff string) string {
	return fmt.Sprintf("File: %s\n\nDiff:\n```diff\n%s\n```", path, diff)
}

func contributorUserPrompt(report string) string {
	return "Analyze this contributor's activity:\n\n" + report
}
