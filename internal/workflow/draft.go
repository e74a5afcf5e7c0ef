package workflow

import "strings"

// Draft is a commit message split into its conventional-commit parts.
// Type is empty when the backend produced no "type: description" shape;
// the description then carries the whole text.
type Draft struct {
	Type        string
	Description string
}

// ParseDraft splits a generated message on the first colon. A message
// with no colon becomes a type-less draft. Later colons stay inside the
// description untouched.
func ParseDraft(message string) Draft {
	before, after, found := strings.Cut(message, ":")
	if !found {
		return Draft{Description: strings.TrimSpace(message)}
	}
	return Draft{
		Type:        strings.TrimSpace(before),
		Description: strings.TrimSpace(after),
	}
}

// Message renders the draft back to a single commit message line.
func (d Draft) Message() string {
	if d.Type == "" {
		return d.Description
	}
	return d.Type + ": " + d.Description
}

// WithType returns a copy with the type replaced and the description
// untouched.
func (d Draft) WithType(commitType string) Draft {
	return Draft{Type: commitType, Description: d.Description}
}
