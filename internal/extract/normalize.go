package extract

import (
	"regexp"
	"strings"
)

// DefaultDescriptionLength bounds auto-generated document descriptions.
const DefaultDescriptionLength = 200

var whitespaceRun = regexp.MustCompile(`\s+`)

// Clean collapses runs of whitespace to a single space, preserving paragraph
// breaks: a run containing two or more newlines becomes exactly one blank
// line. The result is trimmed. Clean is idempotent.
func Clean(s string) string {
	s = whitespaceRun.ReplaceAllStringFunc(s, func(run string) string {
		if strings.Count(run, "\n") >= 2 {
			return "\n\n"
		}
		return " "
	})
	return strings.TrimSpace(s)
}

// Truncate returns s unchanged when it fits within max characters, otherwise
// the first max characters with an ellipsis marker appended. Cuts are not
// word-boundary aware.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
