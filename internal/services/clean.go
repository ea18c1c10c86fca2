package services

import (
	"regexp"
	"strings"
)

var (
	excessNewlines = regexp.MustCompile(`\n\s*\n\s*\n`)
	leadingFence   = regexp.MustCompile("^```[^\n]*\n")
	trailingFence  = regexp.MustCompile("```$")
	citation       = regexp.MustCompile(`\[.*?\]`)
)

// Clean normalizes a model response for display: it strips a wrapping code
// fence and bracketed citation markers, collapses runs of blank lines and
// trims the result. Each pass can only shorten the text, and passes repeat
// until nothing changes, so Clean(Clean(s)) == Clean(s).
func Clean(raw string) string {
	text := raw
	for {
		next := cleanPass(text)
		if next == text {
			return next
		}
		text = next
	}
}

func cleanPass(s string) string {
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	s = citation.ReplaceAllString(s, "")
	s = excessNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
