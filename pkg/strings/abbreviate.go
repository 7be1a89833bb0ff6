// Package strings holds small text helpers shared by log and output code.
package strings

import (
	"strings"
)

// MinAbbreviateLen is the smallest useful limit: one character plus "...".
const MinAbbreviateLen = 4

// Abbreviate collapses all whitespace runs, including newlines, into single
// spaces and cuts the result to at most maxLen runes, ending in "..." when
// something was cut. Limits below MinAbbreviateLen are raised to it.
func Abbreviate(s string, maxLen int) string {
	if maxLen < MinAbbreviateLen {
		maxLen = MinAbbreviateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
