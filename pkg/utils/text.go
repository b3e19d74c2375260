// Package utils provides shared utilities for text, math, and logging.
package utils

import "strings"

// TruncationMarker is appended to text cut by TruncateRunes.
const TruncationMarker = "..."

// TruncateRunes returns s truncated so the result is at most maxLen runes,
// counting the truncation marker. Rune-based so multi-byte scripts are never
// cut mid-character. If maxLen is 0 or negative, returns s unchanged.
func TruncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	marker := []rune(TruncationMarker)
	if maxLen <= len(marker) {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-len(marker)]) + TruncationMarker
}

// CollapseWhitespace trims s and collapses internal whitespace runs
// (spaces, tabs, newlines) to single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
