// Package helpers provides shared utility functions used across the application.
// These are generic helpers that don't belong to a specific domain package.
package helpers

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// TruncateText shortens text to maxLen runes, adding "..." if truncated.
// Returns empty string if input is empty or only whitespace. A maxLen below 4
// leaves the text untouched.
func TruncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if maxLen < 4 || utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLen-3]) + "..."
}

// TruncatePath shortens a file path for display, keeping its tail.
func TruncatePath(path string, maxLen int) string {
	if maxLen < 4 || len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-(maxLen-3):]
}

// RelativePath returns path relative to base, or path unchanged when it
// cannot be expressed relative to base.
func RelativePath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// EscapeTableCell escapes characters that break a Markdown table row.
func EscapeTableCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "`", "\\`")
	return strings.ReplaceAll(s, "\n", " ")
}

// CountUniqueStrings returns the number of unique strings in a slice.
func CountUniqueStrings(items []string) int {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		seen[item] = true
	}
	return len(seen)
}
