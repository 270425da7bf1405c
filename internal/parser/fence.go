package parser

import "strings"

// fenceMarker opens and closes a code region.
const fenceMarker = "```"

// source is normalized content split into physical lines.
type source struct {
	lines []string
}

func newSource(content string) source {
	return source{lines: strings.Split(content, "\n")}
}

// fence is a matched code region.
type fence struct {
	language  string
	code      string
	openLine  int
	closeLine int
}

// isFenceLine reports whether line triggers fenced-code extraction.
func isFenceLine(line string) bool {
	return strings.HasPrefix(line, fenceMarker)
}

// isClosingFence reports whether line consists solely of the fence marker.
// Trailing spaces and tabs are tolerated.
func isClosingFence(line string) bool {
	return strings.TrimRight(line, " \t") == fenceMarker
}

// findFence looks for the region opened at line open. The search starts at
// the cursor, never at the top of the document, so duplicated lines before
// the fence cannot be matched. It returns false when no closing fence exists
// in the remaining text.
func (s source) findFence(open int) (fence, bool) {
	for j := open + 1; j < len(s.lines); j++ {
		if !isClosingFence(s.lines[j]) {
			continue
		}
		return fence{
			language:  strings.TrimSpace(s.lines[open][len(fenceMarker):]),
			code:      strings.Join(s.lines[open+1:j], "\n"),
			openLine:  open,
			closeLine: j,
		}, true
	}
	return fence{}, false
}
