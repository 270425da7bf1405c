package parser

import (
	"strings"

	"github.com/leonardomso/lessonblocks/internal/block"
)

// Line markers, checked longest first so "### " is never read as "# ".
const (
	h3Marker     = "### "
	h2Marker     = "## "
	h1Marker     = "# "
	bulletMarker = "- "
)

// classifyLine applies every rule except the fence rule, first match wins.
// Fence lines are handled by the caller because they need the rest of the source.
func classifyLine(line string) block.Block {
	switch {
	case strings.HasPrefix(line, h3Marker):
		return block.Heading{Level: 3, Text: line[len(h3Marker):]}
	case strings.HasPrefix(line, h2Marker):
		return block.Heading{Level: 2, Text: line[len(h2Marker):]}
	case strings.HasPrefix(line, h1Marker):
		return block.Heading{Level: 1, Text: line[len(h1Marker):]}
	case strings.HasPrefix(line, bulletMarker):
		return block.ListItem{Ordered: false, Text: line[len(bulletMarker):]}
	}

	if rest, ok := cutOrderedMarker(line); ok {
		return block.ListItem{Ordered: true, Text: rest}
	}

	if strings.TrimSpace(line) == "" {
		return block.Spacer{}
	}

	return block.Paragraph{Text: line}
}

// cutOrderedMarker matches ^\d+\. and returns the text after the marker with
// leading spaces and tabs removed.
func cutOrderedMarker(line string) (string, bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || line[i] != '.' {
		return "", false
	}
	return strings.TrimLeft(line[i+1:], " \t"), true
}
