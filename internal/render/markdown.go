package render

import (
	"strings"

	"github.com/leonardomso/lessonblocks/internal/block"
)

// Markdown renders blocks back into the constrained source markup.
// For well-formed input, parsing the output yields the original blocks.
// Ordered items are all numbered "1." since no counter is kept between blocks.
type Markdown struct{}

// NewMarkdown creates a markdown renderer.
func NewMarkdown() *Markdown {
	return &Markdown{}
}

// Name implements Renderer.
func (*Markdown) Name() string {
	return "markdown"
}

// RenderBlock implements Renderer.
func (*Markdown) RenderBlock(b block.Block) string {
	switch v := b.(type) {
	case block.Heading:
		return strings.Repeat("#", v.Level) + " " + v.Text
	case block.Paragraph:
		return v.Text
	case block.ListItem:
		if v.Ordered {
			return "1. " + v.Text
		}
		return "- " + v.Text
	case block.CodeBlock:
		if v.Code == "" {
			return "```" + v.Language + "\n```"
		}
		return "```" + v.Language + "\n" + v.Code + "\n```"
	default:
		return ""
	}
}
