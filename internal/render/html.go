package render

import (
	"fmt"

	"github.com/yuin/goldmark/util"

	"github.com/leonardomso/lessonblocks/internal/block"
)

// HTML renders blocks as HTML fragments. Text is escaped; no inline markup
// is interpreted.
type HTML struct{}

// NewHTML creates an HTML renderer.
func NewHTML() *HTML {
	return &HTML{}
}

// Name implements Renderer.
func (*HTML) Name() string {
	return "html"
}

// RenderBlock implements Renderer.
func (*HTML) RenderBlock(b block.Block) string {
	switch v := b.(type) {
	case block.Heading:
		return fmt.Sprintf("<h%d>%s</h%d>", v.Level, escape(v.Text), v.Level)
	case block.Paragraph:
		return "<p>" + escape(v.Text) + "</p>"
	case block.ListItem:
		return fmt.Sprintf(`<li data-ordered="%t">%s</li>`, v.Ordered, escape(v.Text))
	case block.CodeBlock:
		if !v.HasLanguage() {
			return "<pre><code>" + escape(v.Code) + "</code></pre>"
		}
		return fmt.Sprintf(`<pre><code class="language-%s">%s</code></pre>`, escape(v.Language), escape(v.Code))
	case block.Spacer:
		return "<br>"
	default:
		return ""
	}
}

func escape(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}
