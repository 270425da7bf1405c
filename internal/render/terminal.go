package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leonardomso/lessonblocks/internal/block"
)

// Color palette.
var (
	PrimaryColor   = lipgloss.Color("205") // Pink
	SecondaryColor = lipgloss.Color("241") // Gray
	AccentColor    = lipgloss.Color("39")  // Blue
	MutedColor     = lipgloss.Color("245") // Dimmed text
)

// Terminal renders blocks with lipgloss styles for display in a terminal.
type Terminal struct {
	width    int
	fontSize FontSize

	h1, h2, h3 lipgloss.Style
	paragraph  lipgloss.Style
	bullet     lipgloss.Style
	code       lipgloss.Style
	language   lipgloss.Style
}

// NewTerminal creates a terminal renderer. A zero Width disables wrapping.
func NewTerminal(opts Options) *Terminal {
	if opts.FontSize == "" {
		opts.FontSize = FontNormal
	}

	pad := 0
	switch opts.FontSize {
	case FontNormal:
		pad = 1
	case FontLarge:
		pad = 2
	}

	t := &Terminal{
		width:    opts.Width,
		fontSize: opts.FontSize,
		h1: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(PrimaryColor).
			MarginTop(pad),
		h2: lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginTop(pad),
		h3: lipgloss.NewStyle().
			Bold(true).
			Foreground(SecondaryColor),
		paragraph: lipgloss.NewStyle(),
		bullet: lipgloss.NewStyle().
			Foreground(AccentColor),
		code: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SecondaryColor).
			Padding(pad/2, pad),
		language: lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true),
	}

	if opts.Width > 0 {
		t.paragraph = t.paragraph.Width(opts.Width)
	}

	return t
}

// Name implements Renderer.
func (*Terminal) Name() string {
	return "terminal"
}

// FontSize returns the density the renderer was built with.
func (t *Terminal) FontSize() FontSize {
	return t.fontSize
}

// RenderBlock implements Renderer.
func (t *Terminal) RenderBlock(b block.Block) string {
	switch v := b.(type) {
	case block.Heading:
		return t.heading(v)
	case block.Paragraph:
		return t.paragraph.Render(v.Text)
	case block.ListItem:
		marker := "•"
		if v.Ordered {
			marker = "›"
		}
		item := t.bullet.Render("  "+marker) + " " + v.Text
		if t.width > 0 {
			return lipgloss.NewStyle().Width(t.width).Render(item)
		}
		return item
	case block.CodeBlock:
		return t.codeBlock(v)
	default:
		return ""
	}
}

func (t *Terminal) heading(h block.Heading) string {
	text := h.Text
	if t.fontSize == FontLarge && h.Level == 1 {
		text = strings.ToUpper(text)
	}
	switch h.Level {
	case 1:
		return t.h1.Render(text)
	case 2:
		return t.h2.Render(text)
	default:
		return t.h3.Render(text)
	}
}

func (t *Terminal) codeBlock(c block.CodeBlock) string {
	body := t.code.Render(c.Code)
	if !c.HasLanguage() {
		return body
	}
	return t.language.Render(c.Language) + "\n" + body
}
