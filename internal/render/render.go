// Package render maps parsed blocks to presentation fragments.
//
// A Renderer turns one block into one fragment. It carries no state from one
// block to the next: consecutive list items are grouped only by adjacency in
// the output, never by tracking list state.
package render

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/leonardomso/lessonblocks/internal/block"
)

// ErrUnknownRenderer is returned by New for an unregistered name.
var ErrUnknownRenderer = errors.New("unknown renderer")

// Renderer renders a single block.
type Renderer interface {
	// Name identifies the renderer ("html", "terminal", "markdown").
	Name() string

	// RenderBlock returns the fragment for b without a trailing newline.
	RenderBlock(b block.Block) string
}

// FontSize is the host view's text size setting. Renderers that have no
// notion of size ignore it.
type FontSize string

const (
	// FontCompact removes vertical padding.
	FontCompact FontSize = "compact"
	// FontNormal is the default.
	FontNormal FontSize = "normal"
	// FontLarge adds padding around headings and code.
	FontLarge FontSize = "large"
)

// Next cycles compact -> normal -> large -> compact.
func (f FontSize) Next() FontSize {
	switch f {
	case FontCompact:
		return FontNormal
	case FontNormal:
		return FontLarge
	default:
		return FontCompact
	}
}

// ParseFontSize validates a font size name. Empty means FontNormal.
func ParseFontSize(s string) (FontSize, error) {
	switch f := FontSize(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FontNormal, nil
	case FontCompact, FontNormal, FontLarge:
		return f, nil
	default:
		return "", fmt.Errorf("invalid font size %q (valid: compact, normal, large)", s)
	}
}

// Options configure renderers created through New.
type Options struct {
	Width    int      // Wrap width for the terminal renderer, 0 for no wrapping
	FontSize FontSize // Vertical density for the terminal renderer
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Width: 80, FontSize: FontNormal}
}

// factory builds a renderer from options.
type factory func(Options) Renderer

var factories = map[string]factory{
	"html":     func(Options) Renderer { return NewHTML() },
	"markdown": func(Options) Renderer { return NewMarkdown() },
	"terminal": func(o Options) Renderer { return NewTerminal(o) },
}

// Names returns the registered renderer names, sorted.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the named renderer.
func New(name string, opts Options) (Renderer, error) {
	f, ok := factories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (valid: %s)", ErrUnknownRenderer, name, strings.Join(Names(), ", "))
	}
	return f(opts), nil
}

// Get returns the named renderer built with DefaultOptions.
func Get(name string) (Renderer, error) {
	return New(name, DefaultOptions())
}

// Render writes every block in order, separated by newlines.
func Render(w io.Writer, r Renderer, blocks []block.Block) error {
	for i, b := range blocks {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, r.RenderBlock(b)); err != nil {
			return err
		}
	}
	return nil
}

// String renders blocks into a string.
func String(r Renderer, blocks []block.Block) string {
	var b strings.Builder
	// strings.Builder never returns a write error.
	_ = Render(&b, r, blocks)
	return b.String()
}
