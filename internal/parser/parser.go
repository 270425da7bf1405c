// Package parser converts constrained, Markdown-like lesson content into an
// ordered sequence of typed blocks.
//
// The grammar is intentionally small: headings, unordered and ordered list
// items, fenced code blocks, blank-line spacers and plain paragraphs. There is
// no inline parsing. Parsing is total: every input string yields a defined
// block sequence and no error.
package parser

import (
	"strings"

	"github.com/leonardomso/lessonblocks/internal/block"
)

// FencePolicy controls what happens to the lines inside a matched code fence.
type FencePolicy int

const (
	// FenceSkipAhead advances past every line consumed by a fenced region,
	// so interior lines appear only inside the CodeBlock.
	FenceSkipAhead FencePolicy = iota

	// FenceDuplicate classifies interior lines a second time after the
	// CodeBlock, reproducing the output of the legacy lesson views.
	// The closing fence line itself emits nothing.
	FenceDuplicate
)

// String implements fmt.Stringer.
func (p FencePolicy) String() string {
	switch p {
	case FenceSkipAhead:
		return "skip"
	case FenceDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// ParseFencePolicy maps a config or flag value onto a FencePolicy.
// Unknown names fall back to FenceSkipAhead and report false.
func ParseFencePolicy(name string) (FencePolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "skip", "skip-ahead", "skip_ahead":
		return FenceSkipAhead, true
	case "duplicate", "legacy":
		return FenceDuplicate, true
	default:
		return FenceSkipAhead, false
	}
}

// Option configures a Parser.
type Option func(*Parser)

// WithFencePolicy sets how fenced interior lines are handled.
func WithFencePolicy(policy FencePolicy) Option {
	return func(p *Parser) {
		p.policy = policy
	}
}

// Parser holds parse options. It keeps no state between calls and is safe
// for concurrent use.
type Parser struct {
	policy FencePolicy
}

// New creates a parser. Without options it uses FenceSkipAhead.
func New(opts ...Option) *Parser {
	p := &Parser{policy: FenceSkipAhead}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Policy returns the fence policy in effect.
func (p *Parser) Policy() FencePolicy {
	return p.policy
}

// Parse classifies content line by line and returns the resulting blocks.
// Empty content yields an empty, non-nil slice.
func (p *Parser) Parse(content string) []block.Block {
	if content == "" {
		return []block.Block{}
	}

	src := newSource(normalizeNewlines(content))
	blocks := make([]block.Block, 0, len(src.lines))

	// fenceEnd is the index of the closing fence line of the most recent
	// region when running under FenceDuplicate, -1 otherwise.
	fenceEnd := -1

	for i := 0; i < len(src.lines); i++ {
		line := src.lines[i]

		if i <= fenceEnd {
			if i < fenceEnd {
				blocks = append(blocks, classifyLine(line))
			}
			continue
		}

		if !isFenceLine(line) {
			blocks = append(blocks, classifyLine(line))
			continue
		}

		f, ok := src.findFence(i)
		if !ok {
			// Unterminated fence: the opening line degrades to a paragraph.
			blocks = append(blocks, block.Paragraph{Text: line})
			continue
		}

		blocks = append(blocks, block.CodeBlock{Language: f.language, Code: f.code})

		switch p.policy {
		case FenceDuplicate:
			fenceEnd = f.closeLine
		default:
			i = f.closeLine
		}
	}

	return blocks
}

// ParseBytes is Parse for raw file content.
func (p *Parser) ParseBytes(content []byte) []block.Block {
	return p.Parse(string(content))
}

// defaultParser is the shared skip-ahead parser.
var defaultParser = New()

// Default returns the shared parser used by the package-level functions.
func Default() *Parser {
	return defaultParser
}

// Parse parses content with the default skip-ahead parser.
func Parse(content string) []block.Block {
	return defaultParser.Parse(content)
}

// ParseDocument parses content with the default parser and returns it as a Document.
func ParseDocument(content string) block.Document {
	return block.Document(defaultParser.Parse(content))
}

// normalizeNewlines converts CRLF line endings to LF.
func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r\n") {
		return s
	}
	return strings.ReplaceAll(s, "\r\n", "\n")
}
