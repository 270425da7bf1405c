// Package block defines the typed presentation blocks produced from lesson content.
// A Block is a closed set of variants; every renderer can switch over Kind
// and handle each one exhaustively.
package block

// Kind identifies a block variant.
type Kind string

const (
	// KindHeading is a level 1-3 heading.
	KindHeading Kind = "heading"
	// KindParagraph is a plain line of text.
	KindParagraph Kind = "paragraph"
	// KindListItem is a single ordered or unordered list entry.
	KindListItem Kind = "list_item"
	// KindCodeBlock is a fenced code region.
	KindCodeBlock Kind = "code_block"
	// KindSpacer stands for a blank source line.
	KindSpacer Kind = "spacer"
)

// Kinds returns every block kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindHeading, KindParagraph, KindListItem, KindCodeBlock, KindSpacer}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindHeading, KindParagraph, KindListItem, KindCodeBlock, KindSpacer:
		return true
	default:
		return false
	}
}

// Block is one classified unit of a parsed document.
// The unexported method seals the set of implementations to this package.
type Block interface {
	Kind() Kind
	block()
}

// Heading is a heading line ("# ", "## ", "### ").
type Heading struct {
	Level int // 1, 2 or 3
	Text  string
}

// Paragraph is any line that matches no other rule.
type Paragraph struct {
	Text string
}

// ListItem is a single "- " or "N." line. Adjacent items are never merged.
type ListItem struct {
	Ordered bool
	Text    string
}

// CodeBlock is a fenced region. An empty Language means no tag was given.
type CodeBlock struct {
	Language string
	Code     string
}

// Spacer represents a blank source line.
type Spacer struct{}

// Kind implements Block.
func (Heading) Kind() Kind { return KindHeading }

// Kind implements Block.
func (Paragraph) Kind() Kind { return KindParagraph }

// Kind implements Block.
func (ListItem) Kind() Kind { return KindListItem }

// Kind implements Block.
func (CodeBlock) Kind() Kind { return KindCodeBlock }

// Kind implements Block.
func (Spacer) Kind() Kind { return KindSpacer }

func (Heading) block()   {}
func (Paragraph) block() {}
func (ListItem) block()  {}
func (CodeBlock) block() {}
func (Spacer) block()    {}

// HasLanguage reports whether the fence carried a language tag.
func (c CodeBlock) HasLanguage() bool {
	return c.Language != ""
}

// Text returns the human-readable text of a block, or "" for spacers.
// For code blocks it returns the code body.
func Text(b Block) string {
	switch v := b.(type) {
	case Heading:
		return v.Text
	case Paragraph:
		return v.Text
	case ListItem:
		return v.Text
	case CodeBlock:
		return v.Code
	default:
		return ""
	}
}
