package block

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a record names a kind outside the closed set.
var ErrUnknownKind = errors.New("unknown block kind")

// Record is the flat, serializable form of a Block.
// Fields that do not apply to a kind are left at their zero value.
type Record struct {
	Kind     Kind    `json:"kind" yaml:"kind" toml:"kind" xml:"kind,attr"`
	Level    int     `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty" xml:"level,attr,omitempty"`
	Ordered  *bool   `json:"ordered,omitempty" yaml:"ordered,omitempty" toml:"ordered,omitempty" xml:"ordered,attr,omitempty"`
	Text     string  `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty" xml:"text,omitempty"`
	Language *string `json:"language,omitempty" yaml:"language,omitempty" toml:"language,omitempty" xml:"language,attr,omitempty"`
	Code     string  `json:"code,omitempty" yaml:"code,omitempty" toml:"code,omitempty" xml:"code,omitempty"`
}

// ToRecord converts a block into its serializable form.
func ToRecord(b Block) Record {
	switch v := b.(type) {
	case Heading:
		return Record{Kind: KindHeading, Level: v.Level, Text: v.Text}
	case Paragraph:
		return Record{Kind: KindParagraph, Text: v.Text}
	case ListItem:
		ordered := v.Ordered
		return Record{Kind: KindListItem, Ordered: &ordered, Text: v.Text}
	case CodeBlock:
		r := Record{Kind: KindCodeBlock, Code: v.Code}
		if v.HasLanguage() {
			lang := v.Language
			r.Language = &lang
		}
		return r
	default:
		return Record{Kind: KindSpacer}
	}
}

// FromRecord restores a block from its serializable form.
func FromRecord(r Record) (Block, error) {
	switch r.Kind {
	case KindHeading:
		if r.Level < 1 || r.Level > 3 {
			return nil, fmt.Errorf("heading level %d out of range 1-3", r.Level)
		}
		return Heading{Level: r.Level, Text: r.Text}, nil
	case KindParagraph:
		return Paragraph{Text: r.Text}, nil
	case KindListItem:
		return ListItem{Ordered: r.Ordered != nil && *r.Ordered, Text: r.Text}, nil
	case KindCodeBlock:
		cb := CodeBlock{Code: r.Code}
		if r.Language != nil {
			cb.Language = *r.Language
		}
		return cb, nil
	case KindSpacer:
		return Spacer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
}

// Records converts a block sequence into records, preserving order.
func Records(blocks []Block) []Record {
	out := make([]Record, len(blocks))
	for i, b := range blocks {
		out[i] = ToRecord(b)
	}
	return out
}

// FromRecords restores a block sequence. It stops at the first invalid record.
func FromRecords(records []Record) (Document, error) {
	doc := make(Document, 0, len(records))
	for i, r := range records {
		b, err := FromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		doc = append(doc, b)
	}
	return doc, nil
}
