// Package toml loads lesson sections from TOML files, either as top-level
// keys for a single section or as a [[sections]] array of tables.
package toml

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/leonardomso/lessonblocks/internal/section"
)

// Loader implements section.Loader for TOML files.
type Loader struct{}

// New creates a new TOML loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (*Loader) Extensions() []string {
	return []string{".toml"}
}

// Load decodes the sections in content.
func (*Loader) Load(filename string, content []byte) ([]section.Section, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}

	var doc document
	if err := toml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}

	env := section.Envelope{
		Record: section.Record{
			Title:   doc.Title,
			Slug:    doc.Slug,
			Order:   doc.Order,
			Content: doc.Content,
		},
		Sections: doc.Sections,
	}
	return section.FromRecords(filename, env.Records()), nil
}

// document mirrors section.Envelope with the record fields spelled out,
// since TOML tables have no notion of an inlined struct.
type document struct {
	Title    string           `toml:"title"`
	Slug     string           `toml:"slug"`
	Order    int              `toml:"order"`
	Content  string           `toml:"content"`
	Sections []section.Record `toml:"sections"`
}

func init() {
	section.RegisterLoader(New())
}
