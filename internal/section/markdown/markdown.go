// Package markdown loads lesson sections from plain-text lesson files.
// A file may start with YAML, TOML or JSON front matter carrying the section
// metadata; the rest of the file is the section content.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"

	"github.com/leonardomso/lessonblocks/internal/section"
)

// Loader implements section.Loader for lesson text files.
type Loader struct{}

// New creates a new markdown loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (*Loader) Extensions() []string {
	return []string{".md", ".markdown", ".txt", ".lesson"}
}

// frontMatter is the metadata accepted at the top of a lesson file.
type frontMatter struct {
	Title string `yaml:"title" toml:"title" json:"title"`
	Slug  string `yaml:"slug" toml:"slug" json:"slug"`
	Order int    `yaml:"order" toml:"order" json:"order"`
}

// Load returns a single section. Files without front matter are taken whole.
func (*Loader) Load(filename string, content []byte) ([]section.Section, error) {
	var meta frontMatter

	body, err := frontmatter.Parse(bytes.NewReader(content), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}

	return []section.Section{{
		Title:   meta.Title,
		Slug:    meta.Slug,
		Order:   meta.Order,
		Content: string(body),
		Source:  filename,
	}}, nil
}

func init() {
	section.RegisterLoader(New())
}
