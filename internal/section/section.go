// Package section loads lesson sections from files on disk.
// A section is the host application's unit of lesson content; its Content
// field is the raw text handed to the block parser.
package section

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupported is returned when no loader is registered for a file extension.
var ErrUnsupported = errors.New("unsupported section file type")

// Section is one unit of lesson content.
type Section struct {
	Title   string // Display title, defaults to the file name
	Slug    string // Optional stable identifier
	Order   int    // Position within its lesson, 0 when unset
	Content string // Raw constrained markup
	Source  string // File the section was loaded from
	Index   int    // Position of the section within its source file
}

// Record is the on-disk shape shared by the structured loaders (JSON, YAML, TOML).
type Record struct {
	Title   string `json:"title" yaml:"title" toml:"title"`
	Slug    string `json:"slug" yaml:"slug" toml:"slug"`
	Order   int    `json:"order" yaml:"order" toml:"order"`
	Content string `json:"content" yaml:"content" toml:"content"`
}

// Envelope is a file holding either one record or a list under "sections".
type Envelope struct {
	Record   `yaml:",inline"`
	Sections []Record `json:"sections" yaml:"sections" toml:"sections"`
}

// Records returns the sections listed in the envelope, or the envelope
// itself when no list is present.
func (e Envelope) Records() []Record {
	if len(e.Sections) > 0 {
		return e.Sections
	}
	return []Record{e.Record}
}

// FromRecords turns decoded records into sections tied to filename.
func FromRecords(filename string, records []Record) []Section {
	out := make([]Section, 0, len(records))
	for i, r := range records {
		out = append(out, Section{
			Title:   r.Title,
			Slug:    r.Slug,
			Order:   r.Order,
			Content: r.Content,
			Source:  filename,
			Index:   i,
		})
	}
	return out
}

// LoadFile reads a file and returns its sections using the default registry.
func LoadFile(path string) ([]Section, error) {
	return defaultRegistry.LoadFile(path)
}

// LoadFile reads a file and returns its sections, ordered by Order then
// by position in the file. Sections without a title get the file name.
func (r *Registry) LoadFile(path string) ([]Section, error) {
	loader, ok := r.GetForFile(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sections, err := loader.Load(path, content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	fallback := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i := range sections {
		if sections[i].Title == "" {
			sections[i].Title = fallback
		}
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})

	return sections, nil
}

// Skipped records a file that could not be loaded in non-strict mode.
type Skipped struct {
	Path string
	Err  error
}

// LoadFiles loads every file in order. In strict mode the first error stops
// loading; otherwise failing files are returned in skipped.
func LoadFiles(paths []string, strict bool) (sections []Section, skipped []Skipped, err error) {
	for _, path := range paths {
		loaded, loadErr := LoadFile(path)
		if loadErr != nil {
			if strict {
				return nil, nil, loadErr
			}
			skipped = append(skipped, Skipped{Path: path, Err: loadErr})
			continue
		}
		sections = append(sections, loaded...)
	}
	return sections, skipped, nil
}
