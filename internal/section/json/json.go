// Package json loads lesson sections from JSON files.
// A file holds a single section object, an object with a "sections" array,
// or a top-level array of section objects.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/leonardomso/lessonblocks/internal/section"
)

// Loader implements section.Loader for JSON files.
type Loader struct{}

// New creates a new JSON loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (*Loader) Extensions() []string {
	return []string{".json"}
}

// Load decodes the sections in content.
func (*Loader) Load(filename string, content []byte) ([]section.Section, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var records []section.Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return section.FromRecords(filename, records), nil
	}

	var env section.Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return section.FromRecords(filename, env.Records()), nil
}

func init() {
	section.RegisterLoader(New())
}
