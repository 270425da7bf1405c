// Package yaml loads lesson sections from YAML files.
// Every document in a multi-document stream contributes sections: a mapping
// is one section (or a "sections" list), a sequence is a list of sections.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/leonardomso/lessonblocks/internal/section"
)

// Loader implements section.Loader for YAML files.
type Loader struct{}

// New creates a new YAML loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (*Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Load decodes every document in content.
func (*Loader) Load(filename string, content []byte) ([]section.Section, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}

	var records []section.Record

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	for {
		var node yaml.Node
		if err := decoder.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}

		decoded, err := decodeDocument(&node)
		if err != nil {
			return nil, err
		}
		records = append(records, decoded...)
	}

	return section.FromRecords(filename, records), nil
}

// decodeDocument decodes one YAML document node into records.
func decodeDocument(doc *yaml.Node) ([]section.Record, error) {
	node := doc
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil, nil
		}
		node = doc.Content[0]
	}

	switch node.Kind {
	case yaml.SequenceNode:
		var records []section.Record
		if err := node.Decode(&records); err != nil {
			return nil, fmt.Errorf("invalid YAML section list: %w", err)
		}
		return records, nil

	case yaml.MappingNode:
		var env section.Envelope
		if err := node.Decode(&env); err != nil {
			return nil, fmt.Errorf("invalid YAML section: %w", err)
		}
		return env.Records(), nil

	default:
		return nil, fmt.Errorf("invalid YAML section: expected mapping or sequence at line %d", node.Line)
	}
}

func init() {
	section.RegisterLoader(New())
}
