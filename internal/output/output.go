// Package output provides formatting and file writing for parse reports.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leonardomso/lessonblocks/internal/block"
)

// Format represents an output format type.
type Format string

const (
	// FormatJSON outputs as JSON.
	FormatJSON Format = "json"
	// FormatYAML outputs as YAML.
	FormatYAML Format = "yaml"
	// FormatXML outputs as generic XML.
	FormatXML Format = "xml"
	// FormatTOML outputs as TOML.
	FormatTOML Format = "toml"
	// FormatMarkdown outputs as a Markdown report.
	FormatMarkdown Format = "markdown"
)

// timeLayout is used for GeneratedAt in every format.
const timeLayout = "2006-01-02T15:04:05Z07:00"

// ValidFormats returns all valid format strings.
func ValidFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
		string(FormatXML),
		string(FormatTOML),
		string(FormatMarkdown),
	}
}

// IsValidFormat checks if a format string is valid.
func IsValidFormat(s string) bool {
	switch Format(strings.ToLower(s)) {
	case FormatJSON, FormatYAML, FormatXML, FormatTOML, FormatMarkdown:
		return true
	default:
		return false
	}
}

// Document is one parsed section.
type Document struct {
	Source string
	Title  string
	Slug   string
	Order  int
	Blocks []block.Block
}

// Skipped is a file that could not be loaded.
type Skipped struct {
	Path  string
	Error string
}

// Report contains all data needed for output formatting.
type Report struct {
	GeneratedAt time.Time
	FencePolicy string
	Files       []string
	Documents   []Document
	Skipped     []Skipped
}

// TotalBlocks returns the number of blocks across all documents.
func (r *Report) TotalBlocks() int {
	n := 0
	for _, d := range r.Documents {
		n += len(d.Blocks)
	}
	return n
}

// Formatter is the interface that output formatters implement.
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// GetFormatter returns the appropriate formatter for a format.
func GetFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatXML:
		return &XMLFormatter{}, nil
	case FormatTOML:
		return &TOMLFormatter{}, nil
	case FormatMarkdown:
		return &MarkdownFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// FormatReport formats a report using the specified format.
func FormatReport(report *Report, format Format) ([]byte, error) {
	formatter, err := GetFormatter(format)
	if err != nil {
		return nil, err
	}
	return formatter.Format(report)
}

// InferFormat determines the output format from a filename extension.
func InferFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xml":
		return FormatXML, nil
	case ".toml":
		return FormatTOML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf(
			"cannot infer format from extension %q (supported: .json, .yaml, .yml, .xml, .toml, .md, .markdown)",
			ext,
		)
	}
}

// WriteToFile writes a formatted report to a file.
func WriteToFile(report *Report, filename string) error {
	format, err := InferFormat(filename)
	if err != nil {
		return err
	}

	data, err := FormatReport(report, format)
	if err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
