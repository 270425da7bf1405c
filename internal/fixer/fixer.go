// Package fixer rewrites lesson text files into canonical lesson markup.
//
// Canonical markup is what the markdown renderer produces for the parsed
// blocks: ordered items are numbered "1.", whitespace-only lines become empty,
// fence language tags are trimmed and line endings are LF. Front matter is
// kept byte for byte. Structured section files (JSON, YAML, TOML) are never
// rewritten.
package fixer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/leonardomso/lessonblocks/internal/helpers"
	"github.com/leonardomso/lessonblocks/internal/parser"
	"github.com/leonardomso/lessonblocks/internal/render"
	"github.com/leonardomso/lessonblocks/internal/section/markdown"
)

// Fix is one line that changes.
type Fix struct {
	Line int    // 1-based line number in the file
	Old  string // Line as it is now
	New  string // Canonical line
}

// FileChanges groups all fixes for a single file.
type FileChanges struct {
	FilePath  string
	Fixes     []Fix
	Formatted string // Full canonical file content
}

// FixResult represents the outcome of applying fixes to a file.
type FixResult struct {
	Error    error
	FilePath string
	Applied  int
	Skipped  int
}

// Fixer finds and applies canonical-markup rewrites.
type Fixer struct {
	parser   *parser.Parser
	renderer render.Renderer
	exts     map[string]bool
}

// New creates a new Fixer. It always parses with the skip-ahead fence
// policy; the duplicate policy would copy code lines out of their fences.
func New() *Fixer {
	exts := map[string]bool{}
	for _, ext := range markdown.New().Extensions() {
		exts[ext] = true
	}
	return &Fixer{
		parser:   parser.New(parser.WithFencePolicy(parser.FenceSkipAhead)),
		renderer: render.NewMarkdown(),
		exts:     exts,
	}
}

// Accepts reports whether the file is lesson text the fixer may rewrite.
func (f *Fixer) Accepts(path string) bool {
	return f.exts[strings.ToLower(filepath.Ext(path))]
}

// Format returns the canonical form of a lesson file. Front matter, when
// present, is copied unchanged.
func (f *Fixer) Format(content string) (string, error) {
	if content == "" {
		return "", nil
	}
	prefix, body, err := splitFrontMatter(content)
	if err != nil {
		return "", err
	}
	return prefix + render.String(f.renderer, f.parser.Parse(body)), nil
}

// splitFrontMatter returns the raw front matter block and the body.
func splitFrontMatter(content string) (prefix, body string, err error) {
	var meta map[string]any
	rest, err := frontmatter.Parse(bytes.NewReader([]byte(content)), &meta)
	if err != nil {
		return "", "", fmt.Errorf("parse front matter: %w", err)
	}
	body = string(rest)
	if !strings.HasSuffix(content, body) {
		return "", content, nil
	}
	return content[:len(content)-len(body)], body, nil
}

// FindFixes reads each accepted file and reports the lines that are not
// canonical. Files that are already canonical are left out.
func (f *Fixer) FindFixes(paths []string) ([]FileChanges, error) {
	result := make([]FileChanges, 0, len(paths))

	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	for _, path := range sorted {
		if !f.Accepts(path) {
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		fc, err := f.Diff(path, string(content))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(fc.Fixes) > 0 {
			result = append(result, fc)
		}
	}

	return result, nil
}

// Diff compares content with its canonical form line by line.
func (f *Fixer) Diff(path, content string) (FileChanges, error) {
	formatted, err := f.Format(content)
	if err != nil {
		return FileChanges{}, err
	}

	fc := FileChanges{FilePath: path, Formatted: formatted}
	if formatted == content {
		return fc, nil
	}

	oldLines := strings.Split(content, "\n")
	newLines := strings.Split(formatted, "\n")
	for i := range max(len(oldLines), len(newLines)) {
		var o, n string
		if i < len(oldLines) {
			o = oldLines[i]
		}
		if i < len(newLines) {
			n = newLines[i]
		}
		if o != n {
			fc.Fixes = append(fc.Fixes, Fix{Line: i + 1, Old: o, New: n})
		}
	}

	return fc, nil
}

// Preview returns a formatted string showing what changes would be made.
func (*Fixer) Preview(changes []FileChanges) string {
	if len(changes) == 0 {
		return "All files are already canonical."
	}

	var b strings.Builder
	total := 0
	for _, fc := range changes {
		total += len(fc.Fixes)
	}

	b.WriteString(fmt.Sprintf("Found %d non-canonical line(s) across %d file(s):\n\n",
		total, len(changes)))

	for _, fc := range changes {
		b.WriteString(fmt.Sprintf("%s (%d line(s))\n", fc.FilePath, len(fc.Fixes)))

		for _, fix := range fc.Fixes {
			b.WriteString(fmt.Sprintf("  Line %d: %s\n", fix.Line, displayLine(fix.Old)))
			b.WriteString(fmt.Sprintf("          -> %s\n", displayLine(fix.New)))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// displayLine quotes lines whose change would otherwise be invisible.
func displayLine(s string) string {
	if s == "" || strings.TrimSpace(s) != s {
		return fmt.Sprintf("%q", s)
	}
	return helpers.TruncateText(s, 70)
}

// ApplyToFile writes the canonical content of a single file.
func (*Fixer) ApplyToFile(fc FileChanges) (*FixResult, error) {
	result := &FixResult{FilePath: fc.FilePath}

	info, err := os.Stat(fc.FilePath)
	if err != nil {
		result.Error = fmt.Errorf("reading file: %w", err)
		return result, result.Error
	}

	if err := os.WriteFile(fc.FilePath, []byte(fc.Formatted), info.Mode().Perm()); err != nil {
		result.Error = fmt.Errorf("writing file: %w", err)
		return result, result.Error
	}

	result.Applied = len(fc.Fixes)
	return result, nil
}

// ApplyAll applies fixes to all files and returns results.
func (f *Fixer) ApplyAll(changes []FileChanges) []FixResult {
	results := make([]FixResult, 0, len(changes))

	for _, fc := range changes {
		result, _ := f.ApplyToFile(fc)
		results = append(results, *result)
	}

	return results
}

// Summary returns a formatted summary of fix results.
func Summary(results []FixResult) string {
	var b strings.Builder

	totalApplied := 0
	totalSkipped := 0
	filesModified := 0
	var errors []string

	for _, r := range results {
		totalApplied += r.Applied
		totalSkipped += r.Skipped
		if r.Applied > 0 {
			filesModified++
		}
		if r.Error != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", r.FilePath, r.Error))
		}
	}

	if totalApplied == 0 && len(errors) == 0 {
		return "No changes made."
	}

	b.WriteString(fmt.Sprintf("Rewrote %d line(s) across %d file(s).\n", totalApplied, filesModified))

	if totalSkipped > 0 {
		b.WriteString(fmt.Sprintf("Skipped %d line(s).\n", totalSkipped))
	}

	if len(errors) > 0 {
		b.WriteString("\nErrors:\n")
		for _, e := range errors {
			b.WriteString(fmt.Sprintf("  %s\n", e))
		}
	}

	return b.String()
}
