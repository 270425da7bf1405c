package output

import (
	"fmt"
	"strings"

	"github.com/leonardomso/lessonblocks/internal/block"
	"github.com/leonardomso/lessonblocks/internal/helpers"
)

// MarkdownFormatter formats reports as Markdown.
type MarkdownFormatter struct{}

// Format implements Formatter.
func (*MarkdownFormatter) Format(report *Report) ([]byte, error) {
	// Pre-grow builder: estimate ~300 bytes per document + ~500 bytes header
	var b strings.Builder
	b.Grow(len(report.Documents)*300 + 500)

	// Header
	b.WriteString("# Lesson Blocks Report\n\n")
	b.WriteString(fmt.Sprintf("**Generated:** %s  \n", report.GeneratedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("**Files Parsed:** %d  \n", len(report.Files)))
	b.WriteString(fmt.Sprintf("**Sections:** %d  \n", len(report.Documents)))
	b.WriteString(fmt.Sprintf("**Total Blocks:** %d\n\n", report.TotalBlocks()))

	// Summary table
	counts := countByKind(report.Documents)
	b.WriteString("## Summary\n\n")
	b.WriteString("| Kind | Count |\n")
	b.WriteString("|------|-------|\n")
	for _, k := range block.Kinds() {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", k, counts[string(k)]))
	}
	b.WriteString("\n")

	// Sections
	if len(report.Documents) > 0 {
		b.WriteString(fmt.Sprintf("## Sections (%d)\n\n", len(report.Documents)))
		b.WriteString("| Order | Title | Source | Blocks |\n")
		b.WriteString("|-------|-------|--------|--------|\n")
		for _, d := range report.Documents {
			b.WriteString(fmt.Sprintf("| %d | %s | %s | %d |\n",
				d.Order,
				helpers.EscapeTableCell(helpers.TruncateText(d.Title, 40)),
				helpers.EscapeTableCell(helpers.TruncatePath(d.Source, 50)),
				len(d.Blocks)))
		}
		b.WriteString("\n")

		// Outline of headings per section
		b.WriteString("### Outline\n\n")
		for _, d := range report.Documents {
			headings := block.Document(d.Blocks).Headings()
			if len(headings) == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("#### %s\n\n", d.Title))
			for _, h := range headings {
				b.WriteString(fmt.Sprintf("%s- %s\n", strings.Repeat("  ", h.Level-1), h.Text))
			}
			b.WriteString("\n")
		}
	}

	// Skipped files
	if len(report.Skipped) > 0 {
		b.WriteString(fmt.Sprintf("## Skipped Files (%d)\n\n", len(report.Skipped)))
		b.WriteString("| File | Error |\n")
		b.WriteString("|------|-------|\n")
		for _, s := range report.Skipped {
			b.WriteString(fmt.Sprintf("| %s | %s |\n",
				helpers.EscapeTableCell(s.Path),
				helpers.EscapeTableCell(helpers.TruncateText(s.Error, 80))))
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}
