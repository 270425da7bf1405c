package output

import (
	"github.com/leonardomso/lessonblocks/internal/block"
)

// reportOutput is the tree shared by the JSON, YAML and TOML formatters.
type reportOutput struct {
	GeneratedAt string           `json:"generated_at" yaml:"generated_at" toml:"generated_at"`
	FencePolicy string           `json:"fence_policy,omitempty" yaml:"fence_policy,omitempty" toml:"fence_policy,omitempty"`
	Summary     summaryOutput    `json:"summary" yaml:"summary" toml:"summary"`
	Documents   []documentOutput `json:"documents" yaml:"documents" toml:"documents"`
	Skipped     []skippedOutput  `json:"skipped,omitempty" yaml:"skipped,omitempty" toml:"skipped,omitempty"`
}

type summaryOutput struct {
	TotalFiles     int            `json:"total_files" yaml:"total_files" toml:"total_files"`
	TotalDocuments int            `json:"total_documents" yaml:"total_documents" toml:"total_documents"`
	TotalBlocks    int            `json:"total_blocks" yaml:"total_blocks" toml:"total_blocks"`
	ByKind         map[string]int `json:"by_kind" yaml:"by_kind" toml:"by_kind"`
}

type documentOutput struct {
	Source string         `json:"source" yaml:"source" toml:"source"`
	Title  string         `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Slug   string         `json:"slug,omitempty" yaml:"slug,omitempty" toml:"slug,omitempty"`
	Order  int            `json:"order" yaml:"order" toml:"order"`
	Blocks []block.Record `json:"blocks" yaml:"blocks" toml:"blocks"`
}

type skippedOutput struct {
	Path  string `json:"path" yaml:"path" toml:"path"`
	Error string `json:"error" yaml:"error" toml:"error"`
}

func newReportOutput(report *Report) reportOutput {
	out := reportOutput{
		GeneratedAt: report.GeneratedAt.Format(timeLayout),
		FencePolicy: report.FencePolicy,
		Summary: summaryOutput{
			TotalFiles:     len(report.Files),
			TotalDocuments: len(report.Documents),
			TotalBlocks:    report.TotalBlocks(),
			ByKind:         countByKind(report.Documents),
		},
		Documents: make([]documentOutput, 0, len(report.Documents)),
	}

	for _, d := range report.Documents {
		out.Documents = append(out.Documents, documentOutput{
			Source: d.Source,
			Title:  d.Title,
			Slug:   d.Slug,
			Order:  d.Order,
			Blocks: block.Records(d.Blocks),
		})
	}

	for _, s := range report.Skipped {
		out.Skipped = append(out.Skipped, skippedOutput(s))
	}

	return out
}

// countByKind totals blocks per kind, including kinds that never occur.
func countByKind(docs []Document) map[string]int {
	counts := make(map[string]int, len(block.Kinds()))
	for _, k := range block.Kinds() {
		counts[string(k)] = 0
	}
	for _, d := range docs {
		for _, b := range d.Blocks {
			counts[string(b.Kind())]++
		}
	}
	return counts
}
