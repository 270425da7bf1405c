package output

import (
	"encoding/xml"

	"github.com/leonardomso/lessonblocks/internal/block"
)

// XMLFormatter formats reports as generic XML.
type XMLFormatter struct{}

// xmlOutput is the XML structure for output.
type xmlOutput struct {
	XMLName     xml.Name      `xml:"report"`
	GeneratedAt string        `xml:"generated_at,attr"`
	FencePolicy string        `xml:"fence_policy,attr,omitempty"`
	TotalFiles  int           `xml:"total_files,attr"`
	TotalBlocks int           `xml:"total_blocks,attr"`
	Summary     xmlSummary    `xml:"summary"`
	Documents   xmlDocuments  `xml:"documents"`
	Skipped     *xmlSkipped   `xml:"skipped,omitempty"`
}

type xmlSummary struct {
	Kinds []xmlKindCount `xml:"kind"`
}

type xmlKindCount struct {
	Name  string `xml:"name,attr"`
	Count int    `xml:"count,attr"`
}

type xmlDocuments struct {
	Documents []xmlDocument `xml:"document"`
}

type xmlDocument struct {
	Source string         `xml:"source,attr"`
	Title  string         `xml:"title,attr,omitempty"`
	Slug   string         `xml:"slug,attr,omitempty"`
	Order  int            `xml:"order,attr"`
	Blocks []block.Record `xml:"block"`
}

type xmlSkipped struct {
	Files []xmlSkippedFile `xml:"file"`
}

type xmlSkippedFile struct {
	Path  string `xml:"path,attr"`
	Error string `xml:",chardata"`
}

// Format implements Formatter.
func (*XMLFormatter) Format(report *Report) ([]byte, error) {
	output := xmlOutput{
		GeneratedAt: report.GeneratedAt.Format(timeLayout),
		FencePolicy: report.FencePolicy,
		TotalFiles:  len(report.Files),
		TotalBlocks: report.TotalBlocks(),
	}

	// Kinds() fixes the order; ranging over the count map would not.
	counts := countByKind(report.Documents)
	for _, k := range block.Kinds() {
		output.Summary.Kinds = append(output.Summary.Kinds, xmlKindCount{
			Name:  string(k),
			Count: counts[string(k)],
		})
	}

	for _, d := range report.Documents {
		output.Documents.Documents = append(output.Documents.Documents, xmlDocument{
			Source: d.Source,
			Title:  d.Title,
			Slug:   d.Slug,
			Order:  d.Order,
			Blocks: block.Records(d.Blocks),
		})
	}

	if len(report.Skipped) > 0 {
		output.Skipped = &xmlSkipped{}
		for _, s := range report.Skipped {
			output.Skipped.Files = append(output.Skipped.Files, xmlSkippedFile(s))
		}
	}

	data, err := xml.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), data...), nil
}
