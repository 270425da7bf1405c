package ui

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leonardomso/lessonblocks/internal/scanner"
	"github.com/leonardomso/lessonblocks/internal/section"
)

// LoadSectionsCmd returns a command that scans for section files and loads them.
// Sections are ordered by file, then by their order within the file.
func LoadSectionsCmd(opts scanner.ScanOptions) tea.Cmd {
	return func() tea.Msg {
		files, err := scanner.FindFilesWithOptions(opts)
		if err != nil {
			return SectionsLoadedMsg{Err: err}
		}

		sections, skipped, err := section.LoadFiles(files, false)
		if err != nil {
			return SectionsLoadedMsg{Err: err}
		}

		sort.SliceStable(sections, func(i, j int) bool {
			return sections[i].Source < sections[j].Source
		})

		return SectionsLoadedMsg{Files: files, Sections: sections, Skipped: skipped}
	}
}
