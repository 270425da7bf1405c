package ui

import "github.com/leonardomso/lessonblocks/internal/section"

// SectionsLoadedMsg is sent when section files have been found and loaded.
type SectionsLoadedMsg struct {
	Err      error
	Files    []string
	Sections []section.Section
	Skipped  []section.Skipped
}
