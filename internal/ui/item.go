package ui

import (
	"fmt"

	"github.com/leonardomso/lessonblocks/internal/helpers"
	"github.com/leonardomso/lessonblocks/internal/section"
)

// SectionItem wraps a section.Section to implement list.Item interface.
type SectionItem struct {
	Section    section.Section
	Bookmarked bool
}

// Key identifies the section across reloads.
func (i SectionItem) Key() string {
	return sectionKey(i.Section)
}

func sectionKey(s section.Section) string {
	return fmt.Sprintf("%s#%d", s.Source, s.Index)
}

// FilterValue returns the string used for filtering.
// Implements list.Item interface.
func (i SectionItem) FilterValue() string {
	return i.Section.Title
}

// Title returns the main display text for the item.
// Implements list.DefaultItem interface.
func (i SectionItem) Title() string {
	title := helpers.TruncateText(i.Section.Title, 60)
	if title == "" {
		title = "(untitled)"
	}
	if i.Bookmarked {
		return BookmarkStyle.Render("★") + " " + title
	}
	return title
}

// Description returns secondary text for the item.
// Implements list.DefaultItem interface.
func (i SectionItem) Description() string {
	s := i.Section
	desc := helpers.TruncatePath(s.Source, 50)
	if s.Order != 0 {
		desc = fmt.Sprintf("#%d | %s", s.Order, desc)
	}
	if s.Slug != "" {
		desc += " | " + s.Slug
	}
	return desc
}
