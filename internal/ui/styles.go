package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leonardomso/lessonblocks/internal/render"
)

// Text styles. Colors come from the terminal renderer's palette.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(render.PrimaryColor).
			MarginBottom(1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(render.SecondaryColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(render.PrimaryColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(render.SecondaryColor).
			MarginTop(1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(render.MutedColor)

	BookmarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	// FontBadge marks the active font size in the reader header.
	FontBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(render.AccentColor).
			Padding(0, 1)
)

// SpinnerStyle returns the style for the spinner.
func SpinnerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(render.PrimaryColor)
}
