// Package ui implements the interactive lesson viewer.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leonardomso/lessonblocks/internal/block"
	"github.com/leonardomso/lessonblocks/internal/parser"
	"github.com/leonardomso/lessonblocks/internal/render"
	"github.com/leonardomso/lessonblocks/internal/scanner"
	"github.com/leonardomso/lessonblocks/internal/section"
)

// =============================================================================
// STATE MACHINE
// =============================================================================

type appState int

const (
	stateLoading appState = iota // Scanning and loading section files
	stateList                    // Choosing a section
	stateReading                 // Reading one section
)

// chromeHeight is the number of rows used by the header and help line.
const chromeHeight = 6

// defaultWidth is used until the terminal reports its size.
const defaultWidth = 80

// =============================================================================
// MODEL
// =============================================================================

// Options configure the viewer.
type Options struct {
	// Scan locates section files. Ignored by NewWithSections.
	Scan scanner.ScanOptions
	// Parser turns section content into blocks. Nil uses parser.Default().
	Parser *parser.Parser
	// Width caps the text width. 0 follows the terminal.
	Width int
	// FontSize is the initial font size.
	FontSize render.FontSize
}

// Model is the main application model.
type Model struct {
	// State
	state    appState
	quitting bool
	err      error

	// Data
	files     []string
	sections  []section.Section
	skipped   []section.Skipped
	current   int
	bookmarks map[string]bool

	// Reader settings
	parser   *parser.Parser
	fontSize render.FontSize
	maxWidth int

	// Components
	spinner  spinner.Model
	list     list.Model
	viewport viewport.Model
	help     help.Model
	keys     KeyMap

	// UI state
	width    int
	height   int
	showHelp bool

	scan scanner.ScanOptions
}

// New creates a viewer that loads sections as described by opts.Scan.
func New(opts Options) Model {
	if opts.Scan.Root == "" {
		opts.Scan.Root = "."
	}
	if opts.Parser == nil {
		opts.Parser = parser.Default()
	}
	if opts.FontSize == "" {
		opts.FontSize = render.FontNormal
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = SelectedStyle
	delegate.Styles.SelectedDesc = StatusStyle

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Sections"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false) // We use our own help
	l.Styles.Title = TitleStyle

	return Model{
		state:     stateLoading,
		bookmarks: map[string]bool{},
		parser:    opts.Parser,
		fontSize:  opts.FontSize,
		maxWidth:  opts.Width,
		spinner:   s,
		list:      l,
		viewport:  viewport.New(defaultWidth, 20),
		help:      help.New(),
		keys:      DefaultKeyMap(),
		scan:      opts.Scan,
	}
}

// NewWithSections creates a viewer over sections that are already loaded.
func NewWithSections(opts Options, sections []section.Section) Model {
	m := New(opts)
	m.setSections(sections)
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.state != stateLoading {
		return nil
	}
	return tea.Batch(m.spinner.Tick, LoadSectionsCmd(m.scan))
}

// FontSize returns the active font size.
func (m Model) FontSize() render.FontSize {
	return m.fontSize
}

// Bookmarked reports whether the section at index i is bookmarked.
func (m Model) Bookmarked(i int) bool {
	if i < 0 || i >= len(m.sections) {
		return false
	}
	return m.bookmarks[sectionKey(m.sections[i])]
}

// Current returns the index of the section being read, or -1 outside the reader.
func (m Model) Current() int {
	if m.state != stateReading {
		return -1
	}
	return m.current
}

// Blocks parses the current section. It is called on every render pass, so
// the result depends only on the section content.
func (m Model) Blocks() []block.Block {
	if m.current < 0 || m.current >= len(m.sections) {
		return []block.Block{}
	}
	return m.parser.Parse(m.sections[m.current].Content)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := max(msg.Height-chromeHeight, 5)
		m.list.SetSize(msg.Width, bodyHeight)
		m.viewport.Width = msg.Width
		m.viewport.Height = bodyHeight
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SectionsLoadedMsg:
		return m.handleSectionsLoaded(msg)
	}

	var cmd tea.Cmd
	switch m.state {
	case stateList:
		m.list, cmd = m.list.Update(msg)
	case stateReading:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter is being typed, every key belongs to the list.
	if m.state == stateList && m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	// Global keys that work in any state
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}

	if key.Matches(msg, m.keys.FontSize) {
		m.fontSize = m.fontSize.Next()
		m.refreshViewport()
		return m, nil
	}

	switch m.state {
	case stateList:
		switch {
		case key.Matches(msg, m.keys.Open):
			if i, ok := m.selectedIndex(); ok {
				m.open(i)
			}
			return m, nil
		case key.Matches(msg, m.keys.Bookmark):
			if i, ok := m.selectedIndex(); ok {
				m.toggleBookmark(i)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd

	case stateReading:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.state = stateList
			return m, nil
		case key.Matches(msg, m.keys.Bookmark):
			m.toggleBookmark(m.current)
			return m, nil
		case key.Matches(msg, m.keys.Home):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.End):
			m.viewport.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleSectionsLoaded(msg SectionsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.state = stateList
		return m, nil
	}
	m.files = msg.Files
	m.skipped = msg.Skipped
	m.setSections(msg.Sections)
	return m, nil
}

func (m *Model) setSections(sections []section.Section) {
	m.sections = sections
	m.state = stateList
	m.updateListItems()
	// A single section opens straight into the reader.
	if len(sections) == 1 {
		m.open(0)
	}
}

// updateListItems rebuilds the list so bookmark markers stay current.
func (m *Model) updateListItems() {
	items := make([]list.Item, len(m.sections))
	for i, s := range m.sections {
		items[i] = SectionItem{Section: s, Bookmarked: m.bookmarks[sectionKey(s)]}
	}
	m.list.SetItems(items)
}

// selectedIndex maps the list selection back to an index in m.sections.
func (m Model) selectedIndex() (int, bool) {
	item, ok := m.list.SelectedItem().(SectionItem)
	if !ok {
		return 0, false
	}
	k := item.Key()
	for i, s := range m.sections {
		if sectionKey(s) == k {
			return i, true
		}
	}
	return 0, false
}

func (m *Model) open(i int) {
	m.current = i
	m.state = stateReading
	m.refreshViewport()
	m.viewport.GotoTop()
}

func (m *Model) toggleBookmark(i int) {
	if i < 0 || i >= len(m.sections) {
		return
	}
	k := sectionKey(m.sections[i])
	if m.bookmarks[k] {
		delete(m.bookmarks, k)
	} else {
		m.bookmarks[k] = true
	}
	m.updateListItems()
}

// refreshViewport re-renders the current section into the viewport so its
// scroll bounds match the content.
func (m *Model) refreshViewport() {
	if m.state != stateReading {
		return
	}
	m.viewport.SetContent(m.renderSection())
}

// textWidth is the wrap width for section text.
func (m Model) textWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	w -= 2
	if m.maxWidth > 0 && m.maxWidth < w {
		w = m.maxWidth
	}
	return max(w, 10)
}

// renderSection parses and renders the current section from scratch.
func (m Model) renderSection() string {
	r := render.NewTerminal(render.Options{Width: m.textWidth(), FontSize: m.fontSize})
	return render.String(r, m.Blocks())
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder

	// Header
	b.WriteString(TitleStyle.Render("Lesson Blocks"))
	b.WriteString("\n\n")

	// Error state
	if m.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("Press q to quit"))
		return b.String()
	}

	switch m.state {
	case stateLoading:
		b.WriteString(m.spinner.View() + " Loading sections...")

	case stateList:
		b.WriteString(m.renderList())

	case stateReading:
		b.WriteString(m.renderReader())
	}

	if m.showHelp {
		b.WriteString("\n\n" + m.help.View(m.keys))
	} else {
		b.WriteString("\n\n" + m.renderShortHelp())
	}

	return b.String()
}

func (m Model) renderList() string {
	if len(m.sections) == 0 {
		return MutedStyle.Render("No sections found.")
	}

	var b strings.Builder
	if len(m.skipped) > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("⚠ %d file(s) skipped", len(m.skipped))))
		b.WriteString("\n")
	}
	b.WriteString(m.list.View())
	return b.String()
}

func (m Model) renderReader() string {
	s := m.sections[m.current]

	var b strings.Builder
	header := SelectedStyle.Render(s.Title) + "  " + FontBadge.Render(string(m.fontSize))
	if m.Bookmarked(m.current) {
		header += "  " + BookmarkStyle.Render("★ bookmarked")
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render(s.Source))
	b.WriteString("\n\n")

	// Re-render from the source text on every pass; the viewport copy keeps
	// its scroll offset.
	vp := m.viewport
	vp.SetContent(m.renderSection())
	b.WriteString(vp.View())

	return b.String()
}

func (m Model) renderShortHelp() string {
	if m.state == stateReading {
		return HelpStyle.Render("↑/↓ scroll • f font size • b bookmark • esc back • ? help • q quit")
	}
	return HelpStyle.Render("↑/↓ navigate • enter open • b bookmark • / filter • ? help • q quit")
}
