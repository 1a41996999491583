package eventviewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/palette/pkg/palette"
	"tableflip.dev/palette/pkg/tui/events"
	"tableflip.dev/palette/pkg/tui/theme"
	"tableflip.dev/palette/pkg/tui/ui"
)

// Level indicates the severity of a logged event.
type Level int

const (
	// LevelInfo is the default severity.
	LevelInfo Level = iota
	// LevelWarn highlights potential issues.
	LevelWarn
	// LevelError highlights failures.
	LevelError
)

// Entry captures a rendered event.
type Entry struct {
	Timestamp time.Time
	Source    string
	Summary   string
	Detail    string
	Level     Level
}

// Model renders a streaming event log.
type Model struct {
	viewport viewport.Model
	entries  []Entry

	maxEntries int
	followTop  bool

	width  int
	height int

	styles Styles
}

// Styles controls the log's presentation.
type Styles struct {
	Frame     lipgloss.Style
	Header    lipgloss.Style
	Info      lipgloss.Style
	Warn      lipgloss.Style
	Error     lipgloss.Style
	Timestamp lipgloss.Style
	Source    lipgloss.Style
}

// DefaultStyles derives the log styling from the default theme.
func DefaultStyles() Styles {
	return StylesFromTheme(theme.Default())
}

// StylesFromTheme maps a UI theme onto the log.
func StylesFromTheme(t theme.Theme) Styles {
	return Styles{
		Frame:     t.Panel.Frame,
		Header:    t.Panel.Title,
		Info:      t.Panel.Body,
		Warn:      t.Palette.Mark,
		Error:     t.Footer.Error,
		Timestamp: t.Footer.Help,
		Source:    t.Footer.Status,
	}
}

// NewModel constructs an event viewer capped at the provided entry count.
func NewModel(maxEntries int) *Model {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	vp := viewport.New(
		viewport.WithWidth(1),
		viewport.WithHeight(1),
	)
	return &Model{
		viewport:   vp,
		maxEntries: maxEntries,
		followTop:  true,
		styles:     DefaultStyles(),
	}
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements ui.Component. Palette messages are logged; everything
// else scrolls the viewport.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	if entry, ok := EntryFor(msg); ok {
		m.Append(entry)
		return m, nil
	}
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	m.followTop = m.viewport.AtTop()
	return m, cmd
}

// Len reports how many entries are retained.
func (m *Model) Len() int { return len(m.entries) }

// EntryFor converts a palette message into a log entry.
func EntryFor(msg tea.Msg) (Entry, bool) {
	entry := Entry{Timestamp: time.Now(), Level: LevelInfo}
	switch v := msg.(type) {
	case events.InitializedMsg:
		entry.Source, entry.Summary, entry.Detail = string(v.Component), "initialized", v.Describe()
	case events.QueryChangeMsg:
		entry.Source, entry.Summary, entry.Detail = string(v.Component), "query", v.Describe()
	case events.StateMsg:
		entry.Source, entry.Summary, entry.Detail = string(v.Component), "state", v.Describe()
		if v.State == palette.StateError {
			entry.Level = LevelError
		}
	case events.SearchCompletedMsg:
		entry.Source, entry.Summary, entry.Detail = string(v.Component), "search-completed", v.Describe()
		if len(v.Results) == 0 {
			entry.Level = LevelWarn
		}
	case events.HighlightMsg:
		entry.Source, entry.Summary, entry.Detail = string(v.Component), "highlight", v.Describe()
	case events.ActivateMsg:
		entry.Source, entry.Summary, entry.Detail = string(v.Component), "activate", v.Describe()
	case events.CloseRequestMsg:
		entry.Source, entry.Summary, entry.Detail = string(v.Component), "close", v.Describe()
	case events.CatalogChangedMsg:
		entry.Source, entry.Summary, entry.Detail = "store", "catalog", v.Describe()
	default:
		return Entry{}, false
	}
	return entry, true
}

// SetSize resizes the viewport while keeping the header + border intact.
func (m *Model) SetSize(width, height int) {
	if width < 4 {
		width = 4
	}
	if height < 3 {
		height = 3
	}
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height

	innerWidth := max(1, width-2)
	innerHeight := max(1, height-2)
	headerRows := 1
	m.viewport.SetWidth(innerWidth)
	m.viewport.SetHeight(max(1, innerHeight-headerRows))
	m.refreshContent()
}

// View renders the bordered viewport.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.styles.Header.Render("Events")
	body := lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())
	return m.styles.Frame.Width(m.width).Height(m.height).Render(body)
}

// Append inserts a new entry at the top of the log.
func (m *Model) Append(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Source == "" {
		entry.Source = "tea"
	}
	if entry.Summary == "" {
		entry.Summary = "event"
	}
	m.entries = append([]Entry{entry}, m.entries...)
	if len(m.entries) > m.maxEntries {
		m.entries = m.entries[:m.maxEntries]
	}
	m.refreshContent()
	if m.followTop {
		m.viewport.SetYOffset(0)
	}
}

// Clear drops all logged entries.
func (m *Model) Clear() {
	m.entries = nil
	m.refreshContent()
}

// WithStyles overrides the default styling.
func (m *Model) WithStyles(styles Styles) {
	m.styles = styles
	m.refreshContent()
}

func (m *Model) refreshContent() {
	lines := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		lines = append(lines, m.renderEntry(entry))
	}
	content := strings.Join(lines, "\n")
	if content == "" {
		content = m.styles.Timestamp.Render("No events yet")
	}
	m.viewport.SetContent(content)
}

func (m *Model) renderEntry(entry Entry) string {
	ts := m.styles.Timestamp.Render(entry.Timestamp.Format("15:04:05.000"))
	source := m.styles.Source.Render(fmt.Sprintf("[%s]", entry.Source))
	msg := entry.Summary
	if entry.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, entry.Detail)
	}
	switch entry.Level {
	case LevelWarn:
		msg = m.styles.Warn.Render(msg)
	case LevelError:
		msg = m.styles.Error.Render(msg)
	default:
		msg = m.styles.Info.Render(msg)
	}
	return fmt.Sprintf("%s %s %s", ts, source, msg)
}
