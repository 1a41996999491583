// Package panel renders small framed detail boxes for the TUI.
package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"tableflip.dev/palette/pkg/tui/events"
	"tableflip.dev/palette/pkg/tui/theme"
)

// Model renders a titled panel of key/value rows describing one palette item.
type Model struct {
	title      string
	rows       [][2]string
	width      int
	frameStyle lipgloss.Style
	titleStyle lipgloss.Style
	bodyStyle  lipgloss.Style
}

// New returns an empty panel styled by th.
func New(th theme.PanelTheme) Model {
	return Model{
		frameStyle: th.Frame,
		titleStyle: th.Title,
		bodyStyle:  th.Body,
	}
}

// SetWidth caps the outer width of the panel. Zero means unbounded.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// SetItem fills the panel with the fields of ref that are set.
func (m *Model) SetItem(title string, ref events.ItemRef) {
	m.title = title
	m.rows = m.rows[:0]
	for _, kv := range [][2]string{
		{"label", ref.Label},
		{"link", ref.Href},
		{"group", ref.Group},
		{"id", ref.ID},
	} {
		if kv[1] != "" {
			m.rows = append(m.rows, kv)
		}
	}
}

// Reset clears panel content.
func (m *Model) Reset() {
	m.title = ""
	m.rows = nil
}

// Empty reports whether there is anything to show.
func (m Model) Empty() bool { return m.title == "" && len(m.rows) == 0 }

// View returns the rendered panel string and its total height in lines.
func (m Model) View() (string, int) {
	if m.Empty() {
		return "", 0
	}
	inner := 0
	if m.width > 0 {
		inner = max(1, m.width-m.frameStyle.GetHorizontalFrameSize())
	}

	var content []string
	if m.title != "" {
		content = append(content, m.fit(m.titleStyle.Render(m.title), inner))
	}
	keyWidth := 0
	for _, kv := range m.rows {
		keyWidth = max(keyWidth, len(kv[0]))
	}
	for _, kv := range m.rows {
		line := kv[0] + strings.Repeat(" ", keyWidth-len(kv[0])) + "  " + kv[1]
		content = append(content, m.fit(m.bodyStyle.Render(line), inner))
	}
	view := m.frameStyle.Render(strings.Join(content, "\n"))
	return view, strings.Count(view, "\n") + 1
}

func (m Model) fit(line string, width int) string {
	if width <= 0 {
		return line
	}
	return ansi.Truncate(line, width, "…")
}
