package command

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/palette/pkg/palette"
	"tableflip.dev/palette/pkg/palette/sanitize"
	"tableflip.dev/palette/pkg/tui/events"
	"tableflip.dev/palette/pkg/tui/theme"
)

// Options configures the palette dialog.
type Options struct {
	ID          events.ComponentID
	Container   *palette.Container
	Prompt      string
	Placeholder string
	Theme       theme.PaletteTheme
	// MaxRows caps how many rows are shown at once. Defaults to 8.
	MaxRows int
	// ShowHref renders each row's link next to its label.
	ShowHref bool
}

type debounceMsg struct {
	component events.ComponentID
	pending   palette.Pending
}

type settleMsg struct {
	component events.ComponentID
	request   *palette.Request
	items     []palette.Item
	err       error
}

// frame rows above the first list line: top border and prompt.
const listTop = 2

// Model renders a command palette: a query prompt over a navigable list. It
// drives a palette.Container and translates its events into Bubble Tea
// messages.
type Model struct {
	id        events.ComponentID
	container *palette.Container
	styles    theme.PaletteTheme

	prompt     textinput.Model
	promptText string
	lastValue  string
	focused    bool
	showHref   bool

	width   int
	maxRows int

	windowStart int
	lineMap     []*palette.Element

	outbox []tea.Msg
}

// NewModel constructs a palette dialog around c.
func NewModel(opts Options) *Model {
	prompt := textinput.New()
	prompt.Placeholder = opts.Placeholder
	prompt.Prompt = ""
	prompt.Focus()
	prompt.Blur()

	id := opts.ID
	if id == "" {
		id = events.ComponentID("palette")
	}
	promptText := opts.Prompt
	if promptText == "" {
		promptText = "> "
	}
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = 8
	}

	m := &Model{
		id:         id,
		container:  opts.Container,
		styles:     opts.Theme,
		prompt:     prompt,
		promptText: promptText,
		showHref:   opts.ShowHref,
		maxRows:    maxRows,
		width:      48,
	}
	if m.container != nil {
		if in := m.container.Input(); in != nil && in.Value != "" {
			m.prompt.SetValue(in.Value)
			m.lastValue = in.Value
		}
		m.container.Observe(func(ev palette.Event) {
			if msg := events.FromPalette(m.id, ev); msg != nil {
				m.outbox = append(m.outbox, msg)
			}
		})
	}
	return m
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// Container returns the palette instance the dialog drives.
func (m *Model) Container() *palette.Container { return m.container }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return m.flush() }

// SetSize sets the dialog's outer width. Height follows the row count.
func (m *Model) SetSize(width, _ int) {
	if width < 16 {
		width = 16
	}
	m.width = width
	inner := m.innerWidth() - ansi.StringWidth(m.promptText)
	if inner < 1 {
		inner = 1
	}
	m.prompt.SetWidth(inner)
}

// SetTheme swaps the dialog styles.
func (m *Model) SetTheme(styles theme.PaletteTheme) { m.styles = styles }

// Focus moves keyboard focus into the prompt.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return tea.Batch(m.prompt.Focus(), events.FocusCmd(m.id))
}

// Blur releases focus.
func (m *Model) Blur() tea.Cmd {
	m.focused = false
	m.prompt.Blur()
	return events.BlurCmd(m.id)
}

// Focused reports whether the prompt has focus.
func (m *Model) Focused() bool { return m.focused }

// Value returns the current query text.
func (m *Model) Value() string { return m.prompt.Value() }

// SetQuery replaces the query as if the user had typed it.
func (m *Model) SetQuery(value string) tea.Cmd {
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	return tea.Batch(m.queryChanged(), m.flush())
}

// Update routes keys, pointer events and pipeline messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case debounceMsg:
		if msg.component == m.id {
			cmds = append(cmds, m.fire(msg.pending))
		}
	case settleMsg:
		if msg.component == m.id && m.container != nil {
			m.container.Settle(msg.request, msg.items, msg.err)
		}
	case tea.KeyPressMsg:
		if !m.focused {
			break
		}
		if key, ok := navigationKey(msg.String()); ok {
			if m.container != nil {
				m.container.HandleKey(key)
			}
			break
		}
		if msg.String() == "esc" {
			cmds = append(cmds, events.CloseRequestCmd(m.id, "escape"))
			break
		}
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		cmds = append(cmds, cmd, m.queryChanged())
	case tea.MouseMotionMsg:
		if el := m.elementAt(msg.Mouse().Y); el != nil && m.container != nil {
			m.container.HoverAt(m.container.Navigator().IndexOf(el))
		}
	case tea.MouseClickMsg:
		if msg.Mouse().Button != tea.MouseLeft {
			break
		}
		if el := m.elementAt(msg.Mouse().Y); el != nil && m.container != nil {
			m.container.Commit(m.container.Navigator().IndexOf(el))
		}
	default:
		if m.focused {
			var cmd tea.Cmd
			m.prompt, cmd = m.prompt.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.followScroll()
	cmds = append(cmds, m.flush())
	return m, tea.Batch(cmds...)
}

func navigationKey(s string) (palette.Key, bool) {
	switch s {
	case "down", "ctrl+n":
		return palette.KeyDown, true
	case "up", "ctrl+p":
		return palette.KeyUp, true
	case "home":
		return palette.KeyHome, true
	case "end":
		return palette.KeyEnd, true
	case "enter":
		return palette.KeyEnter, true
	}
	return 0, false
}

func (m *Model) queryChanged() tea.Cmd {
	value := m.prompt.Value()
	if value == m.lastValue || m.container == nil {
		return nil
	}
	return tea.Batch(events.QueryChangeCmd(m.id, value), m.apply(value))
}

// Refresh re-runs the current query, typically after the menu was rebuilt or
// the container reattached.
func (m *Model) Refresh() tea.Cmd {
	if m.container == nil {
		return nil
	}
	return tea.Batch(m.apply(m.prompt.Value()), m.flush())
}

func (m *Model) apply(value string) tea.Cmd {
	m.lastValue = value
	m.windowStart = 0
	var cmd tea.Cmd
	if pending, ok := m.container.QueryChanged(value); ok {
		id := m.id
		cmd = tea.Tick(pending.Delay, func(time.Time) tea.Msg {
			return debounceMsg{component: id, pending: pending}
		})
	}
	m.followScroll()
	return cmd
}

func (m *Model) fire(p palette.Pending) tea.Cmd {
	if m.container == nil {
		return nil
	}
	req := m.container.Fire(p)
	if req == nil {
		return nil
	}
	id := m.id
	return func() tea.Msg {
		items, err := req.Execute()
		return settleMsg{component: id, request: req, items: items, err: err}
	}
}

func (m *Model) flush() tea.Cmd {
	if len(m.outbox) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(m.outbox))
	for _, msg := range m.outbox {
		cmds = append(cmds, events.Emit(msg))
	}
	m.outbox = m.outbox[:0]
	return tea.Batch(cmds...)
}

// displayed lists the rows the menu currently shows, disabled ones included.
func (m *Model) displayed() []*palette.Element {
	if m.container == nil || m.container.Menu() == nil {
		return nil
	}
	var out []*palette.Element
	for _, el := range m.container.Menu().Elements() {
		if !el.Hidden {
			out = append(out, el)
		}
	}
	return out
}

func (m *Model) followScroll() {
	if m.container == nil {
		return
	}
	idx, ok := m.container.Navigator().TakeScroll()
	rows := m.displayed()
	if ok {
		target := m.container.Navigator().Visible()[idx]
		for i, el := range rows {
			if el == target {
				m.reveal(i)
				break
			}
		}
	}
	if last := len(rows) - m.maxRows; m.windowStart > last {
		m.windowStart = last
	}
	if m.windowStart < 0 {
		m.windowStart = 0
	}
}

func (m *Model) reveal(i int) {
	if i < m.windowStart {
		m.windowStart = i
	} else if i >= m.windowStart+m.maxRows {
		m.windowStart = i - m.maxRows + 1
	}
}

func (m *Model) elementAt(y int) *palette.Element {
	line := y - listTop
	if line < 0 || line >= len(m.lineMap) {
		return nil
	}
	return m.lineMap[line]
}

func (m *Model) innerWidth() int {
	w := m.width - m.styles.Frame.GetHorizontalFrameSize()
	if w < 1 {
		w = 1
	}
	return w
}

// View renders the framed dialog. The cursor is relative to the dialog's
// top-left corner.
func (m *Model) View() (string, *tea.Cursor) {
	inner := m.innerWidth()
	lines := []string{m.styles.Prompt.Render(m.promptText) + m.prompt.View()}
	m.lineMap = m.lineMap[:0]

	body := m.renderBody(inner)
	lines = append(lines, body...)

	content := make([]string, len(lines))
	for i, line := range lines {
		content[i] = padToWidth(line, inner)
	}
	view := m.styles.Frame.Width(m.width).Render(strings.Join(content, "\n"))

	var cursor *tea.Cursor
	if m.focused {
		if c := m.prompt.Cursor(); c != nil {
			shifted := *c
			shifted.X += m.styles.Frame.GetBorderLeftSize() + m.styles.Frame.GetPaddingLeft() + ansi.StringWidth(m.promptText)
			shifted.Y = listTop - 1
			cursor = &shifted
		}
	}
	return view, cursor
}

func (m *Model) renderBody(width int) []string {
	if m.container == nil {
		return nil
	}
	switch m.container.State() {
	case palette.StateLoading:
		return []string{m.notice(m.styles.Notice, "Searching...")}
	case palette.StateError:
		text := palette.DefaultErrorMessage
		if menu := m.container.Menu(); menu != nil && menu.Error != "" {
			text = menu.Error
		}
		return []string{m.notice(m.styles.Error, text)}
	case palette.StateEmpty:
		return []string{m.notice(m.styles.Notice, "No results found")}
	}

	rows := m.displayed()
	if len(rows) == 0 {
		if strings.TrimSpace(m.prompt.Value()) != "" {
			return []string{m.notice(m.styles.Notice, "No results found")}
		}
		return nil
	}

	end := m.windowStart + m.maxRows
	if end > len(rows) {
		end = len(rows)
	}
	active := m.container.Navigator().ActiveElement()

	var out []string
	group := ""
	for i := m.windowStart; i < end; i++ {
		el := rows[i]
		if g := el.Item.Group; g != "" && g != group {
			group = g
			out = append(out, m.styles.Group.Render(sanitize.Escape(g)))
			m.lineMap = append(m.lineMap, nil)
		}
		out = append(out, m.renderRow(el, el == active, width))
		m.lineMap = append(m.lineMap, el)
		if excerpt := m.renderExcerpt(el, width); excerpt != "" {
			out = append(out, excerpt)
			m.lineMap = append(m.lineMap, el)
		}
	}
	if m.windowStart > 0 || end < len(rows) {
		out = append(out, m.styles.Scroll.Render(scrollHint(m.windowStart, end, len(rows))))
		m.lineMap = append(m.lineMap, nil)
	}
	return out
}

func (m *Model) notice(style lipgloss.Style, text string) string {
	m.lineMap = append(m.lineMap, nil)
	return style.Render(text)
}

func (m *Model) renderRow(el *palette.Element, active bool, width int) string {
	marker := "  "
	style := m.styles.Row
	switch {
	case !el.Selectable():
		style = m.styles.DisabledRow
	case active:
		marker = "→ "
		style = m.styles.ActiveRow
	}
	label := el.Markup
	if label == "" {
		label = sanitize.Escape(el.Text)
	}
	line := marker + style.Render(label)
	if m.showHref && el.Href != "" {
		line += "  " + m.styles.Href.Render(el.Href)
	}
	return ansi.Truncate(line, width, "…")
}

func (m *Model) renderExcerpt(el *palette.Element, width int) string {
	if el.Item.Excerpt == "" || width <= 4 {
		return ""
	}
	text := sanitize.Excerpt(el.Item.Excerpt, func(s string) string { return m.styles.Mark.Render(s) })
	if text == "" {
		return ""
	}
	wrapped := wordwrap.String(text, width-4)
	first, _, more := strings.Cut(wrapped, "\n")
	if more {
		first += "…"
	}
	return "    " + m.styles.Excerpt.Render(ansi.Truncate(first, width-4, "…"))
}

func scrollHint(start, end, total int) string {
	var b strings.Builder
	if start > 0 {
		b.WriteString("↑ ")
	}
	b.WriteString(strconv.Itoa(start+1) + "-" + strconv.Itoa(end) + " of " + strconv.Itoa(total))
	if end < total {
		b.WriteString(" ↓")
	}
	return b.String()
}

func padToWidth(s string, width int) string {
	current := ansi.StringWidth(s)
	if current >= width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-current)
}
