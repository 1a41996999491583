package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	catalog "tableflip.dev/palette/pkg/app"
	"tableflip.dev/palette/pkg/palette"
	"tableflip.dev/palette/pkg/palette/host"
	"tableflip.dev/palette/pkg/store"
	"tableflip.dev/palette/pkg/tui/components/command"
	"tableflip.dev/palette/pkg/tui/components/eventviewer"
	"tableflip.dev/palette/pkg/tui/components/help"
	"tableflip.dev/palette/pkg/tui/components/panel"
	"tableflip.dev/palette/pkg/tui/events"
	"tableflip.dev/palette/pkg/tui/theme"
	overlaymgr "tableflip.dev/palette/pkg/tui/ui/overlay"
)

// Options configures the root model.
type Options struct {
	Context context.Context
	Service *catalog.Service
	Host    *host.Host
	Palette *command.Model
	// Render rebuilds sync menus when the catalog changes on disk.
	Render palette.RenderFunc
	Theme  theme.Theme
	Dark   bool
	Debug  bool
	// Dialog shows the palette as a toggled overlay. Without it the palette
	// is always open and committing a row ends the program.
	Dialog bool
	Logger *slog.Logger
}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchStoppedMsg struct{}

// Model hosts the palette dialog over a status screen, with optional help and
// event log panels.
type Model struct {
	ctx     context.Context
	service *catalog.Service
	host    *host.Host
	palette *command.Model
	render  palette.RenderFunc
	logger  *slog.Logger
	theme   theme.Theme
	dark    bool

	width  int
	height int

	dialog     bool
	open       bool
	dialogRect overlaymgr.Rect

	helpVisible bool
	help        *help.Model

	debugEnabled bool
	eventViewer  *eventviewer.Model

	status    string
	statusErr bool
	selected  *events.ActivateMsg
	detail    panel.Model
	quitting  bool

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
}

// New constructs the root model.
func New(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{
		ctx:          ctx,
		service:      opts.Service,
		host:         opts.Host,
		palette:      opts.Palette,
		render:       opts.Render,
		logger:       logger,
		theme:        opts.Theme,
		dark:         opts.Dark,
		dialog:       opts.Dialog,
		debugEnabled: opts.Debug,
		status:       "Ready",
		detail:       panel.New(opts.Theme.Panel),
	}
	if m.debugEnabled {
		m.eventViewer = eventviewer.NewModel(400)
		m.eventViewer.WithStyles(eventviewer.StylesFromTheme(m.theme))
	}
	return m
}

// Run launches the Bubble Tea program and returns the row the user picked,
// if any.
func Run(m *Model, opts ...tea.ProgramOption) (*events.ActivateMsg, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseAllMotion()}, opts...)
	p := tea.NewProgram(m, opts...)
	if _, err := p.Run(); err != nil {
		return nil, err
	}
	return m.Selected(), nil
}

// Selected returns the last activated row, or nil.
func (m *Model) Selected() *events.ActivateMsg { return m.selected }

// Status returns the footer text.
func (m *Model) Status() string { return m.status }

// Open reports whether the palette is showing.
func (m *Model) Open() bool { return m.open }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{startWatchCmd(m.ctx, m.service)}
	if m.palette != nil {
		cmds = append(cmds, m.palette.Init())
		if !m.dialog {
			cmds = append(cmds, m.openPalette())
		}
	}
	return tea.Batch(cmds...)
}

// Update routes messages to the palette, help and event log.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.eventViewer != nil {
		if entry, ok := eventviewer.EntryFor(msg); ok {
			m.eventViewer.Append(entry)
		}
	}

	var cmds []tea.Cmd
	forward := true

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.layout()
	case tea.KeyPressMsg:
		forward = m.handleKey(v, &cmds)
	case tea.MouseMotionMsg:
		forward = false
		if mouse, ok := m.dialogMouse(v.Mouse()); ok {
			cmds = append(cmds, m.updatePalette(tea.MouseMotionMsg(mouse)))
		}
	case tea.MouseClickMsg:
		forward = false
		if mouse, ok := m.dialogMouse(v.Mouse()); ok {
			cmds = append(cmds, m.updatePalette(tea.MouseClickMsg(mouse)))
		}
	case tea.MouseWheelMsg:
		forward = false
		if m.helpVisible && m.help != nil {
			_, cmd := m.help.Update(v)
			cmds = append(cmds, cmd)
		}
	case events.ActivateMsg:
		selected := v
		m.selected = &selected
		m.detail.SetItem("Last activated", v.Item)
		m.setStatus(describeActivation(v), false)
	case events.StateMsg:
		if v.State == palette.StateError {
			m.setStatus("Search failed: "+v.Message, true)
		}
	case events.CloseRequestMsg:
		if !m.dialog {
			m.quitting = true
			return m, tea.Quit
		}
		cmds = append(cmds, m.closePalette())
	case watchStartedMsg:
		if v.err != nil {
			m.logger.Warn("catalog watch unavailable", slog.Any("err", v.err))
			break
		}
		m.stopWatch()
		m.watchCh = v.ch
		m.watchCancel = v.cancel
		cmds = append(cmds, m.waitForWatch())
	case events.CatalogChangedMsg:
		cmds = append(cmds, m.reloadCatalog(), m.waitForWatch())
	case watchStoppedMsg:
		m.stopWatch()
	}

	if forward {
		cmds = append(cmds, m.updatePalette(msg))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		m.stopWatch()
		*cmds = append(*cmds, tea.Quit)
		return false
	case "ctrl+k":
		if m.dialog {
			if m.open {
				*cmds = append(*cmds, m.closePalette())
			} else {
				*cmds = append(*cmds, m.openPalette())
			}
		}
		return false
	case "ctrl+d":
		m.toggleDebug()
		return false
	case "f1":
		m.toggleHelp()
		return false
	case "?":
		if !m.open {
			m.toggleHelp()
			return false
		}
	case "esc":
		if m.helpVisible {
			m.toggleHelp()
			return false
		}
	case "q":
		if !m.open && m.dialog {
			m.quitting = true
			m.stopWatch()
			*cmds = append(*cmds, tea.Quit)
			return false
		}
	}
	if m.helpVisible && m.help != nil {
		_, cmd := m.help.Update(msg)
		*cmds = append(*cmds, cmd)
		return false
	}
	return m.open
}

func (m *Model) updatePalette(msg tea.Msg) tea.Cmd {
	if m.palette == nil {
		return nil
	}
	_, cmd := m.palette.Update(msg)
	return cmd
}

func (m *Model) openPalette() tea.Cmd {
	if m.palette == nil || m.open {
		return nil
	}
	m.open = true
	m.helpVisible = false
	m.setStatus("Palette open", false)
	return m.palette.Focus()
}

func (m *Model) closePalette() tea.Cmd {
	if m.palette == nil || !m.open {
		return nil
	}
	m.open = false
	m.dialogRect = overlaymgr.Rect{}
	if m.selected == nil {
		m.setStatus("Palette closed", false)
	}
	return m.palette.Blur()
}

func (m *Model) dialogMouse(mouse tea.Mouse) (tea.Mouse, bool) {
	if !m.open || !m.dialogRect.Contains(mouse.X, mouse.Y) {
		return mouse, false
	}
	mouse.X -= m.dialogRect.X
	mouse.Y -= m.dialogRect.Y
	return mouse, true
}

// reloadCatalog rebuilds sync menus from disk, reattaches every container and
// replays the current query.
func (m *Model) reloadCatalog() tea.Cmd {
	if m.service == nil || m.host == nil {
		return nil
	}
	items, err := m.service.Items(m.ctx)
	if err != nil {
		m.setStatus("Reload failed: "+err.Error(), true)
		return nil
	}
	for _, c := range m.host.Containers() {
		if c.Mode() == palette.ModeSync && c.Menu() != nil {
			c.Menu().Replace(palette.BuildElements(items, m.render))
		}
	}
	m.host.Reinit()
	m.setStatus(fmt.Sprintf("Catalog reloaded (%d items)", len(items)), false)
	if m.palette == nil {
		return nil
	}
	return m.palette.Refresh()
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func describeActivation(msg events.ActivateMsg) string {
	if msg.Item.Href != "" {
		return fmt.Sprintf("Ran %s → %s", msg.Item.Label, msg.Item.Href)
	}
	return "Ran " + msg.Item.Label
}

func (m *Model) toggleDebug() {
	m.debugEnabled = !m.debugEnabled
	if !m.debugEnabled {
		m.eventViewer = nil
		m.setStatus("Debug log hidden", false)
		m.layout()
		return
	}
	m.eventViewer = eventviewer.NewModel(400)
	m.eventViewer.WithStyles(eventviewer.StylesFromTheme(m.theme))
	m.eventViewer.Append(eventviewer.Entry{Summary: "debug", Detail: "Debug window enabled", Source: "ui"})
	m.setStatus("Debug log visible", false)
	m.layout()
}

func (m *Model) toggleHelp() {
	m.helpVisible = !m.helpVisible
	if m.helpVisible && m.help == nil {
		m.help = help.New(m.helpWidth(), m.helpHeight(), m.dark).WithFrame(m.theme.Modal.Frame)
	}
	m.layout()
}

func (m *Model) helpWidth() int  { return max(1, m.width*4/5) }
func (m *Model) helpHeight() int { return max(1, (m.height-1)*4/5) }

func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	if m.palette != nil {
		m.palette.SetSize(min(72, max(24, m.width-4)), m.height)
	}
	if m.help != nil {
		m.help.SetSize(m.helpWidth(), m.helpHeight())
	}
	if m.eventViewer != nil {
		m.eventViewer.SetSize(m.width, m.debugHeight())
	}
}

func (m *Model) debugHeight() int {
	rows := m.height - 1
	if rows <= 4 {
		return 0
	}
	return clamp(rows/3, 5, min(12, rows-1))
}

// View renders the status screen with the palette, help and log on top.
func (m *Model) View() (string, *tea.Cursor) {
	if m.width <= 0 || m.height <= 0 {
		return "initializing…", nil
	}
	if m.quitting {
		return "", nil
	}

	bodyRows := m.height - 1
	debugRows := 0
	if m.eventViewer != nil {
		debugRows = m.debugHeight()
	}
	mainRows := bodyRows - debugRows

	main := m.renderMain(mainRows)
	var cursor *tea.Cursor

	if m.open && m.palette != nil {
		view, c := m.palette.View()
		var rect overlaymgr.Rect
		main, rect = overlaymgr.ComposeRect(main, m.width, mainRows, view, overlaymgr.Placement{
			Horizontal: lipgloss.Center,
			Vertical:   overlaymgr.Start,
			MarginY:    max(0, mainRows/6),
		})
		m.dialogRect = rect
		if c != nil {
			shifted := *c
			shifted.X += rect.X
			shifted.Y += rect.Y
			cursor = &shifted
		}
	}
	if m.helpVisible && m.help != nil {
		view, _ := m.help.View()
		main = overlaymgr.Compose(main, m.width, mainRows, view, overlaymgr.Placement{})
		cursor = nil
	}

	parts := []string{main}
	if debugRows > 0 {
		parts = append(parts, m.eventViewer.View())
	}
	parts = append(parts, m.renderFooter())
	return strings.Join(parts, "\n"), cursor
}

func (m *Model) renderMain(rows int) string {
	lines := []string{
		m.theme.Panel.Title.Render("palette"),
		"",
	}
	if m.dialog {
		lines = append(lines, "ctrl+k  open the command palette")
	}
	lines = append(lines,
		"f1      help",
		"ctrl+d  event log",
		"ctrl+c  quit",
	)
	if m.selected != nil {
		m.detail.SetWidth(min(m.width, 60))
		view, _ := m.detail.View()
		lines = append(lines, "")
		lines = append(lines, strings.Split(view, "\n")...)
	}
	for i := range lines {
		lines[i] = ansi.Truncate(lines[i], m.width, "…")
	}
	if len(lines) > rows {
		lines = lines[:rows]
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	style := m.theme.Footer.Status
	if m.statusErr {
		style = m.theme.Footer.Error
	}
	left := style.Render(m.status)
	right := m.theme.Footer.Help.Render("f1 help")
	gap := m.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		return ansi.Truncate(left, m.width, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

func startWatchCmd(parent context.Context, svc *catalog.Service) tea.Cmd {
	if svc == nil || svc.Persistence == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return watchStoppedMsg{}
		}
		if ev.Type == store.EventCatalogInvalidated {
			return events.CatalogChangedMsg{}
		}
		return events.CatalogChangedMsg{Group: ev.Group}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

func clamp(value, lower, upper int) int {
	if upper <= 0 {
		return lower
	}
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
