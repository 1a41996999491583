package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/spf13/cobra"

	"tableflip.dev/palette/pkg/tui/components/eventviewer"
	"tableflip.dev/palette/pkg/tui/events"
)

type options struct {
	full    bool
	width   int
	height  int
	real    bool
	latency time.Duration
	fail    bool
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "testbed",
		Short: "Run the TUI testbed harness",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.full, "full", false, "use the full terminal window")
	rootCmd.PersistentFlags().IntVar(&opts.width, "width", 80, "window width when not fullscreen")
	rootCmd.PersistentFlags().IntVar(&opts.height, "height", 20, "window height when not fullscreen")
	rootCmd.PersistentFlags().BoolVar(&opts.real, "real", false, "load items from the real catalog")

	rootCmd.AddCommand(newCommandCmd(&opts))
	rootCmd.AddCommand(newSearchCmd(&opts))
	rootCmd.AddCommand(newHelpCmd(&opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts options) error {
	base := newTestbedModel(opts)
	p := tea.NewProgram(&base, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type testbedModel struct {
	fullscreen bool
	maxWidth   int
	maxHeight  int

	termWidth  int
	termHeight int

	focused    bool
	focusOwner events.ComponentID

	events *eventviewer.Model

	frameWidth  int
	frameHeight int
	innerWidth  int
	innerHeight int
	eventHeight int
	layoutDirty bool
}

func newTestbedModel(opts options) testbedModel {
	return testbedModel{
		fullscreen:  opts.full,
		maxWidth:    opts.width,
		maxHeight:   opts.height,
		events:      eventviewer.NewModel(400),
		layoutDirty: true,
	}
}

func (m *testbedModel) Init() tea.Cmd { return nil }

func (m *testbedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.recordEvent(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.layoutDirty = true
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case events.FocusMsg:
		m.focused = true
		m.focusOwner = msg.Component
	case events.BlurMsg:
		if m.focusOwner == msg.Component || m.focusOwner == "" {
			m.focused = false
			m.focusOwner = ""
		}
	}

	return m, nil
}

func (m *testbedModel) View() (string, *tea.Cursor) {
	content := lipgloss.NewStyle().
		Padding(1, 2).
		Render(
			"Testbed UI\n\n" +
				"Run a subcommand to preview a component:\n" +
				"  testbed command   sync palette\n" +
				"  testbed search    async palette\n" +
				"  testbed help      help overlay\n\n" +
				"Press ctrl+c to quit.",
		)
	return m.composeView(content, nil)
}

func (m *testbedModel) composeView(content string, cursor *tea.Cursor) (string, *tea.Cursor) {
	if m.termWidth == 0 || m.termHeight == 0 {
		return "Resizing…", nil
	}
	m.ensureLayout()

	frame, cursor := m.renderFrame(content, cursor)
	frameBlock, cursor := m.placeFrame(frame, cursor)

	if events := m.renderEvents(); events != "" {
		gap := lipgloss.NewStyle().
			Width(m.termWidth).
			Height(frameGap).
			Render(strings.Repeat(" ", m.termWidth))
		frameBlock = lipgloss.JoinVertical(lipgloss.Left, frameBlock, gap, events)
	}

	return frameBlock, cursor
}

func (m *testbedModel) renderFrame(content string, cursor *tea.Cursor) (string, *tea.Cursor) {
	m.ensureLayout()

	borderStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	if m.focused {
		borderStyle = borderStyle.BorderForeground(lipgloss.Color("#39FF14"))
	} else {
		borderStyle = borderStyle.BorderForeground(lipgloss.Color("240"))
	}

	contentView := lipgloss.NewStyle().
		Width(m.innerWidth).
		Height(m.innerHeight).
		Align(lipgloss.Left, lipgloss.Top).
		Render(content)

	frame := borderStyle.Width(m.frameWidth).Height(m.frameHeight).Render(contentView)
	if cursor == nil {
		return frame, nil
	}
	return frame, offsetCursor(cursor, 1, 1)
}

func (m *testbedModel) renderEvents() string {
	if m.events == nil || m.eventHeight == 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(m.termWidth).
		Height(m.eventHeight).
		Align(lipgloss.Left, lipgloss.Bottom).
		Render(m.events.View())
}

func (m *testbedModel) placeFrame(frame string, cursor *tea.Cursor) (string, *tea.Cursor) {
	height := max(1, m.termHeight-m.eventHeight-frameGap)

	offsetX := 0
	frameWidth := lipgloss.Width(frame)
	if frameWidth < m.termWidth {
		offsetX = (m.termWidth - frameWidth) / 2
	}
	placed := lipgloss.Place(
		m.termWidth,
		height,
		lipgloss.Center,
		lipgloss.Top,
		frame,
		lipgloss.WithWhitespaceChars(" "),
	)
	if cursor == nil {
		return placed, nil
	}
	return placed, offsetCursor(cursor, offsetX, 0)
}

func (m *testbedModel) contentSize() (int, int) {
	m.ensureLayout()
	return m.innerWidth, m.innerHeight
}

func (m *testbedModel) ensureLayout() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	if !m.layoutDirty && m.frameWidth != 0 && m.frameHeight != 0 {
		return
	}

	eventHeight := m.computeEventHeight()
	frameSpace := max(minFrameHeight, m.termHeight-eventHeight-frameGap)

	width := clamp(m.maxWidth, 20, m.termWidth-4)
	height := clamp(m.maxHeight, minFrameHeight, frameSpace)
	if m.fullscreen {
		width = clamp(m.termWidth, 20, m.termWidth)
		height = clamp(frameSpace, minFrameHeight, frameSpace)
	}

	m.frameWidth = width
	m.frameHeight = height
	m.innerWidth = max(1, width-2)
	m.innerHeight = max(1, height-2)
	m.eventHeight = eventHeight
	m.layoutDirty = false

	if m.events != nil && eventHeight > 0 {
		m.events.SetSize(m.termWidth, eventHeight)
	}
}

func (m *testbedModel) computeEventHeight() int {
	if m.events == nil {
		return 0
	}
	maxAvailable := m.termHeight - minFrameHeight - frameGap
	if maxAvailable < minEventHeight {
		return 0
	}
	return min(clamp(m.termHeight/4, minEventHeight, maxEventHeight), maxAvailable)
}

// recordEvent logs palette messages with their own entry and everything else
// under the "tea" source.
func (m *testbedModel) recordEvent(msg tea.Msg) {
	if m.events == nil {
		return
	}
	if entry, ok := eventviewer.EntryFor(msg); ok {
		m.events.Append(entry)
		return
	}
	detail := describeMsg(msg)
	if detail == "" {
		return
	}
	m.events.Append(eventviewer.Entry{
		Timestamp: time.Now(),
		Source:    "tea",
		Summary:   fmt.Sprintf("%T", msg),
		Detail:    detail,
		Level:     eventviewer.LevelInfo,
	})
}

func describeMsg(msg tea.Msg) string {
	if d, ok := msg.(interface{ Describe() string }); ok {
		return d.Describe()
	}
	switch v := msg.(type) {
	case tea.KeyPressMsg:
		return fmt.Sprintf("key=%q", v.String())
	case tea.WindowSizeMsg:
		return fmt.Sprintf("size=%dx%d", v.Width, v.Height)
	default:
		return ""
	}
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

func offsetCursor(cursor *tea.Cursor, dx, dy int) *tea.Cursor {
	if cursor == nil {
		return nil
	}
	clone := *cursor
	clone.Position.X += dx
	clone.Position.Y += dy
	return &clone
}

const (
	minFrameHeight = 12
	minEventHeight = 5
	maxEventHeight = 12
	frameGap       = 1
)
