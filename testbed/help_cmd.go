package main

import (
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/spf13/cobra"

	"tableflip.dev/palette/pkg/tui/components/help"
	"tableflip.dev/palette/pkg/tui/ui"
)

func newHelpCmd(opts *options) *cobra.Command {
	var light bool

	cmd := &cobra.Command{
		Use:   "help",
		Short: "Render the help overlay component",
		RunE: func(cmd *cobra.Command, args []string) error {
			harness := &helpTestModel{
				testbedModel: newTestbedModel(*opts),
				dark:         !light,
			}
			harness.ensureSizing()
			program := tea.NewProgram(harness, tea.WithAltScreen())
			_, err := program.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&light, "light", false, "render with the light markdown style")
	return cmd
}

type helpTestModel struct {
	testbedModel
	dark    bool
	overlay ui.Overlay
}

func (m *helpTestModel) Init() tea.Cmd {
	m.ensureSizing()
	return nil
}

func (m *helpTestModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if _, cmd := m.testbedModel.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.ensureSizing()
	case tea.KeyPressMsg:
		if v.String() == "esc" || v.String() == "q" {
			cmds = append(cmds, tea.Quit)
		}
	}

	if m.overlay != nil {
		next, cmd := m.overlay.Update(msg)
		m.overlay = next
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *helpTestModel) View() (string, *tea.Cursor) {
	if m.overlay == nil {
		return m.composeView("help component unavailable", nil)
	}
	m.ensureSizing()
	content, cursor := m.overlay.View()
	return m.composeView(content, cursor)
}

func (m *helpTestModel) ensureSizing() {
	m.ensureLayout()
	width := m.innerWidth
	height := m.innerHeight
	if width <= 0 {
		width = 72
	}
	if height <= 0 {
		height = 18
	}
	if m.overlay == nil {
		m.overlay = help.New(width, height, m.dark)
		return
	}
	m.overlay.SetSize(width, height)
}
