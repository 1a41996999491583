package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/spf13/cobra"

	"tableflip.dev/palette/pkg/palette"
	"tableflip.dev/palette/pkg/palette/host"
	"tableflip.dev/palette/pkg/palette/sanitize"
	"tableflip.dev/palette/pkg/palette/source"
	"tableflip.dev/palette/pkg/tui/components/command"
	"tableflip.dev/palette/pkg/tui/events"
	"tableflip.dev/palette/pkg/tui/theme"
)

func newCommandCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "command",
		Short: "Preview the palette filtering a fixed list",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadItems(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			c := palette.NewContainer(palette.Options{
				ID:        "testbed",
				Mode:      palette.ModeSync,
				Input:     &palette.Input{},
				Menu:      palette.NewMenu(palette.BuildElements(items, palette.DefaultRenderer(sanitize.Terminal{}))...),
				Sanitizer: sanitize.Terminal{},
				Logger:    discardLogger(),
			})
			return runCommandDemo(*opts, c, nil)
		},
	}
}

func newSearchCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Preview the palette searching as you type",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadItems(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			search := source.Static(items)
			if opts.fail {
				search = func(ctx context.Context, query string) ([]palette.Item, error) {
					return nil, errors.New("backend unavailable")
				}
			}
			search = source.Delay(opts.latency, search)

			c := palette.NewContainer(palette.Options{
				ID:        "testbed",
				Alias:     "search",
				Mode:      palette.ModeAsync,
				Input:     &palette.Input{},
				Menu:      palette.NewMenu(),
				Sanitizer: sanitize.Terminal{},
				Logger:    discardLogger(),
			})
			return runCommandDemo(*opts, c, &palette.AsyncConfig{OnSearch: search})
		},
	}
	cmd.Flags().DurationVar(&opts.latency, "latency", 300*time.Millisecond, "delay every search by this long")
	cmd.Flags().BoolVar(&opts.fail, "fail", false, "make every search fail")
	return cmd
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runCommandDemo(opts options, c *palette.Container, cfg *palette.AsyncConfig) error {
	h := host.New(discardLogger())
	h.Attach(c)
	if cfg != nil {
		h.RegisterAsync("search", *cfg)
	}
	dialog := command.NewModel(command.Options{
		ID:          events.ComponentID("Palette"),
		Container:   c,
		Placeholder: "Type to filter...",
		Theme:       theme.Default().Palette,
		ShowHref:    true,
	})
	model := &commandTestModel{
		testbedModel: newTestbedModel(opts),
		dialog:       dialog,
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type commandTestModel struct {
	testbedModel
	dialog        *command.Model
	lastActivated string
}

func (m *commandTestModel) Init() tea.Cmd {
	return tea.Batch(m.dialog.Init(), m.dialog.Focus())
}

func (m *commandTestModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if _, cmd := m.testbedModel.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		width, height := m.contentSize()
		m.dialog.SetSize(width, height)
	case events.ActivateMsg:
		m.lastActivated = v.Item.Label
	case events.CloseRequestMsg:
		// The testbed keeps the palette open; esc and activation only log.
	}

	if _, cmd := m.dialog.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *commandTestModel) View() (string, *tea.Cursor) {
	view, cursor := m.dialog.View()
	if m.lastActivated != "" {
		view += "\n\nLast activated: " + m.lastActivated
	}
	return m.composeView(view, cursor)
}
