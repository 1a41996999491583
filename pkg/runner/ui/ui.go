package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"tableflip.dev/palette/pkg/app"
	"tableflip.dev/palette/pkg/palette"
	"tableflip.dev/palette/pkg/palette/sanitize"
	"tableflip.dev/palette/pkg/store"
	tuiapp "tableflip.dev/palette/pkg/tui/app"
	"tableflip.dev/palette/pkg/tui/components/command"
	"tableflip.dev/palette/pkg/tui/events"
	"tableflip.dev/palette/pkg/tui/theme"
)

// DefaultLogFile receives logs while the TUI owns the terminal.
const DefaultLogFile = "palette.log"

// ErrNotTerminal is returned when stdout cannot host the TUI.
var ErrNotTerminal = errors.New("ui: stdout is not a terminal")

type UI struct {
	Settings    *store.Settings
	Persistence store.Persistence

	Async   bool
	Dialog  bool
	Debug   bool
	Latency time.Duration
	LogFile string

	Out io.Writer
}

func (u *UI) Do(ctx context.Context) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return ErrNotTerminal
	}
	if u.Persistence == nil {
		return errors.New("ui: no persistence")
	}

	logger, closeLog, err := u.openLog()
	if err != nil {
		return err
	}
	defer closeLog()

	settings := u.Settings
	if settings == nil {
		settings = &store.Settings{}
	}
	mode := settings.Mode
	if u.Async {
		mode = palette.ModeAsync
	}
	latency := settings.Latency
	if u.Latency > 0 {
		latency = u.Latency
	}

	svc := &app.Service{Persistence: u.Persistence}
	built, err := svc.Build(ctx, app.PaletteOptions{
		Mode:     mode,
		Settings: settings,
		Latency:  latency,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	dark := termenv.HasDarkBackground()
	th := theme.ForBackground(dark)
	placeholder := "Type a command..."
	if mode == palette.ModeAsync {
		placeholder = "Search the catalog..."
	}
	dialog := command.NewModel(command.Options{
		ID:          "palette",
		Container:   built.Container,
		Placeholder: placeholder,
		Theme:       th.Palette,
		ShowHref:    true,
	})

	m := tuiapp.New(tuiapp.Options{
		Context: ctx,
		Service: svc,
		Host:    built.Host,
		Palette: dialog,
		Render:  built.Render,
		Theme:   th,
		Dark:    dark,
		Debug:   u.Debug,
		Dialog:  u.Dialog,
		Logger:  logger,
	})

	logger.Info("starting ui", slog.String("mode", string(mode)), slog.Bool("dialog", u.Dialog))
	selected, err := tuiapp.Run(m, tea.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	if selected == nil || u.Dialog {
		return nil
	}

	out := u.Out
	if out == nil {
		out = color.Output
	}
	printSelection(out, selected.Item)
	return nil
}

// printSelection writes the picked row as "label<TAB>href", or just the label.
// Both go through the same escaping as the dialog rows.
func printSelection(out io.Writer, item events.ItemRef) {
	label := sanitize.Escape(item.Label)
	if href := sanitize.Escape(item.Href); href != "" {
		_, _ = fmt.Fprintf(out, "%s\t%s\n", label, href)
		return
	}
	_, _ = fmt.Fprintln(out, label)
}

func (u *UI) openLog() (*slog.Logger, func(), error) {
	path := u.LogFile
	if path == "" {
		path = DefaultLogFile
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("ui: open log: %w", err)
	}
	level := slog.LevelInfo
	if u.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}
