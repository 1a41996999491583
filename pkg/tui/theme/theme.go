package theme

import (
	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer  FooterTheme
	Palette PaletteTheme
	Panel   PanelTheme
	Modal   ModalTheme
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// PaletteTheme styles the command palette dialog.
type PaletteTheme struct {
	Frame       lipgloss.Style
	Prompt      lipgloss.Style
	Row         lipgloss.Style
	ActiveRow   lipgloss.Style
	DisabledRow lipgloss.Style
	Group       lipgloss.Style
	Href        lipgloss.Style
	Excerpt     lipgloss.Style
	Mark        lipgloss.Style
	Notice      lipgloss.Style
	Error       lipgloss.Style
	Scroll      lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// ModalTheme styles centered modal overlays such as help.
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// Palette colours shared by both variants.
var (
	accent  = colorful.Color{R: 1, G: 0.373, B: 0.843} // #ff5fd7
	warning = colorful.Color{R: 1, G: 0.702, B: 0.278} // #ffb347
	danger  = colorful.Color{R: 1, G: 0.373, B: 0.373} // #ff5f5f
	ink     = colorful.Color{R: 0.1, G: 0.1, B: 0.12}
	paper   = colorful.Color{R: 0.93, G: 0.93, B: 0.93}
)

// Default returns the built-in dark theme.
func Default() Theme {
	return ForBackground(true)
}

// ForBackground returns a theme tuned for a dark or light terminal.
func ForBackground(dark bool) Theme {
	bg, fg := ink, paper
	if !dark {
		bg, fg = paper, ink
	}
	muted := hex(fg.BlendLab(bg, 0.45))
	faint := hex(fg.BlendLab(bg, 0.65))
	accentSoft := hex(accent.BlendLab(bg, 0.35))
	markBg := hex(warning.BlendLab(bg, 0.55))

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(accentSoft))

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color(faint)),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color(hex(danger))),
		},
		Palette: PaletteTheme{
			Frame:       border.Padding(0, 1),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(hex(accent))).Bold(true),
			Row:         lipgloss.NewStyle(),
			ActiveRow:   lipgloss.NewStyle().Foreground(lipgloss.Color(hex(accent))).Bold(true).Reverse(true),
			DisabledRow: lipgloss.NewStyle().Foreground(lipgloss.Color(faint)).Strikethrough(true),
			Group:       lipgloss.NewStyle().Foreground(lipgloss.Color(muted)).Italic(true),
			Href:        lipgloss.NewStyle().Foreground(lipgloss.Color(faint)).Underline(true),
			Excerpt:     lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
			Mark:        lipgloss.NewStyle().Background(lipgloss.Color(markBg)).Bold(true),
			Notice:      lipgloss.NewStyle().Foreground(lipgloss.Color(muted)).Italic(true),
			Error:       lipgloss.NewStyle().Foreground(lipgloss.Color(hex(danger))),
			Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color(faint)),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color(faint)),
			Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(muted)),
			Body:  lipgloss.NewStyle(),
		},
		Modal: ModalTheme{
			Frame: border.Padding(0),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
	}
}

func hex(c colorful.Color) string {
	return c.Clamped().Hex()
}
