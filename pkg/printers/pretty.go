package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/palette/pkg/palette"
	"tableflip.dev/palette/pkg/palette/sanitize"
)

// PrettyPrint writes catalog items as aligned, coloured tables.
type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

// NewLine writes an empty line.
func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Title writes a bold, underlined heading.
func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

// TitleWithCount writes a heading followed by a faint item count.
func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " item")
	default:
		_, _ = c.Fprintln(pp.out(), " items")
	}
}

// Items writes one row per item: flags, label, keywords and link.
func (pp *PrettyPrint) Items(items ...palette.Item) {
	if len(items) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	faint := color.New(color.Faint)
	link := color.New(color.FgCyan, color.Underline)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	for _, item := range items {
		label := sanitize.Escape(item.Label)
		if item.Disabled || item.AriaDisabled {
			label = faint.Sprint(label)
		}
		row := []interface{}{flags(item), label, faint.Sprint(sanitize.Escape(item.Keywords))}
		if item.URL != "" && sanitize.IsSafeURL(item.URL) {
			row = append(row, link.Sprint(sanitize.Escape(item.URL)))
		} else {
			row = append(row, "")
		}
		if pp.ShowID {
			row = append([]interface{}{y.Sprint(item.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Elements writes rendered palette rows, marking the active one.
func (pp *PrettyPrint) Elements(active *palette.Element, elements ...*palette.Element) {
	bold := color.New(color.Bold)
	excerpt := color.New(color.Faint)
	mark := color.New(color.FgHiYellow, color.Bold)
	for _, el := range elements {
		marker := "  "
		text := el.Markup
		if el == active {
			marker = "→ "
			text = bold.Sprint(text)
		}
		_, _ = fmt.Fprintf(pp.out(), "%s%s\n", marker, text)
		if el.Item.Excerpt != "" {
			body := sanitize.Excerpt(el.Item.Excerpt, func(s string) string { return mark.Sprint(s) })
			_, _ = fmt.Fprintf(pp.out(), "    %s\n", excerpt.Sprint(body))
		}
	}
}

func flags(item palette.Item) string {
	var b strings.Builder
	switch {
	case item.Disabled || item.AriaDisabled:
		b.WriteString("x")
	case item.Force:
		b.WriteString("!")
	default:
		b.WriteString(" ")
	}
	if item.KeepOpen {
		b.WriteString("+")
	} else {
		b.WriteString(" ")
	}
	return b.String()
}
