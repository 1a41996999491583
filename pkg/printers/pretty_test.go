package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"tableflip.dev/palette/pkg/palette"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestItemsTable(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	pp := PrettyPrint{ShowID: true, Out: &buf}

	pp.TitleWithCount("Files", 2)
	pp.Items(
		palette.Item{ID: "open", Label: "Open file", Keywords: "load", URL: "/files/open"},
		palette.Item{ID: "off", Label: "Save all", Disabled: true, URL: "javascript:alert(1)"},
	)

	out := buf.String()
	assert.Contains(t, out, "Files - 2 items")
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[1], "open")
	assert.Contains(t, lines[1], "/files/open")
	assert.Contains(t, lines[2], "x")
	assert.NotContains(t, out, "javascript", "unsafe links are not printed")
}

func TestEmptyItems(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.TitleWithCount("Empty", 1)
	pp.Items()
	assert.Equal(t, "Empty - 1 item\n none\n\n", buf.String())
}

func TestElementsMarksActive(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	a := &palette.Element{Markup: "Alpha"}
	b := &palette.Element{Markup: "Beta", Item: palette.Item{Excerpt: "the <mark>beta</mark> row"}}

	pp.Elements(a, a, b)
	assert.Equal(t, "→ Alpha\n  Beta\n    the beta row\n", buf.String())
}
