package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"tableflip.dev/palette/pkg/tui/events"
)

func TestPrintSelectionEscapesLabel(t *testing.T) {
	tests := []struct {
		name string
		item events.ItemRef
		want string
	}{
		{name: "label only", item: events.ItemRef{Label: "Open file"}, want: "Open file\n"},
		{name: "with href", item: events.ItemRef{Label: "Docs", Href: "/docs"}, want: "Docs\t/docs\n"},
		{name: "control sequences", item: events.ItemRef{Label: "\x1b[31mRed\x1b[0m\x07", Href: "/r\x1b[1m"}, want: "Red\t/r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printSelection(&buf, tt.item)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
