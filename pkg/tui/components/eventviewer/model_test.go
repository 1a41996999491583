package eventviewer

import (
	"errors"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/palette/pkg/palette"
	"tableflip.dev/palette/pkg/tui/events"
)

func TestEntryForPaletteMessages(t *testing.T) {
	entry, ok := EntryFor(events.StateMsg{Component: "cmd", State: palette.StateError, Message: "boom"})
	require.True(t, ok)
	assert.Equal(t, LevelError, entry.Level)
	assert.Equal(t, "cmd", entry.Source)
	assert.Contains(t, entry.Detail, "boom")

	entry, ok = EntryFor(events.SearchCompletedMsg{Component: "cmd", Query: "q"})
	require.True(t, ok)
	assert.Equal(t, LevelWarn, entry.Level)

	_, ok = EntryFor(errors.New("not a palette message"))
	assert.False(t, ok)
}

func TestUpdateAppendsNewestFirst(t *testing.T) {
	m := NewModel(2)
	m.SetSize(60, 8)

	m.Update(events.QueryChangeMsg{Component: "cmd", Value: "a"})
	m.Update(events.QueryChangeMsg{Component: "cmd", Value: "ab"})
	m.Update(events.QueryChangeMsg{Component: "cmd", Value: "abc"})
	assert.Equal(t, 2, m.Len(), "capped at max entries")

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Events")
	assert.Contains(t, view, `query: value:"abc"`)
}

func TestEmptyLog(t *testing.T) {
	m := NewModel(0)
	m.SetSize(40, 5)
	assert.Contains(t, ansi.Strip(m.View()), "No events yet")
	m.Append(Entry{Summary: "x"})
	m.Clear()
	assert.Equal(t, 0, m.Len())
}
