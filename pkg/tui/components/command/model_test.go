package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/palette/pkg/palette"
	"tableflip.dev/palette/pkg/palette/sanitize"
	"tableflip.dev/palette/pkg/tui/events"
	"tableflip.dev/palette/pkg/tui/theme"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func syncModel(t *testing.T, items []palette.Item, maxRows int) *Model {
	t.Helper()
	c := palette.NewContainer(palette.Options{
		ID:     "cmd",
		Mode:   palette.ModeSync,
		Input:  &palette.Input{},
		Menu:   palette.NewMenu(palette.BuildElements(items, palette.DefaultRenderer(sanitize.Terminal{}))...),
		Logger: quietLogger(),
	})
	require.NoError(t, c.Attach(nil))
	m := NewModel(Options{ID: "test-palette", Container: c, Theme: theme.Default().Palette, MaxRows: maxRows})
	m.SetSize(60, 20)
	_ = m.Focus()
	return m
}

func asyncModel(t *testing.T, search palette.SearchFunc) *Model {
	t.Helper()
	c := palette.NewContainer(palette.Options{
		ID:        "search",
		Mode:      palette.ModeAsync,
		Input:     &palette.Input{},
		Menu:      palette.NewMenu(),
		Sanitizer: sanitize.Terminal{},
		Logger:    quietLogger(),
	})
	m := NewModel(Options{ID: "test-palette", Container: c, Theme: theme.Default().Palette})
	require.NoError(t, c.Attach(&palette.AsyncConfig{Debounce: time.Millisecond, OnSearch: search}))
	m.SetSize(60, 20)
	_ = m.Focus()
	return m
}

// pump runs cmd to completion, feeding the dialog's own pipeline messages back
// into it, and returns every other message produced along the way.
func pump(t *testing.T, m *Model, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case debounceMsg, settleMsg:
			_, follow := m.Update(msg)
			queue = append(queue, follow)
		default:
			out = append(out, msg)
		}
	}
	return out
}

func press(t *testing.T, m *Model, code rune) []tea.Msg {
	t.Helper()
	_, cmd := m.Update(tea.KeyPressMsg{Code: code})
	return pump(t, m, cmd)
}

func plainView(m *Model) string {
	view, _ := m.View()
	return ansi.Strip(view)
}

func find[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestSyncQueryFiltersRows(t *testing.T) {
	m := syncModel(t, []palette.Item{
		{ID: "alpha", Label: "Alpha"},
		{ID: "alphabet", Label: "Alphabet"},
		{ID: "gamma", Label: "Gamma"},
	}, 0)

	msgs := pump(t, m, m.SetQuery("alp"))
	change, ok := find[events.QueryChangeMsg](msgs)
	require.True(t, ok, "query change emitted")
	assert.Equal(t, "alp", change.Value)

	view := plainView(m)
	assert.Contains(t, view, "→ Alpha")
	assert.Contains(t, view, "Alphabet")
	assert.NotContains(t, view, "Gamma")

	pump(t, m, m.SetQuery("zzz"))
	assert.Contains(t, plainView(m), "No results found")
}

func TestEnterActivatesHighlightedRow(t *testing.T) {
	m := syncModel(t, []palette.Item{
		{ID: "alpha", Label: "Alpha"},
		{ID: "alphabet", Label: "Alphabet", URL: "/alphabet"},
		{ID: "gamma", Label: "Gamma"},
	}, 0)
	pump(t, m, m.SetQuery("alp"))

	msgs := press(t, m, tea.KeyDown)
	highlight, ok := find[events.HighlightMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, 1, highlight.Index)

	msgs = press(t, m, tea.KeyEnter)
	activate, ok := find[events.ActivateMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, "Alphabet", activate.Item.Label)
	assert.Equal(t, "/alphabet", activate.Item.Href)
	_, closed := find[events.CloseRequestMsg](msgs)
	assert.True(t, closed)
}

func TestKeepOpenRowDoesNotClose(t *testing.T) {
	m := syncModel(t, []palette.Item{{ID: "stay", Label: "Stay", KeepOpen: true}}, 0)

	msgs := press(t, m, tea.KeyEnter)
	_, activated := find[events.ActivateMsg](msgs)
	_, closed := find[events.CloseRequestMsg](msgs)
	assert.True(t, activated)
	assert.False(t, closed)
}

func TestEscapeRequestsClose(t *testing.T) {
	m := syncModel(t, []palette.Item{{ID: "a", Label: "A"}}, 0)

	msgs := press(t, m, tea.KeyEscape)
	req, ok := find[events.CloseRequestMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, "escape", req.Reason)
	_, activated := find[events.ActivateMsg](msgs)
	assert.False(t, activated)
}

func TestKeysIgnoredWhileBlurred(t *testing.T) {
	m := syncModel(t, []palette.Item{{ID: "a", Label: "A"}}, 0)
	_ = m.Blur()

	assert.Empty(t, press(t, m, tea.KeyEnter))
}

func TestMouseHoverAndClick(t *testing.T) {
	m := syncModel(t, []palette.Item{
		{ID: "alpha", Label: "Alpha"},
		{ID: "beta", Label: "Beta"},
		{ID: "gamma", Label: "Gamma"},
	}, 0)
	plainView(m)

	_, cmd := m.Update(tea.MouseMotionMsg{X: 4, Y: listTop + 1})
	highlight, ok := find[events.HighlightMsg](pump(t, m, cmd))
	require.True(t, ok)
	assert.Equal(t, "Beta", highlight.Item.Label)

	_, cmd = m.Update(tea.MouseMotionMsg{X: 4, Y: listTop + 1})
	assert.Empty(t, pump(t, m, cmd), "hovering the active row is a no-op")

	_, cmd = m.Update(tea.MouseClickMsg{X: 4, Y: listTop + 2, Button: tea.MouseLeft})
	activate, ok := find[events.ActivateMsg](pump(t, m, cmd))
	require.True(t, ok)
	assert.Equal(t, "Gamma", activate.Item.Label)
	assert.Equal(t, 2, activate.Index)
}

func TestClickOnDisabledRowDoesNothing(t *testing.T) {
	m := syncModel(t, []palette.Item{
		{ID: "alpha", Label: "Alpha"},
		{ID: "off", Label: "Off", Disabled: true},
	}, 0)
	assert.Contains(t, plainView(m), "Off")

	_, cmd := m.Update(tea.MouseClickMsg{X: 4, Y: listTop + 1, Button: tea.MouseLeft})
	assert.Empty(t, pump(t, m, cmd))
}

func TestWindowFollowsActiveRow(t *testing.T) {
	items := make([]palette.Item, 0, 12)
	for i := 0; i < 12; i++ {
		items = append(items, palette.Item{ID: fmt.Sprintf("item%02d", i), Label: fmt.Sprintf("Item %02d", i)})
	}
	m := syncModel(t, items, 3)

	view := plainView(m)
	assert.Contains(t, view, "Item 00")
	assert.NotContains(t, view, "Item 03")
	assert.Contains(t, view, "1-3 of 12")

	press(t, m, tea.KeyEnd)
	view = plainView(m)
	assert.Contains(t, view, "→ Item 11")
	assert.NotContains(t, view, "Item 08")
	assert.Contains(t, view, "10-12 of 12")

	press(t, m, tea.KeyHome)
	assert.Contains(t, plainView(m), "→ Item 00")
}

func TestGroupsRenderHeadings(t *testing.T) {
	m := syncModel(t, []palette.Item{
		{ID: "save", Label: "Save", Group: "Files"},
		{ID: "theme", Label: "Theme", Group: "View"},
	}, 0)
	plainView(m)

	_, cmd := m.Update(tea.MouseClickMsg{X: 4, Y: listTop + 3, Button: tea.MouseLeft})
	activate, ok := find[events.ActivateMsg](pump(t, m, cmd))
	require.True(t, ok, "heading lines are skipped when mapping clicks")
	assert.Equal(t, "Theme", activate.Item.Label)

	view := plainView(m)
	assert.Contains(t, view, "Files")
	assert.Contains(t, view, "View")
}

func TestAsyncSearchRendersResults(t *testing.T) {
	m := asyncModel(t, func(_ context.Context, query string) ([]palette.Item, error) {
		return []palette.Item{
			{Label: "Guide", URL: "/guide", Excerpt: "a <mark>" + query + "</mark> here"},
		}, nil
	})

	msgs := pump(t, m, m.SetQuery("  hit "))
	done, ok := find[events.SearchCompletedMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, "hit", done.Query)
	assert.Len(t, done.Results, 1)

	view := plainView(m)
	assert.Contains(t, view, "→ Guide")
	assert.Contains(t, view, "a hit here")
	assert.Equal(t, "search-result-0", m.Container().Input().ActiveDescendant)
}

func TestAsyncDebounceRunsTrailingQueryOnly(t *testing.T) {
	var calls atomic.Int32
	var last atomic.Value
	m := asyncModel(t, func(_ context.Context, query string) ([]palette.Item, error) {
		calls.Add(1)
		last.Store(query)
		return []palette.Item{{Label: query}}, nil
	})

	first := m.SetQuery("a")
	second := m.SetQuery("ab")
	pump(t, m, first)
	pump(t, m, second)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "ab", last.Load())
}

func TestAsyncFailureShowsMessage(t *testing.T) {
	m := asyncModel(t, func(context.Context, string) ([]palette.Item, error) {
		return nil, errors.New("network down")
	})

	msgs := pump(t, m, m.SetQuery("x"))
	state, ok := find[events.StateMsg](msgs)
	require.True(t, ok)
	assert.NotEmpty(t, state.State)

	assert.Equal(t, palette.StateError, m.Container().State())
	assert.Contains(t, plainView(m), "network down")
}

func TestAsyncEmptyAndLoadingNotices(t *testing.T) {
	m := asyncModel(t, func(context.Context, string) ([]palette.Item, error) {
		return nil, nil
	})

	require.NotNil(t, m.Container().PerformSearch("q"))
	assert.Contains(t, plainView(m), "Searching...")

	msgs := pump(t, m, m.SetQuery("q"))
	done, ok := find[events.SearchCompletedMsg](msgs)
	require.True(t, ok, "empty searches still complete")
	assert.Empty(t, done.Results)
	assert.Equal(t, palette.StateEmpty, m.Container().State())
	assert.Contains(t, plainView(m), "No results found")
}

func TestPromptLineShowsQuery(t *testing.T) {
	m := syncModel(t, []palette.Item{{ID: "a", Label: "A"}}, 0)
	pump(t, m, m.SetQuery("ab"))

	lines := strings.Split(plainView(m), "\n")
	require.Greater(t, len(lines), listTop)
	assert.Contains(t, lines[listTop-1], "> ab")
}
