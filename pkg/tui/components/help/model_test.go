package help

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpRendersMarkdown(t *testing.T) {
	m := New(70, 30, true)
	require.NoError(t, m.Err())

	view, cursor := m.View()
	assert.Nil(t, cursor)
	plain := ansi.Strip(view)
	assert.Contains(t, plain, "Command palette")
	assert.Contains(t, plain, "Highlight the next row")
}

func TestHelpClampsToMinimumSize(t *testing.T) {
	m := New(4, 2, false)
	view, _ := m.View()
	lines := strings.Split(view, "\n")
	assert.GreaterOrEqual(t, len(lines), 8)
	assert.GreaterOrEqual(t, ansi.StringWidth(lines[0]), 32)
}

func TestHelpScrolls(t *testing.T) {
	m := New(40, 8, true)
	before, _ := m.View()

	next, _ := m.Update(tea.KeyPressMsg{Code: tea.KeyPgDown})
	after, _ := next.View()
	assert.NotEqual(t, before, after)
}
