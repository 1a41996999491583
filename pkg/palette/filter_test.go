package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(els []*Element) []string {
	out := make([]string, 0, len(els))
	for _, el := range els {
		out = append(out, el.Text)
	}
	return out
}

func TestFilterMatchesTextAndKeywords(t *testing.T) {
	all := BuildElements([]Item{
		{ID: "open", Label: "Open file", Keywords: "load, read"},
		{ID: "save", Label: "Save file", Keywords: "write"},
		{ID: "quit", Label: "Quit", FilterText: "exit application"},
	}, nil)

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"Open file", "Save file", "Quit"}},
		{query: "  FILE ", want: []string{"Open file", "Save file"}},
		{query: "rea", want: []string{"Open file"}},
		{query: "wri", want: []string{"Save file"}},
		{query: "exit", want: []string{"Quit"}},
		{query: "quit", want: nil},
		{query: "zzz", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			snap := Take(NewMenu(all...))
			got := Filter(tt.query, snap.All, snap.Selectable)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, texts(got))
		})
	}
}

func TestFilterAnnotatesEveryRow(t *testing.T) {
	all := BuildElements([]Item{
		{ID: "a", Label: "Alpha"},
		{ID: "b", Label: "Beta", Disabled: true},
		{ID: "c", Label: "Charlie"},
	}, nil)
	snap := Take(NewMenu(all...))

	Filter("e", snap.All, snap.Selectable)
	assert.True(t, all[0].Hidden)
	assert.False(t, all[1].Hidden, "disabled rows are still annotated")
	assert.False(t, all[2].Hidden)
}

func TestFilterForcedRows(t *testing.T) {
	all := BuildElements([]Item{
		{ID: "help", Label: "Help", Force: true},
		{ID: "locked", Label: "Locked", Force: true, AriaDisabled: true},
		{ID: "x", Label: "Export"},
	}, nil)
	snap := Take(NewMenu(all...))

	got := Filter("nothing matches", snap.All, snap.Selectable)
	require.Len(t, got, 1)
	assert.Equal(t, "Help", got[0].Text)
	assert.False(t, all[1].Hidden, "forced rows are shown even when not selectable")
	assert.True(t, all[2].Hidden)
}

func TestSnapshotExcludesDisabled(t *testing.T) {
	all := BuildElements([]Item{
		{ID: "a", Label: "A"},
		{ID: "b", Label: "B", Disabled: true},
		{ID: "c", Label: "C", AriaDisabled: true},
	}, nil)
	snap := Take(NewMenu(all...))
	assert.Len(t, snap.All, 3)
	require.Len(t, snap.Selectable, 1)
	assert.True(t, snap.Contains(all[0]))
	assert.False(t, snap.Contains(all[1]))
}
