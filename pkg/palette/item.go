// Package palette implements the controller behind a searchable command
// palette: the item registry, the synchronous filter, the debounced async
// search pipeline and the keyboard/pointer navigation state machine.
//
// Nothing in this package draws to a terminal. A Container owns plain values
// (Input, Menu, Element) that a view layer renders, and reports changes
// through Event callbacks.
package palette

import "strings"

// Item is one candidate row supplied by the host, either up front for sync
// containers or by a SearchFunc for async containers.
type Item struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	URL        string `json:"url,omitempty"`
	Keywords   string `json:"keywords,omitempty"`
	FilterText string `json:"filter,omitempty"`
	Group      string `json:"group,omitempty"`
	Excerpt    string `json:"excerpt,omitempty"`

	Disabled     bool `json:"disabled,omitempty"`
	AriaDisabled bool `json:"ariaDisabled,omitempty"`
	Force        bool `json:"force,omitempty"`
	KeepOpen     bool `json:"keepOpen,omitempty"`

	// Icon is inserted into the rendered row without escaping, and only when
	// TrustedIcon is set. Callers setting TrustedIcon vouch for its content.
	Icon        string `json:"icon,omitempty"`
	TrustedIcon bool   `json:"trustedIcon,omitempty"`
}

// Element is a rendered row living in a Menu.
type Element struct {
	ID string

	// Link is set when the row navigates to Href on activation.
	Link bool
	Href string

	// Text is the plain text content used for filtering.
	Text       string
	FilterText string
	Keywords   string

	// Markup is the display form of the row, ready for the view layer.
	// KeywordsMarkup is the escaped form of Keywords.
	Markup         string
	KeywordsMarkup string

	Disabled     bool
	AriaDisabled bool
	Force        bool
	KeepOpen     bool

	// Hidden mirrors aria-hidden on sync rows; Active is the highlight.
	Hidden bool
	Active bool

	Item Item
}

// Selectable reports whether the row may become active.
func (e *Element) Selectable() bool {
	return e != nil && !e.Disabled && !e.AriaDisabled
}

// matchText returns the lower-cased text the filter compares against.
func (e *Element) matchText() string {
	text := e.FilterText
	if text == "" {
		text = e.Text
	}
	return strings.ToLower(strings.TrimSpace(text))
}

// keywordList splits Keywords on whitespace and commas.
func (e *Element) keywordList() []string {
	fields := strings.FieldsFunc(strings.ToLower(e.Keywords), func(r rune) bool {
		switch r {
		case ',', ' ', '\t', '\n', '\r', '\f', '\v':
			return true
		}
		return false
	})
	return fields
}

// Input is the text field heading the palette.
type Input struct {
	Value string

	// ActiveDescendant names the ID of the active row, or is empty.
	ActiveDescendant string
}

// Menu holds the live rows of a container in display order.
type Menu struct {
	elements []*Element

	// Error carries the failure message while the container is in the error
	// state.
	Error string
}

// NewMenu returns a menu seeded with the given rows.
func NewMenu(elements ...*Element) *Menu {
	return &Menu{elements: append([]*Element(nil), elements...)}
}

// Elements returns the current rows. The slice must not be modified.
func (m *Menu) Elements() []*Element {
	if m == nil {
		return nil
	}
	return m.elements
}

// Len reports the number of rows.
func (m *Menu) Len() int {
	if m == nil {
		return 0
	}
	return len(m.elements)
}

// Replace swaps in a new set of rows.
func (m *Menu) Replace(elements []*Element) {
	m.elements = append(m.elements[:0:0], elements...)
}

// Clear removes every row.
func (m *Menu) Clear() {
	m.elements = nil
}

// BuildElements renders items through render, using each item's ID as the row
// ID. A nil render falls back to DefaultRenderer(nil).
func BuildElements(items []Item, render RenderFunc) []*Element {
	if render == nil {
		render = DefaultRenderer(nil)
	}
	out := make([]*Element, 0, len(items))
	for _, item := range items {
		if el := render(item, item.ID); el != nil {
			out = append(out, el)
		}
	}
	return out
}
