package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/palette/pkg/palette"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// ItemRef captures the parts of a palette row other components care about.
type ItemRef struct {
	ID    string
	Label string
	Href  string
	Group string
}

// RefFromElement converts a rendered row into an event reference.
func RefFromElement(el *palette.Element) ItemRef {
	if el == nil {
		return ItemRef{}
	}
	return ItemRef{
		ID:    el.ID,
		Label: el.Item.Label,
		Href:  el.Href,
		Group: el.Item.Group,
	}
}

// QueryChangeMsg is emitted when the palette input value changes.
type QueryChangeMsg struct {
	Component ComponentID
	Value     string
}

// Describe implements the logging helper.
func (m QueryChangeMsg) Describe() string {
	return fmt.Sprintf(`value:%q`, m.Value)
}

// QueryChangeCmd wraps QueryChangeMsg.
func QueryChangeCmd(component ComponentID, value string) tea.Cmd {
	return func() tea.Msg {
		return QueryChangeMsg{Component: component, Value: value}
	}
}

// InitializedMsg announces a palette container finished attaching.
type InitializedMsg struct {
	Component ComponentID
	Mode      palette.Mode
}

// Describe implements the logging helper.
func (m InitializedMsg) Describe() string {
	return fmt.Sprintf(`component:%q mode:%q`, m.Component, m.Mode)
}

// StateMsg reports a lifecycle transition of an async palette.
type StateMsg struct {
	Component ComponentID
	State     palette.State
	Message   string
}

// Describe implements the logging helper.
func (m StateMsg) Describe() string {
	if m.Message != "" {
		return fmt.Sprintf(`state:%q message:%q`, m.State, m.Message)
	}
	return fmt.Sprintf(`state:%q`, m.State)
}

// SearchCompletedMsg is emitted after an async search settles.
type SearchCompletedMsg struct {
	Component ComponentID
	Query     string
	Results   []palette.Item
}

// Describe implements the logging helper.
func (m SearchCompletedMsg) Describe() string {
	return fmt.Sprintf(`query:%q results:%d`, m.Query, len(m.Results))
}

// HighlightMsg fires whenever the palette highlights a different row.
type HighlightMsg struct {
	Component ComponentID
	Index     int
	Item      ItemRef
}

// Describe renders the highlight for logs.
func (m HighlightMsg) Describe() string {
	if m.Index < 0 {
		return `index:-1`
	}
	return fmt.Sprintf(`index:%d item:%q`, m.Index, m.Item.Label)
}

// ActivateMsg fires when the user commits a row with Enter or a click.
type ActivateMsg struct {
	Component ComponentID
	Index     int
	Item      ItemRef
	KeepOpen  bool
}

// Describe renders the activation for logs.
func (m ActivateMsg) Describe() string {
	return fmt.Sprintf(`item:%q href:%q keep-open:%t`, m.Item.Label, m.Item.Href, m.KeepOpen)
}

// CloseRequestMsg asks the root model to close the palette dialog.
type CloseRequestMsg struct {
	Component ComponentID
	Reason    string
}

// Describe implements the logging helper.
func (m CloseRequestMsg) Describe() string {
	return fmt.Sprintf(`component:%q reason:%q`, m.Component, m.Reason)
}

// CloseRequestCmd wraps CloseRequestMsg.
func CloseRequestCmd(component ComponentID, reason string) tea.Cmd {
	return func() tea.Msg {
		return CloseRequestMsg{Component: component, Reason: reason}
	}
}

// FromPalette converts a core palette event into its Bubble Tea message.
func FromPalette(component ComponentID, ev palette.Event) tea.Msg {
	switch ev.Kind {
	case palette.EventInitialized:
		return InitializedMsg{Component: component}
	case palette.EventState:
		return StateMsg{Component: component, State: ev.State, Message: ev.Message}
	case palette.EventSearchCompleted:
		return SearchCompletedMsg{Component: component, Query: ev.Query, Results: ev.Results}
	case palette.EventActive:
		return HighlightMsg{Component: component, Index: ev.Index, Item: RefFromElement(ev.Element)}
	case palette.EventActivate:
		keep := ev.Element != nil && ev.Element.KeepOpen
		return ActivateMsg{Component: component, Index: ev.Index, Item: RefFromElement(ev.Element), KeepOpen: keep}
	case palette.EventClose:
		return CloseRequestMsg{Component: component, Reason: "activate"}
	}
	return nil
}

// Emit wraps msg in a tea.Cmd, or returns nil for a nil msg.
func Emit(msg tea.Msg) tea.Cmd {
	if msg == nil {
		return nil
	}
	return func() tea.Msg { return msg }
}

// FocusMsg indicates a component just gained focus.
type FocusMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m FocusMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"focus"`, m.Component)
}

// BlurMsg indicates a component just lost focus.
type BlurMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m BlurMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"blur"`, m.Component)
}

// FocusCmd wraps a FocusMsg in a tea.Cmd helper.
func FocusCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: component}
	}
}

// BlurCmd wraps a BlurMsg in a tea.Cmd helper.
func BlurCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return BlurMsg{Component: component}
	}
}

// CatalogChangedMsg reports that the backing item catalog changed on disk.
type CatalogChangedMsg struct {
	Group string
}

// Describe implements the logging helper.
func (m CatalogChangedMsg) Describe() string {
	if m.Group == "" {
		return `scope:"all"`
	}
	return fmt.Sprintf(`group:%q`, m.Group)
}
