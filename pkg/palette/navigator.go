package palette

// Key names a navigation key understood by Navigator.
type Key int

const (
	// KeyDown moves the highlight towards the end of the list.
	KeyDown Key = iota
	// KeyUp moves the highlight towards the start of the list.
	KeyUp
	// KeyHome jumps to the first row.
	KeyHome
	// KeyEnd jumps to the last row.
	KeyEnd
	// KeyEnter commits the active row.
	KeyEnter
)

func (k Key) String() string {
	switch k {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	case KeyHome:
		return "home"
	case KeyEnd:
		return "end"
	case KeyEnter:
		return "enter"
	}
	return "unknown"
}

// Navigator tracks the active row over the visible sequence. The active index
// is always -1 or a valid index into Visible().
type Navigator struct {
	input   *Input
	visible []*Element
	active  int

	scrollTo  int
	scrollReq bool

	onChange func(index int, el *Element)
}

// NewNavigator returns a navigator that keeps input's active descendant in
// sync. input may be nil.
func NewNavigator(input *Input) *Navigator {
	return &Navigator{input: input, active: -1, scrollTo: -1}
}

// OnChange registers a callback invoked whenever the active row changes.
func (n *Navigator) OnChange(fn func(index int, el *Element)) {
	n.onChange = fn
}

// Visible returns the current visible sequence.
func (n *Navigator) Visible() []*Element { return n.visible }

// Active returns the active index, or -1.
func (n *Navigator) Active() int { return n.active }

// ActiveElement returns the active row, or nil.
func (n *Navigator) ActiveElement() *Element {
	if n.active < 0 || n.active >= len(n.visible) {
		return nil
	}
	return n.visible[n.active]
}

// SetVisible replaces the visible sequence and resets the active index.
func (n *Navigator) SetVisible(visible []*Element) {
	n.SetActive(-1)
	n.visible = append(n.visible[:0:0], visible...)
	n.scrollReq = false
	n.scrollTo = -1
}

// Reset clears the visible sequence.
func (n *Navigator) Reset() {
	n.SetVisible(nil)
}

// SetActive deactivates the previous row and activates index i. Out of range
// indexes clear the highlight. It reports whether the index changed.
func (n *Navigator) SetActive(i int) bool {
	if prev := n.ActiveElement(); prev != nil {
		prev.Active = false
	}
	if i < 0 || i >= len(n.visible) {
		i = -1
	}
	changed := i != n.active
	n.active = i

	el := n.ActiveElement()
	if el != nil {
		el.Active = true
	}
	if n.input != nil {
		if el != nil && el.ID != "" {
			n.input.ActiveDescendant = el.ID
		} else {
			n.input.ActiveDescendant = ""
		}
	}
	if changed && n.onChange != nil {
		n.onChange(n.active, el)
	}
	return changed
}

// Seed activates the first row if there is one and asks for it to be scrolled
// into view.
func (n *Navigator) Seed() {
	if len(n.visible) == 0 {
		return
	}
	n.SetActive(0)
	n.requestScroll(0)
}

// Move applies a directional key. Moves never wrap: Down on the last row and
// Up on the first are no-ops, while from -1 Down goes to the first row and Up
// to the last. It reports whether the active row changed.
func (n *Navigator) Move(key Key) bool {
	total := len(n.visible)
	if total == 0 {
		return false
	}
	next := n.active
	switch key {
	case KeyDown:
		if n.active < total-1 {
			next = n.active + 1
		} else if n.active == -1 {
			next = 0
		}
	case KeyUp:
		if n.active > 0 {
			next = n.active - 1
		} else if n.active == -1 {
			next = total - 1
		}
	case KeyHome:
		next = 0
	case KeyEnd:
		next = total - 1
	default:
		return false
	}
	if next == n.active || next < 0 {
		return false
	}
	n.SetActive(next)
	n.requestScroll(next)
	return true
}

// Hover activates the visible row el, if it differs from the active row.
func (n *Navigator) Hover(el *Element) bool {
	idx := n.IndexOf(el)
	if idx < 0 || idx == n.active {
		return false
	}
	return n.SetActive(idx)
}

// IndexOf returns the position of el in the visible sequence, or -1.
func (n *Navigator) IndexOf(el *Element) int {
	if el == nil {
		return -1
	}
	for i, candidate := range n.visible {
		if candidate == el {
			return i
		}
	}
	return -1
}

// TakeScroll returns and clears the pending scroll-into-view request.
func (n *Navigator) TakeScroll() (int, bool) {
	if !n.scrollReq {
		return -1, false
	}
	idx := n.scrollTo
	n.scrollReq = false
	n.scrollTo = -1
	if idx < 0 || idx >= len(n.visible) {
		return -1, false
	}
	return idx, true
}

func (n *Navigator) requestScroll(i int) {
	n.scrollTo = i
	n.scrollReq = true
}
