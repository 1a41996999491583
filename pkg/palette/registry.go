package palette

// Snapshot partitions a menu's rows at one point in time.
type Snapshot struct {
	All        []*Element
	Selectable []*Element
}

// Take re-scans the menu. Async rendering replaces rows wholesale, so a
// snapshot is never reused across filter or search cycles.
func Take(menu *Menu) Snapshot {
	all := menu.Elements()
	snap := Snapshot{
		All:        append([]*Element(nil), all...),
		Selectable: make([]*Element, 0, len(all)),
	}
	for _, el := range all {
		if el.Selectable() {
			snap.Selectable = append(snap.Selectable, el)
		}
	}
	return snap
}

// Contains reports whether el is one of the snapshot's selectable rows.
func (s Snapshot) Contains(el *Element) bool {
	for _, candidate := range s.Selectable {
		if candidate == el {
			return true
		}
	}
	return false
}
