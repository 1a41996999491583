package palette

import "strings"

// Filter applies a substring and keyword match over all rows and returns the
// matching selectable rows in their original order. Every row has its Hidden
// flag updated. Forced rows are always shown.
func Filter(query string, all, selectable []*Element) []*Element {
	term := strings.ToLower(strings.TrimSpace(query))

	allowed := make(map[*Element]struct{}, len(selectable))
	for _, el := range selectable {
		allowed[el] = struct{}{}
	}

	visible := make([]*Element, 0, len(selectable))
	for _, el := range all {
		if el == nil {
			continue
		}
		matches := el.Force || Matches(el, term)
		el.Hidden = !matches
		if !matches {
			continue
		}
		if _, ok := allowed[el]; ok {
			visible = append(visible, el)
		}
	}
	return visible
}

// Matches reports whether el matches an already-normalised term.
func Matches(el *Element, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(el.matchText(), term) {
		return true
	}
	for _, keyword := range el.keywordList() {
		if strings.Contains(keyword, term) {
			return true
		}
	}
	return false
}
