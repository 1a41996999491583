package palette

import (
	"strings"
	"unicode"
)

// Sanitizer escapes untrusted text and vets link targets before they reach a
// rendered row.
type Sanitizer interface {
	Escape(text string) string
	IsSafeURL(url string) bool
}

// RenderFunc turns an item into a row with the given ID. Returning nil drops
// the item.
type RenderFunc func(item Item, id string) *Element

// DefaultRenderer renders label, URL and keywords through s. The row is a link
// only when the URL passes s.IsSafeURL. Item.Icon is the one field inserted
// verbatim, and only when Item.TrustedIcon is set.
//
// Escaping only touches the display fields (Markup, Href, KeywordsMarkup).
// Text and Keywords keep the visible text so filtering never sees entities.
//
// A nil Sanitizer degrades to plain text: no link, and a label stripped of
// non-printable runes.
func DefaultRenderer(s Sanitizer) RenderFunc {
	return func(item Item, id string) *Element {
		el := newElement(item, id)
		el.Text = plainText(item.Label)
		el.Keywords = plainText(item.Keywords)

		var label, icon string
		if s == nil {
			label = el.Text
			el.KeywordsMarkup = el.Keywords
		} else {
			if item.URL != "" && s.IsSafeURL(item.URL) {
				el.Link = true
				el.Href = s.Escape(item.URL)
			}
			if item.Keywords != "" {
				el.KeywordsMarkup = s.Escape(item.Keywords)
			}
			label = s.Escape(item.Label)
			if !item.TrustedIcon && item.Icon != "" {
				icon = s.Escape(item.Icon) + " "
			}
		}
		if item.TrustedIcon && item.Icon != "" {
			icon = item.Icon + " "
		}

		el.Markup = icon + label
		return el
	}
}

func newElement(item Item, id string) *Element {
	return &Element{
		ID:           id,
		FilterText:   item.FilterText,
		Disabled:     item.Disabled,
		AriaDisabled: item.AriaDisabled,
		Force:        item.Force,
		KeepOpen:     item.KeepOpen,
		Item:         item,
	}
}

func plainText(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}
