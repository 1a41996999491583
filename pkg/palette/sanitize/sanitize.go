// Package sanitize makes untrusted item text safe to print in a terminal.
package sanitize

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Terminal implements palette.Sanitizer for terminal output. Escape strips
// ANSI sequences and control characters so item text cannot move the cursor
// or restyle the screen.
type Terminal struct{}

// Escape returns text with escape sequences and control runes removed.
func (Terminal) Escape(text string) string {
	return Escape(text)
}

// IsSafeURL accepts http, https, scheme-less and root-relative targets.
func (Terminal) IsSafeURL(raw string) bool {
	return IsSafeURL(raw)
}

// Escape strips ANSI sequences and control runes. Tabs become spaces.
func Escape(text string) string {
	if text == "" {
		return ""
	}
	stripped := ansi.Strip(text)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		case unicode.In(r, unicode.Zl, unicode.Zp):
			return -1
		}
		return r
	}, stripped)
}

// IsSafeURL reports whether raw is an acceptable link target. Parse failures
// fall back to accepting root-relative paths and fragments.
func IsSafeURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "#")
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return true
	}
	return strings.HasPrefix(raw, "/")
}

// Excerpt reduces an HTML search excerpt to its text, passing the contents of
// every <mark> element through mark. All other markup is dropped and text is
// escaped. A nil mark leaves highlighted text unstyled.
func Excerpt(fragment string, mark func(string) string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	if mark == nil {
		mark = func(s string) string { return s }
	}
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return Escape(fragment)
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(Escape(n.Data))
		case n.Type == html.ElementNode && n.DataAtom == atom.Mark:
			b.WriteString(mark(Escape(textContent(n))))
		default:
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				walk(child)
			}
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return b.String()
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(textContent(child))
	}
	return b.String()
}
