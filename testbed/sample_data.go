package main

import "tableflip.dev/palette/pkg/palette"

func sampleItems() []palette.Item {
	return []palette.Item{
		{ID: "open", Label: "Open project", Group: "Project", Keywords: "folder,workspace", URL: "/project/open"},
		{ID: "recent", Label: "Recent projects", Group: "Project", Keywords: "history"},
		{ID: "close", Label: "Close project", Group: "Project", Disabled: true},
		{ID: "build", Label: "Build", Group: "Run", Keywords: "compile,make", URL: "/run/build"},
		{ID: "test", Label: "Run tests", Group: "Run", Keywords: "check,verify", URL: "/run/test"},
		{ID: "bench", Label: "Run benchmarks", Group: "Run", Keywords: "perf", AriaDisabled: true},
		{ID: "wrap", Label: "Toggle word wrap", Group: "Editor", Keywords: "lines", KeepOpen: true},
		{ID: "minimap", Label: "Toggle minimap", Group: "Editor", KeepOpen: true},
		{ID: "format", Label: "Format document", Group: "Editor", Keywords: "gofmt,prettier,<b>bold</b>"},
		{ID: "guide", Label: "User guide", Group: "Help", URL: "https://example.com/guide",
			Excerpt: "Everything about the <mark>palette</mark> and its <mark>keys</mark>."},
		{ID: "unsafe", Label: "Suspicious link", Group: "Help", URL: "javascript:alert(1)"},
		{ID: "about", Label: "About", Group: "Help", Force: true},
	}
}
