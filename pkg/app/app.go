package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/palette/pkg/palette"
	"tableflip.dev/palette/pkg/store"
)

// Service provides high-level catalog operations so the UI and the CLI share
// one code path over persistence.
type Service struct {
	Persistence store.Persistence
}

// ErrNoPersistence is returned by every operation on an unconfigured Service.
var ErrNoPersistence = errors.New("app: no persistence configured")

// Items returns every catalog item in display order.
func (s *Service) Items(ctx context.Context) ([]palette.Item, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.ListAll(ctx), nil
}

// Group returns the items of one group.
func (s *Service) Group(ctx context.Context, group string) ([]palette.Item, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.List(ctx, group), nil
}

// Groups returns the sorted group names.
func (s *Service) Groups(ctx context.Context) ([]string, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Groups(ctx), nil
}

// Add validates and stores item, returning it with its assigned ID.
func (s *Service) Add(ctx context.Context, item palette.Item) (*palette.Item, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	item.Keywords = strings.Join(strings.FieldsFunc(item.Keywords, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}), ",")
	if item.ID != "" {
		if _, err := s.Persistence.Get(ctx, item.ID); err == nil {
			return nil, fmt.Errorf("app: item %q already exists", item.ID)
		}
	}
	if err := s.Persistence.Store(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Remove deletes the item with the given id.
func (s *Service) Remove(ctx context.Context, id string) error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	return s.Persistence.Delete(ctx, strings.TrimSpace(id))
}

// Search implements source.Searcher over the catalog.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]palette.Item, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Search(ctx, query, limit)
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// Seed stores the starter commands that are not already present and returns
// how many were added.
func (s *Service) Seed(ctx context.Context) (int, error) {
	if s.Persistence == nil {
		return 0, ErrNoPersistence
	}
	added := 0
	for _, item := range StarterItems() {
		if _, err := s.Persistence.Get(ctx, item.ID); err == nil {
			continue
		}
		item := item
		if err := s.Persistence.Store(&item); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// StarterItems is the catalog written by Seed.
func StarterItems() []palette.Item {
	return []palette.Item{
		{ID: "newfile", Label: "New file", Group: "Files", Keywords: "create,touch", URL: "/files/new"},
		{ID: "openfile", Label: "Open file", Group: "Files", Keywords: "load,browse", URL: "/files/open"},
		{ID: "savefile", Label: "Save file", Group: "Files", Keywords: "write", URL: "/files/save"},
		{ID: "saveall", Label: "Save all", Group: "Files", Keywords: "write", Disabled: true},
		{ID: "theme", Label: "Toggle theme", Group: "View", Keywords: "dark,light,colors", KeepOpen: true},
		{ID: "sidebar", Label: "Toggle sidebar", Group: "View", Keywords: "panel"},
		{ID: "zoomin", Label: "Zoom in", Group: "View", Keywords: "bigger,font"},
		{ID: "zoomout", Label: "Zoom out", Group: "View", Keywords: "smaller,font"},
		{ID: "settings", Label: "Settings", Group: "Preferences", Keywords: "config,options", URL: "/settings"},
		{ID: "shortcuts", Label: "Keyboard shortcuts", Group: "Preferences", Keywords: "keys,bindings", URL: "/settings/keys"},
		{ID: "docs", Label: "Documentation", Group: "Help", Keywords: "manual,guide", URL: "https://example.com/docs",
			Excerpt: "Read the <mark>guide</mark> for every command."},
		{ID: "help", Label: "Help", Group: "Help", Force: true, URL: "#help"},
	}
}
