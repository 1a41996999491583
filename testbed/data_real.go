package main

import (
	"context"

	"tableflip.dev/palette/pkg/app"
	"tableflip.dev/palette/pkg/palette"
	"tableflip.dev/palette/pkg/store"
)

// loadItems returns the sample items, or the configured catalog with --real.
func loadItems(ctx context.Context, opts options) ([]palette.Item, error) {
	if !opts.real {
		return sampleItems(), nil
	}
	p, err := store.Load(nil)
	if err != nil {
		return nil, err
	}
	svc := &app.Service{Persistence: p}
	return svc.Items(ctx)
}
