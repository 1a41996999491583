package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tableflip.dev/palette/pkg/palette"
	"tableflip.dev/palette/pkg/palette/host"
	"tableflip.dev/palette/pkg/palette/sanitize"
	"tableflip.dev/palette/pkg/palette/source"
	"tableflip.dev/palette/pkg/store"
)

// ContainerID is the key the catalog palette registers under.
const ContainerID = "command-search"

// PaletteOptions controls how Build wires a palette over the catalog.
type PaletteOptions struct {
	Mode palette.Mode
	// Settings supplies async limits. Nil uses the palette defaults.
	Settings *store.Settings
	// Latency delays every async lookup, to exercise the loading state.
	Latency time.Duration
	// Timeout bounds every async lookup. Zero means no bound.
	Timeout time.Duration
	// Extra rows are searched alongside the catalog in async mode.
	Extra  []palette.Item
	Logger *slog.Logger
}

// Palette is a catalog-backed container and the host that attached it.
type Palette struct {
	Container *palette.Container
	Host      *host.Host
	Render    palette.RenderFunc
}

// Build creates a container over the catalog. Sync palettes load every item
// up front; async palettes query the catalog lazily as the user types.
func (s *Service) Build(ctx context.Context, opts PaletteOptions) (*Palette, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mode := opts.Mode
	if mode == "" {
		mode = palette.ModeSync
	}

	render := palette.DefaultRenderer(sanitize.Terminal{})
	h := host.New(logger)
	input := &palette.Input{}

	switch mode {
	case palette.ModeSync:
		items, err := s.Items(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, opts.Extra...)
		c := palette.NewContainer(palette.Options{
			ID:        ContainerID,
			Mode:      palette.ModeSync,
			Input:     input,
			Menu:      palette.NewMenu(palette.BuildElements(items, render)...),
			Sanitizer: sanitize.Terminal{},
			Logger:    logger,
		})
		h.Attach(c)
		return &Palette{Container: c, Host: h, Render: render}, nil

	case palette.ModeAsync:
		c := palette.NewContainer(palette.Options{
			ID:        ContainerID,
			Alias:     "search",
			Mode:      palette.ModeAsync,
			Input:     input,
			Menu:      palette.NewMenu(),
			Sanitizer: sanitize.Terminal{},
			Logger:    logger,
		})
		h.Attach(c)

		settings := opts.Settings
		if settings == nil {
			settings = &store.Settings{}
		}
		h.RegisterAsync(ContainerID, settings.AsyncConfig(s.searchFunc(opts)))
		return &Palette{Container: c, Host: h, Render: render}, nil
	}
	return nil, fmt.Errorf("app: unknown palette mode %q", mode)
}

func (s *Service) searchFunc(opts PaletteOptions) palette.SearchFunc {
	catalog := source.Lazy(func(ctx context.Context) (palette.SearchFunc, error) {
		if _, err := s.Groups(ctx); err != nil {
			return nil, err
		}
		return source.Catalog(s, 0), nil
	})
	search := catalog
	if len(opts.Extra) > 0 {
		search = source.Merge(catalog, source.Static(opts.Extra))
	}
	search = source.Delay(opts.Latency, search)
	return source.Timeout(opts.Timeout, search)
}
