// Package source provides palette.SearchFunc implementations and decorators.
package source

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/palette/pkg/palette"
)

// ErrUnavailable is returned by Lazy when the backing search cannot be loaded.
var ErrUnavailable = errors.New("Search is not available")

// Searcher is anything that can look items up, such as the catalog store.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]palette.Item, error)
}

// Catalog adapts a Searcher. A limit of zero asks for every match.
func Catalog(s Searcher, limit int) palette.SearchFunc {
	return func(ctx context.Context, query string) ([]palette.Item, error) {
		return s.Search(ctx, query, limit)
	}
}

// Static matches query against a fixed item list, case-insensitively, over
// label, keywords, filter text and excerpt. Order is preserved.
func Static(items []palette.Item) palette.SearchFunc {
	snapshot := append([]palette.Item(nil), items...)
	return func(ctx context.Context, query string) ([]palette.Item, error) {
		term := strings.ToLower(strings.TrimSpace(query))
		out := make([]palette.Item, 0, len(snapshot))
		for _, item := range snapshot {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if MatchItem(item, term) {
				out = append(out, item)
			}
		}
		return out, nil
	}
}

// MatchItem reports whether item matches an already lower-cased term.
func MatchItem(item palette.Item, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{item.Label, item.Keywords, item.FilterText, item.Excerpt} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Merge queries every source concurrently and concatenates the results in
// source order. The first error cancels the remaining lookups.
func Merge(sources ...palette.SearchFunc) palette.SearchFunc {
	return func(ctx context.Context, query string) ([]palette.Item, error) {
		results := make([][]palette.Item, len(sources))
		g, gctx := errgroup.WithContext(ctx)
		for i, search := range sources {
			if search == nil {
				continue
			}
			g.Go(func() error {
				items, err := search(gctx, query)
				if err != nil {
					return err
				}
				results[i] = items
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var merged []palette.Item
		for _, items := range results {
			merged = append(merged, items...)
		}
		return merged, nil
	}
}

// Delay waits d before delegating, returning early if ctx is cancelled. It
// simulates a slow backend in demos.
func Delay(d time.Duration, next palette.SearchFunc) palette.SearchFunc {
	if d <= 0 {
		return next
	}
	return func(ctx context.Context, query string) ([]palette.Item, error) {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
		return next(ctx, query)
	}
}

// Timeout bounds every lookup to d. Expiry surfaces as a failure rather than
// a cancellation so the palette shows it.
func Timeout(d time.Duration, next palette.SearchFunc) palette.SearchFunc {
	if d <= 0 {
		return next
	}
	return func(ctx context.Context, query string) ([]palette.Item, error) {
		tctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		items, err := next(tctx, query)
		if err != nil && ctx.Err() == nil && errors.Is(tctx.Err(), context.DeadlineExceeded) {
			return nil, errors.New("search timed out")
		}
		return items, err
	}
}

// Lazy defers building the search until the first query. A failed load is
// forgotten so the next query retries.
func Lazy(load func(ctx context.Context) (palette.SearchFunc, error)) palette.SearchFunc {
	var (
		mu     sync.Mutex
		loaded palette.SearchFunc
	)
	return func(ctx context.Context, query string) ([]palette.Item, error) {
		mu.Lock()
		search := loaded
		if search == nil {
			var err error
			search, err = load(ctx)
			if err != nil {
				mu.Unlock()
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				return nil, &loadError{err: err}
			}
			loaded = search
		}
		mu.Unlock()
		return search(ctx, query)
	}
}

type loadError struct {
	err error
}

func (e *loadError) Error() string { return ErrUnavailable.Error() }

func (e *loadError) Unwrap() []error { return []error{ErrUnavailable, e.err} }
