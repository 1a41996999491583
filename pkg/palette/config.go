package palette

import (
	"context"
	"time"
)

const (
	// DefaultMinLength is the shortest query that triggers a search.
	DefaultMinLength = 1
	// DefaultDebounce is the quiet period before a search fires.
	DefaultDebounce = 150 * time.Millisecond
	// DefaultMaxResults caps the rendered result count.
	DefaultMaxResults = 8
)

// SearchFunc looks up items for query. It must stop producing effects once
// ctx is cancelled; results returned after that are discarded anyway.
type SearchFunc func(ctx context.Context, query string) ([]Item, error)

// AsyncConfig configures an async container. Zero values take the defaults.
type AsyncConfig struct {
	MinLength  int
	Debounce   time.Duration
	MaxResults int
	OnSearch   SearchFunc
	RenderItem RenderFunc
}

// WithDefaults returns a copy of c with unset fields filled in.
func (c AsyncConfig) WithDefaults() AsyncConfig {
	if c.MinLength <= 0 {
		c.MinLength = DefaultMinLength
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	return c
}
