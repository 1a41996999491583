package palette

import (
	"context"
	"time"
)

// Request is one async lookup. Only the container that issued it may settle
// it; Execute is safe to call from any goroutine.
type Request struct {
	Query  string
	Seq    uint64
	Issued time.Time

	ctx    context.Context
	cancel context.CancelFunc
	search SearchFunc
}

// Context returns the request's cancellation token.
func (r *Request) Context() context.Context { return r.ctx }

// Canceled reports whether the request has been superseded.
func (r *Request) Canceled() bool { return r.ctx.Err() != nil }

// Execute runs the search function bound to the request.
func (r *Request) Execute() ([]Item, error) {
	if err := r.ctx.Err(); err != nil {
		return nil, err
	}
	if r.search == nil {
		return nil, ErrNoSearch
	}
	return r.search(r.ctx, r.Query)
}

// Pending is a debounced query waiting for its quiet period to elapse.
type Pending struct {
	Ticket uint64
	Query  string
	Delay  time.Duration
}
