package palette

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// QueryChanged records raw input. Sync containers filter immediately and
// return false. Async containers return a Pending that the caller fires after
// its Delay; only the most recent Pending is honoured by Fire.
func (c *Container) QueryChanged(raw string) (Pending, bool) {
	if !c.initialized || c.input == nil {
		return Pending{}, false
	}
	c.input.Value = raw
	if c.mode != ModeAsync {
		c.FilterItems()
		return Pending{}, false
	}
	c.ticket++
	return Pending{
		Ticket: c.ticket,
		Query:  strings.TrimSpace(raw),
		Delay:  c.DebounceInterval(),
	}, true
}

// Fire starts the search for p if no newer input arrived since p was issued.
// It returns nil when p is stale or when the query is too short to search.
func (c *Container) Fire(p Pending) *Request {
	if !c.initialized || p.Ticket != c.ticket {
		return nil
	}
	return c.PerformSearch(p.Query)
}

// PerformSearch cancels any running request and starts a new one for query.
// Queries shorter than the configured minimum clear the menu, move to idle and
// return nil.
func (c *Container) PerformSearch(query string) *Request {
	if !c.initialized || c.config == nil {
		return nil
	}
	c.cancelCurrent()

	if utf8.RuneCountInString(query) < c.config.MinLength {
		c.clearResults()
		c.setState(StateIdle, "")
		return nil
	}

	req := c.newRequest(query)
	c.current = req
	c.setState(StateLoading, "")
	return req
}

// Current returns the request in flight, or nil.
func (c *Container) Current() *Request { return c.current }

// Settle applies the response for req. Responses for cancelled or superseded
// requests are dropped without touching any state, as are cancellation errors.
func (c *Container) Settle(req *Request, results []Item, err error) Outcome {
	if req == nil || req != c.current || req.Canceled() {
		return OutcomeDiscarded
	}
	defer func() {
		if c.current == req {
			c.current = nil
			req.cancel()
		}
	}()

	if err != nil {
		if IsCancellation(err) {
			return OutcomeDiscarded
		}
		failure := &SearchFailure{Query: req.Query, Err: err}
		c.logger.Error("command async search error",
			slog.String("container", c.id),
			slog.String("query", req.Query),
			slog.Any("err", err))
		c.clearResults()
		c.setState(StateError, failure.Message())
		return OutcomeFailed
	}

	if len(results) == 0 {
		c.clearResults()
		c.setState(StateEmpty, "")
		c.emit(Event{Kind: EventSearchCompleted, Query: req.Query, Results: []Item{}})
		return OutcomeEmpty
	}

	shown := results
	if len(shown) > c.config.MaxResults {
		shown = shown[:c.config.MaxResults]
	}
	render := c.config.RenderItem
	if render == nil {
		render = DefaultRenderer(c.sanitizer)
	}
	elements := make([]*Element, 0, len(shown))
	for i, item := range shown {
		if el := render(item, resultID(c.Key(), i)); el != nil {
			elements = append(elements, el)
		}
	}
	c.menu.Replace(elements)
	c.setState(StateResults, "")

	c.nav.SetVisible(Take(c.menu).Selectable)
	c.nav.Seed()

	c.emit(Event{Kind: EventSearchCompleted, Query: req.Query, Results: results})
	return OutcomeResults
}

func (c *Container) clearResults() {
	c.menu.Clear()
	c.nav.Reset()
}

func resultID(key string, i int) string {
	return key + "-result-" + strconv.Itoa(i)
}
