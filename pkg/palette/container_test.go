package palette

import (
	"bytes"
	"context"
	"errors"
	"html"
	"log/slog"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type htmlSanitizer struct{}

func (htmlSanitizer) Escape(text string) string { return html.EscapeString(text) }

func (htmlSanitizer) IsSafeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "#")
	}
	return u.Scheme == "" || u.Scheme == "http" || u.Scheme == "https"
}

type recorder struct {
	events []Event
}

func (r *recorder) observe(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) last(kind EventKind) (Event, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == kind {
			return r.events[i], true
		}
	}
	return Event{}, false
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newSync(t *testing.T, items []Item) (*Container, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := NewContainer(Options{
		ID:      "cmd",
		Mode:    ModeSync,
		Input:   &Input{},
		Menu:    NewMenu(BuildElements(items, DefaultRenderer(htmlSanitizer{}))...),
		Logger:  quietLogger(),
		OnEvent: rec.observe,
	})
	require.NoError(t, c.Attach(nil))
	return c, rec
}

func newAsync(t *testing.T, cfg AsyncConfig) (*Container, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := NewContainer(Options{
		ID:        "search",
		Mode:      ModeAsync,
		Input:     &Input{},
		Menu:      NewMenu(),
		Sanitizer: htmlSanitizer{},
		Logger:    quietLogger(),
		OnEvent:   rec.observe,
	})
	require.NoError(t, c.Attach(&cfg))
	return c, rec
}

func TestSyncScenarioSkipsDisabledMatch(t *testing.T) {
	c, _ := newSync(t, []Item{
		{ID: "alpha", Label: "Alpha"},
		{ID: "beta", Label: "Beta", Disabled: true},
		{ID: "gamma", Label: "Gamma"},
	})

	c.QueryChanged("a")

	nav := c.Navigator()
	assert.Equal(t, []string{"Alpha", "Gamma"}, texts(nav.Visible()))
	assert.Equal(t, 0, nav.Active())
	assert.Equal(t, "alpha", c.Input().ActiveDescendant)
}

func TestSyncAttachActivatesFirstRow(t *testing.T) {
	c, rec := newSync(t, []Item{{ID: "one", Label: "One"}, {ID: "two", Label: "Two"}})

	assert.True(t, c.Initialized())
	assert.Equal(t, 0, c.Navigator().Active())
	assert.Equal(t, []EventKind{EventActive, EventInitialized}, rec.kinds())
}

func TestSyncFilterWithNoMatchesLeavesNothingActive(t *testing.T) {
	c, _ := newSync(t, []Item{{ID: "one", Label: "One"}})
	c.QueryChanged("zzz")
	assert.Equal(t, -1, c.Navigator().Active())
	assert.Empty(t, c.Input().ActiveDescendant)
}

func TestAttachIsIdempotent(t *testing.T) {
	c, rec := newSync(t, []Item{{ID: "one", Label: "One"}})
	c.Navigator().SetActive(-1)

	require.NoError(t, c.Attach(nil))
	assert.Equal(t, 1, rec.count(EventInitialized))
	assert.Equal(t, -1, c.Navigator().Active(), "second attach must not reseed")
}

func TestAttachMissingParts(t *testing.T) {
	c := NewContainer(Options{ID: "broken", Logger: quietLogger()})
	err := c.Attach(nil)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"input", "menu"}, cfgErr.Missing)
	assert.False(t, c.Initialized())
	assert.Contains(t, err.Error(), "input, menu")
}

func TestAsyncAttachDeferredWithoutConfig(t *testing.T) {
	c := NewContainer(Options{ID: "later", Mode: ModeAsync, Input: &Input{}, Menu: NewMenu()})
	require.NoError(t, c.Attach(nil))
	assert.False(t, c.Initialized())

	_, ok := c.QueryChanged("abc")
	assert.False(t, ok)

	require.NoError(t, c.Attach(&AsyncConfig{}))
	assert.True(t, c.Initialized())
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, DefaultMaxResults, c.Config().MaxResults)
	assert.Equal(t, DefaultDebounce, c.DebounceInterval())
}

func TestDebounceOverride(t *testing.T) {
	c := NewContainer(Options{ID: "x", Mode: ModeAsync, Input: &Input{}, Menu: NewMenu(), Debounce: 40 * time.Millisecond})
	require.NoError(t, c.Attach(&AsyncConfig{Debounce: time.Second}))
	p, ok := c.QueryChanged("  hi  ")
	require.True(t, ok)
	assert.Equal(t, 40*time.Millisecond, p.Delay)
	assert.Equal(t, "hi", p.Query)
}

func TestDebounceFiresOnlyTrailingQuery(t *testing.T) {
	var searched []string
	c, _ := newAsync(t, AsyncConfig{
		MinLength: 2,
		OnSearch: func(_ context.Context, q string) ([]Item, error) {
			searched = append(searched, q)
			return nil, nil
		},
	})

	first, ok := c.QueryChanged("a")
	require.True(t, ok)
	second, ok := c.QueryChanged("ab")
	require.True(t, ok)

	assert.Nil(t, c.Fire(first))
	req := c.Fire(second)
	require.NotNil(t, req)
	_, err := req.Execute()
	require.NoError(t, err)

	assert.Equal(t, []string{"ab"}, searched)
}

func TestShortQueryGoesIdle(t *testing.T) {
	c, _ := newAsync(t, AsyncConfig{
		MinLength: 2,
		OnSearch: func(context.Context, string) ([]Item, error) {
			return []Item{{Label: "One"}}, nil
		},
	})

	req := c.PerformSearch("on")
	require.NotNil(t, req)
	items, err := req.Execute()
	require.Equal(t, OutcomeResults, c.Settle(req, items, err))
	require.Equal(t, 1, c.Menu().Len())

	assert.Nil(t, c.PerformSearch("o"))
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 0, c.Menu().Len())
	assert.Equal(t, -1, c.Navigator().Active())
	assert.True(t, req.Canceled())
}

func TestStaleResponseIsSuppressed(t *testing.T) {
	c, rec := newAsync(t, AsyncConfig{})

	reqA := c.PerformSearch("a")
	reqB := c.PerformSearch("b")
	require.NotNil(t, reqA)
	require.NotNil(t, reqB)
	assert.True(t, reqA.Canceled())
	assert.False(t, reqB.Canceled())

	assert.Equal(t, OutcomeResults, c.Settle(reqB, []Item{{Label: "Bravo"}}, nil))
	assert.Equal(t, OutcomeDiscarded, c.Settle(reqA, []Item{{Label: "Alpha"}}, nil))

	assert.Equal(t, []string{"Bravo"}, texts(c.Menu().Elements()))
	assert.Equal(t, StateResults, c.State())
	assert.Equal(t, 1, rec.count(EventSearchCompleted))
	assert.Nil(t, c.Current())
}

func TestStaleResponseBeforeCurrentSettles(t *testing.T) {
	c, _ := newAsync(t, AsyncConfig{})

	reqA := c.PerformSearch("a")
	reqB := c.PerformSearch("b")

	assert.Equal(t, OutcomeDiscarded, c.Settle(reqA, []Item{{Label: "Alpha"}}, nil))
	assert.Equal(t, StateLoading, c.State())
	assert.Same(t, reqB, c.Current(), "stale settle must not clear the current request")
}

func TestEmptyResults(t *testing.T) {
	c, rec := newAsync(t, AsyncConfig{})
	req := c.PerformSearch("nothing")

	assert.Equal(t, OutcomeEmpty, c.Settle(req, nil, nil))
	assert.Equal(t, StateEmpty, c.State())
	assert.Equal(t, 0, c.Menu().Len())

	ev, ok := rec.last(EventSearchCompleted)
	require.True(t, ok)
	assert.Equal(t, "nothing", ev.Query)
	assert.NotNil(t, ev.Results)
	assert.Empty(t, ev.Results)
}

func TestResultsTruncatedInOrder(t *testing.T) {
	c, rec := newAsync(t, AsyncConfig{MaxResults: 3})
	results := []Item{{Label: "1"}, {Label: "2"}, {Label: "3"}, {Label: "4"}, {Label: "5"}}

	req := c.PerformSearch("n")
	assert.Equal(t, OutcomeResults, c.Settle(req, results, nil))

	els := c.Menu().Elements()
	assert.Equal(t, []string{"1", "2", "3"}, texts(els))
	assert.Equal(t, "search-result-0", els[0].ID)
	assert.Equal(t, "search-result-2", els[2].ID)
	assert.Equal(t, 0, c.Navigator().Active())
	assert.Equal(t, "search-result-0", c.Input().ActiveDescendant)

	ev, ok := rec.last(EventSearchCompleted)
	require.True(t, ok)
	assert.Len(t, ev.Results, 5, "the event carries the raw results")
}

func TestSearchFailureSurfacesMessage(t *testing.T) {
	var logs bytes.Buffer
	rec := &recorder{}
	c := NewContainer(Options{
		ID:      "search",
		Mode:    ModeAsync,
		Input:   &Input{},
		Menu:    NewMenu(&Element{ID: "old", Text: "Old"}),
		Logger:  slog.New(slog.NewTextHandler(&logs, nil)),
		OnEvent: rec.observe,
	})
	require.NoError(t, c.Attach(&AsyncConfig{
		OnSearch: func(context.Context, string) ([]Item, error) {
			return nil, errors.New("network down")
		},
	}))

	req := c.PerformSearch("x")
	items, err := req.Execute()
	assert.Equal(t, OutcomeFailed, c.Settle(req, items, err))

	assert.Equal(t, StateError, c.State())
	assert.Equal(t, 0, c.Menu().Len())
	assert.Equal(t, "network down", c.Menu().Error)
	assert.Contains(t, logs.String(), "network down")

	ev, ok := rec.last(EventState)
	require.True(t, ok)
	assert.Equal(t, "network down", ev.Message)

	next := c.PerformSearch("xy")
	require.NotNil(t, next)
	assert.Empty(t, c.Menu().Error, "leaving the error state clears the message")
}

func TestFailureWithoutMessage(t *testing.T) {
	c, _ := newAsync(t, AsyncConfig{})
	req := c.PerformSearch("x")
	c.Settle(req, nil, errors.New(""))
	assert.Equal(t, DefaultErrorMessage, c.Menu().Error)
}

func TestCancellationIsSilent(t *testing.T) {
	var logs bytes.Buffer
	c := NewContainer(Options{
		ID:     "search",
		Mode:   ModeAsync,
		Input:  &Input{},
		Menu:   NewMenu(),
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	})
	require.NoError(t, c.Attach(&AsyncConfig{}))

	req := c.PerformSearch("x")
	assert.Equal(t, OutcomeDiscarded, c.Settle(req, nil, ErrCanceled))
	assert.Equal(t, StateLoading, c.State())
	assert.Empty(t, logs.String())
	assert.Nil(t, c.Current(), "settling clears the bookkeeping")

	again := c.PerformSearch("x")
	require.NotNil(t, again)
	assert.Equal(t, OutcomeDiscarded, c.Settle(again, nil, context.Canceled))
}

func TestExecuteAfterCancel(t *testing.T) {
	called := false
	c, _ := newAsync(t, AsyncConfig{
		OnSearch: func(context.Context, string) ([]Item, error) {
			called = true
			return nil, nil
		},
	})
	req := c.PerformSearch("a")
	c.PerformSearch("ab")

	_, err := req.Execute()
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestEnterWithNothingActive(t *testing.T) {
	c, rec := newSync(t, []Item{{ID: "one", Label: "One"}})
	c.Navigator().SetActive(-1)
	rec.events = nil

	assert.False(t, c.HandleKey(KeyEnter))
	assert.Empty(t, rec.events)
}

func TestEnterCommitsAndCloses(t *testing.T) {
	c, rec := newSync(t, []Item{
		{ID: "one", Label: "One"},
		{ID: "two", Label: "Two", KeepOpen: true},
	})
	rec.events = nil

	require.True(t, c.HandleKey(KeyEnter))
	assert.Equal(t, []EventKind{EventActivate, EventClose}, rec.kinds())

	rec.events = nil
	require.True(t, c.HandleKey(KeyDown))
	require.True(t, c.HandleKey(KeyEnter))
	assert.Equal(t, []EventKind{EventActive, EventActivate}, rec.kinds())
}

func TestHoverAndClick(t *testing.T) {
	c, rec := newSync(t, []Item{{ID: "one", Label: "One"}, {ID: "two", Label: "Two"}})
	rec.events = nil

	assert.False(t, c.HoverAt(0), "already active")
	assert.True(t, c.HoverAt(1))
	assert.False(t, c.HoverAt(5))
	assert.True(t, c.Commit(1))

	ev, ok := rec.last(EventActivate)
	require.True(t, ok)
	assert.Equal(t, "two", ev.Element.ID)
}

func TestResetAllowsReattach(t *testing.T) {
	c, rec := newAsync(t, AsyncConfig{})
	req := c.PerformSearch("a")
	c.Reset()

	assert.True(t, req.Canceled())
	assert.False(t, c.Initialized())
	require.NoError(t, c.Attach(c.Config()))
	assert.Equal(t, 2, rec.count(EventInitialized))
}

func TestDefaultRendererEscapes(t *testing.T) {
	render := DefaultRenderer(htmlSanitizer{})

	el := render(Item{Label: "<b>x</b>", URL: "javascript:alert(1)", Keywords: "a&b"}, "id-0")
	assert.False(t, el.Link)
	assert.Empty(t, el.Href)
	assert.Equal(t, "<b>x</b>", el.Text)
	assert.Equal(t, "&lt;b&gt;x&lt;/b&gt;", el.Markup)
	assert.Equal(t, "a&b", el.Keywords)
	assert.Equal(t, "a&amp;b", el.KeywordsMarkup)

	el = render(Item{Label: "Docs", URL: "/docs?a=1&b=2"}, "id-1")
	assert.True(t, el.Link)
	assert.Equal(t, "/docs?a=1&amp;b=2", el.Href)

	el = render(Item{Label: "Star", Icon: "<i>*</i>", TrustedIcon: true}, "id-2")
	assert.Equal(t, "<i>*</i> Star", el.Markup)

	el = render(Item{Label: "Star", Icon: "<i>*</i>"}, "id-3")
	assert.Equal(t, "&lt;i&gt;*&lt;/i&gt; Star", el.Markup)
}

func TestDefaultRendererWithoutSanitizer(t *testing.T) {
	el := DefaultRenderer(nil)(Item{Label: "ok\x07", URL: "https://example.com", Keywords: "k"}, "id")
	assert.False(t, el.Link)
	assert.Equal(t, "k", el.Keywords)
	assert.Equal(t, "ok", el.Text)
	assert.Equal(t, "ok", el.Markup)
}

func TestCommitIgnoresRowsThatLeftTheMenu(t *testing.T) {
	c, rec := newSync(t, []Item{{ID: "one", Label: "One"}, {ID: "two", Label: "Two"}})

	c.Menu().Elements()[1].Disabled = true
	assert.False(t, c.Commit(1), "row turned unselectable")

	c.Menu().Replace(BuildElements([]Item{{ID: "three", Label: "Three"}}, nil))
	assert.False(t, c.Commit(0), "row replaced before the next cycle")
	assert.Zero(t, rec.count(EventActivate))

	c.FilterItems()
	assert.True(t, c.Commit(0))
}

func TestSyncFilterMatchesVisibleText(t *testing.T) {
	c, _ := newSync(t, []Item{
		{ID: "tom", Label: "Tom & Jerry", Keywords: "cat<mouse>"},
		{ID: "example", Label: "Example"},
	})

	c.QueryChanged("tom & jerry")
	assert.Equal(t, []string{"Tom & Jerry"}, texts(c.Navigator().Visible()))

	c.QueryChanged("amp")
	assert.Equal(t, []string{"Example"}, texts(c.Navigator().Visible()), "entities never match")

	c.QueryChanged("<mouse")
	assert.Equal(t, []string{"Tom & Jerry"}, texts(c.Navigator().Visible()))
}

func TestSyncFilterKeywordsWithoutSanitizer(t *testing.T) {
	c := NewContainer(Options{
		ID:     "cmd",
		Mode:   ModeSync,
		Input:  &Input{},
		Menu:   NewMenu(BuildElements([]Item{{ID: "ship", Label: "Ship it", Keywords: "deploy release"}}, nil)...),
		Logger: quietLogger(),
	})
	require.NoError(t, c.Attach(nil))

	c.QueryChanged("deploy")
	assert.Equal(t, []string{"Ship it"}, texts(c.Navigator().Visible()))
	assert.Equal(t, 0, c.Navigator().Active())
}
