package palette

import (
	"context"
	"log/slog"
	"time"
)

// Mode selects how a container reacts to input.
type Mode string

const (
	// ModeSync filters the rows already in the menu.
	ModeSync Mode = "sync"
	// ModeAsync asks a SearchFunc for rows.
	ModeAsync Mode = "async"
)

// Options configures a Container.
type Options struct {
	ID string
	// Alias is an alternate lookup key for async registration.
	Alias string
	Mode  Mode
	// Debounce overrides the registered debounce interval when positive.
	Debounce time.Duration

	Input *Input
	Menu  *Menu

	Sanitizer Sanitizer
	Logger    *slog.Logger
	OnEvent   func(Event)
}

// Container is one palette instance. All methods must be called from a single
// goroutine; only Request.Execute may run elsewhere.
type Container struct {
	id       string
	alias    string
	mode     Mode
	debounce time.Duration

	input *Input
	menu  *Menu
	nav   *Navigator

	sanitizer Sanitizer
	logger    *slog.Logger
	observers []func(Event)

	config      *AsyncConfig
	initialized bool
	state       State

	current *Request
	seq     uint64
	ticket  uint64
}

// NewContainer builds an unattached container.
func NewContainer(opts Options) *Container {
	mode := opts.Mode
	if mode == "" {
		mode = ModeSync
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		id:        opts.ID,
		alias:     opts.Alias,
		mode:      mode,
		debounce:  opts.Debounce,
		input:     opts.Input,
		menu:      opts.Menu,
		sanitizer: opts.Sanitizer,
		logger:    logger,
	}
	if opts.OnEvent != nil {
		c.observers = append(c.observers, opts.OnEvent)
	}
	c.nav = NewNavigator(c.input)
	c.nav.OnChange(func(index int, el *Element) {
		c.emit(Event{Kind: EventActive, Index: index, Element: el})
	})
	return c
}

// ID returns the container identifier.
func (c *Container) ID() string { return c.id }

// Alias returns the alternate lookup key, if any.
func (c *Container) Alias() string { return c.alias }

// Key returns the identifier used for async registration: the ID, or the
// alias when the ID is empty.
func (c *Container) Key() string {
	if c.id != "" {
		return c.id
	}
	return c.alias
}

// Mode returns the container mode.
func (c *Container) Mode() Mode { return c.mode }

// Input returns the text field, which may be nil on a misconfigured container.
func (c *Container) Input() *Input { return c.input }

// Menu returns the row list, which may be nil on a misconfigured container.
func (c *Container) Menu() *Menu { return c.menu }

// Navigator returns the container's navigation state.
func (c *Container) Navigator() *Navigator { return c.nav }

// State returns the lifecycle state. Sync containers stay idle.
func (c *Container) State() State {
	if c.state == "" {
		return StateIdle
	}
	return c.state
}

// Initialized reports whether Attach completed.
func (c *Container) Initialized() bool { return c.initialized }

// Config returns the merged async configuration, or nil.
func (c *Container) Config() *AsyncConfig { return c.config }

// Observe registers an additional event callback.
func (c *Container) Observe(fn func(Event)) {
	if fn != nil {
		c.observers = append(c.observers, fn)
	}
}

// Attach wires the container. It is a no-op on an initialized container and
// on an async container without cfg, which stays pending until a config is
// registered. Missing parts produce a *ConfigurationError and leave the
// container untouched.
func (c *Container) Attach(cfg *AsyncConfig) error {
	if c.initialized {
		return nil
	}

	var missing []string
	if c.input == nil {
		missing = append(missing, "input")
	}
	if c.menu == nil {
		missing = append(missing, "menu")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Container: c.id, Missing: missing}
	}

	if c.mode == ModeAsync {
		if cfg == nil {
			return nil
		}
		merged := cfg.WithDefaults()
		c.config = &merged
		c.nav.SetVisible(Take(c.menu).Selectable)
		c.setState(StateIdle, "")
	} else {
		c.nav.SetVisible(Take(c.menu).Selectable)
		c.nav.Seed()
	}

	c.initialized = true
	c.emit(Event{Kind: EventInitialized})
	return nil
}

// Reset cancels in-flight work and clears the initialized marker so the next
// Attach rewires the container.
func (c *Container) Reset() {
	c.cancelCurrent()
	c.ticket++
	c.initialized = false
	c.nav.Reset()
}

// DebounceInterval returns the effective debounce for async input.
func (c *Container) DebounceInterval() time.Duration {
	if c.debounce > 0 {
		return c.debounce
	}
	if c.config != nil {
		return c.config.Debounce
	}
	return DefaultDebounce
}

// FilterItems runs the sync filter against the input value, then highlights
// the first visible row.
func (c *Container) FilterItems() []*Element {
	if !c.initialized {
		return nil
	}
	snap := Take(c.menu)
	c.nav.SetActive(-1)
	visible := Filter(c.input.Value, snap.All, snap.Selectable)
	c.nav.SetVisible(visible)
	c.nav.Seed()
	return visible
}

// HandleKey applies a navigation key and reports whether it did anything.
func (c *Container) HandleKey(key Key) bool {
	if !c.initialized {
		return false
	}
	if key == KeyEnter {
		return c.Commit(c.nav.Active())
	}
	return c.nav.Move(key)
}

// HoverAt highlights visible row i if it differs from the active row.
func (c *Container) HoverAt(i int) bool {
	visible := c.nav.Visible()
	if !c.initialized || i < 0 || i >= len(visible) {
		return false
	}
	return c.nav.Hover(visible[i])
}

// Commit activates visible row i and, unless the row opts out, requests the
// enclosing dialog be closed. Out of range indexes, -1 included, do nothing,
// as do rows that left the menu or turned unselectable since the last cycle.
func (c *Container) Commit(i int) bool {
	visible := c.nav.Visible()
	if !c.initialized || i < 0 || i >= len(visible) {
		return false
	}
	el := visible[i]
	if !Take(c.menu).Contains(el) {
		return false
	}
	c.emit(Event{Kind: EventActivate, Index: i, Element: el})
	if !el.KeepOpen {
		c.emit(Event{Kind: EventClose, Index: i, Element: el})
	}
	return true
}

func (c *Container) setState(state State, message string) {
	c.state = state
	if c.menu != nil {
		if state == StateError && message != "" {
			c.menu.Error = message
		} else {
			c.menu.Error = ""
		}
	}
	c.emit(Event{Kind: EventState, State: state, Message: message})
}

func (c *Container) emit(ev Event) {
	ev.Container = c.id
	for _, fn := range c.observers {
		fn(ev)
	}
}

func (c *Container) newRequest(query string) *Request {
	c.seq++
	ctx, cancel := context.WithCancel(context.Background())
	req := &Request{
		Query:  query,
		Seq:    c.seq,
		Issued: time.Now(),
		ctx:    ctx,
		cancel: cancel,
	}
	if c.config != nil {
		req.search = c.config.OnSearch
	}
	return req
}

func (c *Container) cancelCurrent() {
	if c.current != nil {
		c.current.cancel()
		c.current = nil
	}
}
