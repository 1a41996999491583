// Package host keeps the application-level registry of palette containers and
// async configurations, and decides when each container is attached.
package host

import (
	"errors"
	"log/slog"
	"sync"

	"tableflip.dev/palette/pkg/palette"
)

// Host maps container keys to containers and registered async configs.
type Host struct {
	mu     sync.Mutex
	logger *slog.Logger

	containers []*palette.Container
	configs    map[string]palette.AsyncConfig
}

// New returns an empty host. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		logger:  logger,
		configs: make(map[string]palette.AsyncConfig),
	}
}

// Attach adds c to the host if it is new and attaches it. Attaching an
// initialized container does nothing. Configuration errors are logged and
// only affect c. It reports whether c is initialized afterwards.
func (h *Host) Attach(c *palette.Container) bool {
	if c == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.track(c)
	return h.attach(c)
}

// RegisterAsync stores cfg, merged with the defaults, under id and attaches a
// matching async container that is not yet initialized. id matches either a
// container ID or its alias.
func (h *Host) RegisterAsync(id string, cfg palette.AsyncConfig) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.configs[id] = cfg.WithDefaults()
	c := h.find(id)
	if c == nil || c.Mode() != palette.ModeAsync || c.Initialized() {
		return
	}
	h.attach(c)
}

// InitAll attaches every pending async container whose ID has a registered
// config.
func (h *Host) InitAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.containers {
		if c.Mode() != palette.ModeAsync || c.Initialized() || c.ID() == "" {
			continue
		}
		if _, ok := h.configs[c.ID()]; ok {
			h.attach(c)
		}
	}
}

// AttachAll attaches every tracked container that is not yet initialized.
func (h *Host) AttachAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.containers {
		h.attach(c)
	}
}

// Reinit clears every initialized marker and attaches everything again.
// In-flight searches are cancelled.
func (h *Host) Reinit() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.containers {
		c.Reset()
	}
	for _, c := range h.containers {
		h.attach(c)
	}
}

// Lookup returns the container registered under id or alias.
func (h *Host) Lookup(id string) (*palette.Container, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.find(id)
	return c, c != nil
}

// Remove forgets the container registered under id or alias, cancelling its
// work.
func (h *Host) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	target := h.find(id)
	if target == nil {
		return
	}
	for i, c := range h.containers {
		if c == target {
			c.Reset()
			h.containers = append(h.containers[:i], h.containers[i+1:]...)
			return
		}
	}
}

// Containers returns the tracked containers in insertion order.
func (h *Host) Containers() []*palette.Container {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*palette.Container(nil), h.containers...)
}

func (h *Host) track(c *palette.Container) {
	for _, existing := range h.containers {
		if existing == c {
			return
		}
	}
	h.containers = append(h.containers, c)
}

func (h *Host) find(id string) *palette.Container {
	if id == "" {
		return nil
	}
	for _, c := range h.containers {
		if c.ID() == id {
			return c
		}
	}
	for _, c := range h.containers {
		if c.Alias() == id {
			return c
		}
	}
	return nil
}

func (h *Host) attach(c *palette.Container) bool {
	if c.Initialized() {
		return true
	}
	var cfg *palette.AsyncConfig
	if c.Mode() == palette.ModeAsync {
		if registered, ok := h.lookupConfig(c); ok {
			cfg = &registered
		}
	}
	if err := c.Attach(cfg); err != nil {
		var cfgErr *palette.ConfigurationError
		if errors.As(err, &cfgErr) {
			h.logger.Error("command component initialization failed",
				slog.String("container", cfgErr.Container),
				slog.Any("missing", cfgErr.Missing))
		} else {
			h.logger.Error("command component initialization failed",
				slog.String("container", c.ID()),
				slog.Any("err", err))
		}
		return false
	}
	if !c.Initialized() {
		h.logger.Debug("async container waiting for registration", slog.String("container", c.Key()))
	}
	return c.Initialized()
}

func (h *Host) lookupConfig(c *palette.Container) (palette.AsyncConfig, bool) {
	if cfg, ok := h.configs[c.ID()]; ok && c.ID() != "" {
		return cfg, true
	}
	if c.Alias() != "" {
		cfg, ok := h.configs[c.Alias()]
		return cfg, ok
	}
	return palette.AsyncConfig{}, false
}
