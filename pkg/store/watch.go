package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a catalog change notification.
type EventType int

const (
	// EventGroupChanged indicates items in the given group were added, edited
	// or removed. Palettes showing that group should rebuild their rows.
	EventGroupChanged EventType = iota

	// EventCatalogInvalidated signals that the set of groups changed (a group
	// directory appeared or vanished) or that the watcher could not classify a
	// change. Callers should reload the whole catalog.
	EventCatalogInvalidated
)

// Event is emitted by Persistence.Watch when the catalog on disk changes.
type Event struct {
	Type  EventType
	Group string
}

// watchDelay is how long a burst of writes is collected before callers hear
// about it. A single `palette add` touches the item file more than once.
var watchDelay = 100 * time.Millisecond

// Watch streams catalog changes until ctx is cancelled. The returned channel
// is closed once ctx is done or the watcher fails for good. Callers should
// drain it promptly: events are dropped while the buffer is full, and the next
// delivered event triggers a reload anyway.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}

	// diskv creates group directories lazily, so an empty catalog may not
	// have a base directory yet.
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	w := &catalogWatcher{
		p:        p,
		fsw:      fsw,
		watched:  make(map[string]struct{}),
		throttle: newEventThrottle(watchDelay),
		out:      make(chan Event, 64),
	}

	dirs, err := collectDirs(p.basePath)
	if err != nil {
		w.close()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := w.add(dir); err != nil {
			w.close()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	go w.run(ctx)
	return w.out, nil
}

// catalogWatcher owns one fsnotify watcher. Everything but the throttle timer
// runs on the run goroutine, which is also the only sender on out.
type catalogWatcher struct {
	p        *persistence
	fsw      *fsnotify.Watcher
	watched  map[string]struct{}
	throttle *eventThrottle
	out      chan Event
	once     sync.Once
}

func (w *catalogWatcher) run(ctx context.Context) {
	defer close(w.out)
	defer w.close()
	defer w.throttle.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.throttle.Ready():
			for _, ev := range w.throttle.Drain() {
				w.send(ev)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// An overflowed or failed watch means changes may have been
			// missed, so ask for a full reload rather than guess.
			slog.Debug("store: watcher error", slog.Any("err", err))
			w.throttle.Enqueue(Event{Type: EventCatalogInvalidated})
		case evt, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev, ok := w.classify(evt); ok {
				w.throttle.Enqueue(ev)
			}
		}
	}
}

// classify maps one filesystem event onto a catalog event. Chmod-only events
// carry no content change and are ignored.
func (w *catalogWatcher) classify(evt fsnotify.Event) (Event, bool) {
	if evt.Op == fsnotify.Chmod {
		return Event{}, false
	}

	if evt.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
			// New group directory: watch it so writes of its items are
			// seen, and announce the new group through a reload.
			dir := filepath.Clean(evt.Name)
			if err := w.add(dir); err != nil {
				slog.Warn("store: watch directory", slog.String("dir", dir), slog.Any("err", err))
			}
			return Event{Type: EventCatalogInvalidated}, true
		}
	}

	// Removing a watched directory removes a whole group.
	if evt.Op&fsnotify.Remove == fsnotify.Remove {
		if _, found := w.watched[filepath.Clean(evt.Name)]; found {
			delete(w.watched, filepath.Clean(evt.Name))
			return Event{Type: EventCatalogInvalidated}, true
		}
	}

	group := w.p.groupForPath(evt.Name)
	if group == "" {
		return Event{Type: EventCatalogInvalidated}, true
	}
	return Event{Type: EventGroupChanged, Group: group}, true
}

// add watches dir once. fsnotify is not recursive, so every group directory
// needs its own watch.
func (w *catalogWatcher) add(dir string) error {
	if _, found := w.watched[dir]; found {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.watched[dir] = struct{}{}
	return nil
}

// send never blocks the watcher; a busy consumer misses intermediate events
// but still receives a later one.
func (w *catalogWatcher) send(ev Event) {
	select {
	case w.out <- ev:
	default:
	}
}

func (w *catalogWatcher) close() {
	w.once.Do(func() {
		if err := w.fsw.Close(); err != nil {
			slog.Warn("store: watcher close", slog.Any("err", err))
		}
	})
}

// collectDirs walks base and returns all directories that should be watched:
// the base itself and every group directory below it.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A directory removed mid-walk is not an error for the watcher.
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, filepath.Clean(path))
		}
		return nil
	})
	return dirs, err
}

// groupForPath derives the group from a diskv path. The first path segment
// below the base is the encoded group; files directly in the base, and dot
// files such as editor swap files, return "" so callers reload everything.
func (p *persistence) groupForPath(path string) string {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return ""
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) < 2 {
		return ""
	}
	encoded := parts[0]
	if encoded == "" || strings.HasPrefix(encoded, ".") {
		return ""
	}
	return fromGroup(encoded)
}

// eventThrottle coalesces a burst of filesystem writes into one notification
// per group. Its timer only raises Ready; the owner drains on its own
// goroutine, so nothing is sent after the owner stops.
type eventThrottle struct {
	mu          sync.Mutex
	delay       time.Duration
	timer       *time.Timer
	ready       chan struct{}
	invalidated bool
	groups      map[string]struct{}
	order       []string
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:  delay,
		ready:  make(chan struct{}, 1),
		groups: make(map[string]struct{}),
	}
}

// Enqueue records ev and arms the timer if it is not already running.
func (t *eventThrottle) Enqueue(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Type {
	case EventCatalogInvalidated:
		t.invalidated = true
	default:
		if _, seen := t.groups[ev.Group]; !seen {
			t.groups[ev.Group] = struct{}{}
			t.order = append(t.order, ev.Group)
		}
	}

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			select {
			case t.ready <- struct{}{}:
			default:
			}
		})
	}
}

// Ready fires once per burst after the delay elapses.
func (t *eventThrottle) Ready() <-chan struct{} { return t.ready }

// Drain returns the pending events and resets the throttle. A catalog
// invalidation already covers every group, so it replaces them.
func (t *eventThrottle) Drain() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Event
	if t.invalidated {
		out = []Event{{Type: EventCatalogInvalidated}}
	} else {
		out = make([]Event, 0, len(t.order))
		for _, group := range t.order {
			out = append(out, Event{Type: EventGroupChanged, Group: group})
		}
	}
	t.invalidated = false
	t.groups = make(map[string]struct{})
	t.order = nil
	t.timer = nil
	return out
}

// Stop cancels a pending flush. Pending events are discarded.
func (t *eventThrottle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
