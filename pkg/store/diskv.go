package store

import (
	"context"
	"crypto/md5"
	"encoding/base32"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/palette/pkg/palette"
	"tableflip.dev/palette/pkg/palette/source"
)

// DefaultGroup holds items stored without a group.
const DefaultGroup = "general"

// Persistence defines the persistence contract for palette items.
type Persistence interface {
	ListAll(ctx context.Context) []palette.Item
	List(ctx context.Context, group string) []palette.Item
	Groups(ctx context.Context) []string
	Get(ctx context.Context, id string) (palette.Item, error)
	Store(item *palette.Item) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit int) ([]palette.Item, error)
	Watch(ctx context.Context) (<-chan Event, error)
}

// ErrNotFound is returned when no item has the requested ID.
var ErrNotFound = errors.New("store: item not found")

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string) (palette.Item, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return palette.Item{}, err
	}
	item := palette.Item{}
	if err := json.Unmarshal(val, &item); err != nil {
		return palette.Item{}, err
	}
	pk := keyToPathTransform(key)
	item.ID = pk.FileName
	if item.Group == "" {
		item.Group = fromGroup(groupKey(pk))
	}
	return item, nil
}

func (p *persistence) ListAll(ctx context.Context) []palette.Item {
	all := make([]palette.Item, 0)
	for key := range p.d.Keys(ctx.Done()) {
		item, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, item)
	}
	sortItems(all)
	return all
}

func (p *persistence) List(ctx context.Context, group string) []palette.Item {
	gk := toGroup(group)
	all := make([]palette.Item, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if pk := keyToPathTransform(key); groupKey(pk) == gk {
			item, err := p.read(key)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
				continue
			}
			all = append(all, item)
		}
	}
	sortItems(all)
	return all
}

func (p *persistence) Groups(ctx context.Context) []string {
	seen := make(map[string]struct{})
	for key := range p.d.Keys(ctx.Done()) {
		seen[fromGroup(groupKey(keyToPathTransform(key)))] = struct{}{}
	}
	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

func (p *persistence) Get(ctx context.Context, id string) (palette.Item, error) {
	key, ok := p.keyFor(ctx, id)
	if !ok {
		return palette.Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p.read(key)
}

func (p *persistence) Store(item *palette.Item) error {
	if item == nil {
		return errors.New("store: nil item")
	}
	item.Label = strings.TrimSpace(item.Label)
	if item.Label == "" {
		return errors.New("store: item label required")
	}
	if strings.TrimSpace(item.Group) == "" {
		item.Group = DefaultGroup
	}
	if item.ID == "" {
		b, _ := json.Marshal(item)
		id := md5.Sum(b)
		item.ID = fmt.Sprintf("%x", id[:8])
	}
	if strings.Contains(item.ID, "-") {
		return fmt.Errorf("store: item id %q must not contain '-'", item.ID)
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("store: encode item: %w", err)
	}
	key := toKey(item)
	if prev, ok := p.keyFor(context.Background(), item.ID); ok && prev != key {
		// The item moved groups.
		if err := p.d.Erase(prev); err != nil {
			return fmt.Errorf("store: move item: %w", err)
		}
	}
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write item: %w", err)
	}
	return nil
}

func (p *persistence) Delete(ctx context.Context, id string) error {
	key, ok := p.keyFor(ctx, id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p.d.Erase(key)
}

// Search returns items matching query in catalog order, stopping early when
// ctx is cancelled. A limit of zero or less returns every match.
func (p *persistence) Search(ctx context.Context, query string, limit int) ([]palette.Item, error) {
	term := strings.ToLower(strings.TrimSpace(query))
	all := p.ListAll(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches := make([]palette.Item, 0)
	for _, item := range all {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !source.MatchItem(item, term) {
			continue
		}
		matches = append(matches, item)
		if limit > 0 && len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

func (p *persistence) keyFor(ctx context.Context, id string) (string, bool) {
	if id == "" {
		return "", false
	}
	for key := range p.d.Keys(ctx.Done()) {
		if keyToPathTransform(key).FileName == id {
			return key, true
		}
	}
	return "", false
}

func sortItems(items []palette.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		left, right := items[i], items[j]
		if left.Group != right.Group {
			return left.Group < right.Group
		}
		if !strings.EqualFold(left.Label, right.Label) {
			return strings.ToLower(left.Label) < strings.ToLower(right.Label)
		}
		return left.ID < right.ID
	})
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func groupKey(pk *diskv.PathKey) string {
	if len(pk.Path) == 0 {
		return ""
	}
	return pk.Path[0]
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `group-id`
func toKey(item *palette.Item) string {
	return fmt.Sprintf("%s-%s", toGroup(item.Group), item.ID)
}

// Group names are base32hex encoded: the alphabet is safe for directory names
// and never contains the '-' key separator.
var groupEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

func toGroup(s string) string {
	return groupEncoding.EncodeToString([]byte(s))
}

func fromGroup(s string) string {
	group, err := groupEncoding.DecodeString(s)
	if err != nil {
		return fmt.Sprintf("fromGroup: %s", err)
	}
	return string(group)
}
