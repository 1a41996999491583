package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"tableflip.dev/palette/pkg/palette"
	"tableflip.dev/palette/pkg/palette/source"
	"tableflip.dev/palette/pkg/store"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildSync(t *testing.T) {
	svc := &Service{Persistence: newMemoryPersistence(
		palette.Item{ID: "a", Label: "Alpha", Group: "One"},
		palette.Item{ID: "b", Label: "Beta", Group: "Two"},
	)}
	p, err := svc.Build(context.Background(), PaletteOptions{
		Extra:  []palette.Item{{Label: "Gamma"}},
		Logger: quiet(),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	c := p.Container
	if c.Mode() != palette.ModeSync || !c.Initialized() {
		t.Fatalf("mode=%q initialized=%t", c.Mode(), c.Initialized())
	}
	if got := c.Menu().Len(); got != 3 {
		t.Fatalf("menu len = %d, want 3", got)
	}
	if _, ok := p.Host.Lookup(ContainerID); !ok {
		t.Fatal("host does not track the container")
	}
}

func TestBuildAsyncSearchesCatalog(t *testing.T) {
	svc := &Service{Persistence: newMemoryPersistence(
		palette.Item{ID: "a", Label: "Alpha"},
		palette.Item{ID: "b", Label: "Beta"},
	)}
	p, err := svc.Build(context.Background(), PaletteOptions{
		Mode:     palette.ModeAsync,
		Settings: &store.Settings{MaxResults: 5},
		Extra:    []palette.Item{{Label: "Alphorn"}},
		Logger:   quiet(),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	c, ok := p.Host.Lookup("search")
	if !ok || c != p.Container {
		t.Fatal("container not reachable through its alias")
	}
	if !c.Initialized() {
		t.Fatal("async container not attached after registration")
	}

	req := c.PerformSearch("alph")
	if req == nil {
		t.Fatal("no request started")
	}
	items, err := req.Execute()
	if got := c.Settle(req, items, err); got != palette.OutcomeResults {
		t.Fatalf("Settle = %v (err %v)", got, err)
	}
	var labels []string
	for _, el := range c.Menu().Elements() {
		labels = append(labels, el.Item.Label)
	}
	if len(labels) != 2 || labels[0] != "Alpha" || labels[1] != "Alphorn" {
		t.Fatalf("labels = %v", labels)
	}
}

func TestBuildAsyncReportsUnavailableCatalog(t *testing.T) {
	svc := &Service{Persistence: newMemoryPersistence()}
	search := svc.searchFunc(PaletteOptions{})
	svc.Persistence = nil

	_, err := search(context.Background(), "x")
	if !errors.Is(err, source.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestBuildWithoutPersistence(t *testing.T) {
	svc := &Service{}
	if _, err := svc.Build(context.Background(), PaletteOptions{}); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("err = %v", err)
	}
}
