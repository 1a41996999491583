package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/palette/pkg/app"
	"tableflip.dev/palette/pkg/store"
)

// Seed stores the starter commands so a fresh catalog has something to show.
type Seed struct {
	Persistence store.Persistence
	Out         io.Writer
}

func (n *Seed) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not seed, no persistence")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	svc := &app.Service{Persistence: n.Persistence}
	added, err := svc.Seed(ctx)
	if err != nil {
		return err
	}
	if added == 0 {
		_, _ = color.New(color.Faint).Fprintln(out, "catalog already seeded")
		return nil
	}
	_, _ = fmt.Fprintf(out, "seeded %d of %d starter commands\n", added, len(app.StarterItems()))
	return nil
}
