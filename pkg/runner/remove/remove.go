package remove

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/palette/pkg/app"
	"tableflip.dev/palette/pkg/store"
)

// ErrNoIDs is returned when Remove is run without any IDs.
var ErrNoIDs = errors.New("remove: at least one id is required")

type Remove struct {
	IDs         []string
	Persistence store.Persistence
	Out         io.Writer
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not remove, no persistence")
	}
	if len(n.IDs) == 0 {
		return ErrNoIDs
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	svc := &app.Service{Persistence: n.Persistence}
	var errs []error
	for _, id := range n.IDs {
		if err := svc.Remove(ctx, id); err != nil {
			errs = append(errs, err)
			continue
		}
		_, _ = color.New(color.Faint).Fprintf(out, "removed %s\n", id)
	}
	return errors.Join(errs...)
}
