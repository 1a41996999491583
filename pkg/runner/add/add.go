package add

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/palette/pkg/app"
	"tableflip.dev/palette/pkg/palette"
	"tableflip.dev/palette/pkg/printers"
	"tableflip.dev/palette/pkg/store"
)

type Add struct {
	Item palette.Item

	ShowID      bool
	Persistence store.Persistence
	Out         io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not add, no persistence")
	}
	svc := &app.Service{Persistence: n.Persistence}
	stored, err := svc.Add(ctx, n.Item)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	all, err := svc.Group(ctx, stored.Group)
	if err != nil {
		return err
	}
	pp.TitleWithCount(stored.Group, len(all))
	pp.Items(all...)
	return nil
}
