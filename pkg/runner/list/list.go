package list

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/palette/pkg/app"
	"tableflip.dev/palette/pkg/printers"
	"tableflip.dev/palette/pkg/store"
)

type List struct {
	ShowID bool
	// Group limits output to one group. Empty lists every group.
	Group       string
	Groups      bool
	Persistence store.Persistence
	Out         io.Writer
}

func (n *List) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not list, no persistence")
	}
	svc := &app.Service{Persistence: n.Persistence}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.NewLine()

	groups, err := svc.Groups(ctx)
	if err != nil {
		return err
	}

	if n.Groups {
		pp.Title("groups")
		for _, g := range groups {
			all, err := svc.Group(ctx, g)
			if err != nil {
				return err
			}
			pp.TitleWithCount("  "+g, len(all))
		}
		pp.NewLine()
		return nil
	}

	if n.Group != "" {
		all, err := svc.Group(ctx, n.Group)
		if err != nil {
			return err
		}
		pp.TitleWithCount(n.Group, len(all))
		pp.Items(all...)
		return nil
	}

	if len(groups) == 0 {
		pp.Title("catalog")
		pp.Items()
		return nil
	}
	for _, g := range groups {
		all, err := svc.Group(ctx, g)
		if err != nil {
			return err
		}
		pp.TitleWithCount(g, len(all))
		pp.Items(all...)
	}
	return nil
}
