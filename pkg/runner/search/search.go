package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/palette/pkg/app"
	"tableflip.dev/palette/pkg/palette"
	"tableflip.dev/palette/pkg/printers"
	"tableflip.dev/palette/pkg/store"
)

// Search runs one async palette lookup against the catalog without a
// terminal UI and prints how the palette settled.
type Search struct {
	Query string

	Settings   *store.Settings
	MinLength  int
	MaxResults int
	Latency    time.Duration
	Timeout    time.Duration

	JSON        bool
	ShowID      bool
	Persistence store.Persistence
	Logger      *slog.Logger
	Out         io.Writer
}

// Result is the palette state after the search settled.
type Result struct {
	Query   string         `json:"query"`
	State   palette.State  `json:"state"`
	Message string         `json:"message,omitempty"`
	Active  int            `json:"active"`
	Items   []palette.Item `json:"items"`

	elements []*palette.Element
	active   *palette.Element
}

func (s *Search) Do(ctx context.Context) error {
	res, err := s.Run(ctx)
	if err != nil {
		return err
	}

	out := s.Out
	if out == nil {
		out = color.Output
	}
	if s.JSON {
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(b))
		return nil
	}

	pp := printers.PrettyPrint{ShowID: s.ShowID, Out: out}
	pp.TitleWithCount(fmt.Sprintf("search %q", res.Query), len(res.Items))
	switch res.State {
	case palette.StateIdle:
		_, _ = color.New(color.Faint).Fprintln(out, " query too short")
	case palette.StateEmpty:
		_, _ = color.New(color.Faint, color.Italic).Fprintln(out, " No results found")
	case palette.StateError:
		_, _ = color.New(color.FgRed).Fprintf(out, " %s\n", res.Message)
	default:
		pp.Elements(res.active, res.elements...)
	}
	pp.NewLine()
	return nil
}

// Run searches and returns the settled state. Search failures are part of
// the result; only setup errors are returned.
func (s *Search) Run(ctx context.Context) (*Result, error) {
	if s.Persistence == nil {
		return nil, errors.New("search: no persistence")
	}
	settings := store.Settings{}
	if s.Settings != nil {
		settings = *s.Settings
	}
	if s.MinLength > 0 {
		settings.MinLength = s.MinLength
	}
	if s.MaxResults > 0 {
		settings.MaxResults = s.MaxResults
	}
	latency := settings.Latency
	if s.Latency > 0 {
		latency = s.Latency
	}

	svc := &app.Service{Persistence: s.Persistence}
	built, err := svc.Build(ctx, app.PaletteOptions{
		Mode:     palette.ModeAsync,
		Settings: &settings,
		Latency:  latency,
		Timeout:  s.Timeout,
		Logger:   s.Logger,
	})
	if err != nil {
		return nil, err
	}
	c := built.Container

	query := strings.TrimSpace(s.Query)
	res := &Result{Query: query, Active: -1}
	if req := c.PerformSearch(query); req != nil {
		type answer struct {
			items []palette.Item
			err   error
		}
		done := make(chan answer, 1)
		go func() {
			items, err := req.Execute()
			done <- answer{items, err}
		}()
		select {
		case <-ctx.Done():
			c.Reset()
			<-done
			return nil, ctx.Err()
		case a := <-done:
			c.Settle(req, a.items, a.err)
		}
	}

	res.State = c.State()
	res.Message = c.Menu().Error
	res.elements = c.Menu().Elements()
	res.active = c.Navigator().ActiveElement()
	res.Active = c.Navigator().Active()
	res.Items = make([]palette.Item, 0, len(res.elements))
	for _, el := range res.elements {
		res.Items = append(res.Items, el.Item)
	}
	return res, nil
}
