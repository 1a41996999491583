package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/palette/pkg/commands/options"
	"tableflip.dev/palette/pkg/runner/ui"
	"tableflip.dev/palette/pkg/store"
)

func addUI(topLevel *cobra.Command) {
	uo := &options.UIOptions{}
	so := &options.SearchOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the command palette",
		Example: `
palette ui
palette ui --async --latency 400ms
palette ui --dialog --debug
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			settings, err := store.LoadConfig()
			if err != nil {
				return err
			}
			p, err := store.Load(settings)
			if err != nil {
				return err
			}
			i := ui.UI{
				Settings:    settings,
				Persistence: p,
				Async:       uo.Async,
				Dialog:      uo.Dialog,
				Debug:       uo.Debug,
				Latency:     so.Latency,
				LogFile:     uo.LogFile,
			}
			return i.Do(cmd.Context())
		},
	}

	options.AddUIArgs(cmd, uo)
	options.AddLatencyArg(cmd, so)

	topLevel.AddCommand(cmd)
}
