package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/palette/pkg/runner/remove"
	"tableflip.dev/palette/pkg/store"
)

func addRemove(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm ID...",
		Aliases: []string{"remove"},
		Short:   "Remove items from the catalog",
		Example: `
palette list --show-id
palette rm zoomin zoomout
`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return idCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			r := remove.Remove{IDs: args, Persistence: p}
			return r.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
