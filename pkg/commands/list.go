package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/palette/pkg/commands/options"
	"tableflip.dev/palette/pkg/runner/list"
	"tableflip.dev/palette/pkg/store"
)

func addList(topLevel *cobra.Command) {
	gro := &options.GroupOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the catalog",
		Example: `
palette list
palette list --group Files --show-id
palette list --groups
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			l := list.List{
				ShowID:      io.ShowID,
				Group:       gro.Group,
				Groups:      gro.Groups,
				Persistence: p,
			}
			return l.Do(cmd.Context())
		},
	}

	options.AddGroupArgs(cmd, gro)
	options.AddShowIDArgs(cmd, io)
	_ = cmd.RegisterFlagCompletionFunc("group", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return groupCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
