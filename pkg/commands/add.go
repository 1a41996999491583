package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/palette/pkg/commands/options"
	"tableflip.dev/palette/pkg/runner/add"
	"tableflip.dev/palette/pkg/snake"
	"tableflip.dev/palette/pkg/store"
)

func addAdd(topLevel *cobra.Command) {
	ito := &options.ItemOptions{}
	io := &options.IDOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "add LABEL",
		Short: "Add an item to the catalog",
		Example: `
palette add Open settings --url /settings --group Preferences
palette add Toggle theme --keywords dark,light --keep-open
palette add -i
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if i.Interactive {
				return nil
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if i.Interactive {
				var err error
				if args, err = snake.PromptArgs(cmd, "Label", args); err != nil {
					return err
				}
				if err := snake.PromptFlags(cmd); err != nil {
					return err
				}
			}
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			a := add.Add{
				Item:        ito.Item(args),
				ShowID:      io.ShowID,
				Persistence: p,
			}
			return a.Do(cmd.Context())
		},
	}

	options.AddItemArgs(cmd, ito)
	options.AddShowIDArgs(cmd, io)
	options.InteractiveArgs(cmd, i)
	_ = cmd.RegisterFlagCompletionFunc("group", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return groupCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
