package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/palette/pkg/commands/options"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "palette",
		Short: options.Wrap80("A searchable command palette for the terminal."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addSearch(topLevel)
	addAdd(topLevel)
	addRemove(topLevel)
	addList(topLevel)
	addSeed(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
