package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/palette/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(palette completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(palette completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func groupCompletions(cmd *cobra.Command, toComplete string) []string {
	p, err := store.Load(nil)
	if err != nil {
		return nil
	}
	var out []string
	for _, g := range p.Groups(cmd.Context()) {
		if strings.HasPrefix(strings.ToLower(g), strings.ToLower(toComplete)) {
			out = append(out, g)
		}
	}
	return out
}

func idCompletions(cmd *cobra.Command, toComplete string) []string {
	p, err := store.Load(nil)
	if err != nil {
		return nil
	}
	var out []string
	for _, item := range p.ListAll(cmd.Context()) {
		if strings.HasPrefix(item.ID, toComplete) {
			out = append(out, item.ID+"\t"+item.Label)
		}
	}
	return out
}
