package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/palette/pkg/runner/seed"
	"tableflip.dev/palette/pkg/store"
)

func addSeed(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store the starter commands in the catalog",
		Example: `
palette seed
palette ui
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := seed.Seed{Persistence: p}
			return s.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
