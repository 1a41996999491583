package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/palette/pkg/commands/options"
	"tableflip.dev/palette/pkg/runner/search"
	"tableflip.dev/palette/pkg/store"
)

func addSearch(topLevel *cobra.Command) {
	so := &options.SearchOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "run one palette search against the catalog",
		Long: options.Wrap80("Run the async search pipeline once, without the UI, " +
			"and print how the palette settled: its state and the rendered rows."),
		Example: `
palette search zoom
palette search file --max-results 2
palette search guide --json
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			settings, err := store.LoadConfig()
			if err != nil {
				return output.HandleError(err)
			}
			p, err := store.Load(settings)
			if err != nil {
				return output.HandleError(err)
			}
			s := search.Search{
				Query:       strings.Join(args, " "),
				Settings:    settings,
				MinLength:   so.MinLength,
				MaxResults:  so.MaxResults,
				Latency:     so.Latency,
				Timeout:     so.Timeout,
				JSON:        output.JSON,
				ShowID:      io.ShowID,
				Persistence: p,
			}
			err = s.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddSearchArgs(cmd, so)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
