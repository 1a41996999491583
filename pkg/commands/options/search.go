package options

import (
	"time"

	"github.com/spf13/cobra"
)

// SearchOptions tune the async pipeline. Zero values defer to the config.
type SearchOptions struct {
	MinLength  int
	MaxResults int
	Latency    time.Duration
	Timeout    time.Duration
}

func AddSearchArgs(cmd *cobra.Command, o *SearchOptions) {
	cmd.Flags().IntVar(&o.MinLength, "min-length", 0,
		"Shortest query that triggers a search.")
	cmd.Flags().IntVar(&o.MaxResults, "max-results", 0,
		"Most rows rendered for one search.")
	AddLatencyArg(cmd, o)
	cmd.Flags().DurationVar(&o.Timeout, "timeout", 0,
		"Fail searches that take longer than this.")
}

func AddLatencyArg(cmd *cobra.Command, o *SearchOptions) {
	cmd.Flags().DurationVar(&o.Latency, "latency", 0,
		Wrap80("Delay every search by this long, to see the loading state."))
}
