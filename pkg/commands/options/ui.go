package options

import (
	"github.com/spf13/cobra"
)

// UIOptions
type UIOptions struct {
	Async   bool
	Dialog  bool
	Debug   bool
	LogFile string
}

func AddUIArgs(cmd *cobra.Command, o *UIOptions) {
	cmd.Flags().BoolVar(&o.Async, "async", false,
		"Search the catalog as you type instead of filtering a loaded list.")
	cmd.Flags().BoolVar(&o.Dialog, "dialog", false,
		Wrap80("Open the palette as a dialog toggled with ctrl+k. Without it the palette picks one item and exits."))
	cmd.Flags().BoolVarP(&o.Debug, "debug", "d", false,
		"Show the event log panel and log at debug level.")
	cmd.Flags().StringVar(&o.LogFile, "log-file", "palette.log",
		"Where logs go while the UI is running.")
}
