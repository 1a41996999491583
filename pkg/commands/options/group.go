package options

import (
	"github.com/spf13/cobra"
)

// GroupOptions
type GroupOptions struct {
	Group  string
	Groups bool
}

func AddGroupArgs(cmd *cobra.Command, o *GroupOptions) {
	cmd.Flags().StringVarP(&o.Group, "group", "g", "",
		"Only list this group.")
	cmd.Flags().BoolVar(&o.Groups, "groups", false,
		"List group names with their sizes.")
}
