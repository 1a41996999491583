package options

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/palette/pkg/palette"
)

// ItemOptions describes a catalog item from flags.
type ItemOptions struct {
	ID       string
	URL      string
	Keywords []string
	Group    string
	Excerpt  string
	Icon     string
	Disabled bool
	Force    bool
	KeepOpen bool
}

func AddItemArgs(cmd *cobra.Command, o *ItemOptions) {
	cmd.Flags().StringVar(&o.ID, "id", "",
		Wrap80("Specify the item id. Generated from the content when empty."))
	cmd.Flags().StringVarP(&o.URL, "url", "u", "",
		"Link opened when the item is activated.")
	cmd.Flags().StringSliceVar(&o.Keywords, "keywords", nil,
		"Extra words the filter matches, comma separated.")
	cmd.Flags().StringVarP(&o.Group, "group", "g", "",
		`Group heading for the item, defaults to "general".`)
	cmd.Flags().StringVar(&o.Excerpt, "excerpt", "",
		Wrap80("Secondary text shown under the label. <mark> tags are highlighted."))
	cmd.Flags().StringVar(&o.Icon, "icon", "",
		"Short prefix shown before the label.")
	cmd.Flags().BoolVar(&o.Disabled, "disabled", false,
		"Show the item but never select it.")
	cmd.Flags().BoolVar(&o.Force, "force", false,
		"Always show the item, whatever the query.")
	cmd.Flags().BoolVar(&o.KeepOpen, "keep-open", false,
		"Keep the palette open after the item is activated.")
}

// Item builds the catalog item labelled by args.
func (o *ItemOptions) Item(args []string) palette.Item {
	return palette.Item{
		ID:       o.ID,
		Label:    strings.Join(args, " "),
		URL:      o.URL,
		Keywords: strings.Join(o.Keywords, ","),
		Group:    o.Group,
		Excerpt:  o.Excerpt,
		Icon:     o.Icon,
		Disabled: o.Disabled,
		Force:    o.Force,
		KeepOpen: o.KeepOpen,
	}
}
