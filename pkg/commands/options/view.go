package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/taskq/pkg/query"
)

// ViewOptions select the listing that entry indexes refer to.
type ViewOptions struct {
	DateOptions
	Keywords []string
	Tags     []string
	All      bool
}

func AddViewArgs(cmd *cobra.Command, o *ViewOptions) {
	AddDateArgs(cmd, &o.DateOptions)
	cmd.Flags().StringSliceVarP(&o.Tags, "tag", "t", nil,
		"Entries carrying any of these tags.")
	cmd.Flags().BoolVarP(&o.All, "all", "a", false,
		"Include completed tasks in the default listing; filtered listings always do.")
}

// AddMatchArgs lets index commands pick their listing by title keywords.
func AddMatchArgs(cmd *cobra.Command, o *ViewOptions) {
	cmd.Flags().StringSliceVarP(&o.Keywords, "match", "m", nil,
		"Entries whose title contains any of these words.")
}

// IsSet reports whether any view flag or keyword was given.
func (o *ViewOptions) IsSet() bool {
	return len(o.Keywords) > 0 || len(o.Tags) > 0 || o.All ||
		o.OnString != "" || o.AfterString != "" || o.BeforeString != ""
}

// Filter builds the query for the selected listing.
func (o *ViewOptions) Filter(now time.Time) (query.Filter, error) {
	on, after, before, err := o.Get(now)
	if err != nil {
		return query.Filter{}, err
	}
	return query.Filter{
		Keywords:         o.Keywords,
		Tags:             o.Tags,
		On:               on,
		After:            after,
		Before:           before,
		IncludeCompleted: o.All,
	}, nil
}

// IDOptions prints the stable entry IDs next to the view indexes.
type IDOptions struct {
	ShowID bool
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the entry ID next to its index.")
}
