package commands

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/taskq/pkg/command"
	"tableflip.dev/taskq/pkg/commands/options"
	"tableflip.dev/taskq/pkg/query"
)

// indexCommand builds a command whose first argument is an index into the
// listing picked by the view flags.
func indexCommand(topLevel *cobra.Command, d dispatcher, cmd *cobra.Command, rest int, build func(index int, args []string) (command.Command, error)) {
	vo := &options.ViewOptions{}
	var index int

	cmd.Args = indexArgs(&index, rest)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		view, err := viewFilter(vo)
		if err != nil {
			return err
		}
		c, err := build(index, args[1:])
		if err != nil {
			return err
		}
		err = d.Dispatch(cmd.Context(), view, c)
		return oo.HandleError(err)
	}

	options.AddViewArgs(cmd, vo)
	options.AddMatchArgs(cmd, vo)
	registerTagCompletion(cmd, "tag")
	d.Output(cmd)

	topLevel.AddCommand(cmd)
}

// viewFilter is nil when no view flag was given; the current listing is
// used then.
func viewFilter(vo *options.ViewOptions) (*query.Filter, error) {
	if !vo.IsSet() {
		return nil, nil
	}
	f, err := vo.Filter(time.Now())
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func addEdit(topLevel *cobra.Command, d dispatcher) {
	eo := &options.EditOptions{}

	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Change the title, description, tags or dates of an entry",
		Example: `
taskq edit 2 --title "pay rent" --deadline 3/1
taskq edit 1 --tags home,urgent
`,
	}
	indexCommand(topLevel, d, cmd, 0, func(index int, _ []string) (command.Command, error) {
		now := time.Now()
		c := &command.Edit{Index: index, ClearDeadline: eo.ClearDeadline}
		flags := cmd.Flags()
		if flags.Changed("title") {
			c.Title = &eo.NewTitle
		}
		if flags.Changed("description") {
			c.Description = &eo.Description
		}
		if flags.Changed("tags") {
			c.Tags = append([]string{}, eo.Tags...)
		}
		var err error
		if c.Deadline, err = eo.GetDeadline(now); err != nil {
			return nil, err
		}
		if eo.StartString != "" {
			start, err := options.ParseWhen(eo.StartString, now)
			if err != nil {
				return nil, err
			}
			c.Start = &start
		}
		if eo.EndString != "" {
			end, err := options.ParseWhen(eo.EndString, now)
			if err != nil {
				return nil, err
			}
			c.End = &end
		}
		return c, nil
	})
	options.AddEditArgs(cmd, eo)
}

func addDelete(topLevel *cobra.Command, d dispatcher) {
	cmd := &cobra.Command{
		Use:     "delete <index>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
	}
	indexCommand(topLevel, d, cmd, 0, func(index int, _ []string) (command.Command, error) {
		return &command.Delete{Index: index}, nil
	})
}

func addTag(topLevel *cobra.Command, d dispatcher) {
	cmd := &cobra.Command{
		Use:   "tag <index> <tag>...",
		Short: "Add tags to an entry",
		Example: `
taskq tag 1 home urgent
`,
	}
	indexCommand(topLevel, d, cmd, 1, func(index int, args []string) (command.Command, error) {
		return &command.Tag{Index: index, Tags: args}, nil
	})
}

func addUntag(topLevel *cobra.Command, d dispatcher) {
	cmd := &cobra.Command{
		Use:   "untag <index> <tag>...",
		Short: "Remove tags from an entry",
	}
	indexCommand(topLevel, d, cmd, 1, func(index int, args []string) (command.Command, error) {
		return &command.Untag{Index: index, Tags: args}, nil
	})
}

func addMark(topLevel *cobra.Command, d dispatcher) {
	cmd := &cobra.Command{
		Use:     "mark <index>",
		Aliases: []string{"done", "complete"},
		Short:   "Mark a task as completed",
	}
	indexCommand(topLevel, d, cmd, 0, func(index int, _ []string) (command.Command, error) {
		return &command.Mark{Index: index}, nil
	})
}

func addUnmark(topLevel *cobra.Command, d dispatcher) {
	cmd := &cobra.Command{
		Use:   "unmark <index>",
		Short: "Reopen a completed task",
	}
	indexCommand(topLevel, d, cmd, 0, func(index int, _ []string) (command.Command, error) {
		return &command.Unmark{Index: index}, nil
	})
}

func addSelect(topLevel *cobra.Command, d dispatcher) {
	cmd := &cobra.Command{
		Use:   "select <index>",
		Short: "Show one entry",
	}
	indexCommand(topLevel, d, cmd, 0, func(index int, _ []string) (command.Command, error) {
		return &command.Select{Index: index}, nil
	})
}

func addClear(topLevel *cobra.Command, d dispatcher) {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry and tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if _, shell := d.(*session); !shell && !yes {
				return errors.New("clear removes everything, confirm with --yes")
			}
			err := d.Dispatch(cmd.Context(), nil, &command.Clear{})
			return oo.HandleError(err)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm clearing from the command line.")
	d.Output(cmd)

	topLevel.AddCommand(cmd)
}
