package commands

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/taskq/pkg/command"
	"tableflip.dev/taskq/pkg/commands/options"
)

func addAdd(topLevel *cobra.Command, d dispatcher) {
	ao := &options.AddOptions{}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task, or an event with --start",
		Example: `
taskq add pay rent --deadline="2/28 17:00" --tag home
taskq add standup --start="tomorrow" --tag work
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("missing title")
			}
			ao.Title = strings.Join(args, " ")
			cmd.SilenceUsage = true
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			var c *command.Add
			if ao.IsEvent() {
				start, end, err := ao.GetSpan(now)
				if err != nil {
					return err
				}
				c = command.AddEvent(ao.Title, start, end, ao.Tags...)
			} else {
				deadline, err := ao.GetDeadline(now)
				if err != nil {
					return err
				}
				c = command.AddTask(ao.Title, deadline, ao.Tags...)
			}
			c.Description = ao.Description
			err := d.Dispatch(cmd.Context(), nil, c)
			return oo.HandleError(err)
		},
	}

	options.AddEntryArgs(cmd, ao)
	d.Output(cmd)
	registerTagCompletion(cmd, "tag")

	topLevel.AddCommand(cmd)
}
