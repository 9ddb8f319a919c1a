package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/taskq/pkg/command"
	"tableflip.dev/taskq/pkg/commands/options"
	"tableflip.dev/taskq/pkg/printers"
	"tableflip.dev/taskq/pkg/runner/exec"
	"tableflip.dev/taskq/pkg/store"
)

func addList(topLevel *cobra.Command, d dispatcher) {
	vo := &options.ViewOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list [keywords...]",
		Aliases: []string{"ls"},
		Short:   "List entries; later indexes refer to this listing",
		Example: `
taskq list
taskq list rent --tag home --all
taskq list --after today --before "2/28"
`,
		Args: func(cmd *cobra.Command, args []string) error {
			vo.Keywords = args
			cmd.SilenceUsage = true
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := vo.Filter(time.Now())
			if err != nil {
				return err
			}
			d.ShowIDs(io.ShowID)
			err = d.Dispatch(cmd.Context(), nil, &command.List{Filter: f})
			return oo.HandleError(err)
		},
	}

	options.AddViewArgs(cmd, vo)
	options.AddShowIDArgs(cmd, io)
	registerTagCompletion(cmd, "tag")
	d.Output(cmd)

	topLevel.AddCommand(cmd)
}

func addCalendar(topLevel *cobra.Command) {
	var month string

	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Print a month with its dated entries",
		Example: `
taskq calendar
taskq calendar --month 2020-2-1
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			on := time.Now()
			if month != "" {
				var err error
				if on, err = options.ParseWhen(month, on); err != nil {
					return err
				}
			}
			p, err := store.Open(nil)
			if err != nil {
				return err
			}
			defer p.Close()
			s, err := exec.Open(cmd.Context(), p)
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{}
			pp.Calendar(on, s.View()...)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Any day of the month to show; defaults to today.")

	topLevel.AddCommand(cmd)
}
