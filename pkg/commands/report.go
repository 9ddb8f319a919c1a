package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/taskq/pkg/commands/options"
	"tableflip.dev/taskq/pkg/runner/exec"
	"tableflip.dev/taskq/pkg/runner/report"
	"tableflip.dev/taskq/pkg/store"
)

func addReport(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Display recently completed tasks grouped by tag",
		Long: `Report lists completed tasks grouped by tag within the specified time window.

Examples:
  taskq report
  taskq report --last 3d
  taskq report --last 1w2d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			window, label, err := wo.Get()
			if err != nil {
				return err
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
			r := report.Report{
				Session: s,
				Window:  window,
				Label:   label,
			}
			return r.Do()
		},
	}

	options.AddWindowArgs(cmd, wo)
	topLevel.AddCommand(cmd)
}
