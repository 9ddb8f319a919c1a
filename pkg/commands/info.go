package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/taskq/pkg/runner/info"
	"tableflip.dev/taskq/pkg/store"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the task store and where it is kept.",
		Example: `
taskq info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			p, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer p.Close()
			s := info.Info{
				Config:      cfg,
				Persistence: p,
			}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
