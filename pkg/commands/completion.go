package commands

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/taskq/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(taskq completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(taskq completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func registerTagCompletion(cmd *cobra.Command, flagName string) {
	_ = cmd.RegisterFlagCompletionFunc(flagName, func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return tagCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

func tagCompletions(toComplete string) []string {
	p, err := store.Open(nil)
	if err != nil {
		return nil
	}
	defer p.Close()
	snap, err := p.Load(context.Background())
	if err != nil {
		return nil
	}
	prefix := strings.TrimPrefix(toComplete, "#")
	var tags []string
	for _, t := range snap.Tags {
		if strings.HasPrefix(t, prefix) {
			tags = append(tags, t)
		}
	}
	return tags
}
