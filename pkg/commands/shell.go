package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/taskq/pkg/app"
	"tableflip.dev/taskq/pkg/command"
	"tableflip.dev/taskq/pkg/runner/exec"
	"tableflip.dev/taskq/pkg/runner/shell"
	"tableflip.dev/taskq/pkg/store"
)

// quiet is how long after our own save watch events are ignored.
const quiet = 2 * time.Second

func addShell(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively with undo and redo",
		Example: `
taskq shell
echo "add pay rent --tag home" | taskq shell
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			p, err := store.Open(nil)
			if err != nil {
				return err
			}
			defer p.Close()
			s, err := exec.Open(ctx, p, app.WithWarnings(os.Stderr))
			if err != nil {
				return err
			}

			var saved atomic.Int64
			stop := s.OnChange(func(app.Change) { saved.Store(time.Now().UnixNano()) })
			defer stop()
			if err := notifyExternal(ctx, p, os.Stderr, &saved); err != nil {
				fmt.Fprintf(os.Stderr, "shell: watch: %v\n", err)
			}

			d := &session{x: &exec.Exec{Session: s}}
			sh := shell.Shell{
				In: cmd.InOrStdin(),
				Run: func(ctx context.Context, args []string) (bool, error) {
					d.exit = false
					root := newShellTree(d)
					root.SetArgs(args)
					err := root.ExecuteContext(ctx)
					if errors.Is(err, exec.ErrFailed) {
						// Already printed.
						err = nil
					}
					return d.exit, err
				},
			}
			return sh.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}

// newShellTree builds the commands available on one shell line. Option
// structs are fresh each time, so flags never leak between lines.
func newShellTree(d *session) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskq",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	addEntryCommands(root, d)
	root.AddCommand(&cobra.Command{
		Use:   "undo",
		Short: "Undo the last change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := d.x.Undo(cmd.Context())
			return err
		},
	}, &cobra.Command{
		Use:   "redo",
		Short: "Redo the last undone change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := d.x.Redo(cmd.Context())
			return err
		},
	}, &cobra.Command{
		Use:     "exit",
		Aliases: []string{"quit"},
		Short:   "Leave the shell",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return d.Dispatch(cmd.Context(), nil, &command.Exit{})
		},
	})
	root.SetHelpCommand(&cobra.Command{
		Use:   "help",
		Short: "List the commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return d.Dispatch(cmd.Context(), nil, &command.Help{})
		},
	})
	return root
}

// notifyExternal reports store changes that did not come from this shell.
func notifyExternal(ctx context.Context, p store.Persistence, out io.Writer, saved *atomic.Int64) error {
	events, err := p.Watch(ctx)
	if err != nil {
		return err
	}
	faint := color.New(color.Faint)
	go func() {
		for ev := range events {
			if time.Since(time.Unix(0, saved.Load())) < quiet {
				continue
			}
			switch ev.Type {
			case store.EventInvalidated:
				_, _ = faint.Fprintln(out, "store was replaced outside this shell; changes here will overwrite it")
			default:
				_, _ = faint.Fprintln(out, "store changed outside this shell; changes here will overwrite it")
			}
		}
	}()
	return nil
}
