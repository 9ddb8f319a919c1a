package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/taskq/pkg/command"
	"tableflip.dev/taskq/pkg/printers"
	"tableflip.dev/taskq/pkg/query"
	"tableflip.dev/taskq/pkg/runner/exec"
	"tableflip.dev/taskq/pkg/store"
)

var (
	oo = &base.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "taskq",
		Short: base.Wrap80("Tasks and events on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	d := &oneShot{}
	addEntryCommands(topLevel, d)
	addCalendar(topLevel)
	addReport(topLevel)
	addKey(topLevel)
	addInfo(topLevel)
	addShell(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// addEntryCommands registers the commands shared by the command line and
// the shell.
func addEntryCommands(topLevel *cobra.Command, d dispatcher) {
	addAdd(topLevel, d)
	addEdit(topLevel, d)
	addDelete(topLevel, d)
	addTag(topLevel, d)
	addUntag(topLevel, d)
	addMark(topLevel, d)
	addUnmark(topLevel, d)
	addClear(topLevel, d)
	addList(topLevel, d)
	addSelect(topLevel, d)
}

// dispatcher runs a command, optionally after switching to view.
type dispatcher interface {
	Dispatch(ctx context.Context, view *query.Filter, cmd command.Command) error
	// Output registers output flags when the dispatcher honors them.
	Output(cmd *cobra.Command)
	// ShowIDs prints entry IDs for the next dispatch.
	ShowIDs(on bool)
}

// oneShot loads the store, runs one command and lets the session save.
type oneShot struct {
	ids bool
}

func (d *oneShot) Dispatch(ctx context.Context, view *query.Filter, cmd command.Command) error {
	p, err := store.Open(nil)
	if err != nil {
		return err
	}
	defer p.Close()

	s, err := exec.Open(ctx, p)
	if err != nil {
		return err
	}
	x := exec.Exec{Session: s, JSON: oo.JSON, Printer: &printers.PrettyPrint{ShowID: d.ids}}
	_, err = x.Do(ctx, view, cmd)
	return err
}

func (*oneShot) Output(cmd *cobra.Command) {
	base.AddOutputArg(cmd, oo)
}

func (d *oneShot) ShowIDs(on bool) { d.ids = on }

// session keeps one session across shell lines.
type session struct {
	x    *exec.Exec
	ids  bool
	exit bool
}

func (d *session) Dispatch(ctx context.Context, view *query.Filter, cmd command.Command) error {
	d.x.Printer = &printers.PrettyPrint{ShowID: d.ids, Out: d.x.Out}
	d.ids = false
	r, err := d.x.Do(ctx, view, cmd)
	if r.Exit {
		d.exit = true
	}
	return err
}

func (d *session) Output(*cobra.Command) {}

func (d *session) ShowIDs(on bool) { d.ids = on }

func parseIndex(arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q, expected a number", arg)
	}
	return i, nil
}

// indexArgs checks for an index followed by at least rest more arguments.
// With rest of zero the index must stand alone.
func indexArgs(index *int, rest int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < 1+rest {
			return fmt.Errorf("expected an index and %d more argument(s)", rest)
		}
		if rest == 0 && len(args) > 1 {
			return fmt.Errorf("accepts only an index, received %d arg(s)", len(args))
		}
		i, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		*index = i
		cmd.SilenceUsage = true
		return nil
	}
}
