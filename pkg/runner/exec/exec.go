// Package exec runs parsed commands against a session and prints what
// happened.
package exec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/taskq/pkg/app"
	"tableflip.dev/taskq/pkg/command"
	"tableflip.dev/taskq/pkg/entry"
	"tableflip.dev/taskq/pkg/printers"
	"tableflip.dev/taskq/pkg/query"
	"tableflip.dev/taskq/pkg/store"
)

// ErrFailed is returned when a command ran but did not succeed; its message
// has already been printed.
var ErrFailed = errors.New("command failed")

// Exec prints every result of Session.
type Exec struct {
	Session *app.Session
	Printer *printers.PrettyPrint
	JSON    bool
	Out     io.Writer
}

// Open loads a session from p. Committed changes are saved back to p.
func Open(ctx context.Context, p store.Persistence, opts ...app.Option) (*app.Session, error) {
	s := app.NewSession(append([]app.Option{app.WithPersistence(p)}, opts...)...)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (x *Exec) out() io.Writer {
	if x.Out == nil {
		return color.Output
	}
	return x.Out
}

func (x *Exec) printer() *printers.PrettyPrint {
	if x.Printer == nil {
		x.Printer = &printers.PrettyPrint{Out: x.out()}
	}
	return x.Printer
}

// Do runs cmd. A non-nil view is queried first so that index targets refer
// to it.
func (x *Exec) Do(ctx context.Context, view *query.Filter, cmd command.Command) (command.Result, error) {
	if x.Session == nil {
		return command.Result{}, errors.New("exec: no session")
	}
	if view != nil {
		x.Session.Query(*view)
	}
	r := x.Session.Execute(ctx, cmd)
	_, mutation := cmd.(command.Mutation)
	_, list := cmd.(*command.List)
	return r, x.report(r, mutation || list)
}

// Undo reverses the last command.
func (x *Exec) Undo(ctx context.Context) (command.Result, error) {
	r := x.Session.Undo(ctx)
	return r, x.report(r, true)
}

// Redo re-applies the last undone command.
func (x *Exec) Redo(ctx context.Context) (command.Result, error) {
	r := x.Session.Redo(ctx)
	return r, x.report(r, true)
}

type jsonResult struct {
	Message string         `json:"message"`
	Success bool           `json:"success"`
	Entries []*entry.Entry `json:"entries"`
}

func (x *Exec) report(r command.Result, showView bool) error {
	view := x.Session.View()
	if x.JSON {
		b, err := json.Marshal(jsonResult{Message: r.Message, Success: r.Success, Entries: view})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(x.out(), string(b))
	} else {
		pp := x.printer()
		pp.Message(r.Message, r.Success)
		if r.Success && showView {
			pp.NewLine()
			pp.TitleWithCount("Entries", len(view))
			pp.Collection(view...)
		}
	}
	if !r.Success {
		return fmt.Errorf("%w: %s", ErrFailed, r.Message)
	}
	return nil
}
