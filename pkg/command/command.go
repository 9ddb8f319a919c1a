// Package command implements reversible user commands and the linear
// undo/redo history that drives them.
package command

import (
	"fmt"
	"io"

	"tableflip.dev/taskq/pkg/collection"
	"tableflip.dev/taskq/pkg/entry"
)

// Result is the user-facing outcome of running, undoing or redoing a command.
type Result struct {
	Message string
	Success bool
	// Err holds the failure cause for callers that test with errors.Is.
	Err error
	// Exit asks the caller to end the session.
	Exit bool
}

func success(format string, args ...interface{}) Result {
	return Result{Message: fmt.Sprintf(format, args...), Success: true}
}

func failure(err error) Result {
	return Result{Message: Describe(err), Err: err}
}

// Env is the state a command runs against. It is built by the session for
// each call and never handed out to callers.
type Env struct {
	Entries *collection.Collection
	// View is the last listing shown; index targets are 1-based positions
	// into it. Commands that list replace it.
	View []*entry.Entry
	// Warn receives best-effort diagnostics.
	Warn io.Writer
}

// Command is a user intent.
type Command interface {
	// Name is the command word.
	Name() string
	Execute(env *Env) Result
}

// State tracks where a reversible command is in its lifecycle.
type State int

const (
	// StatePending: never executed successfully.
	StatePending State = iota
	// StateUndoable: executed or redone; may be undone.
	StateUndoable
	// StateRedoable: undone; may be executed again.
	StateRedoable
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateUndoable:
		return "undoable"
	case StateRedoable:
		return "redoable"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Mutation is a Command that changes the collection and can reverse itself.
// Execute is valid from StatePending and StateRedoable; a redo reuses the
// state captured on the first run. Unexecute is valid from StateUndoable.
type Mutation interface {
	Command
	Unexecute(env *Env) Result
	State() State
}

// lifecycle carries the state shared by every mutation.
type lifecycle struct {
	state State
}

func (l *lifecycle) State() State { return l.state }

func (l *lifecycle) canExecute() error {
	if l.state == StateUndoable {
		return ErrAlreadyExecuted
	}
	return nil
}

func (l *lifecycle) canUnexecute() error {
	if l.state != StateUndoable {
		return ErrNothingToUndo
	}
	return nil
}

// redoErr marks a failure of a replayed step as a broken invariant: the
// captured state no longer matches the collection.
func (l *lifecycle) redoErr(err error) error {
	if l.state == StateRedoable {
		return inconsistent(err)
	}
	return err
}

func resolve(env *Env, index int) (*entry.Entry, error) {
	if index < 1 || index > len(env.View) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	return env.View[index-1], nil
}
