package command

import (
	"time"

	"tableflip.dev/taskq/pkg/collection"
	"tableflip.dev/taskq/pkg/entry"
)

// Mark completes the task at a view index.
type Mark struct {
	lifecycle
	toggle

	Index int
}

// Unmark reopens the task at a view index.
type Unmark struct {
	lifecycle
	toggle

	Index int
}

var (
	_ Mutation = (*Mark)(nil)
	_ Mutation = (*Unmark)(nil)
)

type toggle struct {
	target   *entry.Entry
	was      bool
	modified time.Time
}

func (t *toggle) capture(env *Env, index int) error {
	target, err := resolve(env, index)
	if err != nil {
		return err
	}
	if !target.Markable() {
		return collection.ErrUnsupportedMark
	}
	t.target, t.was, t.modified = target, target.Marked(), target.LastModified()
	return nil
}

func (t *toggle) set(env *Env, marked bool) error {
	if marked {
		return env.Entries.Mark(t.target)
	}
	return env.Entries.Unmark(t.target)
}

func (t *toggle) restore(env *Env) error {
	if err := t.set(env, t.was); err != nil {
		return inconsistent(err)
	}
	if err := env.Entries.SetLastModified(t.target, t.modified); err != nil {
		return inconsistent(err)
	}
	return nil
}

func (c *Mark) Name() string { return "mark" }

func (c *Mark) Execute(env *Env) Result {
	if err := c.canExecute(); err != nil {
		return failure(err)
	}
	if c.state == StatePending {
		if err := c.capture(env, c.Index); err != nil {
			return failure(err)
		}
	}
	if err := c.set(env, true); err != nil {
		return failure(c.redoErr(err))
	}
	c.state = StateUndoable
	return success("Marked entry: %s", c.target)
}

func (c *Mark) Unexecute(env *Env) Result {
	if err := c.canUnexecute(); err != nil {
		return failure(err)
	}
	if err := c.restore(env); err != nil {
		return failure(err)
	}
	c.state = StateRedoable
	return success("Undo mark entry: %s", c.target)
}

func (c *Unmark) Name() string { return "unmark" }

func (c *Unmark) Execute(env *Env) Result {
	if err := c.canExecute(); err != nil {
		return failure(err)
	}
	if c.state == StatePending {
		if err := c.capture(env, c.Index); err != nil {
			return failure(err)
		}
	}
	if err := c.set(env, false); err != nil {
		return failure(c.redoErr(err))
	}
	c.state = StateUndoable
	return success("Unmarked entry: %s", c.target)
}

func (c *Unmark) Unexecute(env *Env) Result {
	if err := c.canUnexecute(); err != nil {
		return failure(err)
	}
	if err := c.restore(env); err != nil {
		return failure(err)
	}
	c.state = StateRedoable
	return success("Undo unmark entry: %s", c.target)
}
