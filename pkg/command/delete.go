package command

import "tableflip.dev/taskq/pkg/entry"

// Delete removes the entry at a view index.
type Delete struct {
	lifecycle

	Index int

	target   *entry.Entry
	position int
}

var _ Mutation = (*Delete)(nil)

func (c *Delete) Name() string { return "delete" }

func (c *Delete) Execute(env *Env) Result {
	if err := c.canExecute(); err != nil {
		return failure(err)
	}
	target := c.target
	if c.state == StatePending {
		var err error
		if target, err = resolve(env, c.Index); err != nil {
			return failure(err)
		}
	}
	pos, err := env.Entries.Remove(target)
	if err != nil {
		return failure(c.redoErr(err))
	}
	c.target, c.position = target, pos
	c.state = StateUndoable
	return success("Deleted entry: %s", target)
}

// Unexecute puts the same entry back where it was.
func (c *Delete) Unexecute(env *Env) Result {
	if err := c.canUnexecute(); err != nil {
		return failure(err)
	}
	if err := env.Entries.Insert(c.position, c.target); err != nil {
		return failure(inconsistent(err))
	}
	c.state = StateRedoable
	return success("Undo delete entry: %s", c.target)
}
