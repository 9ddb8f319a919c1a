package command

import (
	"tableflip.dev/taskq/pkg/entry"
	"tableflip.dev/taskq/pkg/tag"
)

// Clear empties the collection and its tag registry.
type Clear struct {
	lifecycle

	entries []*entry.Entry
	tags    tag.Set
}

var _ Mutation = (*Clear)(nil)

func (c *Clear) Name() string { return "clear" }

func (c *Clear) Execute(env *Env) Result {
	if err := c.canExecute(); err != nil {
		return failure(err)
	}
	if c.state == StatePending {
		c.entries, c.tags = env.Entries.Entries(), env.Entries.Tags()
	}
	if err := env.Entries.Reset(nil, nil); err != nil {
		return failure(c.redoErr(err))
	}
	c.state = StateUndoable
	return success("Task manager has been cleared!")
}

// Unexecute restores the same entries in their original order.
func (c *Clear) Unexecute(env *Env) Result {
	if err := c.canUnexecute(); err != nil {
		return failure(err)
	}
	if err := env.Entries.Reset(c.entries, c.tags); err != nil {
		return failure(inconsistent(err))
	}
	c.state = StateRedoable
	return success("Undo clear: restored %d entries", len(c.entries))
}
