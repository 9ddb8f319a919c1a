package command

import (
	"time"

	"tableflip.dev/taskq/pkg/collection"
	"tableflip.dev/taskq/pkg/entry"
	"tableflip.dev/taskq/pkg/tag"
)

// Edit changes fields of the entry at a view index. Nil fields are kept;
// a non-nil Tags replaces the whole tag set.
type Edit struct {
	lifecycle

	Index       int
	Title       *string
	Description *string
	Tags        []string

	Deadline      *time.Time
	ClearDeadline bool
	Start         *time.Time
	End           *time.Time

	target   *entry.Entry
	forward  collection.Update
	reverse  collection.Update
	modified time.Time
}

var _ Mutation = (*Edit)(nil)

func (c *Edit) Name() string { return "edit" }

func (c *Edit) update() (collection.Update, error) {
	u := collection.Update{
		Title:         c.Title,
		Description:   c.Description,
		Deadline:      c.Deadline,
		ClearDeadline: c.ClearDeadline,
		Start:         c.Start,
		End:           c.End,
	}
	if c.Tags != nil {
		tags, err := tag.Parse(c.Tags...)
		if err != nil {
			return u, err
		}
		u.Tags = &tags
	}
	if u.IsEmpty() {
		return u, ErrNoChange
	}
	return u, nil
}

func (c *Edit) Execute(env *Env) Result {
	if err := c.canExecute(); err != nil {
		return failure(err)
	}
	if c.state == StatePending {
		target, err := resolve(env, c.Index)
		if err != nil {
			return failure(err)
		}
		u, err := c.update()
		if err != nil {
			return failure(err)
		}
		reverse, modified := collection.Capture(target), target.LastModified()
		if err := env.Entries.Update(target, u); err != nil {
			return failure(err)
		}
		c.target, c.forward, c.reverse, c.modified = target, u, reverse, modified
	} else if err := env.Entries.Update(c.target, c.forward); err != nil {
		return failure(c.redoErr(err))
	}
	c.state = StateUndoable
	return success("Edited entry: %s", c.target)
}

func (c *Edit) Unexecute(env *Env) Result {
	if err := c.canUnexecute(); err != nil {
		return failure(err)
	}
	if err := env.Entries.Update(c.target, c.reverse); err != nil {
		return failure(inconsistent(err))
	}
	if err := env.Entries.SetLastModified(c.target, c.modified); err != nil {
		return failure(inconsistent(err))
	}
	c.state = StateRedoable
	return success("Undo edit entry: %s", c.target)
}
