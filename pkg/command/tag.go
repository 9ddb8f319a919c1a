package command

import (
	"fmt"
	"time"

	"tableflip.dev/taskq/pkg/entry"
	"tableflip.dev/taskq/pkg/tag"
)

// Tag adds tags to the entry at a view index. Tags the entry already carries
// are skipped; if none are left the command fails with ErrNoChange.
type Tag struct {
	lifecycle
	retag

	Index int
	Tags  []string
}

// Untag removes tags from the entry at a view index.
type Untag struct {
	lifecycle
	retag

	Index int
	Tags  []string
}

var (
	_ Mutation = (*Tag)(nil)
	_ Mutation = (*Untag)(nil)
)

// retag is the captured state of a tag change: the tags that actually moved
// and the stamp before the change.
type retag struct {
	target   *entry.Entry
	delta    tag.Set
	modified time.Time
}

func (r *retag) capture(env *Env, index int, raws []string, pick func(have, want tag.Set) tag.Set) error {
	target, err := resolve(env, index)
	if err != nil {
		return err
	}
	want, err := tag.Parse(raws...)
	if err != nil {
		return err
	}
	if len(want) == 0 {
		return fmt.Errorf("%w: no tags given", ErrNoChange)
	}
	delta := pick(target.Tags(), want)
	if len(delta) == 0 {
		return ErrNoChange
	}
	r.target, r.delta, r.modified = target, delta, target.LastModified()
	return nil
}

func missing(have, want tag.Set) tag.Set { return want.Minus(have) }

func present(have, want tag.Set) tag.Set { return want.Minus(want.Minus(have)) }

func (c *Tag) Name() string { return "tag" }

func (c *Tag) Execute(env *Env) Result {
	if err := c.canExecute(); err != nil {
		return failure(err)
	}
	if c.state == StatePending {
		if err := c.capture(env, c.Index, c.Tags, missing); err != nil {
			if err == ErrNoChange {
				return Result{Message: "All specified tags already exist on entry", Err: err}
			}
			return failure(err)
		}
	}
	if err := env.Entries.AddTags(c.target, c.delta); err != nil {
		return failure(c.redoErr(err))
	}
	c.state = StateUndoable
	return success("Tagged entry with %s: %s", c.delta, c.target)
}

func (c *Tag) Unexecute(env *Env) Result {
	if err := c.canUnexecute(); err != nil {
		return failure(err)
	}
	if err := env.Entries.RemoveTags(c.target, c.delta); err != nil {
		return failure(inconsistent(err))
	}
	if err := env.Entries.SetLastModified(c.target, c.modified); err != nil {
		return failure(inconsistent(err))
	}
	c.state = StateRedoable
	return success("Undo tag entry: %s", c.target)
}

func (c *Untag) Name() string { return "untag" }

func (c *Untag) Execute(env *Env) Result {
	if err := c.canExecute(); err != nil {
		return failure(err)
	}
	if c.state == StatePending {
		if err := c.capture(env, c.Index, c.Tags, present); err != nil {
			if err == ErrNoChange {
				return Result{Message: "None of the specified tags are on the entry", Err: err}
			}
			return failure(err)
		}
	}
	if err := env.Entries.RemoveTags(c.target, c.delta); err != nil {
		return failure(c.redoErr(err))
	}
	c.state = StateUndoable
	return success("Removed %s from entry: %s", c.delta, c.target)
}

func (c *Untag) Unexecute(env *Env) Result {
	if err := c.canUnexecute(); err != nil {
		return failure(err)
	}
	if err := env.Entries.AddTags(c.target, c.delta); err != nil {
		return failure(inconsistent(err))
	}
	if err := env.Entries.SetLastModified(c.target, c.modified); err != nil {
		return failure(inconsistent(err))
	}
	c.state = StateRedoable
	return success("Undo untag entry: %s", c.target)
}
