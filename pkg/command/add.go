package command

import (
	"time"

	"tableflip.dev/taskq/pkg/entry"
	"tableflip.dev/taskq/pkg/tag"
)

// Add creates a task or an event.
type Add struct {
	lifecycle

	Kind        entry.Kind
	Title       string
	Description string
	Tags        []string

	// Deadline is optional and applies to tasks.
	Deadline *time.Time
	// Start and End apply to events.
	Start time.Time
	End   time.Time

	added *entry.Entry
}

var _ Mutation = (*Add)(nil)

// AddTask returns the command that adds a task.
func AddTask(title string, deadline *time.Time, tags ...string) *Add {
	return &Add{Kind: entry.KindTask, Title: title, Deadline: deadline, Tags: tags}
}

// AddEvent returns the command that adds an event.
func AddEvent(title string, start, end time.Time, tags ...string) *Add {
	return &Add{Kind: entry.KindEvent, Title: title, Start: start, End: end, Tags: tags}
}

func (c *Add) Name() string { return "add" }

func (c *Add) build() (*entry.Entry, error) {
	tags, err := tag.Parse(c.Tags...)
	if err != nil {
		return nil, err
	}
	var e *entry.Entry
	if c.Kind == entry.KindEvent {
		e, err = entry.NewEvent(c.Title, c.Start, c.End, tags)
	} else {
		e, err = entry.NewTask(c.Title, c.Deadline, tags)
	}
	if err != nil {
		return nil, err
	}
	e.SetDescription(c.Description)
	return e, nil
}

func (c *Add) Execute(env *Env) Result {
	if err := c.canExecute(); err != nil {
		return failure(err)
	}
	e := c.added
	if c.state == StatePending {
		var err error
		if e, err = c.build(); err != nil {
			return failure(err)
		}
	} else {
		// A redo is a fresh modification; the collection stamps it.
		e.SetLastModified(time.Time{})
	}
	if err := env.Entries.Add(e); err != nil {
		return failure(c.redoErr(err))
	}
	c.added = e
	c.state = StateUndoable
	return success("Added entry: %s", e)
}

func (c *Add) Unexecute(env *Env) Result {
	if err := c.canUnexecute(); err != nil {
		return failure(err)
	}
	if _, err := env.Entries.Remove(c.added); err != nil {
		return failure(inconsistent(err))
	}
	c.state = StateRedoable
	return success("Undo add entry: %s", c.added)
}
