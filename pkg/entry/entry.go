// Package entry defines the Task and Event entries held by a collection.
package entry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/taskq/pkg/tag"
)

var (
	// ErrEmptyTitle is returned when an entry would have a blank title.
	ErrEmptyTitle = errors.New("entry: title is required")
	// ErrInvalidTimeRange is returned when an event would end before it starts.
	ErrInvalidTimeRange = errors.New("entry: event ends before it starts")
	// ErrConversion is returned when a field update would turn a task into an
	// event or the other way around.
	ErrConversion = errors.New("entry: conversion between task and event")
	// ErrNotMarkable is returned when marking or unmarking an event.
	ErrNotMarkable = errors.New("entry: events cannot be marked")
)

// Kind is the variant of an entry; it never changes after construction.
type Kind int

const (
	KindTask Kind = iota
	KindEvent
)

func (k Kind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindEvent:
		return "event"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "task", "":
		return KindTask, nil
	case "event":
		return KindEvent, nil
	}
	return KindTask, fmt.Errorf("entry: unknown kind %q", s)
}

// Entry is a task or an event. Tasks carry an optional deadline, events a
// start and an end.
type Entry struct {
	id          string
	kind        Kind
	title       string
	description string
	tags        tag.Set
	marked      bool

	deadline *time.Time
	start    time.Time
	end      time.Time

	modified time.Time
}

// NewTask builds a task; a nil deadline makes it floating.
func NewTask(title string, deadline *time.Time, tags tag.Set) (*Entry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	e := &Entry{
		id:    uuid.New().String(),
		kind:  KindTask,
		title: title,
		tags:  tag.NewSet(tags...),
	}
	if deadline != nil {
		d := *deadline
		e.deadline = &d
	}
	return e, nil
}

// NewEvent builds an event spanning start to end.
func NewEvent(title string, start, end time.Time, tags tag.Set) (*Entry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if start.After(end) {
		return nil, ErrInvalidTimeRange
	}
	return &Entry{
		id:    uuid.New().String(),
		kind:  KindEvent,
		title: title,
		tags:  tag.NewSet(tags...),
		start: start,
		end:   end,
	}, nil
}

func (e *Entry) ID() string          { return e.id }
func (e *Entry) Kind() Kind          { return e.kind }
func (e *Entry) IsTask() bool        { return e.kind == KindTask }
func (e *Entry) IsEvent() bool       { return e.kind == KindEvent }
func (e *Entry) Title() string       { return e.title }
func (e *Entry) Description() string { return e.description }
func (e *Entry) Marked() bool        { return e.marked }

// Tags returns a copy of the entry's tag set.
func (e *Entry) Tags() tag.Set {
	return append(tag.Set(nil), e.tags...)
}

// Deadline returns the task deadline, if any.
func (e *Entry) Deadline() (time.Time, bool) {
	if e.kind != KindTask || e.deadline == nil {
		return time.Time{}, false
	}
	return *e.deadline, true
}

// Start returns the event start; zero for tasks.
func (e *Entry) Start() time.Time { return e.start }

// End returns the event end; zero for tasks.
func (e *Entry) End() time.Time { return e.end }

// LastModified is the logical version stamp of the entry.
func (e *Entry) LastModified() time.Time { return e.modified }

// Markable reports whether the completion flag applies to this kind.
func (e *Entry) Markable() bool {
	switch e.kind {
	case KindTask:
		return true
	case KindEvent:
		return false
	}
	return false
}

// ComparableTime is the time used for ordering and date filters: the
// deadline of a task or the start of an event. Floating tasks have none.
func (e *Entry) ComparableTime() (time.Time, bool) {
	switch e.kind {
	case KindTask:
		return e.Deadline()
	case KindEvent:
		return e.start, true
	}
	return time.Time{}, false
}

// Equal is value equality: kind, title, tag names and times. Description,
// completion, last-modified time and ID are ignored.
func (e *Entry) Equal(o *Entry) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.kind != o.kind || e.title != o.title || !e.tags.Equal(o.tags) {
		return false
	}
	switch e.kind {
	case KindTask:
		ed, eok := e.Deadline()
		od, ook := o.Deadline()
		return eok == ook && ed.Equal(od)
	case KindEvent:
		return e.start.Equal(o.start) && e.end.Equal(o.end)
	}
	return false
}

// Clone returns a deep copy. Tags still point at the same immutable
// canonical instances.
func (e *Entry) Clone() *Entry {
	c := *e
	c.tags = e.Tags()
	if e.deadline != nil {
		d := *e.deadline
		c.deadline = &d
	}
	return &c
}

// SetTitle changes the title.
func (e *Entry) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	e.title = title
	return nil
}

// SetDescription changes the free-text description.
func (e *Entry) SetDescription(d string) {
	e.description = d
}

// SetTags replaces the tag set.
func (e *Entry) SetTags(s tag.Set) {
	e.tags = tag.NewSet(s...)
}

// SetDeadline sets or, with nil, clears a task deadline.
func (e *Entry) SetDeadline(d *time.Time) error {
	if e.kind != KindTask {
		return ErrConversion
	}
	if d == nil {
		e.deadline = nil
		return nil
	}
	v := *d
	e.deadline = &v
	return nil
}

// SetSpan changes the start and end of an event.
func (e *Entry) SetSpan(start, end time.Time) error {
	if e.kind != KindEvent {
		return ErrConversion
	}
	if start.After(end) {
		return ErrInvalidTimeRange
	}
	e.start, e.end = start, end
	return nil
}

// SetMarked sets the completion flag of a task.
func (e *Entry) SetMarked(marked bool) error {
	if !e.Markable() {
		return ErrNotMarkable
	}
	e.marked = marked
	return nil
}

// SetLastModified overwrites the version stamp.
func (e *Entry) SetLastModified(t time.Time) {
	e.modified = t
}

const displayLayout = "2006-01-02 15:04"

func (e *Entry) String() string {
	b := strings.Builder{}
	b.WriteString(e.title)
	switch e.kind {
	case KindTask:
		if d, ok := e.Deadline(); ok {
			b.WriteString(" due " + d.Format(displayLayout))
		}
	case KindEvent:
		b.WriteString(" from " + e.start.Format(displayLayout) + " to " + e.end.Format(displayLayout))
	}
	if len(e.tags) > 0 {
		b.WriteString(" " + e.tags.String())
	}
	return b.String()
}
