// Package collection holds the ordered set of entries and the tag registry
// derived from them. All entry mutations go through a Collection.
package collection

import (
	"errors"
	"fmt"
	"time"

	"tableflip.dev/taskq/pkg/entry"
	"tableflip.dev/taskq/pkg/tag"
)

var (
	// ErrDuplicateEntry is returned when an entry equal by value is present.
	ErrDuplicateEntry = errors.New("collection: entry already exists")
	// ErrEntryNotFound is returned when the entry is not held by the collection.
	ErrEntryNotFound = errors.New("collection: entry not found")

	ErrEntryConversion  = entry.ErrConversion
	ErrUnsupportedMark  = entry.ErrNotMarkable
	ErrInvalidTimeRange = entry.ErrInvalidTimeRange
	ErrEmptyTitle       = entry.ErrEmptyTitle
)

// Collection is an ordered, duplicate-rejecting list of entries. It owns the
// entries it holds and keeps every entry tag pointing at the registry's
// canonical instance.
type Collection struct {
	entries  []*entry.Entry
	registry *tag.Registry
	clock    *clock
}

// Option customises a Collection.
type Option func(*Collection)

// WithClock replaces the wall clock used for last-modified stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Collection) {
		if now != nil {
			c.clock.now = now
		}
	}
}

// New returns an empty collection.
func New(opts ...Option) *Collection {
	c := &Collection{
		registry: tag.NewRegistry(),
		clock:    &clock{now: time.Now},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	return len(c.entries)
}

// Entries returns the entries in insertion order.
func (c *Collection) Entries() []*entry.Entry {
	return append([]*entry.Entry(nil), c.entries...)
}

// Sorted returns the entries in display order.
func (c *Collection) Sorted() []*entry.Entry {
	out := c.Entries()
	entry.Sort(out)
	return out
}

// Contains reports whether e itself, not an equal copy, is held.
func (c *Collection) Contains(e *entry.Entry) bool {
	return c.indexOf(e) >= 0
}

// Tags returns the registry content sorted by name.
func (c *Collection) Tags() tag.Set {
	return c.registry.Tags()
}

// Canonical reports whether t is the registry-owned instance for its name.
func (c *Collection) Canonical(t *tag.Tag) bool {
	return c.registry.Owns(t)
}

func (c *Collection) indexOf(e *entry.Entry) int {
	for i, x := range c.entries {
		if x == e {
			return i
		}
	}
	return -1
}

func (c *Collection) hasEqual(e, except *entry.Entry) bool {
	for _, x := range c.entries {
		if x != except && x.Equal(e) {
			return true
		}
	}
	return false
}

// syncTags absorbs unseen tags into the registry and rewrites the entry's
// tag set to the canonical instances.
func (c *Collection) syncTags(e *entry.Entry) {
	e.SetTags(c.registry.Canonicalize(e.Tags()))
}

// Add appends e.
func (c *Collection) Add(e *entry.Entry) error {
	return c.Insert(len(c.entries), e)
}

// Insert places e at position i, clamped to the collection bounds. An entry
// without a last-modified stamp is stamped now.
func (c *Collection) Insert(i int, e *entry.Entry) error {
	if e == nil {
		return errors.New("collection: nil entry")
	}
	if c.indexOf(e) >= 0 || c.hasEqual(e, nil) {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, e.Title())
	}
	c.syncTags(e)
	if e.LastModified().IsZero() {
		e.SetLastModified(c.clock.stamp())
	} else {
		c.clock.observe(e.LastModified())
	}
	if i < 0 {
		i = 0
	}
	if i > len(c.entries) {
		i = len(c.entries)
	}
	c.entries = append(c.entries, nil)
	copy(c.entries[i+1:], c.entries[i:])
	c.entries[i] = e
	return nil
}

// Remove drops e and returns the position it held. The registry keeps the
// entry's tags.
func (c *Collection) Remove(e *entry.Entry) (int, error) {
	i := c.indexOf(e)
	if i < 0 {
		return -1, ErrEntryNotFound
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	return i, nil
}

// Update describes a field edit. Nil fields are left unchanged.
type Update struct {
	Title       *string
	Description *string
	Tags        *tag.Set

	Deadline      *time.Time
	ClearDeadline bool

	Start *time.Time
	End   *time.Time
}

// IsEmpty reports whether u changes nothing.
func (u Update) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Tags == nil &&
		u.Deadline == nil && !u.ClearDeadline && u.Start == nil && u.End == nil
}

// Capture returns the Update that restores every field of e.
func Capture(e *entry.Entry) Update {
	title := e.Title()
	description := e.Description()
	tags := e.Tags()
	u := Update{Title: &title, Description: &description, Tags: &tags}
	switch e.Kind() {
	case entry.KindTask:
		if d, ok := e.Deadline(); ok {
			u.Deadline = &d
		} else {
			u.ClearDeadline = true
		}
	case entry.KindEvent:
		start, end := e.Start(), e.End()
		u.Start, u.End = &start, &end
	}
	return u
}

func (u Update) applyTo(e *entry.Entry) error {
	if u.Title != nil {
		if err := e.SetTitle(*u.Title); err != nil {
			return err
		}
	}
	if u.Description != nil {
		e.SetDescription(*u.Description)
	}
	if u.Tags != nil {
		e.SetTags(*u.Tags)
	}
	switch e.Kind() {
	case entry.KindTask:
		if u.Start != nil || u.End != nil {
			return ErrEntryConversion
		}
		switch {
		case u.Deadline != nil:
			return e.SetDeadline(u.Deadline)
		case u.ClearDeadline:
			return e.SetDeadline(nil)
		}
	case entry.KindEvent:
		if u.Deadline != nil || u.ClearDeadline {
			return ErrEntryConversion
		}
		if u.Start != nil || u.End != nil {
			start, end := e.Start(), e.End()
			if u.Start != nil {
				start = *u.Start
			}
			if u.End != nil {
				end = *u.End
			}
			return e.SetSpan(start, end)
		}
	}
	return nil
}

// Update applies u to e as one step: either every field changes or none does.
// The edit must not make e equal to another entry.
func (c *Collection) Update(e *entry.Entry, u Update) error {
	if c.indexOf(e) < 0 {
		return ErrEntryNotFound
	}
	candidate := e.Clone()
	if err := u.applyTo(candidate); err != nil {
		return err
	}
	if c.hasEqual(candidate, e) {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, candidate.Title())
	}
	*e = *candidate
	if u.Tags != nil {
		c.syncTags(e)
	}
	e.SetLastModified(c.clock.stamp())
	return nil
}

// AddTags adds s to the tags of e.
func (c *Collection) AddTags(e *entry.Entry, s tag.Set) error {
	tags := e.Tags().Union(s)
	return c.Update(e, Update{Tags: &tags})
}

// RemoveTags removes s from the tags of e.
func (c *Collection) RemoveTags(e *entry.Entry, s tag.Set) error {
	tags := e.Tags().Minus(s)
	return c.Update(e, Update{Tags: &tags})
}

// Mark completes a task. Marking an already marked task stamps it again.
func (c *Collection) Mark(e *entry.Entry) error {
	return c.setMarked(e, true)
}

// Unmark reopens a task.
func (c *Collection) Unmark(e *entry.Entry) error {
	return c.setMarked(e, false)
}

func (c *Collection) setMarked(e *entry.Entry, marked bool) error {
	if c.indexOf(e) < 0 {
		return ErrEntryNotFound
	}
	if err := e.SetMarked(marked); err != nil {
		return err
	}
	e.SetLastModified(c.clock.stamp())
	return nil
}

// SetLastModified restores an exact prior stamp; used only to undo.
func (c *Collection) SetLastModified(e *entry.Entry, t time.Time) error {
	if c.indexOf(e) < 0 {
		return ErrEntryNotFound
	}
	e.SetLastModified(t)
	return nil
}

// Reset replaces the content with entries and a registry seeded with tags.
// Entries keep their identity; their tags are re-synced against the new
// registry. On error nothing changes.
func (c *Collection) Reset(entries []*entry.Entry, tags tag.Set) error {
	for i, e := range entries {
		for _, o := range entries[:i] {
			if o == e || o.Equal(e) {
				return fmt.Errorf("%w: %s", ErrDuplicateEntry, e.Title())
			}
		}
	}
	c.registry.Reset(tags)
	c.entries = append([]*entry.Entry(nil), entries...)
	for _, e := range c.entries {
		c.syncTags(e)
		c.clock.observe(e.LastModified())
	}
	return nil
}
