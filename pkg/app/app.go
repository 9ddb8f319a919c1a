// Package app runs commands against a single entry collection and keeps
// persistence and observers in step with every committed change.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"tableflip.dev/taskq/pkg/collection"
	"tableflip.dev/taskq/pkg/command"
	"tableflip.dev/taskq/pkg/entry"
	"tableflip.dev/taskq/pkg/query"
	"tableflip.dev/taskq/pkg/store"
	"tableflip.dev/taskq/pkg/tag"
)

// Change describes the collection after a committed command.
type Change struct {
	// Command is the command word, or "undo", "redo" or "load".
	Command string
	// Entries are copies in collection order.
	Entries []*entry.Entry
	Tags    []string
}

// Session is the single writer of an entry collection. All methods are safe
// for concurrent use; commands run one at a time.
type Session struct {
	Persistence store.Persistence

	mu        sync.Mutex
	entries   *collection.Collection
	history   command.History
	view      []*entry.Entry
	warn      io.Writer
	observers map[int]func(Change)
	nextObs   int

	// notifyMu serializes commits with their observer calls. Committers
	// take it before mu; observers run holding only notifyMu.
	notifyMu sync.Mutex
}

// Option customises a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	now         func() time.Time
	warn        io.Writer
	persistence store.Persistence
}

// WithClock sets the time source used to stamp entries.
func WithClock(now func() time.Time) Option {
	return func(o *sessionOptions) { o.now = now }
}

// WithWarnings redirects diagnostics; they go to stderr by default.
func WithWarnings(w io.Writer) Option {
	return func(o *sessionOptions) {
		if w != nil {
			o.warn = w
		}
	}
}

// WithPersistence saves every committed change to p.
func WithPersistence(p store.Persistence) Option {
	return func(o *sessionOptions) { o.persistence = p }
}

// NewSession returns a session over an empty collection.
func NewSession(opts ...Option) *Session {
	o := &sessionOptions{warn: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}
	var copts []collection.Option
	if o.now != nil {
		copts = append(copts, collection.WithClock(o.now))
	}
	s := &Session{
		Persistence: o.persistence,
		entries:     collection.New(copts...),
		warn:        o.warn,
		observers:   make(map[int]func(Change)),
	}
	s.resetView()
	return s
}

// ErrNoPersistence is returned by Load on a session without persistence.
var ErrNoPersistence = errors.New("app: no persistence configured")

func (s *Session) env() *command.Env {
	return &command.Env{Entries: s.entries, View: s.view, Warn: s.warn}
}

// resetView shows the default listing: every incomplete entry.
func (s *Session) resetView() {
	s.view = query.View(s.entries.Entries(), query.Build(query.Filter{}, query.WithWarnings(s.warn)))
}

// Execute runs cmd. Mutations that succeed are recorded for undo, saved and
// reported to observers, and the view returns to the default listing.
func (s *Session) Execute(ctx context.Context, cmd command.Command) command.Result {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	env := s.env()
	r := s.history.Execute(env, cmd)
	if _, ok := cmd.(command.Mutation); !ok || !r.Success {
		s.view = env.View
		s.mu.Unlock()
		return r
	}
	s.commit(ctx, cmd.Name())
	return r
}

// Undo reverses the most recent mutation.
func (s *Session) Undo(ctx context.Context) command.Result {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	r := s.history.Undo(s.env())
	if !r.Success {
		s.mu.Unlock()
		return r
	}
	s.commit(ctx, "undo")
	return r
}

// Redo re-applies the most recently undone mutation.
func (s *Session) Redo(ctx context.Context) command.Result {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	r := s.history.Redo(s.env())
	if !r.Success {
		s.mu.Unlock()
		return r
	}
	s.commit(ctx, "redo")
	return r
}

// commit must be called with s.mu held; it releases it.
func (s *Session) commit(ctx context.Context, name string) {
	s.resetView()
	change := s.change(name)
	if s.Persistence != nil {
		snap := store.Snapshot{Entries: change.Entries, Tags: change.Tags}
		if err := s.Persistence.Save(ctx, snap); err != nil {
			fmt.Fprintf(s.warn, "app: save: %v\n", err)
		}
	}
	s.publish(change)
}

// publish must be called with s.notifyMu and s.mu held; it releases s.mu
// before calling observers so they may query the session.
func (s *Session) publish(change Change) {
	observers := make([]func(Change), 0, len(s.observers))
	for id := 0; id < s.nextObs; id++ {
		if fn, ok := s.observers[id]; ok {
			observers = append(observers, fn)
		}
	}

	s.mu.Unlock()
	for _, fn := range observers {
		fn(change)
	}
}

func (s *Session) change(name string) Change {
	return Change{
		Command: name,
		Entries: clones(s.entries.Entries()),
		Tags:    s.entries.Tags().Names(),
	}
}

// OnChange registers fn to run after every committed change, in commit
// order. The returned func unregisters it. fn must not run commands on the
// session.
func (s *Session) OnChange(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Query returns copies of the entries admitted by f in display order and
// makes them the view that index targets refer to.
func (s *Session) Query(f query.Filter) []*entry.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = query.View(s.entries.Entries(), query.Build(f, query.WithWarnings(s.warn)))
	return clones(s.view)
}

// View returns copies of the current view.
func (s *Session) View() []*entry.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clones(s.view)
}

// Tags returns the names of every known tag.
func (s *Session) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Tags().Names()
}

// CanUndo reports whether Undo has work.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether Redo has work.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// Restore replaces the collection with entries and a registry seeded with
// tags. History is cleared. Observers see a "load" change.
func (s *Session) Restore(entries []*entry.Entry, tags []string) error {
	set, err := tag.Parse(tags...)
	if err != nil {
		return fmt.Errorf("app: restore: %w", err)
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	if err := s.entries.Reset(clones(entries), set); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("app: restore: %w", err)
	}
	s.history.Reset()
	s.resetView()
	s.publish(s.change("load"))
	return nil
}

// Load restores the session from its persistence.
func (s *Session) Load(ctx context.Context) error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	snap, err := s.Persistence.Load(ctx)
	if err != nil {
		return fmt.Errorf("app: load: %w", err)
	}
	return s.Restore(snap.Entries, snap.Tags)
}

func clones(entries []*entry.Entry) []*entry.Entry {
	out := make([]*entry.Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
