package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventEntriesChanged: stored entries were written or erased.
	EventEntriesChanged EventType = iota

	// EventInvalidated: something other than entries changed; reload
	// everything.
	EventInvalidated
)

// Event is one batch of storage changes seen by Persistence.Watch.
type Event struct {
	Type EventType
	// Keys lists the changed entry keys, sorted. Empty when invalidated.
	Keys []string
}

// settle is how long changes are gathered before a batch is sent.
const settle = 100 * time.Millisecond

// classifier maps a changed path to an entry key. ok is false when the
// path is not an entry.
type classifier func(path string) (key string, ok bool)

type dirWatcher struct {
	fs       *fsnotify.Watcher
	classify classifier
	watched  map[string]bool
}

// watchDir streams batches of changes under base until ctx is done. The
// channel is closed when watching stops. Batches are dropped while the
// reader is behind; the next one still reports the store as changed.
func watchDir(ctx context.Context, base string, classify classifier) (<-chan Event, error) {
	if base == "" {
		return nil, errors.New("store: watch: base path unknown")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("store: watch: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: watch: %w", err)
	}
	w := &dirWatcher{fs: fw, classify: classify, watched: make(map[string]bool)}
	if err := w.addTree(base); err != nil {
		_ = fw.Close()
		return nil, err
	}

	out := make(chan Event, 16)
	go w.run(ctx, out)
	return out, nil
}

// addTree watches root and every directory below it.
func (w *dirWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() || w.watched[path] {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("store: watch %s: %w", path, err)
		}
		w.watched[path] = true
		return nil
	})
}

func (w *dirWatcher) run(ctx context.Context, out chan<- Event) {
	defer close(out)
	defer func() {
		if err := w.fs.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "store: watcher close: %v\n", err)
		}
	}()

	b := newBatcher(settle, func(ev Event) {
		select {
		case out <- ev:
		default:
		}
	})
	defer b.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "store: watcher: %v\n", err)
			b.Invalidate()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev, b)
		}
	}
}

func (w *dirWatcher) handle(ev fsnotify.Event, b *batcher) {
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			// New shard directory; its files may already exist.
			if err := w.addTree(filepath.Clean(ev.Name)); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}
			b.Invalidate()
			return
		}
	}
	if key, ok := w.classify(ev.Name); ok {
		b.Add(key)
		return
	}
	b.Invalidate()
}

// batcher gathers changes for delay after the first one, then emits them as
// a single Event. An invalidation swallows the keys of its batch.
type batcher struct {
	mu      sync.Mutex
	delay   time.Duration
	emit    func(Event)
	timer   *time.Timer
	keys    map[string]struct{}
	invalid bool
	stopped bool
}

func newBatcher(delay time.Duration, emit func(Event)) *batcher {
	return &batcher{delay: delay, emit: emit, keys: make(map[string]struct{})}
}

func (b *batcher) Add(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys[key] = struct{}{}
	b.arm()
}

func (b *batcher) Invalidate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.invalid = true
	b.arm()
}

// arm must be called with b.mu held.
func (b *batcher) arm() {
	if b.stopped || b.timer != nil {
		return
	}
	b.timer = time.AfterFunc(b.delay, b.flush)
}

// flush emits under b.mu so nothing is sent once Stop returns.
func (b *batcher) flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.timer = nil
	if b.stopped {
		return
	}
	ev := Event{Type: EventEntriesChanged}
	if b.invalid {
		ev.Type = EventInvalidated
	} else {
		for k := range b.keys {
			ev.Keys = append(ev.Keys, k)
		}
		sort.Strings(ev.Keys)
	}
	b.keys = make(map[string]struct{})
	b.invalid = false
	b.emit(ev)
}

func (b *batcher) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
