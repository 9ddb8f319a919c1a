package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"tableflip.dev/taskq/pkg/entry"
)

type testConfig struct {
	path    string
	backend string
}

func (t testConfig) BasePath() string {
	return t.path
}

func (t testConfig) Backend() string {
	return t.backend
}

func TestDiskvWatchReportsEntryKeys(t *testing.T) {
	base := t.TempDir()
	p, err := Open(testConfig{path: base})
	if err != nil {
		t.Fatalf("open persistence: %v", err)
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	e, err := entry.NewTask("hello world", nil, nil)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := p.Save(ctx, Snapshot{Entries: []*entry.Entry{e}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			// The entries directory is new, so the first batch may only
			// invalidate.
			if evt.Type == EventInvalidated {
				return
			}
			for _, k := range evt.Keys {
				if strings.HasSuffix(k, e.ID()) {
					return
				}
			}
			t.Fatalf("expected a key for %s, got %v", e.ID(), evt.Keys)
		case <-deadline:
			t.Fatal("timed out waiting for a change event")
		}
	}
}

func TestWatchStopsWithContext(t *testing.T) {
	p, err := Open(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("open persistence: %v", err)
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()
	select {
	case _, ok := <-ch:
		for ok {
			_, ok = <-ch
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestBatcherCoalesces(t *testing.T) {
	got := make(chan Event, 8)
	b := newBatcher(20*time.Millisecond, func(ev Event) { got <- ev })
	defer b.Stop()

	for i := 0; i < 5; i++ {
		b.Add("entries/b")
		b.Add("entries/a")
	}
	select {
	case ev := <-got:
		if ev.Type != EventEntriesChanged || strings.Join(ev.Keys, ",") != "entries/a,entries/b" {
			t.Fatalf("unexpected batch %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no batch")
	}

	b.Add("entries/c")
	b.Invalidate()
	select {
	case ev := <-got:
		if ev.Type != EventInvalidated || len(ev.Keys) != 0 {
			t.Fatalf("expected a bare invalidation, got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no batch")
	}

	b.Stop()
	b.Add("entries/d")
	time.Sleep(50 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("batch sent after stop")
	}
}
