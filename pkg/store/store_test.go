package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tableflip.dev/taskq/pkg/entry"
	"tableflip.dev/taskq/pkg/tag"
)

func sample(t *testing.T) []*entry.Entry {
	t.Helper()
	tags, err := tag.Parse("home", "urgent")
	if err != nil {
		t.Fatalf("parse tags: %v", err)
	}
	deadline := time.Date(2024, 1, 10, 9, 30, 0, 123456789, time.UTC)
	a, err := entry.NewTask("pay rent", &deadline, tags)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	a.SetDescription("before noon")
	a.SetLastModified(time.Date(2024, 1, 1, 0, 0, 0, 1, time.UTC))

	b, err := entry.NewTask("floating", nil, nil)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	_ = b.SetMarked(true)
	b.SetLastModified(time.Date(2024, 1, 1, 0, 0, 0, 2, time.UTC))

	start := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	c, err := entry.NewEvent("standup", start, start.Add(15*time.Minute), tags[:1])
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	c.SetLastModified(time.Date(2024, 1, 1, 0, 0, 0, 3, time.UTC))
	return []*entry.Entry{a, b, c}
}

func assertSnapshot(t *testing.T, got Snapshot, want []*entry.Entry, tags []string) {
	t.Helper()
	if len(got.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got.Entries))
	}
	for i := range want {
		g, w := got.Entries[i], want[i]
		if g.ID() != w.ID() || !g.Equal(w) {
			t.Fatalf("entry %d: expected %s, got %s", i, w, g)
		}
		if g.Description() != w.Description() || g.Marked() != w.Marked() {
			t.Fatalf("entry %d: fields differ: %+v vs %+v", i, g.Record(), w.Record())
		}
		if !g.LastModified().Equal(w.LastModified()) {
			t.Fatalf("entry %d: expected stamp %v, got %v", i, w.LastModified(), g.LastModified())
		}
	}
	if strings.Join(got.Tags, ",") != strings.Join(tags, ",") {
		t.Fatalf("expected tags %v, got %v", tags, got.Tags)
	}
}

func roundTrip(t *testing.T, backend string) {
	ctx := context.Background()
	base := t.TempDir()
	p, err := Open(testConfig{path: base, backend: backend})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer p.Close()

	empty, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(empty.Entries) != 0 {
		t.Fatalf("expected empty store")
	}

	entries := sample(t)
	tags := []string{"home", "orphan", "urgent"}
	if err := p.Save(ctx, Snapshot{Entries: entries, Tags: tags}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertSnapshot(t, got, entries, tags)

	// Dropping an entry and reordering must be reflected on reload.
	shorter := []*entry.Entry{entries[2], entries[0]}
	if err := p.Save(ctx, Snapshot{Entries: shorter, Tags: tags[:1]}); err != nil {
		t.Fatalf("save shorter: %v", err)
	}
	got, err = p.Load(ctx)
	if err != nil {
		t.Fatalf("load shorter: %v", err)
	}
	assertSnapshot(t, got, shorter, tags[:1])
}

func TestDiskvRoundTrip(t *testing.T) {
	roundTrip(t, BackendDiskv)
}

func TestSQLiteRoundTrip(t *testing.T) {
	roundTrip(t, BackendSQLite)
}

func TestDiskvSaveKeepsUnreadableFiles(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	bad := filepath.Join(base, entriesDir, "000000_corrupt")
	if err := os.MkdirAll(filepath.Dir(bad), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	p, err := Open(testConfig{path: base, backend: BackendDiskv})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer p.Close()
	snap, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Entries) != 0 {
		t.Fatalf("expected the corrupt file skipped, got %d entries", len(snap.Entries))
	}

	entries := sample(t)
	if err := p.Save(ctx, Snapshot{Entries: entries[:1]}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(bad); err != nil {
		t.Fatalf("expected the unreadable file kept after save: %v", err)
	}
	got, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	assertSnapshot(t, got, entries[:1], nil)
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(testConfig{path: t.TempDir(), backend: "bolt"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	data := "path: " + filepath.Join(dir, "data") + "\nbackend: sqlite\n"
	if err := os.WriteFile(filepath.Join(dir, ".taskq.yaml"), []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TASKQ_CONFIG_PATH", dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BasePath() != filepath.Join(dir, "data") {
		t.Fatalf("unexpected path %q", cfg.BasePath())
	}
	if cfg.Backend() != BackendSQLite {
		t.Fatalf("unexpected backend %q", cfg.Backend())
	}
}
