package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/taskq/pkg/query"
	"tableflip.dev/taskq/pkg/runner/exec"
	"tableflip.dev/taskq/pkg/runner/shell"
	"tableflip.dev/taskq/pkg/store"
)

type memoryPersistence struct {
	snap  store.Snapshot
	saves int
}

func (m *memoryPersistence) Load(context.Context) (store.Snapshot, error) { return m.snap, nil }

func (m *memoryPersistence) Save(_ context.Context, s store.Snapshot) error {
	m.snap = s
	m.saves++
	return nil
}

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return nil, errors.New("not supported")
}

func (m *memoryPersistence) Close() error { return nil }

func newTestShell(t *testing.T) (*session, *memoryPersistence, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	p := &memoryPersistence{}
	s, err := exec.Open(context.Background(), p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var out bytes.Buffer
	return &session{x: &exec.Exec{Session: s, Out: &out}}, p, &out
}

func line(t *testing.T, d *session, l string) error {
	t.Helper()
	args, err := shell.Split(l)
	if err != nil {
		t.Fatalf("split %q: %v", l, err)
	}
	root := newShellTree(d)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func titles(d *session, all bool) string {
	var ts []string
	for _, e := range d.x.Session.Query(query.Filter{IncludeCompleted: all}) {
		ts = append(ts, e.Title())
	}
	return strings.Join(ts, ",")
}

func TestShellAddTagUndoRedo(t *testing.T) {
	d, p, _ := newTestShell(t)

	for _, l := range []string{
		"add pay rent --deadline 2030-1-2 --tag home",
		"add water plants",
		"tag 1 urgent",
	} {
		if err := line(t, d, l); err != nil {
			t.Fatalf("%q: %v", l, err)
		}
	}
	if got := titles(d, false); got != "pay rent,water plants" {
		t.Fatalf("unexpected titles %q", got)
	}
	if got := strings.Join(p.snap.Tags, ","); got != "home,urgent" {
		t.Fatalf("unexpected saved tags %q", got)
	}

	if err := line(t, d, "undo"); err != nil {
		t.Fatalf("undo: %v", err)
	}
	first := d.x.Session.Query(query.Filter{Keywords: []string{"rent"}})
	if len(first) != 1 || first[0].Tags().String() != "#home" {
		t.Fatalf("expected tag removed by undo, got %v", first)
	}
	if err := line(t, d, "redo"); err != nil {
		t.Fatalf("redo: %v", err)
	}
	first = d.x.Session.Query(query.Filter{Keywords: []string{"rent"}})
	if len(first) != 1 || first[0].Tags().String() != "#home #urgent" {
		t.Fatalf("expected tag back after redo, got %v", first)
	}
}

func TestShellIndexFollowsListing(t *testing.T) {
	d, _, _ := newTestShell(t)
	for _, l := range []string{"add alpha", "add beta", "add gamma --tag x", "list --tag x", "mark 1"} {
		if err := line(t, d, l); err != nil {
			t.Fatalf("%q: %v", l, err)
		}
	}
	if got := titles(d, false); got != "alpha,beta" {
		t.Fatalf("expected gamma marked, open are %q", got)
	}

	if err := line(t, d, "mark 1 --match beta"); err != nil {
		t.Fatalf("mark with match: %v", err)
	}
	if got := titles(d, false); got != "alpha" {
		t.Fatalf("expected beta marked, open are %q", got)
	}
}

func TestShellFailures(t *testing.T) {
	d, p, out := newTestShell(t)

	if err := line(t, d, "undo"); !errors.Is(err, exec.ErrFailed) {
		t.Fatalf("expected failure, got %v", err)
	}
	if !strings.Contains(out.String(), "There is no command to undo") {
		t.Fatalf("expected message printed, got %q", out.String())
	}
	if err := line(t, d, "delete 3"); !errors.Is(err, exec.ErrFailed) {
		t.Fatalf("expected failure on invalid index, got %v", err)
	}
	if err := line(t, d, "delete three"); err == nil || errors.Is(err, exec.ErrFailed) {
		t.Fatalf("expected a parse error, got %v", err)
	}
	if err := line(t, d, "add --start nonsense meeting"); err == nil {
		t.Fatalf("expected a date error")
	}
	if p.saves != 0 {
		t.Fatalf("failures must not save, saved %d times", p.saves)
	}
}

func TestShellQuotedTitlesAndExtraArgs(t *testing.T) {
	d, _, _ := newTestShell(t)
	for _, l := range []string{`add "pay  rent"`, `edit 1 --title "Buy milk"`} {
		if err := line(t, d, l); err != nil {
			t.Fatalf("%q: %v", l, err)
		}
	}
	if got := titles(d, false); got != "Buy milk" {
		t.Fatalf("expected the quoted title kept whole, got %q", got)
	}

	for _, l := range []string{"delete 1 extra", `edit 1 Buy milk`, "mark 1 2"} {
		if err := line(t, d, l); err == nil || errors.Is(err, exec.ErrFailed) {
			t.Fatalf("%q: expected an argument error, got %v", l, err)
		}
	}
	if got := titles(d, true); got != "Buy milk" {
		t.Fatalf("rejected lines must not change entries, got %q", got)
	}
}

func TestShellClearAndExit(t *testing.T) {
	d, _, _ := newTestShell(t)
	for _, l := range []string{"add alpha --tag a", "clear"} {
		if err := line(t, d, l); err != nil {
			t.Fatalf("%q: %v", l, err)
		}
	}
	if got := titles(d, true); got != "" {
		t.Fatalf("expected empty after clear, got %q", got)
	}
	if err := line(t, d, "undo"); err != nil {
		t.Fatalf("undo clear: %v", err)
	}
	if got := titles(d, true); got != "alpha" {
		t.Fatalf("expected alpha restored, got %q", got)
	}

	if err := line(t, d, "help"); err != nil || d.exit {
		t.Fatalf("help: %v exit=%v", err, d.exit)
	}
	if err := line(t, d, "exit"); err != nil || !d.exit {
		t.Fatalf("exit: %v exit=%v", err, d.exit)
	}
}

func TestShellFlagsDoNotLeak(t *testing.T) {
	d, _, _ := newTestShell(t)
	for _, l := range []string{"add alpha --tag a", "add beta"} {
		if err := line(t, d, l); err != nil {
			t.Fatalf("%q: %v", l, err)
		}
	}
	beta := d.x.Session.Query(query.Filter{Keywords: []string{"beta"}})
	if len(beta) != 1 || len(beta[0].Tags()) != 0 {
		t.Fatalf("expected untagged beta, got %v", beta)
	}
}

func TestOneShotAddAndMark(t *testing.T) {
	color.NoColor = true
	t.Setenv("TASKQ_PATH", t.TempDir())
	t.Setenv("TASKQ_BACKEND", store.BackendDiskv)

	run := func(args ...string) error {
		cmd := New()
		cmd.SilenceErrors = true
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	if err := run("add", "pay", "rent", "--tag", "home"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := run("mark", "1"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := run("clear"); err == nil {
		t.Fatalf("expected clear to require --yes")
	}

	p, err := store.Open(nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer p.Close()
	snap, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Entries) != 1 || !snap.Entries[0].Marked() || snap.Entries[0].Title() != "pay rent" {
		t.Fatalf("unexpected snapshot %v", snap.Entries)
	}
}

func TestParseIndex(t *testing.T) {
	if i, err := parseIndex("12"); err != nil || i != 12 {
		t.Fatalf("got %d, %v", i, err)
	}
	if _, err := parseIndex("x"); err == nil {
		t.Fatalf("expected error")
	}
}
