package query

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"tableflip.dev/taskq/pkg/entry"
	"tableflip.dev/taskq/pkg/tag"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func task(t *testing.T, title string, deadline *time.Time, tags ...string) *entry.Entry {
	t.Helper()
	e, err := entry.NewTask(title, deadline, tag.NewSet(mustTags(t, tags...)...))
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	return e
}

func event(t *testing.T, title string, start, end time.Time, tags ...string) *entry.Entry {
	t.Helper()
	e, err := entry.NewEvent(title, start, end, mustTags(t, tags...))
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	return e
}

func mustTags(t *testing.T, raws ...string) tag.Set {
	t.Helper()
	s, err := tag.Parse(raws...)
	if err != nil {
		t.Fatalf("parse tags: %v", err)
	}
	return s
}

func titles(entries []*entry.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title()
	}
	return out
}

func assertTitles(t *testing.T, got []*entry.Entry, want ...string) {
	t.Helper()
	names := titles(got)
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestEmptyFilterHidesCompleted(t *testing.T) {
	d := date(2024, 1, 10, 9)
	open := task(t, "open", &d)
	done := task(t, "done", nil)
	_ = done.SetMarked(true)
	floating := task(t, "floating", nil)

	all := []*entry.Entry{floating, done, open}
	assertTitles(t, View(all, Build(Filter{})), "open", "floating")
	assertTitles(t, View(all, Build(Filter{IncludeCompleted: true})), "open", "floating", "done")

	if titles(all)[0] != "floating" {
		t.Fatalf("view must not reorder its input")
	}
}

func TestKeywordsIgnoreCase(t *testing.T) {
	all := []*entry.Entry{task(t, "Buy Bread", nil), task(t, "call mom", nil)}
	assertTitles(t, View(all, Build(Filter{Keywords: []string{"bREAD", "zzz"}})), "Buy Bread")
}

func TestTagsIntersect(t *testing.T) {
	a := task(t, "a", nil, "x", "y")
	b := task(t, "b", nil, "z")
	c := task(t, "c", nil)
	d := task(t, "d", nil, "x")
	_ = d.SetMarked(true)
	all := []*entry.Entry{d, a, b, c}
	assertTitles(t, View(all, Build(Filter{Tags: []string{"y", "z"}})), "a", "b")
	assertTitles(t, View(all, Build(Filter{Tags: []string{"#x"}})), "a", "d")
}

func TestQualifiersAdmitCompleted(t *testing.T) {
	due := date(2024, 1, 5, 9)
	done := task(t, "pay rent", &due)
	_ = done.SetMarked(true)
	open := task(t, "pay tax", nil)
	all := []*entry.Entry{done, open}

	assertTitles(t, View(all, Build(Filter{Keywords: []string{"pay"}})), "pay tax", "pay rent")
	on := date(2024, 1, 5, 0)
	assertTitles(t, View(all, Build(Filter{On: &on})), "pay rent")
	assertTitles(t, View(all, Build(Filter{})), "pay tax")
}

func TestMalformedTagMatchesNothing(t *testing.T) {
	var warn bytes.Buffer
	all := []*entry.Entry{task(t, "a", nil, "x")}
	got := View(all, Build(Filter{Tags: []string{"x", "two words"}}, WithWarnings(&warn)))
	if len(got) != 0 {
		t.Fatalf("expected no match, got %v", titles(got))
	}
	if !strings.Contains(warn.String(), "query:") {
		t.Fatalf("expected a warning, got %q", warn.String())
	}
}

func TestBeforeScenario(t *testing.T) {
	deadline := date(2024, 1, 10, 0)
	a := task(t, "A", &deadline)
	b := event(t, "B", date(2024, 1, 5, 0), date(2024, 1, 6, 0))
	bound := date(2024, 1, 8, 0)
	assertTitles(t, View([]*entry.Entry{a, b}, Build(Filter{Before: &bound})), "B")
}

func TestAfterExcludesFloating(t *testing.T) {
	deadline := date(2024, 1, 10, 0)
	all := []*entry.Entry{task(t, "dated", &deadline), task(t, "floating", nil)}
	bound := date(2024, 1, 10, 0)
	assertTitles(t, View(all, Build(Filter{After: &bound})), "dated")
}

func TestOnIsInclusiveAndOverrides(t *testing.T) {
	midnightNext := date(2024, 1, 6, 0)
	dueNextMidnight := task(t, "boundary", &midnightNext)
	noon := date(2024, 1, 5, 12)
	dueNoon := task(t, "noon", &noon)
	dayAfter := date(2024, 1, 7, 12)
	later := task(t, "later", &dayAfter)
	inside := event(t, "inside", date(2024, 1, 5, 9), date(2024, 1, 5, 10))
	spills := event(t, "spills", date(2024, 1, 5, 9), date(2024, 1, 6, 10))

	all := []*entry.Entry{dueNextMidnight, dueNoon, later, inside, spills}
	on := date(2024, 1, 5, 15)
	after := date(2030, 1, 1, 0)
	got := View(all, Build(Filter{On: &on, After: &after}))
	assertTitles(t, got, "inside", "noon", "boundary")
}

func TestQualifiersCombineWithAnd(t *testing.T) {
	d := date(2024, 1, 5, 0)
	all := []*entry.Entry{
		task(t, "buy milk", &d, "shop"),
		task(t, "buy bread", &d),
		task(t, "sell car", &d, "shop"),
	}
	got := View(all, Build(Filter{Keywords: []string{"buy"}, Tags: []string{"shop"}}))
	assertTitles(t, got, "buy milk")
}

func TestFilterString(t *testing.T) {
	on := date(2024, 1, 5, 0)
	f := Filter{Keywords: []string{"a"}, Tags: []string{"b"}, On: &on}
	if got := f.String(); got != "title=a; tags=b; on 2024-01-05" {
		t.Fatalf("unexpected description %q", got)
	}
	if !(Filter{}).IsEmpty() {
		t.Fatalf("expected empty filter")
	}
}
