package printers

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/taskq/pkg/entry"
	"tableflip.dev/taskq/pkg/tag"
)

func init() {
	color.NoColor = true
}

func TestCollectionNumbersEntries(t *testing.T) {
	now := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	tags, _ := tag.Parse("home")
	late, _ := entry.NewTask("pay rent", &past, tags)
	late.SetDescription("the landlord prefers a bank transfer over cash and cheques, and the reference must carry the flat number")
	meet, _ := entry.NewEvent("standup", now.Add(time.Hour), now.Add(2*time.Hour), nil)

	var out bytes.Buffer
	pp := &PrettyPrint{Out: &out, Now: func() time.Time { return now }, Width: 60}
	pp.Collection(late, meet)

	got := out.String()
	for _, want := range []string{"1.", "2.", "! ●", "○", "#home", "due Fri Jan 5 11:00", "Fri Jan 5 13:00 - 14:00"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in:\n%s", want, got)
		}
	}
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, "    ") && len(line) > 60 {
			t.Fatalf("description not wrapped: %q", line)
		}
	}
}

func TestCollectionEmpty(t *testing.T) {
	var out bytes.Buffer
	(&PrettyPrint{Out: &out}).Collection()
	if !strings.Contains(out.String(), "none") {
		t.Fatalf("expected none, got %q", out.String())
	}
}

func TestCalendarMarksDays(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC)
	a, _ := entry.NewTask("valentine", &due, nil)
	b, _ := entry.NewTask("someday", nil, nil)

	var out bytes.Buffer
	pp := &PrettyPrint{Out: &out, Now: func() time.Time { return now }}
	pp.Calendar(now, a, b)

	got := out.String()
	for _, want := range []string{"February", "14 W", "valentine", "Open", "someday"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in:\n%s", want, got)
		}
	}
	if DaysIn(now) != 29 {
		t.Fatalf("2024 is a leap year")
	}
}

func TestWhenAfterReload(t *testing.T) {
	defer func(loc *time.Location) { time.Local = loc }(time.Local)
	time.Local = time.FixedZone("CET", 3600)

	start := time.Date(2024, 1, 5, 0, 30, 0, 0, time.Local)
	ev, _ := entry.NewEvent("night shift", start, start.Add(2*time.Hour), nil)
	before := When(ev)

	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := &entry.Entry{}
	if err := json.Unmarshal(b, got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if before != "Fri Jan 5 00:30 - 02:30" || When(got) != before {
		t.Fatalf("expected %q to survive a reload, got %q", before, When(got))
	}
}
