package options

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func TestViewOptionsFilter(t *testing.T) {
	now := time.Date(2020, 2, 10, 9, 0, 0, 0, time.UTC)
	cmd := &cobra.Command{Use: "x"}
	vo := &ViewOptions{}
	AddViewArgs(cmd, vo)
	AddMatchArgs(cmd, vo)

	if vo.IsSet() {
		t.Fatalf("no flags parsed yet")
	}
	if err := cmd.ParseFlags([]string{"--tag", "home,work", "-m", "rent", "--on", "2/28", "-a"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !vo.IsSet() {
		t.Fatalf("expected view flags to be set")
	}
	f, err := vo.Filter(now)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(f.Tags) != 2 || f.Keywords[0] != "rent" || !f.IncludeCompleted {
		t.Fatalf("unexpected filter %+v", f)
	}
	if f.On == nil || !f.On.Equal(time.Date(2020, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected day %v", f.On)
	}
}

func TestViewOptionsBadDate(t *testing.T) {
	vo := &ViewOptions{DateOptions: DateOptions{AfterString: "soon"}}
	if _, err := vo.Filter(time.Now()); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestAddOptionsSpan(t *testing.T) {
	now := time.Date(2020, 2, 10, 9, 0, 0, 0, time.UTC)
	ao := &AddOptions{StartString: "2020-2-11 10:00"}
	if !ao.IsEvent() {
		t.Fatalf("--start makes an event")
	}
	start, end, err := ao.GetSpan(now)
	if err != nil {
		t.Fatalf("span: %v", err)
	}
	if end.Sub(start) != time.Hour {
		t.Fatalf("expected a one hour default, got %v", end.Sub(start))
	}

	ao = &AddOptions{EndString: "2020-2-11 10:00"}
	if !ao.IsEvent() {
		t.Fatalf("--end alone still asks for an event")
	}
	if _, _, err := ao.GetSpan(now); err == nil {
		t.Fatalf("expected --start to be required")
	}
}
