package options

import (
	"testing"
	"time"
)

func TestParseWhen(t *testing.T) {
	now := time.Date(2024, 12, 5, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "iso date", in: "2025-2-28", want: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{name: "iso date and time", in: "2025-02-28 14:30", want: time.Date(2025, 2, 28, 14, 30, 0, 0, time.UTC)},
		{name: "short later", in: "12/24", want: time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC)},
		{name: "short rolls over", in: "1/3", want: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)},
		{name: "short today stays", in: "12/5 9:00", want: time.Date(2024, 12, 5, 9, 0, 0, 0, time.UTC)},
		{name: "today", in: "Today", want: time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC)},
		{name: "tomorrow", in: "tomorrow", want: time.Date(2024, 12, 6, 0, 0, 0, 0, time.UTC)},
		{name: "garbage", in: "next week", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseWhen(tc.in, now)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestViewFilter(t *testing.T) {
	now := time.Date(2024, 12, 5, 15, 0, 0, 0, time.UTC)
	o := &ViewOptions{Tags: []string{"home"}, All: true}
	o.OnString = "12/6"
	f, err := o.Filter(now)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if f.On == nil || f.On.Day() != 6 || !f.IncludeCompleted || len(f.Tags) != 1 {
		t.Fatalf("unexpected filter %+v", f)
	}

	o.BeforeString = "soon"
	if _, err := o.Filter(now); err == nil {
		t.Fatalf("expected error for bad --before")
	}
}
