package options

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	day := 24 * time.Hour
	tests := []struct {
		in    string
		want  time.Duration
		label string
	}{
		{in: "", want: 7 * day, label: "1w"},
		{in: "3d", want: 3 * day, label: "3d"},
		{in: "1w 2days", want: 9 * day, label: "1w2d"},
		{in: "36h", want: 36 * time.Hour, label: "1d12h"},
	}
	for _, tc := range tests {
		got, label, err := ParseWindow(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if got != tc.want || label != tc.label {
			t.Fatalf("%q: expected %v %q, got %v %q", tc.in, tc.want, tc.label, got, label)
		}
	}
	for _, bad := range []string{"d", "3x", "0d", "w3"} {
		if _, _, err := ParseWindow(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}
