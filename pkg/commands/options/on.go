package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/taskq/pkg/entry"
)

var longLayouts = []string{"2006-1-2 15:04", "2006-1-2T15:04", "2006-1-2"}
var shortLayouts = []string{"1/2 15:04", "1/2"}

// ParseWhen reads a date, optionally with a time, relative to now:
// "2020-2-28", "2020-2-28 14:00", "2/28", "2/28 14:00", "today" or
// "tomorrow". A date without a year lands on its next occurrence.
func ParseWhen(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "today":
		return entry.StartOfDay(now), nil
	case "tomorrow":
		return entry.StartOfDay(now).AddDate(0, 0, 1), nil
	}
	for _, layout := range longLayouts {
		if t, err := time.ParseInLocation(layout, value, now.Location()); err == nil {
			return t, nil
		}
	}
	for _, layout := range shortLayouts {
		t, err := time.ParseInLocation(layout, value, now.Location())
		if err != nil {
			continue
		}
		// Let the year be the same.
		t = t.AddDate(now.Year(), 0, 0)
		// I am gonna assume if you said 1/3 on 12/5, you meant next year, not 11 months ago.
		if t.Before(entry.StartOfDay(now)) {
			t = t.AddDate(1, 0, 0)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, example: 2020-2-28, 2020-2-28 14:00 or 2/28", value)
}

func parseOptional(value string, now time.Time) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := ParseWhen(value, now)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DateOptions selects entries by date.
type DateOptions struct {
	OnString     string
	AfterString  string
	BeforeString string
}

func AddDateArgs(cmd *cobra.Command, o *DateOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Entries due or happening on a day, example: --on="2020-2-28" or --on="2/28".`)
	cmd.Flags().StringVar(&o.AfterString, "after", "",
		`Entries due or starting at or after a time.`)
	cmd.Flags().StringVar(&o.BeforeString, "before", "",
		`Entries due or starting at or before a time.`)
}

// Get returns the parsed on, after and before bounds.
func (o *DateOptions) Get(now time.Time) (on, after, before *time.Time, err error) {
	if on, err = parseOptional(o.OnString, now); err != nil {
		return nil, nil, nil, fmt.Errorf("--on: %w", err)
	}
	if after, err = parseOptional(o.AfterString, now); err != nil {
		return nil, nil, nil, fmt.Errorf("--after: %w", err)
	}
	if before, err = parseOptional(o.BeforeString, now); err != nil {
		return nil, nil, nil, fmt.Errorf("--before: %w", err)
	}
	return on, after, before, nil
}
