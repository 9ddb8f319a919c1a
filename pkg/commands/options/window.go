package options

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"
)

const DefaultWindow = "1w"

var windowUnits = []struct {
	names []string
	size  time.Duration
}{
	{[]string{"w", "wk", "wks", "week", "weeks"}, 7 * 24 * time.Hour},
	{[]string{"d", "day", "days"}, 24 * time.Hour},
	{[]string{"h", "hr", "hrs", "hour", "hours"}, time.Hour},
	{[]string{"m", "min", "mins", "minute", "minutes"}, time.Minute},
}

// WindowOptions selects a look-back window such as "3d" or "1w2d".
type WindowOptions struct {
	Last string
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions) {
	cmd.Flags().StringVar(&o.Last, "last", DefaultWindow,
		"Time window to include, for example 3d, 1w or 1w2d.")
}

// Get returns the window length and its compact label.
func (o *WindowOptions) Get() (time.Duration, string, error) {
	return ParseWindow(o.Last)
}

// ParseWindow sums number-unit pairs; an empty input means DefaultWindow.
func ParseWindow(input string) (time.Duration, string, error) {
	rest := strings.ToLower(strings.Join(strings.Fields(input), ""))
	if rest == "" {
		rest = DefaultWindow
	}
	var total time.Duration
	for rest != "" {
		i := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsDigit(r) })
		if i <= 0 {
			return 0, "", fmt.Errorf("invalid window segment %q", rest)
		}
		n, err := strconv.Atoi(rest[:i])
		if err != nil {
			return 0, "", err
		}
		rest = rest[i:]
		j := strings.IndexFunc(rest, unicode.IsDigit)
		if j < 0 {
			j = len(rest)
		}
		size, ok := windowUnit(rest[:j])
		if !ok {
			return 0, "", fmt.Errorf("unsupported window unit %q", rest[:j])
		}
		total += time.Duration(n) * size
		rest = rest[j:]
	}
	if total <= 0 {
		return 0, "", fmt.Errorf("window must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

func windowUnit(name string) (time.Duration, bool) {
	for _, u := range windowUnits {
		for _, n := range u.names {
			if n == name {
				return u.size, true
			}
		}
	}
	return 0, false
}

// FormatWindow renders d with the largest units first, e.g. "1w2d".
func FormatWindow(d time.Duration) string {
	var b strings.Builder
	for _, u := range windowUnits {
		if n := d / u.size; n > 0 {
			fmt.Fprintf(&b, "%d%s", n, u.names[0])
			d -= n * u.size
		}
	}
	if b.Len() == 0 {
		return "0m"
	}
	return b.String()
}
