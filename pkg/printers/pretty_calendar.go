package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/taskq/pkg/entry"
	"tableflip.dev/taskq/pkg/glyph"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Calendar prints the month of on as a grid, bold on days with dated
// entries, followed by the agenda of that month.
func (pp *PrettyPrint) Calendar(on time.Time, entries ...*entry.Entry) {
	then := time.Date(on.Year(), on.Month(), 1, 0, 0, 0, 0, on.Location())
	count := make([]int, DaysIn(then))
	for _, e := range entries {
		if when, ok := e.ComparableTime(); ok && SameMonth(when, then) {
			count[when.In(then.Location()).Day()-1]++
		}
	}
	pp.PrintMonthCount(then, count)
	pp.PrintMonthLong(then, entries...)
}

func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	out := pp.out()
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := then.Month().String()
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(out, "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(out, "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)

	for i := 0; i < len(count); i++ {
		if count[i] == 0 {
			_, _ = l1.Fprintf(out, "%2d ", i+1)
		} else {
			_, _ = l2.Fprintf(out, "%2d ", i+1)
		}

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(out, "\n")
		}
	}
	_, _ = fmt.Fprint(out, "\n\n")
}

// PrintMonthLong lists every day of the month with the entries due or
// starting on it. Undated tasks follow under "Open".
func (pp *PrettyPrint) PrintMonthLong(then time.Time, entries ...*entry.Entry) {
	out := pp.out()
	p := color.New()
	b := color.New(color.Bold)
	i := color.New(color.Italic)
	s := color.New(color.Underline)
	bs := color.New(color.Underline, color.Bold)

	now := pp.now()
	byDay := make(map[int][]*entry.Entry)
	var open []*entry.Entry
	for _, e := range entries {
		when, ok := e.ComparableTime()
		if !ok {
			open = append(open, e)
			continue
		}
		if SameMonth(when, then) {
			day := when.In(then.Location()).Day()
			byDay[day] = append(byDay[day], e)
		}
	}

	d := StartDay(then)
	for day := 1; day <= DaysIn(then); day++ {
		today := SameMonth(now, then) && now.In(then.Location()).Day() == day
		printer := p
		if today {
			printer = b
		}
		if d == time.Sunday {
			printer = s
			if today {
				printer = bs
			}
		}
		_, _ = printer.Fprintf(out, "%2d %s", day, d.String()[0:1])

		for n, e := range byDay[day] {
			if n > 0 {
				_, _ = p.Fprint(out, "    ")
			}
			_, _ = p.Fprintf(out, "  %s %s %s\n", glyph.SignifierFor(e, now), glyph.BulletFor(e), e.Title())
		}
		if len(byDay[day]) == 0 {
			_, _ = p.Fprint(out, "\n")
		}

		d++
		if d > time.Saturday {
			d = time.Sunday
		}
	}

	if len(open) > 0 {
		_, _ = i.Fprintf(out, "\nOpen\n")
		for _, e := range open {
			_, _ = p.Fprintf(out, "%s %s %s\n", glyph.SignifierFor(e, now), glyph.BulletFor(e), e.Title())
		}
	}
}

func SameMonth(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}
