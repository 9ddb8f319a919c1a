package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/taskq/pkg/entry"
	"tableflip.dev/taskq/pkg/glyph"
)

const layout = "Mon Jan 2 15:04"

type PrettyPrint struct {
	ShowID bool
	// Width wraps descriptions; zero means 80 columns.
	Width int
	Now   func() time.Time
	Out   io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) now() time.Time {
	if pp.Now == nil {
		return time.Now()
	}
	return pp.Now()
}

func (pp *PrettyPrint) width() int {
	if pp.Width <= 0 {
		return 80
	}
	return pp.Width
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

// Message prints a command result, red when it failed.
func (pp *PrettyPrint) Message(msg string, ok bool) {
	c := color.New(color.FgGreen)
	if !ok {
		c = color.New(color.FgRed)
	}
	_, _ = c.Fprintln(pp.out(), msg)
}

// When renders the time column of e.
func When(e *entry.Entry) string {
	switch e.Kind() {
	case entry.KindEvent:
		start, end := e.Start(), e.End()
		if entry.StartOfDay(start).Equal(entry.StartOfDay(end)) {
			return fmt.Sprintf("%s - %s", start.Format(layout), end.Format("15:04"))
		}
		return fmt.Sprintf("%s - %s", start.Format(layout), end.Format(layout))
	case entry.KindTask:
		if d, ok := e.Deadline(); ok {
			return "due " + d.Format(layout)
		}
	}
	return ""
}

// Collection prints entries numbered from 1, the numbers commands take as
// targets.
func (pp *PrettyPrint) Collection(entries ...*entry.Entry) {
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	now := pp.now()
	faint := color.New(color.Faint)
	done := color.New(color.Faint, color.CrossedOut)
	tags := color.New(color.FgCyan)
	id := color.New(color.FgHiYellow, color.Italic, color.Faint)
	over := color.New(color.FgRed, color.Bold)

	tbl := uitable.New()
	tbl.Separator = " "
	tbl.MaxColWidth = uint(pp.width() / 2)
	tbl.Wrap = true
	for i, e := range entries {
		sig := glyph.SignifierFor(e, now)
		sigText := sig.String()
		if sig == glyph.Overdue {
			sigText = over.Sprint(sigText)
		}
		title := e.Title()
		if e.Marked() {
			title = done.Sprint(title)
		}
		row := []interface{}{
			faint.Sprintf("%d.", i+1),
			sigText,
			glyph.BulletFor(e).String(),
			title,
			faint.Sprint(When(e)),
			tags.Sprint(e.Tags().String()),
		}
		if pp.ShowID {
			row = append([]interface{}{id.Sprint(e.ID())}, row...)
		}
		tbl.AddRow(row...)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)

	for i, e := range entries {
		if e.Description() == "" {
			continue
		}
		indent := "    "
		wrapped := wordwrap.String(e.Description(), pp.width()-len(indent))
		_, _ = faint.Fprintf(pp.out(), "%d. %s\n", i+1, e.Title())
		for _, line := range strings.Split(wrapped, "\n") {
			_, _ = fmt.Fprintln(pp.out(), indent+line)
		}
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}
