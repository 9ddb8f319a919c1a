// Package report prints completed tasks grouped by tag.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/taskq/pkg/app"
	"tableflip.dev/taskq/pkg/glyph"
)

const stamp = "2006-01-02 15:04"

type Report struct {
	Session *app.Session
	Window  time.Duration
	Label   string
	Now     func() time.Time
	Out     io.Writer
}

func (r *Report) Do() error {
	out := r.Out
	if out == nil {
		out = color.Output
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	until := now()
	result := r.Session.Report(until.Add(-r.Window), until)
	Render(out, result, r.Label)
	return nil
}

// Render prints result under a header naming the window label.
func Render(out io.Writer, result app.ReportResult, label string) {
	head := color.New(color.Bold)
	faint := color.New(color.Faint)

	_, _ = head.Fprintf(out, "Report · last %s (%s → %s)\n", label,
		result.Since.Local().Format(stamp), result.Until.Local().Format(stamp))

	if result.Total == 0 {
		_, _ = fmt.Fprintln(out, "  No completed tasks found in this window.")
		_, _ = fmt.Fprintln(out)
		return
	}

	for _, section := range result.Sections {
		name := "untagged"
		if section.Tag != "" {
			name = "#" + section.Tag
		}
		_, _ = head.Fprintf(out, "\n%s\n", name)
		for _, item := range section.Entries {
			_, _ = fmt.Fprintf(out, "  %s %s", glyph.Completed, item.Entry.Title())
			_, _ = faint.Fprintf(out, "  (completed %s)\n", item.CompletedAt.Local().Format(stamp))
		}
	}
	_, _ = fmt.Fprintln(out)
}
