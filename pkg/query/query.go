// Package query builds entry predicates and the filtered, sorted views
// rendered from them.
package query

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"tableflip.dev/taskq/pkg/entry"
	"tableflip.dev/taskq/pkg/tag"
)

// Filter holds the qualifiers of a query. Qualifiers combine with AND; On
// takes precedence over After and Before.
type Filter struct {
	Keywords []string
	Tags     []string
	After    *time.Time
	Before   *time.Time
	On       *time.Time

	// IncludeCompleted admits marked tasks into the default listing. A
	// filter with any qualifier always admits them.
	IncludeCompleted bool
}

// IsEmpty reports whether no qualifier is set.
func (f Filter) IsEmpty() bool {
	return len(f.Keywords) == 0 && len(f.Tags) == 0 &&
		f.After == nil && f.Before == nil && f.On == nil
}

const dayLayout = "2006-01-02"

func (f Filter) String() string {
	parts := make([]string, 0, 5)
	if len(f.Keywords) > 0 {
		parts = append(parts, "title="+strings.Join(f.Keywords, ", "))
	}
	if len(f.Tags) > 0 {
		parts = append(parts, "tags="+strings.Join(f.Tags, ", "))
	}
	if f.On != nil {
		parts = append(parts, "on "+f.On.Format(dayLayout))
	} else {
		if f.After != nil {
			parts = append(parts, "after "+f.After.Format(dayLayout))
		}
		if f.Before != nil {
			parts = append(parts, "before "+f.Before.Format(dayLayout))
		}
	}
	if f.IncludeCompleted {
		parts = append(parts, "including completed")
	}
	return strings.Join(parts, "; ")
}

// Predicate admits or rejects an entry.
type Predicate func(*entry.Entry) bool

// Option customises Build.
type Option func(*buildOptions)

type buildOptions struct {
	warn io.Writer
}

// WithWarnings redirects diagnostics about ignored qualifiers; they go to
// stderr by default.
func WithWarnings(w io.Writer) Option {
	return func(opts *buildOptions) {
		if w != nil {
			opts.warn = w
		}
	}
}

// Build composes the predicate for f. An empty filter admits every
// incomplete entry; qualifiers match completed entries too.
func Build(f Filter, opts ...Option) Predicate {
	config := &buildOptions{warn: os.Stderr}
	for _, opt := range opts {
		opt(config)
	}

	preds := make([]Predicate, 0, 5)
	if f.IsEmpty() && !f.IncludeCompleted {
		preds = append(preds, func(e *entry.Entry) bool { return !e.Marked() })
	}
	if len(f.Keywords) > 0 {
		preds = append(preds, Keywords(f.Keywords...))
	}
	if len(f.Tags) > 0 {
		preds = append(preds, tagsPredicate(f.Tags, config.warn))
	}
	if f.On != nil {
		preds = append(preds, On(*f.On))
	} else {
		if f.After != nil {
			preds = append(preds, After(*f.After))
		}
		if f.Before != nil {
			preds = append(preds, Before(*f.Before))
		}
	}
	return All(preds...)
}

// All is the conjunction of preds; with none it admits everything.
func All(preds ...Predicate) Predicate {
	return func(e *entry.Entry) bool {
		for _, p := range preds {
			if !p(e) {
				return false
			}
		}
		return true
	}
}

// Keywords admits entries whose title contains any keyword, ignoring case.
func Keywords(keywords ...string) Predicate {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			lowered = append(lowered, strings.ToLower(k))
		}
	}
	return func(e *entry.Entry) bool {
		title := strings.ToLower(e.Title())
		for _, k := range lowered {
			if strings.Contains(title, k) {
				return true
			}
		}
		return false
	}
}

// Tags admits entries sharing at least one tag with the given set.
func Tags(s tag.Set) Predicate {
	return func(e *entry.Entry) bool {
		return e.Tags().Intersects(s)
	}
}

func tagsPredicate(raws []string, warn io.Writer) Predicate {
	s, err := tag.Parse(raws...)
	if err != nil {
		_, _ = fmt.Fprintf(warn, "query: tag filter matches nothing: %v\n", err)
		return func(*entry.Entry) bool { return false }
	}
	return Tags(s)
}

// After admits entries whose comparable time is at or after t.
func After(t time.Time) Predicate {
	return func(e *entry.Entry) bool {
		ct, ok := e.ComparableTime()
		return ok && !ct.Before(t)
	}
}

// Before admits entries whose comparable time is at or before t.
func Before(t time.Time) Predicate {
	return func(e *entry.Entry) bool {
		ct, ok := e.ComparableTime()
		return ok && !ct.After(t)
	}
}

// On admits tasks due within the closed interval [day, day+24h] and events
// starting and ending within it.
func On(day time.Time) Predicate {
	lower := entry.StartOfDay(day)
	upper := lower.AddDate(0, 0, 1)
	within := func(t time.Time) bool {
		return !t.Before(lower) && !t.After(upper)
	}
	return func(e *entry.Entry) bool {
		switch e.Kind() {
		case entry.KindTask:
			d, ok := e.Deadline()
			return ok && within(d)
		case entry.KindEvent:
			return !e.Start().Before(lower) && !e.End().After(upper)
		}
		return false
	}
}

// View returns the entries admitted by p in display order. The input slice
// is left untouched and every call computes a fresh result.
func View(entries []*entry.Entry, p Predicate) []*entry.Entry {
	out := make([]*entry.Entry, 0, len(entries))
	for _, e := range entries {
		if p == nil || p(e) {
			out = append(out, e)
		}
	}
	entry.Sort(out)
	return out
}
