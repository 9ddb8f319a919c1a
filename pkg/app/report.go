package app

import (
	"sort"
	"time"

	"tableflip.dev/taskq/pkg/entry"
)

// ReportItem captures a completed task and when it was last touched.
type ReportItem struct {
	Entry       *entry.Entry
	CompletedAt time.Time
}

// ReportSection groups completed tasks by tag. Untagged tasks land in the
// section with an empty Tag.
type ReportSection struct {
	Tag     string
	Entries []ReportItem
}

// ReportResult encapsulates a completed-tasks report for a time window.
type ReportResult struct {
	Since    time.Time
	Until    time.Time
	Sections []ReportSection
	Total    int
}

// Report returns the tasks marked done between the provided bounds, grouped
// by tag. A task's last-modified stamp stands in for its completion time, so
// a task edited after completion reports the edit time.
func (s *Session) Report(since, until time.Time) ReportResult {
	if since.After(until) {
		since, until = until, since
	}
	s.mu.Lock()
	all := clones(s.entries.Entries())
	s.mu.Unlock()

	grouped := make(map[string][]ReportItem)
	total := 0
	for _, e := range all {
		if !e.IsTask() || !e.Marked() {
			continue
		}
		completedAt := e.LastModified()
		if completedAt.Before(since) || completedAt.After(until) {
			continue
		}
		item := ReportItem{Entry: e, CompletedAt: completedAt}
		names := e.Tags().Names()
		if len(names) == 0 {
			names = []string{""}
		}
		for _, name := range names {
			grouped[name] = append(grouped[name], item)
		}
		total++
	}

	result := ReportResult{Since: since, Until: until, Total: total}
	if len(grouped) == 0 {
		return result
	}

	tags := make([]string, 0, len(grouped))
	for name := range grouped {
		tags = append(tags, name)
	}
	sort.Strings(tags)

	result.Sections = make([]ReportSection, 0, len(tags))
	for _, name := range tags {
		items := grouped[name]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CompletedAt.Before(items[j].CompletedAt)
		})
		result.Sections = append(result.Sections, ReportSection{Tag: name, Entries: items})
	}
	return result
}
