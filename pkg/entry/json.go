package entry

import (
	"encoding/json"
	"fmt"

	"tableflip.dev/taskq/pkg/tag"
)

// Record is the persisted form of an entry.
type Record struct {
	ID           string     `json:"id"`
	Kind         string     `json:"kind"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Marked       bool       `json:"marked,omitempty"`
	Deadline     *Timestamp `json:"deadline,omitempty"`
	Start        *Timestamp `json:"start,omitempty"`
	End          *Timestamp `json:"end,omitempty"`
	LastModified Timestamp  `json:"lastModified"`
}

// Record returns the persisted form of e.
func (e *Entry) Record() Record {
	r := Record{
		ID:           e.id,
		Kind:         e.kind.String(),
		Title:        e.title,
		Description:  e.description,
		Tags:         e.tags.Names(),
		Marked:       e.marked,
		LastModified: Timestamp{Time: e.modified},
	}
	switch e.kind {
	case KindTask:
		if d, ok := e.Deadline(); ok {
			r.Deadline = &Timestamp{Time: d}
		}
	case KindEvent:
		r.Start = &Timestamp{Time: e.start}
		r.End = &Timestamp{Time: e.end}
	}
	return r
}

// FromRecord rebuilds an entry, keeping its identity and stamp. The same
// checks as NewTask and NewEvent apply.
func FromRecord(r Record) (*Entry, error) {
	kind, err := ParseKind(r.Kind)
	if err != nil {
		return nil, err
	}
	tags, err := tag.Parse(r.Tags...)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", r.ID, err)
	}

	var e *Entry
	switch kind {
	case KindTask:
		if r.Deadline != nil && !r.Deadline.IsZero() {
			e, err = NewTask(r.Title, &r.Deadline.Time, tags)
		} else {
			e, err = NewTask(r.Title, nil, tags)
		}
	case KindEvent:
		if r.Start == nil || r.End == nil {
			return nil, fmt.Errorf("entry %s: event without start or end", r.ID)
		}
		e, err = NewEvent(r.Title, r.Start.Time, r.End.Time, tags)
	}
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", r.ID, err)
	}
	if r.ID != "" {
		e.id = r.ID
	}
	e.description = r.Description
	e.marked = r.Marked && kind == KindTask
	e.modified = r.LastModified.Time
	return e, nil
}

func (e *Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Record())
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	decoded, err := FromRecord(r)
	if err != nil {
		return err
	}
	*e = *decoded
	return nil
}
