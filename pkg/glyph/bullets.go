package glyph

import (
	"time"

	"tableflip.dev/taskq/pkg/entry"
)

type Glyph struct {
	Key       string
	Symbol    string
	Meaning   string
	Signifier bool
	Order     int
}

func DefaultGlyphs() []Glyph {
	return []Glyph{
		{Key: "+", Symbol: "●", Meaning: "task", Order: 0},
		{Key: "x", Symbol: "✘", Meaning: "task completed", Order: 1},
		{Key: "o", Symbol: "○", Meaning: "event", Order: 2},
		{Key: "!", Symbol: "!", Meaning: "overdue", Signifier: true, Order: 3},
		{Key: "*", Symbol: "✷", Meaning: "due or happening today", Signifier: true, Order: 4},
		{Key: " ", Symbol: " ", Meaning: "none", Signifier: true, Order: 5},
	}
}

func (g Glyph) String() string {
	return g.Symbol
}

// ByOrder sorts glyphs for the legend.
type ByOrder []Glyph

func (b ByOrder) Len() int           { return len(b) }
func (b ByOrder) Less(i, j int) bool { return b[i].Order < b[j].Order }
func (b ByOrder) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }

type Bullet int
type Signifier int

const (
	Task Bullet = iota
	Completed
	Event
)

const (
	Overdue Signifier = iota + 3
	Today
	None
)

func (b Bullet) Glyph() Glyph {
	return DefaultGlyphs()[b]
}

func (b Bullet) String() string {
	return b.Glyph().String()
}

func (s Signifier) Glyph() Glyph {
	return DefaultGlyphs()[s]
}

func (s Signifier) String() string {
	return s.Glyph().String()
}

// BulletFor picks the bullet drawn in front of e.
func BulletFor(e *entry.Entry) Bullet {
	switch {
	case e.IsEvent():
		return Event
	case e.Marked():
		return Completed
	}
	return Task
}

// SignifierFor flags open tasks past their deadline and entries due or
// starting on the day of now.
func SignifierFor(e *entry.Entry, now time.Time) Signifier {
	if e.Marked() {
		return None
	}
	when, ok := e.ComparableTime()
	if !ok {
		return None
	}
	if e.IsTask() && when.Before(now) {
		return Overdue
	}
	if day := entry.StartOfDay(now); !when.Before(day) && when.Before(day.AddDate(0, 0, 1)) {
		return Today
	}
	return None
}
