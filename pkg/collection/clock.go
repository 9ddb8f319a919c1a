package collection

import "time"

// clock hands out strictly increasing last-modified stamps, even when the
// wall clock stalls or steps back.
type clock struct {
	now  func() time.Time
	last time.Time
}

func (c *clock) stamp() time.Time {
	t := c.now().Round(0)
	if !t.After(c.last) {
		t = c.last.Add(time.Nanosecond)
	}
	c.last = t
	return t
}

func (c *clock) observe(t time.Time) {
	if t.After(c.last) {
		c.last = t
	}
}
