package entry

import "sort"

// Less orders entries for display: incomplete before complete, then by
// comparable time with floating tasks last in their group, then by title.
func Less(a, b *Entry) bool {
	if a.marked != b.marked {
		return !a.marked
	}
	at, aok := a.ComparableTime()
	bt, bok := b.ComparableTime()
	switch {
	case aok && !bok:
		return true
	case !aok && bok:
		return false
	case aok && bok && !at.Equal(bt):
		return at.Before(bt)
	}
	return a.title < b.title
}

// Sort orders entries in place with Less.
func Sort(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})
}
