// Package tag defines tag values and the registry that owns their canonical
// instances.
package tag

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidTag is returned when a raw string cannot be normalized into a tag.
var ErrInvalidTag = errors.New("tag: invalid tag")

// Tag is an immutable, normalized tag name.
type Tag struct {
	name string
}

// New normalizes raw into a Tag. Surrounding space and one leading '#' are
// dropped; case is kept.
func New(raw string) (*Tag, error) {
	name, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	return &Tag{name: name}, nil
}

// Must is New for literals known to be valid.
func Must(raw string) *Tag {
	t, err := New(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// Normalize returns the canonical name for raw.
func Normalize(raw string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidTag)
	}
	if strings.ContainsAny(name, " \t\r\n,/#") {
		return "", fmt.Errorf("%w: %q", ErrInvalidTag, raw)
	}
	return name, nil
}

// Name returns the normalized name.
func (t *Tag) Name() string {
	return t.name
}

func (t *Tag) String() string {
	return "#" + t.name
}

// Set is a duplicate-free collection of tags ordered by name.
type Set []*Tag

// Parse builds a Set from raw strings, merging duplicates.
func Parse(raws ...string) (Set, error) {
	s := make(Set, 0, len(raws))
	for _, raw := range raws {
		t, err := New(raw)
		if err != nil {
			return nil, err
		}
		s = s.with(t)
	}
	return s, nil
}

// NewSet returns a Set holding tags, first occurrence wins on duplicate names.
func NewSet(tags ...*Tag) Set {
	s := make(Set, 0, len(tags))
	for _, t := range tags {
		if t != nil {
			s = s.with(t)
		}
	}
	return s
}

func (s Set) with(t *Tag) Set {
	i := sort.Search(len(s), func(i int) bool { return s[i].name >= t.name })
	if i < len(s) && s[i].name == t.name {
		return s
	}
	s = append(s, nil)
	copy(s[i+1:], s[i:])
	s[i] = t
	return s
}

// Contains reports whether a tag with the same name is in s.
func (s Set) Contains(t *Tag) bool {
	return s.index(t.name) >= 0
}

func (s Set) index(name string) int {
	i := sort.Search(len(s), func(i int) bool { return s[i].name >= name })
	if i < len(s) && s[i].name == name {
		return i
	}
	return -1
}

// Union returns the tags of s followed by the tags of o not already in s.
func (s Set) Union(o Set) Set {
	out := append(make(Set, 0, len(s)+len(o)), s...)
	for _, t := range o {
		out = out.with(t)
	}
	return out
}

// Minus returns the tags of s whose names are not in o.
func (s Set) Minus(o Set) Set {
	out := make(Set, 0, len(s))
	for _, t := range s {
		if !o.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// Intersects reports whether s and o share a name.
func (s Set) Intersects(o Set) bool {
	for _, t := range o {
		if s.Contains(t) {
			return true
		}
	}
	return false
}

// Equal compares by names.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i].name != o[i].name {
			return false
		}
	}
	return true
}

// Names returns the tag names in order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, t := range s {
		names[i] = t.name
	}
	return names
}

func (s Set) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
