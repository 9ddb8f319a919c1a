package tag

import "sort"

// Registry owns the canonical instance of every tag referenced by a
// collection. Lookups by name always return the same *Tag.
type Registry struct {
	byName map[string]*Tag
	order  []*Tag
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Tag)}
}

// Intern returns the canonical instance for t, adopting t's name when unseen.
func (r *Registry) Intern(t *Tag) *Tag {
	if c, ok := r.byName[t.name]; ok {
		return c
	}
	c := &Tag{name: t.name}
	r.byName[c.name] = c
	r.order = append(r.order, c)
	return c
}

// Canonicalize interns every tag of s and returns the set rewritten to
// canonical instances.
func (r *Registry) Canonicalize(s Set) Set {
	out := make(Set, len(s))
	for i, t := range s {
		out[i] = r.Intern(t)
	}
	return out
}

// Lookup returns the canonical tag for name.
func (r *Registry) Lookup(name string) (*Tag, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Owns reports whether t is the registry's canonical instance, by identity.
func (r *Registry) Owns(t *Tag) bool {
	c, ok := r.byName[t.name]
	return ok && c == t
}

// Contains reports whether a tag named like t is registered.
func (r *Registry) Contains(t *Tag) bool {
	_, ok := r.byName[t.name]
	return ok
}

// Len returns the number of canonical tags.
func (r *Registry) Len() int {
	return len(r.order)
}

// Tags returns the canonical tags sorted by name.
func (r *Registry) Tags() Set {
	out := append(make(Set, 0, len(r.order)), r.order...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Reset replaces the registry content with the given canonical tags.
func (r *Registry) Reset(tags Set) {
	r.byName = make(map[string]*Tag, len(tags))
	r.order = r.order[:0]
	for _, t := range tags {
		if _, ok := r.byName[t.name]; ok {
			continue
		}
		r.byName[t.name] = t
		r.order = append(r.order, t)
	}
}
