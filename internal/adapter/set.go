package adapter

import "slices"

// Set is an insertion-ordered set of identifiers.
// The zero value is an empty set ready to use.
type Set struct {
	order []string
	seen  map[string]struct{}
}

// NewSet returns a set holding ids, in first-seen order.
func NewSet(ids ...string) *Set {
	s := &Set{}
	s.Add(ids...)
	return s
}

// Add inserts ids. Identifiers already present are ignored.
func (s *Set) Add(ids ...string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{}, len(ids))
	}
	for _, id := range ids {
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.order = append(s.order, id)
	}
}

// Has reports whether id is in the set.
func (s *Set) Has(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// Len returns the number of identifiers.
func (s *Set) Len() int {
	return len(s.order)
}

// Slice returns a copy of the identifiers in insertion order.
// An empty set yields an empty, non-nil slice.
func (s *Set) Slice() []string {
	if len(s.order) == 0 {
		return []string{}
	}
	return slices.Clone(s.order)
}
