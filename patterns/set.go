package patterns

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// orderedSet deduplicates by identity and remembers insertion order, so a
// fan-out visits members in a stable order for a given registration history.
type orderedSet[T comparable] struct {
	members mapset.Set[T]
	order   []T
}

func newOrderedSet[T comparable]() *orderedSet[T] {
	return &orderedSet[T]{
		members: mapset.NewThreadUnsafeSet[T](),
	}
}

func (s *orderedSet[T]) add(v T) bool {
	if !s.members.Add(v) {
		return false
	}
	s.order = append(s.order, v)
	return true
}

func (s *orderedSet[T]) remove(v T) bool {
	if !s.members.Contains(v) {
		return false
	}
	s.members.Remove(v)
	if i := slices.Index(s.order, v); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return true
}

func (s *orderedSet[T]) contains(v T) bool {
	return s.members.Contains(v)
}

func (s *orderedSet[T]) len() int {
	return len(s.order)
}

// snapshot copies the members so callers can mutate the set while iterating.
func (s *orderedSet[T]) snapshot() []T {
	return slices.Clone(s.order)
}

func (s *orderedSet[T]) clear() {
	s.members.Clear()
	s.order = s.order[:0]
}
