package store

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Store is the set of broadcast values a node knows about. It only grows.
// Store is not safe for concurrent use; a node owns it from its dispatch loop.
type Store struct {
	values mapset.Set[int64]
}

func New() *Store {
	return &Store{values: mapset.NewThreadUnsafeSet[int64]()}
}

// Add inserts v and reports whether it was new.
func (s *Store) Add(v int64) bool {
	return s.values.Add(v)
}

// Merge inserts every value in vs and returns how many were new.
func (s *Store) Merge(vs []int64) int {
	added := 0
	for _, v := range vs {
		if s.values.Add(v) {
			added++
		}
	}
	return added
}

func (s *Store) Contains(v int64) bool {
	return s.values.Contains(v)
}

func (s *Store) Len() int {
	return s.values.Cardinality()
}

// Snapshot returns the values in ascending order. The result is never nil so
// that it encodes as a JSON array.
func (s *Store) Snapshot() []int64 {
	out := make([]int64, 0, s.values.Cardinality())
	s.values.Each(func(v int64) bool {
		out = append(out, v)
		return false
	})
	slices.Sort(out)
	return out
}
