// Package intset is a thin, deterministic wrapper around
// github.com/spjmurray/go-util/pkg/set specialised to int, used everywhere
// spec.md speaks of a "set of variables" or "set of vertices". The
// original's C++ ancestor represents these as std::set<Int>, whose
// iteration order is ascending by value; several operations (join-tree
// text dumps, the HIGHEST_NODE heuristic's "in set iteration order" rule)
// depend on that. Go's map-backed set has no iteration order guarantee, so
// this package always hands out a sorted slice rather than exposing
// range-over-func iteration directly.
package intset

import (
	"sort"

	"github.com/spjmurray/go-util/pkg/set"
)

// Set is a set of ints with deterministic, ascending iteration.
type Set struct {
	inner set.Set[int]
}

// New returns an empty Set, optionally seeded with vs.
func New(vs ...int) *Set {
	s := &Set{inner: set.New[int]()}
	for _, v := range vs {
		s.inner.Add(v)
	}
	return s
}

// Add inserts v.
func (s *Set) Add(v int) {
	s.inner.Add(v)
}

// Delete removes v.
func (s *Set) Delete(v int) {
	s.inner.Delete(v)
}

// Contains reports whether v is a member.
func (s *Set) Contains(v int) bool {
	return s.inner.Contains(v)
}

// Len returns the number of members.
func (s *Set) Len() int {
	return s.inner.Len()
}

// Sorted returns the members in ascending order.
func (s *Set) Sorted() []int {
	out := make([]int, 0, s.inner.Len())
	for v := range s.inner.All() {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Union returns a new Set containing every member of every set in sets.
func Union(sets ...*Set) *Set {
	out := New()
	for _, s := range sets {
		for v := range s.inner.All() {
			out.Add(v)
		}
	}
	return out
}

// Diff returns a new Set containing the members of a not in b.
func Diff(a, b *Set) *Set {
	out := New()
	for v := range a.inner.All() {
		if !b.Contains(v) {
			out.Add(v)
		}
	}
	return out
}

// IsDisjoint reports whether a and b share no member.
func IsDisjoint(a, b *Set) bool {
	small, large := a, b
	if b.Len() < a.Len() {
		small, large = b, a
	}
	for v := range small.inner.All() {
		if large.Contains(v) {
			return false
		}
	}
	return true
}
