// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package set provides a minimal generic set, trimmed to the
// operations the pass actually needs. It backs the visited-id tracking
// of the topological traversal.
package set

import "golang.org/x/exp/maps"

const minSetSize = 16

// Set is a set of comparable elements backed by a map.
type Set[T comparable] map[T]struct{}

// Of returns a Set initialized with elts.
func Of[T comparable](elts ...T) Set[T] {
	s := New[T](len(elts))
	s.Add(elts...)
	return s
}

// New returns a new set with initial capacity size.
func New[T comparable](size int) Set[T] {
	if size < 0 {
		return Set[T]{}
	}
	return make(map[T]struct{}, size)
}

func (s *Set[T]) resize(size int) {
	if *s == nil {
		if minSetSize > size {
			size = minSetSize
		}
		*s = make(map[T]struct{}, size)
	}
}

// Add inserts all of elts; duplicates are no-ops.
func (s *Set[T]) Add(elts ...T) {
	s.resize(2 * len(elts))
	for _, elt := range elts {
		(*s)[elt] = struct{}{}
	}
}

// Contains reports whether elt is in the set.
func (s Set[T]) Contains(elt T) bool {
	_, ok := s[elt]
	return ok
}

// Len returns the number of elements in the set.
func (s Set[T]) Len() int { return len(s) }

// Remove deletes elts from the set; absent elements are no-ops.
func (s *Set[T]) Remove(elts ...T) {
	for _, elt := range elts {
		delete(*s, elt)
	}
}

// List returns the set's elements in unspecified order.
func (s Set[T]) List() []T {
	return maps.Keys(s)
}
