package search

import "cmp"

// View is a read-only, randomly indexable sequence of ordered values.
type View[T cmp.Ordered] interface {
	// Len returns the number of elements.
	Len() int
	// At returns the element at index i. i is always in [0, Len()).
	At(i int) T
}

// Slice adapts a Go slice to View without copying.
type Slice[T cmp.Ordered] []T

// Len implements View.
func (s Slice[T]) Len() int { return len(s) }

// At implements View.
func (s Slice[T]) At(i int) T { return s[i] }
