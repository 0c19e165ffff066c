// Package search implements the lower-bound bisection kernel.
//
// The kernel works on any randomly indexable, length-known, read-only
// sequence (View). Callers assert that the sequence is non-decreasing; the
// order is never verified and an unsorted view yields a defined but
// meaningless index rather than an error.
//
// Among equal entries the leftmost index is returned:
//
//	search.Search(search.Slice[float64]{1, 3, 3, 3, 5}, 3) // 1
//
// NaN compares false against everything, so a NaN query or NaN entries push
// the search towards the upper half.
package search
