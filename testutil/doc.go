// Package testutil provides testing utilities for bisect.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random sorted sequences and query
// targets, and a reference lower-bound oracle built on the standard library.
//
// # Random Data Generation
//
//	rng := testutil.NewRNG(seed)
//	source := rng.SortedFloat64s(1000, -1, 1)   // ascending, uniform
//	dups := rng.SortedWithDuplicates(1000, 10)  // ascending, many ties
//	targets := rng.Float64s(500, -2, 2)         // unsorted queries
//
// # Ground Truth
//
//	want := testutil.LowerBounds(source, targets)
package testutil
