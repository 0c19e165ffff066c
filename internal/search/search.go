package search

import "cmp"

// Search returns the lower-bound insertion index of value in v.
//
// The result is the smallest i with v.At(i) >= value, or v.Len() when no
// such index exists. An empty view always yields 0.
func Search[T cmp.Ordered](v View[T], value T) int {
	return SearchRange(v, value, 0, v.Len()-1)
}

// SearchRange bisects the inclusive window [low, high] of v.
//
// Bounds are never rejected: a negative low is treated as 0 and high is
// clamped to v.Len()-1. When low > high the window is empty and low is
// returned unchanged.
func SearchRange[T cmp.Ordered](v View[T], value T, low, high int) int {
	if low < 0 {
		low = 0
	}
	if n := v.Len(); high >= n {
		high = n - 1
	}

	for low <= high {
		mid := (low + high) / 2
		if value <= v.At(mid) {
			// low is 0 here; stepping below index 0 is not representable.
			if mid == 0 {
				return 0
			}
			high = mid - 1
		} else {
			low = mid + 1
		}
	}

	return low
}

// SearchSlice is Search specialised for plain slices. It avoids the
// interface dispatch of View and returns identical results.
func SearchSlice[T cmp.Ordered](s []T, value T) int {
	low, high := 0, len(s)-1

	for low <= high {
		mid := (low + high) / 2
		if value <= s[mid] {
			if mid == 0 {
				return 0
			}
			high = mid - 1
		} else {
			low = mid + 1
		}
	}

	return low
}

// SearchEach writes Search(source, targets.At(k)) to out[k] for every k.
//
// out must have at least targets.Len() elements.
func SearchEach[T cmp.Ordered](source, targets View[T], out []uint64) {
	n := targets.Len()
	_ = out[:n]

	if s, ok := source.(Slice[T]); ok {
		for k := 0; k < n; k++ {
			out[k] = uint64(SearchSlice([]T(s), targets.At(k)))
		}
		return
	}

	for k := 0; k < n; k++ {
		out[k] = uint64(Search(source, targets.At(k)))
	}
}
