// Package mem provides memory allocation utilities.
package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of buffers returned by this package (64 bytes,
// one cache line).
const Alignment = 64

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	// Allocate size + alignment to ensure we can find an aligned offset
	totalSize := size + Alignment
	buf := make([]byte, totalSize)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size)]
}

// AllocAlignedFloat64 allocates a float64 slice of the given length with 64-byte alignment.
func AllocAlignedFloat64(n int) []float64 {
	if n <= 0 {
		return nil
	}

	byteSlice := AllocAligned(n * 8)

	// 64-byte alignment implies the 8-byte alignment float64 needs.
	ptr := unsafe.Pointer(&byteSlice[0])    //nolint:gosec // unsafe is required for memory alignment
	return unsafe.Slice((*float64)(ptr), n) //nolint:gosec // unsafe is required for memory alignment
}

// Float64sAsBytes reinterprets s as its underlying bytes without copying.
func Float64sAsBytes(s []float64) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8) //nolint:gosec // zero-copy view
}

// BytesAsFloat64s reinterprets b as float64 values without copying.
// It reports false when b is not 8-byte aligned or its length is not a
// multiple of 8.
func BytesAsFloat64s(b []byte) ([]float64, bool) {
	if len(b) == 0 {
		return nil, true
	}
	if len(b)%8 != 0 {
		return nil, false
	}
	ptr := unsafe.Pointer(&b[0]) //nolint:gosec // zero-copy view
	if uintptr(ptr)%8 != 0 {
		return nil, false
	}
	return unsafe.Slice((*float64)(ptr), len(b)/8), true //nolint:gosec // zero-copy view
}
