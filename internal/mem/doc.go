// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides 64-byte aligned allocation for buffers materialized from strided
// input (cache-line friendly for the bisection probes).
//
// # Zero-copy Reinterpretation
//
// Float64sAsBytes and BytesAsFloat64s convert between raw byte buffers and
// float64 slices without copying. The result aliases the input memory.
package mem
