// Package buffer adapts external numeric buffers to the read-only float64
// view consumed by the bisection kernel.
//
// Three representations are supported:
//
//   - Float64s: an owned []float64, used directly.
//   - Dense: a strided, possibly multi-dimensional buffer described by dtype,
//     byte order, shape and byte strides (the layout used by numpy and the
//     Python buffer protocol). Contiguous native-order float64 data is viewed
//     in place; any other layout is materialized once in row-major order.
//     FromVector and FromMatrix wrap gonum storage the same way.
//   - Arrow: a Float64 Arrow column. The values buffer is used in place, the
//     validity bitmap is ignored, so null slots expose whatever bits they hold.
//
// Adapters never modify the memory they view. A buffer whose element type is
// not float64 is rejected with *ErrTypeMismatch before any search runs.
//
// NewUint64Column builds an Arrow uint64 column for batch results directly in
// allocator-owned memory.
package buffer
