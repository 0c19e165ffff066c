// Package bisect provides lower-bound insertion-point search over sorted
// float64 buffers.
//
// Given an ascending sequence and a query value, bisect returns the index at
// which the value would be inserted to keep the sequence sorted. Among equal
// entries the leftmost position is returned, so the result is the smallest i
// with s[i] >= value, or len(s) when every element is smaller.
//
// # Quick Start
//
//	idx := bisect.Bisect([]float64{1, 2, 3, 4, 6, 8, 10}, 7) // 5
//
// # Buffer Representations
//
// The same search runs over three physical representations without copying
// contiguous data:
//
//	bisect.Bisect(values, v)                       // owned []float64
//	bisect.BisectArray(buffer.NewDense(values), v) // strided / n-dimensional
//	bisect.BisectColumn(float64Column, v)          // Arrow Float64 column
//
// Non-float64 buffers fail with *ErrTypeMismatch before any search runs.
//
// # Batch Queries
//
// Many targets are searched against one source in a single call. The result
// preserves target order and is computed in parallel for large batches:
//
//	idx, _ := bisect.BisectBatchColumns(ctx, source, targets) // *array.Uint64
//	defer idx.Release()
//
// # Configuration
//
// Package-level functions use a default Searcher. Use New with options for
// logging, metrics, parallelism and allocation limits:
//
//	s := bisect.New(
//	    bisect.WithLogger(bisect.NewJSONLogger(os.Stderr, slog.LevelDebug)),
//	    bisect.WithParallelism(4),
//	    bisect.WithMemoryLimit(64 << 20),
//	)
//
// # Preconditions
//
// Sortedness is asserted by the caller and never checked. An unsorted input
// yields a defined but meaningless index, not an error. NaN compares false
// against everything, which biases the search towards the end.
package bisect
