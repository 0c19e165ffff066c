package bisect

import (
	"context"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hupe1980/bisect/buffer"
	"github.com/hupe1980/bisect/internal/batch"
	"github.com/hupe1980/bisect/internal/conv"
	"github.com/hupe1980/bisect/internal/resource"
	"github.com/hupe1980/bisect/internal/search"
)

// Buffer representations, used as the "representation" log field.
const (
	reprSlice = "slice"
	reprDense = "dense"
	reprArrow = "arrow"
)

// Searcher runs bisection queries with a fixed configuration.
//
// A Searcher holds no per-call state and is safe for concurrent use. All
// inputs are borrowed for the duration of a call and never modified.
type Searcher struct {
	logger    *Logger
	metrics   MetricsCollector
	driver    *batch.Driver
	resources *resource.Controller
	allocator memory.Allocator
}

// New creates a Searcher.
func New(optFns ...Option) *Searcher {
	o := applyOptions(optFns)

	return &Searcher{
		logger:  o.logger,
		metrics: o.metricsCollector,
		driver: batch.New(batch.Options{
			Parallelism:  o.parallelism,
			MinChunkSize: o.minChunkSize,
			Pool:         o.pool,
		}),
		resources: resource.NewController(resource.Config{
			MemoryLimitBytes:     o.memoryLimit,
			MaxConcurrentBatches: o.maxConcurrentBatches,
		}),
		allocator: o.allocator,
	}
}

var defaultSearcher = New()

// Bisect returns the lower-bound insertion index of value in the ascending
// sequence seq, using the default Searcher.
func Bisect(seq []float64, value float64) uint64 {
	return defaultSearcher.Bisect(seq, value)
}

// BisectArray is Bisect over a dense, possibly strided buffer.
func BisectArray(buf *buffer.Dense, value float64) (uint64, error) {
	return defaultSearcher.BisectArray(buf, value)
}

// BisectColumn is Bisect over an Arrow Float64 column.
func BisectColumn(col arrow.Array, value float64) (uint64, error) {
	return defaultSearcher.BisectColumn(col, value)
}

// BisectBatch searches every target in source, preserving target order.
func BisectBatch(ctx context.Context, source, targets []float64) ([]uint64, error) {
	return defaultSearcher.BisectBatch(ctx, source, targets)
}

// BisectBatchArrays is BisectBatch over dense buffers.
func BisectBatchArrays(ctx context.Context, source, targets *buffer.Dense) ([]uint64, error) {
	return defaultSearcher.BisectBatchArrays(ctx, source, targets)
}

// BisectBatchColumns is BisectBatch over Arrow Float64 columns, returning an
// Arrow uint64 column the caller must Release.
func BisectBatchColumns(ctx context.Context, source, targets arrow.Array) (*array.Uint64, error) {
	return defaultSearcher.BisectBatchColumns(ctx, source, targets)
}

// Bisect returns the smallest index i with seq[i] >= value, or len(seq).
// Among duplicates the leftmost index is returned. seq must be ascending;
// this is not checked.
func (s *Searcher) Bisect(seq []float64, value float64) uint64 {
	start := time.Now()
	idx := uint64(search.SearchSlice(seq, value))

	s.metrics.RecordSearch(time.Since(start), nil)
	s.logger.LogSearch(context.Background(), reprSlice, len(seq), idx, nil)

	return idx
}

// BisectArray searches a dense buffer flattened in row-major order.
//
// Contiguous native-order data is searched in place; other layouts are
// copied once. A non-float64 buffer fails with *ErrTypeMismatch.
func (s *Searcher) BisectArray(buf *buffer.Dense, value float64) (uint64, error) {
	start := time.Now()
	values, err := denseValues(buf)
	return s.searchOne(reprDense, values, value, start, err)
}

// BisectColumn searches the raw values of an Arrow Float64 column without
// copying. Null slots are searched as whatever value they hold. Any other
// column type fails with *ErrTypeMismatch.
func (s *Searcher) BisectColumn(col arrow.Array, value float64) (uint64, error) {
	start := time.Now()
	values, err := buffer.FromArrow(col)
	return s.searchOne(reprArrow, values, value, start, err)
}

func (s *Searcher) searchOne(repr string, values buffer.Float64s, value float64, start time.Time, err error) (uint64, error) {
	var idx uint64
	if err != nil {
		err = translateError(err)
	} else {
		idx = uint64(search.SearchSlice(values, value))
	}

	s.metrics.RecordSearch(time.Since(start), err)
	s.logger.LogSearch(context.Background(), repr, len(values), idx, err)

	return idx, err
}

// BisectBatch returns a new slice whose k-th element is the lower-bound
// index of targets[k] in source.
func (s *Searcher) BisectBatch(ctx context.Context, source, targets []float64) ([]uint64, error) {
	start := time.Now()
	out, err := s.batchSlices(ctx, source, targets)
	s.finishBatch(ctx, reprSlice, len(source), len(targets), start, err)
	return out, err
}

// BisectBatchArrays is BisectBatch over dense buffers. Both buffers are
// adapted before any search runs.
func (s *Searcher) BisectBatchArrays(ctx context.Context, source, targets *buffer.Dense) ([]uint64, error) {
	start := time.Now()

	src, err := denseValues(source)
	if err != nil {
		err = translateError(err)
		s.finishBatch(ctx, reprDense, 0, 0, start, err)
		return nil, err
	}
	tgt, err := denseValues(targets)
	if err != nil {
		err = translateError(err)
		s.finishBatch(ctx, reprDense, len(src), 0, start, err)
		return nil, err
	}

	out, err := s.batchSlices(ctx, src, tgt)
	s.finishBatch(ctx, reprDense, len(src), len(tgt), start, err)
	return out, err
}

// BisectBatchColumns is BisectBatch over Arrow Float64 columns.
//
// The result is a uint64 column with no nulls, allocated from the
// Searcher's allocator; the caller owns it and must Release it.
func (s *Searcher) BisectBatchColumns(ctx context.Context, source, targets arrow.Array) (*array.Uint64, error) {
	start := time.Now()

	src, err := buffer.FromArrow(source)
	if err != nil {
		err = translateError(err)
		s.finishBatch(ctx, reprArrow, 0, 0, start, err)
		return nil, err
	}
	tgt, err := buffer.FromArrow(targets)
	if err != nil {
		err = translateError(err)
		s.finishBatch(ctx, reprArrow, len(src), 0, start, err)
		return nil, err
	}

	release, err := s.reserve(ctx, len(tgt))
	if err != nil {
		s.finishBatch(ctx, reprArrow, len(src), len(tgt), start, err)
		return nil, err
	}
	defer release()

	col, err := buffer.NewUint64Column(s.allocator, len(tgt), func(out []uint64) error {
		return s.driver.Run(ctx, search.Slice[float64](src), search.Slice[float64](tgt), out)
	})
	err = translateError(err)

	s.finishBatch(ctx, reprArrow, len(src), len(tgt), start, err)
	return col, err
}

func (s *Searcher) batchSlices(ctx context.Context, source, targets []float64) ([]uint64, error) {
	release, err := s.reserve(ctx, len(targets))
	if err != nil {
		return nil, err
	}
	defer release()

	out := make([]uint64, len(targets))
	if err := s.driver.Run(ctx, search.Slice[float64](source), search.Slice[float64](targets), out); err != nil {
		return nil, err
	}

	return out, nil
}

// reserve takes a batch slot and accounts for an n-element result buffer.
func (s *Searcher) reserve(ctx context.Context, n int) (func(), error) {
	if err := s.resources.AcquireBatch(ctx); err != nil {
		return nil, err
	}

	size := conv.IntToInt64(arrow.Uint64Traits.BytesRequired(n))
	if err := s.resources.AcquireMemory(size); err != nil {
		s.resources.ReleaseBatch()
		return nil, translateError(err)
	}

	return func() {
		s.resources.ReleaseMemory(size)
		s.resources.ReleaseBatch()
	}, nil
}

func (s *Searcher) finishBatch(ctx context.Context, repr string, sources, targets int, start time.Time, err error) {
	s.metrics.RecordBatch(targets, time.Since(start), err)
	s.logger.LogBatch(ctx, repr, sources, targets, err)
}

func denseValues(buf *buffer.Dense) (buffer.Float64s, error) {
	if buf == nil {
		return nil, &buffer.ErrTypeMismatch{Expected: "float64", Actual: "nil"}
	}
	return buf.Values()
}
