package bisect

import (
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/panjf2000/ants/v2"
)

type options struct {
	metricsCollector     MetricsCollector
	logger               *Logger
	parallelism          int
	minChunkSize         int
	pool                 *ants.Pool
	memoryLimit          int64
	maxConcurrentBatches int64
	allocator            memory.Allocator
}

// Option configures a Searcher.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &bisect.BasicMetricsCollector{}
//	s := bisect.New(bisect.WithMetricsCollector(metrics))
//	// ... use s ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := bisect.NewJSONLogger(os.Stderr, slog.LevelInfo)
//	s := bisect.New(bisect.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel logs text records at or above level to stderr.
// Shorthand for WithLogger(NewTextLogger(nil, level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(nil, level)
	}
}

// WithParallelism sets the maximum number of target chunks a batch call
// evaluates at once. If n <= 0, runtime.GOMAXPROCS(0) is used.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithMinChunkSize sets the minimum number of targets handed to one worker.
// Batches no larger than this run on the calling goroutine.
func WithMinChunkSize(n int) Option {
	return func(o *options) {
		o.minChunkSize = n
	}
}

// WithWorkerPool runs batch chunks on a shared ants pool instead of
// per-call goroutines. The pool stays owned by the caller.
//
//	pool, _ := ants.NewPool(runtime.NumCPU())
//	defer pool.Release()
//	s := bisect.New(bisect.WithWorkerPool(pool))
func WithWorkerPool(pool *ants.Pool) Option {
	return func(o *options) {
		o.pool = pool
	}
}

// WithMemoryLimit bounds the bytes of batch result buffers being filled at
// the same time across all calls on the Searcher. A call that would exceed
// the limit fails with ErrAllocationFailure. 0 means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithMaxConcurrentBatches bounds how many batch calls compute at once.
// Further calls wait for a slot or for their context to end. 0 means unlimited.
func WithMaxConcurrentBatches(n int64) Option {
	return func(o *options) {
		o.maxConcurrentBatches = n
	}
}

// WithAllocator sets the Arrow allocator used for uint64 result columns.
// If nil, memory.DefaultAllocator is used.
func WithAllocator(alloc memory.Allocator) Option {
	return func(o *options) {
		o.allocator = alloc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		allocator:        memory.DefaultAllocator,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.allocator == nil {
		o.allocator = memory.DefaultAllocator
	}
	return o
}
