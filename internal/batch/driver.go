package batch

import (
	"context"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/bisect/internal/search"
)

// DefaultMinChunkSize is the smallest number of targets handed to one worker.
// Batches at or below this size run on the calling goroutine.
const DefaultMinChunkSize = 4096

// Options configures a Driver.
type Options struct {
	// Parallelism is the maximum number of chunks evaluated at once.
	// If <= 0, runtime.GOMAXPROCS(0) is used.
	Parallelism int

	// MinChunkSize is the minimum number of targets per chunk.
	// If <= 0, DefaultMinChunkSize is used.
	MinChunkSize int

	// Pool, if set, executes chunks instead of per-call goroutines.
	// The pool is owned by the caller and never released by the driver.
	Pool *ants.Pool
}

// Driver evaluates batch queries.
// A Driver is immutable after construction and safe for concurrent use.
type Driver struct {
	parallelism  int
	minChunkSize int
	pool         *ants.Pool
}

// New creates a Driver.
func New(opts Options) *Driver {
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.GOMAXPROCS(0)
	}
	if opts.MinChunkSize <= 0 {
		opts.MinChunkSize = DefaultMinChunkSize
	}

	return &Driver{
		parallelism:  opts.Parallelism,
		minChunkSize: opts.MinChunkSize,
		pool:         opts.Pool,
	}
}

// Run stores the lower-bound index of targets.At(k) in source at out[k].
//
// out must hold at least targets.Len() elements. The context is only
// consulted while chunks are scheduled; a chunk that started always runs to
// completion.
func (d *Driver) Run(ctx context.Context, source, targets search.View[float64], out []uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n := targets.Len()
	out = out[:n]

	chunks := d.chunks(n)
	if len(chunks) <= 1 {
		search.SearchEach(source, targets, out)
		return nil
	}

	if d.pool != nil {
		return d.runPool(ctx, source, targets, out, chunks)
	}

	return d.runGroup(ctx, source, targets, out, chunks)
}

func (d *Driver) runGroup(ctx context.Context, source, targets search.View[float64], out []uint64, chunks []span) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.parallelism)

	for _, c := range chunks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			search.SearchEach(source, window(targets, c), out[c.lo:c.hi])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

func (d *Driver) runPool(ctx context.Context, source, targets search.View[float64], out []uint64, chunks []span) error {
	var wg sync.WaitGroup

	for _, c := range chunks {
		if ctx.Err() != nil {
			break
		}

		task := func() {
			search.SearchEach(source, window(targets, c), out[c.lo:c.hi])
		}

		wg.Add(1)
		if err := d.pool.Submit(func() {
			defer wg.Done()
			task()
		}); err != nil {
			// Closed or overloaded pool: the chunk still has to be computed.
			task()
			wg.Done()
		}
	}

	wg.Wait()

	return ctx.Err()
}

type span struct {
	lo, hi int
}

// chunks splits [0, n) into at most parallelism contiguous spans of at
// least minChunkSize elements each.
func (d *Driver) chunks(n int) []span {
	if n == 0 {
		return nil
	}
	if n <= d.minChunkSize || d.parallelism == 1 {
		return []span{{0, n}}
	}

	size := (n + d.parallelism - 1) / d.parallelism
	if size < d.minChunkSize {
		size = d.minChunkSize
	}

	spans := make([]span, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		spans = append(spans, span{lo: lo, hi: min(lo+size, n)})
	}

	return spans
}

// window returns the targets in [c.lo, c.hi) without copying.
func window(v search.View[float64], c span) search.View[float64] {
	if s, ok := v.(search.Slice[float64]); ok {
		return s[c.lo:c.hi]
	}
	return offsetView{v: v, off: c.lo, n: c.hi - c.lo}
}

type offsetView struct {
	v   search.View[float64]
	off int
	n   int
}

func (o offsetView) Len() int         { return o.n }
func (o offsetView) At(i int) float64 { return o.v.At(o.off + i) }
