package batch

import (
	"context"
	"sort"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bisect/internal/search"
	"github.com/hupe1980/bisect/testutil"
)

func TestDriver_Small(t *testing.T) {
	d := New(Options{})

	source := search.Slice[float64]{1, 3, 3, 3, 5}
	targets := search.Slice[float64]{3, 0, 6}
	out := make([]uint64, targets.Len())

	require.NoError(t, d.Run(context.Background(), source, targets, out))
	assert.Equal(t, []uint64{1, 0, 5}, out)
}

func TestDriver_Empty(t *testing.T) {
	d := New(Options{})

	out := []uint64{}
	require.NoError(t, d.Run(context.Background(), search.Slice[float64]{1, 2}, search.Slice[float64]{}, out))
	assert.Empty(t, out)

	out = make([]uint64, 2)
	require.NoError(t, d.Run(context.Background(), search.Slice[float64]{}, search.Slice[float64]{-1, 1}, out))
	assert.Equal(t, []uint64{0, 0}, out)
}

func TestDriver_ParallelMatchesSequential(t *testing.T) {
	rng := testutil.NewRNG(4711)
	source := rng.SortedFloat64s(10_000, -100, 100)
	targets := rng.Float64s(25_000, -120, 120)

	want := make([]uint64, len(targets))
	for k, v := range targets {
		want[k] = uint64(sort.SearchFloat64s(source, v))
	}

	pool, err := ants.NewPool(3)
	require.NoError(t, err)
	defer pool.Release()

	drivers := map[string]*Driver{
		"errgroup":   New(Options{Parallelism: 4, MinChunkSize: 100}),
		"pool":       New(Options{Parallelism: 4, MinChunkSize: 100, Pool: pool}),
		"sequential": New(Options{Parallelism: 1}),
	}

	for name, d := range drivers {
		t.Run(name, func(t *testing.T) {
			out := make([]uint64, len(targets))
			require.NoError(t, d.Run(context.Background(), search.Slice[float64](source), search.Slice[float64](targets), out))
			assert.Equal(t, want, out)
		})
	}
}

func TestDriver_NonSliceTargets(t *testing.T) {
	source := search.Slice[float64]{0, 10, 20, 30}
	targets := constant{n: 1000, v: 15}
	out := make([]uint64, targets.Len())

	d := New(Options{Parallelism: 8, MinChunkSize: 10})
	require.NoError(t, d.Run(context.Background(), source, targets, out))

	for _, got := range out {
		assert.Equal(t, uint64(2), got)
	}
}

func TestDriver_ReleasedPoolFallsBackInline(t *testing.T) {
	pool, err := ants.NewPool(2)
	require.NoError(t, err)
	pool.Release()

	d := New(Options{Parallelism: 4, MinChunkSize: 1, Pool: pool})

	source := search.Slice[float64]{1, 2, 3}
	targets := search.Slice[float64]{3, 2, 1, 0, 4}
	out := make([]uint64, targets.Len())

	require.NoError(t, d.Run(context.Background(), source, targets, out))
	assert.Equal(t, []uint64{2, 1, 0, 0, 3}, out)
}

func TestDriver_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make([]uint64, 1)
	err := New(Options{}).Run(ctx, search.Slice[float64]{1}, search.Slice[float64]{1}, out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDriver_Chunks(t *testing.T) {
	d := New(Options{Parallelism: 4, MinChunkSize: 10})

	assert.Nil(t, d.chunks(0))
	assert.Equal(t, []span{{0, 10}}, d.chunks(10))
	assert.Equal(t, []span{{0, 10}, {10, 15}}, d.chunks(15))
	assert.Equal(t, []span{{0, 25}, {25, 50}, {50, 75}, {75, 100}}, d.chunks(100))
	assert.Equal(t, []span{{0, 26}, {26, 52}, {52, 78}, {78, 101}}, d.chunks(101))

	seq := New(Options{Parallelism: 1, MinChunkSize: 1})
	assert.Equal(t, []span{{0, 100}}, seq.chunks(100))
	assert.Equal(t, 1, seq.parallelism)
}

type constant struct {
	n int
	v float64
}

func (c constant) Len() int       { return c.n }
func (c constant) At(int) float64 { return c.v }
