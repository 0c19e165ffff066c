package search

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		name  string
		s     []float64
		value float64
		want  int
	}{
		{"between elements", []float64{1, 2, 3, 4, 6, 8, 10}, 7, 5},
		{"below first", []float64{1, 5.5, 11, 19.3}, 0, 0},
		{"above last", []float64{1, 5.5, 11, 19.3}, 20, 4},
		{"inside", []float64{1, 5.5, 11, 19.3}, 10, 2},
		{"exact hit", []float64{1, 5.5, 11, 19.3}, 11, 2},
		{"empty", nil, 42, 0},
		{"single equal", []float64{5}, 5, 0},
		{"single below", []float64{5}, 4, 0},
		{"single above", []float64{5}, 6, 1},
		{"duplicates leftmost", []float64{1, 3, 3, 3, 5}, 3, 1},
		{"all equal", []float64{2, 2, 2, 2}, 2, 0},
		{"negative infinity", []float64{-1, 0, 1}, math.Inf(-1), 0},
		{"positive infinity", []float64{-1, 0, 1}, math.Inf(1), 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Search[float64](Slice[float64](tc.s), tc.value))
			assert.Equal(t, tc.want, SearchSlice(tc.s, tc.value))
		})
	}
}

func TestSearch_Ints(t *testing.T) {
	v := Slice[int]{1, 2, 3, 4, 6, 8, 10}
	assert.Equal(t, 5, Search[int](v, 7))
	assert.Equal(t, 0, Search[int](v, -3))
	assert.Equal(t, 7, Search[int](v, 11))
}

func TestSearch_BisectLeftTargets(t *testing.T) {
	s := []float64{1, 5.5, 11, 19.3}
	targets := []float64{0, 4, 11, 19, 20}

	for i, target := range targets {
		want := sort.SearchFloat64s(s, target)
		assert.Equal(t, want, SearchSlice(s, target), "target #%d", i)
		assert.Equal(t, i, SearchSlice(s, target))
	}
}

func TestSearch_NaN(t *testing.T) {
	s := []float64{1, 2, 3}

	// NaN never satisfies <=, so every probe goes right.
	assert.Equal(t, 3, SearchSlice(s, math.NaN()))

	// A NaN probe also sends the search right, past smaller entries.
	withNaN := []float64{1, math.NaN(), 3}
	assert.Equal(t, 2, SearchSlice(withNaN, 0))
	assert.Equal(t, 2, SearchSlice(withNaN, 2))
	assert.Equal(t, 3, SearchSlice(withNaN, 4))
}

func TestSearchRange(t *testing.T) {
	v := Slice[float64]{1, 3, 3, 3, 5, 7, 9}

	t.Run("window", func(t *testing.T) {
		assert.Equal(t, 4, SearchRange[float64](v, 4, 2, 5))
		assert.Equal(t, 2, SearchRange[float64](v, 3, 2, 5))
	})

	t.Run("empty window returns low", func(t *testing.T) {
		assert.Equal(t, 5, SearchRange[float64](v, 100, 5, 4))
		assert.Equal(t, 100, SearchRange[float64](v, 1, 100, 2))
	})

	t.Run("negative low", func(t *testing.T) {
		assert.Equal(t, 1, SearchRange[float64](v, 2, -10, 6))
	})

	t.Run("high past end", func(t *testing.T) {
		assert.Equal(t, 7, SearchRange[float64](v, 100, 0, 1000))
		assert.Equal(t, 0, SearchRange[float64](v, 0, 0, 1000))
	})

	t.Run("empty view", func(t *testing.T) {
		assert.Equal(t, 0, SearchRange[float64](Slice[float64]{}, 1, 0, 10))
	})
}

func TestSearchEach(t *testing.T) {
	source := Slice[float64]{1, 3, 3, 3, 5}
	targets := Slice[float64]{3, 0, 6}
	out := make([]uint64, targets.Len())

	SearchEach[float64](source, targets, out)
	assert.Equal(t, []uint64{1, 0, 5}, out)

	// Non-slice source takes the generic path.
	out2 := make([]uint64, targets.Len())
	SearchEach[float64](reversed{5, 3, 3, 3, 1}, targets, out2)
	assert.Equal(t, out, out2)
}

func TestSearch_MatchesStdlib(t *testing.T) {
	s := make([]float64, 0, 512)
	for i := 0; i < 256; i++ {
		s = append(s, float64(i/3), float64(i/3)+0.5)
	}
	sort.Float64s(s)

	for q := -2.0; q < 90; q += 0.25 {
		require.Equal(t, sort.SearchFloat64s(s, q), SearchSlice(s, q), "query %v", q)
	}
}

func FuzzSearch(f *testing.F) {
	f.Add(3.0, 1.0, 2.0, 3.0)
	f.Add(0.0, 0.0, 0.0, 0.0)
	f.Add(-1.0, 5.0, 1.0, 2.0)

	f.Fuzz(func(t *testing.T, value, a, b, c float64) {
		s := []float64{a, b, c}
		for _, x := range append(s, value) {
			if math.IsNaN(x) {
				t.Skip()
			}
		}
		sort.Float64s(s)

		got := SearchSlice(s, value)
		require.Equal(t, sort.SearchFloat64s(s, value), got)
		require.GreaterOrEqual(t, got, 0)
		require.LessOrEqual(t, got, len(s))
	})
}

// reversed views a descending slice in ascending order.
type reversed []float64

func (r reversed) Len() int         { return len(r) }
func (r reversed) At(i int) float64 { return r[len(r)-1-i] }
