package testutil

import (
	"math/rand"
	"sort"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
// Locks only once per call (preferred over calling Float64 in a loop).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// Float64s returns n unsorted values in [minVal, maxVal).
func (r *RNG) Float64s(n int, minVal, maxVal float64) []float64 {
	v := make([]float64, n)
	r.FillUniformRange(v, minVal, maxVal)
	return v
}

// SortedFloat64s returns n ascending values in [minVal, maxVal).
func (r *RNG) SortedFloat64s(n int, minVal, maxVal float64) []float64 {
	v := r.Float64s(n, minVal, maxVal)
	sort.Float64s(v)
	return v
}

// SortedWithDuplicates returns n ascending integral values drawn from
// [0, distinct), so most values repeat.
func (r *RNG) SortedWithDuplicates(n, distinct int) []float64 {
	r.mu.Lock()
	v := make([]float64, n)
	for i := range v {
		v[i] = float64(r.rand.Intn(distinct))
	}
	r.mu.Unlock()

	sort.Float64s(v)
	return v
}

// LowerBound is the reference lower bound: the smallest i with s[i] >= v.
func LowerBound(s []float64, v float64) int {
	return sort.SearchFloat64s(s, v)
}

// LowerBounds applies LowerBound to every target, preserving order.
func LowerBounds(source, targets []float64) []uint64 {
	out := make([]uint64, len(targets))
	for k, v := range targets {
		out[k] = uint64(LowerBound(source, v))
	}
	return out
}
