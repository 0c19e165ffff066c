package buffer

// Float64s is an owned contiguous sequence viewed without copying.
type Float64s []float64

// Len returns the number of elements.
func (f Float64s) Len() int { return len(f) }

// At returns the element at index i.
func (f Float64s) At(i int) float64 { return f[i] }
