package buffer

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/bisect/internal/mem"
)

// FromVector describes a gonum vector as a one-dimensional Dense buffer.
//
// Vectors exposing raw storage (such as *mat.VecDense, including strided
// column views) are wrapped without copying; other implementations are
// copied element by element.
func FromVector(v mat.Vector) *Dense {
	if rv, ok := v.(mat.RawVectorer); ok {
		raw := rv.RawVector()
		return &Dense{
			DType:   Float64,
			Shape:   []int{raw.N},
			Strides: []int{raw.Inc * 8},
			Data:    mem.Float64sAsBytes(raw.Data),
		}
	}

	n := v.Len()
	values := make([]float64, n)
	for i := range values {
		values[i] = v.AtVec(i)
	}
	return NewDense(values)
}

// FromMatrix describes a gonum matrix as a two-dimensional row-major Dense
// buffer.
//
// Matrices exposing raw storage (such as *mat.Dense and its slices) are
// wrapped without copying; a slice narrower than its parent is strided and
// gets materialized by Dense.Values. Other implementations are copied.
func FromMatrix(m mat.Matrix) *Dense {
	if rm, ok := m.(mat.RawMatrixer); ok {
		raw := rm.RawMatrix()
		return &Dense{
			DType:   Float64,
			Shape:   []int{raw.Rows, raw.Cols},
			Strides: []int{raw.Stride * 8, 8},
			Data:    mem.Float64sAsBytes(raw.Data),
		}
	}

	r, c := m.Dims()
	values := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			values = append(values, m.At(i, j))
		}
	}
	return NewDense(values, r, c)
}
