package buffer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/bisect/internal/conv"
	"github.com/hupe1980/bisect/internal/mem"
)

// DType is the element type of a Dense buffer.
type DType uint8

const (
	Float64 DType = iota
	Float32
	Int64
	Int32
	Int16
	Int8
	Uint64
	Uint32
	Uint16
	Uint8
	Bool
)

var dtypeNames = [...]string{
	Float64: "float64",
	Float32: "float32",
	Int64:   "int64",
	Int32:   "int32",
	Int16:   "int16",
	Int8:    "int8",
	Uint64:  "uint64",
	Uint32:  "uint32",
	Uint16:  "uint16",
	Uint8:   "uint8",
	Bool:    "bool",
}

var dtypeSizes = [...]int{
	Float64: 8, Float32: 4,
	Int64: 8, Int32: 4, Int16: 2, Int8: 1,
	Uint64: 8, Uint32: 4, Uint16: 2, Uint8: 1,
	Bool: 1,
}

func (d DType) String() string {
	if int(d) < len(dtypeNames) {
		return dtypeNames[d]
	}
	return fmt.Sprintf("dtype(%d)", uint8(d))
}

// Size returns the element width in bytes, or 0 for unknown types.
func (d DType) Size() int {
	if int(d) < len(dtypeSizes) {
		return dtypeSizes[d]
	}
	return 0
}

// ByteOrder is the byte order of Dense elements.
type ByteOrder uint8

const (
	// NativeOrder is the byte order of the running machine.
	NativeOrder ByteOrder = iota
	LittleEndian
	BigEndian
)

var nativeIsLittle = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

func (o ByteOrder) native() bool {
	switch o {
	case LittleEndian:
		return nativeIsLittle
	case BigEndian:
		return !nativeIsLittle
	default:
		return true
	}
}

func (o ByteOrder) binary() binary.ByteOrder {
	switch o {
	case LittleEndian:
		return binary.LittleEndian
	case BigEndian:
		return binary.BigEndian
	default:
		return binary.NativeEndian
	}
}

// Dense describes an externally owned, strided n-dimensional buffer.
//
// Element (i0, i1, ...) lives at byte Offset + i0*Strides[0] + i1*Strides[1] + ...
// of Data. A nil Strides means C-contiguous (row-major) layout. Strides may
// be negative.
type Dense struct {
	DType     DType
	ByteOrder ByteOrder
	Shape     []int
	Strides   []int
	Offset    int
	Data      []byte
}

// NewDense wraps values as a Dense buffer without copying. With no shape the
// buffer is one-dimensional.
func NewDense(values []float64, shape ...int) *Dense {
	if len(shape) == 0 {
		shape = []int{len(values)}
	}
	return &Dense{
		DType: Float64,
		Shape: shape,
		Data:  mem.Float64sAsBytes(values),
	}
}

// Len returns the number of elements (the product of Shape). The product is
// not checked for overflow; Values rejects such shapes.
func (d *Dense) Len() int {
	n := 1
	for _, dim := range d.Shape {
		n *= dim
	}
	return n
}

// IsContiguous reports whether the elements are laid out back to back in
// row-major order. Dimensions of extent 1 do not affect contiguity.
func (d *Dense) IsContiguous() bool {
	if d.Strides == nil {
		return true
	}
	expected := d.DType.Size()
	for i := len(d.Shape) - 1; i >= 0; i-- {
		if d.Shape[i] != 1 && d.Strides[i] != expected {
			return false
		}
		expected *= d.Shape[i]
	}
	return true
}

// Values returns the elements as a contiguous native-order slice in row-major
// order.
//
// Contiguous, native-order, 8-byte aligned float64 data is returned in place.
// Any other float64 layout is copied once into a new aligned buffer. Other
// element types fail with *ErrTypeMismatch.
func (d *Dense) Values() (Float64s, error) {
	if d.DType != Float64 {
		return nil, typeMismatch(d.DType.String())
	}

	strides, n, err := d.validate()
	if err != nil {
		return nil, err
	}

	if n == 0 {
		return Float64s{}, nil
	}

	if d.ByteOrder.native() && d.IsContiguous() {
		if v, ok := mem.BytesAsFloat64s(d.Data[d.Offset : d.Offset+n*8]); ok {
			return Float64s(v), nil
		}
	}

	return d.materialize(strides, n), nil
}

// validate checks the geometry and returns effective byte strides and the
// element count.
func (d *Dense) validate() ([]int, int, error) {
	size := d.DType.Size()

	n := 1
	for _, dim := range d.Shape {
		if dim < 0 {
			return nil, 0, fmt.Errorf("%w: negative dimension %d", ErrInvalidLayout, dim)
		}
		var err error
		if n, err = conv.MulInt(n, dim); err != nil {
			return nil, 0, fmt.Errorf("%w: element count overflows: %v", ErrInvalidLayout, err)
		}
	}
	if _, err := conv.MulInt(n, size); err != nil {
		return nil, 0, fmt.Errorf("%w: byte count overflows: %v", ErrInvalidLayout, err)
	}

	strides := d.Strides
	if strides == nil {
		strides = cStrides(d.Shape, size)
	} else if len(strides) != len(d.Shape) {
		return nil, 0, fmt.Errorf("%w: %d strides for %d dimensions", ErrInvalidLayout, len(strides), len(d.Shape))
	}

	if n == 0 {
		return strides, 0, nil
	}

	lo, hi := d.Offset, d.Offset
	for i, dim := range d.Shape {
		span, err := conv.MulInt(dim-1, strides[i])
		if err == nil {
			if span < 0 {
				lo, err = conv.AddInt(lo, span)
			} else {
				hi, err = conv.AddInt(hi, span)
			}
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%w: stride span overflows: %v", ErrInvalidLayout, err)
		}
	}

	end, err := conv.AddInt(hi, size)
	if err != nil || lo < 0 || end > len(d.Data) {
		return nil, 0, fmt.Errorf("%w: elements span bytes [%d, %d) of a %d byte buffer", ErrInvalidLayout, lo, end, len(d.Data))
	}

	return strides, n, nil
}

// materialize copies the elements in row-major order into an aligned buffer.
func (d *Dense) materialize(strides []int, n int) Float64s {
	out := mem.AllocAlignedFloat64(n)
	order := d.ByteOrder.binary()

	if len(d.Shape) == 0 {
		out[0] = math.Float64frombits(order.Uint64(d.Data[d.Offset:]))
		return out
	}

	idx := make([]int, len(d.Shape))
	off := d.Offset
	last := len(d.Shape) - 1

	for k := 0; k < n; k++ {
		out[k] = math.Float64frombits(order.Uint64(d.Data[off:]))

		// Advance the multi-index like an odometer.
		for axis := last; axis >= 0; axis-- {
			idx[axis]++
			off += strides[axis]
			if idx[axis] < d.Shape[axis] {
				break
			}
			off -= idx[axis] * strides[axis]
			idx[axis] = 0
		}
	}

	return out
}

func cStrides(shape []int, size int) []int {
	strides := make([]int, len(shape))
	acc := size
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}
