package buffer

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// FromArrow returns the raw values of a Float64 column without copying.
//
// The column's offset is honoured; its validity bitmap is not. The returned
// slice aliases the column's memory and is valid until the column is released.
func FromArrow(col arrow.Array) (Float64s, error) {
	if col == nil {
		return nil, typeMismatch("nil")
	}

	f, ok := col.(*array.Float64)
	if !ok {
		return nil, typeMismatch(col.DataType().String())
	}

	return Float64s(f.Float64Values()), nil
}

// NewUint64Column allocates an n-element uint64 column from alloc and lets
// fill write the values in place.
//
// The returned column owns the buffer; callers must Release it. If fill
// fails, the buffer is freed and the error returned. Allocator panics are
// reported as ErrAllocationFailure.
func NewUint64Column(alloc memory.Allocator, n int, fill func(values []uint64) error) (*array.Uint64, error) {
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}

	buf, err := allocate(alloc, n*arrow.Uint64SizeBytes)
	if err != nil {
		return nil, err
	}
	defer buf.Release()

	var values []uint64
	if n > 0 {
		values = arrow.Uint64Traits.CastFromBytes(buf.Bytes())[:n]
	}

	if err := fill(values); err != nil {
		return nil, err
	}

	data := array.NewData(arrow.PrimitiveTypes.Uint64, n, []*memory.Buffer{nil, buf}, nil, 0, 0)
	defer data.Release()

	return array.NewUint64Data(data), nil
}

func allocate(alloc memory.Allocator, size int) (buf *memory.Buffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			if buf != nil {
				buf.Release()
			}
			buf = nil
			err = fmt.Errorf("%w: %d bytes: %v", ErrAllocationFailure, size, r)
		}
	}()

	buf = memory.NewResizableBuffer(alloc)
	buf.Resize(size)

	return buf, nil
}
