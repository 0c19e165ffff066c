package sqlfunc

import (
	"context"
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	sqlite "modernc.org/sqlite"

	"github.com/hupe1980/bisect"
	"github.com/hupe1980/bisect/buffer"
	"github.com/hupe1980/bisect/internal/conv"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// Register installs bisect and bisect_batch with the sqlite driver, backed
// by s (a default Searcher if nil). Only the first call has any effect.
func Register(s *bisect.Searcher) error {
	registerOnce.Do(func() {
		if s == nil {
			s = bisect.New()
		}
		f := &functions{searcher: s}

		if err := sqlite.RegisterDeterministicScalarFunction("bisect", 2, f.bisect); err != nil {
			registerErr = fmt.Errorf("sqlfunc: register bisect: %w", err)
			return
		}
		if err := sqlite.RegisterDeterministicScalarFunction("bisect_batch", 2, f.bisectBatch); err != nil {
			registerErr = fmt.Errorf("sqlfunc: register bisect_batch: %w", err)
		}
	})
	return registerErr
}

type functions struct {
	searcher *bisect.Searcher
}

func (f *functions) bisect(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("bisect: expected 2 arguments, got %d", len(args))
	}
	if args[0] == nil || args[1] == nil {
		return nil, nil
	}

	source, err := asFloat64s(args[0])
	if err != nil {
		return nil, fmt.Errorf("bisect: source: %w", err)
	}
	value, err := asFloat64(args[1])
	if err != nil {
		return nil, fmt.Errorf("bisect: value: %w", err)
	}

	idx, err := f.searcher.BisectArray(source, value)
	if err != nil {
		return nil, fmt.Errorf("bisect: %w", err)
	}
	return conv.Uint64ToInt64(idx)
}

func (f *functions) bisectBatch(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("bisect_batch: expected 2 arguments, got %d", len(args))
	}
	if args[0] == nil || args[1] == nil {
		return nil, nil
	}

	source, err := asFloat64s(args[0])
	if err != nil {
		return nil, fmt.Errorf("bisect_batch: source: %w", err)
	}
	targets, err := asFloat64s(args[1])
	if err != nil {
		return nil, fmt.Errorf("bisect_batch: targets: %w", err)
	}

	idx, err := f.searcher.BisectBatchArrays(context.Background(), source, targets)
	if err != nil {
		return nil, fmt.Errorf("bisect_batch: %w", err)
	}
	return EncodeUint64s(idx), nil
}

// asFloat64s wraps a little-endian float64 blob without copying it.
func asFloat64s(arg driver.Value) (*buffer.Dense, error) {
	b, ok := arg.([]byte)
	if !ok {
		return nil, &bisect.ErrTypeMismatch{Expected: "float64 blob", Actual: fmt.Sprintf("%T", arg)}
	}
	if len(b)%8 != 0 {
		return nil, &bisect.ErrTypeMismatch{Expected: "float64 blob", Actual: fmt.Sprintf("%d-byte blob", len(b))}
	}
	return &buffer.Dense{
		DType:     buffer.Float64,
		ByteOrder: buffer.LittleEndian,
		Shape:     []int{len(b) / 8},
		Data:      b,
	}, nil
}

func asFloat64(arg driver.Value) (float64, error) {
	switch v := arg.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	default:
		return 0, &bisect.ErrTypeMismatch{Expected: "float64", Actual: fmt.Sprintf("%T", arg)}
	}
}

// EncodeFloat64s packs values as a little-endian float64 blob.
func EncodeFloat64s(values []float64) []byte {
	b := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(v))
	}
	return b
}

// EncodeUint64s packs indices as a little-endian uint64 blob.
func EncodeUint64s(values []uint64) []byte {
	b := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(b[8*i:], v)
	}
	return b
}

// DecodeUint64s unpacks a bisect_batch result.
func DecodeUint64s(b []byte) ([]uint64, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("sqlfunc: invalid index blob length %d", len(b))
	}
	out := make([]uint64, len(b)/8)
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(b[8*i:])
	}
	return out, nil
}
