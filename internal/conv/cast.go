package conv

import (
	"fmt"
	"math"
	"math/bits"
)

// IntToInt64 converts int to int64. It never fails on supported platforms
// but keeps call sites uniform with the checked conversions.
func IntToInt64(v int) int64 {
	return int64(v)
}

// Uint64ToInt64 converts uint64 to int64 safely.
func Uint64ToInt64(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int64 (too large)", v)
	}
	return int64(v), nil
}

// Uint32ToInt converts uint32 to int safely.
func Uint32ToInt(v uint32) (int, error) {
	if uint64(v) > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	return int(v), nil
}

// MulInt returns a*b, or an error if the product does not fit in an int.
func MulInt(a, b int) (int, error) {
	neg := (a < 0) != (b < 0)
	hi, lo := bits.Mul64(absUint64(a), absUint64(b))

	limit := uint64(math.MaxInt)
	if neg {
		limit++
	}
	if hi != 0 || lo > limit {
		return 0, fmt.Errorf("integer overflow: %d * %d does not fit in int", a, b)
	}

	if neg {
		return int(-lo), nil
	}
	return int(lo), nil
}

// AddInt returns a+b, or an error if the sum does not fit in an int.
func AddInt(a, b int) (int, error) {
	if (b > 0 && a > math.MaxInt-b) || (b < 0 && a < math.MinInt-b) {
		return 0, fmt.Errorf("integer overflow: %d + %d does not fit in int", a, b)
	}
	return a + b, nil
}

func absUint64(v int) uint64 {
	if v < 0 {
		return uint64(-(v + 1)) + 1
	}
	return uint64(v)
}
