package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLayout is returned when dense buffer geometry is inconsistent
	// (negative dimensions, stride/shape length mismatch, or strides that
	// reach outside the data).
	ErrInvalidLayout = errors.New("buffer: invalid layout")

	// ErrAllocationFailure is returned when a result buffer cannot be allocated.
	ErrAllocationFailure = errors.New("buffer: allocation failure")
)

// ErrTypeMismatch indicates a buffer whose element type is not the
// expected floating-point width.
type ErrTypeMismatch struct {
	Expected string
	Actual   string
}

func (e *ErrTypeMismatch) Error() string {
	return fmt.Sprintf("buffer: type mismatch: expected %s, got %s", e.Expected, e.Actual)
}

func typeMismatch(actual string) error {
	return &ErrTypeMismatch{Expected: "float64", Actual: actual}
}
