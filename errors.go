package bisect

import (
	"errors"
	"fmt"

	"github.com/hupe1980/bisect/buffer"
	"github.com/hupe1980/bisect/internal/resource"
)

var (
	// ErrAllocationFailure is returned when a batch result buffer cannot be allocated.
	ErrAllocationFailure = errors.New("allocation failure")

	// ErrInvalidLayout is returned when a dense buffer's geometry is inconsistent.
	ErrInvalidLayout = errors.New("invalid buffer layout")
)

// ErrTypeMismatch indicates a buffer whose element type is not float64.
//
// The adapter error it was translated from is available via errors.Unwrap.
type ErrTypeMismatch struct {
	Expected string
	Actual   string
	cause    error
}

func (e *ErrTypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Actual)
}

func (e *ErrTypeMismatch) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var tm *buffer.ErrTypeMismatch
	if errors.As(err, &tm) {
		return &ErrTypeMismatch{Expected: tm.Expected, Actual: tm.Actual, cause: err}
	}

	if errors.Is(err, buffer.ErrAllocationFailure) || errors.Is(err, resource.ErrMemoryLimitExceeded) {
		return fmt.Errorf("%w: %w", ErrAllocationFailure, err)
	}

	if errors.Is(err, buffer.ErrInvalidLayout) {
		return fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}

	return err
}
