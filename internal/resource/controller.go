package resource

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrMemoryLimitExceeded is returned when a reservation does not fit the budget.
var ErrMemoryLimitExceeded = errors.New("resource: memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for result buffers that are being
	// filled at the same time. If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxConcurrentBatches bounds the number of batch calls computing at once.
	// If 0, batch calls are not limited.
	MaxConcurrentBatches int64
}

// Controller manages shared limits (memory, concurrency) across calls.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	batchSem *semaphore.Weighted // nil if unlimited
	inFlight atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.MaxConcurrentBatches > 0 {
		c.batchSem = semaphore.NewWeighted(cfg.MaxConcurrentBatches)
	}

	return c
}

// AcquireMemory reserves bytes of the budget without blocking. A batch
// that does not fit fails immediately; it is never queued behind others.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return fmt.Errorf("%w: %d bytes requested, %d of %d in use",
			ErrMemoryLimitExceeded, bytes, c.memUsed.Load(), c.cfg.MemoryLimitBytes)
	}

	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory returns bytes reserved by AcquireMemory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// AcquireBatch reserves a batch slot, blocking while all slots are busy.
func (c *Controller) AcquireBatch(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.batchSem != nil {
		if err := c.batchSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	c.inFlight.Add(1)
	return nil
}

// ReleaseBatch releases a batch slot.
func (c *Controller) ReleaseBatch() {
	if c == nil {
		return
	}
	if c.batchSem != nil {
		c.batchSem.Release(1)
	}
	c.inFlight.Add(-1)
}

// BatchesInFlight returns the number of batch calls currently holding a slot.
func (c *Controller) BatchesInFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}
