// Package resource implements the Controller for shared limits.
//
// The Controller manages two resource types:
//
//   - Memory: Track and limit bytes of result buffers being filled (non-blocking, fail-fast)
//   - Concurrency: Limit the number of batch calls computing at once
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and atomic counters
// for usage tracking. AcquireMemory is non-blocking and returns immediately
// with ErrMemoryLimitExceeded if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(8 * int64(len(targets))); err != nil {
//	    // ErrMemoryLimitExceeded - reported as an allocation failure
//	}
//	defer rc.ReleaseMemory(8 * int64(len(targets)))
//
// # Batch Limits
//
//	rc := resource.NewController(resource.Config{
//	    MaxConcurrentBatches: 4,
//	})
//
//	if err := rc.AcquireBatch(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseBatch()
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
