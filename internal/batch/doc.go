// Package batch runs the bisection kernel for many targets against one
// shared source view.
//
// Targets are split into contiguous, disjoint chunks. Every chunk is
// evaluated by one worker which writes only to its own window of the output
// slice, so the source view is shared read-only and no locking is needed.
// Output order always matches target order.
//
// Chunks run on an errgroup by default; a shared ants pool can be supplied
// instead so that many concurrent batch calls reuse the same goroutines.
package batch
