// Package conv provides safe integer type conversion and arithmetic utilities.
//
// These functions perform bounds checking to prevent integer overflow/underflow
// when converting between signed/unsigned and different bit-width integer types.
//
// Use cases:
//   - Validating untrusted data from input files (header lengths, counts)
//   - Converting between Go's int (platform-dependent) and fixed-width types
//     used by host boundaries (SQLite INTEGER, CLI flags)
//
// For conversions that are provably safe by domain constraints (e.g. a
// bisection index bounded by a slice length), use direct type casts instead.
package conv
