// Package sqlfunc exposes bisection as SQLite scalar functions for the
// pure-Go modernc.org/sqlite driver.
//
//	bisect(source BLOB, value REAL) -> INTEGER
//	bisect_batch(source BLOB, targets BLOB) -> BLOB
//
// Sources and targets are packed little-endian float64 values; the batch
// result is packed little-endian uint64 indices. NULL arguments yield NULL.
//
//	if err := sqlfunc.Register(nil); err != nil { ... }
//	db, _ := sql.Open("sqlite", ":memory:")
//	db.QueryRow(`SELECT bisect(?, ?)`, sqlfunc.EncodeFloat64s(sorted), 7.0)
//
// Functions are registered with the driver, so they are visible on
// connections opened after Register.
package sqlfunc
