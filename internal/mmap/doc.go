// Package mmap maps input files read-only so that numeric payloads can be
// searched in place.
//
//	m, err := mmap.Open("values.npy")
//	if err != nil { ... }
//	defer m.Close()
//
//	payload, err := m.Slice(header, n*8)
//
// Unix platforms use mmap(2) and madvise(2). Windows uses
// CreateFileMapping/MapViewOfFile; access hints are a no-op there.
//
// A Mapping is safe for concurrent reads. Slices obtained from it are valid
// only until Close.
package mmap
