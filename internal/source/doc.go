// Package source loads sorted sources and query targets from files for the
// command-line tool.
//
// The format is chosen by extension:
//
//   - .npy: NumPy arrays, memory-mapped and searched in place when possible
//   - .arrow, .arrows, .ipc: Arrow IPC (stream or file format)
//   - anything else: text, whitespace separated values
//
// A trailing .zst/.zstd or .lz4 suffix decompresses the file first, e.g.
// "values.npy.zst". Compressed inputs are read into memory.
package source
