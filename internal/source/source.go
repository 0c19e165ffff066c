package source

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/bisect/buffer"
	"github.com/hupe1980/bisect/internal/mmap"
)

var (
	// ErrInvalidNumpy is returned for malformed .npy files.
	ErrInvalidNumpy = errors.New("source: invalid npy file")

	// ErrColumnNotFound is returned when an Arrow input has no matching column.
	ErrColumnNotFound = errors.New("source: column not found")
)

// Format identifies how an input file is decoded.
type Format int

const (
	FormatText Format = iota
	FormatNumpy
	FormatArrow
)

func (f Format) String() string {
	switch f {
	case FormatNumpy:
		return "npy"
	case FormatArrow:
		return "arrow"
	default:
		return "text"
	}
}

// Options configures Open.
type Options struct {
	// Column selects an Arrow column by name. Empty picks the first float64
	// column, or the first column if there is none.
	Column string

	// Allocator backs Arrow buffers. Defaults to memory.DefaultAllocator.
	Allocator memory.Allocator

	// Logger receives debug records. Defaults to slog.Default().
	Logger *slog.Logger
}

// Input is a decoded file. Exactly one of Dense, Column and Values is set,
// matching Format. Close releases mapped or allocator-owned memory.
type Input struct {
	Path   string
	Format Format

	Dense  *buffer.Dense
	Column arrow.Array
	Values []float64

	close func() error
}

// Open decodes the file at path.
func Open(path string, opts Options) (*Input, error) {
	if opts.Allocator == nil {
		opts.Allocator = memory.DefaultAllocator
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	base, c := splitCodec(path)
	format := detectFormat(base)

	if format == FormatNumpy && c == codecNone {
		return openNumpyMapped(path, opts.Logger)
	}

	r, err := openReader(path, c)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	in := &Input{Path: path, Format: format}

	switch format {
	case FormatNumpy:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("source: %s: %w", path, err)
		}
		if in.Dense, err = numpyFromBytes(data); err != nil {
			return nil, fmt.Errorf("source: %s: %w", path, err)
		}
	case FormatArrow:
		col, err := readArrow(r, opts)
		if err != nil {
			return nil, fmt.Errorf("source: %s: %w", path, err)
		}
		in.Column = col
		in.close = func() error {
			col.Release()
			return nil
		}
	default:
		if in.Values, err = readText(r); err != nil {
			return nil, fmt.Errorf("source: %s: %w", path, err)
		}
	}

	return in, nil
}

// Len returns the number of values.
func (in *Input) Len() int {
	switch {
	case in.Dense != nil:
		return in.Dense.Len()
	case in.Column != nil:
		return in.Column.Len()
	default:
		return len(in.Values)
	}
}

// Float64s returns the values as one contiguous slice, whatever the format.
// Non-float64 inputs fail with *buffer.ErrTypeMismatch.
func (in *Input) Float64s() ([]float64, error) {
	switch {
	case in.Dense != nil:
		return in.Dense.Values()
	case in.Column != nil:
		return buffer.FromArrow(in.Column)
	default:
		return in.Values, nil
	}
}

// Close releases the input. Slices obtained from it become invalid.
func (in *Input) Close() error {
	if in == nil || in.close == nil {
		return nil
	}
	fn := in.close
	in.close = nil
	return fn()
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".npy":
		return FormatNumpy
	case ".arrow", ".arrows", ".ipc", ".feather":
		return FormatArrow
	default:
		return FormatText
	}
}

type codec int

const (
	codecNone codec = iota
	codecZstd
	codecLZ4
)

func splitCodec(path string) (string, codec) {
	ext := filepath.Ext(path)
	switch strings.ToLower(ext) {
	case ".zst", ".zstd":
		return strings.TrimSuffix(path, ext), codecZstd
	case ".lz4":
		return strings.TrimSuffix(path, ext), codecLZ4
	default:
		return path, codecNone
	}
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r *readCloser) Close() error { return r.close() }

func openReader(path string, c codec) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	switch c {
	case codecZstd:
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("source: %s: %w", path, err)
		}
		return &readCloser{Reader: dec, close: func() error {
			dec.Close()
			return f.Close()
		}}, nil
	case codecLZ4:
		return &readCloser{Reader: lz4.NewReader(f), close: f.Close}, nil
	default:
		return f, nil
	}
}

func openNumpyMapped(path string, logger *slog.Logger) (*Input, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	dense, err := numpyFromMapping(m)
	if err != nil {
		m.Close()
		return nil, fmt.Errorf("source: %s: %w", path, err)
	}

	// Bisection touches a handful of scattered pages.
	adviseRandom(m, logger)

	return &Input{
		Path:   path,
		Format: FormatNumpy,
		Dense:  dense,
		close:  m.Close,
	}, nil
}

func adviseRandom(m *mmap.Mapping, logger *slog.Logger) {
	if err := m.Advise(mmap.AccessRandom); err != nil {
		logger.Debug("mmap advise failed", "path", m.Path(), "error", err)
	}
}
