package source

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/hupe1980/bisect/buffer"
	"github.com/hupe1980/bisect/internal/conv"
	"github.com/hupe1980/bisect/internal/mmap"
)

var numpyMagic = []byte("\x93NUMPY")

var (
	descrRe   = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	fortranRe = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	shapeRe   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

var numpyKinds = map[string]buffer.DType{
	"f8": buffer.Float64, "f4": buffer.Float32,
	"i8": buffer.Int64, "i4": buffer.Int32, "i2": buffer.Int16, "i1": buffer.Int8,
	"u8": buffer.Uint64, "u4": buffer.Uint32, "u2": buffer.Uint16, "u1": buffer.Uint8,
	"b1": buffer.Bool, "?": buffer.Bool,
}

type numpyHeader struct {
	dtype   buffer.DType
	order   buffer.ByteOrder
	shape   []int
	fortran bool
	size    int // payload bytes
	offset  int // start of the payload
}

func (h numpyHeader) dense(payload []byte) *buffer.Dense {
	d := &buffer.Dense{
		DType:     h.dtype,
		ByteOrder: h.order,
		Shape:     h.shape,
		Data:      payload,
	}
	if h.fortran && len(h.shape) > 1 {
		d.Strides = make([]int, len(h.shape))
		stride := h.dtype.Size()
		for i, dim := range h.shape {
			d.Strides[i] = stride
			stride *= dim
		}
	}
	return d
}

func numpyFromMapping(m *mmap.Mapping) (*buffer.Dense, error) {
	h, err := readNumpyHeader(m, int64(m.Len()))
	if err != nil {
		return nil, err
	}
	payload, err := m.Slice(h.offset, h.size)
	if err != nil {
		return nil, fmt.Errorf("%w: truncated payload: %w", ErrInvalidNumpy, err)
	}
	return h.dense(payload), nil
}

func numpyFromBytes(data []byte) (*buffer.Dense, error) {
	h, err := readNumpyHeader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	if h.size > len(data)-h.offset {
		return nil, fmt.Errorf("%w: truncated payload: want %d bytes, have %d", ErrInvalidNumpy, h.size, len(data)-h.offset)
	}
	return h.dense(data[h.offset : h.offset+h.size]), nil
}

func readNumpyHeader(r io.ReaderAt, size int64) (numpyHeader, error) {
	sr := io.NewSectionReader(r, 0, size)

	var pre [10]byte
	if _, err := io.ReadFull(sr, pre[:]); err != nil {
		return numpyHeader{}, fmt.Errorf("%w: short preamble", ErrInvalidNumpy)
	}
	if !bytes.Equal(pre[:6], numpyMagic) {
		return numpyHeader{}, fmt.Errorf("%w: bad magic", ErrInvalidNumpy)
	}

	var hlen, start int
	switch major := pre[6]; major {
	case 1:
		hlen, start = int(binary.LittleEndian.Uint16(pre[8:10])), 10
	case 2, 3:
		var ext [2]byte
		if _, err := io.ReadFull(sr, ext[:]); err != nil {
			return numpyHeader{}, fmt.Errorf("%w: short preamble", ErrInvalidNumpy)
		}
		n, err := conv.Uint32ToInt(binary.LittleEndian.Uint32([]byte{pre[8], pre[9], ext[0], ext[1]}))
		if err != nil {
			return numpyHeader{}, fmt.Errorf("%w: %w", ErrInvalidNumpy, err)
		}
		hlen, start = n, 12
	default:
		return numpyHeader{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidNumpy, major)
	}

	if int64(start)+int64(hlen) > size {
		return numpyHeader{}, fmt.Errorf("%w: header length %d exceeds file", ErrInvalidNumpy, hlen)
	}

	dict := make([]byte, hlen)
	if _, err := io.ReadFull(sr, dict); err != nil {
		return numpyHeader{}, fmt.Errorf("%w: %w", ErrInvalidNumpy, err)
	}

	h, err := parseNumpyDict(string(dict))
	if err != nil {
		return numpyHeader{}, err
	}
	h.offset = start + hlen

	return h, nil
}

func parseNumpyDict(dict string) (numpyHeader, error) {
	var h numpyHeader

	m := descrRe.FindStringSubmatch(dict)
	if m == nil {
		return h, fmt.Errorf("%w: missing descr", ErrInvalidNumpy)
	}
	descr := m[1]
	if descr == "" {
		return h, fmt.Errorf("%w: empty descr", ErrInvalidNumpy)
	}

	kind := descr
	switch descr[0] {
	case '<':
		h.order, kind = buffer.LittleEndian, descr[1:]
	case '>':
		h.order, kind = buffer.BigEndian, descr[1:]
	case '|', '=':
		h.order, kind = buffer.NativeOrder, descr[1:]
	}

	dtype, ok := numpyKinds[kind]
	if !ok {
		return h, &buffer.ErrTypeMismatch{Expected: "float64", Actual: descr}
	}
	h.dtype = dtype

	if m := fortranRe.FindStringSubmatch(dict); m != nil {
		h.fortran = m[1] == "True"
	}

	m = shapeRe.FindStringSubmatch(dict)
	if m == nil {
		return h, fmt.Errorf("%w: missing shape", ErrInvalidNumpy)
	}
	h.shape = []int{}
	h.size = h.dtype.Size()
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dim, err := strconv.Atoi(strings.TrimSuffix(part, "L"))
		if err != nil || dim < 0 {
			return h, fmt.Errorf("%w: bad dimension %q", ErrInvalidNumpy, part)
		}
		h.shape = append(h.shape, dim)
		if h.size, err = conv.MulInt(h.size, dim); err != nil {
			return h, fmt.Errorf("%w: shape (%s) overflows: %w", ErrInvalidNumpy, m[1], err)
		}
	}

	return h, nil
}
