package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
)

// readArrow reads one column of an Arrow IPC stream or file, concatenating
// record batches into a single array.
func readArrow(r io.Reader, opts Options) (arrow.Array, error) {
	br := bufio.NewReader(r)

	if magic, _ := br.Peek(len(ipc.Magic)); bytes.Equal(magic, ipc.Magic) {
		return readArrowFile(br, opts)
	}

	rdr, err := ipc.NewReader(br, ipc.WithAllocator(opts.Allocator))
	if err != nil {
		return nil, err
	}
	defer rdr.Release()

	idx, err := pickColumn(rdr.Schema(), opts.Column)
	if err != nil {
		return nil, err
	}

	var chunks []arrow.Array
	for rdr.Next() {
		col := rdr.Record().Column(idx)
		col.Retain()
		chunks = append(chunks, col)
	}
	if err := rdr.Err(); err != nil {
		releaseAll(chunks)
		return nil, err
	}

	return combine(chunks, rdr.Schema().Field(idx).Type, opts)
}

func readArrowFile(r io.Reader, opts Options) (arrow.Array, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fr, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(opts.Allocator))
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	idx, err := pickColumn(fr.Schema(), opts.Column)
	if err != nil {
		return nil, err
	}

	chunks := make([]arrow.Array, 0, fr.NumRecords())
	for i := 0; i < fr.NumRecords(); i++ {
		rec, err := fr.RecordAt(i)
		if err != nil {
			releaseAll(chunks)
			return nil, err
		}
		col := rec.Column(idx)
		col.Retain()
		rec.Release()
		chunks = append(chunks, col)
	}

	return combine(chunks, fr.Schema().Field(idx).Type, opts)
}

// pickColumn resolves the column index: by name, else the first float64
// column, else column 0 so that the caller reports the type mismatch.
func pickColumn(schema *arrow.Schema, name string) (int, error) {
	if name != "" {
		if idx := schema.FieldIndices(name); len(idx) > 0 {
			return idx[0], nil
		}
		return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}

	if schema.NumFields() == 0 {
		return 0, fmt.Errorf("%w: schema has no fields", ErrColumnNotFound)
	}
	for i, f := range schema.Fields() {
		if f.Type.ID() == arrow.FLOAT64 {
			return i, nil
		}
	}
	return 0, nil
}

func combine(chunks []arrow.Array, dt arrow.DataType, opts Options) (arrow.Array, error) {
	switch len(chunks) {
	case 0:
		return array.MakeArrayOfNull(opts.Allocator, dt, 0), nil
	case 1:
		return chunks[0], nil
	}

	defer releaseAll(chunks)
	return array.Concatenate(chunks, opts.Allocator)
}

func releaseAll(arrs []arrow.Array) {
	for _, a := range arrs {
		a.Release()
	}
}
