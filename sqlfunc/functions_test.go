package sqlfunc

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/hupe1980/bisect"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	require.NoError(t, Register(nil))

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBisect(t *testing.T) {
	db := openDB(t)

	tests := []struct {
		name   string
		source []float64
		value  any
		want   int64
	}{
		{"gap", []float64{1, 2, 3, 4, 6, 8, 10}, 7.0, 5},
		{"integer value", []float64{1, 2, 3, 4, 6, 8, 10}, 6, 4},
		{"below", []float64{1, 5.5, 11, 19.3}, 0.0, 0},
		{"above", []float64{1, 5.5, 11, 19.3}, 20.0, 4},
		{"duplicates", []float64{1, 3, 3, 3, 5}, 3.0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got int64
			err := db.QueryRow(`SELECT bisect(?, ?)`, EncodeFloat64s(tc.source), tc.value).Scan(&got)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBisect_Unaligned(t *testing.T) {
	db := openDB(t)

	// A blob sliced out of a larger one via substr starts at an arbitrary address.
	blob := append([]byte{0}, EncodeFloat64s([]float64{1, 2, 3})...)

	var got int64
	err := db.QueryRow(`SELECT bisect(substr(?, 2), 2.5)`, blob).Scan(&got)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)
}

func TestBisect_Null(t *testing.T) {
	db := openDB(t)

	var got sql.NullInt64
	require.NoError(t, db.QueryRow(`SELECT bisect(NULL, 1.0)`).Scan(&got))
	assert.False(t, got.Valid)

	require.NoError(t, db.QueryRow(`SELECT bisect(?, NULL)`, EncodeFloat64s([]float64{1})).Scan(&got))
	assert.False(t, got.Valid)
}

func TestBisect_TypeMismatch(t *testing.T) {
	db := openDB(t)

	var got int64
	err := db.QueryRow(`SELECT bisect(?, 1.0)`, []byte{1, 2, 3}).Scan(&got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type mismatch")

	err = db.QueryRow(`SELECT bisect('text', 1.0)`).Scan(&got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type mismatch")

	err = db.QueryRow(`SELECT bisect(?, 'x')`, EncodeFloat64s([]float64{1})).Scan(&got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type mismatch")
}

func TestBisectBatch(t *testing.T) {
	db := openDB(t)

	tests := []struct {
		source, targets []float64
		want            []uint64
	}{
		{[]float64{1, 3, 3, 3, 5}, []float64{3, 0, 6}, []uint64{1, 0, 5}},
		{[]float64{1, 5.5, 11, 19.3}, []float64{0, 4, 11, 19, 20}, []uint64{0, 1, 2, 3, 4}},
	}

	for _, tc := range tests {
		var blob []byte
		err := db.QueryRow(`SELECT bisect_batch(?, ?)`, EncodeFloat64s(tc.source), EncodeFloat64s(tc.targets)).Scan(&blob)
		require.NoError(t, err)

		got, err := DecodeUint64s(blob)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	var blob []byte
	err := db.QueryRow(`SELECT bisect_batch(?, ?)`, EncodeFloat64s([]float64{1}), []byte{0}).Scan(&blob)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type mismatch")
}

func TestBisectBatch_Table(t *testing.T) {
	db := openDB(t)

	_, err := db.Exec(`CREATE TABLE bins (name TEXT, edges BLOB)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO bins VALUES ('grades', ?)`, EncodeFloat64s([]float64{60, 70, 80, 90}))
	require.NoError(t, err)

	rows, err := db.Query(`SELECT bisect(edges, score) FROM bins, (SELECT 33 AS score UNION ALL SELECT 99 UNION ALL SELECT 77) ORDER BY score`)
	require.NoError(t, err)
	defer rows.Close()

	var got []int64
	for rows.Next() {
		var idx int64
		require.NoError(t, rows.Scan(&idx))
		got = append(got, idx)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []int64{0, 2, 4}, got)
}

func TestEncodeDecode(t *testing.T) {
	assert.Empty(t, EncodeFloat64s(nil))
	assert.Len(t, EncodeFloat64s([]float64{1, 2}), 16)

	got, err := DecodeUint64s(EncodeUint64s([]uint64{0, 1, 1 << 40}))
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 1, 1 << 40}, got)

	_, err = DecodeUint64s(make([]byte, 7))
	assert.Error(t, err)
}

func TestAsFloat64s(t *testing.T) {
	d, err := asFloat64s(EncodeFloat64s([]float64{1, 2}))
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	_, err = asFloat64s("nope")
	var tm *bisect.ErrTypeMismatch
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, "string", tm.Actual)
}
