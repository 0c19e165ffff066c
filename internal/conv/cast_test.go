package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntToInt64(t *testing.T) {
	assert.Equal(t, int64(0), IntToInt64(0))
	assert.Equal(t, int64(-7), IntToInt64(-7))
	assert.Equal(t, int64(math.MaxInt), IntToInt64(math.MaxInt))
}

func TestUint64ToInt64(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := Uint64ToInt64(0)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), got)
	})

	t.Run("valid max int64", func(t *testing.T) {
		got, err := Uint64ToInt64(math.MaxInt64)
		assert.NoError(t, err)
		assert.Equal(t, int64(math.MaxInt64), got)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := Uint64ToInt64(math.MaxInt64 + 1)
		assert.Error(t, err)
	})
}

func TestUint32ToInt(t *testing.T) {
	got, err := Uint32ToInt(math.MaxUint32)
	assert.NoError(t, err)
	assert.Equal(t, math.MaxUint32, got)

	got, err = Uint32ToInt(0)
	assert.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestMulInt(t *testing.T) {
	tests := []struct {
		name    string
		a, b    int
		want    int
		wantErr bool
	}{
		{"zero", 0, math.MaxInt, 0, false},
		{"positive", 6, 7, 42, false},
		{"negative operand", -8, 3, -24, false},
		{"both negative", -8, -3, 24, false},
		{"min int", math.MinInt, 1, math.MinInt, false},
		{"min int negated", math.MinInt, -1, 0, true},
		{"wraps to zero", 1 << 61, 8, 0, true},
		{"large square", 1 << 40, 1 << 40, 0, true},
		{"negative overflow", -(1 << 62), 4, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MulInt(tc.a, tc.b)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAddInt(t *testing.T) {
	got, err := AddInt(math.MaxInt-1, 1)
	assert.NoError(t, err)
	assert.Equal(t, math.MaxInt, got)

	got, err = AddInt(-5, -3)
	assert.NoError(t, err)
	assert.Equal(t, -8, got)

	_, err = AddInt(math.MaxInt, 1)
	assert.Error(t, err)

	_, err = AddInt(math.MinInt, -1)
	assert.Error(t, err)
}
