package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQWidth(t *testing.T) {
	for _, bits := range []int{8, 16, 32, 64} {
		w, err := QWidth(bits)
		require.NoError(t, err)
		assert.Equal(t, bits/8, w)
	}

	for _, bits := range []int{0, 4, 12, 24, 48, 128} {
		_, err := QWidth(bits)
		assert.ErrorIs(t, err, ErrUnsupportedWidth, "bits %d", bits)
	}
}

func TestQToFloat(t *testing.T) {
	// Q8.8: 0x0180 = 384 / 256 = 1.5
	v, err := QToFloat(16, 8, []byte{0x80, 0x01})
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	// Q0.8: 0x40 = 64 / 256
	v, err = QToFloat(8, 8, []byte{0x40})
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)

	// No fractional bits is a plain integer.
	v, err = QToFloat(32, 0, PutUint32(123456))
	require.NoError(t, err)
	assert.Equal(t, 123456.0, v)
}

func TestFloatToQRounds(t *testing.T) {
	// 1.3 * 256 = 332.8 -> 333
	b, err := FloatToQ(16, 8, 1.3)
	require.NoError(t, err)
	raw, err := Uint16(b)
	require.NoError(t, err)
	assert.Equal(t, uint16(333), raw)
}

func TestQRoundTripWithinOneStep(t *testing.T) {
	tests := []struct {
		total, frac int
		value       float64
	}{
		{8, 4, 3.7},
		{16, 8, 100.123},
		{16, 15, 0.99},
		{32, 16, 12345.678},
		{64, 32, 98765.4321},
		{64, 0, 42},
	}
	for _, tt := range tests {
		b, err := FloatToQ(tt.total, tt.frac, tt.value)
		require.NoError(t, err)
		assert.Len(t, b, tt.total/8)

		got, err := QToFloat(tt.total, tt.frac, b)
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(got-tt.value), QStep(tt.frac),
			"Q%d.%d round trip of %v gave %v", tt.total-tt.frac, tt.frac, tt.value, got)
	}
}

func TestQUnsupportedWidth(t *testing.T) {
	_, err := QToFloat(24, 8, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrUnsupportedWidth)

	_, err = FloatToQ(24, 8, 1.0)
	assert.ErrorIs(t, err, ErrUnsupportedWidth)
}

func TestQFractionalBitsAboveTotal(t *testing.T) {
	// Q8 with 10 fractional bits: 0x80 = 128 / 1024
	v, err := QToFloat(8, 10, []byte{0x80})
	require.NoError(t, err)
	assert.Equal(t, 0.125, v)

	b, err := FloatToQ(8, 10, 0.125)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80}, b)

	_, err = FloatToQ(8, 10, 0.25)
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestQInvalidFractionalBits(t *testing.T) {
	_, err := FloatToQ(16, 64, 1.0)
	assert.ErrorIs(t, err, ErrFractionalBits)

	_, err = QToFloat(16, -1, []byte{0, 0})
	assert.ErrorIs(t, err, ErrFractionalBits)
}

func TestFloatToQOutOfRange(t *testing.T) {
	_, err := FloatToQ(8, 4, -1)
	assert.ErrorIs(t, err, ErrValueOutOfRange)

	// Q4.4 tops out just below 16.
	_, err = FloatToQ(8, 4, 16)
	assert.ErrorIs(t, err, ErrValueOutOfRange)

	_, err = FloatToQ(16, 8, math.NaN())
	assert.ErrorIs(t, err, ErrValueOutOfRange)

	b, err := FloatToQ(8, 4, 15.9375)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF}, b)
}
