package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStats(t *testing.T) {
	data := EncodeStats(100, 900, 5000, 40000)
	require.Len(t, data, StatsSize)

	s, err := DecodeStats(data, 0.5, 10)
	require.NoError(t, err)

	assert.InDelta(t, 50.0, s.Minimum, 1e-9)
	assert.InDelta(t, 450.0, s.Maximum, 1e-9)
	assert.InDelta(t, 250.0, s.Average, 1e-9)
	assert.InDelta(t, math.Sqrt(4000)*0.5, s.StdDeviation, 1e-9)
}

func TestDecodeStatsLayout(t *testing.T) {
	data := []byte{
		0x01, 0x00, // min
		0x02, 0x00, // max
		0x0A, 0x00, 0x00, 0x00, // sum
		0x19, 0x00, 0x00, 0x00, // squares
	}

	s, err := DecodeStats(data, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, Stats{Minimum: 1, Maximum: 2, Average: 10, StdDeviation: 5}, s)
}

func TestDecodeStatsErrors(t *testing.T) {
	_, err := DecodeStats(make([]byte, StatsSize), 1, 0)
	assert.ErrorIs(t, err, ErrStatsPeriod)

	_, err = DecodeStats(make([]byte, 11), 1, 1)
	assert.ErrorIs(t, err, ErrShortData)
}
