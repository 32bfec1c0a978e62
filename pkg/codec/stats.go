package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// StatsSize is the width of a packed statistics record in bytes.
const StatsSize = 12

// Stats is a decoded statistics record.
type Stats struct {
	Minimum      float64 `json:"minimum"`
	Maximum      float64 `json:"maximum"`
	Average      float64 `json:"average"`
	StdDeviation float64 `json:"std_deviation"`
}

// String returns a compact representation of the record.
func (s Stats) String() string {
	return fmt.Sprintf("min=%g max=%g avg=%g std=%g", s.Minimum, s.Maximum, s.Average, s.StdDeviation)
}

// DecodeStats decodes a packed statistics record.
//
// Layout (little-endian):
//
//	[0:2]  uint16 minimum
//	[2:4]  uint16 maximum
//	[4:8]  uint32 sum over the period
//	[8:12] uint32 sum of squares over the period
//
// The average is sum/period and the standard deviation sqrt(squares/period);
// every field is multiplied by scale.
func DecodeStats(b []byte, scale float64, period int) (Stats, error) {
	if period <= 0 {
		return Stats{}, fmt.Errorf("%w: %d", ErrStatsPeriod, period)
	}
	if len(b) < StatsSize {
		return Stats{}, shortData(StatsSize, len(b))
	}

	p := float64(period)
	return Stats{
		Minimum:      float64(binary.LittleEndian.Uint16(b[0:2])) * scale,
		Maximum:      float64(binary.LittleEndian.Uint16(b[2:4])) * scale,
		Average:      float64(binary.LittleEndian.Uint32(b[4:8])) / p * scale,
		StdDeviation: math.Sqrt(float64(binary.LittleEndian.Uint32(b[8:12]))/p) * scale,
	}, nil
}

// EncodeStats packs raw statistics fields into a 12-byte record.
func EncodeStats(minimum, maximum uint16, sum, squareSum uint32) []byte {
	b := make([]byte, 0, StatsSize)
	b = binary.LittleEndian.AppendUint16(b, minimum)
	b = binary.LittleEndian.AppendUint16(b, maximum)
	b = binary.LittleEndian.AppendUint32(b, sum)
	b = binary.LittleEndian.AppendUint32(b, squareSum)
	return b
}
