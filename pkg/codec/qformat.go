package codec

import (
	"fmt"
	"math"
)

// QWidth returns the byte width of a Q-format value with the given total
// bit count. Only 8, 16, 32 and 64 are supported.
func QWidth(totalBits int) (int, error) {
	switch totalBits {
	case 8, 16, 32, 64:
		return totalBits / 8, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedWidth, totalBits)
	}
}

// MaxFractionalBits is the largest supported fractional bit count.
const MaxFractionalBits = 63

// CheckQ validates a Q-format layout and returns its byte width.
// fractionalBits may exceed totalBits; the value is still raw / 2^fractionalBits.
func CheckQ(totalBits, fractionalBits int) (int, error) {
	width, err := QWidth(totalBits)
	if err != nil {
		return 0, err
	}
	if fractionalBits < 0 || fractionalBits > MaxFractionalBits {
		return 0, fmt.Errorf("%w: %d for %d total bits", ErrFractionalBits, fractionalBits, totalBits)
	}
	return width, nil
}

// QToFloat decodes an unsigned Q-format value: raw / 2^fractionalBits.
func QToFloat(totalBits, fractionalBits int, b []byte) (float64, error) {
	width, err := CheckQ(totalBits, fractionalBits)
	if err != nil {
		return 0, err
	}
	raw, err := UintN(width, b)
	if err != nil {
		return 0, err
	}
	return float64(raw) / math.Ldexp(1, fractionalBits), nil
}

// FloatToQ encodes v as an unsigned Q-format value:
// raw = round(v * 2^fractionalBits).
func FloatToQ(totalBits, fractionalBits int, v float64) ([]byte, error) {
	width, err := CheckQ(totalBits, fractionalBits)
	if err != nil {
		return nil, err
	}

	scaled := math.Round(v * math.Ldexp(1, fractionalBits))
	if math.IsNaN(scaled) || scaled < 0 {
		return nil, fmt.Errorf("%w: %v is not representable as unsigned Q%d.%d",
			ErrValueOutOfRange, v, totalBits-fractionalBits, fractionalBits)
	}
	// 2^totalBits is exact in float64; anything at or above it overflows.
	if scaled >= math.Ldexp(1, totalBits) {
		return nil, fmt.Errorf("%w: %v overflows unsigned Q%d.%d",
			ErrValueOutOfRange, v, totalBits-fractionalBits, fractionalBits)
	}
	return PutUintN(width, uint64(scaled))
}

// QStep returns the quantization step of a Q-format value, 2^-fractionalBits.
func QStep(fractionalBits int) float64 {
	return math.Ldexp(1, -fractionalBits)
}
