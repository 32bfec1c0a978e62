package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Configuration errors.
var (
	ErrUnsupportedWidth = errors.New("unsupported total bits")
	ErrFractionalBits   = errors.New("invalid fractional bits")
	ErrValueOutOfRange  = errors.New("value out of range")
	ErrStatsPeriod      = errors.New("stats period must be positive")
	ErrShortData        = errors.New("not enough data")
)

// Widths in bytes of the fixed-size integer registers.
const (
	Uint8Size  = 1
	Uint16Size = 2
	Uint32Size = 4
	Uint64Size = 8
)

// Uint16 decodes a little-endian uint16 from the start of b.
func Uint16(b []byte) (uint16, error) {
	if len(b) < Uint16Size {
		return 0, shortData(Uint16Size, len(b))
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint32 decodes a little-endian uint32 from the start of b.
func Uint32(b []byte) (uint32, error) {
	if len(b) < Uint32Size {
		return 0, shortData(Uint32Size, len(b))
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint64 decodes a little-endian uint64 from the start of b.
func Uint64(b []byte) (uint64, error) {
	if len(b) < Uint64Size {
		return 0, shortData(Uint64Size, len(b))
	}
	return binary.LittleEndian.Uint64(b), nil
}

// PutUint16 returns the little-endian encoding of v.
func PutUint16(v uint16) []byte {
	return binary.LittleEndian.AppendUint16(make([]byte, 0, Uint16Size), v)
}

// PutUint32 returns the little-endian encoding of v.
func PutUint32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(make([]byte, 0, Uint32Size), v)
}

// PutUint64 returns the little-endian encoding of v.
func PutUint64(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(make([]byte, 0, Uint64Size), v)
}

// UintN decodes an unsigned integer of the given byte width (1, 2, 4 or 8)
// and widens it to uint64.
func UintN(width int, b []byte) (uint64, error) {
	if len(b) < width {
		return 0, shortData(width, len(b))
	}
	switch width {
	case Uint8Size:
		return uint64(b[0]), nil
	case Uint16Size:
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case Uint32Size:
		return uint64(binary.LittleEndian.Uint32(b)), nil
	case Uint64Size:
		return binary.LittleEndian.Uint64(b), nil
	default:
		return 0, fmt.Errorf("%w: %d bytes", ErrUnsupportedWidth, width)
	}
}

// PutUintN encodes v as a little-endian unsigned integer of the given byte
// width. Values that do not fit return ErrValueOutOfRange.
func PutUintN(width int, v uint64) ([]byte, error) {
	switch width {
	case Uint8Size:
		if v > 0xFF {
			return nil, fmt.Errorf("%w: %d does not fit in 8 bits", ErrValueOutOfRange, v)
		}
		return []byte{byte(v)}, nil
	case Uint16Size:
		if v > 0xFFFF {
			return nil, fmt.Errorf("%w: %d does not fit in 16 bits", ErrValueOutOfRange, v)
		}
		return PutUint16(uint16(v)), nil
	case Uint32Size:
		if v > 0xFFFFFFFF {
			return nil, fmt.Errorf("%w: %d does not fit in 32 bits", ErrValueOutOfRange, v)
		}
		return PutUint32(uint32(v)), nil
	case Uint64Size:
		return PutUint64(v), nil
	default:
		return nil, fmt.Errorf("%w: %d bytes", ErrUnsupportedWidth, width)
	}
}

func shortData(want, got int) error {
	return fmt.Errorf("%w: need %d bytes, got %d", ErrShortData, want, got)
}
