// Package codec implements the binary value formats of a flat register map.
//
// Every multi-byte value is little-endian, independent of the host byte
// order. The package covers:
//   - Unsigned integers of 8, 16, 32 and 64 bits
//   - Unsigned Q-format fixed-point numbers (raw / 2^fractionalBits)
//   - The packed 12-byte statistics record (min, max, sum, square sum)
//
// Configuration problems (unsupported widths, bad fractional bit counts,
// values that do not fit) are reported with sentinel errors so callers can
// tell them apart from transport failures with errors.Is.
package codec
