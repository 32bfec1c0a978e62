package scatter

import (
	"github.com/mash-protocol/mash-regs/pkg/codec"
	"github.com/mash-protocol/mash-regs/pkg/log"
)

// ReadBytes registers a raw read of length bytes at address.
// fn receives a slice that is only valid for the duration of the call.
func (r *Registry) ReadBytes(address, length int, fn func([]byte) error) *Registry {
	var decode Decoder
	if fn != nil {
		decode = Decoder(fn)
	}
	return r.AddRegistration(address, decode, length, nil)
}

// ReadByte registers a 1-byte read at address.
func (r *Registry) ReadByte(address int, fn func(byte) error) *Registry {
	var decode Decoder
	if fn != nil {
		decode = func(b []byte) error { return fn(b[0]) }
	}
	return r.AddRegistration(address, decode, codec.Uint8Size, nil)
}

// ReadUInt16 registers a little-endian 2-byte read at address.
func (r *Registry) ReadUInt16(address int, fn func(uint16) error) *Registry {
	var decode Decoder
	if fn != nil {
		decode = func(b []byte) error {
			v, err := codec.Uint16(b)
			if err != nil {
				return err
			}
			return fn(v)
		}
	}
	return r.AddRegistration(address, decode, codec.Uint16Size, nil)
}

// ReadUInt32 registers a little-endian 4-byte read at address.
func (r *Registry) ReadUInt32(address int, fn func(uint32) error) *Registry {
	var decode Decoder
	if fn != nil {
		decode = func(b []byte) error {
			v, err := codec.Uint32(b)
			if err != nil {
				return err
			}
			return fn(v)
		}
	}
	return r.AddRegistration(address, decode, codec.Uint32Size, nil)
}

// ReadUInt64 registers a little-endian 8-byte read at address.
func (r *Registry) ReadUInt64(address int, fn func(uint64) error) *Registry {
	var decode Decoder
	if fn != nil {
		decode = func(b []byte) error {
			v, err := codec.Uint64(b)
			if err != nil {
				return err
			}
			return fn(v)
		}
	}
	return r.AddRegistration(address, decode, codec.Uint64Size, nil)
}

// ReadQAsDouble registers a read of an unsigned fixed-point value with
// totalBits bits, fractionalBits of them after the binary point. totalBits
// must be 8, 16, 32 or 64.
func (r *Registry) ReadQAsDouble(totalBits, fractionalBits, address int, fn func(float64) error) *Registry {
	width, err := codec.CheckQ(totalBits, fractionalBits)
	if err != nil {
		return r.fail(log.DirectionRead, address, err)
	}
	var decode Decoder
	if fn != nil {
		decode = func(b []byte) error {
			v, err := codec.QToFloat(totalBits, fractionalBits, b)
			if err != nil {
				return err
			}
			return fn(v)
		}
	}
	return r.AddRegistration(address, decode, width, nil)
}

// ReadStats registers a read of a 12-byte statistics record at address.
// scale converts raw units; statsPeriod is the number of samples the sums
// cover and must be positive.
func (r *Registry) ReadStats(address int, scale float64, statsPeriod int, fn func(codec.Stats) error) *Registry {
	if statsPeriod <= 0 {
		return r.fail(log.DirectionRead, address, codec.ErrStatsPeriod)
	}
	var decode Decoder
	if fn != nil {
		decode = func(b []byte) error {
			s, err := codec.DecodeStats(b, scale, statsPeriod)
			if err != nil {
				return err
			}
			return fn(s)
		}
	}
	return r.AddRegistration(address, decode, codec.StatsSize, nil)
}

// WriteBytes registers a raw write of data at address.
func (r *Registry) WriteBytes(address int, data []byte) *Registry {
	if len(data) == 0 {
		return r.fail(log.DirectionWrite, address, ErrInvalidLength)
	}
	return r.AddRegistration(address, nil, len(data), data)
}

// WriteByte registers a 1-byte write of v at address.
func (r *Registry) WriteByte(address int, v byte) *Registry {
	return r.AddRegistration(address, nil, codec.Uint8Size, []byte{v})
}

// WriteUInt16 registers a little-endian 2-byte write of v at address.
func (r *Registry) WriteUInt16(address int, v uint16) *Registry {
	return r.AddRegistration(address, nil, codec.Uint16Size, codec.PutUint16(v))
}

// WriteUInt32 registers a little-endian 4-byte write of v at address.
func (r *Registry) WriteUInt32(address int, v uint32) *Registry {
	return r.AddRegistration(address, nil, codec.Uint32Size, codec.PutUint32(v))
}

// WriteUInt64 registers a little-endian 8-byte write of v at address.
func (r *Registry) WriteUInt64(address int, v uint64) *Registry {
	return r.AddRegistration(address, nil, codec.Uint64Size, codec.PutUint64(v))
}

// WriteQFromDouble registers a write of v as an unsigned fixed-point value
// with totalBits bits and fractionalBits after the binary point. The value
// is rounded to the nearest step.
func (r *Registry) WriteQFromDouble(totalBits, fractionalBits, address int, v float64) *Registry {
	b, err := codec.FloatToQ(totalBits, fractionalBits, v)
	if err != nil {
		return r.fail(log.DirectionWrite, address, err)
	}
	return r.AddRegistration(address, nil, len(b), b)
}
