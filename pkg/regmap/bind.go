package regmap

import (
	"fmt"
	"strconv"

	"github.com/mash-protocol/mash-regs/pkg/codec"
	"github.com/mash-protocol/mash-regs/pkg/scatter"
)

// ValueFunc receives a decoded register value.
type ValueFunc func(name string, v Value) error

// BindReads registers a typed read for every readable register.
func (m *Map) BindReads(reg *scatter.Registry, fn ValueFunc) *scatter.Registry {
	for i := range m.Registers {
		r := &m.Registers[i]
		if r.Readable() {
			bindRead(reg, r, fn)
		}
	}
	return reg
}

// BindRead registers a typed read for the named register.
func (m *Map) BindRead(reg *scatter.Registry, name string, fn ValueFunc) error {
	r, ok := m.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRegister, name)
	}
	if !r.Readable() {
		return fmt.Errorf("%w: %s", ErrNotReadable, name)
	}
	bindRead(reg, r, fn)
	return reg.Err()
}

func bindRead(reg *scatter.Registry, r *Register, fn ValueFunc) {
	v := Value{Name: r.Name, Type: r.Type, Unit: r.Unit}
	emitUint := func(u uint64) error {
		out := v
		out.Uint = u
		return fn(r.Name, out)
	}

	switch r.Type {
	case TypeU8:
		reg.ReadByte(r.Address, func(b byte) error { return emitUint(uint64(b)) })
	case TypeU16:
		reg.ReadUInt16(r.Address, func(u uint16) error { return emitUint(uint64(u)) })
	case TypeU32:
		reg.ReadUInt32(r.Address, func(u uint32) error { return emitUint(uint64(u)) })
	case TypeU64:
		reg.ReadUInt64(r.Address, emitUint)
	case TypeQ:
		reg.ReadQAsDouble(r.TotalBits, r.FractionalBits, r.Address, func(f float64) error {
			out := v
			out.Float = f
			return fn(r.Name, out)
		})
	case TypeStats:
		reg.ReadStats(r.Address, r.Scale, r.StatsPeriod, func(s codec.Stats) error {
			out := v
			out.Stats = s
			return fn(r.Name, out)
		})
	}
}

// BindWrite parses text as a value of the named register and registers the
// encoded write. Integers accept the 0x, 0o and 0b prefixes.
func (m *Map) BindWrite(reg *scatter.Registry, name, text string) error {
	r, ok := m.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRegister, name)
	}
	if !r.Writable() {
		return fmt.Errorf("%w: %s", ErrNotWritable, name)
	}

	if r.Type == TypeQ {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidValue, name, text, err)
		}
		reg.WriteQFromDouble(r.TotalBits, r.FractionalBits, r.Address, f)
		return reg.Err()
	}

	width, err := r.Width()
	if err != nil {
		return err
	}
	u, err := strconv.ParseUint(text, 0, width*8)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalidValue, name, text, err)
	}

	switch r.Type {
	case TypeU8:
		reg.WriteByte(r.Address, byte(u))
	case TypeU16:
		reg.WriteUInt16(r.Address, uint16(u))
	case TypeU32:
		reg.WriteUInt32(r.Address, uint32(u))
	case TypeU64:
		reg.WriteUInt64(r.Address, u)
	}
	return reg.Err()
}
