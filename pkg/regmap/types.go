package regmap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mash-protocol/mash-regs/pkg/codec"
)

// Type is the value type of a register.
type Type string

// Register value types.
const (
	TypeU8    Type = "u8"
	TypeU16   Type = "u16"
	TypeU32   Type = "u32"
	TypeU64   Type = "u64"
	TypeQ     Type = "q"
	TypeStats Type = "stats"
)

// Access is the access mode of a register.
type Access string

// Access modes.
const (
	AccessRead      Access = "r"
	AccessWrite     Access = "w"
	AccessReadWrite Access = "rw"
)

// Binding errors.
var (
	ErrUnknownRegister = errors.New("unknown register")
	ErrNotReadable     = errors.New("register is not readable")
	ErrNotWritable     = errors.New("register is not writable")
	ErrInvalidValue    = errors.New("invalid register value")
)

// Register describes one named register.
type Register struct {
	Name           string  `yaml:"name"`
	Address        int     `yaml:"address"`
	Type           Type    `yaml:"type"`
	TotalBits      int     `yaml:"total_bits,omitempty"`
	FractionalBits int     `yaml:"fractional_bits,omitempty"`
	Scale          float64 `yaml:"scale,omitempty"`
	StatsPeriod    int     `yaml:"stats_period,omitempty"`
	Unit           string  `yaml:"unit,omitempty"`
	Access         Access  `yaml:"access,omitempty"`
	Description    string  `yaml:"description,omitempty"`
}

// Readable reports whether the register may be read.
func (r *Register) Readable() bool {
	return r.Access == AccessRead || r.Access == AccessReadWrite
}

// Writable reports whether the register may be written.
func (r *Register) Writable() bool {
	return (r.Access == AccessWrite || r.Access == AccessReadWrite) && r.Type != TypeStats
}

// Width returns the number of bytes the register occupies.
func (r *Register) Width() (int, error) {
	switch r.Type {
	case TypeU8:
		return codec.Uint8Size, nil
	case TypeU16:
		return codec.Uint16Size, nil
	case TypeU32:
		return codec.Uint32Size, nil
	case TypeU64:
		return codec.Uint64Size, nil
	case TypeQ:
		return codec.CheckQ(r.TotalBits, r.FractionalBits)
	case TypeStats:
		return codec.StatsSize, nil
	default:
		return 0, fmt.Errorf("unknown register type %q", r.Type)
	}
}

// Value is a decoded register value.
type Value struct {
	Name string
	Type Type
	Unit string

	// Uint holds u8..u64 values.
	Uint uint64

	// Float holds q values.
	Float float64

	// Stats holds stats values.
	Stats codec.Stats
}

// String formats the value with its unit.
func (v Value) String() string {
	var s string
	switch v.Type {
	case TypeQ:
		s = fmt.Sprintf("%g", v.Float)
	case TypeStats:
		s = v.Stats.String()
	default:
		s = fmt.Sprintf("%d (0x%X)", v.Uint, v.Uint)
	}
	if v.Unit != "" {
		s += " " + v.Unit
	}
	return s
}

// LoadError provides details about a register map loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Register is the name or index of the offending register, if any.
	Register string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	var parts []string
	if e.File != "" {
		parts = append(parts, e.File)
	}
	if e.Register != "" {
		parts = append(parts, "register "+e.Register)
	}
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	parts = append(parts, msg)
	return strings.Join(parts, ": ")
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
