package log

import (
	"time"
)

// MaxBlockData is the number of payload bytes kept in a BlockEvent.
// Longer blocks are truncated and flagged.
const MaxBlockData = 256

// Event represents a register transaction log event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the registry that produced the event (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates whether data was read from or written to the device.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Device is an optional device label (from the register map).
	Device string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Block *BlockEvent     `cbor:"10,keyasint,omitempty"`
	Pass  *PassEvent      `cbor:"11,keyasint,omitempty"`
	Error *ErrorEventData `cbor:"12,keyasint,omitempty"`
}

// Direction indicates the direction of data flow.
type Direction uint8

const (
	// DirectionRead indicates data read from the device.
	DirectionRead Direction = 0
	// DirectionWrite indicates data written to the device.
	DirectionWrite Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionRead:
		return "READ"
	case DirectionWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryBlock indicates a single block transaction.
	CategoryBlock Category = 0
	// CategoryPass indicates the summary of a complete pass.
	CategoryPass Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryBlock:
		return "BLOCK"
	case CategoryPass:
		return "PASS"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// BlockEvent captures one transport transaction.
type BlockEvent struct {
	// Address is the start address of the block.
	Address int `cbor:"1,keyasint"`

	// Length is the number of bytes requested or written.
	Length int `cbor:"2,keyasint"`

	// Data is the block payload (may be truncated for large blocks).
	Data []byte `cbor:"3,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"4,keyasint,omitempty"`

	// Registrations is the number of registered addresses served by the block.
	Registrations int `cbor:"5,keyasint,omitempty"`
}

// NewBlockEvent builds a BlockEvent, copying at most MaxBlockData bytes of data.
func NewBlockEvent(address, length int, data []byte, registrations int) *BlockEvent {
	b := &BlockEvent{
		Address:       address,
		Length:        length,
		Registrations: registrations,
	}
	n := len(data)
	if n > MaxBlockData {
		n = MaxBlockData
		b.Truncated = true
	}
	if n > 0 {
		b.Data = append([]byte(nil), data[:n]...)
	}
	return b
}

// End returns the first address after the block.
func (b *BlockEvent) End() int {
	return b.Address + b.Length
}

// PassEvent summarizes a complete Read or Write pass.
type PassEvent struct {
	// Registrations is the number of registered addresses in the registry.
	Registrations int `cbor:"1,keyasint"`

	// Transactions is the number of transport calls issued.
	Transactions int `cbor:"2,keyasint"`

	// Bytes is the total number of bytes transferred.
	Bytes int `cbor:"3,keyasint"`

	// Duration is the wall time of the pass.
	// Stored as nanoseconds.
	Duration time.Duration `cbor:"4,keyasint"`

	// Failed indicates the pass stopped on an error.
	Failed bool `cbor:"5,keyasint,omitempty"`
}

// Stage indicates where in a pass an error occurred.
type Stage uint8

const (
	// StageConfig is a registration or configuration error found before I/O.
	StageConfig Stage = 0
	// StageTransport is an error returned by the block transport.
	StageTransport Stage = 1
	// StageDispatch is an error returned by a decoder callback.
	StageDispatch Stage = 2
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageConfig:
		return "CONFIG"
	case StageTransport:
		return "TRANSPORT"
	case StageDispatch:
		return "DISPATCH"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any stage.
type ErrorEventData struct {
	// Stage where the error occurred.
	Stage Stage `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Address is the register or block address involved (if any).
	Address *int `cbor:"3,keyasint,omitempty"`
}
