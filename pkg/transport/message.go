package transport

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Op is a block operation code.
type Op uint8

const (
	// OpRead requests Length bytes starting at Address.
	OpRead Op = 1
	// OpWrite writes Data starting at Address.
	OpWrite Op = 2
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpRead:
		return "READ"
	case OpWrite:
		return "WRITE"
	default:
		return fmt.Sprintf("OP(%d)", uint8(o))
	}
}

// Status is the result code of a block operation.
type Status uint8

const (
	StatusOK Status = iota
	StatusOutOfRange
	StatusBadRequest
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusOutOfRange:
		return "OUT_OF_RANGE"
	case StatusBadRequest:
		return "BAD_REQUEST"
	case StatusFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("STATUS(%d)", uint8(s))
	}
}

// Transport errors.
var (
	// ErrOutOfRange indicates a block that does not fit the device's address space.
	ErrOutOfRange = errors.New("block out of range")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = errors.New("bad request")

	// ErrShortResponse indicates a read response with the wrong number of bytes.
	ErrShortResponse = errors.New("short read response")

	// ErrResponseMismatch indicates a response that does not answer the pending request.
	ErrResponseMismatch = errors.New("response does not match request")
)

// Request is a single block operation.
type Request struct {
	ID      uint32 `cbor:"1,keyasint"`
	Op      Op     `cbor:"2,keyasint"`
	Address int    `cbor:"3,keyasint"`
	Length  int    `cbor:"4,keyasint,omitempty"`
	Data    []byte `cbor:"5,keyasint,omitempty"`
}

// Validate checks the request for structural errors.
func (r *Request) Validate() error {
	if r.Address < 0 {
		return fmt.Errorf("%w: negative address %d", ErrBadRequest, r.Address)
	}
	switch r.Op {
	case OpRead:
		if r.Length <= 0 {
			return fmt.Errorf("%w: read length %d", ErrBadRequest, r.Length)
		}
	case OpWrite:
		if len(r.Data) == 0 {
			return fmt.Errorf("%w: empty write", ErrBadRequest)
		}
	default:
		return fmt.Errorf("%w: unknown op %s", ErrBadRequest, r.Op)
	}
	return nil
}

// Response answers a Request with the same ID.
type Response struct {
	ID      uint32 `cbor:"1,keyasint"`
	Status  Status `cbor:"2,keyasint"`
	Data    []byte `cbor:"3,keyasint,omitempty"`
	Message string `cbor:"4,keyasint,omitempty"`
}

// RemoteError is a failure reported by the peer.
type RemoteError struct {
	Status  Status
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote: %s", e.Status)
	}
	return fmt.Sprintf("remote: %s: %s", e.Status, e.Message)
}

// Unwrap maps well-known statuses to the package's sentinel errors.
func (e *RemoteError) Unwrap() error {
	switch e.Status {
	case StatusOutOfRange:
		return ErrOutOfRange
	case StatusBadRequest:
		return ErrBadRequest
	default:
		return nil
	}
}

// statusFor classifies a device error for the wire.
func statusFor(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrOutOfRange):
		return StatusOutOfRange
	case errors.Is(err, ErrBadRequest):
		return StatusBadRequest
	default:
		return StatusFailed
	}
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create transport CBOR encoder mode: %v", err))
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create transport CBOR decoder mode: %v", err))
	}
}

func encode(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

func decode(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
