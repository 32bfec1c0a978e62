package scatter

import (
	"errors"
	"fmt"
)

// Registry errors.
var (
	// ErrNilTransport indicates a missing read or write function.
	ErrNilTransport = errors.New("transport function is nil")

	// ErrShortBlock indicates a block read returned fewer bytes than a
	// registration in its window needs.
	ErrShortBlock = errors.New("block too short for registration")

	// ErrInvalidLength indicates a registration with a non-positive length.
	ErrInvalidLength = errors.New("invalid register length")
)

// DispatchError wraps an error returned by a decoder callback.
type DispatchError struct {
	// Address is the register whose decoder failed.
	Address int

	// Err is the decoder's error.
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("decode register 0x%X: %v", e.Address, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
