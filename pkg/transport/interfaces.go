package transport

import "context"

// BlockReader reads a contiguous block of device memory.
type BlockReader interface {
	// ReadBlock returns exactly length bytes starting at address.
	ReadBlock(ctx context.Context, address, length int) ([]byte, error)
}

// BlockWriter writes a contiguous block of device memory.
type BlockWriter interface {
	// WriteBlock writes data starting at address.
	WriteBlock(ctx context.Context, address int, data []byte) error
}

// BlockDevice is a device that supports both block reads and writes.
type BlockDevice interface {
	BlockReader
	BlockWriter
}

// ReadBlockFunc adapts a function to the BlockReader interface.
type ReadBlockFunc func(ctx context.Context, address, length int) ([]byte, error)

// ReadBlock calls f.
func (f ReadBlockFunc) ReadBlock(ctx context.Context, address, length int) ([]byte, error) {
	return f(ctx, address, length)
}

// WriteBlockFunc adapts a function to the BlockWriter interface.
type WriteBlockFunc func(ctx context.Context, address int, data []byte) error

// WriteBlock calls f.
func (f WriteBlockFunc) WriteBlock(ctx context.Context, address int, data []byte) error {
	return f(ctx, address, data)
}

// Compile-time interface satisfaction checks.
var (
	_ BlockReader = ReadBlockFunc(nil)
	_ BlockWriter = WriteBlockFunc(nil)
	_ BlockDevice = (*Serialized)(nil)
	_ BlockDevice = (*Client)(nil)
)
