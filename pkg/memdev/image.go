package memdev

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mash-protocol/mash-regs/pkg/transport"
)

// Image is an in-memory device image.
// It is not safe for concurrent use; wrap it with transport.Serialize when
// shared.
type Image struct {
	mem    []byte
	reads  int
	writes int
}

// New creates a zero-filled image of size bytes.
func New(size int) *Image {
	if size < 0 {
		size = 0
	}
	return &Image{mem: make([]byte, size)}
}

// FromBytes creates an image holding a copy of data.
func FromBytes(data []byte) *Image {
	return &Image{mem: append([]byte(nil), data...)}
}

// Open loads a raw image file.
func Open(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return &Image{mem: data}, nil
}

// OpenOrCreate loads path, or returns a zero-filled image of size bytes if
// the file does not exist. An existing file smaller than size is zero-padded.
func OpenOrCreate(path string, size int) (*Image, error) {
	img, err := Open(path)
	if err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return New(size), nil
		}
		return nil, err
	}
	if len(img.mem) < size {
		img.mem = append(img.mem, make([]byte, size-len(img.mem))...)
	}
	return img, nil
}

// Save writes the image to path, creating parent directories as needed.
func (i *Image) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, i.mem, 0644)
}

// Size returns the image size in bytes.
func (i *Image) Size() int {
	return len(i.mem)
}

// Bytes returns a copy of the image contents.
func (i *Image) Bytes() []byte {
	return append([]byte(nil), i.mem...)
}

// Reads returns the number of successful block reads served.
func (i *Image) Reads() int { return i.reads }

// Writes returns the number of successful block writes served.
func (i *Image) Writes() int { return i.writes }

// ResetCounters zeroes the transaction counters.
func (i *Image) ResetCounters() {
	i.reads, i.writes = 0, 0
}

// ReadBlock returns a copy of length bytes starting at address.
func (i *Image) ReadBlock(ctx context.Context, address, length int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := i.check(address, length); err != nil {
		return nil, err
	}
	i.reads++
	return append([]byte(nil), i.mem[address:address+length]...), nil
}

// WriteBlock copies data into the image starting at address.
func (i *Image) WriteBlock(ctx context.Context, address int, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := i.check(address, len(data)); err != nil {
		return err
	}
	i.writes++
	copy(i.mem[address:], data)
	return nil
}

// check compares without adding so huge addresses cannot wrap around.
func (i *Image) check(address, length int) error {
	if address < 0 || length < 0 || address > len(i.mem) || length > len(i.mem)-address {
		return fmt.Errorf("%w: 0x%X+%d outside image of %d bytes",
			transport.ErrOutOfRange, address, length, len(i.mem))
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ transport.BlockDevice = (*Image)(nil)
