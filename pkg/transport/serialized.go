package transport

import (
	"context"
	"sync"
)

// Serialized wraps a BlockDevice so that at most one block operation runs at
// a time. Registries do not lock; devices shared between goroutines (for
// example by a Server with several connections) must be wrapped.
type Serialized struct {
	mu  sync.Mutex
	dev BlockDevice
}

// Serialize returns dev wrapped in a mutex. A device that is already
// serialized is returned unchanged.
func Serialize(dev BlockDevice) *Serialized {
	if s, ok := dev.(*Serialized); ok {
		return s
	}
	return &Serialized{dev: dev}
}

// ReadBlock reads from the underlying device while holding the lock.
func (s *Serialized) ReadBlock(ctx context.Context, address, length int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.ReadBlock(ctx, address, length)
}

// WriteBlock writes to the underlying device while holding the lock.
func (s *Serialized) WriteBlock(ctx context.Context, address int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.WriteBlock(ctx, address, data)
}
