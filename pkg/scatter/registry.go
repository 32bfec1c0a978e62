package scatter

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mash-protocol/mash-regs/pkg/log"
)

// Decoder receives the bytes of one register after a read.
// A non-nil error stops the read pass.
type Decoder func(data []byte) error

// entry is the registration state of one address.
type entry struct {
	length   int
	decoders []Decoder
	write    []byte
}

// Registry collects register reads and writes and performs them in as few
// block transactions as possible.
type Registry struct {
	entries map[int]*entry
	order   []int // insertion order of addresses
	err     error

	gap     int
	logger  log.Logger
	session string
	device  string
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[int]*entry),
		gap:     DefaultGapThreshold,
		logger:  log.NoopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.session == "" {
		r.session = uuid.NewString()
	}
	return r
}

// AddRegistration registers decode and/or a write payload at address.
//
// If address is new, an entry with the given length and write payload is
// created. If it already exists, its original length and payload are kept
// and decode, when non-nil, is appended to its decoders.
func (r *Registry) AddRegistration(address int, decode Decoder, length int, write []byte) *Registry {
	e, ok := r.entries[address]
	if !ok {
		if length <= 0 {
			return r.fail(log.DirectionRead, address, fmt.Errorf("%w: %d", ErrInvalidLength, length))
		}
		e = &entry{length: length}
		if write != nil {
			e.write = append([]byte{}, write...)
		}
		r.entries[address] = e
		r.order = append(r.order, address)
	}
	if decode != nil {
		e.decoders = append(e.decoders, decode)
	}
	return r
}

// Err returns the first registration error, if any.
func (r *Registry) Err() error {
	return r.err
}

// Clear removes every registration and the registration error.
func (r *Registry) Clear() {
	clear(r.entries)
	r.order = r.order[:0]
	r.err = nil
}

// Len returns the number of registered addresses.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Addresses returns the registered addresses in ascending order.
func (r *Registry) Addresses() []int {
	addrs := slices.Clone(r.order)
	slices.Sort(addrs)
	return addrs
}

// Length returns the registered length at address.
func (r *Registry) Length(address int) (int, bool) {
	e, ok := r.entries[address]
	if !ok {
		return 0, false
	}
	return e.length, true
}

// PendingWrite returns a copy of the write payload registered at address.
func (r *Registry) PendingWrite(address int) ([]byte, bool) {
	e, ok := r.entries[address]
	if !ok || e.write == nil {
		return nil, false
	}
	return slices.Clone(e.write), true
}

// GapThreshold returns the merge gap threshold.
func (r *Registry) GapThreshold() int {
	return r.gap
}

// SessionID returns the identifier stamped on transaction events.
func (r *Registry) SessionID() string {
	return r.session
}

// fail records a registration error and returns r for chaining.
func (r *Registry) fail(dir log.Direction, address int, err error) *Registry {
	err = fmt.Errorf("register 0x%X: %w", address, err)
	if r.err == nil {
		r.err = err
	}
	r.emitError(dir, log.StageConfig, &address, err)
	return r
}

func (r *Registry) emit(event log.Event) {
	event.Timestamp = time.Now()
	event.SessionID = r.session
	event.Device = r.device
	r.logger.Log(event)
}

func (r *Registry) emitError(dir log.Direction, stage log.Stage, address *int, err error) {
	r.emit(log.Event{
		Direction: dir,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Stage:   stage,
			Message: err.Error(),
			Address: address,
		},
	})
}
