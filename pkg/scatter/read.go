package scatter

import (
	"context"
	"fmt"
	"time"

	"github.com/mash-protocol/mash-regs/pkg/log"
	"github.com/mash-protocol/mash-regs/pkg/transport"
)

// Read performs one read pass: one readBlock call per merge window, then
// each registration's decoders in registration order.
//
// The pass stops at the first transport or decoder error. Decoders that
// ran before the failure are not undone.
func (r *Registry) Read(ctx context.Context, readBlock transport.ReadBlockFunc) error {
	if readBlock == nil {
		return ErrNilTransport
	}
	if r.err != nil {
		return r.err
	}

	started := time.Now()
	pass := &log.PassEvent{Registrations: len(r.entries)}

	err := r.readPlan(ctx, r.Compile(), readBlock, pass)

	pass.Duration = time.Since(started)
	pass.Failed = err != nil
	r.emit(log.Event{
		Direction: log.DirectionRead,
		Category:  log.CategoryPass,
		Pass:      pass,
	})
	return err
}

func (r *Registry) readPlan(ctx context.Context, plan *Plan, readBlock transport.ReadBlockFunc, pass *log.PassEvent) error {
	for _, w := range plan.windows {
		block, err := readBlock(ctx, w.Start, w.Length)
		if err != nil {
			start := w.Start
			err = fmt.Errorf("read block 0x%X+%d: %w", w.Start, w.Length, err)
			r.emitError(log.DirectionRead, log.StageTransport, &start, err)
			return err
		}
		pass.Transactions++
		pass.Bytes += len(block)

		r.emit(log.Event{
			Direction: log.DirectionRead,
			Category:  log.CategoryBlock,
			Block:     log.NewBlockEvent(w.Start, w.Length, block, len(w.slots)),
		})

		if err := r.dispatch(w, block); err != nil {
			return err
		}
	}
	return nil
}

// dispatch hands every slot of w its part of block.
func (r *Registry) dispatch(w Window, block []byte) error {
	for _, s := range w.slots {
		offset := s.address - w.Start
		if offset+s.length > len(block) {
			addr := s.address
			err := fmt.Errorf("register 0x%X needs bytes %d..%d of %d-byte block at 0x%X: %w",
				s.address, offset, offset+s.length, len(block), w.Start, ErrShortBlock)
			r.emitError(log.DirectionRead, log.StageTransport, &addr, err)
			return err
		}

		data := make([]byte, s.length)
		copy(data, block[offset:offset+s.length])

		for _, decode := range s.decoders {
			if err := decode(data); err != nil {
				addr := s.address
				derr := &DispatchError{Address: s.address, Err: err}
				r.emitError(log.DirectionRead, log.StageDispatch, &addr, derr)
				return derr
			}
		}
	}
	return nil
}
