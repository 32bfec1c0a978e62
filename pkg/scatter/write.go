package scatter

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/mash-protocol/mash-regs/pkg/log"
	"github.com/mash-protocol/mash-regs/pkg/transport"
)

// Write performs one write pass: one writeBlock call per registration that
// carries a write payload, in registration order. Writes are never merged.
//
// The pass stops at the first transport error.
func (r *Registry) Write(ctx context.Context, writeBlock transport.WriteBlockFunc) error {
	if writeBlock == nil {
		return ErrNilTransport
	}
	if r.err != nil {
		return r.err
	}

	started := time.Now()
	pass := &log.PassEvent{Registrations: len(r.entries)}

	err := r.writeAll(ctx, writeBlock, pass)

	pass.Duration = time.Since(started)
	pass.Failed = err != nil
	r.emit(log.Event{
		Direction: log.DirectionWrite,
		Category:  log.CategoryPass,
		Pass:      pass,
	})
	return err
}

func (r *Registry) writeAll(ctx context.Context, writeBlock transport.WriteBlockFunc, pass *log.PassEvent) error {
	for _, addr := range r.order {
		e := r.entries[addr]
		if e.write == nil {
			continue
		}

		if err := writeBlock(ctx, addr, slices.Clone(e.write)); err != nil {
			address := addr
			err = fmt.Errorf("write block 0x%X+%d: %w", addr, len(e.write), err)
			r.emitError(log.DirectionWrite, log.StageTransport, &address, err)
			return err
		}
		pass.Transactions++
		pass.Bytes += len(e.write)

		r.emit(log.Event{
			Direction: log.DirectionWrite,
			Category:  log.CategoryBlock,
			Block:     log.NewBlockEvent(addr, len(e.write), e.write, 1),
		})
	}
	return nil
}
