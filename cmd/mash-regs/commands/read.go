package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mash-protocol/mash-regs/pkg/persistence"
)

// ReadOptions configures the read command.
type ReadOptions struct {
	// Names limits the read to these registers (default: all readable).
	Names []string

	// SnapshotPath saves the values as a JSON snapshot when set. When
	// polling, the snapshot is rewritten after every pass.
	SnapshotPath string

	// Interval repeats the read until ctx is cancelled when > 0.
	Interval time.Duration
}

// RunRead reads registers and prints one line per register.
func RunRead(ctx context.Context, s *Session, opts ReadOptions, w io.Writer) error {
	if opts.Interval <= 0 {
		return readOnce(ctx, s, opts, w)
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()
	for {
		fmt.Fprintf(w, "--- %s\n", time.Now().Format(time.RFC3339))
		if err := readOnce(ctx, s, opts, w); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func readOnce(ctx context.Context, s *Session, opts ReadOptions, w io.Writer) error {
	readings, sessionID, err := s.Read(ctx, opts.Names)
	if err != nil {
		return err
	}

	printReadings(w, readings)

	if opts.SnapshotPath != "" {
		snap := persistence.NewSnapshot(s.Map.Device, sessionID)
		for _, r := range readings {
			snap.Record(r.Register.Name, r.Value)
		}
		if err := persistence.NewSnapshotStore(opts.SnapshotPath).Save(snap); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
	}
	return nil
}

func printReadings(w io.Writer, readings []Reading) {
	width := 0
	for _, r := range readings {
		width = max(width, len(r.Register.Name))
	}
	for _, r := range readings {
		fmt.Fprintf(w, "0x%04X  %-*s  %s\n", r.Register.Address, width, r.Register.Name, r.Value)
	}
}
