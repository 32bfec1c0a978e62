package commands

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/mash-protocol/mash-regs/pkg/persistence"
)

// WriteOptions configures the write command.
type WriteOptions struct {
	// Assignments are name=value pairs to write.
	Assignments []Assignment

	// RestorePath writes every writable register found in a saved snapshot.
	RestorePath string
}

// RunWrite writes registers and saves a local image back to disk.
func RunWrite(ctx context.Context, s *Session, opts WriteOptions, w io.Writer) error {
	assignments, err := restoreAssignments(s, opts.RestorePath)
	if err != nil {
		return err
	}
	assignments = append(assignments, opts.Assignments...)
	if len(assignments) == 0 {
		return fmt.Errorf("nothing to write")
	}

	if err := s.Write(ctx, assignments); err != nil {
		return err
	}
	if err := s.SaveImage(); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}

	for _, a := range assignments {
		fmt.Fprintf(w, "%s <- %s\n", a.Name, a.Value)
	}
	return nil
}

// restoreAssignments turns the writable values of a snapshot into
// assignments, ordered by name.
func restoreAssignments(s *Session, path string) ([]Assignment, error) {
	if path == "" {
		return nil, nil
	}
	snap, err := persistence.NewSnapshotStore(path).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("snapshot %s not found", path)
	}

	var out []Assignment
	for name := range snap.Values {
		r, ok := s.Map.Lookup(name)
		if !ok || !r.Writable() {
			continue
		}
		if text, ok := snap.Text(name); ok {
			out = append(out, Assignment{Name: name, Value: text})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
