package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mash-protocol/mash-regs/pkg/log"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] DIRECTION CATEGORY
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	session := shortenSessionID(event.SessionID)

	fmt.Fprintf(w, "%s [session:%s] %-5s %s", ts, session, event.Direction.String(), event.Category.String())
	if event.Device != "" {
		fmt.Fprintf(w, " device=%s", event.Device)
	}
	fmt.Fprintln(w)

	switch {
	case event.Block != nil:
		formatBlockDetails(w, event.Block)
	case event.Pass != nil:
		formatPassDetails(w, event.Pass)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatBlockDetails(w io.Writer, b *log.BlockEvent) {
	fmt.Fprintf(w, "  Block: 0x%04X..0x%04X (%d bytes)\n", b.Address, b.End(), b.Length)
	if b.Registrations > 0 {
		fmt.Fprintf(w, "  Registrations: %d\n", b.Registrations)
	}
	if len(b.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(b.Data))
		if b.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatPassDetails(w io.Writer, p *log.PassEvent) {
	fmt.Fprintf(w, "  Registrations: %d  Transactions: %d  Bytes: %d\n", p.Registrations, p.Transactions, p.Bytes)
	fmt.Fprintf(w, "  Duration: %s\n", formatDuration(p.Duration))
	if p.Failed {
		fmt.Fprintln(w, "  Failed: true")
	}
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Stage: %s\n", e.Stage.String())
	if e.Address != nil {
		fmt.Fprintf(w, "  Address: 0x%04X\n", *e.Address)
	}
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseDirectionFlag parses a direction string (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "read", "r":
		return log.DirectionRead, nil
	case "write", "w":
		return log.DirectionWrite, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be read or write)", s)
	}
}

// ParseCategoryFlag parses a category string (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "block":
		return log.CategoryBlock, nil
	case "pass":
		return log.CategoryPass, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be block, pass, or error)", s)
	}
}

// RunView prints every event of the log file matching filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
