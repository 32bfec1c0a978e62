package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mash-protocol/mash-regs/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Traffic           map[log.Direction]*TrafficStats
	ErrorsByStage     map[log.Stage]int
	Sessions          map[string]*SessionStats
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// TrafficStats holds transaction totals for one direction.
type TrafficStats struct {
	Transactions int
	Bytes        int
	Passes       int
	FailedPasses int
	PassTime     time.Duration
}

// SessionStats holds statistics for a single registry session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Device    string
	Passes    int
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := newStats()
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func newStats() *Stats {
	return &Stats{
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Traffic:           make(map[log.Direction]*TrafficStats),
		ErrorsByStage:     make(map[log.Stage]int),
		Sessions:          make(map[string]*SessionStats),
	}
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	// Track time range
	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	sess, ok := s.Sessions[event.SessionID]
	if !ok {
		sess = &SessionStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Sessions[event.SessionID] = sess
	}
	sess.Events++
	if event.Timestamp.After(sess.LastSeen) {
		sess.LastSeen = event.Timestamp
	}
	if event.Device != "" && sess.Device == "" {
		sess.Device = event.Device
	}

	traffic, ok := s.Traffic[event.Direction]
	if !ok {
		traffic = &TrafficStats{}
		s.Traffic[event.Direction] = traffic
	}

	switch {
	case event.Block != nil:
		traffic.Transactions++
		traffic.Bytes += event.Block.Length
	case event.Pass != nil:
		sess.Passes++
		traffic.Passes++
		traffic.PassTime += event.Pass.Duration
		if event.Pass.Failed {
			traffic.FailedPasses++
		}
	case event.Error != nil:
		s.ErrorsByStage[event.Error.Stage]++
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Register Transaction Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryBlock, log.CategoryPass, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Traffic by Direction:")
	for _, dir := range []log.Direction{log.DirectionRead, log.DirectionWrite} {
		t, ok := stats.Traffic[dir]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-6s transactions=%d bytes=%d passes=%d failed=%d",
			dir.String()+":", t.Transactions, t.Bytes, t.Passes, t.FailedPasses)
		if t.Passes > 0 {
			fmt.Fprintf(w, " avg_pass=%s", formatDuration(t.PassTime/time.Duration(t.Passes)))
			fmt.Fprintf(w, " tx/pass=%.1f", float64(t.Transactions)/float64(t.Passes))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	total := 0
	for _, n := range stats.ErrorsByStage {
		total += n
	}
	fmt.Fprintf(w, "Errors: %d\n", total)
	for _, stage := range []log.Stage{log.StageConfig, log.StageTransport, log.StageDispatch} {
		if count := stats.ErrorsByStage[stage]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", stage.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	ids := make([]string, 0, len(stats.Sessions))
	for id := range stats.Sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return stats.Sessions[ids[i]].FirstSeen.Before(stats.Sessions[ids[j]].FirstSeen)
	})
	for _, id := range ids {
		sess := stats.Sessions[id]
		fmt.Fprintf(w, "  %s: events=%d passes=%d", shortenSessionID(id), sess.Events, sess.Passes)
		if sess.Device != "" {
			fmt.Fprintf(w, " device=%s", sess.Device)
		}
		fmt.Fprintln(w)
	}
}
