package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes transaction events to an slog.Logger.
// Useful for development when you want to see register traffic in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger. Errors are logged at Warn level,
// everything else at Debug.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("category", event.Category.String()),
	}
	if event.Device != "" {
		attrs = append(attrs, slog.String("device", event.Device))
	}

	level := slog.LevelDebug
	switch {
	case event.Block != nil:
		attrs = append(attrs,
			slog.Int("address", event.Block.Address),
			slog.Int("length", event.Block.Length),
		)
		if event.Block.Registrations > 0 {
			attrs = append(attrs, slog.Int("registrations", event.Block.Registrations))
		}
		if event.Block.Truncated {
			attrs = append(attrs, slog.Bool("truncated", true))
		}
	case event.Pass != nil:
		attrs = append(attrs,
			slog.Int("registrations", event.Pass.Registrations),
			slog.Int("transactions", event.Pass.Transactions),
			slog.Int("bytes", event.Pass.Bytes),
			slog.Duration("duration", event.Pass.Duration),
		)
		if event.Pass.Failed {
			attrs = append(attrs, slog.Bool("failed", true))
		}
	case event.Error != nil:
		level = slog.LevelWarn
		attrs = append(attrs,
			slog.String("stage", event.Error.Stage.String()),
			slog.String("error", event.Error.Message),
		)
		if event.Error.Address != nil {
			attrs = append(attrs, slog.Int("address", *event.Error.Address))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "register", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
