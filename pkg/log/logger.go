package log

// Logger is the interface applications implement to receive transaction log events.
// Use NoopLogger to disable logging.
type Logger interface {
	// Log records a transaction event.
	// The event should be processed quickly; the registry calls Log synchronously.
	Log(event Event)
}

// NoopLogger discards all events. Use when logging is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
