// Package log provides structured transaction logging for register access.
//
// This package defines the Logger interface and Event types for capturing
// every block transaction a register registry performs. It is separate from
// operational logging (slog) - the transaction log is a complete
// machine-readable trace of what was read from and written to a device.
//
// # Basic Usage
//
// Registries accept a Logger through scatter.WithLogger:
//
//	// For development: log to console via slog
//	reg := scatter.New(scatter.WithLogger(log.NewSlogAdapter(slog.Default())))
//
//	// For production: write to binary file
//	fl, _ := log.NewFileLogger("/var/log/mash/sensor.rlog")
//	reg := scatter.New(scatter.WithLogger(fl))
//
//	// Both: use MultiLogger
//	reg := scatter.New(scatter.WithLogger(log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fl,
//	)))
//
// # Event Types
//
// Each event carries exactly one payload:
//   - Block: one transport transaction (BlockEvent)
//   - Pass: summary of a complete Read or Write pass (PassEvent)
//   - Error: a failure during a pass (ErrorEventData)
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with the .rlog extension.
// The mash-regs CLI provides viewing and statistics via "mash-regs log".
package log
