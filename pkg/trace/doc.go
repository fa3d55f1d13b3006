// Package trace provides structured wire-level tracing for SCPI sessions.
//
// This package defines the Logger interface and Event types for capturing
// every command, query and reply exchanged with an instrument, plus session
// state changes and the settling delays the driver inserts between commands.
// It is separate from operational logging (slog) - a trace is a complete
// machine-readable record of one session, suitable for replay and debugging.
//
// # Basic Usage
//
// Sessions accept a Logger implementation:
//
//	// For development: mirror the wire traffic to the console via slog
//	sess := scpi.NewSession(conn, scpi.WithLogger(trace.NewSlogAdapter(slog.Default())))
//
//	// For production: write to a binary file
//	fl, _ := trace.NewFileLogger("scope.trace")
//	sess := scpi.NewSession(conn, scpi.WithLogger(fl))
//
//	// Both at once
//	sess := scpi.NewSession(conn, scpi.WithLogger(trace.NewMultiLogger(
//	    trace.NewSlogAdapter(slog.Default()), fl)))
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events. The rtmctl trace command
// provides viewing and filtering.
package trace
