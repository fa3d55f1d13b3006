package scpi

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrNotConnected is returned for operations on a closed or lost
	// session. The session cannot recover; dial a new one.
	ErrNotConnected = errors.New("session not connected")

	// ErrEmptyResponse indicates a query completed with no reply text.
	ErrEmptyResponse = errors.New("empty response")

	// ErrCompletionTimeout indicates the instrument did not report
	// operation-complete within the session's completion budget.
	ErrCompletionTimeout = errors.New("completion wait timed out")
)

// TransportError reports a failed wire operation. The session is marked
// disconnected when one occurs.
type TransportError struct {
	Op  string // "send" or "receive"
	Cmd string // the command in flight
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s failed for %q: %v", e.Op, e.Cmd, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports a reply without the expected textual shape.
// Non-conforming replies are surfaced, never coerced to a default.
type ProtocolError struct {
	Cmd      string // the query that produced the reply, if known
	Response string // the offending reply, terminator stripped
	Reason   string
	Err      error // underlying cause, if any
}

func (e *ProtocolError) Error() string {
	if e.Cmd == "" {
		return fmt.Sprintf("protocol error: %s: %q", e.Reason, e.Response)
	}
	return fmt.Sprintf("protocol error on %q: %s: %q", e.Cmd, e.Reason, e.Response)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
