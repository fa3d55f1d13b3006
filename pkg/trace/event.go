package trace

import (
	"time"
)

// Event is one wire-level occurrence on a session.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates whether data flowed to or from the instrument.
	Direction Direction `cbor:"3,keyasint"`

	// Kind classifies the event.
	Kind Kind `cbor:"4,keyasint"`

	// Payload is the SCPI text on the wire, line terminator stripped.
	// For delay events it names the reason for the pause.
	Payload string `cbor:"5,keyasint,omitempty"`

	// Elapsed is the round-trip time for replies and the duration of
	// delay events. Stored as nanoseconds.
	Elapsed *time.Duration `cbor:"6,keyasint,omitempty"`

	// State carries details of a session state change.
	State *StateEvent `cbor:"7,keyasint,omitempty"`

	// Error carries details of a failed exchange.
	Error *ErrorEvent `cbor:"8,keyasint,omitempty"`
}

// Direction indicates the direction of wire traffic.
type Direction uint8

const (
	// DirectionIn indicates data received from the instrument.
	DirectionIn Direction = 0
	// DirectionOut indicates data sent to the instrument.
	DirectionOut Direction = 1
	// DirectionNone is used for events with no wire traffic (delays, state).
	DirectionNone Direction = 2
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	case DirectionNone:
		return "-"
	default:
		return "UNKNOWN"
	}
}

// Kind classifies the event type.
type Kind uint8

const (
	// KindCommand is a fire-and-forget command write.
	KindCommand Kind = 0
	// KindQuery is the outgoing half of a query.
	KindQuery Kind = 1
	// KindReply is the incoming half of a query.
	KindReply Kind = 2
	// KindDelay is a settling or polling pause inserted by the driver.
	KindDelay Kind = 3
	// KindState is a session state change.
	KindState Kind = 4
	// KindError is a failed exchange.
	KindError Kind = 5
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "COMMAND"
	case KindQuery:
		return "QUERY"
	case KindReply:
		return "REPLY"
	case KindDelay:
		return "DELAY"
	case KindState:
		return "STATE"
	case KindError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StateEvent captures a session lifecycle transition.
type StateEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEvent captures a failed exchange.
type ErrorEvent struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what was being attempted.
	Context string `cbor:"2,keyasint,omitempty"`
}
