package rtm3004

import (
	"errors"
	"fmt"
)

// Driver errors.
var (
	// ErrBadChannel reports a channel number outside 1..4.
	ErrBadChannel = errors.New("bad channel number")

	// ErrBadMath reports a math waveform number outside 1..5.
	ErrBadMath = errors.New("bad math waveform number")

	// ErrBadSlot reports a measurement slot number outside 1..8.
	ErrBadSlot = errors.New("bad measurement slot number")

	// ErrNotConfigured reports an operation that depends on a canned
	// setup routine which has not run on this scope.
	ErrNotConfigured = errors.New("setup not applied")

	// ErrClippingUnresolved reports an auto-range run that exhausted its
	// attempt budget with the measurement still saturated.
	ErrClippingUnresolved = errors.New("clipping unresolved")
)

// PreconditionError rejects an operation invoked before the setup it
// depends on. It unwraps to ErrNotConfigured.
type PreconditionError struct {
	Op   string // the rejected operation
	Need string // the routine that must run first
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %v: run %s first", e.Op, ErrNotConfigured, e.Need)
}

func (e *PreconditionError) Unwrap() error { return ErrNotConfigured }
