package rtm3004

import "fmt"

// Chan identifies one of the four analog input channels.
type Chan int

// The analog input channels.
const (
	Ch1 Chan = 1
	Ch2 Chan = 2
	Ch3 Chan = 3
	Ch4 Chan = 4
)

// NewChan validates n as an analog channel number.
func NewChan(n int) (Chan, error) {
	if n < 1 || n > 4 {
		return 0, fmt.Errorf("%w: %d (want 1..4)", ErrBadChannel, n)
	}
	return Chan(n), nil
}

// String returns the channel's source mnemonic as used in command
// arguments and replies.
func (c Chan) String() string { return fmt.Sprintf("CH%d", int(c)) }

// Math identifies one of the five math waveforms.
type Math int

// The math waveforms.
const (
	M1 Math = 1
	M2 Math = 2
	M3 Math = 3
	M4 Math = 4
	M5 Math = 5
)

// NewMath validates n as a math waveform number.
func NewMath(n int) (Math, error) {
	if n < 1 || n > 5 {
		return 0, fmt.Errorf("%w: %d (want 1..5)", ErrBadMath, n)
	}
	return Math(n), nil
}

// String returns the waveform's source mnemonic.
func (m Math) String() string { return fmt.Sprintf("MA%d", int(m)) }

// Slot identifies one of the eight measurement slots. A slot holds one
// configured measurement together with its live result and accumulated
// statistics; contents persist in the instrument until reconfigured or
// reset.
type Slot int

// The measurement slots.
const (
	Slot1 Slot = 1
	Slot2 Slot = 2
	Slot3 Slot = 3
	Slot4 Slot = 4
	Slot5 Slot = 5
	Slot6 Slot = 6
	Slot7 Slot = 7
	Slot8 Slot = 8
)

// NewSlot validates n as a measurement slot number.
func NewSlot(n int) (Slot, error) {
	if n < 1 || n > 8 {
		return 0, fmt.Errorf("%w: %d (want 1..8)", ErrBadSlot, n)
	}
	return Slot(n), nil
}
