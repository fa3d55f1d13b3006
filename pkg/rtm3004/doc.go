// Package rtm3004 drives a Rohde & Schwarz RTM3004 oscilloscope.
//
// The driver is a typed command surface over a scpi.Session: every
// accessor owns one instrument parameter, formats its exact command
// text, and parses the reply into a Go value. On top of the accessors
// sit the canned bench routines (SimpleSetup, SetSimpleMeasurements,
// SetSimpleScale) and the auto-ranging controller, which widens a
// vertical scale until a saturated measurement becomes readable.
//
//	scope, err := rtm3004.Open(ctx, "TCPIP::192.168.1.20::5025::SOCKET")
//	if err != nil {
//		return err
//	}
//	defer scope.Close()
//
//	if err := scope.SimpleSetup(ctx, true, 0); err != nil {
//		return err
//	}
//	if err := scope.SetSimpleMeasurements(ctx); err != nil {
//		return err
//	}
//	scales, err := scope.SetSimpleScale(ctx, nil)
//	if err != nil {
//		return err
//	}
//	fmt.Printf("settled at %g V/div (ch1), %g V/div (ch2)\n", scales.Ch1, scales.Ch2)
//
//	results, err := scope.GetSimpleMeasurements(ctx)
//	if err != nil {
//		return err
//	}
//	fmt.Printf("ch1 %g Vpp @ %g Hz\n", results.PeakCh1, results.FreqCh1)
//
// Open resets the instrument before anything else touches it, so every
// session starts from the same known state. Operations that only make
// sense after a canned routine reject early with ErrNotConfigured
// instead of driving the instrument from a half-built configuration.
package rtm3004
