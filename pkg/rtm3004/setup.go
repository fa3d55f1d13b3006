package rtm3004

import (
	"context"
	"time"
)

// SetupState tracks whether a canned setup routine has run on this
// scope. It guards the operations that only make sense afterwards.
type SetupState int

const (
	// SetupNone means the routine has not run since the scope was
	// opened (or since the last reset cleared it).
	SetupNone SetupState = iota
	// SetupConfigured means the routine completed.
	SetupConfigured
)

func (s SetupState) String() string {
	if s == SetupConfigured {
		return "configured"
	}
	return "none"
}

// SetupStates reports the scope's simple-setup and simple-measurement
// states.
func (s *Scope) SetupStates() (setup, measurements SetupState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setup, s.meas
}

// WaveformConfig configures SimpleWaveform. Zero fields take the
// defaults noted on each field.
type WaveformConfig struct {
	Function    WaveFunction  // waveform shape; default sine
	Amplitude   float64       // peak-to-peak volts; default 1
	Offset      float64       // DC offset, volts
	Frequency   float64       // hertz; default 10 kHz
	Burst       bool          // emit bursts instead of a continuous wave
	BurstCycles int           // cycles per burst; default 5
	BurstIdle   time.Duration // pause between bursts; default 100 ms
	Display     Chan          // channel scaled to show the output; default channel 2
}

func (c WaveformConfig) withDefaults() WaveformConfig {
	if c.Function == "" {
		c.Function = WaveSine
	}
	if c.Amplitude == 0 {
		c.Amplitude = 1
	}
	if c.Frequency == 0 {
		c.Frequency = 1e4
	}
	if c.BurstCycles == 0 {
		c.BurstCycles = 5
	}
	if c.BurstIdle == 0 {
		c.BurstIdle = 100 * time.Millisecond
	}
	if c.Display == 0 {
		c.Display = Ch2
	}
	return c
}

// SimpleSetup applies the canned two-channel bench configuration:
// channels 1 and 2 on with channel 1 AC coupled and channel 2 DC
// coupled, a normal-mode edge trigger on channel 2 at triggerLevel, and
// the generator emitting the default sine into channel 2 with 100-cycle
// bursts when burst is set.
func (s *Scope) SimpleSetup(ctx context.Context, burst bool, triggerLevel float64) error {
	for _, ch := range []Chan{Ch1, Ch2} {
		if err := s.EnableChannel(ctx, ch, true); err != nil {
			return err
		}
		coupling := CouplingACLimit
		if ch == Ch2 {
			coupling = CouplingDCLimit
		}
		if err := s.SetCoupling(ctx, ch, coupling); err != nil {
			return err
		}
	}
	if err := s.SimpleEdgeTrigger(ctx, Ch2, triggerLevel, "", ""); err != nil {
		return err
	}
	if err := s.SimpleWaveform(ctx, WaveformConfig{Burst: burst, BurstCycles: 100}); err != nil {
		return err
	}

	s.mu.Lock()
	s.setup = SetupConfigured
	s.mu.Unlock()
	return nil
}

// SimpleEdgeTrigger arms the A trigger as a normal-mode edge trigger on
// ch at level volts. Zero values for coupling and slope take DC coupling
// and a positive slope.
func (s *Scope) SimpleEdgeTrigger(ctx context.Context, ch Chan, level float64, coupling EdgeCoupling, slope EdgeSlope) error {
	if coupling == "" {
		coupling = EdgeCouplingDC
	}
	if slope == "" {
		slope = SlopePositive
	}

	if err := s.SetTriggerMode(ctx, TriggerA, TriggerNormal); err != nil {
		return err
	}
	if err := s.SetTriggerType(ctx, TriggerA, TriggerEdge); err != nil {
		return err
	}
	if err := s.SetTriggerSource(ctx, TriggerA, ch); err != nil {
		return err
	}
	if err := s.SetTriggerEdgeCoupling(ctx, TriggerA, coupling); err != nil {
		return err
	}
	if err := s.SetTriggerEdgeSlope(ctx, TriggerA, slope); err != nil {
		return err
	}
	return s.SetTriggerEdgeLevel(ctx, ch, level)
}

// SimpleWaveform switches the generator on and programs it in one call,
// then scales the display channel to three divisions of headroom for the
// configured amplitude.
func (s *Scope) SimpleWaveform(ctx context.Context, cfg WaveformConfig) error {
	cfg = cfg.withDefaults()

	if err := s.EnableGenerator(ctx, true); err != nil {
		return err
	}
	info := WaveInfo{
		Function:  cfg.Function,
		Amplitude: cfg.Amplitude,
		Offset:    cfg.Offset,
		Frequency: cfg.Frequency,
	}
	if err := s.SetWaveInfo(ctx, info); err != nil {
		return err
	}
	if err := s.SetVerticalScale(ctx, cfg.Display, cfg.Amplitude/3); err != nil {
		return err
	}
	if err := s.SetVerticalOffset(ctx, cfg.Display, 0); err != nil {
		return err
	}
	if cfg.Burst {
		if err := s.EnableBurst(ctx, true); err != nil {
			return err
		}
		if err := s.SetBurstCycles(ctx, cfg.BurstCycles); err != nil {
			return err
		}
		if err := s.SetBurstIdle(ctx, cfg.BurstIdle); err != nil {
			return err
		}
	}
	return nil
}

// SetSimpleMeasurements routes slots 1..4 to channel 1 and 5..8 to
// channel 2, then configures the standard readings: peak amplitude on
// slots 1 and 5, frequency on 2 and 6, mean on 3 and 7. Slots 4 and 8
// keep their sources free for ad-hoc use.
func (s *Scope) SetSimpleMeasurements(ctx context.Context) error {
	for slot := Slot1; slot <= Slot8; slot++ {
		source := Ch1
		if slot > Slot4 {
			source = Ch2
		}
		if err := s.SetMeasurementSource(ctx, slot, source); err != nil {
			return err
		}
	}

	categories := []struct {
		slot Slot
		cat  MeasCategory
	}{
		{Slot1, MeasPeak},
		{Slot5, MeasPeak},
		{Slot2, MeasFrequency},
		{Slot6, MeasFrequency},
		{Slot3, MeasMean},
		{Slot7, MeasMean},
	}
	for _, c := range categories {
		if err := s.SetMeasurementCategory(ctx, c.slot, c.cat); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.meas = SetupConfigured
	s.mu.Unlock()
	return nil
}

// SimpleResults holds one reading of the six standard measurements.
type SimpleResults struct {
	PeakCh1 float64
	PeakCh2 float64
	FreqCh1 float64
	FreqCh2 float64
	MeanCh1 float64
	MeanCh2 float64
}

// GetSimpleMeasurements reads the six standard slots' live results.
// Requires SetSimpleMeasurements first.
func (s *Scope) GetSimpleMeasurements(ctx context.Context) (SimpleResults, error) {
	if err := s.requireMeasurements("GetSimpleMeasurements"); err != nil {
		return SimpleResults{}, err
	}
	return s.readSimple(ctx, s.GetMeasurementResult)
}

// GetSimpleAverages reads the six standard slots' statistical means.
// Requires SetSimpleMeasurements first.
func (s *Scope) GetSimpleAverages(ctx context.Context) (SimpleResults, error) {
	if err := s.requireMeasurements("GetSimpleAverages"); err != nil {
		return SimpleResults{}, err
	}
	return s.readSimple(ctx, s.GetMeasurementAverage)
}

// GetSimpleStdDevs reads the six standard slots' standard deviations.
// Requires SetSimpleMeasurements first.
func (s *Scope) GetSimpleStdDevs(ctx context.Context) (SimpleResults, error) {
	if err := s.requireMeasurements("GetSimpleStdDevs"); err != nil {
		return SimpleResults{}, err
	}
	return s.readSimple(ctx, s.GetMeasurementStdDev)
}

func (s *Scope) readSimple(ctx context.Context, read func(context.Context, Slot) (float64, error)) (SimpleResults, error) {
	var out SimpleResults
	fields := []struct {
		slot Slot
		dst  *float64
	}{
		{Slot1, &out.PeakCh1},
		{Slot5, &out.PeakCh2},
		{Slot2, &out.FreqCh1},
		{Slot6, &out.FreqCh2},
		{Slot3, &out.MeanCh1},
		{Slot7, &out.MeanCh2},
	}
	for _, f := range fields {
		v, err := read(ctx, f.slot)
		if err != nil {
			return SimpleResults{}, err
		}
		*f.dst = v
	}
	return out, nil
}

// SimpleScales holds the vertical scales one SetSimpleScale run settled
// on, volts per division.
type SimpleScales struct {
	Ch1 float64
	Ch2 float64
}

// SetSimpleScale clears clipping on both simple-setup channels: channel
// 2 first against its peak slot, starting from half the last generator
// amplitude, then channel 1 against its peak slot from 10 mV per
// division. Requires SimpleSetup first.
func (s *Scope) SetSimpleScale(ctx context.Context, cfg *AutoRange) (SimpleScales, error) {
	if err := s.requireSetup("SetSimpleScale"); err != nil {
		return SimpleScales{}, err
	}

	s.mu.Lock()
	amplitude := s.waveAmp
	s.mu.Unlock()

	var scales SimpleScales
	var err error
	if scales.Ch2, err = s.FixClipping(ctx, Slot5, Ch2, amplitude/2, cfg); err != nil {
		return scales, err
	}
	if scales.Ch1, err = s.FixClipping(ctx, Slot1, Ch1, 0.01, cfg); err != nil {
		return scales, err
	}
	return scales, nil
}

// FullResetStats erases the accumulated statistics of all eight
// measurement slots.
func (s *Scope) FullResetStats(ctx context.Context) error {
	for slot := Slot1; slot <= Slot8; slot++ {
		if err := s.ResetStatistics(ctx, slot); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scope) requireSetup(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setup != SetupConfigured {
		return &PreconditionError{Op: op, Need: "SimpleSetup"}
	}
	return nil
}

func (s *Scope) requireMeasurements(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.meas != SetupConfigured {
		return &PreconditionError{Op: op, Need: "SetSimpleMeasurements"}
	}
	return nil
}
