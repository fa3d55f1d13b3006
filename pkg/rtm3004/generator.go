package rtm3004

import (
	"context"
	"fmt"
	"time"

	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

// EnableGenerator switches the waveform generator output on or off.
func (s *Scope) EnableGenerator(ctx context.Context, on bool) error {
	return s.sess.Write(ctx, fmt.Sprintf("WGEN:OUTP %s", scpi.OnOff(on)))
}

// GetGeneratorEnabled reads whether the generator output is active.
func (s *Scope) GetGeneratorEnabled(ctx context.Context) (bool, error) {
	return s.queryBool(ctx, "WGEN:OUTP?")
}

// SetWaveFunction selects the generator's waveform shape.
func (s *Scope) SetWaveFunction(ctx context.Context, f WaveFunction) error {
	return s.sess.Write(ctx, fmt.Sprintf("WGEN:FUNC %s", f))
}

// GetWaveFunction reads the generator's waveform shape.
func (s *Scope) GetWaveFunction(ctx context.Context) (WaveFunction, error) {
	reply, err := s.sess.Query(ctx, "WGEN:FUNC?")
	if err != nil {
		return "", err
	}
	return parseWaveFunction(reply)
}

// SetWaveAmplitude sets the generator's peak-to-peak amplitude in volts.
// The scope remembers the value; SetSimpleScale derives its channel 2
// starting scale from it.
func (s *Scope) SetWaveAmplitude(ctx context.Context, volts float64) error {
	if err := s.sess.Write(ctx, fmt.Sprintf("WGEN:VOLT %.2e", volts)); err != nil {
		return err
	}
	s.mu.Lock()
	s.waveAmp = volts
	s.mu.Unlock()
	return nil
}

// GetWaveAmplitude reads the generator's peak-to-peak amplitude.
func (s *Scope) GetWaveAmplitude(ctx context.Context) (float64, error) {
	return s.queryFloat(ctx, "WGEN:VOLT?")
}

// SetWaveOffset sets the generator's DC offset in volts.
func (s *Scope) SetWaveOffset(ctx context.Context, volts float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("WGEN:VOLT:OFFS %.2e", volts))
}

// GetWaveOffset reads the generator's DC offset.
func (s *Scope) GetWaveOffset(ctx context.Context) (float64, error) {
	return s.queryFloat(ctx, "WGEN:VOLT:OFFS?")
}

// SetWaveFrequency sets the generator frequency in hertz.
func (s *Scope) SetWaveFrequency(ctx context.Context, hz float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("WGEN:FREQ %.2e", hz))
}

// GetWaveFrequency reads the generator frequency in hertz.
func (s *Scope) GetWaveFrequency(ctx context.Context) (float64, error) {
	return s.queryFloat(ctx, "WGEN:FREQ?")
}

// SetWaveNoise adds absolute noise to the generator output, in volts.
func (s *Scope) SetWaveNoise(ctx context.Context, volts float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("WGEN:NOIS:ABS %.2e", volts))
}

// GetWaveNoise reads the generator's absolute noise level.
func (s *Scope) GetWaveNoise(ctx context.Context) (float64, error) {
	return s.queryFloat(ctx, "WGEN:NOIS:ABS?")
}

// EnableBurst switches generator burst mode on or off.
func (s *Scope) EnableBurst(ctx context.Context, on bool) error {
	return s.sess.Write(ctx, fmt.Sprintf("WGEN:BURS %s", scpi.OnOff(on)))
}

// GetBurstEnabled reads whether burst mode is active.
func (s *Scope) GetBurstEnabled(ctx context.Context) (bool, error) {
	return s.queryBool(ctx, "WGEN:BURS?")
}

// SetBurstCycles sets how many waveform cycles one burst emits.
func (s *Scope) SetBurstCycles(ctx context.Context, cycles int) error {
	return s.sess.Write(ctx, fmt.Sprintf("WGEN:BURS:NCYC %d", cycles))
}

// GetBurstCycles reads the cycles per burst.
func (s *Scope) GetBurstCycles(ctx context.Context) (int, error) {
	return s.queryInt(ctx, "WGEN:BURS:NCYC?")
}

// SetBurstIdle sets the pause between bursts.
func (s *Scope) SetBurstIdle(ctx context.Context, idle time.Duration) error {
	return s.sess.Write(ctx, fmt.Sprintf("WGEN:BURS:ITIM %.2e", idle.Seconds()))
}

// GetBurstIdle reads the pause between bursts.
func (s *Scope) GetBurstIdle(ctx context.Context) (time.Duration, error) {
	sec, err := s.queryFloat(ctx, "WGEN:BURS:ITIM?")
	if err != nil {
		return 0, err
	}
	return time.Duration(sec * float64(time.Second)), nil
}

// EnableSweep switches the generator's frequency sweep on or off.
func (s *Scope) EnableSweep(ctx context.Context, on bool) error {
	return s.sess.Write(ctx, fmt.Sprintf("WGEN:SWE:ENAB %s", scpi.OnOff(on)))
}

// SetSweepStart sets the sweep start frequency in hertz.
func (s *Scope) SetSweepStart(ctx context.Context, hz float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("WGEN:SWE:FST %g", hz))
}

// SetSweepEnd sets the sweep end frequency in hertz.
func (s *Scope) SetSweepEnd(ctx context.Context, hz float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("WGEN:SWE:FEND %g", hz))
}

// SetSweepTime sets how long one sweep takes.
func (s *Scope) SetSweepTime(ctx context.Context, d time.Duration) error {
	return s.sess.Write(ctx, fmt.Sprintf("WGEN:SWE:TIME %g", d.Seconds()))
}

// SetSweepType selects the sweep's frequency progression.
func (s *Scope) SetSweepType(ctx context.Context, t SweepType) error {
	return s.sess.Write(ctx, fmt.Sprintf("WGEN:SWE:TYPE %s", t))
}

// WaveInfo bundles the generator settings SetWaveInfo applies.
type WaveInfo struct {
	Function  WaveFunction
	Amplitude float64 // peak-to-peak volts
	Offset    float64 // volts
	Frequency float64 // hertz
}

// SetWaveInfo applies shape, amplitude, offset and frequency in one call.
func (s *Scope) SetWaveInfo(ctx context.Context, info WaveInfo) error {
	if err := s.SetWaveFunction(ctx, info.Function); err != nil {
		return err
	}
	if err := s.SetWaveAmplitude(ctx, info.Amplitude); err != nil {
		return err
	}
	if err := s.SetWaveOffset(ctx, info.Offset); err != nil {
		return err
	}
	return s.SetWaveFrequency(ctx, info.Frequency)
}

// GetWaveInfo reads the generator settings back.
func (s *Scope) GetWaveInfo(ctx context.Context) (WaveInfo, error) {
	var info WaveInfo
	var err error
	if info.Function, err = s.GetWaveFunction(ctx); err != nil {
		return WaveInfo{}, err
	}
	if info.Amplitude, err = s.GetWaveAmplitude(ctx); err != nil {
		return WaveInfo{}, err
	}
	if info.Offset, err = s.GetWaveOffset(ctx); err != nil {
		return WaveInfo{}, err
	}
	if info.Frequency, err = s.GetWaveFrequency(ctx); err != nil {
		return WaveInfo{}, err
	}
	return info, nil
}
