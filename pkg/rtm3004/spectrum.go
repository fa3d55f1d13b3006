package rtm3004

import (
	"context"
	"fmt"

	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

// EnableSpectrum switches the spectrum analysis display on or off.
func (s *Scope) EnableSpectrum(ctx context.Context, on bool) error {
	return s.sess.Write(ctx, fmt.Sprintf("SPEC:STAT %s", scpi.OnOff(on)))
}

// SetSpectrumSource selects the channel the spectrum is computed from.
func (s *Scope) SetSpectrumSource(ctx context.Context, ch Chan) error {
	return s.sess.Write(ctx, fmt.Sprintf("SPEC:SOUR %s", ch))
}

// SetSpectrumWindow selects the FFT window.
func (s *Scope) SetSpectrumWindow(ctx context.Context, w SpectrumWindow) error {
	return s.sess.Write(ctx, fmt.Sprintf("SPEC:FREQ:WIND:TYPE %s", w))
}

// SetSpectrumScale selects the magnitude scale.
func (s *Scope) SetSpectrumScale(ctx context.Context, sc SpectrumScale) error {
	return s.sess.Write(ctx, fmt.Sprintf("SPEC:FREQ:MAGN:SCAL %s", sc))
}

// SetSpectrumCenter sets the center frequency in hertz.
func (s *Scope) SetSpectrumCenter(ctx context.Context, hz float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("SPEC:FREQ:CENT %d", int64(hz)))
}

// SetSpectrumSpan sets the frequency span in hertz.
func (s *Scope) SetSpectrumSpan(ctx context.Context, hz float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("SPEC:FREQ:SPAN %d", int64(hz)))
}

// SetSpectrumStart sets the start frequency in hertz.
func (s *Scope) SetSpectrumStart(ctx context.Context, hz float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("SPEC:FREQ:STAR %d", int64(hz)))
}
