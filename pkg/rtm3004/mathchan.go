package rtm3004

import (
	"context"
	"fmt"

	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

// EnableMath switches a math waveform's display on or off.
func (s *Scope) EnableMath(ctx context.Context, m Math, on bool) error {
	return s.sess.Write(ctx, fmt.Sprintf("CALC:MATH%d:STAT %s", m, scpi.OnOff(on)))
}

// SetMathScale sets a math waveform's vertical scale in units per
// division. Like channel scales, the commanded value is snapped to a
// supported step.
func (s *Scope) SetMathScale(ctx context.Context, m Math, div float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("CALC:MATH%d:SCAL %g", m, div))
}

// GetMathScale reads a math waveform's applied vertical scale.
func (s *Scope) GetMathScale(ctx context.Context, m Math) (float64, error) {
	return s.queryFloat(ctx, fmt.Sprintf("CALC:MATH%d:SCAL?", m))
}

// DefineAdd programs a math waveform as the sum of two channels, in
// volts.
func (s *Scope) DefineAdd(ctx context.Context, m Math, a, b Chan) error {
	return s.sess.Write(ctx, fmt.Sprintf("CALC:MATH%d:EXPR:DEF \"ADD(%s,%s) in V\"", m, a, b))
}

// DefineSubtract programs a math waveform as the difference of two
// channels, in volts.
func (s *Scope) DefineSubtract(ctx context.Context, m Math, a, b Chan) error {
	return s.sess.Write(ctx, fmt.Sprintf("CALC:MATH%d:EXPR:DEF \"SUB(%s,%s) in V\"", m, a, b))
}

// DefineLowPass programs a math waveform as a low-pass filtered copy of
// another math waveform, with the corner frequency in hertz.
func (s *Scope) DefineLowPass(ctx context.Context, m, src Math, hz float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("CALC:MATH%d:EXPR:DEF \"LP(M%d,%g)\"", m, src, hz))
}
