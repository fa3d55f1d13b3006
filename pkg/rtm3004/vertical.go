package rtm3004

import (
	"context"
	"fmt"

	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

// SetVerticalScale sets a channel's vertical scale in volts per
// division. The instrument snaps the commanded value to its nearest
// supported step; read the applied value back with GetVerticalScale when
// the exact scale matters.
func (s *Scope) SetVerticalScale(ctx context.Context, ch Chan, div float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("CHAN%d:SCAL %.3f", ch, div))
}

// GetVerticalScale reads a channel's applied vertical scale in volts per
// division.
func (s *Scope) GetVerticalScale(ctx context.Context, ch Chan) (float64, error) {
	return s.queryFloat(ctx, fmt.Sprintf("CHAN%d:SCAL?", ch))
}

// SetVerticalPosition moves a channel's trace on the display, in
// divisions.
func (s *Scope) SetVerticalPosition(ctx context.Context, ch Chan, div float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("CHAN%d:POS %.2f", ch, div))
}

// GetVerticalPosition reads a channel's trace position in divisions.
func (s *Scope) GetVerticalPosition(ctx context.Context, ch Chan) (float64, error) {
	return s.queryFloat(ctx, fmt.Sprintf("CHAN%d:POS?", ch))
}

// SetVerticalOffset sets a channel's offset voltage, subtracted from the
// input before display.
func (s *Scope) SetVerticalOffset(ctx context.Context, ch Chan, volts float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("CHAN%d:OFFS %.2f", ch, volts))
}

// GetVerticalOffset reads a channel's offset voltage.
func (s *Scope) GetVerticalOffset(ctx context.Context, ch Chan) (float64, error) {
	return s.queryFloat(ctx, fmt.Sprintf("CHAN%d:OFFS?", ch))
}

// EnableChannel switches a channel's display on or off.
func (s *Scope) EnableChannel(ctx context.Context, ch Chan, on bool) error {
	return s.sess.Write(ctx, fmt.Sprintf("CHAN%d:STAT %s", ch, scpi.OnOff(on)))
}

// GetChannelEnabled reads whether a channel is displayed.
func (s *Scope) GetChannelEnabled(ctx context.Context, ch Chan) (bool, error) {
	return s.queryBool(ctx, fmt.Sprintf("CHAN%d:STAT?", ch))
}

// SetCoupling sets a channel's input coupling.
func (s *Scope) SetCoupling(ctx context.Context, ch Chan, c Coupling) error {
	return s.sess.Write(ctx, fmt.Sprintf("CHAN%d:COUP %s", ch, c))
}

// GetCoupling reads a channel's input coupling.
func (s *Scope) GetCoupling(ctx context.Context, ch Chan) (Coupling, error) {
	reply, err := s.sess.Query(ctx, fmt.Sprintf("CHAN%d:COUP?", ch))
	if err != nil {
		return "", err
	}
	return parseCoupling(reply)
}

// SetBandwidth sets a channel's bandwidth limit.
func (s *Scope) SetBandwidth(ctx context.Context, ch Chan, bw Bandwidth) error {
	return s.sess.Write(ctx, fmt.Sprintf("CHAN%d:BAND %s", ch, bw))
}

// GetBandwidth reads a channel's bandwidth limit.
func (s *Scope) GetBandwidth(ctx context.Context, ch Chan) (Bandwidth, error) {
	reply, err := s.sess.Query(ctx, fmt.Sprintf("CHAN%d:BAND?", ch))
	if err != nil {
		return "", err
	}
	return parseBandwidth(reply)
}

// GetTermination reads the probe termination reported for a channel.
func (s *Scope) GetTermination(ctx context.Context, ch Chan) (string, error) {
	return s.queryString(ctx, fmt.Sprintf("PROB%d:SET:IMP?", ch))
}
