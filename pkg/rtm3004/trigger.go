package rtm3004

import (
	"context"
	"fmt"
)

// SetTriggerMode selects how a trigger subsystem arms. The A trigger
// takes TriggerAuto or TriggerNormal; the B trigger TriggerDelayed or
// TriggerEvent.
func (s *Scope) SetTriggerMode(ctx context.Context, src TriggerSource, mode TriggerMode) error {
	return s.sess.Write(ctx, fmt.Sprintf("TRIG:%s:MODE %s", src, mode))
}

// GetTriggerMode reads a trigger subsystem's arming mode.
func (s *Scope) GetTriggerMode(ctx context.Context, src TriggerSource) (TriggerMode, error) {
	reply, err := s.sess.Query(ctx, fmt.Sprintf("TRIG:%s:MODE?", src))
	if err != nil {
		return "", err
	}
	return parseTriggerMode(reply)
}

// SetTriggerType selects a trigger subsystem's condition.
func (s *Scope) SetTriggerType(ctx context.Context, src TriggerSource, t TriggerType) error {
	return s.sess.Write(ctx, fmt.Sprintf("TRIG:%s:TYPE %s", src, t))
}

// GetTriggerType reads a trigger subsystem's condition.
func (s *Scope) GetTriggerType(ctx context.Context, src TriggerSource) (TriggerType, error) {
	reply, err := s.sess.Query(ctx, fmt.Sprintf("TRIG:%s:TYPE?", src))
	if err != nil {
		return "", err
	}
	return parseTriggerType(reply)
}

// SetTriggerSource routes a trigger subsystem to an analog channel.
func (s *Scope) SetTriggerSource(ctx context.Context, src TriggerSource, ch Chan) error {
	return s.sess.Write(ctx, fmt.Sprintf("TRIG:%s:SOUR %s", src, ch))
}

// GetTriggerSource reads the channel a trigger subsystem watches.
func (s *Scope) GetTriggerSource(ctx context.Context, src TriggerSource) (Chan, error) {
	reply, err := s.sess.Query(ctx, fmt.Sprintf("TRIG:%s:SOUR?", src))
	if err != nil {
		return 0, err
	}
	return parseChan(reply)
}

// SetTriggerEdgeCoupling sets the edge trigger's coupling path.
func (s *Scope) SetTriggerEdgeCoupling(ctx context.Context, src TriggerSource, c EdgeCoupling) error {
	return s.sess.Write(ctx, fmt.Sprintf("TRIG:%s:EDGE:COUP %s", src, c))
}

// GetTriggerEdgeCoupling reads the edge trigger's coupling path.
func (s *Scope) GetTriggerEdgeCoupling(ctx context.Context, src TriggerSource) (EdgeCoupling, error) {
	reply, err := s.sess.Query(ctx, fmt.Sprintf("TRIG:%s:EDGE:COUP?", src))
	if err != nil {
		return "", err
	}
	return parseEdgeCoupling(reply)
}

// SetTriggerEdgeSlope selects which edge fires the trigger.
func (s *Scope) SetTriggerEdgeSlope(ctx context.Context, src TriggerSource, slope EdgeSlope) error {
	return s.sess.Write(ctx, fmt.Sprintf("TRIG:%s:EDGE:SLOP %s", src, slope))
}

// GetTriggerEdgeSlope reads which edge fires the trigger.
func (s *Scope) GetTriggerEdgeSlope(ctx context.Context, src TriggerSource) (EdgeSlope, error) {
	reply, err := s.sess.Query(ctx, fmt.Sprintf("TRIG:%s:EDGE:SLOP?", src))
	if err != nil {
		return "", err
	}
	return parseEdgeSlope(reply)
}

// SetTriggerEdgeLevel sets the A trigger threshold for a channel, in
// volts.
func (s *Scope) SetTriggerEdgeLevel(ctx context.Context, ch Chan, volts float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("TRIG:A:LEV%d:VAL %.2f", ch, volts))
}

// GetTriggerEdgeLevel reads the A trigger threshold for a channel.
func (s *Scope) GetTriggerEdgeLevel(ctx context.Context, ch Chan) (float64, error) {
	return s.queryFloat(ctx, fmt.Sprintf("TRIG:A:LEV%d:VAL?", ch))
}

// FindTriggerLevel has the instrument set the A trigger threshold from
// the current signal.
func (s *Scope) FindTriggerLevel(ctx context.Context) error {
	return s.sess.Write(ctx, "TRIG:A:FIND")
}

// SetTriggerBDelay sets the delay between the A and B trigger events, in
// seconds.
func (s *Scope) SetTriggerBDelay(ctx context.Context, seconds float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("TRIG:B:DEL %.2e", seconds))
}

// GetTriggerBDelay reads the A-to-B trigger delay in seconds.
func (s *Scope) GetTriggerBDelay(ctx context.Context) (float64, error) {
	return s.queryFloat(ctx, "TRIG:B:DEL?")
}
