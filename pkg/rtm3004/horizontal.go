package rtm3004

import (
	"context"
	"fmt"
)

// SetHorizontalScale sets the time base in seconds per division.
func (s *Scope) SetHorizontalScale(ctx context.Context, div float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("TIM:SCAL %.2e", div))
}

// GetHorizontalScale reads the time base in seconds per division.
func (s *Scope) GetHorizontalScale(ctx context.Context) (float64, error) {
	return s.queryFloat(ctx, "TIM:SCAL?")
}

// SetHorizontalPosition shifts the trigger point on the time axis, in
// seconds relative to the display center.
func (s *Scope) SetHorizontalPosition(ctx context.Context, offset float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("TIM:POS %.6f", offset))
}

// GetHorizontalPosition reads the trigger point offset in seconds.
func (s *Scope) GetHorizontalPosition(ctx context.Context) (float64, error) {
	return s.queryFloat(ctx, "TIM:POS?")
}
