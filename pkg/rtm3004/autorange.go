package rtm3004

import (
	"context"
	"fmt"
	"time"

	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

// Auto-range defaults. The settling pauses are far longer than the
// session's per-command delay: they must span full acquisition cycles so
// the measurement subsystem restabilizes at the new scale before it is
// judged again.
const (
	DefaultGrowthFactor   = 1.25
	DefaultInitialSettle  = 2 * time.Second
	DefaultRetestSettle   = 3 * time.Second
	DefaultCorrectionPoll = 10 * time.Second
	DefaultMaxAttempts    = 32
)

// AutoRange paces and bounds one clipping-correction run. A nil pointer
// or zero fields take the defaults.
type AutoRange struct {
	// GrowthFactor multiplies the read-back scale after each clipped
	// test.
	GrowthFactor float64

	// InitialSettle is the pause after the starting scale is applied.
	InitialSettle time.Duration

	// RetestSettle is the pause after each corrective scale change.
	RetestSettle time.Duration

	// CompletionPoll is the poll interval of the completion wait that
	// follows each correction.
	CompletionPoll time.Duration

	// MaxAttempts caps the corrective iterations before the run gives up
	// with ErrClippingUnresolved.
	MaxAttempts int
}

func (c *AutoRange) withDefaults() AutoRange {
	var out AutoRange
	if c != nil {
		out = *c
	}
	if out.GrowthFactor == 0 {
		out.GrowthFactor = DefaultGrowthFactor
	}
	if out.InitialSettle == 0 {
		out.InitialSettle = DefaultInitialSettle
	}
	if out.RetestSettle == 0 {
		out.RetestSettle = DefaultRetestSettle
	}
	if out.CompletionPoll == 0 {
		out.CompletionPoll = DefaultCorrectionPoll
	}
	if out.MaxAttempts == 0 {
		out.MaxAttempts = DefaultMaxAttempts
	}
	return out
}

// CheckClipping reports whether slot currently reads the overflow value.
// The match is textual and exact: any other reply, including garbage
// from a broken measurement, counts as not clipping, so a correction run
// halts instead of growing the scale forever.
func (s *Scope) CheckClipping(ctx context.Context, slot Slot) (bool, error) {
	reply, err := s.sess.Query(ctx, fmt.Sprintf("MEAS%d:RES?", slot))
	if err != nil {
		return false, err
	}
	return scpi.IsOverflow(reply), nil
}

// scaleAccess is the get/set pair a correction run drives. The channel
// and math variants differ only here.
type scaleAccess struct {
	get func(context.Context) (float64, error)
	set func(context.Context, float64) error
}

// FixClipping widens a channel's vertical scale until the measurement in
// slot stops reading the overflow value, starting from startScale volts
// per division. Each correction reads the applied scale back from the
// instrument and grows that: commanded values get snapped to supported
// steps, so host-side bookkeeping of what was last commanded drifts from
// what is actually in effect. Returns the final read-back scale.
//
// A run that exhausts its attempt budget returns the last read-back
// scale together with ErrClippingUnresolved.
func (s *Scope) FixClipping(ctx context.Context, slot Slot, ch Chan, startScale float64, cfg *AutoRange) (float64, error) {
	return s.fixClipping(ctx, slot, startScale, cfg, scaleAccess{
		get: func(ctx context.Context) (float64, error) { return s.GetVerticalScale(ctx, ch) },
		set: func(ctx context.Context, div float64) error { return s.SetVerticalScale(ctx, ch, div) },
	})
}

// FixMathClipping is FixClipping over a math waveform's scale.
func (s *Scope) FixMathClipping(ctx context.Context, slot Slot, m Math, startScale float64, cfg *AutoRange) (float64, error) {
	return s.fixClipping(ctx, slot, startScale, cfg, scaleAccess{
		get: func(ctx context.Context) (float64, error) { return s.GetMathScale(ctx, m) },
		set: func(ctx context.Context, div float64) error { return s.SetMathScale(ctx, m, div) },
	})
}

func (s *Scope) fixClipping(ctx context.Context, slot Slot, startScale float64, cfg *AutoRange, access scaleAccess) (float64, error) {
	c := cfg.withDefaults()

	if err := access.set(ctx, startScale); err != nil {
		return 0, err
	}
	if err := s.sess.Settle(ctx, c.InitialSettle, "auto-range initial settle"); err != nil {
		return 0, err
	}

	for attempt := 0; attempt < c.MaxAttempts; attempt++ {
		clipping, err := s.CheckClipping(ctx, slot)
		if err != nil {
			return 0, err
		}
		if !clipping {
			return access.get(ctx)
		}

		// Grow from the applied scale, not the commanded one.
		applied, err := access.get(ctx)
		if err != nil {
			return 0, err
		}
		if err := access.set(ctx, c.GrowthFactor*applied); err != nil {
			return 0, err
		}
		if err := s.sess.Settle(ctx, c.RetestSettle, "auto-range correction settle"); err != nil {
			return 0, err
		}
		if err := s.sess.WaitComplete(ctx, c.CompletionPoll); err != nil {
			return 0, err
		}
	}

	applied, err := access.get(ctx)
	if err != nil {
		return 0, err
	}
	return applied, fmt.Errorf("%w after %d attempts, scale at %g", ErrClippingUnresolved, c.MaxAttempts, applied)
}
