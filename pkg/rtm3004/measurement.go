package rtm3004

import (
	"context"
	"fmt"

	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

// EnableMeasurement switches a measurement slot on or off.
func (s *Scope) EnableMeasurement(ctx context.Context, slot Slot, on bool) error {
	return s.sess.Write(ctx, fmt.Sprintf("MEAS%d %s", slot, scpi.OnOff(on)))
}

// SetMeasurementCategory selects what a slot measures.
func (s *Scope) SetMeasurementCategory(ctx context.Context, slot Slot, cat MeasCategory) error {
	return s.sess.Write(ctx, fmt.Sprintf("MEAS%d:MAIN %s", slot, cat))
}

// GetMeasurementCategory reads what a slot measures.
func (s *Scope) GetMeasurementCategory(ctx context.Context, slot Slot) (MeasCategory, error) {
	reply, err := s.sess.Query(ctx, fmt.Sprintf("MEAS%d:MAIN?", slot))
	if err != nil {
		return "", err
	}
	return parseMeasCategory(reply)
}

// SetMeasurementSource points a slot at an analog channel.
func (s *Scope) SetMeasurementSource(ctx context.Context, slot Slot, ch Chan) error {
	return s.sess.Write(ctx, fmt.Sprintf("MEAS%d:SOUR %s", slot, ch))
}

// SetMeasurementSourceRaw points a slot at an arbitrary source mnemonic,
// for sources the typed API does not cover (math waveforms, references,
// digital channels).
func (s *Scope) SetMeasurementSourceRaw(ctx context.Context, slot Slot, source string) error {
	return s.sess.Write(ctx, fmt.Sprintf("MEAS%d:SOUR %s", slot, source))
}

// GetMeasurementSource reads a slot's source mnemonic.
func (s *Scope) GetMeasurementSource(ctx context.Context, slot Slot) (string, error) {
	return s.queryString(ctx, fmt.Sprintf("MEAS%d:SOUR?", slot))
}

// GetMeasurementResult reads a slot's live result. A saturated or
// unavailable result comes back as the overflow value; test replies with
// scpi.IsOverflow before trusting the number, or use CheckClipping.
func (s *Scope) GetMeasurementResult(ctx context.Context, slot Slot) (float64, error) {
	return s.queryFloat(ctx, fmt.Sprintf("MEAS%d:RES?", slot))
}

// GetMeasurementAverage reads the statistical mean accumulated for a
// slot.
func (s *Scope) GetMeasurementAverage(ctx context.Context, slot Slot) (float64, error) {
	return s.queryFloat(ctx, fmt.Sprintf("MEAS%d:RES:AVG?", slot))
}

// GetMeasurementStdDev reads the standard deviation accumulated for a
// slot.
func (s *Scope) GetMeasurementStdDev(ctx context.Context, slot Slot) (float64, error) {
	return s.queryFloat(ctx, fmt.Sprintf("MEAS%d:RES:STDD?", slot))
}

// EnableStatistics switches statistics accumulation on or off for all
// slots.
func (s *Scope) EnableStatistics(ctx context.Context, on bool) error {
	return s.sess.Write(ctx, fmt.Sprintf("MEAS:STAT %s", scpi.OnOff(on)))
}

// ResetStatistics erases the statistics accumulated for one slot.
func (s *Scope) ResetStatistics(ctx context.Context, slot Slot) error {
	return s.sess.Write(ctx, fmt.Sprintf("MEAS%d:STAT:RES", slot))
}

// SetMeasureTimeout sets how long the instrument waits for a measurement
// before giving up, in seconds.
func (s *Scope) SetMeasureTimeout(ctx context.Context, seconds float64) error {
	return s.sess.Write(ctx, fmt.Sprintf("MEAS1:TIM %.3f", seconds))
}

// SetMeasureTimeoutAuto lets the instrument derive the measurement
// timeout from the time base.
func (s *Scope) SetMeasureTimeoutAuto(ctx context.Context, on bool) error {
	return s.sess.Write(ctx, fmt.Sprintf("MEAS1:TIM:AUTO %s", scpi.OnOff(on)))
}

// Measurements reads the live results of slots 1..n in order.
func (s *Scope) Measurements(ctx context.Context, n int) ([]float64, error) {
	if n < 1 || n > 8 {
		return nil, fmt.Errorf("%w: %d (want 1..8)", ErrBadSlot, n)
	}

	out := make([]float64, 0, n)
	for slot := Slot1; int(slot) <= n; slot++ {
		v, err := s.GetMeasurementResult(ctx, slot)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
