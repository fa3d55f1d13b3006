package rtm3004

import (
	"context"
	"fmt"

	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

// StartAcquisition resumes continuous acquisition.
func (s *Scope) StartAcquisition(ctx context.Context) error {
	return s.sess.Write(ctx, "START")
}

// StopAcquisition freezes acquisition at the current waveform.
func (s *Scope) StopAcquisition(ctx context.Context) error {
	return s.sess.Write(ctx, "STOP")
}

// SetAcquisitionType selects how records combine across acquisitions.
func (s *Scope) SetAcquisitionType(ctx context.Context, t AcquisitionType) error {
	return s.sess.Write(ctx, fmt.Sprintf("ACQ:TYPE %s", t))
}

// GetAcquisitionType reads the acquisition type.
func (s *Scope) GetAcquisitionType(ctx context.Context) (AcquisitionType, error) {
	reply, err := s.sess.Query(ctx, "ACQ:TYPE?")
	if err != nil {
		return "", err
	}
	return parseAcquisitionType(reply)
}

// SetRecordAuto lets the instrument choose the record length.
func (s *Scope) SetRecordAuto(ctx context.Context, on bool) error {
	return s.sess.Write(ctx, fmt.Sprintf("ACQ:POIN:AUT %s", scpi.OnOff(on)))
}

// GetRecordAuto reads whether the record length is chosen automatically.
func (s *Scope) GetRecordAuto(ctx context.Context) (bool, error) {
	return s.queryBool(ctx, "ACQ:POIN:AUT?")
}

// SetRecordPoints sets the record length in samples. Takes effect in
// manual record mode.
func (s *Scope) SetRecordPoints(ctx context.Context, points int) error {
	return s.sess.Write(ctx, fmt.Sprintf("ACQ:POIN:VAL %.3f", float64(points)))
}

// GetRecordPoints reads the record length in samples.
func (s *Scope) GetRecordPoints(ctx context.Context) (int, error) {
	v, err := s.queryFloat(ctx, "ACQ:POIN:VAL?")
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// SetMemoryMode selects the acquisition memory handling.
func (s *Scope) SetMemoryMode(ctx context.Context, m MemoryMode) error {
	return s.sess.Write(ctx, fmt.Sprintf("ACQ:MEM:MODE %s", m))
}

// GetMemoryMode reads the acquisition memory handling.
func (s *Scope) GetMemoryMode(ctx context.Context) (MemoryMode, error) {
	reply, err := s.sess.Query(ctx, "ACQ:MEM:MODE?")
	if err != nil {
		return "", err
	}
	return parseMemoryMode(reply)
}

// SetAverageCount sets how many acquisitions the average waveform spans.
func (s *Scope) SetAverageCount(ctx context.Context, count int) error {
	return s.sess.Write(ctx, fmt.Sprintf("ACQ:AVER:COUN %d", count))
}

// GetAverageProgress reads how many acquisitions the running average has
// consumed so far.
func (s *Scope) GetAverageProgress(ctx context.Context) (int, error) {
	return s.queryInt(ctx, "ACQ:AVER:CURR?")
}

// SetDecimation selects how the ADC stream reduces to record points.
// Applies to all channels.
func (s *Scope) SetDecimation(ctx context.Context, d Decimation) error {
	return s.sess.Write(ctx, fmt.Sprintf("CHAN:TYPE %s", d))
}

// GetDecimation reads the decimation mode.
func (s *Scope) GetDecimation(ctx context.Context) (Decimation, error) {
	reply, err := s.sess.Query(ctx, "CHAN:TYPE?")
	if err != nil {
		return "", err
	}
	return parseDecimation(reply)
}

// SetArithmetic selects per-channel waveform arithmetic. Applies to all
// channels.
func (s *Scope) SetArithmetic(ctx context.Context, a Arithmetic) error {
	return s.sess.Write(ctx, fmt.Sprintf("CHAN:ARIT %s", a))
}

// GetSampleRate reads the effective waveform sample rate in samples per
// second.
func (s *Scope) GetSampleRate(ctx context.Context) (float64, error) {
	return s.queryFloat(ctx, "ACQ:SRAT?")
}

// GetADCSampleRate reads the raw converter sample rate in samples per
// second, before decimation.
func (s *Scope) GetADCSampleRate(ctx context.Context) (float64, error) {
	return s.queryFloat(ctx, "ACQ:POIN:ARAT?")
}
