package rtm3004

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

// SetExportSource selects the channel SaveWaveform exports.
func (s *Scope) SetExportSource(ctx context.Context, ch Chan) error {
	return s.sess.Write(ctx, fmt.Sprintf("EXP:WAV:SOUR %s", ch))
}

// GetExportSource reads the channel configured for export.
func (s *Scope) GetExportSource(ctx context.Context) (Chan, error) {
	reply, err := s.sess.Query(ctx, "EXP:WAV:SOUR?")
	if err != nil {
		return 0, err
	}
	return parseChan(reply)
}

// SetExportDestination sets the file path on the instrument's storage
// that SaveWaveform writes to.
func (s *Scope) SetExportDestination(ctx context.Context, path string) error {
	return s.sess.Write(ctx, fmt.Sprintf("EXP:WAV:NAME %s", path))
}

// GetExportDestination reads the configured export path.
func (s *Scope) GetExportDestination(ctx context.Context) (string, error) {
	reply, err := s.queryString(ctx, "EXP:WAV:NAME?")
	if err != nil {
		return "", err
	}
	return strings.Trim(reply, `"`), nil
}

// SaveWaveform writes the configured export source to the configured
// destination on the instrument's storage. Follow with WaitComplete for
// long records.
func (s *Scope) SaveWaveform(ctx context.Context) error {
	return s.sess.Write(ctx, "EXP:WAV:SAVE")
}

// SetExportFormat sets the export data format and word length in bits.
func (s *Scope) SetExportFormat(ctx context.Context, f ExportFormat, bits int) error {
	return s.sess.Write(ctx, fmt.Sprintf("FORM %s,%d", f, bits))
}

// GetExportFormat reads the export data format and word length.
func (s *Scope) GetExportFormat(ctx context.Context) (ExportFormat, int, error) {
	reply, err := s.queryString(ctx, "FORM?")
	if err != nil {
		return "", 0, err
	}

	name, bitsText, hasBits := strings.Cut(reply, ",")
	format, err := parseExportFormat(name)
	if err != nil {
		return "", 0, err
	}
	if !hasBits {
		return format, 0, nil
	}
	bits, err := strconv.Atoi(strings.TrimSpace(bitsText))
	if err != nil {
		return "", 0, &scpi.ProtocolError{Cmd: "FORM?", Response: reply, Reason: "bad word length", Err: err}
	}
	return format, bits, nil
}
