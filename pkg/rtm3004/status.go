package rtm3004

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

// InstrumentError is one entry from the instrument's error queue.
type InstrumentError struct {
	Code    int
	Message string
}

func (e InstrumentError) Error() string {
	return fmt.Sprintf("instrument error %d: %s", e.Code, e.Message)
}

// PopError takes the oldest entry off the instrument's error queue. An
// empty queue yields code 0 with message "No error".
func (s *Scope) PopError(ctx context.Context) (InstrumentError, error) {
	reply, err := s.queryString(ctx, "SYST:ERR?")
	if err != nil {
		return InstrumentError{}, err
	}

	codeText, message, _ := strings.Cut(reply, ",")
	code, err := strconv.Atoi(strings.TrimSpace(codeText))
	if err != nil {
		return InstrumentError{}, &scpi.ProtocolError{Cmd: "SYST:ERR?", Response: reply, Reason: "bad error code", Err: err}
	}
	return InstrumentError{
		Code:    code,
		Message: strings.Trim(strings.TrimSpace(message), `"`),
	}, nil
}

// DrainErrors pops queue entries until the queue reports empty, up to
// max entries. Returns the non-empty entries in queue order.
func (s *Scope) DrainErrors(ctx context.Context, max int) ([]InstrumentError, error) {
	var out []InstrumentError
	for n := 0; n < max; n++ {
		entry, err := s.PopError(ctx)
		if err != nil {
			return out, err
		}
		if entry.Code == 0 {
			return out, nil
		}
		out = append(out, entry)
	}
	return out, nil
}

// GetStatusByte reads the instrument's status byte.
func (s *Scope) GetStatusByte(ctx context.Context) (int, error) {
	return s.queryInt(ctx, "*STB?")
}

// ClearStatus clears the status registers and the error queue.
func (s *Scope) ClearStatus(ctx context.Context) error {
	return s.sess.Write(ctx, "*CLS")
}
