package rtm3004

import (
	"context"
	"strings"
	"sync"

	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

// Scope is a typed driver for the RTM3004 oscilloscope. All traffic goes
// through one scpi.Session. The zero value is not usable; construct with
// New or Open.
type Scope struct {
	sess     *scpi.Session
	identity string

	mu      sync.Mutex
	setup   SetupState
	meas    SetupState
	waveAmp float64 // amplitude last handed to the generator, volts
}

// New wraps an established session. Callers that build sessions
// themselves are responsible for resetting the instrument before
// configuring it; Open handles that.
func New(sess *scpi.Session) *Scope {
	return &Scope{sess: sess}
}

// Open dials the instrument, identifies it, and resets it to the default
// state before returning. The reset comes first, ahead of all other
// configuration, so the driver never layers state on an unknown starting
// point; only the identification query precedes it.
func Open(ctx context.Context, resource string, opts ...scpi.Option) (*Scope, error) {
	sess, err := scpi.Dial(ctx, resource, opts...)
	if err != nil {
		return nil, err
	}

	s := New(sess)
	if s.identity, err = sess.Identify(ctx); err != nil {
		sess.Close()
		return nil, err
	}
	if err := sess.Reset(ctx); err != nil {
		sess.Close()
		return nil, err
	}
	if err := sess.WaitComplete(ctx, 0); err != nil {
		sess.Close()
		return nil, err
	}
	return s, nil
}

// Session exposes the underlying command engine for raw SCPI access.
func (s *Scope) Session() *scpi.Session { return s.sess }

// Identity returns the identification string captured by Open, or ""
// when the scope was built around an existing session.
func (s *Scope) Identity() string { return s.identity }

// Close releases the session.
func (s *Scope) Close() error { return s.sess.Close() }

// Identity fields of an *IDN? reply.
type Identity struct {
	Manufacturer string
	Model        string
	Serial       string
	Firmware     string
}

// ParseIdentity splits an identification reply into its four
// comma-separated fields.
func ParseIdentity(s string) (Identity, error) {
	text := scpi.TrimTerminator(s)
	parts := strings.Split(text, ",")
	if len(parts) != 4 {
		return Identity{}, &scpi.ProtocolError{Cmd: "*IDN?", Response: text, Reason: "malformed identification"}
	}
	return Identity{
		Manufacturer: strings.TrimSpace(parts[0]),
		Model:        strings.TrimSpace(parts[1]),
		Serial:       strings.TrimSpace(parts[2]),
		Firmware:     strings.TrimSpace(parts[3]),
	}, nil
}

// queryFloat runs one query and interprets the reply as a number.
func (s *Scope) queryFloat(ctx context.Context, cmd string) (float64, error) {
	reply, err := s.sess.Query(ctx, cmd)
	if err != nil {
		return 0, err
	}
	return scpi.ParseFloat(reply)
}

// queryInt runs one query and interprets the reply as an integer.
func (s *Scope) queryInt(ctx context.Context, cmd string) (int, error) {
	reply, err := s.sess.Query(ctx, cmd)
	if err != nil {
		return 0, err
	}
	return scpi.ParseInt(reply)
}

// queryBool runs one query and interprets the reply as a boolean.
func (s *Scope) queryBool(ctx context.Context, cmd string) (bool, error) {
	reply, err := s.sess.Query(ctx, cmd)
	if err != nil {
		return false, err
	}
	return scpi.ParseBool(reply)
}

// queryString runs one query and returns the reply with its terminator
// stripped.
func (s *Scope) queryString(ctx context.Context, cmd string) (string, error) {
	reply, err := s.sess.Query(ctx, cmd)
	if err != nil {
		return "", err
	}
	return scpi.TrimTerminator(reply), nil
}
