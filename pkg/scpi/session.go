package scpi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benchtop/rtm3004-go/pkg/trace"
	"github.com/benchtop/rtm3004-go/pkg/transport"
)

// Session defaults.
const (
	// DefaultTimeout bounds how long a query waits for its reply. Long
	// acquisitions legitimately hold replies back, so the default is
	// generous.
	DefaultTimeout = 60 * time.Second

	// DefaultSettleDelay is the pause after every command write. The
	// instrument needs a minimum inter-command spacing to apply a state
	// change before the next command arrives.
	DefaultSettleDelay = 10 * time.Millisecond

	// DefaultCompletionPoll is the pause between operation-complete polls
	// when the caller does not supply one.
	DefaultCompletionPoll = 500 * time.Millisecond

	// DefaultMaxCompletionWait bounds a single WaitComplete call.
	DefaultMaxCompletionWait = 60 * time.Second
)

// Session is one open connection to one instrument. All traffic flows
// through it strictly ordered: a session admits a single transaction at a
// time, and callers on other goroutines block until the wire is free.
//
// A session that suffers a transport failure is permanently disconnected;
// every later operation returns ErrNotConnected.
type Session struct {
	conn   transport.Conn
	id     string
	logger trace.Logger

	timeout           time.Duration
	settleDelay       time.Duration
	maxCompletionWait time.Duration

	mu        sync.Mutex
	connected bool
	closed    bool
}

// Option adjusts session construction.
type Option func(*Session)

// WithTimeout sets the reply timeout for queries.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithSettleDelay sets the pause imposed after every command write.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Session) { s.settleDelay = d }
}

// WithMaxCompletionWait bounds how long WaitComplete keeps polling before
// giving up with ErrCompletionTimeout.
func WithMaxCompletionWait(d time.Duration) Option {
	return func(s *Session) { s.maxCompletionWait = d }
}

// WithLogger directs wire-level trace events to l.
func WithLogger(l trace.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession wraps an open transport connection. The session owns the
// connection; Close releases it.
func NewSession(conn transport.Conn, opts ...Option) *Session {
	s := &Session{
		conn:              conn,
		id:                uuid.NewString(),
		logger:            trace.NoopLogger{},
		timeout:           DefaultTimeout,
		settleDelay:       DefaultSettleDelay,
		maxCompletionWait: DefaultMaxCompletionWait,
		connected:         true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logState("", "open", "session established")
	return s
}

// Dial opens a transport to the named resource and wraps it in a session.
func Dial(ctx context.Context, resource string, opts ...Option) (*Session, error) {
	conn, err := transport.Connect(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", resource, err)
	}
	return NewSession(conn, opts...), nil
}

// ID returns the session's unique identifier, as stamped on trace events.
func (s *Session) ID() string { return s.id }

// Connected reports whether the session can still carry traffic.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Write sends one command and pauses for the settle delay before
// returning. Commands mutate instrument state and produce no reply.
func (s *Session) Write(ctx context.Context, cmd string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.send(ctx, cmd, trace.KindCommand); err != nil {
		return err
	}
	return s.settle(ctx, s.settleDelay, "inter-command settle")
}

// Query sends one command and blocks for the reply. The reply is returned
// with its line terminator intact; interpret it with the parse helpers.
func (s *Session) Query(ctx context.Context, cmd string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.send(ctx, cmd, trace.KindQuery); err != nil {
		return "", err
	}

	start := time.Now()
	data, err := s.conn.Receive(s.timeout)
	if err != nil {
		s.lost("receive failed")
		terr := &TransportError{Op: "receive", Cmd: cmd, Err: err}
		s.logError(terr.Error(), cmd)
		return "", terr
	}

	reply := string(data)
	if TrimTerminator(reply) == "" {
		perr := &ProtocolError{Cmd: cmd, Reason: "empty response", Err: ErrEmptyResponse}
		s.logError(perr.Error(), cmd)
		return "", perr
	}

	elapsed := time.Since(start)
	s.log(trace.Event{
		Direction: trace.DirectionIn,
		Kind:      trace.KindReply,
		Payload:   TrimTerminator(reply),
		Elapsed:   &elapsed,
	})
	return reply, nil
}

// WaitComplete polls the instrument's operation-complete flag until it
// reports 1, pausing pollInterval between attempts. A non-positive
// pollInterval uses DefaultCompletionPoll. The poll gives up with
// ErrCompletionTimeout once the session's completion budget is spent;
// cancel ctx to abort earlier.
func (s *Session) WaitComplete(ctx context.Context, pollInterval time.Duration) error {
	if pollInterval <= 0 {
		pollInterval = DefaultCompletionPoll
	}
	deadline := time.Now().Add(s.maxCompletionWait)

	for {
		reply, err := s.Query(ctx, "*OPC?")
		if err != nil {
			return err
		}
		if TrimTerminator(reply) == "1" {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w after %v", ErrCompletionTimeout, s.maxCompletionWait)
		}
		if err := s.Settle(ctx, pollInterval, "completion poll"); err != nil {
			return err
		}
	}
}

// Identify asks the instrument for its identification string.
func (s *Session) Identify(ctx context.Context) (string, error) {
	reply, err := s.Query(ctx, "*IDN?")
	if err != nil {
		return "", err
	}
	return TrimTerminator(reply), nil
}

// Reset returns the instrument to its default state. Drivers issue it
// once at session establishment, before any other configuration, so
// setup never layers on unknown prior state.
func (s *Session) Reset(ctx context.Context) error {
	return s.Write(ctx, "*RST")
}

// Settle pauses for d, recording the pause in the session trace. Driver
// layers use it for the acquisition settling pauses that follow scale
// changes; those are materially longer than the per-command delay.
func (s *Session) Settle(ctx context.Context, d time.Duration, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settle(ctx, d, reason)
}

// Close marks the session disconnected and releases the transport. Safe
// to call multiple times.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.connected {
		s.connected = false
		s.logState("open", "closed", "caller closed session")
	}
	return s.conn.Close()
}

// send transmits one command. Callers hold the session lock.
func (s *Session) send(ctx context.Context, cmd string, kind trace.Kind) error {
	if !s.connected {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.conn.Send([]byte(cmd)); err != nil {
		s.lost("send failed")
		terr := &TransportError{Op: "send", Cmd: cmd, Err: err}
		s.logError(terr.Error(), cmd)
		return terr
	}
	s.log(trace.Event{Direction: trace.DirectionOut, Kind: kind, Payload: cmd})
	return nil
}

// settle sleeps for d or until ctx is done. Callers hold the session
// lock, so no other traffic can slip into the pause.
func (s *Session) settle(ctx context.Context, d time.Duration, reason string) error {
	if d <= 0 {
		return nil
	}
	s.log(trace.Event{
		Direction: trace.DirectionNone,
		Kind:      trace.KindDelay,
		Payload:   reason,
		Elapsed:   &d,
	})

	timer := time.NewTimer(d)
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	}
}

// lost marks the session unusable after a transport failure. Callers
// hold the session lock.
func (s *Session) lost(reason string) {
	if !s.connected {
		return
	}
	s.connected = false
	s.logState("open", "lost", reason)
}

func (s *Session) log(ev trace.Event) {
	ev.Timestamp = time.Now()
	ev.SessionID = s.id
	s.logger.Log(ev)
}

func (s *Session) logState(oldState, newState, reason string) {
	s.log(trace.Event{
		Direction: trace.DirectionNone,
		Kind:      trace.KindState,
		State:     &trace.StateEvent{OldState: oldState, NewState: newState, Reason: reason},
	})
}

func (s *Session) logError(msg, cmd string) {
	s.log(trace.Event{
		Direction: trace.DirectionNone,
		Kind:      trace.KindError,
		Error:     &trace.ErrorEvent{Message: msg, Context: cmd},
	})
}
