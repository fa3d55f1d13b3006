package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"time"
)

// Transport errors.
var (
	// ErrClosed indicates the connection has been closed.
	ErrClosed = errors.New("connection closed")

	// ErrReceiveTimeout indicates no complete reply arrived in time.
	ErrReceiveTimeout = errors.New("receive timed out")

	// ErrUnsupportedResource indicates a resource string with an unknown scheme.
	ErrUnsupportedResource = errors.New("unsupported resource")

	// ErrInvalidResource indicates a malformed resource string.
	ErrInvalidResource = errors.New("invalid resource")
)

// Conn is a synchronous byte transport to one instrument.
type Conn interface {
	// Send transmits one complete command. The line terminator is appended
	// if the data does not already end with one.
	Send(data []byte) error

	// Receive blocks until one complete reply arrives or the timeout
	// elapses. The reply is returned with its line terminator intact.
	// The timeout must be positive.
	Receive(timeout time.Duration) ([]byte, error)

	// Close closes the transport. Safe to call multiple times.
	Close() error
}

// Connect opens a transport to the instrument named by a VISA-style
// resource string. See ParseResource for the supported forms.
func Connect(ctx context.Context, resource string) (Conn, error) {
	res, err := ParseResource(resource)
	if err != nil {
		return nil, err
	}

	switch res.Kind {
	case KindTCP:
		return dialTCP(ctx, res)
	case KindSerial:
		return openSerial(res)
	case KindUSB:
		return openUSB(res)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedResource, resource)
	}
}

// dialTCP connects to the instrument's raw SCPI socket.
func dialTCP(ctx context.Context, res Resource) (Conn, error) {
	addr := net.JoinHostPort(res.Host, strconv.Itoa(res.Port))
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return NewConn(conn), nil
}

// netConn frames commands and replies as newline-terminated lines over a
// net.Conn.
type netConn struct {
	conn net.Conn
	r    *bufio.Reader

	closeCh   chan struct{}
	closeOnce sync.Once
}

// NewConn wraps an established net.Conn in the newline-framed Conn used for
// raw-socket SCPI. Exposed so tests and in-process instruments can serve a
// session over net.Pipe.
func NewConn(conn net.Conn) Conn {
	return &netConn{
		conn:    conn,
		r:       bufio.NewReader(conn),
		closeCh: make(chan struct{}),
	}
}

// Send writes the command followed by a newline.
func (c *netConn) Send(data []byte) error {
	select {
	case <-c.closeCh:
		return ErrClosed
	default:
	}

	buf := data
	if len(data) == 0 || data[len(data)-1] != '\n' {
		buf = make([]byte, 0, len(data)+1)
		buf = append(buf, data...)
		buf = append(buf, '\n')
	}

	if _, err := c.conn.Write(buf); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

// Receive reads one newline-terminated reply.
func (c *netConn) Receive(timeout time.Duration) ([]byte, error) {
	select {
	case <-c.closeCh:
		return nil, ErrClosed
	default:
	}

	if timeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(timeout))
		defer c.conn.SetReadDeadline(time.Time{})
	}

	line, err := c.r.ReadBytes('\n')
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, fmt.Errorf("%w after %v", ErrReceiveTimeout, timeout)
		}
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w by peer", ErrClosed)
		}
		return nil, fmt.Errorf("read failed: %w", err)
	}
	return line, nil
}

// Close closes the underlying connection.
func (c *netConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		err = c.conn.Close()
	})
	return err
}

// Compile-time interface satisfaction check.
var _ Conn = (*netConn)(nil)
