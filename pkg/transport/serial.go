package transport

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// serialPollInterval bounds how long a single port read blocks. Receive
// loops over short reads so its own timeout stays accurate.
const serialPollInterval = 50 * time.Millisecond

// serialConn frames commands and replies as newline-terminated lines over a
// serial port.
type serialConn struct {
	port *serial.Port

	mu      sync.Mutex
	pending []byte
	closed  bool
}

// openSerial opens the serial device named by the resource.
func openSerial(res Resource) (Conn, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        res.Device,
		Baud:        res.Baud,
		ReadTimeout: serialPollInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", res.Device, err)
	}
	return &serialConn{port: port}, nil
}

// Send writes the command followed by a newline.
func (c *serialConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	buf := data
	if len(data) == 0 || data[len(data)-1] != '\n' {
		buf = make([]byte, 0, len(data)+1)
		buf = append(buf, data...)
		buf = append(buf, '\n')
	}

	if _, err := c.port.Write(buf); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

// Receive reads one newline-terminated reply. The port is polled in short
// reads; bytes of a partial line are kept across calls.
func (c *serialConn) Receive(timeout time.Duration) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	deadline := time.Now().Add(timeout)
	chunk := make([]byte, 256)

	for {
		if idx := bytes.IndexByte(c.pending, '\n'); idx >= 0 {
			line := c.pending[:idx+1]
			c.pending = append([]byte(nil), c.pending[idx+1:]...)
			return line, nil
		}

		if timeout > 0 && time.Now().After(deadline) {
			return nil, fmt.Errorf("%w after %v", ErrReceiveTimeout, timeout)
		}

		n, err := c.port.Read(chunk)
		if n > 0 {
			c.pending = append(c.pending, chunk[:n]...)
		}
		// The port read returns io.EOF when its poll interval expires
		// with no data; that is not a connection loss.
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read failed: %w", err)
		}
	}
}

// Close closes the serial port.
func (c *serialConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.port.Close()
}

// Compile-time interface satisfaction check.
var _ Conn = (*serialConn)(nil)
