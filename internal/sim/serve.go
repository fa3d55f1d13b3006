package sim

import (
	"bufio"
	"context"
	"net"

	"github.com/benchtop/rtm3004-go/pkg/transport"
)

// Pipe connects the instrument to an in-memory transport and returns the
// host side, ready for scpi.NewSession. Each call opens an independent
// connection onto the shared instrument state.
func (i *Instrument) Pipe() transport.Conn {
	host, device := net.Pipe()
	go i.serveConn(device)
	return transport.NewConn(host)
}

// Serve accepts connections on ln until ctx is done.
func (i *Instrument) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		go i.serveConn(conn)
	}
}

// serveConn reads newline-framed commands and writes query replies until
// the peer disconnects.
func (i *Instrument) serveConn(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		reply, isQuery := i.Handle(scanner.Text())
		if !isQuery {
			continue
		}
		if _, err := conn.Write([]byte(reply + "\n")); err != nil {
			return
		}
	}
}
