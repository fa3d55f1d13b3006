// Package transport provides the byte transports a SCPI session runs over.
//
// A Conn is a synchronous message pipe to exactly one instrument: Send
// transmits one complete command, Receive blocks for one complete reply.
// Three transports are provided:
//
//   - raw TCP sockets (the instrument's SCPI socket, conventionally port 5025)
//   - serial lines via tarm/serial
//   - USBTMC bulk transfers via google/gousb
//
// Connect selects the transport from a VISA-style resource string:
//
//	conn, err := transport.Connect(ctx, "TCPIP::192.168.1.20::5025::SOCKET")
//	conn, err := transport.Connect(ctx, "ASRL::/dev/ttyUSB0::115200::INSTR")
//	conn, err := transport.Connect(ctx, "USB::0x0AAD::0x01D6::INSTR")
//
// Conn implementations are not safe for concurrent Send/Receive from
// multiple goroutines; serializing access is the session's job.
package transport
