// Command rtmctl drives a Rohde & Schwarz RTM3004 oscilloscope over its
// SCPI interface.
//
// The instrument is addressed by a VISA-style resource string, passed
// with --resource or read from ~/.rtmctl.yaml:
//
//	TCPIP::10.0.0.17::5025::SOCKET      LAN, raw socket
//	ASRL/dev/ttyUSB0::INSTR             serial
//	USB::0x0AAD::0x01D6::900001::INSTR  USB-TMC
//
// Examples:
//
//	# Identify the instrument
//	rtmctl -r TCPIP::10.0.0.17::5025::SOCKET idn
//
//	# Apply the two-channel bench setup and read the standard measurements
//	rtmctl -r TCPIP::10.0.0.17::5025::SOCKET setup --burst --measurements
//	rtmctl -r TCPIP::10.0.0.17::5025::SOCKET measure
//
//	# Clear clipping on channel 1 via measurement slot 1
//	rtmctl -r TCPIP::10.0.0.17::5025::SOCKET scale ch1 --slot 1 --start 0.01
//
//	# Interactive console with raw SCPI passthrough
//	rtmctl -r TCPIP::10.0.0.17::5025::SOCKET shell
//
//	# Record a session trace, then inspect it
//	rtmctl -r TCPIP::10.0.0.17::5025::SOCKET --trace bench.trace reset
//	rtmctl trace bench.trace
package main

import "github.com/benchtop/rtm3004-go/cmd/rtmctl/cmd"

func main() {
	cmd.Execute()
}
