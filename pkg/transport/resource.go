package transport

import (
	"fmt"
	"strconv"
	"strings"
)

// Resource defaults.
const (
	// DefaultSCPIPort is the conventional raw-socket SCPI port.
	DefaultSCPIPort = 5025

	// DefaultBaudRate is used when a serial resource names no baud rate.
	DefaultBaudRate = 115200
)

// Kind identifies the transport family of a parsed resource.
type Kind uint8

const (
	// KindTCP is a raw TCP socket transport.
	KindTCP Kind = 0
	// KindSerial is a serial line transport.
	KindSerial Kind = 1
	// KindUSB is a USBTMC transport.
	KindUSB Kind = 2
)

// String returns the resource scheme name.
func (k Kind) String() string {
	switch k {
	case KindTCP:
		return "TCPIP"
	case KindSerial:
		return "ASRL"
	case KindUSB:
		return "USB"
	default:
		return "UNKNOWN"
	}
}

// Resource is a parsed VISA-style resource string.
type Resource struct {
	Kind Kind

	// Host and Port are set for KindTCP.
	Host string
	Port int

	// Device and Baud are set for KindSerial.
	Device string
	Baud   int

	// VendorID and ProductID are set for KindUSB. Serial, when present,
	// narrows the match to one of several identical instruments.
	VendorID  uint16
	ProductID uint16
	Serial    string
}

// String returns the canonical resource string.
func (r Resource) String() string {
	switch r.Kind {
	case KindTCP:
		return fmt.Sprintf("TCPIP::%s::%d::SOCKET", r.Host, r.Port)
	case KindSerial:
		return fmt.Sprintf("ASRL::%s::%d::INSTR", r.Device, r.Baud)
	case KindUSB:
		if r.Serial != "" {
			return fmt.Sprintf("USB::0x%04X::0x%04X::%s::INSTR", r.VendorID, r.ProductID, r.Serial)
		}
		return fmt.Sprintf("USB::0x%04X::0x%04X::INSTR", r.VendorID, r.ProductID)
	default:
		return "UNKNOWN"
	}
}

// ParseResource parses a VISA-style resource string. Supported forms:
//
//	TCPIP::<host>::<port>::SOCKET
//	TCPIP::<host>::INSTR        (port 5025)
//	TCPIP::<host>               (port 5025)
//	ASRL::<device>::<baud>::INSTR
//	ASRL::<device>::INSTR       (baud 115200)
//	ASRL<device>::INSTR         (fused spelling, e.g. ASRL/dev/ttyUSB0)
//	USB::<vid>::<pid>::INSTR    (IDs in hex 0x... or decimal)
//	USB::<vid>::<pid>::<serial>::INSTR
//
// Scheme names are case-insensitive and may carry a VISA board number
// suffix (TCPIP0), which is ignored. A TCPIP INSTR resource is dialed as a
// raw socket on the default port; VXI-11 and HiSLIP are not spoken here.
func ParseResource(s string) (Resource, error) {
	parts := strings.Split(s, "::")
	scheme := strings.ToUpper(strings.TrimSpace(parts[0]))

	switch {
	case hasScheme(scheme, "TCPIP"):
		return parseTCP(s, parts)
	case hasScheme(scheme, "ASRL") || fusedSerialDevice(parts[0]) != "":
		return parseSerial(s, parts)
	case hasScheme(scheme, "USB"):
		return parseUSB(s, parts)
	default:
		return Resource{}, fmt.Errorf("%w: %q", ErrUnsupportedResource, s)
	}
}

// hasScheme reports whether head is the scheme name, optionally followed by
// a board number (e.g. "TCPIP0", "USB1").
func hasScheme(head, scheme string) bool {
	if !strings.HasPrefix(head, scheme) {
		return false
	}
	rest := head[len(scheme):]
	if rest == "" {
		return true
	}
	_, err := strconv.Atoi(rest)
	return err == nil
}

func parseTCP(raw string, parts []string) (Resource, error) {
	res := Resource{Kind: KindTCP, Port: DefaultSCPIPort}

	if len(parts) < 2 || parts[1] == "" {
		return Resource{}, fmt.Errorf("%w: %q: missing host", ErrInvalidResource, raw)
	}
	res.Host = parts[1]

	rest := parts[2:]
	if len(rest) == 0 {
		return res, nil
	}

	// Strip the trailing resource class.
	switch strings.ToUpper(rest[len(rest)-1]) {
	case "INSTR":
		rest = rest[:len(rest)-1]
	case "SOCKET":
		rest = rest[:len(rest)-1]
		if len(rest) == 0 {
			return Resource{}, fmt.Errorf("%w: %q: SOCKET resource needs a port", ErrInvalidResource, raw)
		}
	}

	if len(rest) == 0 {
		return res, nil
	}
	if len(rest) > 1 {
		return Resource{}, fmt.Errorf("%w: %q", ErrInvalidResource, raw)
	}

	port, err := strconv.Atoi(rest[0])
	if err != nil || port <= 0 || port > 65535 {
		return Resource{}, fmt.Errorf("%w: %q: bad port %q", ErrInvalidResource, raw, rest[0])
	}
	res.Port = port
	return res, nil
}

func parseSerial(raw string, parts []string) (Resource, error) {
	res := Resource{Kind: KindSerial, Baud: DefaultBaudRate}

	rest := parts[1:]
	if dev := fusedSerialDevice(parts[0]); dev != "" {
		res.Device = dev
	} else {
		if len(parts) < 2 || parts[1] == "" {
			return Resource{}, fmt.Errorf("%w: %q: missing device", ErrInvalidResource, raw)
		}
		res.Device = parts[1]
		rest = parts[2:]
	}

	if len(rest) > 0 && strings.ToUpper(rest[len(rest)-1]) == "INSTR" {
		rest = rest[:len(rest)-1]
	}
	if len(rest) == 0 {
		return res, nil
	}
	if len(rest) > 1 {
		return Resource{}, fmt.Errorf("%w: %q", ErrInvalidResource, raw)
	}

	baud, err := strconv.Atoi(rest[0])
	if err != nil || baud <= 0 {
		return Resource{}, fmt.Errorf("%w: %q: bad baud rate %q", ErrInvalidResource, raw, rest[0])
	}
	res.Baud = baud
	return res, nil
}

// fusedSerialDevice extracts the device path from the fused spelling
// ASRL/dev/ttyUSB0, where the path rides on the scheme name itself.
// Returns "" when head is not of that form.
func fusedSerialDevice(head string) string {
	const scheme = "ASRL"
	if len(head) <= len(scheme) || !strings.EqualFold(head[:len(scheme)], scheme) {
		return ""
	}
	if dev := head[len(scheme):]; strings.HasPrefix(dev, "/") {
		return dev
	}
	return ""
}

func parseUSB(raw string, parts []string) (Resource, error) {
	res := Resource{Kind: KindUSB}

	rest := parts[1:]
	if len(rest) > 0 && strings.ToUpper(rest[len(rest)-1]) == "INSTR" {
		rest = rest[:len(rest)-1]
	}
	if len(rest) < 2 {
		return Resource{}, fmt.Errorf("%w: %q: need vendor and product ID", ErrInvalidResource, raw)
	}
	if len(rest) > 3 {
		return Resource{}, fmt.Errorf("%w: %q", ErrInvalidResource, raw)
	}

	vid, err := parseUSBID(rest[0])
	if err != nil {
		return Resource{}, fmt.Errorf("%w: %q: bad vendor ID %q", ErrInvalidResource, raw, rest[0])
	}
	pid, err := parseUSBID(rest[1])
	if err != nil {
		return Resource{}, fmt.Errorf("%w: %q: bad product ID %q", ErrInvalidResource, raw, rest[1])
	}
	res.VendorID = vid
	res.ProductID = pid

	if len(rest) == 3 {
		if rest[2] == "" {
			return Resource{}, fmt.Errorf("%w: %q: empty serial number", ErrInvalidResource, raw)
		}
		res.Serial = rest[2]
	}
	return res, nil
}

// parseUSBID parses a USB vendor or product ID in hex (0x0AAD) or decimal.
func parseUSBID(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}
