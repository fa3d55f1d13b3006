package scpi

import (
	"strconv"
	"strings"
)

// OverflowSentinel is the literal the instrument returns for a saturated
// or otherwise unavailable measurement result.
const OverflowSentinel = "9.91E+37"

// TrimTerminator strips the trailing line terminator from a reply.
func TrimTerminator(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// IsOverflow reports whether a reply is the overflow sentinel. The
// comparison is textual and exact after terminator stripping; no numeric
// tolerance is applied.
func IsOverflow(s string) bool {
	return TrimTerminator(s) == OverflowSentinel
}

// ParseFloat interprets a reply as a decimal number.
func ParseFloat(s string) (float64, error) {
	text := strings.TrimSpace(TrimTerminator(s))
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &ProtocolError{Response: text, Reason: "not a number", Err: err}
	}
	return v, nil
}

// ParseInt interprets a reply as a decimal integer.
func ParseInt(s string) (int, error) {
	text := strings.TrimSpace(TrimTerminator(s))
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, &ProtocolError{Response: text, Reason: "not an integer", Err: err}
	}
	return v, nil
}

// ParseBool interprets a boolean-like reply. The instrument answers state
// queries with "0" or "1"; ON and OFF are accepted for symmetry with
// command arguments.
func ParseBool(s string) (bool, error) {
	text := strings.TrimSpace(TrimTerminator(s))
	switch strings.ToUpper(text) {
	case "1", "ON":
		return true, nil
	case "0", "OFF":
		return false, nil
	default:
		return false, &ProtocolError{Response: text, Reason: "not a boolean"}
	}
}

// OnOff formats a boolean as the ON/OFF literal used in command arguments.
func OnOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}
