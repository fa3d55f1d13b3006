// Package sim provides an in-memory RTM3004 lookalike for tests and the
// rtm-sim daemon. It speaks enough newline-framed SCPI to exercise the
// driver: identification, reset, operation-complete polling, channel and
// math scales with configurable quantization, measurement slots with a
// clipping model, and an error queue. Every received line is recorded in
// arrival order.
package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// DefaultIdentity is the identification reply when Config.Identity is
// empty.
const DefaultIdentity = "Rohde&Schwarz,RTM3004,1335.8794K04/900001,01.300"

// overflowSentinel is the reading reported for a saturated measurement.
const overflowSentinel = "9.91E+37"

// defaultScale is the vertical scale channels and math waveforms take
// after reset, volts per division.
const defaultScale = 0.005

// Config sets up an Instrument.
type Config struct {
	// Identity is the *IDN? reply.
	Identity string

	// Step quantizes commanded channel and math scales to their nearest
	// multiple. Zero applies commanded values exactly.
	Step float64
}

// Instrument is one simulated oscilloscope. Safe for concurrent use;
// every served connection shares the same state.
type Instrument struct {
	// OnCommand, when set, sees every received line before the built-in
	// handling and may take over the reply.
	OnCommand func(line string) (reply string, handled bool)

	mu       sync.Mutex
	identity string
	step     float64

	chanScale map[int]float64
	mathScale map[int]float64

	slotSource map[int]string // "CH1".."CH4", "MA1".."MA5"; CH1 when unset
	slotMain   map[int]string

	results    map[int]float64
	averages   map[int]float64
	stddevs    map[int]float64
	clipBelow  map[int]float64 // slot reads the sentinel while its source scale < threshold
	clipAlways map[int]bool

	opcPending int  // *OPC? answers busy this many more times
	opcNever   bool // *OPC? never reports complete

	state    map[string]string // raw header -> last argument
	errQueue []string
	commands []string
}

// New builds an instrument with power-on defaults applied.
func New(cfg Config) *Instrument {
	ins := &Instrument{
		identity:   cfg.Identity,
		step:       cfg.Step,
		results:    map[int]float64{},
		averages:   map[int]float64{},
		stddevs:    map[int]float64{},
		clipBelow:  map[int]float64{},
		clipAlways: map[int]bool{},
	}
	if ins.identity == "" {
		ins.identity = DefaultIdentity
	}
	ins.resetLocked()
	return ins
}

// resetLocked restores power-on state. The scripted bench model (step,
// clipping thresholds, canned results) survives, as the physical signal
// chain would.
func (i *Instrument) resetLocked() {
	i.chanScale = map[int]float64{}
	for ch := 1; ch <= 4; ch++ {
		i.chanScale[ch] = defaultScale
	}
	i.mathScale = map[int]float64{}
	for m := 1; m <= 5; m++ {
		i.mathScale[m] = defaultScale
	}
	i.slotSource = map[int]string{}
	i.slotMain = map[int]string{}
	i.state = map[string]string{}
}

// Handle processes one received line. The second return reports whether
// the line was a query expecting a reply. Unknown queries answer with an
// empty line and push an entry onto the error queue, so a misbehaving
// driver surfaces as a protocol error instead of a read stall.
func (i *Instrument) Handle(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}

	i.mu.Lock()
	i.commands = append(i.commands, line)
	i.mu.Unlock()

	if hook := i.OnCommand; hook != nil {
		if reply, handled := hook(line); handled {
			return reply, true
		}
	}

	header, arg, isQuery := splitCommand(line)
	if isQuery {
		return i.handleQuery(header), true
	}
	i.handleWrite(header, arg)
	return "", false
}

// splitCommand separates a line into header and argument and strips the
// query marker.
func splitCommand(line string) (header, arg string, isQuery bool) {
	header = line
	if sep := strings.IndexAny(line, " \t"); sep >= 0 {
		header = line[:sep]
		arg = strings.TrimSpace(line[sep+1:])
	}
	if strings.HasSuffix(header, "?") {
		return strings.TrimSuffix(header, "?"), arg, true
	}
	return header, arg, false
}

// splitHeader pulls the numeric suffix out of each mnemonic, so
// "MEAS5:RES" yields key "MEAS:RES" with index 5.
func splitHeader(header string) (string, []int) {
	parts := strings.Split(header, ":")
	var idx []int
	for n, part := range parts {
		trimmed := strings.TrimRightFunc(part, unicode.IsDigit)
		if trimmed == part || trimmed == "" {
			continue
		}
		v, err := strconv.Atoi(part[len(trimmed):])
		if err != nil {
			continue
		}
		idx = append(idx, v)
		parts[n] = trimmed
	}
	return strings.Join(parts, ":"), idx
}

func (i *Instrument) handleQuery(header string) string {
	i.mu.Lock()
	defer i.mu.Unlock()

	key, idx := splitHeader(header)
	switch key {
	case "*IDN":
		return i.identity
	case "*OPC":
		if i.opcNever {
			return "0"
		}
		if i.opcPending > 0 {
			i.opcPending--
			return "0"
		}
		return "1"
	case "*STB":
		if len(i.errQueue) > 0 {
			return "4"
		}
		return "0"
	case "SYST:ERR":
		if len(i.errQueue) == 0 {
			return `0,"No error"`
		}
		next := i.errQueue[0]
		i.errQueue = i.errQueue[1:]
		return next
	case "CHAN:SCAL":
		if len(idx) == 1 {
			return formatFloat(i.chanScale[idx[0]])
		}
	case "CALC:MATH:SCAL":
		if len(idx) == 1 {
			return formatFloat(i.mathScale[idx[0]])
		}
	case "MEAS:RES":
		if len(idx) == 1 {
			return i.readingLocked(idx[0], i.results)
		}
	case "MEAS:RES:AVG":
		if len(idx) == 1 {
			return i.readingLocked(idx[0], i.averages)
		}
	case "MEAS:RES:STDD":
		if len(idx) == 1 {
			return i.readingLocked(idx[0], i.stddevs)
		}
	case "MEAS:SOUR":
		if len(idx) == 1 {
			return i.sourceLocked(idx[0])
		}
	case "MEAS:MAIN":
		if len(idx) == 1 {
			if main, ok := i.slotMain[idx[0]]; ok {
				return main
			}
		}
	}

	if v, ok := i.state[header]; ok {
		return v
	}
	i.errQueue = append(i.errQueue, `-113,"Undefined header"`)
	return ""
}

func (i *Instrument) handleWrite(header, arg string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	key, idx := splitHeader(header)
	switch key {
	case "*RST":
		i.resetLocked()
		return
	case "*CLS":
		i.errQueue = nil
		return
	case "CHAN:SCAL":
		if len(idx) == 1 {
			if v, err := strconv.ParseFloat(arg, 64); err == nil {
				i.chanScale[idx[0]] = i.quantize(v)
			}
			return
		}
	case "CALC:MATH:SCAL":
		if len(idx) == 1 {
			if v, err := strconv.ParseFloat(arg, 64); err == nil {
				i.mathScale[idx[0]] = i.quantize(v)
			}
			return
		}
	case "MEAS:SOUR":
		if len(idx) == 1 {
			i.slotSource[idx[0]] = arg
			return
		}
	case "MEAS:MAIN":
		if len(idx) == 1 {
			i.slotMain[idx[0]] = arg
			return
		}
	}

	// Everything else lands in generic state, so its query form answers
	// with whatever was last set.
	i.state[header] = arg
}

// readingLocked renders a slot's value from the given table, honoring
// the clipping model.
func (i *Instrument) readingLocked(slot int, table map[int]float64) string {
	if i.clipAlways[slot] {
		return overflowSentinel
	}
	if threshold, ok := i.clipBelow[slot]; ok && i.sourceScaleLocked(slot) < threshold {
		return overflowSentinel
	}
	return formatFloat(table[slot])
}

// sourceScaleLocked resolves the current scale of a slot's source.
func (i *Instrument) sourceScaleLocked(slot int) float64 {
	source := i.slotSource[slot]
	if source == "" {
		source = "CH1"
	}
	switch {
	case strings.HasPrefix(source, "CH"):
		if ch, err := strconv.Atoi(source[2:]); err == nil {
			return i.chanScale[ch]
		}
	case strings.HasPrefix(source, "MA"):
		if m, err := strconv.Atoi(source[2:]); err == nil {
			return i.mathScale[m]
		}
	}
	return 0
}

func (i *Instrument) sourceLocked(slot int) string {
	if source, ok := i.slotSource[slot]; ok {
		return source
	}
	return "CH1"
}

// quantize snaps a commanded scale to the nearest supported step. Half
// steps round up; the epsilon keeps binary float noise at exact halves
// from flipping the result.
func (i *Instrument) quantize(v float64) float64 {
	if i.step <= 0 {
		return v
	}
	return math.Floor(v/i.step+0.5+1e-9) * i.step
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'G', -1, 64)
}

// SetClipThreshold makes slot read the overflow sentinel while its
// source's scale is below threshold.
func (i *Instrument) SetClipThreshold(slot int, threshold float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.clipBelow[slot] = threshold
}

// SetClipAlways pins slot to the overflow sentinel regardless of scale.
func (i *Instrument) SetClipAlways(slot int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.clipAlways[slot] = true
}

// SetResult scripts the value slot reads when it is not clipping.
func (i *Instrument) SetResult(slot int, v float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.results[slot] = v
}

// SetAverage scripts a slot's statistical mean.
func (i *Instrument) SetAverage(slot int, v float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.averages[slot] = v
}

// SetStdDev scripts a slot's standard deviation.
func (i *Instrument) SetStdDev(slot int, v float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stddevs[slot] = v
}

// SetSlotSource routes a slot to a source without a command, e.g. "MA1".
func (i *Instrument) SetSlotSource(slot int, source string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.slotSource[slot] = source
}

// SetOPCPending makes the next n operation-complete polls report busy.
func (i *Instrument) SetOPCPending(n int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.opcPending = n
}

// SetNeverComplete pins the operation-complete poll to busy.
func (i *Instrument) SetNeverComplete(v bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.opcNever = v
}

// QueueError pushes an entry onto the error queue.
func (i *Instrument) QueueError(code int, message string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.errQueue = append(i.errQueue, fmt.Sprintf("%d,%q", code, message))
}

// Commands returns a copy of every received line, in arrival order.
func (i *Instrument) Commands() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.commands...)
}

// ChannelScale returns a channel's current vertical scale.
func (i *Instrument) ChannelScale(ch int) float64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.chanScale[ch]
}

// MathScale returns a math waveform's current vertical scale.
func (i *Instrument) MathScale(m int) float64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.mathScale[m]
}

// State returns the last argument written to a raw header, e.g.
// State("WGEN:FUNC").
func (i *Instrument) State(header string) (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	v, ok := i.state[header]
	return v, ok
}
