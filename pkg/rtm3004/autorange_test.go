package rtm3004

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/benchtop/rtm3004-go/internal/sim"
	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

// scaleArgs extracts the numeric argument of every set command with the
// given prefix, in order. The trailing space in the prefix keeps the
// query form out.
func scaleArgs(t *testing.T, cmds []string, prefix string) []float64 {
	t.Helper()
	var out []float64
	for _, cmd := range cmds {
		if !strings.HasPrefix(cmd, prefix) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimPrefix(cmd, prefix), 64)
		if err != nil {
			t.Fatalf("bad scale command %q: %v", cmd, err)
		}
		out = append(out, v)
	}
	return out
}

func countCommands(cmds []string, line string) int {
	n := 0
	for _, cmd := range cmds {
		if cmd == line {
			n++
		}
	}
	return n
}

func TestCheckClipping(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})
	ins.SetClipAlways(4)
	ins.SetResult(2, 0.042)
	ctx := context.Background()

	if clipping, err := scope.CheckClipping(ctx, Slot4); err != nil || !clipping {
		t.Errorf("saturated slot = %v, %v", clipping, err)
	}
	if clipping, err := scope.CheckClipping(ctx, Slot2); err != nil || clipping {
		t.Errorf("healthy slot = %v, %v", clipping, err)
	}
}

func TestCheckClippingExactMatchOnly(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})
	replies := map[string]string{
		"MEAS1:RES?": "9.91e+37",  // numerically equal, different case
		"MEAS2:RES?": "9.910E+37", // extra digit
		"MEAS3:RES?": "9.92E+37",  // different value
	}
	ins.OnCommand = func(line string) (string, bool) {
		reply, ok := replies[line]
		return reply, ok
	}
	ctx := context.Background()

	for _, slot := range []Slot{Slot1, Slot2, Slot3} {
		clipping, err := scope.CheckClipping(ctx, slot)
		if err != nil {
			t.Fatalf("slot %d: %v", slot, err)
		}
		if clipping {
			t.Errorf("slot %d near-sentinel reply treated as clipping", slot)
		}
	}
}

func TestFixClippingConverges(t *testing.T) {
	const step = 0.005
	scope, ins := newTestScope(t, sim.Config{Step: step})
	ins.SetClipThreshold(1, 0.05)
	ins.SetResult(1, 0.042)

	final, err := scope.FixClipping(context.Background(), Slot1, Ch1, 0.01, fastAutoRange())
	if err != nil {
		t.Fatalf("fix clipping: %v", err)
	}

	// The run ends on the instrument's applied scale, wide enough that
	// the measurement stopped saturating.
	if final != ins.ChannelScale(1) {
		t.Errorf("returned %v, instrument at %v", final, ins.ChannelScale(1))
	}
	if final < 0.05 || final > 0.07 {
		t.Errorf("final scale %v outside the expected band", final)
	}

	cmds := ins.Commands()
	commanded := scaleArgs(t, cmds, "CHAN1:SCAL ")
	if len(commanded) < 2 {
		t.Fatalf("scale commands = %v", commanded)
	}
	if commanded[0] != 0.01 {
		t.Errorf("starting scale = %v", commanded[0])
	}

	// Each correction grows the instrument's applied scale, modulo the
	// three-decimal wire resolution.
	applied := snapScale(commanded[0], step)
	for _, cmd := range commanded[1:] {
		if math.Abs(cmd-DefaultGrowthFactor*applied) > 0.0005+1e-12 {
			t.Errorf("correction %v does not grow from applied scale %v", cmd, applied)
		}
		applied = snapScale(cmd, step)
	}
	if final != applied {
		t.Errorf("final scale %v, last applied %v", final, applied)
	}

	// One clipping test per loop entry, one completion wait per
	// correction.
	if got, want := countCommands(cmds, "MEAS1:RES?"), len(commanded); got != want {
		t.Errorf("clipping tests = %d, want %d", got, want)
	}
	if got, want := countCommands(cmds, "*OPC?"), len(commanded)-1; got != want {
		t.Errorf("completion polls = %d, want %d", got, want)
	}
}

func TestFixMathClippingGrowsFromApplied(t *testing.T) {
	const step = 0.002
	scope, ins := newTestScope(t, sim.Config{Step: step})
	ins.SetSlotSource(3, "MA1")
	ins.SetClipThreshold(3, 0.019)
	ins.SetResult(3, 0.008)

	final, err := scope.FixMathClipping(context.Background(), Slot3, M1, 0.01, fastAutoRange())
	if err != nil {
		t.Fatalf("fix clipping: %v", err)
	}
	if final != ins.MathScale(1) {
		t.Errorf("returned %v, instrument at %v", final, ins.MathScale(1))
	}
	if final < 0.019 {
		t.Errorf("final scale %v still below the clipping threshold", final)
	}

	// Math scale commands carry full precision, so the growth chain can
	// be checked exactly: every correction is the growth factor times
	// the value the instrument reported, not times the value previously
	// commanded.
	commanded := scaleArgs(t, ins.Commands(), "CALC:MATH1:SCAL ")
	if len(commanded) < 3 {
		t.Fatalf("scale commands = %v", commanded)
	}
	applied := snapScale(commanded[0], step)
	for n, cmd := range commanded[1:] {
		if cmd != DefaultGrowthFactor*applied {
			t.Errorf("correction %d = %v, want %v", n+1, cmd, DefaultGrowthFactor*applied)
		}
		applied = snapScale(cmd, step)
	}
	if final != applied {
		t.Errorf("final scale %v, last applied %v", final, applied)
	}

	// The second correction must differ from naive growth of the first
	// commanded value: the instrument snapped that command to its grid.
	if snapScale(commanded[1], step) == commanded[1] {
		t.Fatalf("commanded %v landed on the grid; pick a start off the grid", commanded[1])
	}
	if commanded[2] == DefaultGrowthFactor*commanded[1] {
		t.Error("correction grew from the commanded scale, not the applied one")
	}
}

func TestFixClippingUnresolved(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{Step: 0.005})
	ins.SetClipAlways(2)

	cfg := fastAutoRange()
	cfg.MaxAttempts = 4
	final, err := scope.FixClipping(context.Background(), Slot2, Ch3, 0.01, cfg)
	if !errors.Is(err, ErrClippingUnresolved) {
		t.Fatalf("err = %v", err)
	}

	// The attempt budget bounds the scale commands: the start plus one
	// correction per attempt. The last applied scale still comes back.
	commanded := scaleArgs(t, ins.Commands(), "CHAN3:SCAL ")
	if len(commanded) != 5 {
		t.Errorf("scale commands = %v", commanded)
	}
	if final != ins.ChannelScale(3) {
		t.Errorf("returned %v, instrument at %v", final, ins.ChannelScale(3))
	}
	if got := countCommands(ins.Commands(), "*OPC?"); got != 4 {
		t.Errorf("completion polls = %d", got)
	}
}

func TestFixClippingFailsOpenOnGarbage(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})
	ins.OnCommand = func(line string) (string, bool) {
		if line == "MEAS1:RES?" {
			return "FUSE BLOWN", true
		}
		return "", false
	}

	// An unparseable reading is not the overflow value, so the run halts
	// immediately instead of growing the scale without bound.
	final, err := scope.FixClipping(context.Background(), Slot1, Ch2, 0.01, fastAutoRange())
	if err != nil {
		t.Fatalf("fix clipping: %v", err)
	}
	if final != 0.01 {
		t.Errorf("final scale = %v", final)
	}
	commanded := scaleArgs(t, ins.Commands(), "CHAN2:SCAL ")
	if len(commanded) != 1 {
		t.Errorf("scale commands = %v", commanded)
	}
}

func TestFixClippingPropagatesQueryFailure(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})
	ins.OnCommand = func(line string) (string, bool) {
		if line == "MEAS1:RES?" {
			return "", true // empty reply, a protocol error
		}
		return "", false
	}

	_, err := scope.FixClipping(context.Background(), Slot1, Ch1, 0.01, fastAutoRange())
	if !errors.Is(err, scpi.ErrEmptyResponse) {
		t.Errorf("err = %v", err)
	}
}

func TestFixClippingCompletionTimeout(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})
	ins.SetClipAlways(1)
	ins.SetNeverComplete(true)

	_, err := scope.FixClipping(context.Background(), Slot1, Ch1, 0.01, fastAutoRange())
	if !errors.Is(err, scpi.ErrCompletionTimeout) {
		t.Errorf("err = %v", err)
	}
}

func TestAutoRangeDefaults(t *testing.T) {
	var cfg *AutoRange
	c := cfg.withDefaults()
	if c.GrowthFactor != DefaultGrowthFactor || c.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("defaults = %+v", c)
	}
	if c.InitialSettle != DefaultInitialSettle || c.RetestSettle != DefaultRetestSettle {
		t.Errorf("defaults = %+v", c)
	}
	if c.CompletionPoll != DefaultCorrectionPoll {
		t.Errorf("defaults = %+v", c)
	}

	custom := (&AutoRange{MaxAttempts: 3}).withDefaults()
	if custom.MaxAttempts != 3 || custom.GrowthFactor != DefaultGrowthFactor {
		t.Errorf("partial override = %+v", custom)
	}
}
