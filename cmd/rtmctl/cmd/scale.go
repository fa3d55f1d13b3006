package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/benchtop/rtm3004-go/pkg/rtm3004"
)

var (
	scaleSlot     int
	scaleStart    float64
	scaleGrowth   float64
	scaleAttempts int
	scaleSettle   time.Duration
)

var scaleCmd = &cobra.Command{
	Use:   "scale ch1..ch4|m1..m5",
	Short: "Widen a waveform's vertical scale until its measurement stops clipping",
	Long: `Scale runs the auto-range loop on one waveform: it applies the start
scale, then tests the measurement slot and grows the instrument's
applied scale by the growth factor until the reading leaves overflow.

The run uses the full acquisition settling pauses, so expect several
seconds per iteration; --settle shortens them for signal chains known
to stabilize faster.

Examples:
  rtmctl scale ch1 --slot 1 --start 0.01
  rtmctl scale m1 --slot 3 --start 0.05 --attempts 8`,
	Args: cobra.ExactArgs(1),
	RunE: runScale,
}

func init() {
	rootCmd.AddCommand(scaleCmd)
	f := scaleCmd.Flags()
	f.IntVar(&scaleSlot, "slot", 1, "measurement slot watched for clipping")
	f.Float64Var(&scaleStart, "start", 0.01, "starting scale, volts per division")
	f.Float64Var(&scaleGrowth, "growth", 0, "growth factor per correction (default 1.25)")
	f.IntVar(&scaleAttempts, "attempts", 0, "correction budget (default 32)")
	f.DurationVar(&scaleSettle, "settle", 0, "settling pause per iteration (default: full acquisition pauses)")
}

// parseWaveform maps "ch2" or "m1" onto the typed waveform identifiers.
func parseWaveform(arg string) (rtm3004.Chan, rtm3004.Math, bool, error) {
	s := strings.ToLower(strings.TrimSpace(arg))
	switch {
	case strings.HasPrefix(s, "ch"):
		n, err := strconv.Atoi(s[2:])
		if err != nil {
			return 0, 0, false, fmt.Errorf("bad waveform %q (want ch1..ch4 or m1..m5)", arg)
		}
		ch, err := rtm3004.NewChan(n)
		return ch, 0, false, err
	case strings.HasPrefix(s, "m"):
		n, err := strconv.Atoi(s[1:])
		if err != nil {
			return 0, 0, false, fmt.Errorf("bad waveform %q (want ch1..ch4 or m1..m5)", arg)
		}
		m, err := rtm3004.NewMath(n)
		return 0, m, true, err
	default:
		return 0, 0, false, fmt.Errorf("bad waveform %q (want ch1..ch4 or m1..m5)", arg)
	}
}

func runScale(cmd *cobra.Command, args []string) error {
	ch, m, isMath, err := parseWaveform(args[0])
	if err != nil {
		return err
	}
	slot, err := rtm3004.NewSlot(scaleSlot)
	if err != nil {
		return err
	}

	scope, cleanup, err := openScope(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := &rtm3004.AutoRange{
		GrowthFactor:   scaleGrowth,
		MaxAttempts:    scaleAttempts,
		InitialSettle:  scaleSettle,
		RetestSettle:   scaleSettle,
		CompletionPoll: scaleSettle,
	}
	var final float64
	if isMath {
		final, err = scope.FixMathClipping(cmd.Context(), slot, m, scaleStart, cfg)
	} else {
		final, err = scope.FixClipping(cmd.Context(), slot, ch, scaleStart, cfg)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s settled at %g V/div\n", args[0], final)
	return nil
}
