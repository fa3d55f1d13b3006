package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	measureSlots int
	measureStats bool
)

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Read the standard measurements",
	Long: `Measure configures the standard measurement slots and prints one
reading of each: peak amplitude, frequency and mean for channels 1 and
2. With --slots it instead dumps the raw results of slots 1..n.`,
	Args: cobra.NoArgs,
	RunE: runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)
	f := measureCmd.Flags()
	f.IntVar(&measureSlots, "slots", 0, "dump raw results of slots 1..n instead")
	f.BoolVar(&measureStats, "stats", false, "also print accumulated averages and deviations")
}

func runMeasure(cmd *cobra.Command, args []string) error {
	scope, cleanup, err := openScope(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if measureSlots > 0 {
		results, err := scope.Measurements(ctx, measureSlots)
		if err != nil {
			return err
		}
		for n, v := range results {
			fmt.Fprintf(out, "slot %d: %g\n", n+1, v)
		}
		return nil
	}

	if err := scope.SetSimpleMeasurements(ctx); err != nil {
		return err
	}
	results, err := scope.GetSimpleMeasurements(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%-12s %14s %14s\n", "", "channel 1", "channel 2")
	fmt.Fprintf(out, "%-12s %14g %14g\n", "peak (V)", results.PeakCh1, results.PeakCh2)
	fmt.Fprintf(out, "%-12s %14g %14g\n", "freq (Hz)", results.FreqCh1, results.FreqCh2)
	fmt.Fprintf(out, "%-12s %14g %14g\n", "mean (V)", results.MeanCh1, results.MeanCh2)

	if measureStats {
		avgs, err := scope.GetSimpleAverages(ctx)
		if err != nil {
			return err
		}
		devs, err := scope.GetSimpleStdDevs(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-12s %14g %14g\n", "avg peak", avgs.PeakCh1, avgs.PeakCh2)
		fmt.Fprintf(out, "%-12s %14g %14g\n", "avg freq", avgs.FreqCh1, avgs.FreqCh2)
		fmt.Fprintf(out, "%-12s %14g %14g\n", "avg mean", avgs.MeanCh1, avgs.MeanCh2)
		fmt.Fprintf(out, "%-12s %14g %14g\n", "dev peak", devs.PeakCh1, devs.PeakCh2)
		fmt.Fprintf(out, "%-12s %14g %14g\n", "dev freq", devs.FreqCh1, devs.FreqCh2)
		fmt.Fprintf(out, "%-12s %14g %14g\n", "dev mean", devs.MeanCh1, devs.MeanCh2)
	}
	return nil
}
