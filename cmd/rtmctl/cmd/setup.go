package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	setupBurst        bool
	setupTriggerLevel float64
	setupMeasurements bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Apply the two-channel bench setup",
	Long: `Setup enables channels 1 and 2, arms a normal-mode edge trigger on
channel 2, and switches the generator on with the default sine. With
--measurements it also routes the standard measurement slots: peak,
frequency and mean per channel.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
	f := setupCmd.Flags()
	f.BoolVar(&setupBurst, "burst", false, "emit 100-cycle bursts instead of a continuous wave")
	f.Float64Var(&setupTriggerLevel, "trigger-level", 0, "edge trigger level on channel 2, volts")
	f.BoolVar(&setupMeasurements, "measurements", false, "also configure the standard measurement slots")
}

func runSetup(cmd *cobra.Command, args []string) error {
	scope, cleanup, err := openScope(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := scope.SimpleSetup(cmd.Context(), setupBurst, setupTriggerLevel); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "bench setup applied")

	if setupMeasurements {
		if err := scope.SetSimpleMeasurements(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(out, "measurement slots configured")
	}
	return nil
}
