package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the instrument to its default state",
	Long: `Reset issues *RST and waits for the instrument to finish. Opening a
connection already resets the instrument; this command exists to get a
scope back to a known state mid-session.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	scope, cleanup, err := openScope(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// Open has already identified and reset the instrument; report what
	// is on the other end and confirm it is idle.
	if err := scope.Session().WaitComplete(cmd.Context(), 0); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", scope.Identity())
	return nil
}
