package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var errorsMax int

var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Drain and print the instrument's error queue",
	Args:  cobra.NoArgs,
	RunE:  runErrors,
}

func init() {
	rootCmd.AddCommand(errorsCmd)
	errorsCmd.Flags().IntVar(&errorsMax, "max", 20, "maximum queue entries to drain")
}

func runErrors(cmd *cobra.Command, args []string) error {
	scope, cleanup, err := openScope(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	entries, err := scope.DrainErrors(cmd.Context(), errorsMax)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "error queue empty")
		return nil
	}
	for _, entry := range entries {
		fmt.Fprintf(out, "%d: %s\n", entry.Code, entry.Message)
	}
	return nil
}
