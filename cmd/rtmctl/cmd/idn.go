package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benchtop/rtm3004-go/pkg/rtm3004"
)

var idnCmd = &cobra.Command{
	Use:   "idn",
	Short: "Identify the instrument",
	Args:  cobra.NoArgs,
	RunE:  runIdn,
}

func init() {
	rootCmd.AddCommand(idnCmd)
}

func runIdn(cmd *cobra.Command, args []string) error {
	scope, cleanup, err := openScope(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := rtm3004.ParseIdentity(scope.Identity())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Manufacturer: %s\n", id.Manufacturer)
	fmt.Fprintf(out, "Model:        %s\n", id.Model)
	fmt.Fprintf(out, "Serial:       %s\n", id.Serial)
	fmt.Fprintf(out, "Firmware:     %s\n", id.Firmware)
	return nil
}
