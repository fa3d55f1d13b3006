package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

var (
	// Persistent flags, shared by every subcommand.
	resource   string
	timeout    time.Duration
	traceFile  string
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "rtmctl",
	Short: "Control a Rohde & Schwarz RTM3004 oscilloscope",
	Long: `rtmctl drives a Rohde & Schwarz RTM3004 oscilloscope over its SCPI
interface.

The instrument resource is a VISA-style string:
  TCPIP::10.0.0.17::5025::SOCKET      LAN, raw socket
  ASRL/dev/ttyUSB0::INSTR             serial
  USB::0x0AAD::0x01D6::900001::INSTR  USB-TMC

Flags not given on the command line are read from ~/.rtmctl.yaml.

Examples:
  rtmctl -r TCPIP::10.0.0.17::5025::SOCKET idn
  rtmctl -r TCPIP::10.0.0.17::5025::SOCKET setup --burst --measurements
  rtmctl -r TCPIP::10.0.0.17::5025::SOCKET scale ch1 --slot 1 --start 0.01
  rtmctl -r TCPIP::10.0.0.17::5025::SOCKET shell`,
	SilenceUsage: true,
}

// Execute runs the root command. Interrupts cancel the command context,
// so a run stuck in a settle or completion wait shuts down cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&resource, "resource", "r", "", "instrument resource string")
	pf.DurationVar(&timeout, "timeout", scpi.DefaultTimeout, "reply timeout for queries")
	pf.StringVar(&traceFile, "trace", "", "append a session trace to this file")
	pf.StringVar(&configFile, "config", "", "config file (default ~/.rtmctl.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log protocol traffic to stderr")
}
