package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/benchtop/rtm3004-go/pkg/rtm3004"
	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive SCPI console",
	Long: `Shell opens the instrument and drops into an interactive console.
Lines ending in "?" are sent as queries and the reply is printed,
everything else is sent as a plain command. A few builtins are
handled locally:

  help         list the builtins
  idn          print the stored identification string
  errors       drain and print the instrument error queue
  reset        reset the instrument and wait for completion
  measure      read all eight measurement slot results
  exit, quit   leave the console`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	scope, cleanup, err := openScope(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "rtm> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	ctx := cmd.Context()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(rl.Stdout(), "Exiting...")
			return nil
		}

		if shellDispatch(ctx, scope, rl.Stdout(), line) {
			return nil
		}
	}
}

const shellHelp = `builtins:
  help         list the builtins
  idn          print the stored identification string
  errors       drain and print the instrument error queue
  reset        reset the instrument and wait for completion
  measure      read all eight measurement slot results
  exit, quit   leave the console
anything else goes to the instrument; a trailing "?" makes it a query
`

// shellDispatch runs one console line. It reports true when the console
// should exit.
func shellDispatch(ctx context.Context, scope *rtm3004.Scope, out io.Writer, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	switch strings.ToLower(strings.Fields(input)[0]) {
	case "exit", "quit", "q":
		fmt.Fprintln(out, "Exiting...")
		return true

	case "help":
		fmt.Fprint(out, shellHelp)

	case "idn":
		fmt.Fprintln(out, scope.Identity())

	case "errors":
		entries, err := scope.DrainErrors(ctx, 20)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "error queue empty")
			return false
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%d: %s\n", e.Code, e.Message)
		}

	case "reset":
		if err := scope.Session().Reset(ctx); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false
		}
		if err := scope.Session().WaitComplete(ctx, 0); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintf(out, "reset %s\n", scope.Identity())

	case "measure":
		results, err := scope.Measurements(ctx, 8)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false
		}
		for i, v := range results {
			fmt.Fprintf(out, "slot %d: %g\n", i+1, v)
		}

	default:
		if strings.HasSuffix(input, "?") {
			reply, err := scope.Session().Query(ctx, input)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				return false
			}
			fmt.Fprintln(out, scpi.TrimTerminator(reply))
		} else if err := scope.Session().Write(ctx, input); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
	return false
}
