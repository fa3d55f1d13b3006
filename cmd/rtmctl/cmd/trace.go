package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benchtop/rtm3004-go/pkg/trace"
)

var (
	traceSession string
	traceKind    string
)

var traceCmd = &cobra.Command{
	Use:   "trace <file>",
	Short: "View a wire trace file",
	Long: `Trace prints the events of a CBOR wire trace recorded with --trace in
human-readable form, one header line per event with detail lines for
state changes and errors.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)
	f := traceCmd.Flags()
	f.StringVar(&traceSession, "session", "", "only show events of this session ID")
	f.StringVar(&traceKind, "kind", "", "only show events of this kind (command|query|reply|delay|state|error)")
}

func runTrace(cmd *cobra.Command, args []string) error {
	filter := trace.Filter{SessionID: traceSession}
	if traceKind != "" {
		k, err := parseTraceKind(traceKind)
		if err != nil {
			return err
		}
		filter.Kind = &k
	}

	r, err := trace.NewFilteredReader(args[0], filter)
	if err != nil {
		return fmt.Errorf("failed to open trace: %w", err)
	}
	defer r.Close()

	out := cmd.OutOrStdout()
	for {
		event, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read trace: %w", err)
		}
		formatTraceEvent(out, event)
	}
}

// formatTraceEvent writes a human-readable representation of the event to w.
func formatTraceEvent(w io.Writer, event trace.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [sess:%s] %-3s %-7s %s", ts, shortenSessionID(event.SessionID),
		event.Direction.String(), event.Kind.String(), event.Payload)
	if event.Elapsed != nil {
		fmt.Fprintf(w, " (%s)", event.Elapsed)
	}
	fmt.Fprintln(w)

	if event.State != nil {
		if event.State.OldState != "" {
			fmt.Fprintf(w, "  %s -> %s\n", event.State.OldState, event.State.NewState)
		} else {
			fmt.Fprintf(w, "  -> %s\n", event.State.NewState)
		}
		if event.State.Reason != "" {
			fmt.Fprintf(w, "  Reason: %s\n", event.State.Reason)
		}
	}
	if event.Error != nil {
		fmt.Fprintf(w, "  Message: %s\n", event.Error.Message)
		if event.Error.Context != "" {
			fmt.Fprintf(w, "  Context: %s\n", event.Error.Context)
		}
	}
}

func parseTraceKind(name string) (trace.Kind, error) {
	switch strings.ToLower(name) {
	case "command":
		return trace.KindCommand, nil
	case "query":
		return trace.KindQuery, nil
	case "reply":
		return trace.KindReply, nil
	case "delay":
		return trace.KindDelay, nil
	case "state":
		return trace.KindState, nil
	case "error":
		return trace.KindError, nil
	default:
		return 0, fmt.Errorf("unknown event kind %q (want command|query|reply|delay|state|error)", name)
	}
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
