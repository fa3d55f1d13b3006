package rtm3004_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/benchtop/rtm3004-go/internal/sim"
	"github.com/benchtop/rtm3004-go/pkg/rtm3004"
	"github.com/benchtop/rtm3004-go/pkg/scpi"
	"github.com/benchtop/rtm3004-go/pkg/trace"
)

// TestE2E_OpenIdentifiesAndResets tests that opening a scope captures
// the identity and lands the reset before anything else touches the
// instrument.
func TestE2E_OpenIdentifiesAndResets(t *testing.T) {
	ins, res := startInstrument(t, sim.Config{})
	scope := openScope(t, res)

	if scope.Identity() != sim.DefaultIdentity {
		t.Errorf("Identity = %q, want %q", scope.Identity(), sim.DefaultIdentity)
	}
	id, err := rtm3004.ParseIdentity(scope.Identity())
	if err != nil {
		t.Fatalf("Failed to parse identity: %v", err)
	}
	if id.Model != "RTM3004" {
		t.Errorf("Model = %q, want RTM3004", id.Model)
	}

	want := []string{"*IDN?", "*RST", "*OPC?"}
	if got := ins.Commands(); !slices.Equal(got, want) {
		t.Errorf("Open exchange = %v, want %v", got, want)
	}
}

// TestE2E_BenchSetupAndMeasure drives the canned bench bring-up over
// TCP and reads the standard measurements back.
func TestE2E_BenchSetupAndMeasure(t *testing.T) {
	ins, res := startInstrument(t, sim.Config{Step: 0.005})
	ins.SetResult(1, 1.25)
	ins.SetResult(2, 10000)
	ins.SetResult(3, 0.61)
	ins.SetResult(5, 1.13)
	ins.SetResult(6, 9985)
	ins.SetResult(7, 0.55)

	scope := openScope(t, res)
	ctx := context.Background()

	if err := scope.SimpleSetup(ctx, true, 0); err != nil {
		t.Fatalf("Failed to set up bench: %v", err)
	}
	if err := scope.SetSimpleMeasurements(ctx); err != nil {
		t.Fatalf("Failed to configure measurements: %v", err)
	}

	results, err := scope.GetSimpleMeasurements(ctx)
	if err != nil {
		t.Fatalf("Failed to read measurements: %v", err)
	}
	want := rtm3004.SimpleResults{
		PeakCh1: 1.25, FreqCh1: 10000, MeanCh1: 0.61,
		PeakCh2: 1.13, FreqCh2: 9985, MeanCh2: 0.55,
	}
	if results != want {
		t.Errorf("Results = %+v, want %+v", results, want)
	}

	if got, ok := ins.State("WGEN:BURS"); !ok || got != "ON" {
		t.Errorf("WGEN:BURS = %q (set: %v), want ON", got, ok)
	}
}

// TestE2E_AutoRangeOverTCP runs the clipping correction against the
// served instrument and checks that the driver, the instrument and the
// reported scale all agree once the reading leaves overflow.
func TestE2E_AutoRangeOverTCP(t *testing.T) {
	ins, res := startInstrument(t, sim.Config{Step: 0.005})
	ins.SetClipThreshold(1, 0.05)
	ins.SetResult(1, 0.042)

	scope := openScope(t, res)

	cfg := &rtm3004.AutoRange{
		InitialSettle:  time.Millisecond,
		RetestSettle:   time.Millisecond,
		CompletionPoll: time.Millisecond,
	}
	final, err := scope.FixClipping(context.Background(), rtm3004.Slot1, rtm3004.Ch1, 0.01, cfg)
	if err != nil {
		t.Fatalf("Failed to fix clipping: %v", err)
	}
	if final < 0.05 || final >= 0.07 {
		t.Errorf("Final scale = %g, want within [0.05, 0.07)", final)
	}
	if got := ins.ChannelScale(1); got != final {
		t.Errorf("Instrument scale = %g, driver reported %g", got, final)
	}
}

// TestE2E_ErrorQueueAfterBadQuery tests that an undefined query
// surfaces as an empty-response error and leaves the matching entry on
// the instrument error queue.
func TestE2E_ErrorQueueAfterBadQuery(t *testing.T) {
	_, res := startInstrument(t, sim.Config{})
	scope := openScope(t, res)
	ctx := context.Background()

	_, err := scope.Session().Query(ctx, "BOGUS:HEADer?")
	if !errors.Is(err, scpi.ErrEmptyResponse) {
		t.Fatalf("Query error = %v, want %v", err, scpi.ErrEmptyResponse)
	}

	entries, err := scope.DrainErrors(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to drain errors: %v", err)
	}
	if len(entries) != 1 || entries[0].Code != -113 {
		t.Fatalf("Entries = %+v, want a single -113", entries)
	}
	if entries[0].Message != "Undefined header" {
		t.Errorf("Message = %q, want Undefined header", entries[0].Message)
	}
}

// TestE2E_TwoSessions tests that independent sessions hit the same
// instrument state: what one session configures, the other reads back.
func TestE2E_TwoSessions(t *testing.T) {
	_, res := startInstrument(t, sim.Config{})

	first := openScope(t, res)
	second := openScope(t, res)
	ctx := context.Background()

	if err := first.SetVerticalScale(ctx, rtm3004.Ch1, 0.02); err != nil {
		t.Fatalf("Failed to set scale: %v", err)
	}
	got, err := second.GetVerticalScale(ctx, rtm3004.Ch1)
	if err != nil {
		t.Fatalf("Failed to read scale: %v", err)
	}
	if got != 0.02 {
		t.Errorf("Scale via second session = %g, want 0.02", got)
	}
}

// TestE2E_TraceCapture records a session to disk and reads the file
// back, checking the wire exchange survives the trip through the trace
// encoding.
func TestE2E_TraceCapture(t *testing.T) {
	_, res := startInstrument(t, sim.Config{})

	path := filepath.Join(t.TempDir(), "session.trace")
	fl, err := trace.NewFileLogger(path)
	if err != nil {
		t.Fatalf("Failed to create trace file: %v", err)
	}

	scope := openScope(t, res, scpi.WithLogger(fl))
	sessionID := scope.Session().ID()
	if err := scope.Close(); err != nil {
		t.Fatalf("Failed to close scope: %v", err)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("Failed to close trace file: %v", err)
	}

	r, err := trace.NewReader(path)
	if err != nil {
		t.Fatalf("Failed to open trace: %v", err)
	}
	defer r.Close()

	var queries, replies, states int
	var payloads []string
	for {
		ev, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Failed to read trace: %v", err)
		}
		if ev.SessionID != sessionID {
			t.Errorf("SessionID = %q, want %q", ev.SessionID, sessionID)
		}
		switch ev.Kind {
		case trace.KindQuery:
			queries++
		case trace.KindReply:
			replies++
		case trace.KindState:
			states++
		}
		payloads = append(payloads, ev.Payload)
	}

	if queries == 0 || replies == 0 {
		t.Errorf("Trace has %d queries and %d replies, want both recorded", queries, replies)
	}
	if states == 0 {
		t.Errorf("Trace has no state events, want at least the close")
	}

	joined := strings.Join(payloads, "\n")
	for _, want := range []string{"*IDN?", "*RST", "*OPC?", "RTM3004"} {
		if !strings.Contains(joined, want) {
			t.Errorf("Trace missing %q; payloads:\n%s", want, joined)
		}
	}
}

// Helper functions

// startInstrument serves a simulated instrument on a loopback socket
// and returns it with the resource string for dialing it.
func startInstrument(t *testing.T, cfg sim.Config) (*sim.Instrument, string) {
	t.Helper()

	ins := sim.New(cfg)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go ins.Serve(ctx, ln)
	t.Cleanup(cancel)

	port := ln.Addr().(*net.TCPAddr).Port
	return ins, fmt.Sprintf("TCPIP::127.0.0.1::%d::SOCKET", port)
}

// openScope dials the resource with pacing suited to the simulator.
func openScope(t *testing.T, resource string, opts ...scpi.Option) *rtm3004.Scope {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts = append([]scpi.Option{
		scpi.WithSettleDelay(time.Millisecond),
		scpi.WithTimeout(5 * time.Second),
	}, opts...)
	scope, err := rtm3004.Open(ctx, resource, opts...)
	if err != nil {
		t.Fatalf("Failed to open scope: %v", err)
	}
	t.Cleanup(func() { scope.Close() })
	return scope
}
