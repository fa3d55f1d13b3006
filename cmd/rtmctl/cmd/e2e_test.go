package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benchtop/rtm3004-go/internal/sim"
	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

// startSim serves a simulated instrument on a loopback socket and
// returns it together with the matching resource string.
func startSim(t *testing.T, cfg sim.Config) (*sim.Instrument, string) {
	t.Helper()

	ins := sim.New(cfg)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go ins.Serve(ctx, ln)
	t.Cleanup(cancel)

	port := ln.Addr().(*net.TCPAddr).Port
	return ins, fmt.Sprintf("TCPIP::127.0.0.1::%d::SOCKET", port)
}

// runCommand executes one rtmctl invocation with stdout captured.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Keep a developer's real ~/.rtmctl.yaml out of the run.
	t.Setenv("HOME", t.TempDir())

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Read in background to prevent the pipe buffer from blocking
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		buf.ReadFrom(r)
		close(done)
	}()

	resetFlags()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	w.Close()
	os.Stdout = old
	<-done

	return buf.String(), err
}

// resetFlags restores every flag variable to its registered default so
// values cannot accumulate between invocations.
func resetFlags() {
	resource = ""
	timeout = scpi.DefaultTimeout
	traceFile = ""
	configFile = ""
	verbose = false
	errorsMax = 20
	setupBurst = false
	setupTriggerLevel = 0
	setupMeasurements = false
	scaleSlot = 1
	scaleStart = 0.01
	scaleGrowth = 0
	scaleAttempts = 0
	scaleSettle = 0
	measureSlots = 0
	measureStats = false
	traceSession = ""
	traceKind = ""
}

func TestIdnE2E(t *testing.T) {
	_, res := startSim(t, sim.Config{})

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name: "identify",
			args: []string{"--resource", res, "idn"},
			wantContain: []string{
				"Rohde&Schwarz",
				"RTM3004",
				"1335.8794K04/900001",
				"01.300",
			},
		},
		{
			name:    "missing resource",
			args:    []string{"idn"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCommand(t, tt.args...)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v\nOutput: %s", err, output)
				return
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestSetupE2E(t *testing.T) {
	ins, res := startSim(t, sim.Config{Step: 0.005})

	output, err := runCommand(t, "--resource", res, "setup", "--burst", "--measurements")
	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	for _, want := range []string{"bench setup applied", "measurement slots configured"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
		}
	}

	var sawBurst bool
	for _, c := range ins.Commands() {
		if c == "WGEN:BURS ON" {
			sawBurst = true
		}
	}
	if !sawBurst {
		t.Errorf("Burst mode never commanded; commands: %v", ins.Commands())
	}
}

func TestScaleE2E(t *testing.T) {
	ins, res := startSim(t, sim.Config{Step: 0.005})
	ins.SetClipThreshold(1, 0.05)
	ins.SetResult(1, 0.042)

	output, err := runCommand(t, "--resource", res,
		"scale", "ch1", "--slot", "1", "--start", "0.01", "--settle", "1ms")
	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "settled at") {
		t.Errorf("Output missing settle report:\n%s", output)
	}
	if got := ins.ChannelScale(1); got < 0.05 {
		t.Errorf("Channel scale = %g, want at least 0.05", got)
	}

	if _, err := runCommand(t, "--resource", res, "scale", "ch9"); err == nil {
		t.Errorf("Expected error for bad waveform")
	}
}

func TestMeasureE2E(t *testing.T) {
	ins, res := startSim(t, sim.Config{})
	ins.SetResult(1, 0.5)
	ins.SetResult(2, 10000)
	ins.SetResult(3, 0.25)
	ins.SetResult(5, 0.75)
	ins.SetResult(6, 9950)
	ins.SetResult(7, -0.1)

	output, err := runCommand(t, "--resource", res, "measure")
	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	for _, want := range []string{"peak (V)", "freq (Hz)", "mean (V)", "0.5", "10000", "0.75", "-0.1"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
		}
	}

	output, err = runCommand(t, "--resource", res, "measure", "--slots", "2")
	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	for _, want := range []string{"slot 1: 0.5", "slot 2: 10000"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
		}
	}
}

func TestErrorsE2E(t *testing.T) {
	ins, res := startSim(t, sim.Config{})
	ins.QueueError(-222, "Data out of range")
	ins.QueueError(-113, "Undefined header")

	output, err := runCommand(t, "--resource", res, "errors")
	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	for _, want := range []string{"-222: Data out of range", "-113: Undefined header"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
		}
	}

	output, err = runCommand(t, "--resource", res, "errors")
	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "error queue empty") {
		t.Errorf("Output missing empty-queue notice:\n%s", output)
	}
}

func TestTraceE2E(t *testing.T) {
	_, res := startSim(t, sim.Config{})
	path := filepath.Join(t.TempDir(), "wire.trace")

	if output, err := runCommand(t, "--resource", res, "--trace", path, "idn"); err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}

	output, err := runCommand(t, "trace", path)
	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	for _, want := range []string{"*IDN?", "*RST", "QUERY", "COMMAND", "REPLY", "RTM3004"} {
		if !strings.Contains(output, want) {
			t.Errorf("Trace output missing %q:\n%s", want, output)
		}
	}

	output, err = runCommand(t, "trace", path, "--kind", "command")
	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "*RST") {
		t.Errorf("Filtered trace missing *RST:\n%s", output)
	}
	if strings.Contains(output, "REPLY") {
		t.Errorf("Kind filter leaked replies:\n%s", output)
	}
}
