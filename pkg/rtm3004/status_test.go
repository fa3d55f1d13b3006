package rtm3004

import (
	"context"
	"testing"

	"github.com/benchtop/rtm3004-go/internal/sim"
)

func TestPopErrorEmptyQueue(t *testing.T) {
	scope, _ := newTestScope(t, sim.Config{})

	entry, err := scope.PopError(context.Background())
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if entry.Code != 0 || entry.Message != "No error" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestDrainErrors(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})
	ins.QueueError(-222, "Data out of range")
	ins.QueueError(-113, "Undefined header")
	ctx := context.Background()

	if stb, err := scope.GetStatusByte(ctx); err != nil || stb != 4 {
		t.Errorf("status byte = %v, %v", stb, err)
	}

	got, err := scope.DrainErrors(ctx, 20)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	want := []InstrumentError{
		{Code: -222, Message: "Data out of range"},
		{Code: -113, Message: "Undefined header"},
	}
	if len(got) != len(want) {
		t.Fatalf("entries = %v", got)
	}
	for n := range want {
		if got[n] != want[n] {
			t.Errorf("entry %d = %+v, want %+v", n, got[n], want[n])
		}
	}

	// Drained queue reads clean.
	if stb, err := scope.GetStatusByte(ctx); err != nil || stb != 0 {
		t.Errorf("status byte = %v, %v", stb, err)
	}
}

func TestDrainErrorsBounded(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})
	for n := 0; n < 5; n++ {
		ins.QueueError(-113, "Undefined header")
	}

	got, err := scope.DrainErrors(context.Background(), 3)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("entries = %v", got)
	}
}

func TestClearStatus(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})
	ins.QueueError(-350, "Queue overflow")
	ctx := context.Background()

	if err := scope.ClearStatus(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entry, err := scope.PopError(ctx)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if entry.Code != 0 {
		t.Errorf("entry = %+v", entry)
	}
}

func TestInstrumentErrorMessage(t *testing.T) {
	err := InstrumentError{Code: -222, Message: "Data out of range"}
	if got := err.Error(); got != "instrument error -222: Data out of range" {
		t.Errorf("message = %q", got)
	}
}
