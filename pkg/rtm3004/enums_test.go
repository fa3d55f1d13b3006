package rtm3004

import (
	"errors"
	"testing"

	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

func TestParseCoupling(t *testing.T) {
	tests := []struct {
		reply string
		want  Coupling
	}{
		{"DCL\n", CouplingDCLimit},
		{"DCLimit", CouplingDCLimit},
		{"ACL", CouplingACLimit},
		{"aclimit", CouplingACLimit},
		{"GND", CouplingGND},
		{"DC", CouplingDC},
	}
	for _, tt := range tests {
		got, err := parseCoupling(tt.reply)
		if err != nil {
			t.Errorf("parseCoupling(%q): %v", tt.reply, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseCoupling(%q) = %v, want %v", tt.reply, got, tt.want)
		}
	}

	_, err := parseCoupling("XXX")
	var perr *scpi.ProtocolError
	if !errors.As(err, &perr) {
		t.Errorf("parseCoupling(XXX) err = %v", err)
	}
}

func TestParseTriggerReplies(t *testing.T) {
	if got, err := parseTriggerMode("NORM\n"); err != nil || got != TriggerNormal {
		t.Errorf("mode = %v, %v", got, err)
	}
	if got, err := parseTriggerType("EDGE"); err != nil || got != TriggerEdge {
		t.Errorf("type = %v, %v", got, err)
	}
	if got, err := parseEdgeCoupling("LFReject"); err != nil || got != EdgeCouplingLFReject {
		t.Errorf("coupling = %v, %v", got, err)
	}
	if got, err := parseEdgeSlope("EITHer"); err != nil || got != SlopeEither {
		t.Errorf("slope = %v, %v", got, err)
	}
}

func TestParseWaveFunction(t *testing.T) {
	for reply, want := range map[string]WaveFunction{
		"SIN":      WaveSine,
		"SINusoid": WaveSine,
		"SQU":      WaveSquare,
		"RAMP":     WaveRamp,
	} {
		got, err := parseWaveFunction(reply)
		if err != nil || got != want {
			t.Errorf("parseWaveFunction(%q) = %v, %v", reply, got, err)
		}
	}
}

func TestParseMeasCategory(t *testing.T) {
	if got, err := parseMeasCategory("FREQuency\n"); err != nil || got != MeasFrequency {
		t.Errorf("category = %v, %v", got, err)
	}
	if _, err := parseMeasCategory("BOGUS"); err == nil {
		t.Error("bogus category accepted")
	}
}

func TestParseChan(t *testing.T) {
	tests := []struct {
		reply string
		want  Chan
	}{
		{"CH1\n", Ch1},
		{"CHAN2", Ch2},
		{"ch4", Ch4},
	}
	for _, tt := range tests {
		got, err := parseChan(tt.reply)
		if err != nil {
			t.Errorf("parseChan(%q): %v", tt.reply, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseChan(%q) = %v, want %v", tt.reply, got, tt.want)
		}
	}

	for _, reply := range []string{"", "MA1", "CH9", "CHX"} {
		if _, err := parseChan(reply); err == nil {
			t.Errorf("parseChan(%q) succeeded", reply)
		}
	}
}
