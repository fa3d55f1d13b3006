package rtm3004

import (
	"context"
	"testing"

	"github.com/benchtop/rtm3004-go/internal/sim"
)

func TestHorizontal(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})
	ctx := context.Background()

	if err := scope.SetHorizontalScale(ctx, 2e-3); err != nil {
		t.Fatalf("scale: %v", err)
	}
	if v, _ := ins.State("TIM:SCAL"); v != "2.00e-03" {
		t.Errorf("scale argument = %q", v)
	}
	if got, err := scope.GetHorizontalScale(ctx); err != nil || got != 2e-3 {
		t.Errorf("scale = %v, %v", got, err)
	}

	if err := scope.SetHorizontalPosition(ctx, 0.0005); err != nil {
		t.Fatalf("position: %v", err)
	}
	if v, _ := ins.State("TIM:POS"); v != "0.000500" {
		t.Errorf("position argument = %q", v)
	}
	if got, err := scope.GetHorizontalPosition(ctx); err != nil || got != 0.0005 {
		t.Errorf("position = %v, %v", got, err)
	}
}

func TestAcquisitionConfiguration(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})
	ctx := context.Background()

	if err := scope.StartAcquisition(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := scope.StopAcquisition(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	cmds := ins.Commands()
	if cmds[0] != "START" || cmds[1] != "STOP" {
		t.Errorf("commands = %v", cmds)
	}

	if err := scope.SetAcquisitionType(ctx, AcqAverage); err != nil {
		t.Fatalf("type: %v", err)
	}
	if got, err := scope.GetAcquisitionType(ctx); err != nil || got != AcqAverage {
		t.Errorf("type = %v, %v", got, err)
	}

	if err := scope.SetMemoryMode(ctx, MemoryDMem); err != nil {
		t.Fatalf("memory: %v", err)
	}
	if got, err := scope.GetMemoryMode(ctx); err != nil || got != MemoryDMem {
		t.Errorf("memory = %v, %v", got, err)
	}

	if err := scope.SetDecimation(ctx, DecimationHighRes); err != nil {
		t.Fatalf("decimation: %v", err)
	}
	if got, err := scope.GetDecimation(ctx); err != nil || got != DecimationHighRes {
		t.Errorf("decimation = %v, %v", got, err)
	}

	if err := scope.SetArithmetic(ctx, ArithmeticAverage); err != nil {
		t.Fatalf("arithmetic: %v", err)
	}
	if v, _ := ins.State("CHAN:ARIT"); v != "AVER" {
		t.Errorf("arithmetic argument = %q", v)
	}
}

func TestRecordLength(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})
	ctx := context.Background()

	if err := scope.SetRecordAuto(ctx, false); err != nil {
		t.Fatalf("auto: %v", err)
	}
	if on, err := scope.GetRecordAuto(ctx); err != nil || on {
		t.Errorf("auto = %v, %v", on, err)
	}

	if err := scope.SetRecordPoints(ctx, 20000); err != nil {
		t.Fatalf("points: %v", err)
	}
	if v, _ := ins.State("ACQ:POIN:VAL"); v != "20000.000" {
		t.Errorf("points argument = %q", v)
	}
	if got, err := scope.GetRecordPoints(ctx); err != nil || got != 20000 {
		t.Errorf("points = %v, %v", got, err)
	}
}

func TestSampleRates(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})
	ins.OnCommand = func(line string) (string, bool) {
		switch line {
		case "ACQ:SRAT?":
			return "1.25E+09", true
		case "ACQ:POIN:ARAT?":
			return "2.5E+09", true
		}
		return "", false
	}
	ctx := context.Background()

	if got, err := scope.GetSampleRate(ctx); err != nil || got != 1.25e9 {
		t.Errorf("sample rate = %v, %v", got, err)
	}
	if got, err := scope.GetADCSampleRate(ctx); err != nil || got != 2.5e9 {
		t.Errorf("adc rate = %v, %v", got, err)
	}
}

func TestMathWaveforms(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{Step: 0.005})
	ctx := context.Background()

	if err := scope.EnableMath(ctx, M1, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if err := scope.DefineSubtract(ctx, M1, Ch1, Ch2); err != nil {
		t.Fatalf("define: %v", err)
	}
	if err := scope.DefineLowPass(ctx, M2, M1, 1e4); err != nil {
		t.Fatalf("lowpass: %v", err)
	}

	if v, _ := ins.State("CALC:MATH1:EXPR:DEF"); v != `"SUB(CH1,CH2) in V"` {
		t.Errorf("definition = %q", v)
	}
	if v, _ := ins.State("CALC:MATH2:EXPR:DEF"); v != `"LP(M1,10000)"` {
		t.Errorf("lowpass definition = %q", v)
	}

	// Math scales go out at full precision but still snap to the grid.
	if err := scope.SetMathScale(ctx, M1, 0.0126); err != nil {
		t.Fatalf("scale: %v", err)
	}
	cmds := ins.Commands()
	if got := cmds[len(cmds)-1]; got != "CALC:MATH1:SCAL 0.0126" {
		t.Errorf("scale command = %q", got)
	}
	got, err := scope.GetMathScale(ctx, M1)
	if err != nil {
		t.Fatalf("get scale: %v", err)
	}
	if want := snapScale(0.0126, 0.005); got != want {
		t.Errorf("applied scale = %v, want %v", got, want)
	}
}

func TestDefineAdd(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})

	if err := scope.DefineAdd(context.Background(), M3, Ch2, Ch3); err != nil {
		t.Fatalf("define: %v", err)
	}
	if v, _ := ins.State("CALC:MATH3:EXPR:DEF"); v != `"ADD(CH2,CH3) in V"` {
		t.Errorf("definition = %q", v)
	}
}

func TestSpectrumConfiguration(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})
	ctx := context.Background()

	if err := scope.EnableSpectrum(ctx, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if err := scope.SetSpectrumSource(ctx, Ch1); err != nil {
		t.Fatalf("source: %v", err)
	}
	if err := scope.SetSpectrumWindow(ctx, WindowHann); err != nil {
		t.Fatalf("window: %v", err)
	}
	if err := scope.SetSpectrumScale(ctx, ScaleDBm); err != nil {
		t.Fatalf("scale: %v", err)
	}
	if err := scope.SetSpectrumCenter(ctx, 1e6); err != nil {
		t.Fatalf("center: %v", err)
	}
	if err := scope.SetSpectrumSpan(ctx, 2e5); err != nil {
		t.Fatalf("span: %v", err)
	}

	for header, want := range map[string]string{
		"SPEC:STAT":           "ON",
		"SPEC:SOUR":           "CH1",
		"SPEC:FREQ:WIND:TYPE": "HANN",
		"SPEC:FREQ:MAGN:SCAL": "DBM",
		"SPEC:FREQ:CENT":      "1000000",
		"SPEC:FREQ:SPAN":      "200000",
	} {
		if v, _ := ins.State(header); v != want {
			t.Errorf("%s argument = %q, want %q", header, v, want)
		}
	}
}

func TestExportConfiguration(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})
	ctx := context.Background()

	if err := scope.SetExportSource(ctx, Ch2); err != nil {
		t.Fatalf("source: %v", err)
	}
	if got, err := scope.GetExportSource(ctx); err != nil || got != Ch2 {
		t.Errorf("source = %v, %v", got, err)
	}

	if err := scope.SetExportDestination(ctx, "/USB_FRONT/wave.csv"); err != nil {
		t.Fatalf("destination: %v", err)
	}
	if got, err := scope.GetExportDestination(ctx); err != nil || got != "/USB_FRONT/wave.csv" {
		t.Errorf("destination = %q, %v", got, err)
	}

	if err := scope.SetExportFormat(ctx, FormatCSV, 0); err != nil {
		t.Fatalf("format: %v", err)
	}
	format, bits, err := scope.GetExportFormat(ctx)
	if err != nil || format != FormatCSV || bits != 0 {
		t.Errorf("format = %v, %d, %v", format, bits, err)
	}

	if err := scope.SaveWaveform(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	cmds := ins.Commands()
	if got := cmds[len(cmds)-1]; got != "EXP:WAV:SAVE" {
		t.Errorf("command = %q", got)
	}
}

func TestGetExportDestinationQuoted(t *testing.T) {
	scope, ins := newTestScope(t, sim.Config{})
	ins.OnCommand = func(line string) (string, bool) {
		if line == "EXP:WAV:NAME?" {
			return `"/USB_FRONT/wave.csv"`, true
		}
		return "", false
	}

	got, err := scope.GetExportDestination(context.Background())
	if err != nil || got != "/USB_FRONT/wave.csv" {
		t.Errorf("destination = %q, %v", got, err)
	}
}
