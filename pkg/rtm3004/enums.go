package rtm3004

import (
	"strconv"
	"strings"

	"github.com/benchtop/rtm3004-go/pkg/scpi"
)

// The enum types below carry the exact argument literal sent on the wire,
// so a value formats itself in commands. The instrument answers related
// queries with short-form mnemonics; the parse helpers map replies back,
// accepting both short and long spellings case-insensitively.

// Coupling selects a channel's input coupling.
type Coupling string

// Channel couplings.
const (
	CouplingDCLimit Coupling = "DCLimit" // DC, 1 MOhm termination
	CouplingACLimit Coupling = "ACLimit" // AC, 1 MOhm termination
	CouplingGND     Coupling = "GND"
	CouplingDC      Coupling = "DC" // DC, 50 Ohm termination
)

// Bandwidth selects a channel's bandwidth limit.
type Bandwidth string

// Channel bandwidth limits.
const (
	BandwidthFull  Bandwidth = "FULL"
	Bandwidth20MHz Bandwidth = "B20"
)

// AcquisitionType selects how waveform records combine across acquisitions.
type AcquisitionType string

// Acquisition types.
const (
	AcqRefresh  AcquisitionType = "REF"
	AcqAverage  AcquisitionType = "AVER"
	AcqEnvelope AcquisitionType = "ENV"
)

// MemoryMode selects the acquisition memory handling.
type MemoryMode string

// Acquisition memory modes.
const (
	MemoryAuto   MemoryMode = "AUT"
	MemoryDMem   MemoryMode = "DMEM"
	MemoryManual MemoryMode = "MAN"
)

// Decimation selects how the ADC stream reduces to record points.
type Decimation string

// Decimation modes.
const (
	DecimationSample     Decimation = "SAMP"
	DecimationPeakDetect Decimation = "PDET"
	DecimationHighRes    Decimation = "HRES"
)

// Arithmetic selects per-channel waveform arithmetic.
type Arithmetic string

// Waveform arithmetic modes.
const (
	ArithmeticOff      Arithmetic = "OFF"
	ArithmeticEnvelope Arithmetic = "ENV"
	ArithmeticAverage  Arithmetic = "AVER"
)

// TriggerSource selects the A or B trigger subsystem.
type TriggerSource string

// Trigger subsystems.
const (
	TriggerA TriggerSource = "A"
	TriggerB TriggerSource = "B"
)

// TriggerMode selects how a trigger subsystem arms. AUTO and NORM apply
// to the A trigger; DEL and EVENT to the B trigger.
type TriggerMode string

// Trigger modes.
const (
	TriggerAuto    TriggerMode = "AUTO"
	TriggerNormal  TriggerMode = "NORM"
	TriggerDelayed TriggerMode = "DEL"
	TriggerEvent   TriggerMode = "EVENT"
)

// TriggerType selects the trigger condition.
type TriggerType string

// Trigger types.
const (
	TriggerEdge  TriggerType = "EDGE"
	TriggerWidth TriggerType = "WID"
	TriggerTV    TriggerType = "TV"
	TriggerRunt  TriggerType = "RUNT"
	TriggerLogic TriggerType = "LOG"
	TriggerBus   TriggerType = "BUS"
	TriggerRise  TriggerType = "RIS"
	TriggerLine  TriggerType = "LINE"
)

// EdgeCoupling selects the edge trigger's coupling path.
type EdgeCoupling string

// Edge trigger couplings.
const (
	EdgeCouplingDC       EdgeCoupling = "DC"
	EdgeCouplingLFReject EdgeCoupling = "LFR"
	EdgeCouplingAC       EdgeCoupling = "AC"
)

// EdgeSlope selects which edge fires the trigger.
type EdgeSlope string

// Edge slopes.
const (
	SlopePositive EdgeSlope = "POS"
	SlopeNegative EdgeSlope = "NEG"
	SlopeEither   EdgeSlope = "EITH"
)

// WaveFunction selects the generator's waveform shape.
type WaveFunction string

// Generator waveform shapes.
const (
	WaveDC          WaveFunction = "DC"
	WaveSine        WaveFunction = "SIN"
	WaveSquare      WaveFunction = "SQU"
	WavePulse       WaveFunction = "PULS"
	WaveTriangle    WaveFunction = "TRI"
	WaveRamp        WaveFunction = "RAMP"
	WaveSinc        WaveFunction = "SINC"
	WaveArbitrary   WaveFunction = "ARB"
	WaveExponential WaveFunction = "EXP"
)

// MeasCategory selects what a measurement slot measures.
type MeasCategory string

// Measurement categories.
const (
	MeasPeak      MeasCategory = "PEAK"
	MeasUpperPeak MeasCategory = "UPE"
	MeasLowerPeak MeasCategory = "LPE"
	MeasFrequency MeasCategory = "FREQ"
	MeasPeriod    MeasCategory = "PER"
	MeasMean      MeasCategory = "MEAN"
	MeasRMS       MeasCategory = "RMS"
	MeasAmplitude MeasCategory = "AMP"
	MeasHigh      MeasCategory = "HIGH"
	MeasLow       MeasCategory = "LOW"
	MeasStdDev    MeasCategory = "STDD"
	MeasRiseTime  MeasCategory = "RTIM"
	MeasFallTime  MeasCategory = "FTIM"
)

// SpectrumWindow selects the FFT window.
type SpectrumWindow string

// FFT windows.
const (
	WindowRectangular SpectrumWindow = "RECT"
	WindowHamming     SpectrumWindow = "HAMM"
	WindowHann        SpectrumWindow = "HANN"
	WindowBlackman    SpectrumWindow = "BLAC"
	WindowFlatTop     SpectrumWindow = "FLAT"
)

// SpectrumScale selects the spectrum magnitude scale.
type SpectrumScale string

// Spectrum magnitude scales.
const (
	ScaleLinear SpectrumScale = "LIN"
	ScaleDBm    SpectrumScale = "DBM"
	ScaleDBV    SpectrumScale = "DBV"
	ScaleDBuV   SpectrumScale = "DBUV"
)

// SweepType selects the generator's frequency sweep shape.
type SweepType string

// Sweep shapes.
const (
	SweepLinear      SweepType = "LIN"
	SweepLogarithmic SweepType = "LOG"
	SweepTriangle    SweepType = "TRI"
)

// ExportFormat selects the waveform export data format.
type ExportFormat string

// Export data formats.
const (
	FormatASCII ExportFormat = "ASC"
	FormatReal  ExportFormat = "REAL"
	FormatUInt  ExportFormat = "UINT"
	FormatCSV   ExportFormat = "CSV"
)

// parseEnum matches a reply against the accepted spellings of each value.
func parseEnum[T ~string](reply, what string, accept map[string]T) (T, error) {
	text := strings.ToUpper(strings.TrimSpace(scpi.TrimTerminator(reply)))
	if v, ok := accept[text]; ok {
		return v, nil
	}
	var zero T
	return zero, &scpi.ProtocolError{Response: scpi.TrimTerminator(reply), Reason: "unknown " + what}
}

func parseCoupling(reply string) (Coupling, error) {
	return parseEnum(reply, "coupling", map[string]Coupling{
		"DCL": CouplingDCLimit, "DCLIMIT": CouplingDCLimit,
		"ACL": CouplingACLimit, "ACLIMIT": CouplingACLimit,
		"GND": CouplingGND,
		"DC":  CouplingDC,
	})
}

func parseBandwidth(reply string) (Bandwidth, error) {
	return parseEnum(reply, "bandwidth", map[string]Bandwidth{
		"FULL": BandwidthFull,
		"B20":  Bandwidth20MHz,
	})
}

func parseAcquisitionType(reply string) (AcquisitionType, error) {
	return parseEnum(reply, "acquisition type", map[string]AcquisitionType{
		"REF": AcqRefresh, "REFR": AcqRefresh, "REFRESH": AcqRefresh,
		"AVER": AcqAverage, "AVERAGE": AcqAverage,
		"ENV": AcqEnvelope, "ENVELOPE": AcqEnvelope,
	})
}

func parseMemoryMode(reply string) (MemoryMode, error) {
	return parseEnum(reply, "memory mode", map[string]MemoryMode{
		"AUT": MemoryAuto, "AUTO": MemoryAuto,
		"DMEM": MemoryDMem,
		"MAN":  MemoryManual, "MANUAL": MemoryManual,
	})
}

func parseDecimation(reply string) (Decimation, error) {
	return parseEnum(reply, "decimation", map[string]Decimation{
		"SAMP": DecimationSample, "SAMPLE": DecimationSample,
		"PDET": DecimationPeakDetect,
		"HRES": DecimationHighRes,
	})
}

func parseTriggerMode(reply string) (TriggerMode, error) {
	return parseEnum(reply, "trigger mode", map[string]TriggerMode{
		"AUTO": TriggerAuto,
		"NORM": TriggerNormal, "NORMAL": TriggerNormal,
		"DEL": TriggerDelayed, "DELAYED": TriggerDelayed,
		"EVENT": TriggerEvent,
	})
}

func parseTriggerType(reply string) (TriggerType, error) {
	return parseEnum(reply, "trigger type", map[string]TriggerType{
		"EDGE": TriggerEdge,
		"WID":  TriggerWidth, "WIDTH": TriggerWidth,
		"TV":   TriggerTV,
		"RUNT": TriggerRunt,
		"LOG":  TriggerLogic, "LOGIC": TriggerLogic,
		"BUS":  TriggerBus,
		"RIS":  TriggerRise, "RISETIME": TriggerRise,
		"LINE": TriggerLine,
	})
}

func parseEdgeCoupling(reply string) (EdgeCoupling, error) {
	return parseEnum(reply, "edge coupling", map[string]EdgeCoupling{
		"DC":  EdgeCouplingDC,
		"LFR": EdgeCouplingLFReject, "LFREJECT": EdgeCouplingLFReject,
		"AC": EdgeCouplingAC,
	})
}

func parseEdgeSlope(reply string) (EdgeSlope, error) {
	return parseEnum(reply, "edge slope", map[string]EdgeSlope{
		"POS": SlopePositive, "POSITIVE": SlopePositive,
		"NEG": SlopeNegative, "NEGATIVE": SlopeNegative,
		"EITH": SlopeEither, "EITHER": SlopeEither,
	})
}

func parseWaveFunction(reply string) (WaveFunction, error) {
	return parseEnum(reply, "waveform function", map[string]WaveFunction{
		"DC":  WaveDC,
		"SIN": WaveSine, "SINE": WaveSine, "SINUSOID": WaveSine,
		"SQU": WaveSquare, "SQUARE": WaveSquare,
		"PULS": WavePulse, "PULSE": WavePulse,
		"TRI": WaveTriangle, "TRIANGLE": WaveTriangle,
		"RAMP": WaveRamp,
		"SINC": WaveSinc,
		"ARB":  WaveArbitrary, "ARBITRARY": WaveArbitrary,
		"EXP": WaveExponential, "EXPONENTIAL": WaveExponential,
	})
}

func parseMeasCategory(reply string) (MeasCategory, error) {
	return parseEnum(reply, "measurement category", map[string]MeasCategory{
		"PEAK": MeasPeak,
		"UPE":  MeasUpperPeak, "UPEAKVALUE": MeasUpperPeak,
		"LPE": MeasLowerPeak, "LPEAKVALUE": MeasLowerPeak,
		"FREQ": MeasFrequency, "FREQUENCY": MeasFrequency,
		"PER": MeasPeriod, "PERIOD": MeasPeriod,
		"MEAN": MeasMean,
		"RMS":  MeasRMS,
		"AMP":  MeasAmplitude, "AMPLITUDE": MeasAmplitude,
		"HIGH": MeasHigh,
		"LOW":  MeasLow,
		"STDD": MeasStdDev, "STDDEV": MeasStdDev,
		"RTIM": MeasRiseTime, "RTIME": MeasRiseTime,
		"FTIM": MeasFallTime, "FTIME": MeasFallTime,
	})
}

func parseExportFormat(reply string) (ExportFormat, error) {
	return parseEnum(reply, "export format", map[string]ExportFormat{
		"ASC": FormatASCII, "ASCII": FormatASCII,
		"REAL": FormatReal,
		"UINT": FormatUInt,
		"CSV":  FormatCSV,
	})
}

// parseChan maps a source mnemonic reply like "CH2" onto its channel.
func parseChan(reply string) (Chan, error) {
	text := strings.ToUpper(strings.TrimSpace(scpi.TrimTerminator(reply)))
	var n int
	var err error
	switch {
	case strings.HasPrefix(text, "CHAN"):
		n, err = strconv.Atoi(text[4:])
	case strings.HasPrefix(text, "CH"):
		n, err = strconv.Atoi(text[2:])
	default:
		err = strconv.ErrSyntax
	}
	if err != nil {
		return 0, &scpi.ProtocolError{Response: scpi.TrimTerminator(reply), Reason: "not a channel source"}
	}
	ch, err := NewChan(n)
	if err != nil {
		return 0, &scpi.ProtocolError{Response: scpi.TrimTerminator(reply), Reason: "not a channel source", Err: err}
	}
	return ch, nil
}
