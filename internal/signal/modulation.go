package signal

import "math"

const (
	DefaultBaseBPM       = 72.0
	DefaultMinBPM        = 30.0
	DefaultHRVAmplitude  = 5.0
	DefaultHRVFrequency  = 0.1
	DefaultRespDepth     = 0.08
	DefaultRespFrequency = 0.15

	minAmplitudeScale = 0.01
)

// CycleParameters es el estado por tick del ciclo cardíaco.
type CycleParameters struct {
	HeartRateBPM   float64
	AmplitudeScale float64
}

// CycleDuration devuelve segundos por latido.
func (c CycleParameters) CycleDuration() float64 {
	if c.HeartRateBPM <= 0 {
		return 60 / DefaultMinBPM
	}
	return 60 / c.HeartRateBPM
}

// HeartRateModulator simula variabilidad de frecuencia cardíaca con dos
// osciladores lentos superpuestos.
type HeartRateModulator struct {
	Enabled   bool
	BaseBPM   float64
	Primary   float64 // A1, BPM
	Secondary float64 // A2, BPM
	Frequency float64 // Hz
	MinBPM    float64
}

// NewHeartRateModulator usa A2 = 30% de A1 y f = 0.1 Hz.
func NewHeartRateModulator(baseBPM, amplitude float64) HeartRateModulator {
	return HeartRateModulator{
		Enabled:   true,
		BaseBPM:   baseBPM,
		Primary:   amplitude,
		Secondary: 0.3 * amplitude,
		Frequency: DefaultHRVFrequency,
		MinBPM:    DefaultMinBPM,
	}
}

// BPM evalúa la frecuencia en el reloj de modulación tau (segundos).
// Nunca baja de MinBPM.
func (m HeartRateModulator) BPM(tau float64) float64 {
	bpm := m.BaseBPM
	if m.Enabled {
		bpm += m.Primary*math.Sin(2*math.Pi*m.Frequency*tau) +
			m.Secondary*math.Sin(2*math.Pi*0.5*m.Frequency*tau)
	}
	floor := m.MinBPM
	if floor <= 0 {
		floor = DefaultMinBPM
	}
	if bpm < floor || math.IsNaN(bpm) {
		return floor
	}
	return bpm
}

// RespiratoryModulator varía la amplitud alrededor de 1.0.
type RespiratoryModulator struct {
	Enabled   bool
	Depth     float64
	Frequency float64
}

func NewRespiratoryModulator(depth float64) RespiratoryModulator {
	return RespiratoryModulator{Enabled: true, Depth: depth, Frequency: DefaultRespFrequency}
}

// Scale devuelve el factor de amplitud en tau.
func (m RespiratoryModulator) Scale(tau float64) float64 {
	if !m.Enabled {
		return 1
	}
	s := 1 + m.Depth*math.Sin(2*math.Pi*m.Frequency*tau)
	if s < minAmplitudeScale {
		return minAmplitudeScale
	}
	return s
}
