// Package monitor es la instancia dueña del trazo ECG: reloj de ciclo,
// parámetros del ciclo y buffer de muestras. No agenda nada por sí misma;
// quien la usa llama a Tick una vez por frame con el delta medido.
package monitor

import (
	"math"

	"github.com/ivanzxc/ecg-monitor/internal/signal"
)

// PhaseMode elige cómo se deriva la fase del ciclo en cada tick.
type PhaseMode string

const (
	// PhaseModulo usa (t mod cycleDuration) con la duración del tick actual.
	// Con HRV activa la duración cambia en cada tick y, a medida que t crece,
	// la fase salta entre bandas; después de ~1 min el trazo se desordena.
	// Sirve para trazos cortos o a frecuencia fija.
	PhaseModulo PhaseMode = "modulo"
	// PhaseAccumulate avanza la fase delta/cycleDuration por tick; no salta
	// cuando cambia la frecuencia.
	PhaseAccumulate PhaseMode = "accumulate"
)

// Config agrupa los parámetros del trazo.
type Config struct {
	HeartRate   signal.HeartRateModulator
	Respiration signal.RespiratoryModulator
	PhaseMode   PhaseMode
	Noise       float64 // amplitud en unidades de banda
}

// DefaultConfig: 72 BPM con variabilidad ±5 y respiración ±8%.
func DefaultConfig() Config {
	return Config{
		HeartRate:   signal.NewHeartRateModulator(signal.DefaultBaseBPM, signal.DefaultHRVAmplitude),
		Respiration: signal.NewRespiratoryModulator(signal.DefaultRespDepth),
		PhaseMode:   PhaseModulo,
	}
}

// Point es una muestra lista para dibujar.
type Point struct {
	X int
	Y float64
}

// Frame es la salida de un tick.
type Frame struct {
	Elapsed        float64
	BPM            int
	HeartRate      float64
	AmplitudeScale float64
	Band           signal.Band
	Sample         float64 // valor de banda sin escalar de este tick
	Points         []Point
}

// Monitor mantiene el estado de un único trazo. No es seguro para uso
// concurrente: Tick y Resize deben llamarse desde el mismo loop.
type Monitor struct {
	cfg Config

	width  int
	height float64

	elapsed float64 // reloj de ciclo
	tau     float64 // reloj de modulación
	phase   float64 // solo PhaseAccumulate

	params signal.CycleParameters
	buf    *signal.SampleBuffer

	scratch []float64
}

// New crea un monitor para una superficie width x height.
func New(cfg Config, width, height int) *Monitor {
	if cfg.PhaseMode == "" {
		cfg.PhaseMode = PhaseModulo
	}
	m := &Monitor{
		cfg: cfg,
		buf: signal.NewSampleBuffer(0, 0),
	}
	m.params = signal.CycleParameters{
		HeartRateBPM:   cfg.HeartRate.BPM(0),
		AmplitudeScale: cfg.Respiration.Scale(0),
	}
	m.Resize(width, height)
	return m
}

// Resize reinicia el buffer con la línea base cuando cambia el tamaño.
// Dimensiones nulas vacían el buffer y los ticks dejan de producir puntos.
func (m *Monitor) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == m.width && float64(height) == m.height && m.buf.Cap() == width {
		return
	}
	m.width = width
	m.height = float64(height)
	if !m.drawable() {
		m.buf.Reset(0, 0)
		return
	}
	m.buf.Reset(width, m.height/2)
}

func (m *Monitor) drawable() bool {
	return m.width > 0 && m.height > 0
}

// Tick avanza los relojes delta segundos, recalcula los parámetros del
// ciclo y agrega una muestra usando la duración de ciclo de este mismo tick.
func (m *Monitor) Tick(delta float64) Frame {
	if delta < 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		delta = 0
	}
	m.elapsed += delta
	m.tau += delta

	m.params.HeartRateBPM = m.cfg.HeartRate.BPM(m.tau)
	m.params.AmplitudeScale = m.cfg.Respiration.Scale(m.tau)
	cycle := m.params.CycleDuration()

	var p float64
	switch m.cfg.PhaseMode {
	case PhaseAccumulate:
		m.phase += delta / cycle
		m.phase -= math.Floor(m.phase)
		p = m.phase
	default:
		p = signal.Phase(m.elapsed, cycle)
	}

	band, _ := signal.BandAt(p)
	v := signal.BandValue(p) + signal.Noise(p, m.cfg.Noise)

	f := Frame{
		Elapsed:        m.elapsed,
		BPM:            int(math.Round(m.params.HeartRateBPM)),
		HeartRate:      m.params.HeartRateBPM,
		AmplitudeScale: m.params.AmplitudeScale,
		Band:           band,
		Sample:         v,
	}
	if !m.drawable() {
		return f
	}

	m.buf.Push(signal.ToPixels(v, m.params.AmplitudeScale, m.height))
	f.Points = m.points()
	return f
}

func (m *Monitor) points() []Point {
	m.scratch = m.buf.Samples(m.scratch)
	offset := m.width - len(m.scratch)
	pts := make([]Point, len(m.scratch))
	for i, y := range m.scratch {
		pts[i] = Point{X: offset + i, Y: y}
	}
	return pts
}

// Samples copia el buffer actual (vieja → nueva) sobre dst.
func (m *Monitor) Samples(dst []float64) []float64 {
	return m.buf.Samples(dst)
}

// Params devuelve los parámetros calculados en el último tick.
func (m *Monitor) Params() signal.CycleParameters { return m.params }

// Elapsed devuelve el reloj de ciclo en segundos.
func (m *Monitor) Elapsed() float64 { return m.elapsed }

// Size devuelve el tamaño actual de la superficie.
func (m *Monitor) Size() (int, int) { return m.width, int(m.height) }
