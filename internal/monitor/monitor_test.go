package monitor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanzxc/ecg-monitor/internal/signal"
)

func steadyConfig(bpm float64) Config {
	cfg := DefaultConfig()
	cfg.HeartRate.Enabled = false
	cfg.HeartRate.BaseBPM = bpm
	cfg.Respiration.Enabled = false
	return cfg
}

func TestNewFillsBaseline(t *testing.T) {
	m := New(DefaultConfig(), 320, 200)
	s := m.Samples(nil)
	require.Len(t, s, 320)
	for _, v := range s {
		assert.Equal(t, 100.0, v)
	}
}

func TestTickProducesFullWidth(t *testing.T) {
	m := New(DefaultConfig(), 64, 100)
	for i := 0; i < 500; i++ {
		f := m.Tick(1.0 / 60)
		require.Len(t, f.Points, 64)
		assert.Equal(t, 0, f.Points[0].X)
		assert.Equal(t, 63, f.Points[63].X)
	}
}

func TestTickMatchesPureFunction(t *testing.T) {
	m := New(steadyConfig(72), 10, 200)
	f := m.Tick(0.1)

	want := signal.Displacement(0.1, 60.0/72, 1, 200)
	last := f.Points[len(f.Points)-1]
	assert.InDelta(t, want, last.Y, 1e-9)
	assert.Equal(t, signal.BandP, f.Band)
	assert.Equal(t, 72, f.BPM)
}

func TestTickUsesSameTickCycleDuration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Respiration.Enabled = false
	m := New(cfg, 8, 100)

	var tau float64
	for i := 0; i < 300; i++ {
		delta := 1.0 / 60
		tau += delta
		f := m.Tick(delta)

		bpm := cfg.HeartRate.BPM(tau)
		require.InDelta(t, bpm, f.HeartRate, 1e-9)
		want := signal.Displacement(m.Elapsed(), 60/bpm, 1, 100)
		require.InDelta(t, want, f.Points[7].Y, 1e-9, "tick %d", i)
	}
}

func TestHeartRateStaysInRange(t *testing.T) {
	m := New(DefaultConfig(), 4, 4)
	for i := 0; i < 60*120; i++ {
		f := m.Tick(1.0 / 60)
		assert.GreaterOrEqual(t, f.HeartRate, 72-6.5)
		assert.LessOrEqual(t, f.HeartRate, 72+6.5)
		assert.Equal(t, int(math.Round(f.HeartRate)), f.BPM)
		assert.GreaterOrEqual(t, f.AmplitudeScale, 0.92-1e-9)
		assert.LessOrEqual(t, f.AmplitudeScale, 1.08+1e-9)
	}
}

func TestResizeRefillsBaseline(t *testing.T) {
	m := New(DefaultConfig(), 100, 80)
	for i := 0; i < 50; i++ {
		m.Tick(0.016)
	}

	m.Resize(40, 300)
	s := m.Samples(nil)
	require.Len(t, s, 40)
	for _, v := range s {
		assert.Equal(t, 150.0, v)
	}

	f := m.Tick(0.016)
	assert.Len(t, f.Points, 40)
}

func TestResizeSameSizeKeepsHistory(t *testing.T) {
	m := New(steadyConfig(72), 20, 100)
	m.Tick(0.315 * 60 / 72)
	before := m.Samples(nil)

	m.Resize(20, 100)
	assert.Equal(t, before, m.Samples(nil))
}

func TestZeroSurfaceShortCircuits(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 100},
		{"zero height", 100, 0},
		{"negative", -5, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(DefaultConfig(), tt.width, tt.height)
			f := m.Tick(0.5)
			assert.Empty(t, f.Points)
			assert.Empty(t, m.Samples(nil))
			assert.Equal(t, 0.5, f.Elapsed)
			assert.Positive(t, f.BPM)
		})
	}

	m := New(DefaultConfig(), 0, 0)
	m.Tick(0.1)
	m.Resize(16, 32)
	f := m.Tick(0.1)
	assert.Len(t, f.Points, 16)
}

func TestTickIgnoresBadDelta(t *testing.T) {
	m := New(DefaultConfig(), 10, 10)
	m.Tick(0.25)
	for _, d := range []float64{-1, math.NaN(), math.Inf(1)} {
		f := m.Tick(d)
		assert.Equal(t, 0.25, f.Elapsed)
	}
}

func TestAccumulatePhaseIsContinuous(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PhaseMode = PhaseAccumulate
	cfg.HeartRate.Primary = 20
	m := New(cfg, 2, 100)

	// con la fase acumulada cada latido dura ~60/BPM; contamos picos R
	beats := 0
	prev := signal.BandBaseline
	for i := 0; i < 180*60; i++ {
		f := m.Tick(1.0 / 60)
		if f.Band == signal.BandQRS && prev != signal.BandQRS {
			beats++
		}
		prev = f.Band
	}
	// 3 min a ~72 BPM medio; modulo pierde la cuenta pasado el primer minuto
	assert.InDelta(t, 216, beats, 8)
}

func TestAccumulateMatchesModuloAtConstantRate(t *testing.T) {
	a := New(steadyConfig(60), 4, 100)
	cfg := steadyConfig(60)
	cfg.PhaseMode = PhaseAccumulate
	b := New(cfg, 4, 100)

	for i := 0; i < 100; i++ {
		fa := a.Tick(0.013)
		fb := b.Tick(0.013)
		require.InDelta(t, fa.Sample, fb.Sample, 1e-6, "tick %d", i)
	}
}

func TestNoiseOffsetsSample(t *testing.T) {
	cfg := steadyConfig(72)
	cfg.Noise = 0.02
	m := New(cfg, 4, 100)
	f := m.Tick(0.23 * 60 / 72)
	assert.NotZero(t, f.Sample)
	assert.LessOrEqual(t, math.Abs(f.Sample), 0.02)
}

func TestSize(t *testing.T) {
	m := New(DefaultConfig(), 30, 20)
	w, h := m.Size()
	assert.Equal(t, 30, w)
	assert.Equal(t, 20, h)
	assert.Equal(t, 72.0, m.Params().HeartRateBPM)
}
