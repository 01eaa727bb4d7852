package analysis

import (
	"math"
	"time"
)

// HRDetector estima la frecuencia cardíaca a partir de los cruces
// ascendentes del umbral (onda R) en un trazo normalizado.
type HRDetector struct {
	threshold  float64
	refractory time.Duration

	lastPeak    time.Duration
	havePeak    bool
	lastValue   float64
	initialized bool
}

func NewHRDetector() *HRDetector {
	return &HRDetector{
		threshold:  0.6, // ajustable; la R llega a 1.0
		refractory: 200 * time.Millisecond,
	}
}

// WithThreshold cambia el umbral de detección.
func (h *HRDetector) WithThreshold(v float64) *HRDetector {
	h.threshold = v
	return h
}

// Process recibe una muestra y su instante (tiempo transcurrido del trazo).
// Devuelve BPM si detecta un nuevo latido.
func (h *HRDetector) Process(value float64, at time.Duration) (int, bool) {
	if !h.initialized {
		h.initialized = true
		h.lastValue = value
		return 0, false
	}
	defer func() { h.lastValue = value }()

	if !(h.lastValue < h.threshold && value >= h.threshold) {
		return 0, false
	}
	if h.havePeak && at-h.lastPeak <= h.refractory {
		return 0, false
	}

	prev, had := h.lastPeak, h.havePeak
	h.lastPeak = at
	h.havePeak = true
	if !had {
		return 0, false
	}
	rr := (at - prev).Seconds()
	if rr <= 0 {
		return 0, false
	}
	return int(math.Round(60 / rr)), true
}

// Reset olvida el último pico.
func (h *HRDetector) Reset() {
	h.havePeak = false
	h.initialized = false
	h.lastPeak = 0
}
