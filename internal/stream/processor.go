package stream

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ivanzxc/ecg-monitor/internal/analysis"
)

// Processor detecta latidos en el trazo publicado y emite la frecuencia.
// Las muestras llegan a fs Hz, así que el tiempo se deriva del índice.
type Processor struct {
	detector *analysis.HRDetector
	pub      Publisher
	out      string
	fs       float64
	logger   *zap.Logger

	n       int64
	samples []float32
}

func NewProcessor(pub Publisher, out string, fs float64, logger *zap.Logger) *Processor {
	return &Processor{
		detector: analysis.NewHRDetector(),
		pub:      pub,
		out:      out,
		fs:       fs,
		logger:   logger,
	}
}

// Handle procesa un payload del subject de ondas. Devuelve los BPM detectados.
func (p *Processor) Handle(data []byte) ([]int, error) {
	var err error
	p.samples, err = DecodeWave(data, p.samples[:0])
	if err != nil {
		return nil, err
	}

	var detected []int
	for _, v := range p.samples {
		at := time.Duration(float64(p.n) / p.fs * float64(time.Second))
		p.n++

		bpm, ok := p.detector.Process(float64(v), at)
		if !ok {
			continue
		}
		detected = append(detected, bpm)

		b, err := ParamMsg{
			Subject:  p.out,
			Ts:       time.Now().UnixMilli(),
			HR:       bpm,
			Detected: true,
		}.Marshal()
		if err != nil {
			return detected, err
		}
		if err := p.pub.Publish(p.out, b); err != nil {
			return detected, fmt.Errorf("publish detected hr: %w", err)
		}
		p.logger.Info("HR detected", zap.Int("bpm", bpm))
	}
	return detected, nil
}
