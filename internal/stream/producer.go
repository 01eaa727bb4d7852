package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ivanzxc/ecg-monitor/internal/monitor"
)

// Producer avanza un Monitor y publica el trazo por NATS.
type Producer struct {
	mon    *monitor.Monitor
	pub    Publisher
	logger *zap.Logger

	waveSubject   string
	paramsSubject string
	batch         int
	paramsEvery   float64 // segundos de trazo entre mensajes de parámetros

	source     string
	buffer     []float32
	lastParams float64
	published  int
}

// ProducerOptions configura subjects y tamaño de lote.
type ProducerOptions struct {
	WaveSubject   string
	ParamsSubject string
	Batch         int
	ParamsEvery   time.Duration
}

func NewProducer(mon *monitor.Monitor, pub Publisher, opts ProducerOptions, logger *zap.Logger) *Producer {
	if opts.Batch <= 0 {
		opts.Batch = 1
	}
	if opts.ParamsEvery <= 0 {
		opts.ParamsEvery = time.Second
	}
	return &Producer{
		mon:           mon,
		pub:           pub,
		logger:        logger,
		waveSubject:   opts.WaveSubject,
		paramsSubject: opts.ParamsSubject,
		batch:         opts.Batch,
		paramsEvery:   opts.ParamsEvery.Seconds(),
		source:        uuid.NewString(),
		buffer:        make([]float32, 0, opts.Batch),
	}
}

// Source identifica a este productor en los mensajes de parámetros.
func (p *Producer) Source() string { return p.source }

// Step ejecuta un tick de delta segundos y publica lo que corresponda.
func (p *Producer) Step(delta float64) error {
	f := p.mon.Tick(delta)
	p.buffer = append(p.buffer, float32(f.Sample*f.AmplitudeScale))

	if len(p.buffer) >= p.batch {
		if err := p.pub.Publish(p.waveSubject, EncodeWave(p.buffer)); err != nil {
			return fmt.Errorf("publish wave: %w", err)
		}
		p.published += len(p.buffer)
		p.buffer = p.buffer[:0]
	}

	if f.Elapsed-p.lastParams >= p.paramsEvery {
		p.lastParams = f.Elapsed
		b, err := ParamMsg{
			Subject:   p.paramsSubject,
			Source:    p.source,
			Ts:        time.Now().UnixMilli(),
			HR:        f.BPM,
			HRExact:   f.HeartRate,
			Amplitude: f.AmplitudeScale,
		}.Marshal()
		if err != nil {
			return err
		}
		if err := p.pub.Publish(p.paramsSubject, b); err != nil {
			return fmt.Errorf("publish params: %w", err)
		}
		p.logger.Debug("params published", zap.Int("hr", f.BPM), zap.Float64("amplitude", f.AmplitudeScale))
	}
	return nil
}

// Run publica una muestra por cada interval de reloj hasta que se cancele
// ctx. Cada Step avanza exactamente interval, así el procesador puede
// reconstruir el tiempo desde el índice de muestra; si el ticker se atrasa
// se ponen al día las muestras pendientes.
func (p *Producer) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := interval.Seconds()
	start := time.Now()
	var produced int64
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("producer: stopping", zap.Int("samples", p.published))
			return nil
		case now := <-ticker.C:
			due := int64(now.Sub(start) / interval)
			for ; produced < due; produced++ {
				if err := p.Step(dt); err != nil {
					p.logger.Warn("producer step failed", zap.Error(err))
				}
			}
		}
	}
}
