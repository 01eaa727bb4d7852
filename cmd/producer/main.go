package main

import (
	"context"
	"fmt"
	"os"
	osSignal "os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivanzxc/ecg-monitor/internal/config"
	"github.com/ivanzxc/ecg-monitor/internal/logging"
	"github.com/ivanzxc/ecg-monitor/internal/monitor"
	"github.com/ivanzxc/ecg-monitor/internal/stream"
)

var (
	configPath string
	natsURL    string
	subject    string
	fs         int
	hr         float64
	batch      int
)

var rootCmd = &cobra.Command{
	Use:   "producer",
	Short: "Synthesize an ECG trace and publish it to NATS",
	RunE:  run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", "ecg.yaml", "config file")
	f.StringVar(&natsURL, "nats", "", "NATS url")
	f.StringVar(&subject, "subject", "", "wave subject")
	f.IntVar(&fs, "fs", 0, "sampling rate Hz")
	f.Float64Var(&hr, "hr", 0, "base heart rate bpm")
	f.IntVar(&batch, "batch", 0, "samples per message")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("nats") {
		cfg.NATS.URL = natsURL
	}
	if flags.Changed("subject") {
		cfg.NATS.WaveSubject = subject
	}
	if flags.Changed("fs") {
		cfg.Signal.SampleRate = fs
	}
	if flags.Changed("hr") {
		cfg.Signal.BaseBPM = hr
	}
	if flags.Changed("batch") {
		cfg.Signal.Batch = batch
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named("producer")

	nc, err := stream.Connect(cfg.NATS.URL, "producer", logger)
	if err != nil {
		return err
	}
	defer nc.Drain()

	mon := monitor.New(cfg.Signal.Monitor(), cfg.Signal.Width, cfg.Signal.Height)
	p := stream.NewProducer(mon, nc, stream.ProducerOptions{
		WaveSubject:   cfg.NATS.WaveSubject,
		ParamsSubject: cfg.NATS.ParamsSubject,
		Batch:         cfg.Signal.Batch,
	}, logger)

	ctx, cancel := osSignal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if monitor.PhaseMode(cfg.Signal.PhaseMode) == monitor.PhaseModulo && cfg.Signal.HRV {
		logger.Warn("phase_mode modulo with hrv drifts after ~1 min; detected HR will be wrong, use accumulate")
	}
	logger.Info("producer running",
		zap.String("source", p.Source()),
		zap.String("subject", cfg.NATS.WaveSubject),
		zap.Int("fs", cfg.Signal.SampleRate),
		zap.String("phase_mode", cfg.Signal.PhaseMode),
		zap.Float64("base_bpm", cfg.Signal.BaseBPM),
	)
	return p.Run(ctx, cfg.Signal.SampleInterval())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
