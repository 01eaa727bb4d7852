package main

import (
	"context"
	"fmt"
	"os"
	osSignal "os/signal"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivanzxc/ecg-monitor/internal/config"
	"github.com/ivanzxc/ecg-monitor/internal/logging"
	"github.com/ivanzxc/ecg-monitor/internal/stream"
)

var (
	configPath string
	natsURL    string
	in         string
	out        string
	fs         int
)

var rootCmd = &cobra.Command{
	Use:   "processor",
	Short: "Detect heart rate from the streamed ECG trace",
	RunE:  run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", "ecg.yaml", "config file")
	f.StringVar(&natsURL, "nats", "", "NATS url")
	f.StringVar(&in, "in", "", "input subject")
	f.StringVar(&out, "out", "", "output subject")
	f.IntVar(&fs, "fs", 0, "sampling rate Hz of the wave stream")
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
	if flags.Changed("in") {
		cfg.NATS.WaveSubject = in
	}
	if flags.Changed("out") {
		cfg.NATS.ParamsSubject = out
	}
	if flags.Changed("fs") {
		cfg.Signal.SampleRate = fs
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named("processor")

	nc, err := stream.Connect(cfg.NATS.URL, "processor", logger)
	if err != nil {
		return err
	}
	defer nc.Drain()

	proc := stream.NewProcessor(nc, cfg.NATS.ParamsSubject, float64(cfg.Signal.SampleRate), logger)

	// nats entrega los mensajes de una suscripción en orden y de a uno
	_, err = nc.Subscribe(cfg.NATS.WaveSubject, func(msg *nats.Msg) {
		if _, err := proc.Handle(msg.Data); err != nil {
			logger.Warn("bad wave message", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", cfg.NATS.WaveSubject, err)
	}

	ctx, cancel := osSignal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger.Info("processor running", zap.String("in", cfg.NATS.WaveSubject), zap.String("out", cfg.NATS.ParamsSubject))
	<-ctx.Done()
	logger.Info("processor stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
