package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	osSignal "os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivanzxc/ecg-monitor/internal/config"
	"github.com/ivanzxc/ecg-monitor/internal/hub"
	"github.com/ivanzxc/ecg-monitor/internal/logging"
	"github.com/ivanzxc/ecg-monitor/internal/stream"
)

var (
	configPath string
	natsURL    string
	addr       string
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Fan the ECG stream out to browsers over websocket",
	RunE:  run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", "ecg.yaml", "config file")
	f.StringVar(&natsURL, "nats", "", "NATS url")
	f.StringVar(&addr, "addr", "", "http address")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("nats") {
		cfg.NATS.URL = natsURL
	}
	if cmd.Flags().Changed("addr") {
		cfg.HTTP.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named("server")

	nc, err := stream.Connect(cfg.NATS.URL, "server", logger)
	if err != nil {
		return err
	}
	defer nc.Drain()

	h := hub.New(cfg.GetWriteTimeout(), logger)

	// ondas: binario passthrough
	if _, err := nc.Subscribe(cfg.NATS.WaveSubject, func(msg *nats.Msg) {
		h.BroadcastBinary(msg.Data)
	}); err != nil {
		return fmt.Errorf("subscribe %s: %w", cfg.NATS.WaveSubject, err)
	}
	// parámetros: JSON
	if _, err := nc.Subscribe(cfg.NATS.ParamsSubject, func(msg *nats.Msg) {
		h.BroadcastText(msg.Data)
	}); err != nil {
		return fmt.Errorf("subscribe %s: %w", cfg.NATS.ParamsSubject, err)
	}

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: routes(cfg, h)}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	ctx, cancel := osSignal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	select {
	case <-ctx.Done():
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	h.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
	return nil
}

func routes(cfg *config.Config, h *hub.Hub) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(cfg.HTTP.StaticDir)))
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "messages %d\nclients %d\ndropped %d\n", h.Messages(), h.Len(), h.Dropped())
	})
	mux.Handle("/ws", h)
	return mux
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
