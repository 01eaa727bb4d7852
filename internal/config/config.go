// Package config carga la configuración de ecg-monitor desde YAML y entorno.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivanzxc/ecg-monitor/internal/monitor"
	"github.com/ivanzxc/ecg-monitor/internal/signal"
)

// ErrInvalid envuelve cualquier error de validación.
var ErrInvalid = errors.New("invalid config")

// la R queda sobre el umbral ~13 ms a 78 BPM; debajo de 200 Hz se saltea
const minSampleRate = 200

// Config es la configuración completa.
type Config struct {
	NATS    NATSConfig    `yaml:"nats"`
	HTTP    HTTPConfig    `yaml:"http"`
	Signal  SignalConfig  `yaml:"signal"`
	Logging LoggingConfig `yaml:"logging"`
}

// NATSConfig: conexión y subjects.
type NATSConfig struct {
	URL           string `yaml:"url"`
	WaveSubject   string `yaml:"wave_subject"`
	ParamsSubject string `yaml:"params_subject"`
}

type HTTPConfig struct {
	Addr         string `yaml:"addr"`
	StaticDir    string `yaml:"static_dir"`
	WriteTimeout string `yaml:"write_timeout"`
}

// SignalConfig describe el trazo sintético.
type SignalConfig struct {
	BaseBPM      float64 `yaml:"base_bpm"`
	MinBPM       float64 `yaml:"min_bpm"`
	HRV          bool    `yaml:"hrv"`
	HRVAmplitude float64 `yaml:"hrv_amplitude"`
	HRVFrequency float64 `yaml:"hrv_frequency"`
	Respiration  bool    `yaml:"respiration"`
	RespDepth    float64 `yaml:"resp_depth"`
	PhaseMode    string  `yaml:"phase_mode"`
	Noise        float64 `yaml:"noise"`
	FPS          int     `yaml:"fps"`
	SampleRate   int     `yaml:"sample_rate"` // Hz del trazo publicado por NATS
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Batch        int     `yaml:"batch"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | console
}

// Default devuelve la configuración por defecto.
func Default() *Config {
	return &Config{
		NATS: NATSConfig{
			URL:           "nats://127.0.0.1:4222",
			WaveSubject:   "ecg.wave",
			ParamsSubject: "ecg.params",
		},
		HTTP: HTTPConfig{
			Addr:         ":8080",
			StaticDir:    "./web",
			WriteTimeout: "200ms",
		},
		Signal: SignalConfig{
			BaseBPM:      signal.DefaultBaseBPM,
			MinBPM:       signal.DefaultMinBPM,
			HRV:          true,
			HRVAmplitude: signal.DefaultHRVAmplitude,
			HRVFrequency: signal.DefaultHRVFrequency,
			Respiration:  true,
			RespDepth:    signal.DefaultRespDepth,
			// los comandos corren por horas; modulo se desfasa con HRV
			PhaseMode:    string(monitor.PhaseAccumulate),
			FPS:          60,
			SampleRate:   250,
			Width:        600,
			Height:       200,
			Batch:        10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load lee path sobre los valores por defecto. Si el archivo no existe
// devuelve los defaults. Las variables de entorno pisan al archivo.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("ECG_NATS_URL"); v != "" {
		c.NATS.URL = v
	}
	if v := os.Getenv("ECG_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("ECG_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ECG_BASE_BPM"); v != "" {
		bpm, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: ECG_BASE_BPM=%q: %v", ErrInvalid, v, err)
		}
		c.Signal.BaseBPM = bpm
	}
	return nil
}

// Validate revisa los rangos del trazo y de la red.
func (c *Config) Validate() error {
	s := c.Signal
	switch {
	case s.BaseBPM <= 0:
		return fmt.Errorf("%w: base_bpm must be > 0, got %v", ErrInvalid, s.BaseBPM)
	case s.MinBPM <= 0:
		return fmt.Errorf("%w: min_bpm must be > 0, got %v", ErrInvalid, s.MinBPM)
	case s.HRVAmplitude < 0:
		return fmt.Errorf("%w: hrv_amplitude must be >= 0", ErrInvalid)
	case s.RespDepth < 0 || s.RespDepth >= 1:
		return fmt.Errorf("%w: resp_depth must be in [0,1), got %v", ErrInvalid, s.RespDepth)
	case s.FPS <= 0:
		return fmt.Errorf("%w: fps must be > 0", ErrInvalid)
	case s.SampleRate < minSampleRate:
		return fmt.Errorf("%w: sample_rate must be >= %d Hz, got %d", ErrInvalid, minSampleRate, s.SampleRate)
	case s.Width < 0 || s.Height < 0:
		return fmt.Errorf("%w: negative surface size", ErrInvalid)
	case s.Batch <= 0:
		return fmt.Errorf("%w: batch must be > 0", ErrInvalid)
	}
	switch monitor.PhaseMode(s.PhaseMode) {
	case monitor.PhaseModulo, monitor.PhaseAccumulate:
	default:
		return fmt.Errorf("%w: unknown phase_mode %q", ErrInvalid, s.PhaseMode)
	}
	if c.NATS.WaveSubject == "" || c.NATS.ParamsSubject == "" {
		return fmt.Errorf("%w: empty NATS subject", ErrInvalid)
	}
	if _, err := time.ParseDuration(c.HTTP.WriteTimeout); err != nil {
		return fmt.Errorf("%w: write_timeout: %v", ErrInvalid, err)
	}
	return nil
}

// Monitor traduce la sección signal a la configuración del monitor.
func (s SignalConfig) Monitor() monitor.Config {
	hr := signal.NewHeartRateModulator(s.BaseBPM, s.HRVAmplitude)
	hr.Enabled = s.HRV
	hr.MinBPM = s.MinBPM
	if s.HRVFrequency > 0 {
		hr.Frequency = s.HRVFrequency
	}
	resp := signal.NewRespiratoryModulator(s.RespDepth)
	resp.Enabled = s.Respiration
	return monitor.Config{
		HeartRate:   hr,
		Respiration: resp,
		PhaseMode:   monitor.PhaseMode(s.PhaseMode),
		Noise:       s.Noise,
	}
}

// GetWriteTimeout parsea HTTP.WriteTimeout; 200ms si no es válido.
func (c *Config) GetWriteTimeout() time.Duration {
	d, err := time.ParseDuration(c.HTTP.WriteTimeout)
	if err != nil || d <= 0 {
		return 200 * time.Millisecond
	}
	return d
}

// SampleInterval es el periodo entre muestras del trazo publicado.
func (s SignalConfig) SampleInterval() time.Duration {
	if s.SampleRate <= 0 {
		return time.Second / 250
	}
	return time.Second / time.Duration(s.SampleRate)
}

// FrameInterval es el periodo entre ticks.
func (s SignalConfig) FrameInterval() time.Duration {
	if s.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(s.FPS)
}
