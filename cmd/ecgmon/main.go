package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ivanzxc/ecg-monitor/internal/config"
	"github.com/ivanzxc/ecg-monitor/internal/monitor"
	"github.com/ivanzxc/ecg-monitor/internal/tui"
)

var (
	configPath string
	hr         float64
	noHRV      bool
	phaseMode  string
)

var rootCmd = &cobra.Command{
	Use:   "ecgmon",
	Short: "Draw the synthetic ECG trace in the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("hr") {
			cfg.Signal.BaseBPM = hr
		}
		if noHRV {
			cfg.Signal.HRV = false
		}
		if cmd.Flags().Changed("phase") {
			cfg.Signal.PhaseMode = phaseMode
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// el tamaño real llega con el primer WindowSizeMsg
		mon := monitor.New(cfg.Signal.Monitor(), 0, 0)
		_, err = tea.NewProgram(tui.New(mon, cfg.Signal.FrameInterval()), tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", "ecg.yaml", "config file")
	f.Float64Var(&hr, "hr", 0, "base heart rate bpm")
	f.BoolVar(&noHRV, "no-hrv", false, "disable heart rate variability")
	f.StringVar(&phaseMode, "phase", "", "phase mode: modulo or accumulate")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
