// Package tui dibuja el trazo en la terminal con bubbletea y asciigraph.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ivanzxc/ecg-monitor/internal/monitor"
)

const (
	// alto virtual de la superficie del monitor; asciigraph reescala
	surfaceHeight = 100
	axisWidth     = 8
	chromeRows    = 5
)

var (
	bpmStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cc6d"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	traceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
)

// TickMsg marca un frame.
type TickMsg time.Time

// Model es el modelo bubbletea del monitor.
type Model struct {
	mon      *monitor.Monitor
	interval time.Duration

	last    time.Time
	frame   monitor.Frame
	cols    int
	rows    int
	paused  bool
	values  []float64
	started bool
}

// New crea el modelo; interval es el periodo de frame.
func New(mon *monitor.Monitor, interval time.Duration) Model {
	return Model{mon: mon, interval: interval}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		}
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width-axisWidth, 0)
		m.rows = max(msg.Height-chromeRows, 0)
		m.mon.Resize(m.cols, surfaceHeight)
	case TickMsg:
		now := time.Time(msg)
		delta := 0.0
		if m.started {
			delta = now.Sub(m.last).Seconds()
		}
		m.started = true
		m.last = now
		if !m.paused {
			m.frame = m.mon.Tick(delta)
			m.values = toPlot(m.frame.Points, m.values)
		}
		return m, m.tick()
	}
	return m, nil
}

// toPlot pasa de coordenadas de pantalla (y hacia abajo) a unidades de
// banda con y hacia arriba.
func toPlot(points []monitor.Point, dst []float64) []float64 {
	dst = dst[:0]
	scale := surfaceHeight * 0.25
	for _, p := range points {
		dst = append(dst, (surfaceHeight/2-p.Y)/scale)
	}
	return dst
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(bpmStyle.Render(fmt.Sprintf("%d BPM", m.frame.BPM)))
	if m.paused {
		b.WriteString(dimStyle.Render("  [paused]"))
	}
	b.WriteString("\n\n")

	if len(m.values) < 2 || m.rows < 2 {
		b.WriteString(dimStyle.Render("no signal"))
	} else {
		plot := asciigraph.Plot(m.values,
			asciigraph.Height(m.rows),
			asciigraph.Width(m.cols),
			asciigraph.LowerBound(-0.4),
			asciigraph.UpperBound(1.2),
			asciigraph.Precision(1),
		)
		b.WriteString(traceStyle.Render(plot))
	}

	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("ECG MONITOR"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s  amp %.2f  space: pause  q: quit", m.frame.Band, m.frame.AmplitudeScale)))
	return b.String()
}
