package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/thermlab/tanksim/internal/solver"
	"github.com/thermlab/tanksim/internal/tank"
)

const (
	liveFPS         = 30
	historyCapacity = 600
	barWidth        = 40
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

// Model steps the tank simulation on a frame tick and renders the live
// profile. Time advances speed seconds of simulated time per wall second.
type Model struct {
	cfg     *tank.Config
	sol     *solver.Solver
	sched   tank.Schedule
	initial tank.Profile

	p       tank.Profile
	t       float64
	horizon float64
	dt      float64
	speed   float64

	running bool
	err     error
	topHist []float64
	botHist []float64
}

// NewModel prepares a live view over one run.
func NewModel(cfg *tank.Config, sched tank.Schedule, initial tank.Profile, run solver.Run, speed float64) Model {
	if speed <= 0 {
		speed = 60
	}
	return Model{
		cfg:     cfg,
		sol:     solver.New(cfg),
		sched:   sched,
		initial: initial,
		p:       initial.Clone(),
		horizon: run.Horizon,
		dt:      run.Dt,
		speed:   speed,
		running: true,
		topHist: make([]float64, 0, historyCapacity),
		botHist: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/liveFPS, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.speed *= 2
		case "-":
			m.speed /= 2
		case "r":
			m.p = m.initial.Clone()
			m.t = 0
			m.err = nil
			m.topHist = m.topHist[:0]
			m.botHist = m.botHist[:0]
		}
		return m, nil

	case TickMsg:
		if m.running && m.err == nil && m.t < m.horizon {
			m.advanceFrame()
		}
		return m, tea.Tick(time.Second/liveFPS, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// advanceFrame integrates one frame's worth of simulated time.
func (m *Model) advanceFrame() {
	budget := m.speed / liveFPS
	for budget > 0 && m.t < m.horizon {
		step := m.dt
		if step > budget {
			step = budget
		}
		if rem := m.horizon - m.t; step > rem {
			step = rem
		}
		accepted, err := m.sol.Step(m.p, m.sched.At(m.t), step)
		if err != nil {
			m.err = err
			return
		}
		m.t += accepted
		budget -= accepted
	}
	if len(m.topHist) == historyCapacity {
		m.topHist = m.topHist[1:]
		m.botHist = m.botHist[1:]
	}
	m.topHist = append(m.topHist, m.p[len(m.p)-1])
	m.botHist = append(m.botHist, m.p[0])
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("stratified tank — live"))
	b.WriteByte('\n')

	bd := m.sched.At(m.t)
	status := tank.ModeOf(bd.MFlow).String()
	if !m.running {
		status = pausedStyle.Render("paused")
	}
	b.WriteString(labelStyle.Render("t"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.0fs / %.0fs  (%gx)", m.t, m.horizon, m.speed)))
	b.WriteByte('\n')
	b.WriteString(labelStyle.Render("mode"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%s  mflow=%.3f kg/s", status, bd.MFlow)))
	b.WriteString("\n\n")

	b.WriteString(m.renderColumn())

	if len(m.topHist) > 1 {
		graph := asciigraph.PlotMany(
			[][]float64{m.topHist, m.botHist},
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteByte('\n')
	}

	if m.err != nil {
		b.WriteString(pausedStyle.Render("error: " + m.err.Error()))
		b.WriteByte('\n')
	}

	b.WriteString(helpStyle.Render("space pause · +/- speed · r reset · q quit"))
	b.WriteByte('\n')
	return b.String()
}

// renderColumn draws the tank as a stack of colored bars, top node first.
func (m Model) renderColumn() string {
	lo, hi := m.p.Min(), m.p.Max()
	span := hi - lo

	var b strings.Builder
	for i := len(m.p) - 1; i >= 0; i-- {
		frac := 1.0
		if span > 0 {
			frac = (m.p[i] - lo) / span
		}
		bin := int(frac * float64(len(heatPalette)-1))
		fill := 1 + int(frac*float64(barWidth-1))
		b.WriteString(labelStyle.Render(fmt.Sprintf("%5.1f ", m.p[i])))
		b.WriteString(heatPalette[bin].Render(strings.Repeat("█", fill)))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}

// RunLive starts the live view and blocks until it exits.
func RunLive(cfg *tank.Config, sched tank.Schedule, initial tank.Profile, run solver.Run, speed float64) error {
	prog := tea.NewProgram(NewModel(cfg, sched, initial, run, speed))
	_, err := prog.Run()
	return err
}
