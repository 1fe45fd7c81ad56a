package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/thermlab/tanksim/internal/tank"
)

// Metric accumulates a scalar over a run, observed once per accepted step.
type Metric interface {
	Name() string
	Observe(p tank.Profile, b tank.Boundary, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every accepted step.
type Observer interface {
	OnStep(p tank.Profile, b tank.Boundary, t float64)
}

// Run holds the per-run numerical parameters.
type Run struct {
	Horizon float64 // s, simulated duration, > 0
	Dt      float64 // s, requested step; shrunk when stability demands
}

// Result is the complete outcome of one run. Times, Field, Top and Bottom
// have one row per accepted step plus the initial state; HeatLoss and
// Modes have one entry per accepted step.
type Result struct {
	Times  []float64
	Field  []tank.Profile
	Top    []float64
	Bottom []float64

	HeatLoss []float64   // W, instantaneous wall loss at the start of each step
	Modes    []tank.Mode // regime of each step

	Metrics    map[string]float64
	StepsTaken int
	Elapsed    time.Duration // wall time, informational only
}

// Solver advances a temperature profile under a boundary schedule.
type Solver struct {
	cfg       *tank.Config
	metrics   []Metric
	observers []Observer
	flux      []float64 // W per node, scratch reused across steps
}

func New(cfg *tank.Config) *Solver {
	return &Solver{
		cfg:  cfg,
		flux: make([]float64, cfg.Nodes),
	}
}

func (s *Solver) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates from the initial profile over run.Horizon and returns the
// full history. The context is checked once per accepted step; a canceled
// run returns the rows accepted so far together with ctx.Err().
func (s *Solver) Run(ctx context.Context, sched tank.Schedule, initial tank.Profile, run Run) (*Result, error) {
	start := time.Now()

	if err := s.validate(sched, initial, run); err != nil {
		return nil, err
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	est := int(run.Horizon/run.Dt) + 2
	res := &Result{
		Times:    make([]float64, 0, est),
		Field:    make([]tank.Profile, 0, est),
		Top:      make([]float64, 0, est),
		Bottom:   make([]float64, 0, est),
		HeatLoss: make([]float64, 0, est),
		Modes:    make([]tank.Mode, 0, est),
		Metrics:  make(map[string]float64),
	}

	p := initial.Clone()
	t := 0.0
	res.record(s.cfg, p, t)

	step := 0
	for t < run.Horizon-1e-12 {
		select {
		case <-ctx.Done():
			res.StepsTaken = step
			res.Elapsed = time.Since(start)
			return res, ctx.Err()
		default:
		}

		b := sched.At(t)

		stable := s.stableStep(b.MFlow)
		if stable < s.cfg.MinDt {
			return nil, &tank.StabilityError{Step: step, Time: t, Dt: stable, MinDt: s.cfg.MinDt}
		}
		dt := math.Min(run.Dt, stable)
		if rem := run.Horizon - t; dt > rem {
			dt = rem
		}

		res.HeatLoss = append(res.HeatLoss, s.wallLoss(p, b))
		res.Modes = append(res.Modes, tank.ModeOf(b.MFlow))

		s.advance(p, b, dt)

		if i := nonFinite(p); i >= 0 {
			return nil, &tank.DivergenceError{Step: step, Time: t + dt, Node: i}
		}

		t += dt
		step++
		res.record(s.cfg, p, t)

		for _, m := range s.metrics {
			m.Observe(p, b, t)
		}
		for _, o := range s.observers {
			o.OnStep(p, b, t)
		}
	}

	res.StepsTaken = step
	for _, m := range s.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

// Step advances p in place by at most dt, clamped to the stability bound
// for the boundary b, and returns the accepted step size. It backs the
// live view, which drives the integration frame by frame.
func (s *Solver) Step(p tank.Profile, b tank.Boundary, dt float64) (float64, error) {
	if len(p) != s.cfg.Nodes {
		return 0, &tank.ValidationError{Param: "profile", Reason: fmt.Sprintf("length %d, want %d", len(p), s.cfg.Nodes)}
	}
	stable := s.stableStep(b.MFlow)
	if stable < s.cfg.MinDt {
		return 0, &tank.StabilityError{Dt: stable, MinDt: s.cfg.MinDt}
	}
	if dt > stable {
		dt = stable
	}
	s.advance(p, b, dt)
	if i := nonFinite(p); i >= 0 {
		return 0, &tank.DivergenceError{Node: i}
	}
	return dt, nil
}

func (s *Solver) validate(sched tank.Schedule, initial tank.Profile, run Run) error {
	if sched == nil {
		return &tank.ValidationError{Param: "schedule", Reason: "nil"}
	}
	if len(initial) != s.cfg.Nodes {
		return &tank.ValidationError{Param: "initial profile", Reason: fmt.Sprintf("length %d, want %d", len(initial), s.cfg.Nodes)}
	}
	if !initial.IsFinite() {
		return &tank.ValidationError{Param: "initial profile", Reason: "non-finite temperature"}
	}
	if run.Horizon <= 0 {
		return &tank.ValidationError{Param: "horizon", Reason: fmt.Sprintf("must be > 0, got %g", run.Horizon)}
	}
	if run.Dt <= 0 {
		return &tank.ValidationError{Param: "dt", Reason: fmt.Sprintf("must be > 0, got %g", run.Dt)}
	}
	return nil
}

// advance applies one explicit step of the node energy balance. Fluxes are
// accumulated in W over the old profile, then applied at once, so every
// term sources from pre-step temperatures.
func (s *Solver) advance(p tank.Profile, b tank.Boundary, dt float64) {
	cfg := s.cfg
	n := cfg.Nodes
	q := s.flux
	for i := range q {
		q[i] = 0
	}

	// Axial conduction: second difference with no-flux caps. Writing the
	// interface flux into both nodes keeps the term exactly conservative.
	if cfg.GCond > 0 {
		for i := 0; i < n-1; i++ {
			f := cfg.GCond * (p[i+1] - p[i])
			q[i] += f
			q[i+1] -= f
		}
	}

	// Wall loss to ambient.
	if cfg.UANode > 0 {
		for i := 0; i < n; i++ {
			q[i] -= cfg.UANode * (p[i] - b.TAmbient)
		}
	}

	// Upwind advection along the active port-to-port path. Charging
	// injects at the hot port, discharging at the cold port; each node on
	// the path sources from its upstream neighbor, the inlet node from the
	// inlet temperature. Nodes off the path see no advective term.
	if mode := tank.ModeOf(b.MFlow); mode != tank.Idle {
		in, out := cfg.HotPort, cfg.ColdPort
		if mode == tank.Discharging {
			in, out = cfg.ColdPort, cfg.HotPort
		}
		dir := 1
		if out < in {
			dir = -1
		}
		mcp := math.Abs(b.MFlow) * cfg.Cp
		upstream := b.TInlet
		for i := in; i != out+dir; i += dir {
			q[i] += mcp * (upstream - p[i])
			upstream = p[i]
		}
	}

	r := dt / cfg.HeatCap
	for i := 0; i < n; i++ {
		p[i] += q[i] * r
	}
}

// wallLoss returns the instantaneous loss power to ambient in W.
func (s *Solver) wallLoss(p tank.Profile, b tank.Boundary) float64 {
	if s.cfg.UANode == 0 {
		return 0
	}
	loss := 0.0
	for _, v := range p {
		loss += s.cfg.UANode * (v - b.TAmbient)
	}
	return loss
}

func (r *Result) record(cfg *tank.Config, p tank.Profile, t float64) {
	r.Times = append(r.Times, t)
	r.Field = append(r.Field, p.Clone())
	r.Bottom = append(r.Bottom, p[0])
	r.Top = append(r.Top, p[cfg.Nodes-1])
}

func nonFinite(p tank.Profile) int {
	for i, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}
