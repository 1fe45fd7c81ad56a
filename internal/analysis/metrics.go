package analysis

import (
	"math"

	"github.com/thermlab/tanksim/internal/tank"
)

// EnergyContent tracks the stored energy relative to a reference
// temperature, reporting the final value in J.
type EnergyContent struct {
	cfg  *tank.Config
	ref  float64
	last float64
}

func NewEnergyContent(cfg *tank.Config, ref float64) *EnergyContent {
	return &EnergyContent{cfg: cfg, ref: ref}
}

func (e *EnergyContent) Name() string { return "energy_content" }

func (e *EnergyContent) Observe(p tank.Profile, b tank.Boundary, t float64) {
	e.last = StoredEnergy(e.cfg, p, e.ref)
}

func (e *EnergyContent) Value() float64 { return e.last }
func (e *EnergyContent) Reset()         { e.last = 0 }

// LossIntegral integrates the wall loss power over the run, reporting J
// lost to ambient.
type LossIntegral struct {
	cfg   *tank.Config
	lastT float64
	total float64
}

func NewLossIntegral(cfg *tank.Config) *LossIntegral {
	return &LossIntegral{cfg: cfg}
}

func (l *LossIntegral) Name() string { return "loss_integral" }

func (l *LossIntegral) Observe(p tank.Profile, b tank.Boundary, t float64) {
	dt := t - l.lastT
	if dt <= 0 {
		return
	}
	power := 0.0
	for _, v := range p {
		power += l.cfg.UANode * (v - b.TAmbient)
	}
	l.total += power * dt
	l.lastT = t
}

func (l *LossIntegral) Value() float64 { return l.total }

func (l *LossIntegral) Reset() {
	l.lastT = 0
	l.total = 0
}

// PeakTemperature tracks the hottest node temperature seen over the run.
type PeakTemperature struct {
	max  float64
	seen bool
}

func NewPeakTemperature() *PeakTemperature { return &PeakTemperature{} }

func (p *PeakTemperature) Name() string { return "peak_temperature" }

func (p *PeakTemperature) Observe(prof tank.Profile, b tank.Boundary, t float64) {
	hi := prof.Max()
	if !p.seen || hi > p.max {
		p.max = hi
		p.seen = true
	}
}

func (p *PeakTemperature) Value() float64 {
	if !p.seen {
		return math.NaN()
	}
	return p.max
}

func (p *PeakTemperature) Reset() {
	p.max = 0
	p.seen = false
}
