package tank

import "math"

// Profile is the vertical temperature field, one value per node.
// Index 0 is the bottom node, len(p)-1 the top.
type Profile []float64

func (p Profile) Clone() Profile {
	c := make(Profile, len(p))
	copy(c, p)
	return c
}

// IsFinite reports whether every node temperature is a finite number.
func (p Profile) IsFinite() bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Mean returns the arithmetic mean temperature. Nodes have equal mass, so
// this is also the energy-weighted average.
func (p Profile) Mean() float64 {
	if len(p) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range p {
		sum += v
	}
	return sum / float64(len(p))
}

func (p Profile) Min() float64 {
	m := math.Inf(1)
	for _, v := range p {
		m = math.Min(m, v)
	}
	return m
}

func (p Profile) Max() float64 {
	m := math.Inf(-1)
	for _, v := range p {
		m = math.Max(m, v)
	}
	return m
}

// Uniform returns an n-node profile at a single temperature.
func Uniform(n int, t float64) Profile {
	p := make(Profile, n)
	for i := range p {
		p[i] = t
	}
	return p
}

// Linear returns an n-node profile ramping from bottom to top, values at
// node centers.
func Linear(n int, bottom, top float64) Profile {
	p := make(Profile, n)
	if n == 1 {
		p[0] = (bottom + top) / 2
		return p
	}
	for i := range p {
		p[i] = bottom + (top-bottom)*float64(i)/float64(n-1)
	}
	return p
}

// Mode is the operating regime for one accepted time step.
type Mode int

const (
	Idle Mode = iota
	Charging
	Discharging
)

// ModeOf selects the regime from the sign of the mass flow. There is no
// hysteresis: the sign at each instant fully determines the mode.
func ModeOf(mflow float64) Mode {
	switch {
	case mflow > 0:
		return Charging
	case mflow < 0:
		return Discharging
	default:
		return Idle
	}
}

func (m Mode) String() string {
	switch m {
	case Charging:
		return "charging"
	case Discharging:
		return "discharging"
	default:
		return "idle"
	}
}

// Boundary is the boundary condition at one instant.
type Boundary struct {
	MFlow    float64 // kg/s; >0 charge, <0 discharge, 0 idle
	TInlet   float64 // inlet temperature, meaningful when MFlow != 0
	TAmbient float64 // ambient temperature for wall losses
}

// Schedule yields the boundary condition for any simulated instant.
// Implementations must be safe for concurrent reads.
type Schedule interface {
	At(t float64) Boundary
}
