// Package analysis provides stratification statistics over temperature
// profiles and run-level metrics for the solver.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/thermlab/tanksim/internal/tank"
)

// Mean returns the arithmetic mean node temperature. Nodes have equal
// mass, so this is the energy-weighted average of the tank.
func Mean(p tank.Profile) float64 {
	return stat.Mean(p, nil)
}

// Variance returns the population variance of the node temperatures, a
// measure of how stratified the profile is (0 = fully mixed).
func Variance(p tank.Profile) float64 {
	if len(p) < 2 {
		return 0
	}
	mean := stat.Mean(p, nil)
	sum := 0.0
	for _, v := range p {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(p))
}

// Span returns the coldest and hottest node temperatures.
func Span(p tank.Profile) (lo, hi float64) {
	return floats.Min(p), floats.Max(p)
}

// StoredEnergy returns the thermal energy of the profile relative to a
// reference temperature, in J.
func StoredEnergy(cfg *tank.Config, p tank.Profile, ref float64) float64 {
	e := 0.0
	for _, v := range p {
		e += cfg.HeatCap * (v - ref)
	}
	return e
}

// Thermocline returns the lower node index of the steepest inter-node
// temperature gradient, or -1 for a profile shorter than two nodes.
func Thermocline(p tank.Profile) int {
	if len(p) < 2 {
		return -1
	}
	best, idx := -1.0, 0
	for i := 0; i < len(p)-1; i++ {
		if g := math.Abs(p[i+1] - p[i]); g > best {
			best, idx = g, i
		}
	}
	return idx
}

// Stratification returns the top-to-bottom temperature difference divided
// by the profile span, in [0,1] for a monotonic profile. A fully mixed
// tank returns 0.
func Stratification(p tank.Profile) float64 {
	lo, hi := Span(p)
	if hi == lo {
		return 0
	}
	return (p[len(p)-1] - p[0]) / (hi - lo)
}
