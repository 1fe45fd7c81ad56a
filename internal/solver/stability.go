package solver

import "math"

// stableStep derives the largest step satisfying the explicit stability
// bounds at the given mass flow. The advective, diffusive and loss rates
// are combined as sum(rate_i/margin_i)*dt <= 1, which implies each
// individual bound and keeps the total per-node update coefficient below
// the largest margin. With no active rate the step is unbounded.
func (s *Solver) stableStep(mflow float64) float64 {
	cfg := s.cfg
	sum := 0.0
	if mflow != 0 {
		// Courant: |m_flow|*dt/node_mass below the margin.
		sum += math.Abs(mflow) / cfg.NodeMass / cfg.CourantMax
	}
	if cfg.GCond > 0 {
		// Diffusive: an interior node exchanges with two neighbors.
		sum += 2 * cfg.GCond / cfg.HeatCap / cfg.DiffusionMax
	}
	if cfg.UANode > 0 {
		sum += cfg.UANode / cfg.HeatCap / cfg.DiffusionMax
	}
	if sum == 0 {
		return math.Inf(1)
	}
	return 1 / sum
}
