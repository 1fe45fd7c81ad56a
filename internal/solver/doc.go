// Package solver implements the explicit upwind finite-volume time
// integrator for the stratified tank model.
//
// One call to [Solver.Run] owns the entire time loop: at every accepted
// step the node energy balance combines upwind advection (direction from
// the sign of the mass flow), axial conduction between neighbors, and wall
// loss to ambient. The step size is a derived quantity re-validated at
// every instant against the advective Courant bound and the diffusive
// bound; the solver never proceeds with an unstable step.
//
// A Solver is not safe for concurrent use, but independent runs over a
// shared [tank.Config] and [tank.Schedule] may execute in parallel as long
// as each run uses its own Solver.
package solver
