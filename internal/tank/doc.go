// Package tank provides the core data types for 1D multi-node stratified
// storage tank simulation:
//
//   - [Config]: validated, immutable tank geometry and fluid properties
//   - [Profile]: vertical node temperature field (index 0 = bottom)
//   - [Schedule]: signed mass-flow / inlet / ambient boundary conditions
//   - [Mode]: operating regime selected from the sign of the mass flow
//
// Configs and schedules are read-only during a solver run and may be shared
// across parallel runs; a Profile is owned by exactly one run.
package tank
