package tank

import (
	"errors"
	"fmt"
)

// Domain errors for tank simulation. The typed errors below wrap these
// sentinels so callers can match with errors.Is.
var (
	// ErrConfig indicates an invalid static tank parameter.
	ErrConfig = errors.New("tank: invalid configuration")

	// ErrValidation indicates an invalid runtime argument to a solver run.
	ErrValidation = errors.New("tank: invalid run input")

	// ErrUnstable indicates the stability-bounded step fell below the floor.
	ErrUnstable = errors.New("tank: stable step below minimum")

	// ErrDiverged indicates a non-finite node temperature mid-run.
	ErrDiverged = errors.New("tank: temperature field diverged")
)

// ConfigError reports which static parameter failed validation and why.
type ConfigError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s=%g (%s)", ErrConfig, e.Param, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// ValidationError reports an invalid argument passed to a solver run.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrValidation, e.Param, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StabilityError reports that satisfying the explicit stability bounds
// would require a step below the configured minimum. No result is produced.
type StabilityError struct {
	Step  int
	Time  float64
	Dt    float64
	MinDt float64
}

func (e *StabilityError) Error() string {
	return fmt.Sprintf("%v: step %d (t=%.4fs) requires dt=%.3es, floor is %.3es",
		ErrUnstable, e.Step, e.Time, e.Dt, e.MinDt)
}

func (e *StabilityError) Unwrap() error { return ErrUnstable }

// DivergenceError reports the node and step where a non-finite temperature
// was detected. The run is aborted without a partial result.
type DivergenceError struct {
	Step int
	Time float64
	Node int
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("%v: node %d at step %d (t=%.4fs)", ErrDiverged, e.Node, e.Step, e.Time)
}

func (e *DivergenceError) Unwrap() error { return ErrDiverged }
