package kepler

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOrbit is returned for parabolic and hyperbolic orbits, or for a
	// non positive semi major axis. Only bound elliptical motion is supported.
	ErrUnsupportedOrbit = errors.New("unsupported orbit: only elliptical orbits (0 <= e < 1, a > 0) are supported")
	// ErrNoConvergence is returned when Kepler's equation could not be solved within the iteration budget.
	ErrNoConvergence = errors.New("kepler equation did not converge")
	// ErrFrameMismatch is returned when two states which are not expressed in the same frame are combined.
	ErrFrameMismatch = errors.New("states are expressed in different reference frames")
)

// ValidationError is returned when a constructor is given inconsistent inputs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// SolverError details a failed resolution of Kepler's equation.
// It wraps ErrNoConvergence.
type SolverError struct {
	M, E       float64 // mean anomaly and last eccentric anomaly iterate
	Ecc        float64
	Step       float64 // last Newton step
	Iterations int
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("%s after %d iterations (M=%g e=%g E=%g ΔE=%g)", ErrNoConvergence, e.Iterations, e.M, e.Ecc, e.E, e.Step)
}

// Unwrap allows errors.Is(err, ErrNoConvergence).
func (e *SolverError) Unwrap() error {
	return ErrNoConvergence
}
