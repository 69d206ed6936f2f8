package kepler

import (
	"math"
)

// KeplerSolver inverts Kepler's equation M = E - e·sin(E) with Newton-Raphson iterations.
//
// Iterations bounds the number of Newton steps. When Tolerance is positive, the solver
// stops as soon as a step is smaller than Tolerance and reports ErrNoConvergence if the
// budget is exhausted first, starting from Vallado's initial guess on the mean anomaly reduced
// to [-π, π]. A zero Tolerance runs exactly Iterations unchecked steps from E = M and only
// reports an error on NaN; it is inaccurate for high eccentricities.
type KeplerSolver struct {
	Iterations int
	Tolerance  float64
}

// DefaultKeplerSolver returns the solver used by default: up to 50 steps, 1e-12 rad tolerance.
func DefaultKeplerSolver() KeplerSolver {
	return KeplerSolver{Iterations: 50, Tolerance: 1e-12}
}

// LegacyKeplerSolver returns a solver performing ten unchecked Newton steps.
func LegacyKeplerSolver() KeplerSolver {
	return KeplerSolver{Iterations: 10}
}

// Solve returns the eccentric anomaly E for the mean anomaly M (radians) and eccentricity e.
// The returned E differs from M by the same number of full turns as the input, i.e. it is
// not wrapped.
// On non convergence, the last iterate is returned alongside a *SolverError.
func (s KeplerSolver) Solve(M, e float64) (float64, error) {
	if !finite(M, e) {
		return math.NaN(), invalid("mean anomaly", "M=%g and e=%g must be finite", M, e)
	}
	if e < 0 || e >= 1 {
		return math.NaN(), ErrUnsupportedOrbit
	}
	if s.Iterations <= 0 {
		return math.NaN(), invalid("iterations", "must be positive, got %d", s.Iterations)
	}
	if !(s.Tolerance >= 0) {
		return math.NaN(), invalid("tolerance", "must be non negative, got %g", s.Tolerance)
	}
	if s.Tolerance == 0 {
		// Unchecked steps from E = M, without range reduction.
		E := M
		for k := 0; k < s.Iterations; k++ {
			E -= (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		}
		if math.IsNaN(E) {
			return E, &SolverError{M: M, E: E, Ecc: e, Step: math.NaN(), Iterations: s.Iterations}
		}
		return E, nil
	}
	// Solve in [-π, π] and add the turns back: Kepler's equation is 2π periodic in (M, E).
	Mr := math.Remainder(M, twoPi)
	turns := M - Mr
	// Vallado's starter, which converges for all elliptical orbits.
	E := Mr + e
	if Mr < 0 {
		E = Mr - e
	}
	var ΔE float64
	for k := 0; k < s.Iterations; k++ {
		sinE, cosE := math.Sincos(E)
		ΔE = (E - e*sinE - Mr) / (1 - e*cosE)
		E -= ΔE
		if math.Abs(ΔE) < s.Tolerance {
			return E + turns, nil
		}
	}
	return E + turns, &SolverError{M: M, E: E + turns, Ecc: e, Step: ΔE, Iterations: s.Iterations}
}

// TrueAnomaly returns the true anomaly from the eccentric anomaly, in the same half turn
// convention as E (the half angle formula keeps the quadrant).
func TrueAnomaly(E, e float64) float64 {
	sinHalf, cosHalf := math.Sincos(E / 2)
	return 2 * math.Atan2(math.Sqrt(1+e)*sinHalf, math.Sqrt(1-e)*cosHalf)
}

// EccentricAnomaly returns the eccentric anomaly in (-π, π] from the true anomaly ν.
func EccentricAnomaly(ν, e float64) float64 {
	return 2 * math.Atan(math.Tan(ν/2)/math.Sqrt((1+e)/(1-e)))
}

// MeanAnomaly returns the mean anomaly from the eccentric anomaly (Kepler's equation).
func MeanAnomaly(E, e float64) float64 {
	return E - e*math.Sin(E)
}
