package kepler

import (
	"errors"
	"fmt"
	"math"
	"os"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gonum.org/v1/gonum/spatial/r3"
)

// defaultEngine serves the package level conversions and the Tick of state vectors.
var defaultEngine = mustEngine(DefaultConfig(), kitlog.NewNopLogger())

// Engine converts between state vectors and orbital elements.
// It is immutable and safe for concurrent use as long as its logger is.
type Engine struct {
	solver KeplerSolver
	strict bool
	ε      float64
	logger kitlog.Logger
}

// NewEngine returns a conversion engine for the provided configuration.
// If logger is nil, a logfmt logger on stderr filtered at conf.Log.Level is used.
func NewEngine(conf Config, logger kitlog.Logger) (*Engine, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		var err error
		if logger, err = NewLogger(os.Stderr, conf.Log.Level); err != nil {
			return nil, err
		}
	}
	return &Engine{solver: conf.KeplerSolver(), strict: conf.Solver.Strict, ε: conf.Tolerance, logger: logger}, nil
}

func mustEngine(conf Config, logger kitlog.Logger) *Engine {
	en, err := NewEngine(conf, logger)
	if err != nil {
		panic(err)
	}
	return en
}

// FromStateVector returns the orbital elements of the state with the default engine.
func FromStateVector(s StateVector) (OrbitalElements, error) {
	return defaultEngine.Elements(s)
}

// FromOrbitalElements returns the state vector of the elements with the default engine.
func FromOrbitalElements(o OrbitalElements) (StateVector, error) {
	return defaultEngine.State(o)
}

// OrbitalElements returns the orbital elements of this state (default engine).
func (s StateVector) OrbitalElements() (OrbitalElements, error) {
	return defaultEngine.Elements(s)
}

// StateVector returns the state vector at epoch of these elements (default engine).
func (o OrbitalElements) StateVector() (StateVector, error) {
	return defaultEngine.State(o)
}

// eccentricAnomaly solves Kepler's equation, tolerating a non converged solution in lenient mode.
func (en *Engine) eccentricAnomaly(M, e float64) (float64, error) {
	E, err := en.solver.Solve(M, e)
	if err == nil {
		return E, nil
	}
	var serr *SolverError
	if en.strict || !errors.As(err, &serr) || math.IsNaN(E) {
		return 0, err
	}
	level.Warn(en.logger).Log("msg", "using non converged eccentric anomaly", "M", M, "e", e, "E", E, "ΔE", serr.Step, "iterations", serr.Iterations)
	return E, nil
}

// EccentricAnomaly returns the eccentric anomaly at epoch of the elements, solved with
// this engine's solver and strictness.
func (en *Engine) EccentricAnomaly(o OrbitalElements) (float64, error) {
	return en.eccentricAnomaly(o.m0, o.e)
}

// State returns the state vector at epoch of the provided orbital elements.
func (en *Engine) State(o OrbitalElements) (StateVector, error) {
	if o.frame == nil {
		return StateVector{}, invalid("frame", "elements have no reference frame")
	}
	f := o.frame
	E, err := en.eccentricAnomaly(o.m0, o.e)
	if err != nil {
		return StateVector{}, fmt.Errorf("elements %s: %w", o, err)
	}
	ν := TrueAnomaly(E, o.e)
	dist := o.a * (1 - o.e*math.Cos(E))

	// Position and velocity in the i, j plane of the frame, then into the orbital plane.
	sinν, cosν := math.Sincos(ν)
	R := r3.Scale(dist, r3.Add(r3.Scale(cosν, f.i), r3.Scale(sinν, f.j)))
	sinE, cosE := math.Sincos(E)
	V := r3.Scale(math.Sqrt(f.μ*o.a)/dist, r3.Add(r3.Scale(-sinE, f.i), r3.Scale(math.Sqrt(1-o.e*o.e)*cosE, f.j)))
	return NewStateVector(MxV33(o.rot, R), MxV33(o.rot, V), f), nil
}

// Elements returns the orbital elements of the provided state vector.
// From Vallado's RV2COE, with the special orbits handled as follows:
//   - circular: ω = 0 and the anomaly is the argument of latitude;
//   - equatorial: Ω = 0 and ω is the longitude of periapsis;
//   - circular equatorial: Ω = ω = 0 and the anomaly is the true longitude.
func (en *Engine) Elements(s StateVector) (OrbitalElements, error) {
	f := s.frame
	if f == nil {
		return OrbitalElements{}, invalid("frame", "state has no reference frame")
	}
	R, V := s.r, s.v
	if !finiteVec(R) || !finiteVec(V) {
		return OrbitalElements{}, invalid("state", "position and velocity must be finite (%s)", s)
	}
	r := r3.Norm(R)
	if r == 0 {
		return OrbitalElements{}, invalid("position", "null position vector")
	}
	hVec := r3.Cross(R, V)
	h := r3.Norm(hVec)
	if h == 0 {
		return OrbitalElements{}, invalid("velocity", "rectilinear motion has no orbital plane (%s)", s)
	}
	eVec := r3.Sub(r3.Scale(1/f.μ, r3.Cross(V, hVec)), r3.Scale(1/r, R))
	e := r3.Norm(eVec)
	a := 1 / (2/r - r3.Norm2(V)/f.μ)
	if e >= 1-en.ε || a <= 0 || !finite(a) {
		return OrbitalElements{}, fmt.Errorf("a=%g e=%g: %w", a, e, ErrUnsupportedOrbit)
	}
	nVec := r3.Cross(f.k, hVec)

	// |n| = h·sin(i): atan2 stays accurate near 0 and π where acos(cos(i)) loses half the digits.
	cosi := clamp(r3.Dot(hVec, f.k)/h, -1, 1)
	sini := r3.Norm(nVec) / h
	i := math.Atan2(sini, cosi)
	circular := e < en.ε
	equatorial := false
	if sini < en.ε {
		if cosi > 0 {
			i = 0
			equatorial = true
		} else {
			// Retrograde equatorial: no node either, measure from the reference axis.
			i = math.Pi
			nVec = f.i
		}
	}

	var Ω, ω, ν float64
	if !equatorial {
		Ω = resolveQuadrant(angleBetween(f.i, nVec), r3.Dot(nVec, f.j) >= 0)
		if !circular {
			ω = resolveQuadrant(angleBetween(nVec, eVec), r3.Dot(eVec, r3.Cross(hVec, nVec)) >= 0)
		}
	}
	if !circular {
		ν = resolveQuadrant(angleBetween(eVec, R), r3.Dot(R, V) >= 0)
	}

	// Special orbits, in this order.
	if circular {
		ω = 0
	}
	if equatorial {
		Ω = 0
		if !circular {
			// Longitude of periapsis.
			ω = resolveQuadrant(angleBetween(f.i, eVec), r3.Dot(eVec, f.j) >= 0)
		} else {
			ω = 0
		}
	}
	if circular {
		if equatorial {
			// True longitude.
			ν = resolveQuadrant(angleBetween(f.i, R), r3.Dot(f.i, V) <= 0)
			level.Debug(en.logger).Log("special", "circular equatorial", "λ", ν)
		} else {
			// Argument of latitude.
			ν = resolveQuadrant(angleBetween(nVec, R), r3.Dot(nVec, V) <= 0)
			level.Debug(en.logger).Log("special", "circular", "u", ν)
		}
	} else if equatorial {
		level.Debug(en.logger).Log("special", "equatorial", "ϖ", ω)
	}

	E := EccentricAnomaly(ν, e)
	m0 := wrapAngle(MeanAnomaly(E, e))
	return newOrbitalElements(a, e, i, Ω, ω, m0, f, en.ε)
}
