package kepler

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultTolerance is the default threshold under which an orbit is considered circular
	// (on e) or equatorial (on the inclination, or its sine when computed from a state).
	DefaultTolerance = 1e-9

	// Tolerances used by Equals.
	eccentricityε = 1e-6
	angleε        = 1e-6 // radians
	distanceε     = 1e-6 // relative
)

// OrbitalElements defines an orbit via its classical orbital elements.
// It is a value type: Tick and Push return new instances.
//
// For circular orbits the argument of periapsis is undefined and ignored, and the mean
// anomaly is measured from the ascending node (argument of latitude). For equatorial orbits
// the longitude of the ascending node is undefined and ignored, and the argument of
// periapsis holds the longitude of periapsis. For circular equatorial orbits the mean anomaly
// is measured from the frame's reference axis (true longitude).
type OrbitalElements struct {
	a, e, inc, Ω, ω, m0 float64
	n                   float64    // mean motion
	rot                 *mat.Dense // perifocal to frame, never mutated once built
	ε                   float64    // degeneracy threshold rot was built with
	frame               *ReferenceFrame
}

// NewOrbitalElements returns the orbital elements for the semi major axis a, eccentricity e,
// inclination inc, longitude of the ascending node Ω, argument of periapsis ω and mean
// anomaly m0 at epoch. Angles are in radians.
func NewOrbitalElements(a, e, inc, Ω, ω, m0 float64, frame *ReferenceFrame) (OrbitalElements, error) {
	return newOrbitalElements(a, e, inc, Ω, ω, m0, frame, DefaultTolerance)
}

func newOrbitalElements(a, e, inc, Ω, ω, m0 float64, frame *ReferenceFrame, ε float64) (OrbitalElements, error) {
	if frame == nil {
		return OrbitalElements{}, invalid("frame", "nil reference frame")
	}
	if !finite(a, e, inc, Ω, ω, m0) {
		return OrbitalElements{}, invalid("elements", "all elements must be finite (a=%g e=%g i=%g Ω=%g ω=%g M=%g)", a, e, inc, Ω, ω, m0)
	}
	if a <= 0 || e < 0 || e >= 1 {
		return OrbitalElements{}, fmt.Errorf("a=%g e=%g: %w", a, e, ErrUnsupportedOrbit)
	}
	if inc < 0 || inc > math.Pi {
		return OrbitalElements{}, invalid("inclination", "%g is not within [0, π]", inc)
	}
	o := OrbitalElements{a: a, e: e, inc: inc, Ω: Ω, ω: ω, m0: m0, ε: ε, frame: frame}
	o.n = math.Sqrt(frame.μ / (a * a * a))
	o.rot = perifocalRotation(frame, inc, Ω, ω, o.equatorial(), o.circular())
	return o, nil
}

func (o OrbitalElements) circular() bool {
	return o.e < o.ε
}

func (o OrbitalElements) equatorial() bool {
	return o.inc < o.ε
}

func (o OrbitalElements) retrograde() bool {
	return math.Pi-o.inc < o.ε
}

// A returns the semi major axis.
func (o OrbitalElements) A() float64 { return o.a }

// E returns the eccentricity.
func (o OrbitalElements) E() float64 { return o.e }

// Inc returns the inclination.
func (o OrbitalElements) Inc() float64 { return o.inc }

// LAN returns the longitude of the ascending node Ω.
func (o OrbitalElements) LAN() float64 { return o.Ω }

// AP returns the argument of periapsis ω, or its substitute for degenerate orbits.
func (o OrbitalElements) AP() float64 { return o.ω }

// M0 returns the mean anomaly at epoch.
func (o OrbitalElements) M0() float64 { return o.m0 }

// MeanMotion returns the cached mean motion n in rad/s.
func (o OrbitalElements) MeanMotion() float64 { return o.n }

// Frame returns the reference frame of these elements.
func (o OrbitalElements) Frame() *ReferenceFrame { return o.frame }

// Rotation returns a copy of the cached perifocal to frame rotation matrix.
func (o OrbitalElements) Rotation() *mat.Dense {
	return mat.DenseCopyOf(o.rot)
}

// Energy returns the specific mechanical energy ξ.
func (o OrbitalElements) Energy() float64 {
	return -o.frame.μ / (2 * o.a)
}

// SemiParameter returns the semi parameter p.
func (o OrbitalElements) SemiParameter() float64 {
	return o.a * (1 - o.e*o.e)
}

// Apoapsis returns the apoapsis radius.
func (o OrbitalElements) Apoapsis() float64 {
	return o.a * (1 + o.e)
}

// Periapsis returns the periapsis radius.
func (o OrbitalElements) Periapsis() float64 {
	return o.a * (1 - o.e)
}

// HNorm returns the norm of the specific angular momentum.
func (o OrbitalElements) HNorm() float64 {
	return math.Sqrt(o.frame.μ * o.SemiParameter())
}

// Period returns the period of this orbit in seconds.
func (o OrbitalElements) Period() float64 {
	return twoPi / o.n
}

// LongitudeOfPeriapsis returns the longitude of periapsis ϖ = Ω + ω, or ω for equatorial
// orbits where ω already stores it. It is zero for circular orbits.
func (o OrbitalElements) LongitudeOfPeriapsis() float64 {
	switch {
	case o.circular():
		return 0
	case o.equatorial():
		return wrapAngle(o.ω)
	}
	return wrapAngle(o.Ω + o.ω)
}

// EccentricAnomaly returns the eccentric anomaly at epoch using the default engine.
func (o OrbitalElements) EccentricAnomaly() (float64, error) {
	return defaultEngine.EccentricAnomaly(o)
}

// TrueAnomaly returns the true anomaly at epoch in [0, 2π) using the default solver.
// For circular orbits this is the argument of latitude, or the true longitude if also equatorial.
func (o OrbitalElements) TrueAnomaly() (float64, error) {
	E, err := o.EccentricAnomaly()
	if err != nil {
		return 0, err
	}
	return wrapAngle(TrueAnomaly(E, o.e)), nil
}

// String implements the Stringer interface (hence the value receiver).
func (o OrbitalElements) String() string {
	if o.circular() {
		if !o.equatorial() {
			return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f u=%.3f", o.a, o.e, Rad2deg(o.inc), Rad2deg(o.Ω), Rad2deg(o.m0))
		}
		return fmt.Sprintf("a=%.1f e=%.4f i=%.3f λ=%.3f", o.a, o.e, Rad2deg(o.inc), Rad2deg(o.m0))
	}
	if o.equatorial() {
		return fmt.Sprintf("a=%.1f e=%.4f i=%.3f ϖ=%.3f M=%.3f", o.a, o.e, Rad2deg(o.inc), Rad2deg(o.ω), Rad2deg(o.m0))
	}
	return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f ω=%.3f M=%.3f", o.a, o.e, Rad2deg(o.inc), Rad2deg(o.Ω), Rad2deg(o.ω), Rad2deg(o.m0))
}

// Equals returns whether two sets of elements describe the same orbit at the same epoch.
// Undefined angles of degenerate orbits are not compared; their substitutes are.
func (o OrbitalElements) Equals(o1 OrbitalElements) (bool, error) {
	if !o.frame.Equals(o1.frame) {
		return false, ErrFrameMismatch
	}
	if !scalar.EqualWithinRel(o.a, o1.a, distanceε) {
		return false, errors.New("semi major axis invalid")
	}
	if !scalar.EqualWithinAbs(o.e, o1.e, eccentricityε) {
		return false, errors.New("eccentricity invalid")
	}
	if ok, _ := anglesEqual(o.inc, o1.inc, angleε); !ok {
		return false, errors.New("inclination invalid")
	}
	// Retrograde equatorial orbits have no node either: the in-plane angles are measured
	// backwards from the reference axis, so compare them once the node is removed.
	var node, node1 float64
	switch {
	case o.equatorial():
	case o.retrograde():
		node, node1 = o.Ω, o1.Ω
	default:
		if ok, _ := anglesEqual(o.Ω, o1.Ω, angleε); !ok {
			return false, errors.New("RAAN invalid")
		}
	}
	if o.circular() {
		// The mean anomaly is measured from the node (or the reference axis).
		if ok, _ := anglesEqual(o.m0-node, o1.m0-node1, angleε); !ok {
			return false, errors.New("argument of latitude invalid")
		}
		return true, nil
	}
	if ok, _ := anglesEqual(o.ω-node, o1.ω-node1, angleε); !ok {
		return false, errors.New("argument of periapsis invalid")
	}
	if ok, _ := anglesEqual(o.m0, o1.m0, angleε); !ok {
		return false, errors.New("mean anomaly invalid")
	}
	return true, nil
}

// anglesEqual returns whether two angles in radians are equal modulo 2π.
func anglesEqual(a, b, tol float64) (bool, error) {
	diff := math.Abs(wrapAngle(a) - wrapAngle(b))
	if diff < tol || math.Abs(diff-twoPi) < tol {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10fπ", diff/math.Pi)
}

// Radii2ae returns the semi major axis and the eccentricity from the radii.
func Radii2ae(rA, rP float64) (a, e float64, err error) {
	if rA < rP {
		return 0, 0, errors.New("periapsis cannot be greater than apoapsis")
	}
	a = (rP + rA) / 2
	e = (rA - rP) / (rA + rP)
	return
}
