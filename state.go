package kepler

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// StateVector defines an orbit via its Cartesian position and velocity in a reference frame.
// It is a value type: Tick and Push return new instances.
type StateVector struct {
	r, v  r3.Vec
	frame *ReferenceFrame
}

// NewStateVector returns the state of position r and velocity v, expressed in the frame.
func NewStateVector(r, v r3.Vec, frame *ReferenceFrame) StateVector {
	return StateVector{r: r, v: v, frame: frame}
}

// R returns the position vector.
func (s StateVector) R() r3.Vec { return s.r }

// V returns the velocity vector.
func (s StateVector) V() r3.Vec { return s.v }

// Frame returns the reference frame of this state.
func (s StateVector) Frame() *ReferenceFrame { return s.frame }

// RNorm returns the norm of the position vector.
func (s StateVector) RNorm() float64 {
	return r3.Norm(s.r)
}

// VNorm returns the norm of the velocity vector.
func (s StateVector) VNorm() float64 {
	return r3.Norm(s.v)
}

// H returns the specific angular momentum vector.
func (s StateVector) H() r3.Vec {
	return r3.Cross(s.r, s.v)
}

// HNorm returns the norm of the specific angular momentum.
func (s StateVector) HNorm() float64 {
	return r3.Norm(s.H())
}

// Energy returns the specific mechanical energy ξ from the vis-viva relation.
func (s StateVector) Energy() float64 {
	return r3.Norm2(s.v)/2 - s.frame.μ/s.RNorm()
}

// Reproject returns the state whose position and velocity have, in the other frame, the
// components this state has in its own frame. Both frames must share the same origin.
func (s StateVector) Reproject(other *ReferenceFrame) StateVector {
	return StateVector{
		r:     s.frame.Reproject(s.r, other),
		v:     s.frame.Reproject(s.v, other),
		frame: other,
	}
}

// String implements the Stringer interface.
func (s StateVector) String() string {
	return fmt.Sprintf("r=[%.6f %.6f %.6f] v=[%.6f %.6f %.6f]", s.r.X, s.r.Y, s.r.Z, s.v.X, s.v.Y, s.v.Z)
}

// Equals returns whether both states are in the same frame and have the same position and
// velocity within the relative tolerance ε (scaled by the norm of each vector).
func (s StateVector) Equals(o StateVector, ε float64) (bool, error) {
	if !s.frame.Equals(o.frame) {
		return false, ErrFrameMismatch
	}
	if !vecWithinRel(s.r, o.r, ε) {
		return false, errors.New("position vector invalid")
	}
	if !vecWithinRel(s.v, o.v, ε) {
		return false, errors.New("velocity vector invalid")
	}
	return true, nil
}

// vecWithinRel compares components relatively to the largest norm of both vectors, since
// a component may legitimately be zero.
func vecWithinRel(a, b r3.Vec, tol float64) bool {
	scale := math.Max(r3.Norm(a), r3.Norm(b))
	if scale == 0 {
		return true
	}
	return scalar.EqualWithinAbs(a.X/scale, b.X/scale, tol) &&
		scalar.EqualWithinAbs(a.Y/scale, b.Y/scale, tol) &&
		scalar.EqualWithinAbs(a.Z/scale, b.Z/scale, tol)
}
