package kepler

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// frameε is the tolerance on the orthonormality and handedness of a frame basis.
	frameε = 1e-9
	// EarthGM is the standard gravitational parameter of the Earth in km^3/s^2.
	EarthGM = 3.986004415e5
	// SunGM is the standard gravitational parameter of the Sun in km^3/s^2.
	SunGM = 1.32712440018e11
)

var (
	// Earth is the Earth centered equatorial frame (km, s).
	Earth = EquatorialFrame(EarthGM)
	// Sun is the Sun centered frame (km, s).
	Sun = EquatorialFrame(SunGM)
)

// ReferenceFrame is an orthonormal right-handed basis attached to an attracting body of
// gravitational parameter μ. It is immutable once built and meant to be shared, by pointer,
// between all the states expressed in it.
type ReferenceFrame struct {
	μ       float64
	i, j, k r3.Vec     // i points to the reference direction, k to the pole
	basis   *mat.Dense // columns are i, j, k
}

// NewReferenceFrame returns a new frame from its gravitational parameter and basis.
// The basis is never corrected: a non orthonormal or left-handed basis is a ValidationError.
func NewReferenceFrame(μ float64, i, j, k r3.Vec) (*ReferenceFrame, error) {
	if !finite(μ) || μ <= 0 {
		return nil, invalid("mu", "gravitational parameter must be positive and finite, got %g", μ)
	}
	if !finiteVec(i) || !finiteVec(j) || !finiteVec(k) {
		return nil, invalid("basis", "axes must be finite")
	}
	for _, ax := range []struct {
		name string
		v    r3.Vec
	}{{"i", i}, {"j", j}, {"k", k}} {
		if n := r3.Norm(ax.v); !scalar.EqualWithinAbs(n, 1, frameε) {
			return nil, invalid("basis", "axis %s is not a unit vector (norm=%g)", ax.name, n)
		}
	}
	if d := r3.Dot(i, j); !scalar.EqualWithinAbs(d, 0, frameε) {
		return nil, invalid("basis", "i and j are not orthogonal (i·j=%g)", d)
	}
	if d := r3.Dot(i, k); !scalar.EqualWithinAbs(d, 0, frameε) {
		return nil, invalid("basis", "i and k are not orthogonal (i·k=%g)", d)
	}
	if d := r3.Dot(j, k); !scalar.EqualWithinAbs(d, 0, frameε) {
		return nil, invalid("basis", "j and k are not orthogonal (j·k=%g)", d)
	}
	if !vecWithinAbs(r3.Cross(i, j), k, frameε) {
		return nil, invalid("basis", "basis is not right-handed (i×j=%v, k=%v)", r3.Cross(i, j), k)
	}
	basis := mat.NewDense(3, 3, []float64{
		i.X, j.X, k.X,
		i.Y, j.Y, k.Y,
		i.Z, j.Z, k.Z,
	})
	return &ReferenceFrame{μ: μ, i: i, j: j, k: k, basis: basis}, nil
}

// NewReferenceFrameFromPole builds the right-handed frame whose k axis is the pole and
// i axis the reference direction; j completes the basis as k×i.
func NewReferenceFrameFromPole(μ float64, pole, reference r3.Vec) (*ReferenceFrame, error) {
	return NewReferenceFrame(μ, reference, r3.Cross(pole, reference), pole)
}

// EquatorialFrame returns the frame of canonical basis for the provided gravitational parameter.
// Panics if μ is not positive, which is a programming error.
func EquatorialFrame(μ float64) *ReferenceFrame {
	f, err := NewReferenceFrame(μ, r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{Z: 1})
	if err != nil {
		panic(err)
	}
	return f
}

// Mu returns the gravitational parameter μ.
func (f *ReferenceFrame) Mu() float64 {
	return f.μ
}

// I returns the reference axis.
func (f *ReferenceFrame) I() r3.Vec {
	return f.i
}

// J returns the axis completing the basis (k×i).
func (f *ReferenceFrame) J() r3.Vec {
	return f.j
}

// K returns the polar axis.
func (f *ReferenceFrame) K() r3.Vec {
	return f.k
}

// Reproject returns the vector whose components along the other frame's axes are the
// components of v along this frame's axes. Both frames must share the same origin: this is a
// pure rotation.
func (f *ReferenceFrame) Reproject(v r3.Vec, other *ReferenceFrame) r3.Vec {
	return r3.Add(r3.Add(
		r3.Scale(r3.Dot(v, f.i), other.i),
		r3.Scale(r3.Dot(v, f.j), other.j)),
		r3.Scale(r3.Dot(v, f.k), other.k))
}

// Equals returns whether both frames are the same, or have the same μ and axes.
func (f *ReferenceFrame) Equals(o *ReferenceFrame) bool {
	if f == o {
		return true
	}
	if f == nil || o == nil {
		return false
	}
	return scalar.EqualWithinRel(f.μ, o.μ, frameε) &&
		vecWithinAbs(f.i, o.i, frameε) && vecWithinAbs(f.j, o.j, frameε) && vecWithinAbs(f.k, o.k, frameε)
}

// String implements the Stringer interface.
func (f *ReferenceFrame) String() string {
	return fmt.Sprintf("frame μ=%g i=%v j=%v k=%v", f.μ, f.i, f.j, f.k)
}

func vecWithinAbs(a, b r3.Vec, tol float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) &&
		scalar.EqualWithinAbs(a.Y, b.Y, tol) &&
		scalar.EqualWithinAbs(a.Z, b.Z, tol)
}
