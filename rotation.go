package kepler

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// R3R1R3 performs a 3-1-3 Euler parameter rotation, i.e. R3(θ3)·R1(θ2)·R3(θ1).
// From Schaub and Junkins.
func R3R1R3(θ1, θ2, θ3 float64) *mat.Dense {
	sθ1, cθ1 := math.Sincos(θ1)
	sθ2, cθ2 := math.Sincos(θ2)
	sθ3, cθ3 := math.Sincos(θ3)
	return mat.NewDense(3, 3, []float64{cθ3*cθ1 - sθ3*cθ2*sθ1, cθ3*sθ1 + sθ3*cθ2*cθ1, sθ3 * sθ2,
		-sθ3*cθ1 - cθ3*cθ2*sθ1, -sθ3*sθ1 + cθ3*cθ2*cθ1, cθ3 * sθ2,
		sθ2 * sθ1, -sθ2 * cθ1, cθ2})
}

// MxV33 multiplies a 3x3 matrix with a vector. Note that there is no dimension check!
func MxV33(m mat.Matrix, v r3.Vec) r3.Vec {
	var o mat.VecDense
	o.MulVec(m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return r3.Vec{X: o.AtVec(0), Y: o.AtVec(1), Z: o.AtVec(2)}
}

// perifocalRotation returns the matrix rotating a vector lying in the i, j plane of the
// frame into the orbital plane, all components being expressed along the axes used to
// build the frame. It is the active rotation by Ω about k, then by i about the node, then
// by ω about the orbit normal: B·R3(-Ω)·R1(-i)·R3(-ω)·Bᵀ with B the frame basis.
// The Ω and i rotations are skipped for equatorial orbits, the ω rotation for circular
// ones, since those angles are undefined there.
func perifocalRotation(f *ReferenceFrame, inc, Ω, ω float64, equatorial, circular bool) *mat.Dense {
	var local *mat.Dense
	switch {
	case !equatorial && !circular:
		local = R3R1R3(-ω, -inc, -Ω)
	case !equatorial:
		local = new(mat.Dense)
		local.Mul(R3(-Ω), R1(-inc))
	case !circular:
		local = R3(-ω)
	default:
		local = mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	}
	var tmp, rot mat.Dense
	tmp.Mul(f.basis, local)
	rot.Mul(&tmp, f.basis.T())
	return &rot
}
