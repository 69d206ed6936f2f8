package kepler

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

const testε = 1e-6

func vectorsEqual(a, b r3.Vec) bool {
	return vecWithinRel(a, b, testε)
}

func assertAngle(t *testing.T, name string, exp, got float64) {
	t.Helper()
	if ok, err := anglesEqual(exp, got, testε); !ok {
		t.Fatalf("%s invalid: got %f° expected %f° (%s)", name, Rad2deg(got), Rad2deg(exp), err)
	}
}

func mustElements(t *testing.T, a, e, inc, Ω, ω, m0 float64, f *ReferenceFrame) OrbitalElements {
	t.Helper()
	o, err := NewOrbitalElements(a, e, inc, Ω, ω, m0, f)
	if err != nil {
		t.Fatalf("could not build elements: %s", err)
	}
	return o
}

func mustState(t *testing.T, o OrbitalElements) StateVector {
	t.Helper()
	s, err := o.StateVector()
	if err != nil {
		t.Fatalf("could not convert %s: %s", o, err)
	}
	return s
}

func mustOE(t *testing.T, s StateVector) OrbitalElements {
	t.Helper()
	o, err := s.OrbitalElements()
	if err != nil {
		t.Fatalf("could not convert %s: %s", s, err)
	}
	return o
}

// rotatedFrame returns a frame whose basis is the canonical one rotated by the 3-1-3 angles.
func rotatedFrame(t *testing.T, μ, θ1, θ2, θ3 float64) *ReferenceFrame {
	t.Helper()
	m := R3R1R3(θ1, θ2, θ3)
	f, err := NewReferenceFrame(μ, MxV33(m, r3.Vec{X: 1}), MxV33(m, r3.Vec{Y: 1}), MxV33(m, r3.Vec{Z: 1}))
	if err != nil {
		t.Fatalf("rotated frame invalid: %s", err)
	}
	return f
}

// circularState returns the state on a circular orbit of radius r in the i, j plane of f,
// at angle θ from i, moving prograde.
func circularState(f *ReferenceFrame, r, θ float64) StateVector {
	s, c := math.Sincos(θ)
	vc := math.Sqrt(f.Mu() / r)
	R := r3.Add(r3.Scale(r*c, f.I()), r3.Scale(r*s, f.J()))
	V := r3.Add(r3.Scale(-vc*s, f.I()), r3.Scale(vc*c, f.J()))
	return NewStateVector(R, V, f)
}

func TestHelpers(t *testing.T) {
	if vectorsEqual(r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1e-3}) {
		t.Fatal("different vectors are equal")
	}
	if !vectorsEqual(r3.Vec{X: 1e10, Y: 1}, r3.Vec{X: 1e10, Y: 2}) {
		t.Fatal("vectors should be equal relatively to their norm")
	}
	s := circularState(Earth, 7000, math.Pi/2)
	if !scalar.EqualWithinAbs(s.R().Y, 7000, 1e-9) || !scalar.EqualWithinRel(s.VNorm(), math.Sqrt(EarthGM/7000), 1e-12) {
		t.Fatalf("unexpected circular state %s", s)
	}
}
