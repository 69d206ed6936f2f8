package kepler

import (
	"errors"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestStateDerived(t *testing.T) {
	s := NewStateVector(r3.Vec{X: 7000}, r3.Vec{Y: 7, Z: 1}, Earth)
	if s.RNorm() != 7000 || !scalar.EqualWithinRel(s.VNorm(), math.Sqrt(50), 1e-15) {
		t.Fatalf("r=%f v=%f", s.RNorm(), s.VNorm())
	}
	if s.H() != (r3.Vec{Y: -7000, Z: 49000}) {
		t.Fatalf("h=%v", s.H())
	}
	if !scalar.EqualWithinRel(s.HNorm(), 7000*math.Sqrt(50), 1e-15) {
		t.Fatalf("|h|=%f", s.HNorm())
	}
	if !scalar.EqualWithinRel(s.Energy(), 25-EarthGM/7000, 1e-15) {
		t.Fatalf("ξ=%f", s.Energy())
	}
	// Vis-viva agrees with the elements.
	if !scalar.EqualWithinRel(s.Energy(), mustOE(t, s).Energy(), 1e-12) {
		t.Fatalf("state ξ=%f elements ξ=%f", s.Energy(), mustOE(t, s).Energy())
	}
	if str := s.String(); !strings.Contains(str, "r=[7000.000000 0.000000 0.000000]") {
		t.Fatalf("unexpected string %q", str)
	}
}

func TestStateEquals(t *testing.T) {
	s := circularState(Earth, 7000, 1)
	if ok, err := s.Equals(s, testε); !ok {
		t.Fatal(err)
	}
	if ok, _ := s.Equals(s.Push(r3.Vec{X: 1e-9}), testε); !ok {
		t.Fatal("states within tolerance are different")
	}
	if ok, err := s.Equals(s.Push(r3.Vec{X: 1e-3}), testε); ok || !strings.Contains(err.Error(), "velocity") {
		t.Fatalf("velocity difference not caught: %v", err)
	}
	moved := NewStateVector(r3.Add(s.R(), r3.Vec{Z: 1}), s.V(), Earth)
	if ok, err := s.Equals(moved, testε); ok || !strings.Contains(err.Error(), "position") {
		t.Fatalf("position difference not caught: %v", err)
	}
	if ok, err := s.Equals(NewStateVector(s.R(), s.V(), Sun), testε); ok || !errors.Is(err, ErrFrameMismatch) {
		t.Fatalf("expected ErrFrameMismatch, got %v", err)
	}
	// Distinct but identical frames are the same frame.
	if ok, err := s.Equals(NewStateVector(s.R(), s.V(), EquatorialFrame(EarthGM)), testε); !ok {
		t.Fatal(err)
	}
}

func TestStateReproject(t *testing.T) {
	f := rotatedFrame(t, EarthGM, 0.3, 0.9, 1.7)
	s := mustState(t, mustElements(t, 9000, 0.3, 0.6, 1, 2, 3, Earth))
	s1 := s.Reproject(f)
	if s1.Frame() != f {
		t.Fatal("frame not updated")
	}
	if !scalar.EqualWithinRel(s1.RNorm(), s.RNorm(), 1e-12) || !scalar.EqualWithinRel(s1.VNorm(), s.VNorm(), 1e-12) {
		t.Fatal("reprojection is not a rotation")
	}
	// The elements relative to the new frame are unchanged.
	o, o1 := mustOE(t, s), mustOE(t, s1)
	if !scalar.EqualWithinRel(o.A(), o1.A(), 1e-9) || !scalar.EqualWithinAbs(o.E(), o1.E(), 1e-9) {
		t.Fatalf("shape changed\n%s\n%s", o, o1)
	}
	for _, a := range []struct {
		name     string
		exp, got float64
	}{
		{"inclination", o.Inc(), o1.Inc()},
		{"RAAN", o.LAN(), o1.LAN()},
		{"argument of periapsis", o.AP(), o1.AP()},
		{"mean anomaly", o.M0(), o1.M0()},
	} {
		assertAngle(t, a.name, a.exp, a.got)
	}
	back := s1.Reproject(Earth)
	if ok, err := s.Equals(back, 1e-12); !ok {
		t.Fatalf("round trip: %s", err)
	}
}
