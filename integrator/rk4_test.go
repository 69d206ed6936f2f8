package integrator

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// exponential integrates dy/dt = λy from y(0) = 1 until tStop.
type exponential struct {
	λ, tStop float64
	y        float64
	calls    int
}

func (e *exponential) GetState() []float64 {
	return []float64{e.y}
}

func (e *exponential) SetState(t float64, s []float64) {
	e.y = s[0]
	e.calls++
}

func (e *exponential) Stop(t float64) bool {
	return t >= e.tStop-1e-12
}

func (e *exponential) Func(t float64, s []float64) []float64 {
	return []float64{e.λ * s[0]}
}

func TestRK4Exponential(t *testing.T) {
	inte := &exponential{λ: -0.5, tStop: 2, y: 1}
	rk, err := NewRK4(0, 0.01, inte)
	if err != nil {
		t.Fatal(err)
	}
	iter, x, err := rk.Solve()
	if err != nil {
		t.Fatal(err)
	}
	if iter != 200 || inte.calls != 200 {
		t.Fatalf("expected 200 iterations, got %d (%d calls)", iter, inte.calls)
	}
	if !scalar.EqualWithinAbs(x, 2, 1e-9) {
		t.Fatalf("x=%f instead of 2", x)
	}
	if exp := math.Exp(-1); !scalar.EqualWithinAbs(inte.y, exp, 1e-10) {
		t.Fatalf("y=%.12f instead of %.12f", inte.y, exp)
	}
}

// harmonic integrates x'' = -x, whose energy is conserved.
type harmonic struct {
	s     []float64
	steps int
}

func (h *harmonic) GetState() []float64 { return h.s }

func (h *harmonic) SetState(t float64, s []float64) {
	h.s = s
	h.steps--
}

func (h *harmonic) Stop(t float64) bool { return h.steps <= 0 }

func (h *harmonic) Func(t float64, s []float64) []float64 {
	return []float64{s[1], -s[0]}
}

func TestRK4Harmonic(t *testing.T) {
	h := &harmonic{s: []float64{1, 0}, steps: 1000}
	rk, err := NewRK4(0, 2*math.Pi/1000, h)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := rk.Solve(); err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(h.s[0], 1, 1e-9) || !scalar.EqualWithinAbs(h.s[1], 0, 1e-9) {
		t.Fatalf("after one period: %+v", h.s)
	}
}

func TestRK4Errors(t *testing.T) {
	if _, err := NewRK4(0, 0, &harmonic{}); err == nil {
		t.Fatal("a zero step should be refused")
	}
	if _, err := NewRK4(0, 1, nil); err == nil {
		t.Fatal("a nil integrable should be refused")
	}
	diverging := &exponential{λ: math.Inf(1), tStop: 1, y: 1}
	rk, err := NewRK4(0, 0.1, diverging)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := rk.Solve(); err == nil {
		t.Fatal("expected a divergence error")
	}
}
