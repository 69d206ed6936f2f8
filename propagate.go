package kepler

import (
	"fmt"
	"math"

	"github.com/ChristopherRabotin/kepler/integrator"
	"gonum.org/v1/gonum/spatial/r3"
)

// Ticker is implemented by orbit representations which can tell their future state.
type Ticker[T any] interface {
	// Tick returns the state dt seconds later.
	Tick(dt float64) (T, error)
}

var (
	_ Ticker[OrbitalElements] = OrbitalElements{}
	_ Ticker[StateVector]     = StateVector{}
)

// Tick implements the Ticker interface: only the mean anomaly advances, by n·dt.
// This is exact for unperturbed two-body motion and never fails.
func (o OrbitalElements) Tick(dt float64) (OrbitalElements, error) {
	return o.tick(dt), nil
}

func (o OrbitalElements) tick(dt float64) OrbitalElements {
	next := o
	next.m0 = o.m0 + o.n*dt
	return next
}

// Tick implements the Ticker interface by converting to orbital elements, advancing those
// analytically and converting back.
func (s StateVector) Tick(dt float64) (StateVector, error) {
	return defaultEngine.Tick(s, dt)
}

// Tick propagates a state vector by dt seconds with this engine.
func (en *Engine) Tick(s StateVector, dt float64) (StateVector, error) {
	if dt == 0 {
		return s, nil
	}
	o, err := en.Elements(s)
	if err != nil {
		return StateVector{}, err
	}
	return en.State(o.tick(dt))
}

// Propagate ticks s by dt seconds, steps times, e.g. to sample an orbit.
func Propagate[T Ticker[T]](s T, dt float64, steps int) (T, error) {
	for k := 0; k < steps; k++ {
		next, err := s.Tick(dt)
		if err != nil {
			return s, fmt.Errorf("step %d: %w", k, err)
		}
		s = next
	}
	return s, nil
}

// Integrate numerically propagates the state by dt seconds with a fixed step RK4 on the
// two-body equations of motion. The step is shrunk so that a whole number of steps spans dt.
// Tick is exact and cheaper for two-body motion.
func (s StateVector) Integrate(dt, step float64) (StateVector, error) {
	if !finite(dt, step) || step <= 0 {
		return StateVector{}, invalid("step", "must be positive and finite, got %g", step)
	}
	if dt == 0 {
		return s, nil
	}
	if s.RNorm() == 0 {
		return StateVector{}, invalid("position", "null position vector")
	}
	steps := math.Ceil(math.Abs(dt) / step)
	tb := &twoBody{
		μ:     s.frame.μ,
		state: []float64{s.r.X, s.r.Y, s.r.Z, s.v.X, s.v.Y, s.v.Z},
		steps: uint64(steps),
	}
	rk, err := integrator.NewRK4(0, dt/steps, tb)
	if err != nil {
		return StateVector{}, err
	}
	if _, _, err := rk.Solve(); err != nil {
		return StateVector{}, err
	}
	st := tb.state
	return NewStateVector(r3.Vec{X: st[0], Y: st[1], Z: st[2]}, r3.Vec{X: st[3], Y: st[4], Z: st[5]}, s.frame), nil
}

// twoBody is the integrator.Integrable of the unperturbed two-body problem.
type twoBody struct {
	μ     float64
	state []float64
	steps uint64
	done  uint64
}

func (tb *twoBody) GetState() []float64 {
	return tb.state
}

func (tb *twoBody) SetState(t float64, s []float64) {
	tb.state = s
	tb.done++
}

func (tb *twoBody) Stop(t float64) bool {
	return tb.done >= tb.steps
}

func (tb *twoBody) Func(t float64, f []float64) (fDot []float64) {
	fDot = make([]float64, 6)
	r := math.Sqrt(f[0]*f[0] + f[1]*f[1] + f[2]*f[2])
	bodyAcc := -tb.μ / (r * r * r)
	// d\vec{R}/dt
	fDot[0] = f[3]
	fDot[1] = f[4]
	fDot[2] = f[5]
	// d\vec{V}/dt
	fDot[3] = bodyAcc * f[0]
	fDot[4] = bodyAcc * f[1]
	fDot[5] = bodyAcc * f[2]
	return
}
