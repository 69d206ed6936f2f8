package integrator

import (
	"errors"
	"math"
)

// RK4 defines a fixed step fourth order Runge-Kutta integrator.
type RK4 struct {
	X0        float64    // The initial x0.
	StepSize  float64    // The step size, may be negative to integrate backward.
	Integator Integrable // What is to be integrated.
}

// NewRK4 returns a new RK4 integrator instance.
func NewRK4(x0 float64, stepSize float64, inte Integrable) (*RK4, error) {
	if stepSize == 0 || math.IsNaN(stepSize) || math.IsInf(stepSize, 0) {
		return nil, errors.New("step size must be finite and non zero")
	}
	if inte == nil {
		return nil, errors.New("integrable may not be nil")
	}
	return &RK4{X0: x0, StepSize: stepSize, Integator: inte}, nil
}

// Solve solves the configured RK4.
// Returns the number of iterations performed and the last X_i, or an error.
func (r *RK4) Solve() (uint64, float64, error) {
	const (
		half     = 1 / 2.0
		oneSixth = 1 / 6.0
		oneThird = 1 / 3.0
	)

	iterNum := uint64(0)
	xi := r.X0
	halfStep := r.StepSize * half
	for !r.Integator.Stop(xi) {
		state := r.Integator.GetState()
		newState := make([]float64, len(state))
		k1 := make([]float64, len(state))
		//k2, k3, k4 are used as buffers AND result variables.
		k2 := make([]float64, len(state))
		k3 := make([]float64, len(state))
		k4 := make([]float64, len(state))
		tState := make([]float64, len(state))

		// Compute the k's.
		for i, y := range r.Integator.Func(xi, state) {
			k1[i] = y * r.StepSize
			tState[i] = state[i] + k1[i]*half
		}
		for i, y := range r.Integator.Func(xi+halfStep, tState) {
			k2[i] = y * r.StepSize
			tState[i] = state[i] + k2[i]*half
		}
		for i, y := range r.Integator.Func(xi+halfStep, tState) {
			k3[i] = y * r.StepSize
			tState[i] = state[i] + k3[i]
		}
		for i, y := range r.Integator.Func(xi+r.StepSize, tState) {
			k4[i] = y * r.StepSize
			newState[i] = state[i] + oneSixth*(k1[i]+k4[i]) + oneThird*(k2[i]+k3[i])
		}
		for _, y := range newState {
			if math.IsNaN(y) || math.IsInf(y, 0) {
				return iterNum, xi, errors.New("integration diverged")
			}
		}

		xi += r.StepSize
		iterNum++ // Don't forget to increment the number of iterations.
		r.Integator.SetState(xi, newState)
	}

	return iterNum, xi, nil
}
