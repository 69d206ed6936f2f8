package kepler

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Pusher is implemented by orbit representations to which an impulsive Δv can be applied.
type Pusher[T any] interface {
	Push(Δv r3.Vec) T
}

var _ Pusher[StateVector] = StateVector{}

// Push implements the Pusher interface: returns the state with Δv added to the velocity.
// The position and frame are unchanged.
func (s StateVector) Push(Δv r3.Vec) StateVector {
	return StateVector{r: s.r, v: r3.Add(s.v, Δv), frame: s.frame}
}

// Push applies an impulsive Δv to the orbit at epoch with the default engine. It fails if
// the burn leaves an unsupported (e.g. escape) orbit.
func (o OrbitalElements) Push(Δv r3.Vec) (OrbitalElements, error) {
	return defaultEngine.Push(o, Δv)
}

// Push applies an impulsive Δv to the elements at epoch with this engine.
func (en *Engine) Push(o OrbitalElements, Δv r3.Vec) (OrbitalElements, error) {
	s, err := en.State(o)
	if err != nil {
		return OrbitalElements{}, err
	}
	return en.Elements(s.Push(Δv))
}

// Maneuver is an impulsive burn of Δv (frame axes, km/s) At seconds after the initial state.
type Maneuver struct {
	Δv r3.Vec
	At float64
}

// NewManeuver returns a new maneuver.
func NewManeuver(Δv r3.Vec, at float64) Maneuver {
	return Maneuver{Δv: Δv, At: at}
}

// ApplyManeuvers coasts between the maneuvers and applies them in turn, with the default engine.
// Maneuvers must be sorted by time and not precede the initial state.
// Returns the state right after the last burn.
func ApplyManeuvers(s StateVector, maneuvers []Maneuver) (StateVector, error) {
	return defaultEngine.ApplyManeuvers(s, maneuvers)
}

// ApplyManeuvers coasts with this engine between the maneuvers and applies them in turn.
func (en *Engine) ApplyManeuvers(s StateVector, maneuvers []Maneuver) (StateVector, error) {
	now := 0.0
	for k, m := range maneuvers {
		if m.At < now {
			return StateVector{}, invalid("maneuvers", "maneuver #%d at %gs precedes %gs", k, m.At, now)
		}
		next, err := en.Tick(s, m.At-now)
		if err != nil {
			return StateVector{}, fmt.Errorf("coasting to maneuver #%d: %w", k, err)
		}
		s = next.Push(m.Δv)
		now = m.At
	}
	return s, nil
}
