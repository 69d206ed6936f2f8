package kepler

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	deg2rad = math.Pi / 180
	twoPi   = 2 * math.Pi
)

// clamp bounds x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// angleBetween returns the angle in [0, π] between a and b.
// The cosine is clamped to [-1, 1] to absorb rounding: Acos would otherwise return NaN
// on values such as 1+1e-16.
func angleBetween(a, b r3.Vec) float64 {
	return math.Acos(clamp(r3.Dot(a, b)/(r3.Norm(a)*r3.Norm(b)), -1, 1))
}

// resolveQuadrant maps an angle in [0, π] to [0, 2π) knowing whether it lies in the first half turn.
func resolveQuadrant(θ float64, firstHalf bool) float64 {
	if firstHalf {
		return θ
	}
	return wrapAngle(twoPi - θ)
}

// wrapAngle returns the provided angle in [0, 2π).
func wrapAngle(θ float64) float64 {
	θ = math.Mod(θ, twoPi)
	if θ < 0 {
		θ += twoPi
	}
	if θ >= twoPi {
		// math.Mod(-tiny) + 2π rounds to 2π.
		θ = 0
	}
	return θ
}

// finite returns whether all the provided values are neither NaN nor infinite.
func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func finiteVec(v r3.Vec) bool {
	return finite(v.X, v.Y, v.Z)
}

// Deg2rad converts degrees to radians, and enforces only positive numbers.
func Deg2rad(a float64) float64 {
	return wrapAngle(a * deg2rad)
}

// Rad2deg converts radians to degrees, and enforces only positive numbers.
func Rad2deg(a float64) float64 {
	return wrapAngle(a) / deg2rad
}
