package rig

import "math"

// Interpolation selects the easing applied from a keyframe to the next one.
type Interpolation string

const (
	Linear    Interpolation = "linear"
	EaseIn    Interpolation = "ease_in"
	EaseOut   Interpolation = "ease_out"
	EaseInOut Interpolation = "ease_in_out"
	Bezier    Interpolation = "bezier"
)

var Interpolations = []Interpolation{Linear, EaseIn, EaseOut, EaseInOut, Bezier}

func (i Interpolation) Valid() bool {
	switch i {
	case Linear, EaseIn, EaseOut, EaseInOut, Bezier:
		return true
	}
	return false
}

// Next cycles through the interpolation modes.
func (i Interpolation) Next() Interpolation {
	for n, v := range Interpolations {
		if v == i {
			return Interpolations[(n+1)%len(Interpolations)]
		}
	}
	return Linear
}

// Ease remaps a segment parameter t in [0, 1].
func (i Interpolation) Ease(t float64) float64 {
	switch i {
	case EaseIn:
		return t * t
	case EaseOut:
		return 1 - (1-t)*(1-t)
	case EaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return 1 - math.Pow(-2*t+2, 3)/2
	case Bezier:
		return t * t * (3 - 2*t)
	default:
		return t
	}
}
