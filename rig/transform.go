package rig

import (
	"math"

	"github.com/milk9111/rig/common"
)

// Transform is a 2D placement. Rotation is in degrees.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
	Scale    float64
}

// Identity returns the zero offset transform with unit scale.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Lerp blends every channel of t toward o independently.
func (t Transform) Lerp(o Transform, f float64) Transform {
	return Transform{
		X:        common.Lerp(t.X, o.X, f),
		Y:        common.Lerp(t.Y, o.Y, f),
		Rotation: common.Lerp(t.Rotation, o.Rotation, f),
		Scale:    common.Lerp(t.Scale, o.Scale, f),
	}
}

// Offset applies a keyframe offset k on top of a rest transform.
// Position and rotation add, scale is taken from k.
func (t Transform) Offset(k Transform) Transform {
	return Transform{
		X:        t.X + k.X,
		Y:        t.Y + k.Y,
		Rotation: t.Rotation + k.Rotation,
		Scale:    k.Scale,
	}
}

// Along returns the point at distance length from t along its rotation.
func (t Transform) Along(length float64) (float64, float64) {
	rad := common.DegToRad(t.Rotation)
	return t.X + length*math.Cos(rad), t.Y + length*math.Sin(rad)
}

// Rotate rotates the vector (x, y) by t's rotation.
func (t Transform) Rotate(x, y float64) (float64, float64) {
	rad := common.DegToRad(t.Rotation)
	c, s := math.Cos(rad), math.Sin(rad)
	return x*c - y*s, x*s + y*c
}

func (t Transform) NearlyEqual(o Transform, eps float64) bool {
	return common.NearlyEqual(t.X, o.X, eps) &&
		common.NearlyEqual(t.Y, o.Y, eps) &&
		common.NearlyEqual(t.Rotation, o.Rotation, eps) &&
		common.NearlyEqual(t.Scale, o.Scale, eps)
}
