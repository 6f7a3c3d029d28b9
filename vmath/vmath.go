package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Float32 helpers for rollback-participating math
// Products are converted to float32 before summing so they are never fused into FMA

const (
	Pi    float32 = math.Pi
	TwoPi float32 = 2 * math.Pi
)

// Mul returns a*b rounded to float32
func Mul(a, b float32) float32 {
	return float32(a * b)
}

// MulAdd returns a + b*c with the product rounded before the sum
func MulAdd(a, b, c float32) float32 {
	return a + float32(b*c)
}

// WrapAngle folds an angle into [0, 2π)
func WrapAngle(a float32) float32 {
	for a < 0 {
		a += TwoPi
	}
	for a >= TwoPi {
		a -= TwoPi
	}
	return a
}

// Finite reports whether f is neither NaN nor ±Inf
func Finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// FiniteVec reports whether both components of v are finite
func FiniteVec(v mgl32.Vec2) bool {
	return Finite(v[0]) && Finite(v[1])
}
