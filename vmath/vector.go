package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Scale returns v*s with each component rounded
func Scale(v mgl32.Vec2, s float32) mgl32.Vec2 {
	return mgl32.Vec2{Mul(v[0], s), Mul(v[1], s)}
}

// AddScaled returns p + v*s, products rounded before the sum
func AddScaled(p, v mgl32.Vec2, s float32) mgl32.Vec2 {
	return mgl32.Vec2{MulAdd(p[0], v[0], s), MulAdd(p[1], v[1], s)}
}

// LenSq returns the squared length of v
func LenSq(v mgl32.Vec2) float32 {
	return Mul(v[0], v[0]) + Mul(v[1], v[1])
}

// DistSq returns the squared distance between a and b
func DistSq(a, b mgl32.Vec2) float32 {
	return LenSq(a.Sub(b))
}

// ClampLen limits the length of v to maxLen, keeping direction
func ClampLen(v mgl32.Vec2, maxLen float32) mgl32.Vec2 {
	sq := LenSq(v)
	if sq <= Mul(maxLen, maxLen) || sq == 0 {
		return v
	}
	// sqrt is correctly rounded per IEEE 754, identical on every peer
	l := float32(math.Sqrt(float64(sq)))
	return Scale(v, maxLen/l)
}

// ClampBox clamps each component of v to [-limit, limit]
func ClampBox(v mgl32.Vec2, limit float32) mgl32.Vec2 {
	return mgl32.Vec2{
		mgl32.Clamp(v[0], -limit, limit),
		mgl32.Clamp(v[1], -limit, limit),
	}
}
