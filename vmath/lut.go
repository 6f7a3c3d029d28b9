package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	LUTSize = 4096
	LUTMask = LUTSize - 1
)

// lutScale maps radians to LUT index
const lutScale float32 = LUTSize / (2 * math.Pi)

func init() {
	// Sin/Cos LUT calculation, float64 then rounded once
	for i := 0; i < LUTSize; i++ {
		rad := 2.0 * math.Pi * float64(i) / LUTSize
		SinLUT[i] = float32(math.Sin(rad))
		CosLUT[i] = float32(math.Cos(rad))
	}
}

// SinLUT and CosLUT sample one full turn
var (
	SinLUT [LUTSize]float32
	CosLUT [LUTSize]float32
)

// lutIndex rounds an angle in radians to the nearest table slot
func lutIndex(angle float32) int {
	idx := int(math.Floor(float64(float32(angle*lutScale)) + 0.5))
	return idx & LUTMask
}

// Sin returns the table sine of angle (radians)
func Sin(angle float32) float32 {
	return SinLUT[lutIndex(angle)]
}

// Cos returns the table cosine of angle (radians)
func Cos(angle float32) float32 {
	return CosLUT[lutIndex(angle)]
}

// Direction returns the unit vector for angle (radians), counter-clockwise from +X
func Direction(angle float32) mgl32.Vec2 {
	idx := lutIndex(angle)
	return mgl32.Vec2{CosLUT[idx], SinLUT[idx]}
}
