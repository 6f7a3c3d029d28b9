package vmath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{-Pi / 2, 3 * Pi / 2},
		{TwoPi, 0},
		{TwoPi + 1, 1},
	}
	for _, tt := range tests {
		got := WrapAngle(tt.in)
		if got < 0 || got >= TwoPi {
			t.Errorf("WrapAngle(%v) = %v, out of range", tt.in, got)
		}
		if math.Abs(float64(got-tt.want)) > 1e-5 {
			t.Errorf("WrapAngle(%v): Expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestDirectionCardinal(t *testing.T) {
	tests := []struct {
		angle float32
		want  mgl32.Vec2
	}{
		{0, mgl32.Vec2{1, 0}},
		{Pi / 2, mgl32.Vec2{0, 1}},
		{Pi, mgl32.Vec2{-1, 0}},
		{3 * Pi / 2, mgl32.Vec2{0, -1}},
	}
	for _, tt := range tests {
		got := Direction(tt.angle)
		if !got.ApproxEqualThreshold(tt.want, 1e-6) {
			t.Errorf("Direction(%v): Expected %v, got %v", tt.angle, tt.want, got)
		}
	}
}

func TestClampLen(t *testing.T) {
	v := ClampLen(mgl32.Vec2{3, 4}, 2.5)
	if l := math.Sqrt(float64(LenSq(v))); math.Abs(l-2.5) > 1e-5 {
		t.Errorf("Expected length 2.5, got %v", l)
	}
	short := mgl32.Vec2{0.1, 0}
	if ClampLen(short, 2.5) != short {
		t.Errorf("Expected short vector unchanged")
	}
}

func TestFinite(t *testing.T) {
	if !FiniteVec(mgl32.Vec2{1, -1}) {
		t.Errorf("Expected finite vector")
	}
	if Finite(float32(math.NaN())) || Finite(float32(math.Inf(-1))) {
		t.Errorf("Expected NaN and Inf to be non-finite")
	}
}
