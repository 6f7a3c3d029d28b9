package component

import (
	"github.com/go-gl/mathgl/mgl32"
)

// VelocityComponent holds ship velocity in arena units per second before speed scaling
type VelocityComponent struct {
	Velocity mgl32.Vec2
}

// AccelerationComponent holds the thrust acceleration applied this frame
type AccelerationComponent struct {
	Acceleration mgl32.Vec2
}
