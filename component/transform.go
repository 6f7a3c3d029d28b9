package component

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent places an entity in the arena
type TransformComponent struct {
	Position mgl32.Vec2 // Arena units, origin at center
	Facing   float32    // Radians in [0, 2π)

	// Scale is render-only; excluded from checksums and never read by gameplay
	Scale float32
}
