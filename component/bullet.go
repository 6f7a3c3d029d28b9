package component

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/clinuxrulz/flying-shooter/core"
)

// BulletComponent marks a linear projectile entity
type BulletComponent struct {
	Owner     core.PlayerHandle // Shooter, immune to own bullets and credited on hit
	Direction mgl32.Vec2        // Unit vector fixed at spawn
	BornFrame core.Frame        // Lifetime is measured in frames from here
}
