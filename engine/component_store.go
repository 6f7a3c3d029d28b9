package engine

import (
	"github.com/clinuxrulz/flying-shooter/component"
)

// ComponentStore provides cached pointers to typed component stores
// Initialized once per world; pointers remain valid across snapshot restores
type ComponentStore struct {
	Player       *Store[component.PlayerComponent]
	Transform    *Store[component.TransformComponent]
	Velocity     *Store[component.VelocityComponent]
	Acceleration *Store[component.AccelerationComponent]
	Weapon       *Store[component.WeaponComponent]
	Bullet       *Store[component.BulletComponent]
}

// GetComponentStore populates ComponentStore from world
func GetComponentStore(w *World) ComponentStore {
	return ComponentStore{
		Player:       GetStore[component.PlayerComponent](w),
		Transform:    GetStore[component.TransformComponent](w),
		Velocity:     GetStore[component.VelocityComponent](w),
		Acceleration: GetStore[component.AccelerationComponent](w),
		Weapon:       GetStore[component.WeaponComponent](w),
		Bullet:       GetStore[component.BulletComponent](w),
	}
}
