package engine

import (
	"github.com/clinuxrulz/flying-shooter/core"
)

// AnyStore provides type-erased operations for lifecycle management
// Allows World to manage all stores uniformly without knowing the concrete type
type AnyStore interface {
	// RemoveEntity deletes a component from an entity
	RemoveEntity(e core.Entity)

	// HasEntity checks if an entity has this component
	HasEntity(e core.Entity) bool

	// CountEntities returns the number of entities with this component
	CountEntities() int

	// ClearAllComponents removes all components from this store
	ClearAllComponents()

	// GetAllEntities returns all entities that have this component type
	GetAllEntities() []core.Entity
}
