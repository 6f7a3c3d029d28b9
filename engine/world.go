package engine

import (
	"reflect"

	"github.com/clinuxrulz/flying-shooter/component"
	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/input"
)

// World contains all entities and their components using typed stores
// The entity counter, every store and every resource form the rollback state
type World struct {
	nextEntityID core.Entity

	stores     map[reflect.Type]AnyStore
	storeOrder []reflect.Type

	Resources  *ResourceStore
	Components ComponentStore
}

// NewWorld creates an empty world with no stores or resources
func NewWorld() *World {
	return &World{
		nextEntityID: 1,
		stores:       make(map[reflect.Type]AnyStore),
		Resources:    NewResourceStore(),
	}
}

// NewGameWorld creates a world carrying every game store and resource
func NewGameWorld(numPlayers int) *World {
	w := NewWorld()
	initComponentStores(w)

	AddResource(w.Resources, &FrameResource{Current: 0})
	AddResource(w.Resources, &RoundResource{Phase: RoundActive})
	AddResource(w.Resources, &ScoreResource{Scores: make([]uint32, numPlayers)})
	AddResource(w.Resources, &MatchResource{NumPlayers: uint8(numPlayers)})
	AddResource(w.Resources, &InputResource{Inputs: make([]input.Input, numPlayers)})
	return w
}

// initComponentStores creates stores in canonical order and caches typed pointers
func initComponentStores(w *World) {
	AddStore[component.PlayerComponent](w)
	AddStore[component.TransformComponent](w)
	AddStore[component.VelocityComponent](w)
	AddStore[component.AccelerationComponent](w)
	AddStore[component.WeaponComponent](w)
	AddStore[component.BulletComponent](w)
	w.Components = GetComponentStore(w)
}

// AddStore creates the store for T if missing and returns it
func AddStore[T any](w *World) *Store[T] {
	t := reflect.TypeFor[T]()
	if s, ok := w.stores[t]; ok {
		return s.(*Store[T])
	}
	s := NewStore[T]()
	w.stores[t] = s
	w.storeOrder = append(w.storeOrder, t)
	return s
}

// GetStore returns the store for T, panicking if the world never created it
func GetStore[T any](w *World) *Store[T] {
	s, ok := w.stores[reflect.TypeFor[T]()]
	if !ok {
		panic("Component store not found: " + reflect.TypeFor[T]().String())
	}
	return s.(*Store[T])
}

// StoreTypes returns component types in creation order
func (w *World) StoreTypes() []reflect.Type {
	result := make([]reflect.Type, len(w.storeOrder))
	copy(result, w.storeOrder)
	return result
}

// CreateEntity reserves a new entity ID
func (w *World) CreateEntity() core.Entity {
	id := w.nextEntityID
	w.nextEntityID++
	return id
}

// NextEntityID returns the ID the next CreateEntity will hand out
func (w *World) NextEntityID() core.Entity {
	return w.nextEntityID
}

// DestroyEntity removes all components associated with an entity
func (w *World) DestroyEntity(e core.Entity) {
	for _, t := range w.storeOrder {
		w.stores[t].RemoveEntity(e)
	}
}

// Clear removes all entities and components and resets the ID counter
func (w *World) Clear() {
	w.nextEntityID = 1
	for _, t := range w.storeOrder {
		w.stores[t].ClearAllComponents()
	}
}

// EntityCount returns the number of distinct entities holding any component
func (w *World) EntityCount() int {
	seen := make(map[core.Entity]struct{})
	for _, t := range w.storeOrder {
		for _, e := range w.stores[t].GetAllEntities() {
			seen[e] = struct{}{}
		}
	}
	return len(seen)
}
