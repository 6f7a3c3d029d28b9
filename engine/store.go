package engine

import (
	"sort"

	"github.com/clinuxrulz/flying-shooter/core"
)

// Store is a generic container for a specific component type T
// Sparse set: map for lookup, dense entity slice kept ascending by ID for deterministic iteration
// Not safe for concurrent use; world access is serialized by the pipeline owner
type Store[T any] struct {
	components map[core.Entity]T
	entities   []core.Entity
}

// NewStore creates a new component store for type T
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		components: make(map[core.Entity]T),
		entities:   make([]core.Entity, 0, 16),
	}
}

// SetComponent inserts or updates a component for an entity
func (s *Store[T]) SetComponent(e core.Entity, val T) {
	if _, exists := s.components[e]; !exists {
		s.insertSorted(e)
	}
	s.components[e] = val
}

// insertSorted appends in the common case of a fresh, highest ID
func (s *Store[T]) insertSorted(e core.Entity) {
	n := len(s.entities)
	if n == 0 || s.entities[n-1] < e {
		s.entities = append(s.entities, e)
		return
	}
	i := sort.Search(n, func(i int) bool { return s.entities[i] >= e })
	s.entities = append(s.entities, 0)
	copy(s.entities[i+1:], s.entities[i:])
	s.entities[i] = e
}

// GetComponent retrieves a component for an entity
func (s *Store[T]) GetComponent(e core.Entity) (T, bool) {
	val, ok := s.components[e]
	return val, ok
}

// RemoveEntity deletes a component from an entity, preserving iteration order
func (s *Store[T]) RemoveEntity(e core.Entity) {
	if _, exists := s.components[e]; !exists {
		return
	}
	delete(s.components, e)
	i := sort.Search(len(s.entities), func(i int) bool { return s.entities[i] >= e })
	if i < len(s.entities) && s.entities[i] == e {
		s.entities = append(s.entities[:i], s.entities[i+1:]...)
	}
}

// HasEntity checks if entity has this component
func (s *Store[T]) HasEntity(e core.Entity) bool {
	_, ok := s.components[e]
	return ok
}

// GetAllEntities returns a copy of all entities with this component, ascending by ID
func (s *Store[T]) GetAllEntities() []core.Entity {
	result := make([]core.Entity, len(s.entities))
	copy(result, s.entities)
	return result
}

// CountEntities returns number of entities with this component
func (s *Store[T]) CountEntities() int {
	return len(s.entities)
}

// ClearAllComponents removes all components from this store
func (s *Store[T]) ClearAllComponents() {
	s.components = make(map[core.Entity]T)
	s.entities = s.entities[:0]
}

// RemoveBatch deletes multiple entities in a single compaction pass
func (s *Store[T]) RemoveBatch(entities []core.Entity) {
	if len(entities) == 0 || len(s.components) == 0 {
		return
	}

	toRemove := make(map[core.Entity]struct{}, len(entities))
	for _, e := range entities {
		if _, exists := s.components[e]; exists {
			toRemove[e] = struct{}{}
			delete(s.components, e)
		}
	}
	if len(toRemove) == 0 {
		return
	}

	writeIdx := 0
	for _, e := range s.entities {
		if _, remove := toRemove[e]; !remove {
			s.entities[writeIdx] = e
			writeIdx++
		}
	}
	s.entities = s.entities[:writeIdx]
}

// storeData is the duplicated content of one store, parallel slices ascending by entity
type storeData[T any] struct {
	Entities []core.Entity `msgpack:"e"`
	Values   []T           `msgpack:"v"`
}

// dump duplicates the store content using dup for each value
func (s *Store[T]) dump(dup func(T) T) *storeData[T] {
	d := &storeData[T]{
		Entities: make([]core.Entity, len(s.entities)),
		Values:   make([]T, len(s.entities)),
	}
	copy(d.Entities, s.entities)
	for i, e := range s.entities {
		d.Values[i] = dup(s.components[e])
	}
	return d
}

// restore replaces the store content with a duplicate of d
func (s *Store[T]) restore(d *storeData[T], dup func(T) T) {
	s.components = make(map[core.Entity]T, len(d.Entities))
	s.entities = append(s.entities[:0], d.Entities...)
	for i, e := range d.Entities {
		s.components[e] = dup(d.Values[i])
	}
}
