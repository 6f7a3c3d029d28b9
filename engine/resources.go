package engine

import (
	"reflect"
)

// ResourceStore is the container for singleton rollback resources
// Resources are stored as pointers; restore writes through them so cached pointers stay valid
type ResourceStore struct {
	resources map[reflect.Type]any
	order     []reflect.Type
}

// NewResourceStore creates a new empty resource store
func NewResourceStore() *ResourceStore {
	return &ResourceStore{
		resources: make(map[reflect.Type]any),
	}
}

// AddResource registers or replaces a resource in the store
// T should be a pointer type so systems mutate the shared instance
func AddResource[T any](rs *ResourceStore, resource T) {
	t := reflect.TypeOf(resource)
	if _, exists := rs.resources[t]; !exists {
		rs.order = append(rs.order, t)
	}
	rs.resources[t] = resource
}

// GetResource retrieves a resource of type T from the store
// Returns the zero value of T and false if not found
func GetResource[T any](rs *ResourceStore) (T, bool) {
	var target T
	val, ok := rs.resources[reflect.TypeFor[T]()]
	if !ok {
		return target, false
	}
	return val.(T), true
}

// MustGetResource retrieves a resource or panics if missing
// For resources every game world must carry
func MustGetResource[T any](rs *ResourceStore) T {
	res, ok := GetResource[T](rs)
	if !ok {
		panic("Required resource not found: " + reflect.TypeFor[T]().String())
	}
	return res
}

// Types returns resource types in insertion order
func (rs *ResourceStore) Types() []reflect.Type {
	result := make([]reflect.Type, len(rs.order))
	copy(result, rs.order)
	return result
}
