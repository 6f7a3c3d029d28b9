package engine

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/clinuxrulz/flying-shooter/core"
)

var (
	ErrNotCopyable    = errors.New("type is not trivially copyable")
	ErrDuplicate      = errors.New("type already registered")
	ErrUnregistered   = errors.New("type not registered for rollback")
	ErrSnapshotLayout = errors.New("snapshot does not match registry")
)

// Cloner is implemented by rollback types that own heap data
type Cloner[T any] interface {
	Clone() T
}

// HashFunc feeds the checksum-relevant fields of v into d
// A nil HashFunc excludes the type from checksums
type HashFunc[T any] func(d *Digest, v T) error

// CopyMode is how a registered type is duplicated
type CopyMode uint8

const (
	ModeCopy CopyMode = iota
	ModeClone
)

func (m CopyMode) String() string {
	if m == ModeClone {
		return "clone"
	}
	return "copy"
}

// entry is the type-erased handle of one registered store or resource
type entry struct {
	name string
	typ  reflect.Type
	mode CopyMode

	save   func(w *World) any
	load   func(w *World, data any)
	hash   func(w *World, d *Digest) error
	encode func(data any) ([]byte, error)
	decode func(b []byte) (any, error)
}

// Registry declares every participating type and how it is duplicated
// Registration order is the snapshot and checksum walk order
type Registry struct {
	stores    []*entry
	resources []*entry
	byType    map[reflect.Type]*entry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]*entry),
	}
}

// RegisterCopy registers component type T duplicated by plain assignment
// Rejects types holding pointers, slices, maps, strings or other shared data
func RegisterCopy[T any](r *Registry, name string, hash HashFunc[T]) error {
	t := reflect.TypeFor[T]()
	if err := checkCopyable(t); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	return r.addStore(newStoreEntry(name, ModeCopy, func(v T) T { return v }, hash))
}

// RegisterClone registers component type T duplicated through Clone
func RegisterClone[T Cloner[T]](r *Registry, name string, hash HashFunc[T]) error {
	return r.addStore(newStoreEntry(name, ModeClone, func(v T) T { return v.Clone() }, hash))
}

// RegisterResourceCopy registers resource *T duplicated by plain assignment
func RegisterResourceCopy[T any](r *Registry, name string, hash HashFunc[T]) error {
	t := reflect.TypeFor[T]()
	if err := checkCopyable(t); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	return r.addResource(newResourceEntry(name, ModeCopy, func(v T) T { return v }, hash))
}

// RegisterResourceClone registers resource *T duplicated through Clone
func RegisterResourceClone[T Cloner[T]](r *Registry, name string, hash HashFunc[T]) error {
	return r.addResource(newResourceEntry(name, ModeClone, func(v T) T { return v.Clone() }, hash))
}

func (r *Registry) addStore(e *entry) error {
	if _, exists := r.byType[e.typ]; exists {
		return fmt.Errorf("register %s: %w", e.name, ErrDuplicate)
	}
	r.byType[e.typ] = e
	r.stores = append(r.stores, e)
	return nil
}

func (r *Registry) addResource(e *entry) error {
	if _, exists := r.byType[e.typ]; exists {
		return fmt.Errorf("register %s: %w", e.name, ErrDuplicate)
	}
	r.byType[e.typ] = e
	r.resources = append(r.resources, e)
	return nil
}

func newStoreEntry[T any](name string, mode CopyMode, dup func(T) T, hash HashFunc[T]) *entry {
	e := &entry{
		name: name,
		typ:  reflect.TypeFor[T](),
		mode: mode,
		save: func(w *World) any {
			return GetStore[T](w).dump(dup)
		},
		load: func(w *World, data any) {
			GetStore[T](w).restore(data.(*storeData[T]), dup)
		},
		encode: func(data any) ([]byte, error) {
			return msgpack.Marshal(data.(*storeData[T]))
		},
		decode: func(b []byte) (any, error) {
			var d storeData[T]
			if err := msgpack.Unmarshal(b, &d); err != nil {
				return nil, err
			}
			if len(d.Entities) != len(d.Values) {
				return nil, ErrSnapshotLayout
			}
			return &d, nil
		},
	}
	if hash != nil {
		e.hash = func(w *World, d *Digest) error {
			s := GetStore[T](w)
			d.WriteUint64(uint64(len(s.entities)))
			for _, ent := range s.entities {
				d.WriteUint64(uint64(ent))
				if err := hash(d, s.components[ent]); err != nil {
					return fmt.Errorf("%s entity %d: %w", name, ent, err)
				}
			}
			return nil
		}
	}
	return e
}

func newResourceEntry[T any](name string, mode CopyMode, dup func(T) T, hash HashFunc[T]) *entry {
	e := &entry{
		name: name,
		typ:  reflect.TypeFor[*T](),
		mode: mode,
		save: func(w *World) any {
			v := dup(*MustGetResource[*T](w.Resources))
			return &v
		},
		load: func(w *World, data any) {
			*MustGetResource[*T](w.Resources) = dup(*data.(*T))
		},
		encode: func(data any) ([]byte, error) {
			return msgpack.Marshal(data.(*T))
		},
		decode: func(b []byte) (any, error) {
			var v T
			if err := msgpack.Unmarshal(b, &v); err != nil {
				return nil, err
			}
			return &v, nil
		},
	}
	if hash != nil {
		e.hash = func(w *World, d *Digest) error {
			if err := hash(d, *MustGetResource[*T](w.Resources)); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		}
	}
	return e
}

// checkCopyable accepts fixed-size value types only
func checkCopyable(t reflect.Type) error {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Array:
		return checkCopyable(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if err := checkCopyable(f.Type); err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %s has kind %s", ErrNotCopyable, t, t.Kind())
	}
}

// Validate checks that every store and resource of w is registered and vice versa
func (r *Registry) Validate(w *World) error {
	var errs []error
	for _, t := range w.StoreTypes() {
		if e, ok := r.byType[t]; !ok || !r.isStore(e) {
			errs = append(errs, fmt.Errorf("store %s: %w", t, ErrUnregistered))
		}
	}
	for _, t := range w.Resources.Types() {
		if e, ok := r.byType[t]; !ok || r.isStore(e) {
			errs = append(errs, fmt.Errorf("resource %s: %w", t, ErrUnregistered))
		}
	}
	for _, e := range r.stores {
		if _, ok := w.stores[e.typ]; !ok {
			errs = append(errs, fmt.Errorf("store %s missing from world", e.name))
		}
	}
	for _, e := range r.resources {
		if _, ok := w.Resources.resources[e.typ]; !ok {
			errs = append(errs, fmt.Errorf("resource %s missing from world", e.name))
		}
	}
	return errors.Join(errs...)
}

// MustValidate panics on an incomplete registry; call once at startup
func (r *Registry) MustValidate(w *World) {
	if err := r.Validate(w); err != nil {
		panic(err)
	}
}

func (r *Registry) isStore(e *entry) bool {
	for _, s := range r.stores {
		if s == e {
			return true
		}
	}
	return false
}

// Save duplicates the full rollback state of w tagged with frame
func (r *Registry) Save(w *World, frame core.Frame) *Snapshot {
	s := &Snapshot{
		Frame:      frame,
		nextEntity: w.nextEntityID,
		stores:     make([]any, len(r.stores)),
		resources:  make([]any, len(r.resources)),
	}
	for i, e := range r.stores {
		s.stores[i] = e.save(w)
	}
	for i, e := range r.resources {
		s.resources[i] = e.save(w)
	}
	return s
}

// Load restores w to the state captured in s
// The snapshot is left untouched and may be loaded again
func (r *Registry) Load(w *World, s *Snapshot) error {
	if len(s.stores) != len(r.stores) || len(s.resources) != len(r.resources) {
		return ErrSnapshotLayout
	}
	w.nextEntityID = s.nextEntity
	for i, e := range r.stores {
		e.load(w, s.stores[i])
	}
	for i, e := range r.resources {
		e.load(w, s.resources[i])
	}
	return nil
}
