package app

import (
	"errors"
	"fmt"

	"github.com/gogpu/megaui/internal/affinity"
)

// ErrMissingResource is the panic value of MustGet when the resource was
// never inserted.
var ErrMissingResource = errors.New("app: missing resource")

// key is the map key for resources of type T.
type key[T any] struct{}

// World holds the resources shared by systems.
//
// Resources are keyed by type: there is at most one value of each type.
// Thread-local resources are additionally bound to the thread that created
// the World and may only be touched from it.
type World struct {
	resources map[any]any
	local     map[any]any
	owner     affinity.Owner
}

// NewWorld returns an empty World bound to the calling thread.
func NewWorld() *World {
	return &World{
		resources: make(map[any]any),
		local:     make(map[any]any),
		owner:     affinity.Pin(),
	}
}

// Insert stores v as the resource of type T, replacing any previous value.
func Insert[T any](w *World, v *T) {
	w.resources[key[T]{}] = v
}

// InsertDefault stores v only if no resource of type T exists and returns
// the resident value.
func InsertDefault[T any](w *World, v *T) *T {
	if cur, ok := Get[T](w); ok {
		return cur
	}
	Insert(w, v)
	return v
}

// Get returns the resource of type T.
func Get[T any](w *World) (*T, bool) {
	v, ok := w.resources[key[T]{}]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// MustGet returns the resource of type T and panics if it is absent.
func MustGet[T any](w *World) *T {
	v, ok := Get[T](w)
	if !ok {
		var zero T
		panic(fmt.Errorf("%w: %T", ErrMissingResource, zero))
	}
	return v
}

// Remove deletes the resource of type T.
func Remove[T any](w *World) {
	delete(w.resources, key[T]{})
}

// InsertLocal stores v as the thread-local resource of type T.
// Panics if called off the World's thread.
func InsertLocal[T any](w *World, v *T) {
	w.owner.Check()
	w.local[key[T]{}] = v
}

// GetLocal returns the thread-local resource of type T.
// Panics if called off the World's thread.
func GetLocal[T any](w *World) (*T, bool) {
	w.owner.Check()
	v, ok := w.local[key[T]{}]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// MustGetLocal returns the thread-local resource of type T and panics if it
// is absent.
func MustGetLocal[T any](w *World) *T {
	v, ok := GetLocal[T](w)
	if !ok {
		var zero T
		panic(fmt.Errorf("%w: thread-local %T", ErrMissingResource, zero))
	}
	return v
}
