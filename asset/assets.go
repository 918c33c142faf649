// Package asset stores engine assets addressed by handles and reports
// their lifecycle as events.
package asset

import (
	"github.com/gogpu/megaui/event"
)

// EventKind is the kind of an asset lifecycle event.
type EventKind uint8

const (
	// Created is sent when a value is first stored under a handle.
	Created EventKind = iota
	// Modified is sent when a stored value is replaced.
	Modified
	// Removed is sent when a value leaves the store.
	Removed
)

func (k EventKind) String() string {
	switch k {
	case Created:
		return "Created"
	case Modified:
		return "Modified"
	case Removed:
		return "Removed"
	default:
		return "Unknown"
	}
}

// Event is an asset lifecycle event. Handle is always weak.
type Event struct {
	Kind   EventKind
	Handle Handle
}

// Assets is a typed asset store.
//
// A handle may exist before its value does: [Assets.Reserve] issues a
// handle for an asset that is still loading and [Assets.Set] fills it in
// later. Strong handles are reference counted; when the last one is
// released the value is removed.
//
// Assets is not safe for concurrent use.
type Assets[T any] struct {
	values map[HandleID]T
	refs   map[HandleID]int
	nextID HandleID
	events event.Events[Event]
}

// New returns an empty store.
func New[T any]() *Assets[T] {
	return &Assets[T]{
		values: make(map[HandleID]T),
		refs:   make(map[HandleID]int),
	}
}

// Reserve returns a strong handle with no value behind it yet.
func (a *Assets[T]) Reserve() Handle {
	a.nextID++
	id := a.nextID
	a.refs[id] = 1
	return Handle{id: id, strong: true}
}

// Add stores v under a fresh strong handle.
func (a *Assets[T]) Add(v T) Handle {
	h := a.Reserve()
	a.Set(h, v)
	return h
}

// Set stores v under h, sending Created or Modified.
func (a *Assets[T]) Set(h Handle, v T) {
	_, existed := a.values[h.id]
	a.values[h.id] = v
	kind := Created
	if existed {
		kind = Modified
	}
	a.events.Send(Event{Kind: kind, Handle: h.Weak()})
}

// Get returns the value behind h.
func (a *Assets[T]) Get(h Handle) (T, bool) {
	v, ok := a.values[h.id]
	return v, ok
}

// Contains reports whether h has a value.
func (a *Assets[T]) Contains(h Handle) bool {
	_, ok := a.values[h.id]
	return ok
}

// Remove deletes the value behind h regardless of outstanding strong
// handles and sends Removed.
func (a *Assets[T]) Remove(h Handle) (T, bool) {
	v, ok := a.values[h.id]
	if !ok {
		return v, false
	}
	delete(a.values, h.id)
	a.events.Send(Event{Kind: Removed, Handle: h.Weak()})
	return v, true
}

// Clone returns another handle to the same asset. Cloning a strong handle
// adds a reference.
func (a *Assets[T]) Clone(h Handle) Handle {
	if h.strong {
		a.refs[h.id]++
	}
	return h
}

// Release drops the reference held by a strong handle. Releasing the last
// reference removes the value. Weak handles are ignored.
func (a *Assets[T]) Release(h Handle) {
	if !h.strong {
		return
	}
	n, ok := a.refs[h.id]
	if !ok {
		return
	}
	if n > 1 {
		a.refs[h.id] = n - 1
		return
	}
	delete(a.refs, h.id)
	a.Remove(h)
}

// RefCount returns the number of strong references to h.
func (a *Assets[T]) RefCount(h Handle) int {
	return a.refs[h.id]
}

// Len returns the number of stored values.
func (a *Assets[T]) Len() int {
	return len(a.values)
}

// Events returns the store's lifecycle event queue.
func (a *Assets[T]) Events() *event.Events[Event] {
	return &a.events
}

// Update rotates the event queue. Call once per frame.
func (a *Assets[T]) Update() {
	a.events.Update()
}
