// Package input tracks the pressed state of keys and buttons across frames.
package input

// Input is the per-frame state of a set of switches (keys, mouse buttons).
//
// Press and Release are driven by the event source. ClearEdges runs at the
// start of every frame so JustPressed and JustReleased describe only the
// transitions seen since.
type Input[T comparable] struct {
	pressed      map[T]struct{}
	justPressed  map[T]struct{}
	justReleased map[T]struct{}
}

// New returns an Input with nothing pressed.
func New[T comparable]() *Input[T] {
	return &Input[T]{
		pressed:      make(map[T]struct{}),
		justPressed:  make(map[T]struct{}),
		justReleased: make(map[T]struct{}),
	}
}

// Press records v going down. Repeated presses of a held switch do not
// produce another edge.
func (in *Input[T]) Press(v T) {
	if _, held := in.pressed[v]; !held {
		in.justPressed[v] = struct{}{}
	}
	in.pressed[v] = struct{}{}
}

// Release records v going up.
func (in *Input[T]) Release(v T) {
	if _, held := in.pressed[v]; held {
		in.justReleased[v] = struct{}{}
	}
	delete(in.pressed, v)
}

// Pressed reports whether v is held.
func (in *Input[T]) Pressed(v T) bool {
	_, ok := in.pressed[v]
	return ok
}

// AnyPressed reports whether any of vs is held.
func (in *Input[T]) AnyPressed(vs ...T) bool {
	for _, v := range vs {
		if in.Pressed(v) {
			return true
		}
	}
	return false
}

// JustPressed reports whether v went down this frame.
func (in *Input[T]) JustPressed(v T) bool {
	_, ok := in.justPressed[v]
	return ok
}

// JustReleased reports whether v went up this frame.
func (in *Input[T]) JustReleased(v T) bool {
	_, ok := in.justReleased[v]
	return ok
}

// ClearEdges forgets this frame's transitions but keeps held state.
func (in *Input[T]) ClearEdges() {
	clear(in.justPressed)
	clear(in.justReleased)
}

// Reset releases everything without producing edges, for example when the
// window loses focus.
func (in *Input[T]) Reset() {
	clear(in.pressed)
	in.ClearEdges()
}
