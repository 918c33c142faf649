// Package event provides double-buffered, per-frame event queues.
//
// Producers call [Events.Send]. Once per frame the owner calls
// [Events.Update], which drops events older than two frames. Each consumer
// keeps its own [Reader] cursor, so every consumer sees every event exactly
// once as long as it reads at least once every two frames.
package event

type entry[T any] struct {
	id    int
	value T
}

// Events is a queue of events of type T.
// The zero value is ready to use. Events is not safe for concurrent use.
type Events[T any] struct {
	older []entry[T]
	newer []entry[T]
	count int
}

// Send appends an event.
func (e *Events[T]) Send(v T) {
	e.newer = append(e.newer, entry[T]{id: e.count, value: v})
	e.count++
}

// Update rotates the buffers: events sent before the previous Update are
// discarded. Call once per frame.
func (e *Events[T]) Update() {
	e.older, e.newer = e.newer, e.older[:0]
}

// Len returns the number of buffered events.
func (e *Events[T]) Len() int {
	return len(e.older) + len(e.newer)
}

// Clear drops all buffered events. Readers skip nothing; they simply find
// no events to read.
func (e *Events[T]) Clear() {
	e.older = e.older[:0]
	e.newer = e.newer[:0]
}

// Reader is a read cursor into an Events queue.
// The zero value reads every buffered event.
type Reader[T any] struct {
	next int
}

// Read returns the events sent since the previous Read and advances the
// cursor.
func (r *Reader[T]) Read(e *Events[T]) []T {
	var out []T
	for _, buf := range [2][]entry[T]{e.older, e.newer} {
		for _, en := range buf {
			if en.id >= r.next {
				out = append(out, en.value)
			}
		}
	}
	r.next = e.count
	return out
}

// Latest returns the most recent unread event and advances the cursor past
// every buffered event.
func (r *Reader[T]) Latest(e *Events[T]) (T, bool) {
	var zero T
	if r.next >= e.count {
		return zero, false
	}
	r.next = e.count
	if n := len(e.newer); n > 0 {
		return e.newer[n-1].value, true
	}
	if n := len(e.older); n > 0 {
		return e.older[n-1].value, true
	}
	return zero, false
}
