// Package affinity pins values to the OS thread that created them.
//
// A [Owner] remembers the thread it was created on. Values that must never
// cross threads (the IMGUI context, thread-local app resources) carry an
// Owner and call [Owner.Check] on every access. A violation is a programming
// error and panics with [ErrWrongThread].
//
// Thread ids come from the kernel on Linux, Windows, macOS, FreeBSD and
// NetBSD. Elsewhere every Owner is unbound and Check never fires.
package affinity

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrWrongThread is the panic value raised on a cross-thread access.
var ErrWrongThread = errors.New("affinity: accessed from a thread other than its owner")

// Owner identifies the OS thread a value is bound to.
// The zero Owner is unbound and accepts any thread.
type Owner struct {
	tid int64
}

// Pin locks the calling goroutine to its current OS thread and returns an
// Owner bound to that thread. The lock is never released; the goroutine
// stays on this thread for the rest of its life.
func Pin() Owner {
	runtime.LockOSThread()
	return Owner{tid: threadID()}
}

// IsBound reports whether o is bound to a thread. On platforms without a
// thread id source every Owner is unbound.
func (o Owner) IsBound() bool {
	return o.tid != 0
}

// Owns reports whether the calling thread is o's thread.
func (o Owner) Owns() bool {
	return o.tid == 0 || o.tid == threadID()
}

// Check panics with ErrWrongThread if the calling thread is not o's thread.
func (o Owner) Check() {
	if cur := threadID(); o.tid != 0 && cur != o.tid {
		panic(fmt.Errorf("%w (owner %d, caller %d)", ErrWrongThread, o.tid, cur))
	}
}
