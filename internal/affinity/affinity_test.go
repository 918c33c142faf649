//go:build linux || windows || darwin || freebsd || netbsd

package affinity

import (
	"errors"
	"runtime"
	"testing"
)

func TestPinOwnsCurrentThread(t *testing.T) {
	o := Pin()
	if !o.IsBound() {
		t.Fatal("Pin() returned unbound owner")
	}
	if !o.Owns() {
		t.Error("Owns() = false on the pinning thread")
	}
	o.Check()
}

func TestCheckPanicsOnOtherThread(t *testing.T) {
	o := Pin()

	done := make(chan any)
	go func() {
		// A locked goroutine owns its thread exclusively, so this one
		// cannot share the test goroutine's thread.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer func() { done <- recover() }()
		o.Check()
	}()

	r := <-done
	err, ok := r.(error)
	if !ok {
		t.Fatalf("Check() on foreign thread: recovered %v, want error", r)
	}
	if !errors.Is(err, ErrWrongThread) {
		t.Errorf("Check() panic = %v, want ErrWrongThread", err)
	}
}

func TestZeroOwnerAcceptsAnyThread(t *testing.T) {
	var o Owner
	if o.IsBound() {
		t.Error("zero Owner reports bound")
	}
	done := make(chan bool)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		o.Check()
		done <- o.Owns()
	}()
	if !<-done {
		t.Error("zero Owner does not own foreign thread")
	}
}
