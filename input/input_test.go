package input

import (
	"testing"

	"github.com/gogpu/gpucontext"
)

func TestPressReleaseEdges(t *testing.T) {
	in := New[gpucontext.Key]()

	in.Press(gpucontext.KeyA)
	if !in.Pressed(gpucontext.KeyA) || !in.JustPressed(gpucontext.KeyA) {
		t.Fatal("KeyA not pressed after Press")
	}

	in.ClearEdges()
	in.Press(gpucontext.KeyA) // key repeat
	if in.JustPressed(gpucontext.KeyA) {
		t.Error("repeat press produced a new edge")
	}
	if !in.Pressed(gpucontext.KeyA) {
		t.Error("KeyA not held after ClearEdges")
	}

	in.Release(gpucontext.KeyA)
	if in.Pressed(gpucontext.KeyA) || !in.JustReleased(gpucontext.KeyA) {
		t.Error("release not recorded")
	}

	in.ClearEdges()
	in.Release(gpucontext.KeyA)
	if in.JustReleased(gpucontext.KeyA) {
		t.Error("release of a key that was up produced an edge")
	}
}

func TestAnyPressedAndReset(t *testing.T) {
	in := New[gpucontext.Key]()
	in.Press(gpucontext.KeyRightShift)
	if !in.AnyPressed(gpucontext.KeyLeftShift, gpucontext.KeyRightShift) {
		t.Error("AnyPressed missed right shift")
	}
	in.Reset()
	if in.AnyPressed(gpucontext.KeyLeftShift, gpucontext.KeyRightShift) || in.JustReleased(gpucontext.KeyRightShift) {
		t.Error("Reset left state behind")
	}
}
