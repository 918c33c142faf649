package megaui

import (
	"errors"
	"runtime"
	"testing"

	"github.com/gogpu/megaui/asset"
	"github.com/gogpu/megaui/imgui"
	"github.com/gogpu/megaui/imgui/imguitest"
	"github.com/gogpu/megaui/internal/affinity"
)

func newTestContext(t *testing.T) (*Context, *asset.Assets[*asset.Texture], *imguitest.UI) {
	t.Helper()
	store := asset.New[*asset.Texture]()
	ui := imguitest.New()
	font := store.Add(&asset.Texture{})
	return NewContext(ui, store, font), store, ui
}

func TestContextTextureRegistry(t *testing.T) {
	c, store, _ := newTestContext(t)
	h := store.Add(&asset.Texture{})

	c.SetTexture(7, h)
	got, ok := c.Texture(7)
	if !ok || !got.Same(h) {
		t.Fatalf("Texture(7) = %v, %v, want %v", got, ok, h)
	}
	if n := store.RefCount(h); n != 2 {
		t.Fatalf("refcount after SetTexture = %d, want 2", n)
	}

	c.RemoveTexture(7)
	if _, ok := c.Texture(7); ok {
		t.Fatal("Texture(7) present after RemoveTexture")
	}
	c.RemoveTexture(7)
	if n := store.RefCount(h); n != 1 {
		t.Fatalf("refcount after RemoveTexture = %d, want 1", n)
	}
	if !store.Contains(h) {
		t.Fatal("registry released the caller's reference")
	}
}

func TestContextReplaceSameHandle(t *testing.T) {
	c, store, _ := newTestContext(t)
	h := store.Add(&asset.Texture{})

	c.SetTexture(1, h)
	c.SetTexture(1, h)
	store.Release(h)
	if !store.Contains(h) {
		t.Fatal("asset removed while still registered")
	}
	c.RemoveTexture(1)
	if store.Contains(h) {
		t.Fatal("asset kept after the last reference was released")
	}
}

func TestContextWeakHandle(t *testing.T) {
	c, store, _ := newTestContext(t)
	h := store.Add(&asset.Texture{})

	c.SetTexture(2, h.Weak())
	c.RemoveTexture(2)
	if n := store.RefCount(h); n != 1 {
		t.Fatalf("weak entry changed refcount to %d", n)
	}
}

func TestContextRemoveHandle(t *testing.T) {
	c, store, _ := newTestContext(t)
	h := store.Add(&asset.Texture{})
	other := store.Add(&asset.Texture{})

	c.SetTexture(1, h)
	c.SetTexture(2, h)
	c.SetTexture(3, other)
	c.removeHandle(h)

	for _, id := range []uint32{1, 2} {
		if _, ok := c.Texture(id); ok {
			t.Errorf("Texture(%d) survived removeHandle", id)
		}
	}
	if _, ok := c.Texture(3); !ok {
		t.Error("removeHandle dropped an unrelated entry")
	}
	if !c.registered(other) || c.registered(h) {
		t.Error("registered disagrees with the registry")
	}
}

func TestContextDrawWindow(t *testing.T) {
	c, _, ui := newTestContext(t)
	id := imgui.Hash("Hello")

	c.DrawWindow(id, imgui.Vec2{X: 1, Y: 2}, imgui.Vec2{X: 30, Y: 40}, nil, func(u imgui.UI) {
		u.Label("hi")
	})
	c.DrawWindow(id, imgui.Vec2{}, imgui.Vec2{}, &WindowParams{Label: "titled", CloseButton: true}, nil)

	windows := ui.Filter(imguitest.Window)
	if len(windows) != 2 {
		t.Fatalf("Window calls = %d, want 2", len(windows))
	}
	want := imgui.WindowOptions{Movable: true, Titlebar: true}
	if windows[0].Options != want || windows[0].ID != id || windows[0].Size != (imgui.Vec2{X: 30, Y: 40}) {
		t.Errorf("default window = %+v", windows[0])
	}
	if o := windows[1].Options; o.Label != "titled" || !o.CloseButton || o.Movable {
		t.Errorf("explicit params = %+v", o)
	}
	if labels := ui.Filter(imguitest.Label); len(labels) != 1 || labels[0].Text != "hi" {
		t.Errorf("body not run: %+v", labels)
	}
}

func TestContextWrongThread(t *testing.T) {
	c, _, _ := newTestContext(t)
	if !c.owner.IsBound() {
		t.Skip("no thread id source on this platform")
	}
	done := make(chan any)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer func() { done <- recover() }()
		c.RemoveTexture(1)
	}()
	r := <-done
	err, ok := r.(error)
	if !ok || !errors.Is(err, affinity.ErrWrongThread) {
		t.Fatalf("recovered %v, want ErrWrongThread", r)
	}
}
