package megaui

import (
	"github.com/gogpu/megaui/asset"
	"github.com/gogpu/megaui/event"
	"github.com/gogpu/megaui/imgui"
	"github.com/gogpu/megaui/internal/affinity"
	"github.com/gogpu/megaui/window"
)

// Context is the per-app UI state: the IMGUI instance, the font atlas
// handle and the user texture registry.
//
// Context is bound to the OS thread that created it. Every method panics
// with affinity.ErrWrongThread when called from another thread; there is
// no locking. The check needs a kernel thread id and is off on platforms
// other than Linux, Windows, macOS, FreeBSD and NetBSD.
type Context struct {
	owner affinity.Owner

	ui          imgui.UI
	store       *asset.Assets[*asset.Texture]
	fontTexture asset.Handle
	textures    map[uint32]asset.Handle

	cursor   event.Reader[window.CursorMoved]
	chars    event.Reader[window.ReceivedCharacter]
	resized  event.Reader[window.WindowResized]
	mousePos imgui.Vec2

	// drawLists is the IMGUI's output buffer, lent to the render node for
	// the duration of a frame.
	drawLists []imgui.DrawList
}

// NewContext wraps ui. store is the texture store user handles live in;
// fontTexture is the strong handle of the atlas texture. The Context is
// bound to the calling thread.
func NewContext(ui imgui.UI, store *asset.Assets[*asset.Texture], fontTexture asset.Handle) *Context {
	return &Context{
		owner:       affinity.Pin(),
		ui:          ui,
		store:       store,
		fontTexture: fontTexture,
		textures:    make(map[uint32]asset.Handle),
	}
}

// UI returns the wrapped IMGUI for calls outside a window.
func (c *Context) UI() imgui.UI {
	c.owner.Check()
	return c.ui
}

// FontTexture returns the font atlas handle.
func (c *Context) FontTexture() asset.Handle {
	c.owner.Check()
	return c.fontTexture
}

// DrawWindow opens window id at pos with the given size for this frame and
// runs body inside it. A nil params uses DefaultWindowParams.
func (c *Context) DrawWindow(id imgui.ID, pos, size imgui.Vec2, params *WindowParams, body func(imgui.UI)) {
	c.owner.Check()
	p := DefaultWindowParams()
	if params != nil {
		p = *params
	}
	c.ui.Window(id, pos, size, p.options(), body)
}

// SetTexture makes h drawable as user texture id, replacing any previous
// entry. For a strong h the registry takes its own reference, released when
// the entry is replaced or removed, so the asset stays loaded while it is
// registered. A weak h leaves the asset's lifetime to the caller.
func (c *Context) SetTexture(id uint32, h asset.Handle) {
	c.owner.Check()
	if h.IsStrong() && c.store != nil {
		h = c.store.Clone(h)
	}
	old, replaced := c.textures[id]
	c.textures[id] = h
	if replaced {
		c.release(old)
	}
}

// RemoveTexture forgets user texture id. Removing an unknown id is a no-op.
func (c *Context) RemoveTexture(id uint32) {
	c.owner.Check()
	if old, ok := c.textures[id]; ok {
		delete(c.textures, id)
		c.release(old)
	}
}

// Texture returns the handle registered as user texture id.
func (c *Context) Texture(id uint32) (asset.Handle, bool) {
	c.owner.Check()
	h, ok := c.textures[id]
	return h, ok
}

// removeHandle drops every registry entry pointing at h.
func (c *Context) removeHandle(h asset.Handle) {
	c.owner.Check()
	for id, v := range c.textures {
		if v.Same(h) {
			delete(c.textures, id)
			c.release(v)
		}
	}
}

// registered reports whether h is a value of the registry.
func (c *Context) registered(h asset.Handle) bool {
	for _, v := range c.textures {
		if v.Same(h) {
			return true
		}
	}
	return false
}

func (c *Context) release(h asset.Handle) {
	if h.IsStrong() && c.store != nil {
		c.store.Release(h)
	}
}
