// Package imgui defines the contract between megaui and an immediate-mode
// UI library.
//
// The library receives input through [UI], lets user code describe windows
// and widgets every frame, and hands back triangulated [DrawList]s plus a
// single font atlas bitmap. megaui never looks inside the library; it only
// consumes this contract.
package imgui

import "hash/fnv"

// Vec2 is a point or size in IMGUI space: logical pixels, origin at the
// top-left corner, Y pointing down.
type Vec2 struct {
	X, Y float32
}

// Rect is an axis-aligned rectangle in IMGUI space.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Intersect returns the overlap of r and o, with zero size when disjoint.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Vertex is one vertex of a draw list. The layout matches the pipeline's
// vertex buffer: position, texture coordinate, RGBA color.
type Vertex struct {
	Pos   [3]float32
	UV    [2]float32
	Color [4]float32
}

// DrawList is one homogeneous batch of triangles.
type DrawList struct {
	Vertices []Vertex
	Indices  []uint16

	// Texture selects a user texture by id. Nil means the font atlas.
	Texture *uint32

	// Clip is the scissor rectangle. Nil means the whole window.
	Clip *Rect
}

// TextureRef returns a texture selector for id.
func TextureRef(id uint32) *uint32 {
	return &id
}

// ID identifies a window across frames.
type ID uint64

// Hash derives an ID from a string with FNV-1a.
func Hash(s string) ID {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return ID(h.Sum64())
}

// KeyCode is a navigation, editing or clipboard key understood by the UI.
type KeyCode uint8

// Key codes forwarded every frame the key is held.
const (
	KeyUp KeyCode = iota + 1
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyDelete
	KeyBackspace
	KeyEnter
	KeyTab
	KeyZ
	KeyY
	KeyC
	KeyX
	KeyV
	KeyA
)

var keyNames = [...]string{
	KeyUp: "Up", KeyDown: "Down", KeyLeft: "Left", KeyRight: "Right",
	KeyHome: "Home", KeyEnd: "End", KeyDelete: "Delete", KeyBackspace: "Backspace",
	KeyEnter: "Enter", KeyTab: "Tab", KeyZ: "Z", KeyY: "Y", KeyC: "C", KeyX: "X",
	KeyV: "V", KeyA: "A",
}

func (k KeyCode) String() string {
	if int(k) < len(keyNames) && keyNames[k] != "" {
		return keyNames[k]
	}
	return "Unknown"
}

// WindowOptions configures a window's decoration.
type WindowOptions struct {
	Label       string
	Movable     bool
	CloseButton bool
	Titlebar    bool
}

// FontAtlas is the UI's glyph bitmap as tightly packed RGBA8 rows.
type FontAtlas struct {
	Width  uint32
	Height uint32
	Pixels []byte
}

// UI is an immediate-mode UI instance. Implementations are single-threaded.
type UI interface {
	// MouseMove reports the pointer position.
	MouseMove(pos Vec2)
	// MouseDown reports the primary button going down at pos.
	MouseDown(pos Vec2)
	// MouseUp reports the primary button going up at pos.
	MouseUp(pos Vec2)
	// CharEvent delivers one typed character.
	CharEvent(r rune, shift, ctrl bool)
	// KeyDown reports a held key. It is called every frame the key is down;
	// auto-repeat is the UI's business.
	KeyDown(key KeyCode, shift, ctrl bool)

	// Window opens a window for this frame and runs body inside it.
	Window(id ID, pos, size Vec2, opts WindowOptions, body func(UI))
	// Label draws a line of text.
	Label(text string)
	// Texture draws the user texture id at the given size.
	Texture(id uint32, w, h float32)

	// Render replaces *dst with this frame's draw lists, reusing its storage.
	Render(dst *[]DrawList)
	// NewFrame finishes the frame and resets per-frame state.
	NewFrame(deltaSeconds float64)
	// FontAtlas returns the glyph bitmap. It does not change after creation.
	FontAtlas() FontAtlas
}
