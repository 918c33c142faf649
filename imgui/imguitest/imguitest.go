// Package imguitest provides a scripted imgui.UI for tests.
package imguitest

import (
	"bytes"

	"github.com/gogpu/megaui/imgui"
)

// Method names recorded by UI.
const (
	MouseMove = "MouseMove"
	MouseDown = "MouseDown"
	MouseUp   = "MouseUp"
	CharEvent = "CharEvent"
	KeyDown   = "KeyDown"
	Window    = "Window"
	Label     = "Label"
	Texture   = "Texture"
	Render    = "Render"
	NewFrame  = "NewFrame"
)

// Call is one recorded method call. Only the fields relevant to Method are
// set.
type Call struct {
	Method string

	Pos   imgui.Vec2
	Size  imgui.Vec2
	Rune  rune
	Key   imgui.KeyCode
	Shift bool
	Ctrl  bool

	ID      imgui.ID
	Options imgui.WindowOptions
	Text    string
	Texture uint32
	Delta   float64
}

// UI records every call and renders a fixed script of draw lists.
type UI struct {
	Calls []Call

	// Lists is what Render hands out every frame.
	Lists []imgui.DrawList

	// Atlas is returned by FontAtlas.
	Atlas imgui.FontAtlas

	// Frames counts NewFrame calls.
	Frames int
}

var _ imgui.UI = (*UI)(nil)

// New returns a UI with a 2x2 opaque white atlas and no draw lists.
func New() *UI {
	return &UI{
		Atlas: imgui.FontAtlas{Width: 2, Height: 2, Pixels: bytes.Repeat([]byte{0xff}, 2*2*4)},
	}
}

func (u *UI) MouseMove(pos imgui.Vec2) {
	u.Calls = append(u.Calls, Call{Method: MouseMove, Pos: pos})
}

func (u *UI) MouseDown(pos imgui.Vec2) {
	u.Calls = append(u.Calls, Call{Method: MouseDown, Pos: pos})
}

func (u *UI) MouseUp(pos imgui.Vec2) {
	u.Calls = append(u.Calls, Call{Method: MouseUp, Pos: pos})
}

func (u *UI) CharEvent(r rune, shift, ctrl bool) {
	u.Calls = append(u.Calls, Call{Method: CharEvent, Rune: r, Shift: shift, Ctrl: ctrl})
}

func (u *UI) KeyDown(key imgui.KeyCode, shift, ctrl bool) {
	u.Calls = append(u.Calls, Call{Method: KeyDown, Key: key, Shift: shift, Ctrl: ctrl})
}

func (u *UI) Window(id imgui.ID, pos, size imgui.Vec2, opts imgui.WindowOptions, body func(imgui.UI)) {
	u.Calls = append(u.Calls, Call{Method: Window, ID: id, Pos: pos, Size: size, Options: opts})
	if body != nil {
		body(u)
	}
}

func (u *UI) Label(text string) {
	u.Calls = append(u.Calls, Call{Method: Label, Text: text})
}

func (u *UI) Texture(id uint32, w, h float32) {
	u.Calls = append(u.Calls, Call{Method: Texture, Texture: id, Size: imgui.Vec2{X: w, Y: h}})
}

func (u *UI) Render(dst *[]imgui.DrawList) {
	u.Calls = append(u.Calls, Call{Method: Render})
	*dst = append((*dst)[:0], u.Lists...)
}

func (u *UI) NewFrame(deltaSeconds float64) {
	u.Frames++
	u.Calls = append(u.Calls, Call{Method: NewFrame, Delta: deltaSeconds})
}

func (u *UI) FontAtlas() imgui.FontAtlas { return u.Atlas }

// Filter returns the recorded calls of method in order.
func (u *UI) Filter(method string) []Call {
	var out []Call
	for _, c := range u.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets the recorded calls.
func (u *UI) Reset() {
	u.Calls = u.Calls[:0]
}

// Quad returns a draw list of one w x h rectangle at (x, y) with two
// triangles, sampling texture (nil for the font atlas) and clipped to clip.
func Quad(x, y, w, h float32, texture *uint32, clip *imgui.Rect) imgui.DrawList {
	white := [4]float32{1, 1, 1, 1}
	return imgui.DrawList{
		Vertices: []imgui.Vertex{
			{Pos: [3]float32{x, y, 0}, UV: [2]float32{0, 0}, Color: white},
			{Pos: [3]float32{x + w, y, 0}, UV: [2]float32{1, 0}, Color: white},
			{Pos: [3]float32{x + w, y + h, 0}, UV: [2]float32{1, 1}, Color: white},
			{Pos: [3]float32{x, y + h, 0}, UV: [2]float32{0, 1}, Color: white},
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
		Texture: texture,
		Clip:    clip,
	}
}
