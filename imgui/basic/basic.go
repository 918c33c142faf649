// Package basic is a small immediate-mode UI implementing [imgui.UI].
//
// It draws decorated windows with text labels and user texture images,
// supports dragging movable windows by their title bar and closing them with
// the title bar button, and queues keyboard input for the caller. Text is
// rendered one code point at a time from a Go Regular (or caller supplied)
// font atlas; there is no shaping or layout beyond a vertical stack.
package basic

import (
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/megaui/imgui"
)

// Options configures a UI.
type Options struct {
	// FontSize is the glyph size in points at 72 DPI. Zero means 14.
	FontSize float64

	// Font is an OpenType or TrueType font. Nil means Go Regular.
	Font []byte

	// AtlasWidth is the font atlas width in texels. Zero means 256.
	AtlasWidth int
}

// Layout constants in logical pixels.
const (
	padding     = 6
	spacing     = 4
	titlePad    = 4
	maxVertices = 1<<16 - 1
)

var (
	colorWindow = [4]float32{0.12, 0.12, 0.12, 0.94}
	colorTitle  = [4]float32{0.16, 0.29, 0.48, 1}
	colorText   = [4]float32{1, 1, 1, 1}
	colorImage  = [4]float32{1, 1, 1, 1}
)

// KeyEvent is a queued [imgui.UI.KeyDown] call.
type KeyEvent struct {
	Key   imgui.KeyCode
	Shift bool
	Ctrl  bool
}

// CharInput is a queued [imgui.UI.CharEvent] call.
type CharInput struct {
	Char  rune
	Shift bool
	Ctrl  bool
}

type windowState struct {
	pos, size imgui.Vec2
	closed    bool
}

// UI is a basic immediate-mode UI. It is not safe for concurrent use.
type UI struct {
	atlas *fontAtlas

	mouse   imgui.Vec2
	down    bool
	pressed bool // went down this frame and not yet consumed

	dragging   imgui.ID
	dragOffset imgui.Vec2

	windows map[imgui.ID]*windowState
	keys    []KeyEvent
	chars   []CharInput
	elapsed float64

	lists []imgui.DrawList

	// Layout state of the window being built.
	current *windowState
	clip    imgui.Rect
	cursor  imgui.Vec2
}

var _ imgui.UI = (*UI)(nil)

// New rasterises the font atlas and returns an empty UI.
func New(opts Options) (*UI, error) {
	a, err := buildAtlas(opts.Font, opts.FontSize, opts.AtlasWidth)
	if err != nil {
		return nil, err
	}
	return &UI{atlas: a, windows: make(map[imgui.ID]*windowState)}, nil
}

// MouseMove implements imgui.UI.
func (u *UI) MouseMove(pos imgui.Vec2) {
	u.mouse = pos
	if st := u.windows[u.dragging]; st != nil && u.down {
		st.pos = imgui.Vec2{X: pos.X - u.dragOffset.X, Y: pos.Y - u.dragOffset.Y}
	}
}

// MouseDown implements imgui.UI.
func (u *UI) MouseDown(pos imgui.Vec2) {
	u.mouse = pos
	u.down = true
	u.pressed = true
}

// MouseUp implements imgui.UI.
func (u *UI) MouseUp(pos imgui.Vec2) {
	u.mouse = pos
	u.down = false
	u.dragging = 0
}

// CharEvent implements imgui.UI.
func (u *UI) CharEvent(r rune, shift, ctrl bool) {
	u.chars = append(u.chars, CharInput{Char: r, Shift: shift, Ctrl: ctrl})
}

// KeyDown implements imgui.UI.
func (u *UI) KeyDown(key imgui.KeyCode, shift, ctrl bool) {
	u.keys = append(u.keys, KeyEvent{Key: key, Shift: shift, Ctrl: ctrl})
}

// Keys returns the keys reported this frame.
func (u *UI) Keys() []KeyEvent { return u.keys }

// Chars returns the characters typed this frame.
func (u *UI) Chars() []CharInput { return u.chars }

// Elapsed returns the sum of all frame deltas in seconds.
func (u *UI) Elapsed() float64 { return u.elapsed }

// Closed reports whether the window id was closed with its close button.
func (u *UI) Closed(id imgui.ID) bool {
	st := u.windows[id]
	return st != nil && st.closed
}

// Reopen shows a closed window again at its last position.
func (u *UI) Reopen(id imgui.ID) {
	if st := u.windows[id]; st != nil {
		st.closed = false
	}
}

// Window draws a window and runs body inside it. pos and size are used the
// first time id is seen; afterwards the window keeps its own position, so a
// dragged window stays where it was dropped. Windows are drawn in call
// order and calls do not nest.
func (u *UI) Window(id imgui.ID, pos, size imgui.Vec2, opts imgui.WindowOptions, body func(imgui.UI)) {
	if u.current != nil {
		return
	}
	st := u.windows[id]
	if st == nil {
		st = &windowState{pos: pos, size: size}
		u.windows[id] = st
	}
	if st.closed {
		return
	}

	titleH := float32(0)
	if opts.Titlebar {
		titleH = u.atlas.lineHeight + 2*titlePad
	}
	title := imgui.Rect{X: st.pos.X, Y: st.pos.Y, W: st.size.X, H: titleH}
	closeBox := imgui.Rect{X: title.X + title.W - titleH, Y: title.Y, W: titleH, H: titleH}

	if u.pressed && title.Contains(u.mouse) {
		u.pressed = false
		switch {
		case opts.CloseButton && closeBox.Contains(u.mouse):
			st.closed = true
			return
		case opts.Movable:
			u.dragging = id
			u.dragOffset = imgui.Vec2{X: u.mouse.X - st.pos.X, Y: u.mouse.Y - st.pos.Y}
		}
	}

	u.current = st
	u.clip = imgui.Rect{X: st.pos.X, Y: st.pos.Y, W: st.size.X, H: st.size.Y}
	defer func() { u.current = nil }()

	u.fill(u.clip, colorWindow)
	if opts.Titlebar {
		u.fill(title, colorTitle)
		u.text(imgui.Vec2{X: title.X + titlePad, Y: title.Y + titlePad}, opts.Label)
		if opts.CloseButton {
			w := u.atlas.measure("x")
			u.text(imgui.Vec2{X: closeBox.X + (closeBox.W-w)/2, Y: closeBox.Y + titlePad}, "x")
		}
	}

	u.cursor = imgui.Vec2{X: st.pos.X + padding, Y: st.pos.Y + titleH + padding}
	if body != nil {
		body(u)
	}
}

// Label draws one line of text below the previous widget. It does nothing
// outside a window.
func (u *UI) Label(text string) {
	if u.current == nil {
		return
	}
	u.text(u.cursor, norm.NFC.String(text))
	u.cursor.Y += u.atlas.lineHeight + spacing
}

// Texture draws user texture id as a w x h image below the previous widget.
// It does nothing outside a window.
func (u *UI) Texture(id uint32, w, h float32) {
	if u.current == nil {
		return
	}
	clip := u.clip
	list := imgui.DrawList{Texture: imgui.TextureRef(id), Clip: &clip}
	quad(&list, imgui.Rect{X: u.cursor.X, Y: u.cursor.Y, W: w, H: h}, [4]float32{0, 0, 1, 1}, colorImage)
	u.lists = append(u.lists, list)
	u.cursor.Y += h + spacing
}

// Render implements imgui.UI.
func (u *UI) Render(dst *[]imgui.DrawList) {
	*dst = append((*dst)[:0], u.lists...)
}

// NewFrame drops this frame's geometry and input queues. Draw lists handed
// out by Render stay valid; the next frame allocates fresh ones.
func (u *UI) NewFrame(deltaSeconds float64) {
	u.elapsed += deltaSeconds
	clear(u.lists)
	u.lists = u.lists[:0]
	u.keys = u.keys[:0]
	u.chars = u.chars[:0]
	u.pressed = false
}

// FontAtlas implements imgui.UI.
func (u *UI) FontAtlas() imgui.FontAtlas { return u.atlas.export() }

// fontList returns the font list to append to, starting a new one when the
// last list samples another texture or clip, or is out of 16-bit indices.
func (u *UI) fontList(quads int) *imgui.DrawList {
	if n := len(u.lists); n > 0 {
		l := &u.lists[n-1]
		if l.Texture == nil && l.Clip != nil && *l.Clip == u.clip && len(l.Vertices)+4*quads <= maxVertices {
			return l
		}
	}
	clip := u.clip
	u.lists = append(u.lists, imgui.DrawList{Clip: &clip})
	return &u.lists[len(u.lists)-1]
}

func (u *UI) fill(r imgui.Rect, color [4]float32) {
	w := u.atlas.white
	quad(u.fontList(1), r, [4]float32{w[0], w[1], w[0], w[1]}, color)
}

// text draws s with its top-left corner at pos.
func (u *UI) text(pos imgui.Vec2, s string) {
	baseline := pos.Y + u.atlas.ascent
	x := pos.X
	for _, r := range s {
		g := u.atlas.lookup(r)
		if !g.bounds.Empty() {
			rect := imgui.Rect{
				X: x + float32(g.bounds.Min.X),
				Y: baseline + float32(g.bounds.Min.Y),
				W: float32(g.bounds.Dx()),
				H: float32(g.bounds.Dy()),
			}
			quad(u.fontList(1), rect, g.uv, colorText)
		}
		x += g.advance
	}
}

// quad appends two triangles covering r. uv holds u0, v0, u1, v1.
func quad(l *imgui.DrawList, r imgui.Rect, uv [4]float32, color [4]float32) {
	base := uint16(len(l.Vertices))
	l.Vertices = append(l.Vertices,
		imgui.Vertex{Pos: [3]float32{r.X, r.Y, 0}, UV: [2]float32{uv[0], uv[1]}, Color: color},
		imgui.Vertex{Pos: [3]float32{r.X + r.W, r.Y, 0}, UV: [2]float32{uv[2], uv[1]}, Color: color},
		imgui.Vertex{Pos: [3]float32{r.X + r.W, r.Y + r.H, 0}, UV: [2]float32{uv[2], uv[3]}, Color: color},
		imgui.Vertex{Pos: [3]float32{r.X, r.Y + r.H, 0}, UV: [2]float32{uv[0], uv[3]}, Color: color},
	)
	l.Indices = append(l.Indices, base, base+1, base+2, base, base+2, base+3)
}
