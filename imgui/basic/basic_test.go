package basic

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/megaui/imgui"
)

func newUI(t *testing.T) *UI {
	t.Helper()
	u, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return u
}

func render(u *UI) []imgui.DrawList {
	var lists []imgui.DrawList
	u.Render(&lists)
	return lists
}

var decorated = imgui.WindowOptions{Label: "Hello", Movable: true, CloseButton: true, Titlebar: true}

func TestFontAtlas(t *testing.T) {
	u := newUI(t)
	fa := u.FontAtlas()
	if fa.Width != defaultAtlasWidth || fa.Height == 0 || fa.Height > defaultAtlasWidth {
		t.Fatalf("atlas %dx%d", fa.Width, fa.Height)
	}
	if len(fa.Pixels) != int(fa.Width*fa.Height*4) {
		t.Fatalf("pixels = %d bytes, want %d", len(fa.Pixels), fa.Width*fa.Height*4)
	}

	a := u.atlas
	x, y := int(a.white[0]*float32(a.width)), int(a.white[1]*float32(a.height))
	if px := fa.Pixels[(y*a.width+x)*4:][:4]; !slices.Equal(px, []byte{0xff, 0xff, 0xff, 0xff}) {
		t.Fatalf("white texel = %v", px)
	}

	g, ok := a.glyphs['A']
	if !ok || g.bounds.Empty() || g.advance <= 0 {
		t.Fatalf("glyph A = %+v, %v", g, ok)
	}
	for _, v := range g.uv {
		if v < 0 || v > 1 {
			t.Fatalf("uv %v outside [0,1]", g.uv)
		}
	}
	if g.uv[2] <= g.uv[0] || g.uv[3] <= g.uv[1] {
		t.Fatalf("uv %v is empty", g.uv)
	}
	if sp := a.glyphs[' ']; !sp.bounds.Empty() || sp.advance <= 0 {
		t.Fatalf("space = %+v", sp)
	}
	if _, ok := a.glyphs['é']; !ok {
		t.Fatal("Latin-1 not rasterised")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(Options{Font: []byte("not a font")}); err == nil {
		t.Fatal("New accepted a bad font")
	}
	if _, err := New(Options{AtlasWidth: 16}); !errors.Is(err, ErrAtlasFull) {
		t.Fatalf("New with a tiny atlas = %v, want ErrAtlasFull", err)
	}
}

func TestWindowDrawLists(t *testing.T) {
	u := newUI(t)
	pos, size := imgui.Vec2{X: 10, Y: 20}, imgui.Vec2{X: 200, Y: 120}
	u.Window(imgui.Hash("w"), pos, size, decorated, func(ui imgui.UI) {
		ui.Label("one")
		ui.Texture(7, 32, 16)
		ui.Label("two")
	})

	lists := render(u)
	if len(lists) != 3 {
		t.Fatalf("lists = %d, want font, image, font", len(lists))
	}
	if lists[0].Texture != nil || lists[2].Texture != nil {
		t.Error("text lists sample a user texture")
	}
	if lists[1].Texture == nil || *lists[1].Texture != 7 {
		t.Fatalf("image list texture = %v", lists[1].Texture)
	}
	want := imgui.Rect{X: 10, Y: 20, W: 200, H: 120}
	for i, l := range lists {
		if l.Clip == nil || *l.Clip != want {
			t.Errorf("list %d clip = %v, want %v", i, l.Clip, want)
		}
		if len(l.Indices) == 0 || len(l.Indices)%6 != 0 || len(l.Vertices)%4 != 0 {
			t.Errorf("list %d has %d vertices, %d indices", i, len(l.Vertices), len(l.Indices))
		}
		for _, idx := range l.Indices {
			if int(idx) >= len(l.Vertices) {
				t.Fatalf("list %d index %d out of range", i, idx)
			}
		}
	}
	if got := lists[0].Vertices[0].Pos; got != [3]float32{10, 20, 0} {
		t.Errorf("background at %v, want the window corner", got)
	}
	img := lists[1].Vertices
	if w, h := img[2].Pos[0]-img[0].Pos[0], img[2].Pos[1]-img[0].Pos[1]; w != 32 || h != 16 {
		t.Errorf("image quad %vx%v, want 32x16", w, h)
	}
	if img[0].UV != [2]float32{0, 0} || img[2].UV != [2]float32{1, 1} {
		t.Errorf("image uv %v..%v", img[0].UV, img[2].UV)
	}
}

func TestWidgetsOutsideWindow(t *testing.T) {
	u := newUI(t)
	u.Label("lost")
	u.Texture(1, 10, 10)
	if lists := render(u); len(lists) != 0 {
		t.Fatalf("lists = %d, want none", len(lists))
	}
}

func TestLabelNormalises(t *testing.T) {
	composed, decomposed := newUI(t), newUI(t)
	w := func(u *UI, s string) []imgui.Vertex {
		u.Window(1, imgui.Vec2{}, imgui.Vec2{X: 100, Y: 100}, imgui.WindowOptions{}, func(ui imgui.UI) { ui.Label(s) })
		return render(u)[0].Vertices
	}
	a, b := w(composed, "\u00e9"), w(decomposed, "e\u0301")
	if !slices.Equal(a, b) {
		t.Fatalf("decomposed label drew %d vertices, composed %d", len(b), len(a))
	}
}

func TestWindowDrag(t *testing.T) {
	u := newUI(t)
	id := imgui.Hash("drag")
	frame := func(pos imgui.Vec2) []imgui.DrawList {
		u.Window(id, pos, imgui.Vec2{X: 200, Y: 100}, decorated, nil)
		lists := render(u)
		u.NewFrame(1.0 / 60)
		return lists
	}

	u.MouseMove(imgui.Vec2{X: 20, Y: 15})
	u.MouseDown(imgui.Vec2{X: 20, Y: 15})
	frame(imgui.Vec2{X: 10, Y: 10})

	u.MouseMove(imgui.Vec2{X: 70, Y: 65})
	lists := frame(imgui.Vec2{X: 10, Y: 10})
	if got := lists[0].Vertices[0].Pos; got != [3]float32{60, 60, 0} {
		t.Fatalf("window at %v after drag, want (60,60)", got)
	}
	if c := *lists[0].Clip; c.X != 60 || c.Y != 60 {
		t.Fatalf("clip %v did not follow the window", c)
	}

	u.MouseUp(imgui.Vec2{X: 70, Y: 65})
	u.MouseMove(imgui.Vec2{X: 300, Y: 300})
	if got := frame(imgui.Vec2{}); got[0].Vertices[0].Pos != [3]float32{60, 60, 0} {
		t.Fatalf("window moved after release: %v", got[0].Vertices[0].Pos)
	}
	if u.Elapsed() <= 0 {
		t.Error("Elapsed not accumulated")
	}
}

func TestWindowNotMovable(t *testing.T) {
	u := newUI(t)
	opts := decorated
	opts.Movable = false
	u.MouseDown(imgui.Vec2{X: 20, Y: 15})
	u.Window(2, imgui.Vec2{X: 10, Y: 10}, imgui.Vec2{X: 200, Y: 100}, opts, nil)
	u.NewFrame(0)
	u.MouseMove(imgui.Vec2{X: 90, Y: 90})
	u.Window(2, imgui.Vec2{X: 10, Y: 10}, imgui.Vec2{X: 200, Y: 100}, opts, nil)
	if got := render(u)[0].Vertices[0].Pos; got != [3]float32{10, 10, 0} {
		t.Fatalf("fixed window moved to %v", got)
	}
}

func TestWindowClose(t *testing.T) {
	u := newUI(t)
	id := imgui.Hash("close")
	titleH := u.atlas.lineHeight + 2*titlePad
	u.MouseDown(imgui.Vec2{X: 10 + 200 - titleH/2, Y: 10 + titleH/2})
	u.Window(id, imgui.Vec2{X: 10, Y: 10}, imgui.Vec2{X: 200, Y: 100}, decorated, func(imgui.UI) {
		t.Error("body ran in a closing window")
	})
	if !u.Closed(id) {
		t.Fatal("close button ignored")
	}
	if lists := render(u); len(lists) != 0 {
		t.Fatalf("closed window drew %d lists", len(lists))
	}

	u.NewFrame(0)
	u.Reopen(id)
	u.Window(id, imgui.Vec2{}, imgui.Vec2{X: 200, Y: 100}, decorated, nil)
	if len(render(u)) == 0 {
		t.Fatal("reopened window not drawn")
	}
}

func TestInputQueues(t *testing.T) {
	u := newUI(t)
	u.KeyDown(imgui.KeyEnter, false, true)
	u.CharEvent('q', true, false)

	if got := u.Keys(); len(got) != 1 || got[0] != (KeyEvent{Key: imgui.KeyEnter, Ctrl: true}) {
		t.Fatalf("Keys = %+v", got)
	}
	if got := u.Chars(); len(got) != 1 || got[0] != (CharInput{Char: 'q', Shift: true}) {
		t.Fatalf("Chars = %+v", got)
	}
	u.NewFrame(0)
	if len(u.Keys())+len(u.Chars()) != 0 {
		t.Fatal("queues survive NewFrame")
	}
}

func TestRenderReusesDestination(t *testing.T) {
	u := newUI(t)
	dst := make([]imgui.DrawList, 5, 8)
	u.Window(3, imgui.Vec2{}, imgui.Vec2{X: 50, Y: 50}, imgui.WindowOptions{}, nil)
	u.Render(&dst)
	if len(dst) != 1 || cap(dst) != 8 {
		t.Fatalf("dst len %d cap %d, want 1 and the original capacity", len(dst), cap(dst))
	}

	// Lists handed out survive the next frame.
	verts := dst[0].Vertices
	u.NewFrame(0)
	u.Window(3, imgui.Vec2{}, imgui.Vec2{X: 50, Y: 50}, imgui.WindowOptions{Titlebar: true, Label: "t"}, nil)
	if len(verts) != 4 || verts[0].Pos != [3]float32{0, 0, 0} {
		t.Fatalf("previous frame's vertices clobbered: %v", verts)
	}
}
