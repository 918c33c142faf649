package window

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/megaui/app"
	"github.com/gogpu/megaui/event"
	"github.com/gogpu/megaui/input"
)

// fakeSource captures the callbacks Bind registers so tests can fire them.
type fakeSource struct {
	keyPress   func(gpucontext.Key, gpucontext.Modifiers)
	keyRelease func(gpucontext.Key, gpucontext.Modifiers)
	text       func(string)
	move       func(x, y float64)
	press      func(gpucontext.MouseButton, float64, float64)
	release    func(gpucontext.MouseButton, float64, float64)
	resize     func(int, int)
	focus      func(bool)
	imeEnd     func(string)
}

func (f *fakeSource) OnKeyPress(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	f.keyPress = fn
}

func (f *fakeSource) OnKeyRelease(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	f.keyRelease = fn
}

func (f *fakeSource) OnTextInput(fn func(string)) { f.text = fn }

func (f *fakeSource) OnMouseMove(fn func(x, y float64)) { f.move = fn }

func (f *fakeSource) OnMousePress(fn func(gpucontext.MouseButton, float64, float64)) {
	f.press = fn
}

func (f *fakeSource) OnMouseRelease(fn func(gpucontext.MouseButton, float64, float64)) {
	f.release = fn
}

func (f *fakeSource) OnScroll(func(dx, dy float64)) {}

func (f *fakeSource) OnResize(fn func(int, int)) { f.resize = fn }

func (f *fakeSource) OnFocus(fn func(bool)) { f.focus = fn }

func (f *fakeSource) OnIMECompositionStart(func()) {}

func (f *fakeSource) OnIMECompositionUpdate(func(gpucontext.IMEState)) {}

func (f *fakeSource) OnIMECompositionEnd(fn func(string)) { f.imeEnd = fn }

var _ gpucontext.EventSource = (*fakeSource)(nil)

func TestWindowMetrics(t *testing.T) {
	w := New(3, 1600, 1200, 2)
	if w.Width() != 800 || w.Height() != 600 {
		t.Fatalf("logical size = %vx%v, want 800x600", w.Width(), w.Height())
	}
	if New(0, 10, 10, 0).ScaleFactor() != 1 {
		t.Fatal("zero scale factor not defaulted to 1")
	}
}

func TestWindowsPrimary(t *testing.T) {
	ws := NewWindows()
	if _, ok := ws.Primary(); ok {
		t.Fatal("empty set has a primary window")
	}
	ws.Add(New(5, 1, 1, 1))
	ws.Add(New(6, 1, 1, 1))
	p, ok := ws.Primary()
	if !ok || p.ID() != 5 {
		t.Fatalf("Primary = %v, %v; want window 5", p, ok)
	}
	if !ws.IsPrimary(5) || ws.IsPrimary(6) {
		t.Fatal("IsPrimary disagrees with Primary")
	}
	ws.Remove(5)
	if _, ok := ws.Primary(); ok {
		t.Fatal("primary survived removal")
	}
}

func TestBindTranslatesEvents(t *testing.T) {
	a := app.New()
	src := &fakeSource{}
	w := Bind(a, gpucontext.NullWindowProvider{W: 400, H: 300, SF: 2}, src)

	if w.PhysicalWidth() != 800 || w.PhysicalHeight() != 600 {
		t.Fatalf("physical size = %dx%d, want 800x600", w.PhysicalWidth(), w.PhysicalHeight())
	}
	windows := app.MustGet[Windows](a.World)
	if p, ok := windows.Primary(); !ok || p != w {
		t.Fatal("bound window is not primary")
	}

	src.move(10, 50)
	src.press(gpucontext.MouseButtonLeft, 10, 50)
	src.keyPress(gpucontext.KeyLeftShift, gpucontext.ModShift)
	src.text("hé")
	if err := a.Step(0); err != nil {
		t.Fatal(err)
	}

	var cr event.Reader[CursorMoved]
	latest, ok := cr.Latest(app.MustGet[event.Events[CursorMoved]](a.World))
	if !ok {
		t.Fatal("no cursor event")
	}
	if latest.X != 10 || latest.Y != 250 {
		t.Fatalf("cursor = (%v, %v), want (10, 250) bottom-left", latest.X, latest.Y)
	}

	buttons := app.MustGet[input.Input[gpucontext.MouseButton]](a.World)
	if !buttons.JustPressed(gpucontext.MouseButtonLeft) {
		t.Fatal("left button not just pressed")
	}
	keys := app.MustGet[input.Input[gpucontext.Key]](a.World)
	if !keys.Pressed(gpucontext.KeyLeftShift) {
		t.Fatal("shift not held")
	}

	var chr event.Reader[ReceivedCharacter]
	got := chr.Read(app.MustGet[event.Events[ReceivedCharacter]](a.World))
	if len(got) != 2 || got[0].Char != 'h' || got[1].Char != 'é' {
		t.Fatalf("chars = %v, want h, é", got)
	}

	// Next frame: edges cleared, held state kept.
	if err := a.Step(0); err != nil {
		t.Fatal(err)
	}
	if buttons.JustPressed(gpucontext.MouseButtonLeft) || !buttons.Pressed(gpucontext.MouseButtonLeft) {
		t.Fatal("edge not cleared or held state lost")
	}

	src.focus(false)
	if err := a.Step(0); err != nil {
		t.Fatal(err)
	}
	if keys.Pressed(gpucontext.KeyLeftShift) || buttons.Pressed(gpucontext.MouseButtonLeft) {
		t.Fatal("focus loss did not release input")
	}
}

func TestBindResize(t *testing.T) {
	a := app.New()
	src := &fakeSource{}
	w := Bind(a, gpucontext.NullWindowProvider{W: 100, H: 100, SF: 1.5}, src)

	src.resize(200, 50)
	if err := a.Step(0); err != nil {
		t.Fatal(err)
	}
	if w.PhysicalWidth() != 300 || w.PhysicalHeight() != 75 {
		t.Fatalf("physical = %dx%d, want 300x75", w.PhysicalWidth(), w.PhysicalHeight())
	}
	var r event.Reader[WindowResized]
	ev := r.Read(app.MustGet[event.Events[WindowResized]](a.World))
	if len(ev) != 1 || ev[0].Width != 200 || ev[0].Height != 50 {
		t.Fatalf("resize events = %v", ev)
	}
}

func TestBindIMECommit(t *testing.T) {
	a := app.New()
	src := &fakeSource{}
	Bind(a, gpucontext.NullWindowProvider{W: 10, H: 10}, src)

	src.imeEnd("日本")
	src.imeEnd("")
	if err := a.Step(0); err != nil {
		t.Fatal(err)
	}
	var r event.Reader[ReceivedCharacter]
	if got := r.Read(app.MustGet[event.Events[ReceivedCharacter]](a.World)); len(got) != 2 {
		t.Fatalf("IME chars = %v, want 2", got)
	}
}
