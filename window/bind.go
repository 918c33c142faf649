package window

import (
	"math"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/megaui/app"
	"github.com/gogpu/megaui/event"
	"github.com/gogpu/megaui/input"
)

type rawKind uint8

const (
	rawKeyPress rawKind = iota
	rawKeyRelease
	rawText
	rawMouseMove
	rawMousePress
	rawMouseRelease
	rawResize
	rawFocus
)

// raw is one host callback captured for the next frame.
type raw struct {
	kind    rawKind
	key     gpucontext.Key
	button  gpucontext.MouseButton
	x, y    float64
	text    string
	w, h    int
	focused bool
}

// inbox buffers host callbacks, which may arrive on any goroutine, until the
// app thread drains them at the start of a frame.
type inbox struct {
	mu      sync.Mutex
	pending []raw
}

func (b *inbox) push(r raw) {
	b.mu.Lock()
	b.pending = append(b.pending, r)
	b.mu.Unlock()
}

func (b *inbox) drain(dst []raw) []raw {
	b.mu.Lock()
	dst = append(dst[:0], b.pending...)
	clear(b.pending)
	b.pending = b.pending[:0]
	b.mu.Unlock()
	return dst
}

// Bind registers the host window behind provider as the next window in a and
// subscribes to its input through source. It inserts the [Windows] resource,
// the [CursorMoved], [ReceivedCharacter] and [WindowResized] event queues
// and the keyboard and mouse [input.Input] resources when missing, and adds
// a First-stage system that turns the captured callbacks into those
// resources once per frame.
func Bind(a *app.App, provider gpucontext.WindowProvider, source gpucontext.EventSource) *Window {
	windows := app.InsertDefault(a.World, NewWindows())
	cursor := app.AddEvent[CursorMoved](a)
	chars := app.AddEvent[ReceivedCharacter](a)
	resized := app.AddEvent[WindowResized](a)
	keys := app.InsertDefault(a.World, input.New[gpucontext.Key]())
	buttons := app.InsertDefault(a.World, input.New[gpucontext.MouseButton]())

	lw, lh := provider.Size()
	sf := provider.ScaleFactor()
	w := New(ID(windows.Len()), physical(lw, sf), physical(lh, sf), sf)
	windows.Add(w)

	box := &inbox{}
	source.OnKeyPress(func(k gpucontext.Key, _ gpucontext.Modifiers) {
		box.push(raw{kind: rawKeyPress, key: k})
	})
	source.OnKeyRelease(func(k gpucontext.Key, _ gpucontext.Modifiers) {
		box.push(raw{kind: rawKeyRelease, key: k})
	})
	source.OnTextInput(func(text string) {
		box.push(raw{kind: rawText, text: text})
	})
	source.OnMouseMove(func(x, y float64) {
		box.push(raw{kind: rawMouseMove, x: x, y: y})
	})
	source.OnMousePress(func(b gpucontext.MouseButton, x, y float64) {
		box.push(raw{kind: rawMousePress, button: b, x: x, y: y})
	})
	source.OnMouseRelease(func(b gpucontext.MouseButton, x, y float64) {
		box.push(raw{kind: rawMouseRelease, button: b, x: x, y: y})
	})
	source.OnResize(func(width, height int) {
		box.push(raw{kind: rawResize, w: width, h: height})
	})
	source.OnFocus(func(focused bool) {
		box.push(raw{kind: rawFocus, focused: focused})
	})
	// Composed IME text arrives as one commit, like typed text.
	source.OnIMECompositionEnd(func(committed string) {
		if committed != "" {
			box.push(raw{kind: rawText, text: committed})
		}
	})

	var scratch []raw
	a.AddSystem(app.First, "window_events", func(*app.World) error {
		keys.ClearEdges()
		buttons.ClearEdges()
		if sf := provider.ScaleFactor(); sf != w.ScaleFactor() {
			w.SetScaleFactor(sf)
			lw, lh := provider.Size()
			w.SetPhysicalSize(physical(lw, sf), physical(lh, sf))
		}
		scratch = box.drain(scratch)
		for _, r := range scratch {
			apply(w, r, cursor, chars, resized, keys, buttons)
		}
		return nil
	})
	return w
}

func apply(
	w *Window,
	r raw,
	cursor *event.Events[CursorMoved],
	chars *event.Events[ReceivedCharacter],
	resized *event.Events[WindowResized],
	keys *input.Input[gpucontext.Key],
	buttons *input.Input[gpucontext.MouseButton],
) {
	switch r.kind {
	case rawKeyPress:
		keys.Press(r.key)
	case rawKeyRelease:
		keys.Release(r.key)
	case rawText:
		for _, c := range r.text {
			chars.Send(ReceivedCharacter{ID: w.id, Char: c})
		}
	case rawMouseMove, rawMousePress, rawMouseRelease:
		// Host coordinates are top-left origin; flip to bottom-left.
		cursor.Send(CursorMoved{ID: w.id, X: float32(r.x), Y: w.Height() - float32(r.y)})
		switch r.kind {
		case rawMousePress:
			buttons.Press(r.button)
		case rawMouseRelease:
			buttons.Release(r.button)
		}
	case rawResize:
		w.SetPhysicalSize(physical(r.w, w.scaleFactor), physical(r.h, w.scaleFactor))
		resized.Send(WindowResized{ID: w.id, Width: w.Width(), Height: w.Height()})
	case rawFocus:
		if !r.focused {
			keys.Reset()
			buttons.Reset()
		}
	}
}

func physical(logical int, sf float64) uint32 {
	if logical <= 0 {
		return 0
	}
	return uint32(math.Round(float64(logical) * sf))
}
