// Package window exposes host windows to the app as resources and events.
//
// Positions in [CursorMoved] are logical pixels with the origin at the
// bottom-left corner of the window, Y up. Window sizes are stored in
// physical pixels together with the DPI scale factor.
package window

import "fmt"

// ID identifies a window.
type ID uint32

// PrimaryID is the id given to the first bound window.
const PrimaryID ID = 0

// Window holds the metrics of one host window.
type Window struct {
	id             ID
	physicalWidth  uint32
	physicalHeight uint32
	scaleFactor    float64
}

// New returns a window from its physical size and scale factor.
// A non-positive scale factor is treated as 1.
func New(id ID, physicalWidth, physicalHeight uint32, scaleFactor float64) *Window {
	if scaleFactor <= 0 {
		scaleFactor = 1
	}
	return &Window{id: id, physicalWidth: physicalWidth, physicalHeight: physicalHeight, scaleFactor: scaleFactor}
}

// ID returns the window id.
func (w *Window) ID() ID { return w.id }

// PhysicalWidth returns the width in physical pixels.
func (w *Window) PhysicalWidth() uint32 { return w.physicalWidth }

// PhysicalHeight returns the height in physical pixels.
func (w *Window) PhysicalHeight() uint32 { return w.physicalHeight }

// ScaleFactor returns the ratio of physical to logical pixels.
func (w *Window) ScaleFactor() float64 { return w.scaleFactor }

// Width returns the width in logical pixels.
func (w *Window) Width() float32 { return float32(float64(w.physicalWidth) / w.scaleFactor) }

// Height returns the height in logical pixels.
func (w *Window) Height() float32 { return float32(float64(w.physicalHeight) / w.scaleFactor) }

// SetPhysicalSize updates the physical size.
func (w *Window) SetPhysicalSize(width, height uint32) {
	w.physicalWidth, w.physicalHeight = width, height
}

// SetScaleFactor updates the DPI scale factor. Non-positive values are
// ignored.
func (w *Window) SetScaleFactor(sf float64) {
	if sf > 0 {
		w.scaleFactor = sf
	}
}

func (w *Window) String() string {
	return fmt.Sprintf("window %d (%dx%d @%.2fx)", w.id, w.physicalWidth, w.physicalHeight, w.scaleFactor)
}

// Windows is the resource listing every open window.
type Windows struct {
	windows    map[ID]*Window
	primary    ID
	hasPrimary bool
}

// NewWindows returns an empty window set.
func NewWindows() *Windows {
	return &Windows{windows: make(map[ID]*Window)}
}

// Add registers w. The first window added becomes the primary window.
func (ws *Windows) Add(w *Window) {
	ws.windows[w.id] = w
	if !ws.hasPrimary {
		ws.primary, ws.hasPrimary = w.id, true
	}
}

// Remove forgets the window with id. Removing the primary window leaves the
// set without a primary.
func (ws *Windows) Remove(id ID) {
	delete(ws.windows, id)
	if ws.hasPrimary && ws.primary == id {
		ws.hasPrimary = false
	}
}

// Get returns the window with id.
func (ws *Windows) Get(id ID) (*Window, bool) {
	w, ok := ws.windows[id]
	return w, ok
}

// Primary returns the primary window.
func (ws *Windows) Primary() (*Window, bool) {
	if !ws.hasPrimary {
		return nil, false
	}
	return ws.Get(ws.primary)
}

// IsPrimary reports whether id names the primary window.
func (ws *Windows) IsPrimary(id ID) bool {
	return ws.hasPrimary && ws.primary == id
}

// Len returns the number of windows.
func (ws *Windows) Len() int { return len(ws.windows) }

// CursorMoved reports a new cursor position in logical pixels, origin
// bottom-left.
type CursorMoved struct {
	ID   ID
	X, Y float32
}

// ReceivedCharacter reports one character of text input.
type ReceivedCharacter struct {
	ID   ID
	Char rune
}

// WindowResized reports a new window size in logical pixels.
type WindowResized struct {
	ID            ID
	Width, Height float32
}
