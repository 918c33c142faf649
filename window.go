package megaui

import "github.com/gogpu/megaui/imgui"

// WindowParams configures the decoration of a window opened with
// Context.DrawWindow.
type WindowParams struct {
	Label       string
	Movable     bool
	CloseButton bool
	Titlebar    bool
}

// DefaultWindowParams returns a movable window with a title bar and no close
// button.
func DefaultWindowParams() WindowParams {
	return WindowParams{
		Movable:  true,
		Titlebar: true,
	}
}

func (p WindowParams) options() imgui.WindowOptions {
	return imgui.WindowOptions{
		Label:       p.Label,
		Movable:     p.Movable,
		CloseButton: p.CloseButton,
		Titlebar:    p.Titlebar,
	}
}

// WindowSize is the primary window's size, refreshed every frame.
type WindowSize struct {
	PhysicalWidth  float32
	PhysicalHeight float32
	ScaleFactor    float32
}

// Width returns the logical width.
func (s WindowSize) Width() float32 {
	if s.ScaleFactor == 0 {
		return s.PhysicalWidth
	}
	return s.PhysicalWidth / s.ScaleFactor
}

// Height returns the logical height.
func (s WindowSize) Height() float32 {
	if s.ScaleFactor == 0 {
		return s.PhysicalHeight
	}
	return s.PhysicalHeight / s.ScaleFactor
}

// Settings holds user configuration.
type Settings struct {
	// ScaleFactor scales the UI on top of the window's DPI scale. 2 draws
	// everything twice as large.
	ScaleFactor float64
}

// DefaultSettings returns Settings with no extra scaling.
func DefaultSettings() Settings {
	return Settings{ScaleFactor: 1}
}

func (s *Settings) scale() float64 {
	if s == nil || s.ScaleFactor <= 0 {
		return 1
	}
	return s.ScaleFactor
}
