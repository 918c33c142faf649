package megaui

import (
	"unicode"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/megaui/app"
	"github.com/gogpu/megaui/event"
	"github.com/gogpu/megaui/imgui"
	"github.com/gogpu/megaui/input"
	"github.com/gogpu/megaui/window"
)

// keyMap lists the keys forwarded to the UI while held.
var keyMap = [...]struct {
	from gpucontext.Key
	to   imgui.KeyCode
}{
	{gpucontext.KeyUp, imgui.KeyUp},
	{gpucontext.KeyDown, imgui.KeyDown},
	{gpucontext.KeyLeft, imgui.KeyLeft},
	{gpucontext.KeyRight, imgui.KeyRight},
	{gpucontext.KeyHome, imgui.KeyHome},
	{gpucontext.KeyEnd, imgui.KeyEnd},
	{gpucontext.KeyDelete, imgui.KeyDelete},
	{gpucontext.KeyBackspace, imgui.KeyBackspace},
	{gpucontext.KeyEnter, imgui.KeyEnter},
	{gpucontext.KeyTab, imgui.KeyTab},
	{gpucontext.KeyZ, imgui.KeyZ},
	{gpucontext.KeyY, imgui.KeyY},
	{gpucontext.KeyC, imgui.KeyC},
	{gpucontext.KeyX, imgui.KeyX},
	{gpucontext.KeyV, imgui.KeyV},
	{gpucontext.KeyA, imgui.KeyA},
}

// ProcessInput forwards this frame's window input to the UI. It runs in
// PreUpdate, before user systems describe the frame's widgets.
//
// Without a primary window the frame is skipped. Cursor positions arrive in
// logical pixels with the origin at the bottom-left and are converted to the
// UI's top-left space, divided by Settings.ScaleFactor.
func ProcessInput(w *app.World) error {
	ctx, ok := app.GetLocal[Context](w)
	if !ok {
		return ErrMissingContext
	}
	windows, ok := app.Get[window.Windows](w)
	if !ok {
		return nil
	}
	primary, ok := windows.Primary()
	if !ok {
		return nil
	}
	ctx.owner.Check()

	if size, ok := app.Get[WindowSize](w); ok {
		*size = WindowSize{
			PhysicalWidth:  float32(primary.PhysicalWidth()),
			PhysicalHeight: float32(primary.PhysicalHeight()),
			ScaleFactor:    float32(primary.ScaleFactor()),
		}
	}
	settings, _ := app.Get[Settings](w)
	scale := float32(settings.scale())
	ui := ctx.ui

	if ev, ok := app.Get[event.Events[window.CursorMoved]](w); ok {
		var (
			latest window.CursorMoved
			found  bool
		)
		for _, m := range ctx.cursor.Read(ev) {
			if m.ID == primary.ID() {
				latest, found = m, true
			}
		}
		if found {
			ctx.mousePos = imgui.Vec2{
				X: latest.X / scale,
				Y: primary.Height()/scale - latest.Y/scale,
			}
			ui.MouseMove(ctx.mousePos)
		}
	}

	if buttons, ok := app.Get[input.Input[gpucontext.MouseButton]](w); ok {
		forwardButton(ui, buttons, gpucontext.MouseButtonLeft, ctx.mousePos)
	}

	var shift, ctrl bool
	keys, hasKeys := app.Get[input.Input[gpucontext.Key]](w)
	if hasKeys {
		shift = keys.AnyPressed(gpucontext.KeyLeftShift, gpucontext.KeyRightShift)
		ctrl = keys.AnyPressed(gpucontext.KeyLeftControl, gpucontext.KeyRightControl)
	}

	if ev, ok := app.Get[event.Events[window.ReceivedCharacter]](w); ok {
		for _, c := range ctx.chars.Read(ev) {
			if c.ID != primary.ID() || unicode.IsControl(c.Char) {
				continue
			}
			ui.CharEvent(c.Char, shift, ctrl)
		}
	}

	if hasKeys {
		for _, k := range keyMap {
			if keys.Pressed(k.from) {
				ui.KeyDown(k.to, shift, ctrl)
			}
		}
	}

	// The size was taken from the window above; the events only need
	// consuming.
	if ev, ok := app.Get[event.Events[window.WindowResized]](w); ok {
		ctx.resized.Read(ev)
	}
	return nil
}

// forwardButton reports the frame's edges of b. When b went both up and down
// since the last frame, the held state decides which edge came last, so the
// UI ends the frame agreeing with it.
func forwardButton(ui imgui.UI, buttons *input.Input[gpucontext.MouseButton], b gpucontext.MouseButton, pos imgui.Vec2) {
	down, up := buttons.JustPressed(b), buttons.JustReleased(b)
	if down && up && buttons.Pressed(b) {
		ui.MouseUp(pos)
		ui.MouseDown(pos)
		return
	}
	if down {
		ui.MouseDown(pos)
	}
	if up {
		ui.MouseUp(pos)
	}
}
