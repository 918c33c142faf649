// Package megaui embeds an immediate-mode UI into a render graph.
//
// # Overview
//
// megaui connects three things: an [imgui.UI] that turns widget calls into
// triangles, an [app.App] that runs systems in stages every frame, and a
// [rendergraph.Graph] that records GPU passes. Adding a [Plugin] to an app
// is all it takes:
//
//	a := app.New()
//	window.Bind(a, provider, source)
//	dev, err := native.Open(native.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer dev.Close()
//	ui, err := basic.New(basic.Options{})
//	if err != nil {
//		return err
//	}
//	if err := a.AddPlugin(megaui.Plugin{UI: ui, Resources: dev}); err != nil {
//		return err
//	}
//	a.AddSystem(app.Update, "hello", func(w *app.World) error {
//		ui := app.MustGetLocal[megaui.Context](w)
//		ui.DrawWindow(imgui.Hash("hello"), imgui.Vec2{X: 10, Y: 10}, imgui.Vec2{X: 200, Y: 100}, nil,
//			func(ui imgui.UI) { ui.Label("Hello!") })
//		return nil
//	})
//	return a.Run(ctx)
//
// # Frame
//
// Each frame runs in this order:
//   - PreUpdate: [ProcessInput] forwards cursor, button, character and key
//     input of the primary window to the UI.
//   - Update: user systems describe windows through [Context].
//   - Render: the "megaui_transform" node refreshes the projection
//     uniform, then the "megaui_pass" node uploads textures and geometry and
//     draws on top of the main pass.
//
// # Coordinates
//
// The UI works in logical pixels with the origin at the top-left corner,
// divided by [Settings].ScaleFactor. Window input arrives with the origin at
// the bottom-left and is flipped on the way in. Clip rectangles are scaled
// back to physical pixels by the window's scale factor times the user scale.
//
// # Textures
//
// A draw list with no texture samples the font atlas; any other id is
// looked up in the Context's user texture registry. Use
// [Context.SetTexture] with a handle from the app's texture store; the GPU
// copy follows the asset as it is loaded, modified and removed.
//
// # Threading
//
// [Context] is bound to the thread that built the plugin. The app runs all
// stages on that thread.
package megaui
