package megaui

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/megaui/app"
	"github.com/gogpu/megaui/asset"
	"github.com/gogpu/megaui/gpucore"
	"github.com/gogpu/megaui/imgui"
	"github.com/gogpu/megaui/rendergraph"
)

// Plugin wires a UI into an app: it uploads the font atlas, installs input
// forwarding and adds the transform and pass nodes to the render graph.
//
// Build must run on the app's thread; the Context it creates is bound to
// that thread.
type Plugin struct {
	// UI is the immediate-mode UI to drive. Required.
	UI imgui.UI

	// Resources installs a render graph on it when the app has none yet.
	// Ignored when a rendergraph.Renderer resource already exists.
	Resources gpucore.ResourceContext

	// Settings is inserted unless the app already has Settings. The zero
	// value means DefaultSettings.
	Settings Settings
}

// Build implements app.Plugin.
func (p Plugin) Build(a *app.App) error {
	if p.UI == nil {
		return ErrMissingUI
	}
	renderer, ok := app.Get[rendergraph.Renderer](a.World)
	if !ok {
		if p.Resources == nil {
			return ErrMissingRenderer
		}
		var err error
		if renderer, err = rendergraph.Install(a, p.Resources); err != nil {
			return fmt.Errorf("megaui: install renderer: %w", err)
		}
	}

	store := app.AddAssets[*asset.Texture](a)
	atlas := p.UI.FontAtlas()
	tex, err := asset.NewTexture(atlas.Width, atlas.Height, atlas.Pixels, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return fmt.Errorf("megaui: font atlas: %w", err)
	}
	font := store.Add(tex)

	settings := p.Settings
	if settings.ScaleFactor == 0 {
		settings = DefaultSettings()
	}
	app.InsertDefault(a.World, &settings)
	app.InsertDefault(a.World, &WindowSize{})
	app.InsertLocal(a.World, NewContext(p.UI, store, font))
	a.AddSystem(app.PreUpdate, "megaui_input", ProcessInput)

	samples := rendergraph.DefaultMsaa().Samples
	if msaa, ok := app.Get[rendergraph.Msaa](a.World); ok {
		samples = max(msaa.Samples, 1)
	}
	source, err := shaderSource()
	if err != nil {
		return fmt.Errorf("megaui: %w", err)
	}
	pl, err := newPipeline(renderer.Resources, shaderWGSL, source, samples, rendergraph.ColorFormat(a.World))
	if err != nil {
		return err
	}
	if err := addNodes(renderer.Graph, newNode(pl, samples > 1)); err != nil {
		pl.destroy(renderer.Resources)
		return err
	}
	Logger().Info("megaui: plugin built", "atlas_width", atlas.Width, "atlas_height", atlas.Height, "msaa_samples", samples)
	return nil
}

func addNodes(g *rendergraph.Graph, pass *Node) error {
	steps := []func() error{
		func() error { return g.AddNode(NodeTransform, NewTransformNode()) },
		func() error { return g.AddNode(NodePass, pass) },
		func() error { return g.AddNodeEdge(rendergraph.MainPass, NodePass) },
		func() error { return g.AddNodeEdge(NodeTransform, NodePass) },
		func() error {
			return g.AddSlotEdge(rendergraph.MainDepthTexture, rendergraph.SlotTexture, NodePass, SlotDepth)
		},
	}
	if pass.msaa {
		steps = append(steps,
			func() error {
				return g.AddSlotEdge(rendergraph.MainSampledColorAttachment, rendergraph.SlotTexture, NodePass, SlotColorAttachment)
			},
			func() error {
				return g.AddSlotEdge(rendergraph.PrimarySwapChain, rendergraph.SlotTexture, NodePass, SlotColorResolveTarget)
			},
		)
	} else {
		steps = append(steps, func() error {
			return g.AddSlotEdge(rendergraph.PrimarySwapChain, rendergraph.SlotTexture, NodePass, SlotColorAttachment)
		})
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("megaui: render graph: %w", err)
		}
	}
	return nil
}
