package rendergraph

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/megaui/app"
	"github.com/gogpu/megaui/gpucore"
	"github.com/gogpu/megaui/window"
)

// Renderer is the app resource holding the graph and the device it runs on.
type Renderer struct {
	Graph     *Graph
	Resources gpucore.ResourceContext
}

// Install inserts a Renderer with the base nodes wired for the current
// [Msaa] setting and adds a Render-stage system that runs the graph every
// frame. Msaa, ClearColor and SurfaceTarget resources are inserted with
// defaults when missing. Msaa and the surface format must be final before
// Install; later changes are ignored.
func Install(a *app.App, rc gpucore.ResourceContext) (*Renderer, error) {
	msaa := app.InsertDefault(a.World, ptr(DefaultMsaa()))
	app.InsertDefault(a.World, ptr(DefaultClearColor()))
	app.InsertDefault(a.World, ptr(DefaultSurfaceTarget()))
	format := ColorFormat(a.World)

	g := New()
	if err := addBaseNodes(g, msaa.Samples, format); err != nil {
		return nil, err
	}
	r := &Renderer{Graph: g, Resources: rc}
	app.Insert(a.World, r)

	a.AddSystem(app.Render, "render_graph", func(w *app.World) error {
		return g.Run(w, rc)
	})
	logger().Info("rendergraph: installed", "msaa_samples", msaa.Samples, "format", format)
	return r, nil
}

func addBaseNodes(g *Graph, samples uint32, format gputypes.TextureFormat) error {
	samples = max(samples, 1)
	msaa := samples > 1

	steps := []func() error{
		func() error { return g.AddNode(PrimarySwapChain, NewSwapChainNode(format)) },
		func() error {
			return g.AddNode(MainDepthTexture, NewWindowTextureNode(MainDepthTexture, DepthFormat, samples,
				gputypes.TextureUsageRenderAttachment))
		},
		func() error { return g.AddNode(MainPass, NewMainPassNode(msaa)) },
		func() error { return g.AddSlotEdge(MainDepthTexture, SlotTexture, MainPass, SlotDepth) },
	}
	if msaa {
		steps = append(steps,
			func() error {
				return g.AddNode(MainSampledColorAttachment, NewWindowTextureNode(MainSampledColorAttachment, format, samples,
					gputypes.TextureUsageRenderAttachment))
			},
			func() error {
				return g.AddSlotEdge(MainSampledColorAttachment, SlotTexture, MainPass, SlotColorAttachment)
			},
			func() error {
				return g.AddSlotEdge(PrimarySwapChain, SlotTexture, MainPass, SlotColorResolveTarget)
			},
		)
	} else {
		steps = append(steps, func() error {
			return g.AddSlotEdge(PrimarySwapChain, SlotTexture, MainPass, SlotColorAttachment)
		})
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("rendergraph: base nodes: %w", err)
		}
	}
	return nil
}

func getWindows(ctx *Context) (*window.Windows, bool) {
	if ctx.World == nil {
		return nil, false
	}
	return app.Get[window.Windows](ctx.World)
}

func getClearColor(ctx *Context) (*ClearColor, bool) {
	if ctx.World == nil {
		return nil, false
	}
	return app.Get[ClearColor](ctx.World)
}

func ptr[T any](v T) *T { return &v }
