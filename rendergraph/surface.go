package rendergraph

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/megaui/app"
	"github.com/gogpu/megaui/gpucore"
)

// SurfaceTarget points the primary swap chain at a view the host owns, such
// as the window surface view of the current frame.
//
// Format is read once by Install and by plugins building pipelines; it must
// be final before Install. View, Width and Height may change every frame.
// With View unset the swap chain renders into a texture of its own.
type SurfaceTarget struct {
	View          gpucore.TextureViewID
	Format        gputypes.TextureFormat
	Width, Height uint32
}

// DefaultSurfaceTarget returns a target with no view in SwapChainFormat.
func DefaultSurfaceTarget() SurfaceTarget {
	return SurfaceTarget{Format: SwapChainFormat}
}

// ColorFormat returns the format color attachments of the primary swap chain
// use in w.
func ColorFormat(w *app.World) gputypes.TextureFormat {
	if st, ok := app.Get[SurfaceTarget](w); ok && st.Format != gputypes.TextureFormatUndefined {
		return st.Format
	}
	return SwapChainFormat
}

// SwapChainNode outputs the primary swap chain view in slot "texture": the
// SurfaceTarget view when one is set, otherwise a window-sized texture it
// owns.
type SwapChainNode struct {
	*WindowTextureNode
}

// NewSwapChainNode returns the primary swap chain node.
func NewSwapChainNode(format gputypes.TextureFormat) *SwapChainNode {
	return &SwapChainNode{NewWindowTextureNode(PrimarySwapChain, format, 1,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc)}
}

// Update implements Node. Without a primary window it returns
// ErrNoPrimaryWindow even when a surface view is set.
func (n *SwapChainNode) Update(ctx *Context, in, out *SlotValues) error {
	if _, err := primaryWindow(ctx); err != nil {
		return err
	}
	st, ok := getSurfaceTarget(ctx)
	if !ok || st.View == gpucore.InvalidID {
		return n.WindowTextureNode.Update(ctx, in, out)
	}
	n.release(ctx.Resources)
	return out.Set(SlotTexture, TextureViewValue(st.View))
}

func getSurfaceTarget(ctx *Context) (*SurfaceTarget, bool) {
	if ctx.World == nil {
		return nil, false
	}
	return app.Get[SurfaceTarget](ctx.World)
}
