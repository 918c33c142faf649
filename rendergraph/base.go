package rendergraph

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/megaui/gpucore"
	"github.com/gogpu/megaui/window"
)

// Base node names.
const (
	MainPass                   = "main_pass"
	PrimarySwapChain           = "primary_swap_chain"
	MainDepthTexture           = "main_depth_texture"
	MainSampledColorAttachment = "main_sampled_color_attachment"
)

// Slot names used by the base nodes.
const (
	SlotTexture            = "texture"
	SlotColorAttachment    = "color_attachment"
	SlotColorResolveTarget = "color_resolve_target"
	SlotDepth              = "depth"
)

// Formats of the base attachments.
const (
	SwapChainFormat = gputypes.TextureFormatBGRA8UnormSrgb
	DepthFormat     = gputypes.TextureFormatDepth32Float
)

// ErrNoPrimaryWindow is returned by window-sized nodes when no primary
// window exists. It wraps ErrSkip, so the frame is skipped rather than
// failed.
var ErrNoPrimaryWindow = fmt.Errorf("%w: no primary window", ErrSkip)

// Msaa is the multisample configuration resource.
type Msaa struct {
	// Samples per pixel; 1 disables multisampling.
	Samples uint32
}

// DefaultMsaa returns Msaa with multisampling off.
func DefaultMsaa() Msaa { return Msaa{Samples: 1} }

// ClearColor is the color the main pass clears to.
type ClearColor gputypes.Color

// DefaultClearColor returns a neutral grey.
func DefaultClearColor() ClearColor {
	return ClearColor{R: 0.4, G: 0.4, B: 0.4, A: 1}
}

// WindowTextureNode owns a texture sized to the primary window and outputs
// a view of it in slot "texture". The texture is recreated whenever the
// window's physical size changes. While a [SurfaceTarget] view with a size
// is set, the texture follows the surface size instead, so attachments of
// one pass always agree.
type WindowTextureNode struct {
	label   string
	format  gputypes.TextureFormat
	samples uint32
	usage   gputypes.TextureUsage

	texture       gpucore.TextureID
	view          gpucore.TextureViewID
	width, height uint32
}

// NewWindowTextureNode returns a node producing a window-sized texture.
func NewWindowTextureNode(label string, format gputypes.TextureFormat, samples uint32, usage gputypes.TextureUsage) *WindowTextureNode {
	return &WindowTextureNode{label: label, format: format, samples: max(samples, 1), usage: usage}
}

// Input implements Node.
func (n *WindowTextureNode) Input() []SlotInfo { return nil }

// Output implements Node.
func (n *WindowTextureNode) Output() []SlotInfo {
	return []SlotInfo{{Name: SlotTexture, Type: SlotTextureView}}
}

// Update implements Node. Without a primary window it returns
// ErrNoPrimaryWindow and the frame is skipped.
func (n *WindowTextureNode) Update(ctx *Context, _, out *SlotValues) error {
	w, err := primaryWindow(ctx)
	if err != nil {
		return err
	}
	width, height := w.PhysicalWidth(), w.PhysicalHeight()
	if st, ok := getSurfaceTarget(ctx); ok && st.View != gpucore.InvalidID && st.Width > 0 && st.Height > 0 {
		width, height = st.Width, st.Height
	}
	width, height = max(width, 1), max(height, 1)
	if n.view == gpucore.InvalidID || width != n.width || height != n.height {
		n.release(ctx.Resources)
		if err := n.create(ctx.Resources, width, height); err != nil {
			return err
		}
	}
	return out.Set(SlotTexture, TextureViewValue(n.view))
}

func (n *WindowTextureNode) create(rc gpucore.ResourceContext, width, height uint32) error {
	tex, err := rc.CreateTexture(&gpucore.TextureDescriptor{
		Label:         n.label,
		Size:          gputypes.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   n.samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        n.format,
		Usage:         n.usage,
	})
	if err != nil {
		return fmt.Errorf("create %s: %w", n.label, err)
	}
	view, err := rc.CreateTextureView(tex)
	if err != nil {
		rc.DestroyTexture(tex)
		return fmt.Errorf("create %s view: %w", n.label, err)
	}
	n.texture, n.view, n.width, n.height = tex, view, width, height
	logger().Debug("rendergraph: window texture created", "label", n.label, "width", width, "height", height, "samples", n.samples)
	return nil
}

func (n *WindowTextureNode) release(rc gpucore.ResourceContext) {
	if n.view != gpucore.InvalidID {
		rc.DestroyTextureView(n.view)
		n.view = gpucore.InvalidID
	}
	if n.texture != gpucore.InvalidID {
		rc.DestroyTexture(n.texture)
		n.texture = gpucore.InvalidID
	}
}

// Texture returns the current texture, or InvalidID before the first run.
func (n *WindowTextureNode) Texture() gpucore.TextureID { return n.texture }

func primaryWindow(ctx *Context) (*window.Window, error) {
	ws, ok := getWindows(ctx)
	if !ok {
		return nil, ErrNoPrimaryWindow
	}
	w, ok := ws.Primary()
	if !ok {
		return nil, ErrNoPrimaryWindow
	}
	return w, nil
}

// MainPassNode clears the color and depth attachments. It is the pass that
// overlays such as the UI draw on top of.
type MainPassNode struct {
	msaa bool
}

// NewMainPassNode returns the main pass. With msaa the color attachment is
// multisampled and resolved into color_resolve_target.
func NewMainPassNode(msaa bool) *MainPassNode {
	return &MainPassNode{msaa: msaa}
}

// Input implements Node.
func (n *MainPassNode) Input() []SlotInfo {
	slots := []SlotInfo{
		{Name: SlotColorAttachment, Type: SlotTextureView},
		{Name: SlotDepth, Type: SlotTextureView},
	}
	if n.msaa {
		slots = append(slots, SlotInfo{Name: SlotColorResolveTarget, Type: SlotTextureView})
	}
	return slots
}

// Output implements Node.
func (n *MainPassNode) Output() []SlotInfo { return nil }

// Update implements Node.
func (n *MainPassNode) Update(ctx *Context, in, _ *SlotValues) error {
	color, err := in.TextureView(SlotColorAttachment)
	if err != nil {
		return err
	}
	depth, err := in.TextureView(SlotDepth)
	if err != nil {
		return err
	}
	clearColor := DefaultClearColor()
	if c, ok := getClearColor(ctx); ok {
		clearColor = *c
	}
	att := gpucore.ColorAttachment{
		View:       color,
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: gputypes.Color(clearColor),
	}
	if n.msaa {
		if att.ResolveTarget, err = in.TextureView(SlotColorResolveTarget); err != nil {
			return err
		}
	}
	return ctx.Resources.BeginRenderPass(&gpucore.RenderPassDescriptor{
		Label:            MainPass,
		ColorAttachments: []gpucore.ColorAttachment{att},
		Depth: &gpucore.DepthAttachment{
			View:       depth,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: 1,
		},
	}, func(gpucore.RenderPass) {})
}
