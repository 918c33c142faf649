package megaui

import (
	"fmt"
	"maps"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/megaui/app"
	"github.com/gogpu/megaui/asset"
	"github.com/gogpu/megaui/event"
	"github.com/gogpu/megaui/gpucore"
	"github.com/gogpu/megaui/imgui"
	"github.com/gogpu/megaui/rendergraph"
)

// Node draws the UI on top of the main pass.
//
// Every frame it syncs GPU textures with the texture store, takes the UI's
// draw lists, uploads them into fresh vertex and index buffers and records
// one indexed draw per list. It owns every GPU resource it creates; texture
// resources live until their asset is removed or neither the font atlas nor
// the Context's registry refers to them any more.
//
// Failures while preparing a frame are logged at Warn and skip the frame's
// UI draw. The UI frame is closed either way.
type Node struct {
	pipeline *pipeline
	msaa     bool

	assetEvents event.Reader[asset.Event]
	textures    map[asset.HandleID]*textureResource
	pending     []asset.HandleID

	transformGroup gpucore.BindGroupID
	vertexBuffer   gpucore.BufferID
	indexBuffer    gpucore.BufferID

	vertexData []byte
	indexData  []byte
	commands   []drawCommand
}

// newNode returns a pass node drawing with p. msaa adds the
// color_resolve_target input.
func newNode(p *pipeline, msaa bool) *Node {
	return &Node{
		pipeline: p,
		msaa:     msaa,
		textures: make(map[asset.HandleID]*textureResource),
	}
}

// Input implements rendergraph.Node.
func (n *Node) Input() []rendergraph.SlotInfo {
	slots := []rendergraph.SlotInfo{
		{Name: SlotColorAttachment, Type: rendergraph.SlotTextureView},
		{Name: SlotDepth, Type: rendergraph.SlotTextureView},
	}
	if n.msaa {
		slots = append(slots, rendergraph.SlotInfo{Name: SlotColorResolveTarget, Type: rendergraph.SlotTextureView})
	}
	return slots
}

// Output implements rendergraph.Node.
func (n *Node) Output() []rendergraph.SlotInfo { return nil }

// Skip implements rendergraph.Skipper. A frame without attachments still
// ends the UI frame, dropping its geometry and input, and still applies
// texture store events so removed assets release their GPU resources.
func (n *Node) Skip(ctx *rendergraph.Context) {
	c, ok := app.GetLocal[Context](ctx.World)
	if !ok {
		return
	}
	c.owner.Check()
	if store, ok := app.Get[asset.Assets[*asset.Texture]](ctx.World); ok {
		n.reconcile(ctx.Resources, c, store)
	}
	c.ui.Render(&c.drawLists)
	c.ui.NewFrame(deltaSeconds(ctx.World))
}

// Update implements rendergraph.Node.
func (n *Node) Update(ctx *rendergraph.Context, in, _ *rendergraph.SlotValues) error {
	c, ok := app.GetLocal[Context](ctx.World)
	if !ok {
		return ErrMissingContext
	}
	c.owner.Check()

	c.ui.Render(&c.drawLists)
	lists := c.drawLists
	c.drawLists = nil
	defer func() {
		c.drawLists = lists
		c.ui.NewFrame(deltaSeconds(ctx.World))
	}()

	desc, err := n.passDescriptor(in)
	if err != nil {
		return err
	}
	rc := ctx.Resources
	store, _ := app.Get[asset.Assets[*asset.Texture]](ctx.World)

	transformErr := n.updateTransformGroup(rc, ctx.Bindings)
	if store != nil {
		n.reconcile(rc, c, store)
	}
	n.collect(rc, c)
	if store != nil {
		n.initialize(rc, c, store)
	}

	if transformErr != nil {
		Logger().Warn("megaui: frame skipped", "err", transformErr)
		return nil
	}
	n.assemble(c, lists)
	if err := n.swapBuffers(rc); err != nil {
		Logger().Warn("megaui: frame skipped", "err", err)
		return nil
	}

	var size WindowSize
	if s, ok := app.Get[WindowSize](ctx.World); ok {
		size = *s
	}
	if st, ok := app.Get[rendergraph.SurfaceTarget](ctx.World); ok && st.View != gpucore.InvalidID && st.Width > 0 && st.Height > 0 {
		size.PhysicalWidth, size.PhysicalHeight = float32(st.Width), float32(st.Height)
	}
	settings, _ := app.Get[Settings](ctx.World)
	scale := float32(settings.scale())
	if size.ScaleFactor > 0 {
		scale *= size.ScaleFactor
	}
	if err := rc.BeginRenderPass(desc, func(p gpucore.RenderPass) {
		n.record(p, size, scale)
	}); err != nil {
		Logger().Warn("megaui: render pass", "err", err)
	}
	return nil
}

// passDescriptor loads the color attachment and clears depth.
func (n *Node) passDescriptor(in *rendergraph.SlotValues) (*gpucore.RenderPassDescriptor, error) {
	color, err := in.TextureView(SlotColorAttachment)
	if err != nil {
		return nil, err
	}
	depth, err := in.TextureView(SlotDepth)
	if err != nil {
		return nil, err
	}
	att := gpucore.ColorAttachment{
		View:    color,
		LoadOp:  gputypes.LoadOpLoad,
		StoreOp: gputypes.StoreOpStore,
	}
	if n.msaa {
		if att.ResolveTarget, err = in.TextureView(SlotColorResolveTarget); err != nil {
			return nil, err
		}
	}
	return &gpucore.RenderPassDescriptor{
		Label:            NodePass,
		ColorAttachments: []gpucore.ColorAttachment{att},
		Depth: &gpucore.DepthAttachment{
			View:       depth,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: 1,
		},
	}, nil
}

// updateTransformGroup rebinds the published transform buffer. The bind
// group is recreated every frame since the buffer may have been replaced.
func (n *Node) updateTransformGroup(rc gpucore.ResourceContext, b *rendergraph.Bindings) error {
	if n.transformGroup != gpucore.InvalidID {
		rc.DestroyBindGroup(n.transformGroup)
		n.transformGroup = gpucore.InvalidID
	}
	buf, ok := b.Buffer(BindingTransform)
	if !ok {
		return fmt.Errorf("megaui: no buffer bound to %s", BindingTransform)
	}
	id, err := rc.CreateBindGroup(&gpucore.BindGroupDescriptor{
		Label:   "megaui_transform_bind_group",
		Layout:  n.pipeline.transformLayout,
		Entries: []gpucore.BindGroupEntry{gpucore.BufferEntry(transformSlotID, buf)},
	})
	if err != nil {
		return fmt.Errorf("megaui: transform bind group: %w", err)
	}
	n.transformGroup = id
	return nil
}

// record encodes the UI draws. Commands whose texture is not resident are
// skipped; their indices are still stepped over.
func (n *Node) record(p gpucore.RenderPass, size WindowSize, scale float32) {
	p.SetPipeline(n.pipeline.id)
	if n.vertexBuffer != gpucore.InvalidID {
		p.SetVertexBuffer(0, n.vertexBuffer, 0)
	}
	if n.indexBuffer != gpucore.InvalidID {
		p.SetIndexBuffer(n.indexBuffer, gputypes.IndexFormatUint16, 0)
	}
	p.SetBindGroup(n.pipeline.transformGroup, n.transformGroup)

	// Some drivers reject the first SetBindGroup of a layout that was never
	// bound in the pass, so every texture group is bound once up front.
	for _, id := range slices.Sorted(maps.Keys(n.textures)) {
		if bg := n.textures[id].bindGroup; bg != gpucore.InvalidID {
			p.SetBindGroup(n.pipeline.textureGroup, bg)
		}
	}

	width, height := uint32(size.PhysicalWidth), uint32(size.PhysicalHeight)
	var offset uint32
	for _, cmd := range n.commands {
		res, ok := n.textures[cmd.texture]
		if !cmd.resolved || !ok || res.bindGroup == gpucore.InvalidID || n.indexBuffer == gpucore.InvalidID {
			offset += cmd.indexCount
			continue
		}
		p.SetBindGroup(n.pipeline.textureGroup, res.bindGroup)
		x, y, w, h := scissor(cmd.clip, scale, width, height)
		p.SetScissorRect(x, y, w, h)
		p.DrawIndexed(cmd.indexCount, 1, offset, 0, 0)
		offset += cmd.indexCount
	}
}

// scissor converts a UI clip rectangle to physical pixels, clamped to the
// attachment. A nil clip covers the whole attachment.
func scissor(clip *imgui.Rect, scale float32, width, height uint32) (x, y, w, h uint32) {
	if clip == nil {
		return 0, 0, width, height
	}
	x = min(toPixels(clip.X*scale), width)
	y = min(toPixels(clip.Y*scale), height)
	w = min(toPixels(clip.W*scale), width-x)
	h = min(toPixels(clip.H*scale), height-y)
	return x, y, w, h
}

func toPixels(v float32) uint32 {
	if v <= 0 {
		return 0
	}
	return uint32(v)
}

func deltaSeconds(w *app.World) float64 {
	if t, ok := app.Get[app.Time](w); ok {
		return t.DeltaSeconds()
	}
	return 0
}

// Destroy releases every GPU resource the node owns, the pipeline included.
func (n *Node) Destroy(rc gpucore.ResourceContext) {
	for id := range n.textures {
		n.releaseTexture(rc, id)
	}
	if n.transformGroup != gpucore.InvalidID {
		rc.DestroyBindGroup(n.transformGroup)
		n.transformGroup = gpucore.InvalidID
	}
	n.releaseBuffers(rc)
	n.pipeline.destroy(rc)
}
