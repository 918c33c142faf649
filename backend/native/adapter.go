// Package native implements gpucore.ResourceContext on top of the Pure Go
// gogpu/wgpu HAL.
package native

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/megaui/gpucore"
	"github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"
)

// halPipeline pairs a pipeline with the layout it owns.
type halPipeline struct {
	pipeline hal.RenderPipeline
	layout   hal.PipelineLayout
}

// grave is a resource destruction waiting for the GPU to finish the
// submission that last could have used it.
type grave struct {
	submission uint64
	destroy    func()
}

// HALAdapter implements gpucore.ResourceContext using gogpu/wgpu/hal directly.
//
// Destroyed resources are not released immediately: they are queued until
// the queue reports the last submission complete, so a buffer replaced every
// frame never aliases work still in flight.
//
// Thread Safety: HALAdapter is safe for concurrent use from multiple goroutines.
// All resource operations are protected by a mutex.
type HALAdapter struct {
	mu     sync.RWMutex
	device hal.Device
	queue  hal.Queue

	// release is set when the adapter opened the device itself.
	release func()

	// ID generation
	nextID atomic.Uint64

	// Resource tracking maps gpucore IDs to hal resources
	shaders    map[gpucore.ShaderModuleID]hal.ShaderModule
	layouts    map[gpucore.BindGroupLayoutID]hal.BindGroupLayout
	pipelines  map[gpucore.RenderPipelineID]halPipeline
	buffers    map[gpucore.BufferID]hal.Buffer
	textures   map[gpucore.TextureID]hal.Texture
	views      map[gpucore.TextureViewID]hal.TextureView
	samplers   map[gpucore.SamplerID]hal.Sampler
	bindGroups map[gpucore.BindGroupID]hal.BindGroup

	// imported views belong to the host and are never destroyed here.
	imported map[gpucore.TextureViewID]struct{}

	lastSubmission uint64
	graveyard      []grave
	closed         bool
}

var _ gpucore.ResourceContext = (*HALAdapter)(nil)

// NewHALAdapter creates a new HALAdapter wrapping the given device and queue.
// The caller keeps ownership of the device.
func NewHALAdapter(device hal.Device, queue hal.Queue) *HALAdapter {
	a := &HALAdapter{
		device:     device,
		queue:      queue,
		shaders:    make(map[gpucore.ShaderModuleID]hal.ShaderModule),
		layouts:    make(map[gpucore.BindGroupLayoutID]hal.BindGroupLayout),
		pipelines:  make(map[gpucore.RenderPipelineID]halPipeline),
		buffers:    make(map[gpucore.BufferID]hal.Buffer),
		textures:   make(map[gpucore.TextureID]hal.Texture),
		views:      make(map[gpucore.TextureViewID]hal.TextureView),
		samplers:   make(map[gpucore.SamplerID]hal.Sampler),
		bindGroups: make(map[gpucore.BindGroupID]hal.BindGroup),
		imported:   make(map[gpucore.TextureViewID]struct{}),
	}

	// Start ID generation at 1 (0 is invalid)
	a.nextID.Store(1)

	return a
}

// newID generates a unique resource ID.
func (a *HALAdapter) newID() uint64 {
	return a.nextID.Add(1) - 1
}

// bury schedules destroy after the current submission completes.
// Must be called with mu held.
func (a *HALAdapter) bury(destroy func()) {
	if a.lastSubmission == 0 || a.queue.PollCompleted() >= a.lastSubmission {
		destroy()
		return
	}
	a.graveyard = append(a.graveyard, grave{submission: a.lastSubmission, destroy: destroy})
}

// reclaim releases every queued resource whose submission has completed.
// Must be called with mu held.
func (a *HALAdapter) reclaim() {
	if len(a.graveyard) == 0 {
		return
	}
	done := a.queue.PollCompleted()
	kept := a.graveyard[:0]
	for _, g := range a.graveyard {
		if g.submission <= done {
			g.destroy()
		} else {
			kept = append(kept, g)
		}
	}
	clear(a.graveyard[len(kept):])
	a.graveyard = kept
}

// Pending returns the number of destructions waiting on the GPU.
func (a *HALAdapter) Pending() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.graveyard)
}

// Close waits for the GPU, releases every resource still tracked and, if
// the adapter opened the device, destroys it. Close is idempotent.
func (a *HALAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true

	err := a.device.WaitIdle()
	for _, g := range a.graveyard {
		g.destroy()
	}
	a.graveyard = nil

	// Dependents first: bind groups and pipelines before what they reference.
	for id, g := range a.bindGroups {
		a.device.DestroyBindGroup(g)
		delete(a.bindGroups, id)
	}
	for id, p := range a.pipelines {
		a.device.DestroyRenderPipeline(p.pipeline)
		a.device.DestroyPipelineLayout(p.layout)
		delete(a.pipelines, id)
	}
	for id, l := range a.layouts {
		a.device.DestroyBindGroupLayout(l)
		delete(a.layouts, id)
	}
	for id, s := range a.shaders {
		a.device.DestroyShaderModule(s)
		delete(a.shaders, id)
	}
	for id, v := range a.views {
		if _, ok := a.imported[id]; !ok {
			a.device.DestroyTextureView(v)
		}
		delete(a.views, id)
	}
	clear(a.imported)
	for id, t := range a.textures {
		a.device.DestroyTexture(t)
		delete(a.textures, id)
	}
	for id, s := range a.samplers {
		a.device.DestroySampler(s)
		delete(a.samplers, id)
	}
	for id, b := range a.buffers {
		a.device.DestroyBuffer(b)
		delete(a.buffers, id)
	}

	if a.release != nil {
		a.release()
		a.release = nil
	}
	if err != nil {
		return fmt.Errorf("native: wait idle: %w", err)
	}
	return nil
}

// === Shaders and pipelines ===

// CreateShaderModule creates a shader module. SPIR-V is preferred when the
// source carries both forms.
func (a *HALAdapter) CreateShaderModule(label string, src gpucore.ShaderSource) (gpucore.ShaderModuleID, error) {
	if len(src.SPIRV) == 0 && src.WGSL == "" {
		return gpucore.InvalidID, fmt.Errorf("native: shader %q: %w", label, ErrEmptyShader)
	}
	desc := &hal.ShaderModuleDescriptor{Label: label}
	if len(src.SPIRV) > 0 {
		desc.Source.SPIRV = src.SPIRV
	} else {
		desc.Source.WGSL = src.WGSL
	}

	module, err := a.device.CreateShaderModule(desc)
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create shader module %q: %w", label, err)
	}

	id := gpucore.ShaderModuleID(a.newID())
	a.mu.Lock()
	a.shaders[id] = module
	a.mu.Unlock()
	return id, nil
}

// DestroyShaderModule releases a shader module.
func (a *HALAdapter) DestroyShaderModule(id gpucore.ShaderModuleID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if m, ok := a.shaders[id]; ok {
		delete(a.shaders, id)
		a.bury(func() { a.device.DestroyShaderModule(m) })
	}
}

// CreateBindGroupLayout creates a bind group layout.
func (a *HALAdapter) CreateBindGroupLayout(desc *gpucore.BindGroupLayoutDescriptor) (gpucore.BindGroupLayoutID, error) {
	layout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: desc.Entries,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create bind group layout %q: %w", desc.Label, err)
	}

	id := gpucore.BindGroupLayoutID(a.newID())
	a.mu.Lock()
	a.layouts[id] = layout
	a.mu.Unlock()
	return id, nil
}

// DestroyBindGroupLayout releases a bind group layout.
func (a *HALAdapter) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if l, ok := a.layouts[id]; ok {
		delete(a.layouts, id)
		a.bury(func() { a.device.DestroyBindGroupLayout(l) })
	}
}

// CreateRenderPipeline creates a pipeline layout from the descriptor's bind
// group layouts and a render pipeline using it.
func (a *HALAdapter) CreateRenderPipeline(desc *gpucore.RenderPipelineDescriptor) (gpucore.RenderPipelineID, error) {
	a.mu.RLock()
	module, ok := a.shaders[desc.Shader]
	layouts := make([]hal.BindGroupLayout, len(desc.BindGroupLayouts))
	for i, lid := range desc.BindGroupLayouts {
		l, found := a.layouts[lid]
		if !found {
			a.mu.RUnlock()
			return gpucore.InvalidID, fmt.Errorf("native: pipeline %q: group %d: %w", desc.Label, i, ErrUnknownResource)
		}
		layouts[i] = l
	}
	a.mu.RUnlock()
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("native: pipeline %q: shader: %w", desc.Label, ErrUnknownResource)
	}

	pipelineLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create pipeline layout %q: %w", desc.Label, err)
	}

	sampleCount := desc.SampleCount
	if sampleCount == 0 {
		sampleCount = 1
	}
	halDesc := &hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: pipelineLayout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: desc.VertexEntry,
			Buffers:    desc.VertexBuffers,
		},
		Primitive: desc.Primitive,
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: desc.FragmentEntry,
			Targets:    desc.ColorTargets,
		},
	}
	if ds := desc.DepthStencil; ds != nil {
		keep := hal.StencilFaceState{
			Compare:     gputypes.CompareFunctionAlways,
			FailOp:      hal.StencilOperationKeep,
			DepthFailOp: hal.StencilOperationKeep,
			PassOp:      hal.StencilOperationKeep,
		}
		halDesc.DepthStencil = &hal.DepthStencilState{
			Format:            ds.Format,
			DepthWriteEnabled: ds.DepthWriteEnabled,
			DepthCompare:      ds.DepthCompare,
			StencilFront:      keep,
			StencilBack:       keep,
		}
	}

	pipeline, err := a.device.CreateRenderPipeline(halDesc)
	if err != nil {
		a.device.DestroyPipelineLayout(pipelineLayout)
		return gpucore.InvalidID, fmt.Errorf("native: create render pipeline %q: %w", desc.Label, err)
	}

	id := gpucore.RenderPipelineID(a.newID())
	a.mu.Lock()
	a.pipelines[id] = halPipeline{pipeline: pipeline, layout: pipelineLayout}
	a.mu.Unlock()
	logger().Debug("native: render pipeline created", "label", desc.Label, "samples", sampleCount)
	return id, nil
}

// DestroyRenderPipeline releases a pipeline and its layout.
func (a *HALAdapter) DestroyRenderPipeline(id gpucore.RenderPipelineID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p, ok := a.pipelines[id]; ok {
		delete(a.pipelines, id)
		a.bury(func() {
			a.device.DestroyRenderPipeline(p.pipeline)
			a.device.DestroyPipelineLayout(p.layout)
		})
	}
}

// === Buffers ===

// CreateBuffer creates a GPU buffer.
func (a *HALAdapter) CreateBuffer(desc *gpucore.BufferDescriptor) (gpucore.BufferID, error) {
	buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: desc.Usage,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create buffer %q (%d bytes): %w", desc.Label, desc.Size, err)
	}

	id := gpucore.BufferID(a.newID())
	a.mu.Lock()
	a.buffers[id] = buf
	a.mu.Unlock()
	return id, nil
}

// CreateBufferWithData creates a buffer sized to data and uploads it.
func (a *HALAdapter) CreateBufferWithData(label string, usage gputypes.BufferUsage, data []byte) (gpucore.BufferID, error) {
	id, err := a.CreateBuffer(&gpucore.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return gpucore.InvalidID, err
	}
	if len(data) == 0 {
		return id, nil
	}
	if err := a.WriteBuffer(id, 0, data); err != nil {
		a.DestroyBuffer(id)
		return gpucore.InvalidID, err
	}
	return id, nil
}

// WriteBuffer writes data to a buffer through the queue.
func (a *HALAdapter) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	a.mu.RLock()
	buf, ok := a.buffers[id]
	a.mu.RUnlock()
	if !ok {
		return fmt.Errorf("native: write buffer %d: %w", id, ErrUnknownResource)
	}
	if err := a.queue.WriteBuffer(buf, offset, data); err != nil {
		return fmt.Errorf("native: write buffer %d: %w", id, err)
	}
	return nil
}

// DestroyBuffer releases a GPU buffer.
func (a *HALAdapter) DestroyBuffer(id gpucore.BufferID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if b, ok := a.buffers[id]; ok {
		delete(a.buffers, id)
		a.bury(func() { a.device.DestroyBuffer(b) })
	}
}

// === Textures and samplers ===

// CreateTexture creates a GPU texture.
func (a *HALAdapter) CreateTexture(desc *gpucore.TextureDescriptor) (gpucore.TextureID, error) {
	mips, samples := desc.MipLevelCount, desc.SampleCount
	if mips == 0 {
		mips = 1
	}
	if samples == 0 {
		samples = 1
	}
	tex, err := a.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Size.Width,
			Height:             desc.Size.Height,
			DepthOrArrayLayers: max(desc.Size.DepthOrArrayLayers, 1),
		},
		MipLevelCount: mips,
		SampleCount:   samples,
		Dimension:     desc.Dimension,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create texture %q (%dx%d %s): %w",
			desc.Label, desc.Size.Width, desc.Size.Height, desc.Format, err)
	}

	id := gpucore.TextureID(a.newID())
	a.mu.Lock()
	a.textures[id] = tex
	a.mu.Unlock()
	return id, nil
}

// CreateTextureView creates a view covering the whole texture.
func (a *HALAdapter) CreateTextureView(texID gpucore.TextureID) (gpucore.TextureViewID, error) {
	a.mu.RLock()
	tex, ok := a.textures[texID]
	a.mu.RUnlock()
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("native: view of texture %d: %w", texID, ErrUnknownResource)
	}

	view, err := a.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create view of texture %d: %w", texID, err)
	}

	id := gpucore.TextureViewID(a.newID())
	a.mu.Lock()
	a.views[id] = view
	a.mu.Unlock()
	return id, nil
}

// WriteTexture uploads pixels into mip level 0.
func (a *HALAdapter) WriteTexture(id gpucore.TextureID, data []byte, bytesPerRow uint32, size gputypes.Extent3D) error {
	a.mu.RLock()
	tex, ok := a.textures[id]
	a.mu.RUnlock()
	if !ok {
		return fmt.Errorf("native: write texture %d: %w", id, ErrUnknownResource)
	}

	err := a.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, Aspect: gputypes.TextureAspectAll},
		data,
		&hal.ImageDataLayout{BytesPerRow: bytesPerRow, RowsPerImage: size.Height},
		&hal.Extent3D{Width: size.Width, Height: size.Height, DepthOrArrayLayers: max(size.DepthOrArrayLayers, 1)},
	)
	if err != nil {
		return fmt.Errorf("native: write texture %d: %w", id, err)
	}
	return nil
}

// halTextureView is implemented by *wgpu.TextureView.
type halTextureView interface {
	HalTextureView() hal.TextureView
}

// ImportTextureView registers a view owned by the host, such as the current
// window surface view, so passes can render into it. view is a
// hal.TextureView, a *wgpu.TextureView or a gpucontext.TextureView handle
// to one. DestroyTextureView forgets an imported view without destroying it.
func (a *HALAdapter) ImportTextureView(view any) (gpucore.TextureViewID, error) {
	if tv, ok := view.(gpucontext.TextureView); ok {
		if tv.IsNil() {
			return gpucore.InvalidID, fmt.Errorf("%w: nil handle", ErrNotTextureView)
		}
		view = (*wgpu.TextureView)(tv.Pointer())
	}
	if hv, ok := view.(halTextureView); ok {
		view = hv.HalTextureView()
	}
	v, ok := view.(hal.TextureView)
	if !ok || v == nil {
		return gpucore.InvalidID, fmt.Errorf("%w: %T", ErrNotTextureView, view)
	}
	id := gpucore.TextureViewID(a.newID())
	a.mu.Lock()
	a.views[id] = v
	a.imported[id] = struct{}{}
	a.mu.Unlock()
	return id, nil
}

// DestroyTextureView releases a texture view.
func (a *HALAdapter) DestroyTextureView(id gpucore.TextureViewID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.views[id]
	if !ok {
		return
	}
	delete(a.views, id)
	if _, host := a.imported[id]; host {
		delete(a.imported, id)
		return
	}
	a.bury(func() { a.device.DestroyTextureView(v) })
}

// DestroyTexture releases a texture.
func (a *HALAdapter) DestroyTexture(id gpucore.TextureID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if t, ok := a.textures[id]; ok {
		delete(a.textures, id)
		a.bury(func() { a.device.DestroyTexture(t) })
	}
}

// CreateSampler creates a sampler.
func (a *HALAdapter) CreateSampler(desc *gpucore.SamplerDescriptor) (gpucore.SamplerID, error) {
	s, err := a.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        desc.Label,
		AddressModeU: desc.AddressModeU,
		AddressModeV: desc.AddressModeV,
		AddressModeW: desc.AddressModeW,
		MagFilter:    desc.MagFilter,
		MinFilter:    desc.MinFilter,
		MipmapFilter: mipmapFilter(desc.MipmapFilter),
		LodMinClamp:  desc.LodMinClamp,
		LodMaxClamp:  desc.LodMaxClamp,
		Compare:      desc.Compare,
		Anisotropy:   max(desc.MaxAnisotropy, 1),
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create sampler %q: %w", desc.Label, err)
	}

	id := gpucore.SamplerID(a.newID())
	a.mu.Lock()
	a.samplers[id] = s
	a.mu.Unlock()
	return id, nil
}

// mipmapFilter maps the mipmap filter enum onto the filter enum the HAL
// sampler descriptor uses.
func mipmapFilter(m gputypes.MipmapFilterMode) gputypes.FilterMode {
	if m == gputypes.MipmapFilterModeLinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

// DestroySampler releases a sampler.
func (a *HALAdapter) DestroySampler(id gpucore.SamplerID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.samplers[id]; ok {
		delete(a.samplers, id)
		a.bury(func() { a.device.DestroySampler(s) })
	}
}

// === Bind groups ===

// CreateBindGroup creates a bind group.
func (a *HALAdapter) CreateBindGroup(desc *gpucore.BindGroupDescriptor) (gpucore.BindGroupID, error) {
	a.mu.RLock()
	layout, ok := a.layouts[desc.Layout]
	if !ok {
		a.mu.RUnlock()
		return gpucore.InvalidID, fmt.Errorf("native: bind group %q: layout: %w", desc.Label, ErrUnknownResource)
	}
	entries := make([]gputypes.BindGroupEntry, 0, len(desc.Entries))
	for _, e := range desc.Entries {
		converted, err := a.convertBindGroupEntry(e)
		if err != nil {
			a.mu.RUnlock()
			return gpucore.InvalidID, fmt.Errorf("native: bind group %q: %w", desc.Label, err)
		}
		entries = append(entries, converted)
	}
	a.mu.RUnlock()

	group, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create bind group %q: %w", desc.Label, err)
	}

	id := gpucore.BindGroupID(a.newID())
	a.mu.Lock()
	a.bindGroups[id] = group
	a.mu.Unlock()
	return id, nil
}

// convertBindGroupEntry converts gpucore.BindGroupEntry to gputypes.BindGroupEntry.
// Must be called with mu.RLock held.
func (a *HALAdapter) convertBindGroupEntry(entry gpucore.BindGroupEntry) (gputypes.BindGroupEntry, error) {
	result := gputypes.BindGroupEntry{Binding: entry.Binding}

	switch {
	case entry.Buffer != gpucore.InvalidID:
		buf, ok := a.buffers[entry.Buffer]
		if !ok {
			return result, fmt.Errorf("binding %d: buffer %d: %w", entry.Binding, entry.Buffer, ErrUnknownResource)
		}
		result.Resource = gputypes.BufferBinding{
			Buffer: buf.NativeHandle(),
			Offset: entry.Offset,
			Size:   entry.Size,
		}
	case entry.TextureView != gpucore.InvalidID:
		view, ok := a.views[entry.TextureView]
		if !ok {
			return result, fmt.Errorf("binding %d: view %d: %w", entry.Binding, entry.TextureView, ErrUnknownResource)
		}
		result.Resource = gputypes.TextureViewBinding{TextureView: view.NativeHandle()}
	case entry.Sampler != gpucore.InvalidID:
		s, ok := a.samplers[entry.Sampler]
		if !ok {
			return result, fmt.Errorf("binding %d: sampler %d: %w", entry.Binding, entry.Sampler, ErrUnknownResource)
		}
		result.Resource = gputypes.SamplerBinding{Sampler: s.NativeHandle()}
	default:
		return result, fmt.Errorf("binding %d: %w", entry.Binding, ErrEmptyBinding)
	}
	return result, nil
}

// DestroyBindGroup releases a bind group.
func (a *HALAdapter) DestroyBindGroup(id gpucore.BindGroupID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if g, ok := a.bindGroups[id]; ok {
		delete(a.bindGroups, id)
		a.bury(func() { a.device.DestroyBindGroup(g) })
	}
}

// === Render passes ===

// BeginRenderPass encodes one render pass, submits it and returns.
// Resources destroyed before the call are reclaimed first if the GPU has
// finished with them.
func (a *HALAdapter) BeginRenderPass(desc *gpucore.RenderPassDescriptor, record func(gpucore.RenderPass)) error {
	a.mu.Lock()
	a.reclaim()
	halDesc, err := a.convertRenderPass(desc)
	a.mu.Unlock()
	if err != nil {
		return err
	}

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: desc.Label})
	if err != nil {
		return fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(desc.Label); err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("native: begin encoding: %w", err)
	}

	pass := encoder.BeginRenderPass(halDesc)
	record(&halRenderPass{adapter: a, pass: pass})
	pass.End()

	cmd, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("native: end encoding: %w", err)
	}
	idx, err := a.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		a.device.FreeCommandBuffer(cmd)
		return fmt.Errorf("native: submit %q: %w", desc.Label, err)
	}

	a.mu.Lock()
	a.lastSubmission = idx
	a.bury(func() { a.device.FreeCommandBuffer(cmd) })
	a.mu.Unlock()
	return nil
}

// convertRenderPass resolves attachment IDs. Must be called with mu held.
func (a *HALAdapter) convertRenderPass(desc *gpucore.RenderPassDescriptor) (*hal.RenderPassDescriptor, error) {
	out := &hal.RenderPassDescriptor{Label: desc.Label}
	for i, c := range desc.ColorAttachments {
		view, ok := a.views[c.View]
		if !ok {
			return nil, fmt.Errorf("native: pass %q: color attachment %d: %w", desc.Label, i, ErrUnknownResource)
		}
		att := hal.RenderPassColorAttachment{
			View:       view,
			LoadOp:     c.LoadOp,
			StoreOp:    c.StoreOp,
			ClearValue: c.ClearValue,
		}
		if c.ResolveTarget != gpucore.InvalidID {
			resolve, ok := a.views[c.ResolveTarget]
			if !ok {
				return nil, fmt.Errorf("native: pass %q: resolve target %d: %w", desc.Label, i, ErrUnknownResource)
			}
			att.ResolveTarget = resolve
		}
		out.ColorAttachments = append(out.ColorAttachments, att)
	}
	if d := desc.Depth; d != nil {
		view, ok := a.views[d.View]
		if !ok {
			return nil, fmt.Errorf("native: pass %q: depth attachment: %w", desc.Label, ErrUnknownResource)
		}
		out.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:            view,
			DepthLoadOp:     d.LoadOp,
			DepthStoreOp:    d.StoreOp,
			DepthClearValue: d.ClearValue,
			StencilLoadOp:   gputypes.LoadOpLoad,
			StencilStoreOp:  gputypes.StoreOpStore,
			StencilReadOnly: true,
		}
	}
	return out, nil
}

// halRenderPass implements gpucore.RenderPass. Unknown IDs are logged and
// the command is dropped; a pass is never aborted halfway.
type halRenderPass struct {
	adapter *HALAdapter
	pass    hal.RenderPassEncoder
}

func (p *halRenderPass) SetPipeline(id gpucore.RenderPipelineID) {
	p.adapter.mu.RLock()
	pl, ok := p.adapter.pipelines[id]
	p.adapter.mu.RUnlock()
	if !ok {
		logger().Warn("native: SetPipeline: unknown pipeline", "id", id)
		return
	}
	p.pass.SetPipeline(pl.pipeline)
}

func (p *halRenderPass) SetBindGroup(index uint32, id gpucore.BindGroupID) {
	p.adapter.mu.RLock()
	g, ok := p.adapter.bindGroups[id]
	p.adapter.mu.RUnlock()
	if !ok {
		logger().Warn("native: SetBindGroup: unknown bind group", "index", index, "id", id)
		return
	}
	p.pass.SetBindGroup(index, g, nil)
}

func (p *halRenderPass) SetVertexBuffer(slot uint32, id gpucore.BufferID, offset uint64) {
	p.adapter.mu.RLock()
	b, ok := p.adapter.buffers[id]
	p.adapter.mu.RUnlock()
	if !ok {
		logger().Warn("native: SetVertexBuffer: unknown buffer", "slot", slot, "id", id)
		return
	}
	p.pass.SetVertexBuffer(slot, b, offset)
}

func (p *halRenderPass) SetIndexBuffer(id gpucore.BufferID, format gputypes.IndexFormat, offset uint64) {
	p.adapter.mu.RLock()
	b, ok := p.adapter.buffers[id]
	p.adapter.mu.RUnlock()
	if !ok {
		logger().Warn("native: SetIndexBuffer: unknown buffer", "id", id)
		return
	}
	p.pass.SetIndexBuffer(b, format, offset)
}

func (p *halRenderPass) SetScissorRect(x, y, width, height uint32) {
	p.pass.SetScissorRect(x, y, width, height)
}

func (p *halRenderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

// SetLogger sets the logger for the native backend.
func SetLogger(l *slog.Logger) {
	setLogger(l)
}
