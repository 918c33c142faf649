package gpucore

import "github.com/gogpu/gputypes"

// ResourceContext creates and destroys GPU resources and records passes.
//
// Resource lifecycle:
//   - Resources are created via Create* methods
//   - Resources must be explicitly destroyed via Destroy* methods
//   - Destroying an unknown or already destroyed ID is a no-op
//   - IDs become invalid after destruction and are never reused
type ResourceContext interface {
	CreateShaderModule(label string, src ShaderSource) (ShaderModuleID, error)
	DestroyShaderModule(id ShaderModuleID)

	CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (BindGroupLayoutID, error)
	DestroyBindGroupLayout(id BindGroupLayoutID)

	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipelineID, error)
	DestroyRenderPipeline(id RenderPipelineID)

	CreateBuffer(desc *BufferDescriptor) (BufferID, error)
	// CreateBufferWithData creates a buffer sized to data and uploads it.
	// CopyDst is added to usage.
	CreateBufferWithData(label string, usage gputypes.BufferUsage, data []byte) (BufferID, error)
	WriteBuffer(id BufferID, offset uint64, data []byte) error
	DestroyBuffer(id BufferID)

	CreateTexture(desc *TextureDescriptor) (TextureID, error)
	// CreateTextureView creates a default view covering the whole texture.
	CreateTextureView(id TextureID) (TextureViewID, error)
	// WriteTexture uploads tightly packed rows into mip level 0.
	WriteTexture(id TextureID, data []byte, bytesPerRow uint32, size gputypes.Extent3D) error
	DestroyTextureView(id TextureViewID)
	DestroyTexture(id TextureID)

	CreateSampler(desc *SamplerDescriptor) (SamplerID, error)
	DestroySampler(id SamplerID)

	CreateBindGroup(desc *BindGroupDescriptor) (BindGroupID, error)
	DestroyBindGroup(id BindGroupID)

	// BeginRenderPass records a render pass. record runs synchronously; the
	// pass is ended and submitted when it returns.
	BeginRenderPass(desc *RenderPassDescriptor, record func(RenderPass)) error
}

// RenderPass records draw commands inside a render pass.
type RenderPass interface {
	SetPipeline(id RenderPipelineID)
	SetBindGroup(index uint32, id BindGroupID)
	SetVertexBuffer(slot uint32, id BufferID, offset uint64)
	SetIndexBuffer(id BufferID, format gputypes.IndexFormat, offset uint64)
	SetScissorRect(x, y, width, height uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}
