package gpucore

import "github.com/gogpu/gputypes"

// DepthStencilState describes depth testing for a render pipeline.
// Stencil is always disabled.
type DepthStencilState struct {
	Format            gputypes.TextureFormat
	DepthWriteEnabled bool
	DepthCompare      gputypes.CompareFunction
}

// RenderPipelineDescriptor describes a render pipeline.
type RenderPipelineDescriptor struct {
	Label string

	// BindGroupLayouts are the pipeline layout, indexed by group.
	BindGroupLayouts []BindGroupLayoutID

	Shader        ShaderModuleID
	VertexEntry   string
	FragmentEntry string
	VertexBuffers []gputypes.VertexBufferLayout
	Primitive     gputypes.PrimitiveState
	DepthStencil  *DepthStencilState
	SampleCount   uint32
	ColorTargets  []gputypes.ColorTargetState
}

// ColorAttachment is a color target of a render pass.
type ColorAttachment struct {
	View          TextureViewID
	ResolveTarget TextureViewID
	LoadOp        gputypes.LoadOp
	StoreOp       gputypes.StoreOp
	ClearValue    gputypes.Color
}

// DepthAttachment is the depth target of a render pass.
type DepthAttachment struct {
	View       TextureViewID
	LoadOp     gputypes.LoadOp
	StoreOp    gputypes.StoreOp
	ClearValue float32
}

// RenderPassDescriptor describes a render pass.
type RenderPassDescriptor struct {
	Label            string
	ColorAttachments []ColorAttachment
	Depth            *DepthAttachment
}
