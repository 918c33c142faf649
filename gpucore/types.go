package gpucore

import "github.com/gogpu/gputypes"

// Resource IDs
//
// These opaque IDs represent GPU resources. Each ResourceContext maintains
// a mapping between IDs and actual backend resources.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// TextureViewID is an opaque handle to a texture view.
type TextureViewID uint64

// SamplerID is an opaque handle to a sampler.
type SamplerID uint64

// ShaderModuleID is an opaque handle to a compiled shader module.
type ShaderModuleID uint64

// BindGroupLayoutID is an opaque handle to a bind group layout.
type BindGroupLayoutID uint64

// BindGroupID is an opaque handle to a bind group.
type BindGroupID uint64

// RenderPipelineID is an opaque handle to a render pipeline.
type RenderPipelineID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferDescriptor describes a buffer.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage gputypes.BufferUsage
}

// TextureDescriptor describes a texture.
type TextureDescriptor struct {
	Label         string
	Size          gputypes.Extent3D
	MipLevelCount uint32
	SampleCount   uint32
	Dimension     gputypes.TextureDimension
	Format        gputypes.TextureFormat
	Usage         gputypes.TextureUsage
}

// SamplerDescriptor describes a sampler.
type SamplerDescriptor struct {
	Label string
	gputypes.SamplerDescriptor
}

// ShaderSource holds a shader in the forms a backend may accept.
// Backends use SPIRV when present and fall back to WGSL.
type ShaderSource struct {
	WGSL  string
	SPIRV []uint32
}

// BindGroupEntry describes a single binding in a bind group.
// Exactly one of Buffer, TextureView or Sampler is set.
type BindGroupEntry struct {
	// Binding is the binding index.
	Binding uint32

	// Buffer is the buffer to bind (for buffer bindings).
	Buffer BufferID

	// Offset is the offset into the buffer.
	Offset uint64

	// Size is the size of the buffer range to bind.
	// Use 0 to bind the entire buffer from offset.
	Size uint64

	// TextureView is the view to bind (for texture bindings).
	TextureView TextureViewID

	// Sampler is the sampler to bind (for sampler bindings).
	Sampler SamplerID
}

// BufferEntry binds a whole buffer at binding.
func BufferEntry(binding uint32, id BufferID) BindGroupEntry {
	return BindGroupEntry{Binding: binding, Buffer: id}
}

// TextureViewEntry binds a texture view at binding.
func TextureViewEntry(binding uint32, id TextureViewID) BindGroupEntry {
	return BindGroupEntry{Binding: binding, TextureView: id}
}

// SamplerEntry binds a sampler at binding.
func SamplerEntry(binding uint32, id SamplerID) BindGroupEntry {
	return BindGroupEntry{Binding: binding, Sampler: id}
}

// BindGroupDescriptor describes a bind group.
type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayoutID
	Entries []BindGroupEntry
}

// BindGroupLayoutDescriptor describes a bind group layout.
type BindGroupLayoutDescriptor struct {
	Label   string
	Entries []gputypes.BindGroupLayoutEntry
}
