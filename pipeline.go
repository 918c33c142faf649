package megaui

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/megaui/gpucore"
	"github.com/gogpu/megaui/internal/shader"
	"github.com/gogpu/megaui/rendergraph"
)

const (
	vertexStride    = 36
	textureBinding  = 0
	samplerBinding  = 1
	transformSlotID = 0
)

// pipeline is the compiled UI pipeline and the bind group layouts it was
// built from.
type pipeline struct {
	shader          gpucore.ShaderModuleID
	transformLayout gpucore.BindGroupLayoutID
	textureLayout   gpucore.BindGroupLayoutID
	id              gpucore.RenderPipelineID

	// Reflected bind group indices.
	transformGroup uint32
	textureGroup   uint32
}

// reflectGroups finds the bind groups of the transform uniform and the UI
// texture in src.
func reflectGroups(src string) (transform, texture uint32, err error) {
	bindings, err := shader.Bindings(src)
	if err != nil {
		return 0, 0, err
	}
	t, ok := bindings[BindingTransform]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrMissingBinding, BindingTransform)
	}
	x, ok := bindings[BindingTexture]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrMissingBinding, BindingTexture)
	}
	if t.Group == x.Group || t.Group > 1 || x.Group > 1 {
		return 0, 0, fmt.Errorf("megaui: %s and %s must use groups 0 and 1, got %d and %d",
			BindingTransform, BindingTexture, t.Group, x.Group)
	}
	return t.Group, x.Group, nil
}

// newPipeline reflects src, compiles the shader and builds the pipeline for
// the given sample count and color target format.
func newPipeline(rc gpucore.ResourceContext, src string, source gpucore.ShaderSource, samples uint32, format gputypes.TextureFormat) (*pipeline, error) {
	transformGroup, textureGroup, err := reflectGroups(src)
	if err != nil {
		return nil, err
	}
	p := &pipeline{transformGroup: transformGroup, textureGroup: textureGroup}

	if p.shader, err = rc.CreateShaderModule("megaui_shader", source); err != nil {
		return nil, fmt.Errorf("megaui: shader module: %w", err)
	}
	if p.transformLayout, err = rc.CreateBindGroupLayout(&gpucore.BindGroupLayoutDescriptor{
		Label: "megaui_transform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{{
			Binding:    transformSlotID,
			Visibility: gputypes.ShaderStageVertex,
			Buffer: &gputypes.BufferBindingLayout{
				Type:           gputypes.BufferBindingTypeUniform,
				MinBindingSize: transformSize,
			},
		}},
	}); err != nil {
		p.destroy(rc)
		return nil, fmt.Errorf("megaui: transform layout: %w", err)
	}
	if p.textureLayout, err = rc.CreateBindGroupLayout(&gpucore.BindGroupLayoutDescriptor{
		Label: "megaui_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    textureBinding,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    samplerBinding,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	}); err != nil {
		p.destroy(rc)
		return nil, fmt.Errorf("megaui: texture layout: %w", err)
	}

	layouts := make([]gpucore.BindGroupLayoutID, 2)
	layouts[transformGroup] = p.transformLayout
	layouts[textureGroup] = p.textureLayout

	if p.id, err = rc.CreateRenderPipeline(pipelineDescriptor(p.shader, layouts, samples, format)); err != nil {
		p.destroy(rc)
		return nil, fmt.Errorf("megaui: render pipeline: %w", err)
	}
	Logger().Info("megaui: pipeline built", "samples", samples, "format", format,
		"transform_group", transformGroup, "texture_group", textureGroup)
	return p, nil
}

func pipelineDescriptor(module gpucore.ShaderModuleID, layouts []gpucore.BindGroupLayoutID, samples uint32, format gputypes.TextureFormat) *gpucore.RenderPipelineDescriptor {
	return &gpucore.RenderPipelineDescriptor{
		Label:            "megaui_pipeline",
		BindGroupLayouts: layouts,
		Shader:           module,
		VertexEntry:      "vs_main",
		FragmentEntry:    "fs_main",
		VertexBuffers: []gputypes.VertexBufferLayout{{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 20, ShaderLocation: 2},
			},
		}},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCW,
			CullMode:  gputypes.CullModeNone,
		},
		DepthStencil: &gpucore.DepthStencilState{
			Format:            rendergraph.DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      gputypes.CompareFunctionLessEqual,
		},
		SampleCount: max(samples, 1),
		ColorTargets: []gputypes.ColorTargetState{{
			Format: format,
			Blend: &gputypes.BlendState{
				Color: gputypes.BlendComponent{
					SrcFactor: gputypes.BlendFactorSrcAlpha,
					DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
					Operation: gputypes.BlendOperationAdd,
				},
				Alpha: gputypes.BlendComponent{
					SrcFactor: gputypes.BlendFactorOneMinusDstAlpha,
					DstFactor: gputypes.BlendFactorOne,
					Operation: gputypes.BlendOperationAdd,
				},
			},
			WriteMask: gputypes.ColorWriteMaskAll,
		}},
	}
}

func (p *pipeline) destroy(rc gpucore.ResourceContext) {
	if p.id != gpucore.InvalidID {
		rc.DestroyRenderPipeline(p.id)
		p.id = gpucore.InvalidID
	}
	if p.textureLayout != gpucore.InvalidID {
		rc.DestroyBindGroupLayout(p.textureLayout)
		p.textureLayout = gpucore.InvalidID
	}
	if p.transformLayout != gpucore.InvalidID {
		rc.DestroyBindGroupLayout(p.transformLayout)
		p.transformLayout = gpucore.InvalidID
	}
	if p.shader != gpucore.InvalidID {
		rc.DestroyShaderModule(p.shader)
		p.shader = gpucore.InvalidID
	}
}
