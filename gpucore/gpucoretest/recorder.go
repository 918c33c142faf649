// Package gpucoretest provides a recording gpucore.ResourceContext for
// tests that exercise render code without a GPU.
package gpucoretest

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/megaui/gpucore"
)

// Kind names a resource type tracked by the Recorder.
type Kind string

// Resource kinds.
const (
	KindShader     Kind = "shader"
	KindLayout     Kind = "bind_group_layout"
	KindPipeline   Kind = "pipeline"
	KindBuffer     Kind = "buffer"
	KindTexture    Kind = "texture"
	KindView       Kind = "texture_view"
	KindSampler    Kind = "sampler"
	KindBindGroup  Kind = "bind_group"
	KindRenderPass Kind = "render_pass"
)

// CommandKind is the type of a recorded pass command.
type CommandKind uint8

// Pass command kinds.
const (
	SetPipeline CommandKind = iota
	SetBindGroup
	SetVertexBuffer
	SetIndexBuffer
	SetScissorRect
	DrawIndexed
)

func (k CommandKind) String() string {
	return [...]string{"SetPipeline", "SetBindGroup", "SetVertexBuffer", "SetIndexBuffer", "SetScissorRect", "DrawIndexed"}[k]
}

// Command is one recorded pass command.
type Command struct {
	Kind CommandKind

	// Index is the bind group index or vertex buffer slot.
	Index uint32
	// ID is the pipeline, bind group or buffer bound.
	ID uint64

	Scissor [4]uint32

	IndexCount    uint32
	InstanceCount uint32
	FirstIndex    uint32
	BaseVertex    int32
	FirstInstance uint32
}

// Pass is a recorded render pass.
type Pass struct {
	Desc     gpucore.RenderPassDescriptor
	Commands []Command
}

// Filter returns the commands of the given kind in recording order.
func (p *Pass) Filter(kind CommandKind) []Command {
	var out []Command
	for _, c := range p.Commands {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// TextureWrite is a recorded texture upload.
type TextureWrite struct {
	Texture     gpucore.TextureID
	Data        []byte
	BytesPerRow uint32
	Size        gputypes.Extent3D
}

// Buffer is a live recorded buffer.
type Buffer struct {
	Desc gpucore.BufferDescriptor
	Data []byte
}

// Recorder implements gpucore.ResourceContext by bookkeeping only.
// It is not safe for concurrent use.
type Recorder struct {
	nextID uint64

	Shaders    map[gpucore.ShaderModuleID]gpucore.ShaderSource
	Layouts    map[gpucore.BindGroupLayoutID]gpucore.BindGroupLayoutDescriptor
	Pipelines  map[gpucore.RenderPipelineID]gpucore.RenderPipelineDescriptor
	Buffers    map[gpucore.BufferID]*Buffer
	Textures   map[gpucore.TextureID]gpucore.TextureDescriptor
	Views      map[gpucore.TextureViewID]gpucore.TextureID
	Samplers   map[gpucore.SamplerID]gpucore.SamplerDescriptor
	BindGroups map[gpucore.BindGroupID]gpucore.BindGroupDescriptor

	Passes        []Pass
	TextureWrites []TextureWrite

	created   map[Kind]int
	destroyed map[Kind]map[uint64]int

	// Fail, when set, is consulted before every creation. A non-nil error
	// fails that call.
	Fail func(kind Kind) error
}

var _ gpucore.ResourceContext = (*Recorder)(nil)

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{
		Shaders:    make(map[gpucore.ShaderModuleID]gpucore.ShaderSource),
		Layouts:    make(map[gpucore.BindGroupLayoutID]gpucore.BindGroupLayoutDescriptor),
		Pipelines:  make(map[gpucore.RenderPipelineID]gpucore.RenderPipelineDescriptor),
		Buffers:    make(map[gpucore.BufferID]*Buffer),
		Textures:   make(map[gpucore.TextureID]gpucore.TextureDescriptor),
		Views:      make(map[gpucore.TextureViewID]gpucore.TextureID),
		Samplers:   make(map[gpucore.SamplerID]gpucore.SamplerDescriptor),
		BindGroups: make(map[gpucore.BindGroupID]gpucore.BindGroupDescriptor),
		created:    make(map[Kind]int),
		destroyed:  make(map[Kind]map[uint64]int),
	}
}

func (r *Recorder) create(kind Kind) (uint64, error) {
	if r.Fail != nil {
		if err := r.Fail(kind); err != nil {
			return gpucore.InvalidID, err
		}
	}
	r.nextID++
	r.created[kind]++
	return r.nextID, nil
}

func (r *Recorder) destroy(kind Kind, id uint64) {
	m := r.destroyed[kind]
	if m == nil {
		m = make(map[uint64]int)
		r.destroyed[kind] = m
	}
	m[id]++
}

// Created returns how many resources of kind were created.
func (r *Recorder) Created(kind Kind) int { return r.created[kind] }

// Destroyed returns how many times id of kind was destroyed. Any value
// above one is a double free.
func (r *Recorder) Destroyed(kind Kind, id uint64) int { return r.destroyed[kind][id] }

// LastPass returns the most recent pass.
func (r *Recorder) LastPass() *Pass {
	if len(r.Passes) == 0 {
		return nil
	}
	return &r.Passes[len(r.Passes)-1]
}

func (r *Recorder) CreateShaderModule(_ string, src gpucore.ShaderSource) (gpucore.ShaderModuleID, error) {
	id, err := r.create(KindShader)
	if err != nil {
		return gpucore.InvalidID, err
	}
	r.Shaders[gpucore.ShaderModuleID(id)] = src
	return gpucore.ShaderModuleID(id), nil
}

func (r *Recorder) DestroyShaderModule(id gpucore.ShaderModuleID) {
	r.destroy(KindShader, uint64(id))
	delete(r.Shaders, id)
}

func (r *Recorder) CreateBindGroupLayout(desc *gpucore.BindGroupLayoutDescriptor) (gpucore.BindGroupLayoutID, error) {
	id, err := r.create(KindLayout)
	if err != nil {
		return gpucore.InvalidID, err
	}
	r.Layouts[gpucore.BindGroupLayoutID(id)] = *desc
	return gpucore.BindGroupLayoutID(id), nil
}

func (r *Recorder) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	r.destroy(KindLayout, uint64(id))
	delete(r.Layouts, id)
}

func (r *Recorder) CreateRenderPipeline(desc *gpucore.RenderPipelineDescriptor) (gpucore.RenderPipelineID, error) {
	for i, l := range desc.BindGroupLayouts {
		if _, ok := r.Layouts[l]; !ok {
			return gpucore.InvalidID, fmt.Errorf("gpucoretest: pipeline layout %d: unknown bind group layout %d", i, l)
		}
	}
	if _, ok := r.Shaders[desc.Shader]; !ok {
		return gpucore.InvalidID, fmt.Errorf("gpucoretest: unknown shader module %d", desc.Shader)
	}
	id, err := r.create(KindPipeline)
	if err != nil {
		return gpucore.InvalidID, err
	}
	r.Pipelines[gpucore.RenderPipelineID(id)] = *desc
	return gpucore.RenderPipelineID(id), nil
}

func (r *Recorder) DestroyRenderPipeline(id gpucore.RenderPipelineID) {
	r.destroy(KindPipeline, uint64(id))
	delete(r.Pipelines, id)
}

func (r *Recorder) CreateBuffer(desc *gpucore.BufferDescriptor) (gpucore.BufferID, error) {
	id, err := r.create(KindBuffer)
	if err != nil {
		return gpucore.InvalidID, err
	}
	r.Buffers[gpucore.BufferID(id)] = &Buffer{Desc: *desc, Data: make([]byte, desc.Size)}
	return gpucore.BufferID(id), nil
}

func (r *Recorder) CreateBufferWithData(label string, usage gputypes.BufferUsage, data []byte) (gpucore.BufferID, error) {
	id, err := r.CreateBuffer(&gpucore.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return gpucore.InvalidID, err
	}
	copy(r.Buffers[id].Data, data)
	return id, nil
}

func (r *Recorder) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	b, ok := r.Buffers[id]
	if !ok {
		return fmt.Errorf("gpucoretest: write to unknown buffer %d", id)
	}
	if offset+uint64(len(data)) > uint64(len(b.Data)) {
		return fmt.Errorf("gpucoretest: write of %d bytes at %d overflows buffer %d (%d bytes)",
			len(data), offset, id, len(b.Data))
	}
	copy(b.Data[offset:], data)
	return nil
}

func (r *Recorder) DestroyBuffer(id gpucore.BufferID) {
	r.destroy(KindBuffer, uint64(id))
	delete(r.Buffers, id)
}

func (r *Recorder) CreateTexture(desc *gpucore.TextureDescriptor) (gpucore.TextureID, error) {
	id, err := r.create(KindTexture)
	if err != nil {
		return gpucore.InvalidID, err
	}
	r.Textures[gpucore.TextureID(id)] = *desc
	return gpucore.TextureID(id), nil
}

func (r *Recorder) CreateTextureView(tex gpucore.TextureID) (gpucore.TextureViewID, error) {
	if _, ok := r.Textures[tex]; !ok {
		return gpucore.InvalidID, fmt.Errorf("gpucoretest: view of unknown texture %d", tex)
	}
	id, err := r.create(KindView)
	if err != nil {
		return gpucore.InvalidID, err
	}
	r.Views[gpucore.TextureViewID(id)] = tex
	return gpucore.TextureViewID(id), nil
}

func (r *Recorder) WriteTexture(id gpucore.TextureID, data []byte, bytesPerRow uint32, size gputypes.Extent3D) error {
	if _, ok := r.Textures[id]; !ok {
		return fmt.Errorf("gpucoretest: write to unknown texture %d", id)
	}
	r.TextureWrites = append(r.TextureWrites, TextureWrite{
		Texture:     id,
		Data:        slices.Clone(data),
		BytesPerRow: bytesPerRow,
		Size:        size,
	})
	return nil
}

func (r *Recorder) DestroyTextureView(id gpucore.TextureViewID) {
	r.destroy(KindView, uint64(id))
	delete(r.Views, id)
}

func (r *Recorder) DestroyTexture(id gpucore.TextureID) {
	r.destroy(KindTexture, uint64(id))
	delete(r.Textures, id)
}

func (r *Recorder) CreateSampler(desc *gpucore.SamplerDescriptor) (gpucore.SamplerID, error) {
	id, err := r.create(KindSampler)
	if err != nil {
		return gpucore.InvalidID, err
	}
	r.Samplers[gpucore.SamplerID(id)] = *desc
	return gpucore.SamplerID(id), nil
}

func (r *Recorder) DestroySampler(id gpucore.SamplerID) {
	r.destroy(KindSampler, uint64(id))
	delete(r.Samplers, id)
}

func (r *Recorder) CreateBindGroup(desc *gpucore.BindGroupDescriptor) (gpucore.BindGroupID, error) {
	if _, ok := r.Layouts[desc.Layout]; !ok {
		return gpucore.InvalidID, fmt.Errorf("gpucoretest: bind group with unknown layout %d", desc.Layout)
	}
	for _, e := range desc.Entries {
		switch {
		case e.Buffer != gpucore.InvalidID:
			if _, ok := r.Buffers[e.Buffer]; !ok {
				return gpucore.InvalidID, fmt.Errorf("gpucoretest: binding %d: unknown buffer %d", e.Binding, e.Buffer)
			}
		case e.TextureView != gpucore.InvalidID:
			if _, ok := r.Views[e.TextureView]; !ok {
				return gpucore.InvalidID, fmt.Errorf("gpucoretest: binding %d: unknown view %d", e.Binding, e.TextureView)
			}
		case e.Sampler != gpucore.InvalidID:
			if _, ok := r.Samplers[e.Sampler]; !ok {
				return gpucore.InvalidID, fmt.Errorf("gpucoretest: binding %d: unknown sampler %d", e.Binding, e.Sampler)
			}
		default:
			return gpucore.InvalidID, fmt.Errorf("gpucoretest: binding %d binds nothing", e.Binding)
		}
	}
	id, err := r.create(KindBindGroup)
	if err != nil {
		return gpucore.InvalidID, err
	}
	d := *desc
	d.Entries = slices.Clone(desc.Entries)
	r.BindGroups[gpucore.BindGroupID(id)] = d
	return gpucore.BindGroupID(id), nil
}

func (r *Recorder) DestroyBindGroup(id gpucore.BindGroupID) {
	r.destroy(KindBindGroup, uint64(id))
	delete(r.BindGroups, id)
}

func (r *Recorder) BeginRenderPass(desc *gpucore.RenderPassDescriptor, record func(gpucore.RenderPass)) error {
	if r.Fail != nil {
		if err := r.Fail(KindRenderPass); err != nil {
			return err
		}
	}
	d := *desc
	d.ColorAttachments = slices.Clone(desc.ColorAttachments)
	if desc.Depth != nil {
		depth := *desc.Depth
		d.Depth = &depth
	}
	r.Passes = append(r.Passes, Pass{Desc: d})
	p := &passRecorder{pass: &r.Passes[len(r.Passes)-1]}
	record(p)
	return nil
}

type passRecorder struct {
	pass *Pass
}

func (p *passRecorder) add(c Command) {
	p.pass.Commands = append(p.pass.Commands, c)
}

func (p *passRecorder) SetPipeline(id gpucore.RenderPipelineID) {
	p.add(Command{Kind: SetPipeline, ID: uint64(id)})
}

func (p *passRecorder) SetBindGroup(index uint32, id gpucore.BindGroupID) {
	p.add(Command{Kind: SetBindGroup, Index: index, ID: uint64(id)})
}

func (p *passRecorder) SetVertexBuffer(slot uint32, id gpucore.BufferID, _ uint64) {
	p.add(Command{Kind: SetVertexBuffer, Index: slot, ID: uint64(id)})
}

func (p *passRecorder) SetIndexBuffer(id gpucore.BufferID, _ gputypes.IndexFormat, _ uint64) {
	p.add(Command{Kind: SetIndexBuffer, ID: uint64(id)})
}

func (p *passRecorder) SetScissorRect(x, y, width, height uint32) {
	p.add(Command{Kind: SetScissorRect, Scissor: [4]uint32{x, y, width, height}})
}

func (p *passRecorder) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.add(Command{
		Kind:          DrawIndexed,
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
		FirstIndex:    firstIndex,
		BaseVertex:    baseVertex,
		FirstInstance: firstInstance,
	})
}
