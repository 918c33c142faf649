package megaui

import (
	"fmt"
	"maps"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/megaui/asset"
	"github.com/gogpu/megaui/gpucore"
)

// textureResource is the GPU side of one texture asset.
type textureResource struct {
	texture   gpucore.TextureID
	view      gpucore.TextureViewID
	sampler   gpucore.SamplerID
	bindGroup gpucore.BindGroupID
	desc      asset.TextureDescriptor
}

// reconcile applies the texture store's events since the last frame.
// Removed assets lose their GPU resources and registry entries at once;
// modified ones are re-uploaded, or dropped to be recreated when their
// allocation changed.
func (n *Node) reconcile(rc gpucore.ResourceContext, c *Context, store *asset.Assets[*asset.Texture]) {
	for _, ev := range n.assetEvents.Read(store.Events()) {
		id := ev.Handle.ID()
		switch ev.Kind {
		case asset.Modified:
			if _, ok := n.textures[id]; ok && !slices.Contains(n.pending, id) {
				n.pending = append(n.pending, id)
			}
		case asset.Removed:
			c.removeHandle(ev.Handle)
			n.releaseTexture(rc, id)
			n.pending = slices.DeleteFunc(n.pending, func(p asset.HandleID) bool { return p == id })
		}
	}

	for _, id := range n.pending {
		res, ok := n.textures[id]
		if !ok {
			continue
		}
		tex, ok := store.Get(asset.WeakHandle(id))
		if !ok {
			n.releaseTexture(rc, id)
			continue
		}
		if tex.Descriptor() != res.desc {
			n.releaseTexture(rc, id)
			continue
		}
		if err := rc.WriteTexture(res.texture, tex.Data, tex.BytesPerRow(), tex.Size); err != nil {
			Logger().Warn("megaui: texture update", "handle", id, "err", err)
			n.releaseTexture(rc, id)
		}
	}
	n.pending = n.pending[:0]
}

// collect drops resources that neither the font atlas nor the registry
// refers to.
func (n *Node) collect(rc gpucore.ResourceContext, c *Context) {
	font := c.fontTexture.ID()
	for id := range n.textures {
		if id != font && !c.registered(asset.WeakHandle(id)) {
			n.releaseTexture(rc, id)
		}
	}
}

// initialize makes the font atlas and every registered texture resident.
// Resident textures get a fresh bind group; loaded ones are created and
// uploaded; handles still waiting for their asset are retried next frame.
func (n *Node) initialize(rc gpucore.ResourceContext, c *Context, store *asset.Assets[*asset.Texture]) {
	handles := make([]asset.Handle, 0, len(c.textures)+1)
	handles = append(handles, c.fontTexture)
	for _, id := range slices.Sorted(maps.Keys(c.textures)) {
		handles = append(handles, c.textures[id])
	}

	seen := make(map[asset.HandleID]bool, len(handles))
	for _, h := range handles {
		id := h.ID()
		if !h.IsValid() || seen[id] {
			continue
		}
		seen[id] = true
		if res, ok := n.textures[id]; ok {
			if err := n.rebind(rc, res); err != nil {
				Logger().Warn("megaui: texture bind group", "handle", id, "err", err)
				n.releaseTexture(rc, id)
			}
			continue
		}
		tex, ok := store.Get(h)
		if !ok {
			continue
		}
		res, err := n.createTexture(rc, tex)
		if err != nil {
			Logger().Warn("megaui: texture create", "handle", id, "err", err)
			continue
		}
		n.textures[id] = res
		Logger().Debug("megaui: texture resident", "handle", id,
			"width", tex.Size.Width, "height", tex.Size.Height)
	}
}

func (n *Node) createTexture(rc gpucore.ResourceContext, tex *asset.Texture) (*textureResource, error) {
	desc := tex.Descriptor()
	res := &textureResource{desc: desc}
	var err error
	if res.texture, err = rc.CreateTexture(&gpucore.TextureDescriptor{
		Label:         "megaui_texture",
		Size:          desc.Size,
		MipLevelCount: desc.MipLevelCount,
		SampleCount:   desc.SampleCount,
		Dimension:     desc.Dimension,
		Format:        desc.Format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}); err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	if res.view, err = rc.CreateTextureView(res.texture); err != nil {
		res.release(rc)
		return nil, fmt.Errorf("view: %w", err)
	}
	if res.sampler, err = rc.CreateSampler(&gpucore.SamplerDescriptor{
		Label:             "megaui_sampler",
		SamplerDescriptor: tex.Sampler,
	}); err != nil {
		res.release(rc)
		return nil, fmt.Errorf("sampler: %w", err)
	}
	if err := n.rebind(rc, res); err != nil {
		res.release(rc)
		return nil, err
	}
	if err := rc.WriteTexture(res.texture, tex.Data, tex.BytesPerRow(), tex.Size); err != nil {
		res.release(rc)
		return nil, fmt.Errorf("upload: %w", err)
	}
	return res, nil
}

// rebind replaces res's bind group with a new one over its view and
// sampler.
func (n *Node) rebind(rc gpucore.ResourceContext, res *textureResource) error {
	if res.bindGroup != gpucore.InvalidID {
		rc.DestroyBindGroup(res.bindGroup)
		res.bindGroup = gpucore.InvalidID
	}
	id, err := rc.CreateBindGroup(&gpucore.BindGroupDescriptor{
		Label:  "megaui_texture_bind_group",
		Layout: n.pipeline.textureLayout,
		Entries: []gpucore.BindGroupEntry{
			gpucore.TextureViewEntry(textureBinding, res.view),
			gpucore.SamplerEntry(samplerBinding, res.sampler),
		},
	})
	if err != nil {
		return fmt.Errorf("bind group: %w", err)
	}
	res.bindGroup = id
	return nil
}

// releaseTexture drops the resources of id. Unknown ids are ignored, so
// every resource is destroyed exactly once.
func (n *Node) releaseTexture(rc gpucore.ResourceContext, id asset.HandleID) {
	res, ok := n.textures[id]
	if !ok {
		return
	}
	delete(n.textures, id)
	res.release(rc)
	Logger().Debug("megaui: texture released", "handle", id)
}

func (res *textureResource) release(rc gpucore.ResourceContext) {
	if res.bindGroup != gpucore.InvalidID {
		rc.DestroyBindGroup(res.bindGroup)
		res.bindGroup = gpucore.InvalidID
	}
	if res.sampler != gpucore.InvalidID {
		rc.DestroySampler(res.sampler)
		res.sampler = gpucore.InvalidID
	}
	if res.view != gpucore.InvalidID {
		rc.DestroyTextureView(res.view)
		res.view = gpucore.InvalidID
	}
	if res.texture != gpucore.InvalidID {
		rc.DestroyTexture(res.texture)
		res.texture = gpucore.InvalidID
	}
}
