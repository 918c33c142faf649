package megaui

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/megaui/asset"
	"github.com/gogpu/megaui/gpucore"
	"github.com/gogpu/megaui/imgui"
)

// drawCommand is one draw list reduced to what the pass needs.
type drawCommand struct {
	texture    asset.HandleID
	resolved   bool
	indexCount uint32
	clip       *imgui.Rect
}

// assemble packs lists into the node's vertex and index staging slices and
// builds the command list. Indices are rebased onto the running vertex
// count so every draw uses base vertex 0.
func (n *Node) assemble(c *Context, lists []imgui.DrawList) {
	n.vertexData = n.vertexData[:0]
	n.indexData = n.indexData[:0]
	n.commands = n.commands[:0]

	var base uint32
	for i := range lists {
		l := &lists[i]
		if base+uint32(len(l.Vertices)) > math.MaxUint16+1 {
			Logger().Warn("megaui: draw list dropped, 16-bit index range exhausted",
				"list", i, "vertices", len(l.Vertices))
			continue
		}

		cmd := drawCommand{indexCount: uint32(len(l.Indices)), clip: l.Clip}
		if l.Texture == nil {
			cmd.texture, cmd.resolved = c.fontTexture.ID(), c.fontTexture.IsValid()
		} else if h, ok := c.textures[*l.Texture]; ok {
			cmd.texture, cmd.resolved = h.ID(), true
		}
		n.commands = append(n.commands, cmd)

		for _, v := range l.Vertices {
			n.vertexData = appendVertex(n.vertexData, v)
		}
		for _, idx := range l.Indices {
			n.indexData = binary.LittleEndian.AppendUint16(n.indexData, uint16(base+uint32(idx)))
		}
		base += uint32(len(l.Vertices))
	}

	// Buffer writes must be a multiple of four bytes.
	for len(n.indexData)%4 != 0 {
		n.indexData = append(n.indexData, 0)
	}
}

func appendVertex(b []byte, v imgui.Vertex) []byte {
	for _, f := range v.Pos {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	for _, f := range v.UV {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	for _, f := range v.Color {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

// swapBuffers replaces last frame's vertex and index buffers with buffers
// holding the assembled data. Empty data leaves the buffer unset.
func (n *Node) swapBuffers(rc gpucore.ResourceContext) error {
	n.releaseBuffers(rc)
	if len(n.vertexData) > 0 {
		id, err := rc.CreateBufferWithData("megaui_vertices", gputypes.BufferUsageVertex, n.vertexData)
		if err != nil {
			return fmt.Errorf("megaui: vertex buffer: %w", err)
		}
		n.vertexBuffer = id
	}
	if len(n.indexData) > 0 {
		id, err := rc.CreateBufferWithData("megaui_indices", gputypes.BufferUsageIndex, n.indexData)
		if err != nil {
			n.releaseBuffers(rc)
			return fmt.Errorf("megaui: index buffer: %w", err)
		}
		n.indexBuffer = id
	}
	return nil
}

func (n *Node) releaseBuffers(rc gpucore.ResourceContext) {
	if n.vertexBuffer != gpucore.InvalidID {
		rc.DestroyBuffer(n.vertexBuffer)
		n.vertexBuffer = gpucore.InvalidID
	}
	if n.indexBuffer != gpucore.InvalidID {
		rc.DestroyBuffer(n.indexBuffer)
		n.indexBuffer = gpucore.InvalidID
	}
}
