package megaui

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/megaui/app"
	"github.com/gogpu/megaui/gpucore"
	"github.com/gogpu/megaui/rendergraph"
)

const transformSize = 16 * 4

// TransformNode keeps the UI projection in a uniform buffer published under
// BindingTransform. The matrix maps UI pixels (origin top-left, Y down) to
// clip space and is rewritten only when the window size or the user scale
// changes.
type TransformNode struct {
	buffer gpucore.BufferID

	size  WindowSize
	scale float64
}

// NewTransformNode returns a node with no buffer yet; it is created on the
// first run.
func NewTransformNode() *TransformNode {
	return &TransformNode{}
}

// Input implements rendergraph.Node.
func (n *TransformNode) Input() []rendergraph.SlotInfo { return nil }

// Output implements rendergraph.Node.
func (n *TransformNode) Output() []rendergraph.SlotInfo { return nil }

// Update implements rendergraph.Node. The uniform is rewritten only when the
// window size or the scale factor changed.
func (n *TransformNode) Update(ctx *rendergraph.Context, _, _ *rendergraph.SlotValues) error {
	var size WindowSize
	if s, ok := app.Get[WindowSize](ctx.World); ok {
		size = *s
	}
	settings, _ := app.Get[Settings](ctx.World)
	scale := settings.scale()

	if n.buffer != gpucore.InvalidID && size == n.size && scale == n.scale {
		return nil
	}
	data := transformBytes(orthoMatrix(size.Width()/float32(scale), size.Height()/float32(scale)))

	if n.buffer == gpucore.InvalidID {
		id, err := ctx.Resources.CreateBufferWithData(BindingTransform, gputypes.BufferUsageUniform, data)
		if err != nil {
			Logger().Warn("megaui: transform buffer", "err", err)
			return nil
		}
		n.buffer = id
		ctx.Bindings.SetBuffer(BindingTransform, id)
	} else if err := ctx.Resources.WriteBuffer(n.buffer, 0, data); err != nil {
		Logger().Warn("megaui: transform update", "err", err)
		return nil
	}
	n.size, n.scale = size, scale
	Logger().Debug("megaui: transform rebuilt", "width", size.Width(), "height", size.Height(), "scale", scale)
	return nil
}

// Buffer returns the uniform buffer, or InvalidID before the first run.
func (n *TransformNode) Buffer() gpucore.BufferID { return n.buffer }

// orthoMatrix returns a column-major orthographic projection of the
// rectangle (0,0)-(width,height), Y down, onto clip space with depth in
// [0, 1].
func orthoMatrix(width, height float32) [16]float32 {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return [16]float32{
		2 / width, 0, 0, 0,
		0, -2 / height, 0, 0,
		0, 0, -0.5, 0,
		-1, 1, 0.5, 1,
	}
}

func transformBytes(m [16]float32) []byte {
	out := make([]byte, transformSize)
	for i, v := range m {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}
