package megaui

import (
	"bytes"
	"math"
	"testing"

	"github.com/gogpu/megaui/app"
	"github.com/gogpu/megaui/rendergraph"
)

func TestOrthoMatrixCorners(t *testing.T) {
	m := orthoMatrix(400, 300)
	apply := func(x, y float32) (float32, float32, float32) {
		// Column-major: element (row r, column c) is m[c*4+r].
		return m[0]*x + m[4]*y + m[12],
			m[1]*x + m[5]*y + m[13],
			m[14]
	}
	tests := []struct {
		name   string
		x, y   float32
		cx, cy float32
	}{
		{"top left", 0, 0, -1, 1},
		{"bottom right", 400, 300, 1, -1},
		{"center", 200, 150, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cx, cy, cz := apply(tt.x, tt.y)
			if !near(cx, tt.cx) || !near(cy, tt.cy) {
				t.Errorf("(%v,%v) -> (%v,%v), want (%v,%v)", tt.x, tt.y, cx, cy, tt.cx, tt.cy)
			}
			if cz < 0 || cz > 1 {
				t.Errorf("depth %v outside [0,1]", cz)
			}
		})
	}
	if m[15] != 1 {
		t.Errorf("w = %v, want 1", m[15])
	}
}

func TestOrthoMatrixDegenerate(t *testing.T) {
	m := orthoMatrix(0, -5)
	if m[0] != 2 || m[5] != -2 {
		t.Errorf("zero extent not clamped: %v", m)
	}
}

func TestTransformNodeRebuild(t *testing.T) {
	h := newHarness(t, 1, Settings{ScaleFactor: 2})
	h.step()

	r := app.MustGet[rendergraph.Renderer](h.app.World)
	id, ok := r.Graph.Bindings().Buffer(BindingTransform)
	if !ok {
		t.Fatal("transform buffer not published")
	}
	buf := h.rec.Buffers[id]
	if len(buf.Data) != transformSize {
		t.Fatalf("transform buffer = %d bytes, want %d", len(buf.Data), transformSize)
	}
	// 800x600 logical at user scale 2.
	if want := transformBytes(orthoMatrix(400, 300)); !bytes.Equal(buf.Data, want) {
		t.Fatalf("matrix = %x, want %x", buf.Data, want)
	}

	// Unchanged size and scale: the buffer is left alone.
	buf.Data[0] ^= 0xff
	h.step()
	if bytes.Equal(buf.Data, transformBytes(orthoMatrix(400, 300))) {
		t.Fatal("buffer rewritten without a change")
	}

	h.win.SetPhysicalSize(1000, 500)
	h.step()
	if want := transformBytes(orthoMatrix(500, 250)); !bytes.Equal(buf.Data, want) {
		t.Fatalf("after resize matrix = %x, want %x", buf.Data, want)
	}

	app.MustGet[Settings](h.app.World).ScaleFactor = 1
	h.step()
	if want := transformBytes(orthoMatrix(1000, 500)); !bytes.Equal(buf.Data, want) {
		t.Fatalf("after scale change matrix = %x, want %x", buf.Data, want)
	}
	if got, _ := r.Graph.Bindings().Buffer(BindingTransform); got != id {
		t.Fatalf("buffer replaced: %d -> %d", id, got)
	}
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}
