package rendergraph

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/megaui/app"
	"github.com/gogpu/megaui/gpucore"
	"github.com/gogpu/megaui/gpucore/gpucoretest"
	"github.com/gogpu/megaui/window"
)

// testNode records its runs and forwards a fixed view.
type testNode struct {
	name string
	in   []SlotInfo
	out  []SlotInfo
	log  *[]string
	view gpucore.TextureViewID
	got  gpucore.TextureViewID
	err  error
}

func (n *testNode) Input() []SlotInfo  { return n.in }
func (n *testNode) Output() []SlotInfo { return n.out }

func (n *testNode) Update(_ *Context, in, out *SlotValues) error {
	*n.log = append(*n.log, n.name)
	if n.err != nil {
		return n.err
	}
	if len(n.in) > 0 {
		v, err := in.TextureView(n.in[0].Name)
		if err != nil {
			return err
		}
		n.got = v
	}
	for _, s := range n.out {
		if err := out.Set(s.Name, TextureViewValue(n.view)); err != nil {
			return err
		}
	}
	return nil
}

var viewSlot = []SlotInfo{{Name: "v", Type: SlotTextureView}}

func TestGraphOrderAndSlots(t *testing.T) {
	var log []string
	g := New()
	sink := &testNode{name: "sink", in: viewSlot, log: &log}
	src := &testNode{name: "src", out: viewSlot, log: &log, view: 7}
	late := &testNode{name: "late", log: &log}

	for _, n := range []*testNode{sink, late, src} {
		if err := g.AddNode(n.name, n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.name, err)
		}
	}
	if err := g.AddSlotEdge("src", "v", "sink", "v"); err != nil {
		t.Fatalf("AddSlotEdge: %v", err)
	}
	if err := g.AddNodeEdge("sink", "late"); err != nil {
		t.Fatalf("AddNodeEdge: %v", err)
	}

	if err := g.Run(nil, gpucoretest.New()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := []string{"src", "sink", "late"}; !reflect.DeepEqual(log, want) {
		t.Fatalf("order = %v, want %v", log, want)
	}
	if sink.got != 7 {
		t.Fatalf("sink received view %d, want 7", sink.got)
	}
}

func TestGraphEdgeErrors(t *testing.T) {
	var log []string
	newGraph := func() *Graph {
		g := New()
		_ = g.AddNode("a", &testNode{name: "a", out: viewSlot, log: &log})
		_ = g.AddNode("b", &testNode{name: "b", in: viewSlot, log: &log})
		_ = g.AddNode("buf", &testNode{name: "buf", out: []SlotInfo{{Name: "v", Type: SlotBuffer}}, log: &log})
		return g
	}

	tests := []struct {
		name string
		do   func(g *Graph) error
		want error
	}{
		{"duplicate node", func(g *Graph) error { return g.AddNode("a", &testNode{log: &log}) }, ErrDuplicateNode},
		{"unknown node", func(g *Graph) error { return g.AddNodeEdge("a", "zzz") }, ErrUnknownNode},
		{"unknown output slot", func(g *Graph) error { return g.AddSlotEdge("a", "nope", "b", "v") }, ErrUnknownSlot},
		{"unknown input slot", func(g *Graph) error { return g.AddSlotEdge("a", "v", "b", "nope") }, ErrUnknownSlot},
		{"type mismatch", func(g *Graph) error { return g.AddSlotEdge("buf", "v", "b", "v") }, ErrSlotTypeMismatch},
		{"connected twice", func(g *Graph) error {
			if err := g.AddSlotEdge("a", "v", "b", "v"); err != nil {
				return err
			}
			return g.AddSlotEdge("a", "v", "b", "v")
		}, ErrSlotAlreadyConnected},
		{"missing input", func(g *Graph) error { return g.Validate() }, ErrMissingInput},
		{"cycle", func(g *Graph) error {
			if err := g.AddSlotEdge("a", "v", "b", "v"); err != nil {
				return err
			}
			if err := g.AddNodeEdge("b", "a"); err != nil {
				return err
			}
			return g.Validate()
		}, ErrCycle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.do(newGraph()); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGraphStopsOnNodeError(t *testing.T) {
	var log []string
	errBoom := errors.New("boom")
	g := New()
	_ = g.AddNode("first", &testNode{name: "first", log: &log, err: errBoom})
	_ = g.AddNode("second", &testNode{name: "second", log: &log})
	_ = g.AddNodeEdge("first", "second")

	if err := g.Run(nil, gpucoretest.New()); !errors.Is(err, errBoom) {
		t.Fatalf("Run = %v, want boom", err)
	}
	if len(log) != 1 {
		t.Fatalf("ran %v after failure", log)
	}
}

func TestBindings(t *testing.T) {
	g := New()
	b := g.Bindings()
	if _, ok := b.Buffer("X"); ok {
		t.Fatal("empty bindings returned a buffer")
	}
	b.SetBuffer("X", 3)
	if id, ok := b.Buffer("X"); !ok || id != 3 {
		t.Fatalf("Buffer(X) = %d, %v", id, ok)
	}
	b.RemoveBuffer("X")
	if _, ok := b.Buffer("X"); ok {
		t.Fatal("RemoveBuffer left the binding")
	}
}

func newWindowApp(t *testing.T, samples uint32) (*app.App, *window.Window) {
	t.Helper()
	a := app.New()
	ws := window.NewWindows()
	w := window.New(window.PrimaryID, 640, 480, 1)
	ws.Add(w)
	app.Insert(a.World, ws)
	app.Insert(a.World, &Msaa{Samples: samples})
	return a, w
}

func TestInstallBaseNodes(t *testing.T) {
	tests := []struct {
		name        string
		samples     uint32
		wantTexture int
		resolve     bool
	}{
		{"no msaa", 1, 2, false},
		{"msaa x4", 4, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, w := newWindowApp(t, tt.samples)
			rec := gpucoretest.New()
			r, err := Install(a, rec)
			if err != nil {
				t.Fatalf("Install: %v", err)
			}
			if got := r.Graph.HasNode(MainSampledColorAttachment); got != tt.resolve {
				t.Fatalf("sampled attachment node present = %v", got)
			}
			if err := a.Step(0); err != nil {
				t.Fatalf("Step: %v", err)
			}
			if got := rec.Created(gpucoretest.KindTexture); got != tt.wantTexture {
				t.Fatalf("textures created = %d, want %d", got, tt.wantTexture)
			}
			pass := rec.LastPass()
			if pass == nil || pass.Desc.Label != MainPass {
				t.Fatalf("last pass = %+v, want main_pass", pass)
			}
			color := pass.Desc.ColorAttachments[0]
			if color.LoadOp != gputypes.LoadOpClear || pass.Desc.Depth.ClearValue != 1 {
				t.Fatalf("main pass does not clear: %+v", pass.Desc)
			}
			if (color.ResolveTarget != gpucore.InvalidID) != tt.resolve {
				t.Fatalf("resolve target = %d, want present=%v", color.ResolveTarget, tt.resolve)
			}

			// Same size: nothing recreated. Resize: every window texture recreated.
			if err := a.Step(0); err != nil {
				t.Fatal(err)
			}
			if got := rec.Created(gpucoretest.KindTexture); got != tt.wantTexture {
				t.Fatalf("textures recreated without resize: %d", got)
			}
			w.SetPhysicalSize(800, 600)
			if err := a.Step(0); err != nil {
				t.Fatal(err)
			}
			if got := rec.Created(gpucoretest.KindTexture); got != 2*tt.wantTexture {
				t.Fatalf("textures after resize = %d, want %d", got, 2*tt.wantTexture)
			}
			if len(rec.Textures) != tt.wantTexture {
				t.Fatalf("live textures = %d, want %d", len(rec.Textures), tt.wantTexture)
			}
		})
	}
}

func TestWindowNodeWithoutWindow(t *testing.T) {
	a := app.New()
	rec := gpucoretest.New()
	r, err := Install(a, rec)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	var skips int
	if err := r.Graph.AddNode("overlay", &skipCounter{count: &skips}); err != nil {
		t.Fatal(err)
	}
	if err := r.Graph.AddSlotEdge(PrimarySwapChain, SlotTexture, "overlay", "v"); err != nil {
		t.Fatal(err)
	}

	for range 3 {
		if err := a.Step(0); err != nil {
			t.Fatalf("Step without a window = %v, want the frame skipped", err)
		}
	}
	if skips != 3 {
		t.Fatalf("overlay skipped %d times, want 3", skips)
	}
	if len(rec.Passes) != 0 || rec.Created(gpucoretest.KindTexture) != 0 {
		t.Fatalf("windowless frames drew %d passes, created %d textures", len(rec.Passes), rec.Created(gpucoretest.KindTexture))
	}
	if !errors.Is(ErrNoPrimaryWindow, ErrSkip) {
		t.Fatal("ErrNoPrimaryWindow does not wrap ErrSkip")
	}
}

// skipCounter counts the frames it was skipped in.
type skipCounter struct {
	count *int
}

func (n *skipCounter) Input() []SlotInfo                               { return viewSlot }
func (n *skipCounter) Output() []SlotInfo                              { return nil }
func (n *skipCounter) Update(*Context, *SlotValues, *SlotValues) error { return nil }
func (n *skipCounter) Skip(*Context)                                   { *n.count++ }

func TestGraphSkipPropagation(t *testing.T) {
	var log []string
	g := New()
	src := &testNode{name: "src", out: viewSlot, log: &log, err: fmt.Errorf("idle: %w", ErrSkip)}
	mid := &testNode{name: "mid", in: viewSlot, out: viewSlot, log: &log}
	sink := &testNode{name: "sink", in: viewSlot, log: &log}
	ordered := &testNode{name: "ordered", log: &log}
	for _, n := range []*testNode{src, mid, sink, ordered} {
		if err := g.AddNode(n.name, n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"src", "mid"}, {"mid", "sink"}} {
		if err := g.AddSlotEdge(e[0], "v", e[1], "v"); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddNodeEdge("src", "ordered"); err != nil {
		t.Fatal(err)
	}

	if err := g.Run(nil, gpucoretest.New()); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if want := []string{"src", "ordered"}; !reflect.DeepEqual(log, want) {
		t.Fatalf("ran %v, want %v", log, want)
	}

	src.err = errors.New("boom")
	if err := g.Run(nil, gpucoretest.New()); err == nil || errors.Is(err, ErrSkip) {
		t.Fatalf("Run with a failing node = %v", err)
	}
}

func TestSlotValues(t *testing.T) {
	s := newSlotValues([]SlotInfo{{Name: "tex", Type: SlotTextureView}, {Name: "buf", Type: SlotBuffer}})
	if _, err := s.Get("tex"); !errors.Is(err, ErrSlotNotSet) {
		t.Fatalf("Get unset = %v", err)
	}
	if err := s.Set("tex", BufferValue(1)); !errors.Is(err, ErrSlotTypeMismatch) {
		t.Fatalf("Set wrong type = %v", err)
	}
	if err := s.Set("buf", BufferValue(9)); err != nil {
		t.Fatal(err)
	}
	if id, err := s.Buffer("buf"); err != nil || id != 9 {
		t.Fatalf("Buffer = %d, %v", id, err)
	}
	if _, err := s.TextureView("buf"); !errors.Is(err, ErrSlotTypeMismatch) {
		t.Fatalf("TextureView on buffer = %v", err)
	}
	if !s.Has("buf") || s.Has("tex") || s.Has("nope") {
		t.Fatal("Has disagrees with Set")
	}
}

func TestSurfaceTarget(t *testing.T) {
	// wantTexture counts owned textures while the surface view is set:
	// depth, plus the multisampled color attachment with msaa.
	tests := []struct {
		name        string
		samples     uint32
		wantTexture int
	}{
		{"no msaa", 1, 1},
		{"msaa x4", 4, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newWindowApp(t, tt.samples)
			app.Insert(a.World, &SurfaceTarget{Format: gputypes.TextureFormatBGRA8Unorm})
			rec := gpucoretest.New()
			r, err := Install(a, rec)
			if err != nil {
				t.Fatalf("Install: %v", err)
			}
			if got := ColorFormat(a.World); got != gputypes.TextureFormatBGRA8Unorm {
				t.Fatalf("ColorFormat = %v", got)
			}

			// Host texture standing in for the window surface.
			hostTex, _ := rec.CreateTexture(&gpucore.TextureDescriptor{
				Size:   gputypes.Extent3D{Width: 320, Height: 200, DepthOrArrayLayers: 1},
				Format: gputypes.TextureFormatBGRA8Unorm,
				Usage:  gputypes.TextureUsageRenderAttachment,
			})
			hostView, _ := rec.CreateTextureView(hostTex)
			st := app.MustGet[SurfaceTarget](a.World)
			st.View, st.Width, st.Height = hostView, 320, 200

			if err := a.Step(0); err != nil {
				t.Fatalf("Step: %v", err)
			}
			color := rec.LastPass().Desc.ColorAttachments[0]
			target := color.View
			if tt.samples > 1 {
				target = color.ResolveTarget
			}
			if target != hostView {
				t.Fatalf("main pass renders into %d, want the surface view %d", target, hostView)
			}
			if got := len(rec.Textures) - 1; got != tt.wantTexture {
				t.Fatalf("owned textures = %d, want %d", got, tt.wantTexture)
			}
			for id, desc := range rec.Textures {
				if id == hostTex {
					continue
				}
				if desc.Size.Width != 320 || desc.Size.Height != 200 {
					t.Fatalf("%s is %dx%d, want the surface size", desc.Label, desc.Size.Width, desc.Size.Height)
				}
				if desc.Format != DepthFormat && desc.Format != gputypes.TextureFormatBGRA8Unorm {
					t.Fatalf("%s format = %v", desc.Label, desc.Format)
				}
			}

			// Without a view the swap chain falls back to its own texture.
			st.View = gpucore.InvalidID
			if err := a.Step(0); err != nil {
				t.Fatalf("Step: %v", err)
			}
			sc, _ := r.Graph.Node(PrimarySwapChain)
			if sc.(*SwapChainNode).Texture() == gpucore.InvalidID {
				t.Fatal("swap chain has no texture of its own after the surface view was cleared")
			}
			if got := rec.LastPass().Desc.ColorAttachments[0]; got.View == hostView || got.ResolveTarget == hostView {
				t.Fatal("main pass still renders into the cleared surface view")
			}
		})
	}
}
