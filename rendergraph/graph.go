// Package rendergraph schedules render nodes by their dependencies.
//
// A [Graph] holds named [Node]s connected by two kinds of edges: node edges
// only order execution, slot edges also pass a resource (a texture view or a
// buffer) from an output of one node to an input of another. [Graph.Run]
// executes every node once in dependency order.
//
// Nodes can also publish buffers by name through [Bindings], for consumers
// that look them up instead of taking them through a slot.
package rendergraph

import (
	"errors"
	"fmt"

	"github.com/gogpu/megaui/app"
	"github.com/gogpu/megaui/gpucore"
)

// Graph errors.
var (
	ErrDuplicateNode        = errors.New("rendergraph: duplicate node")
	ErrUnknownNode          = errors.New("rendergraph: unknown node")
	ErrUnknownSlot          = errors.New("rendergraph: unknown slot")
	ErrSlotTypeMismatch     = errors.New("rendergraph: slot type mismatch")
	ErrSlotAlreadyConnected = errors.New("rendergraph: input slot already connected")
	ErrSlotNotSet           = errors.New("rendergraph: slot not set")
	ErrMissingInput         = errors.New("rendergraph: input slot not connected")
	ErrCycle                = errors.New("rendergraph: cycle")

	// ErrSkip is returned (possibly wrapped) by a node that has nothing to
	// do this frame. Run leaves its outputs unset and skips every node fed
	// by one of its slots, transitively, without failing.
	ErrSkip = errors.New("rendergraph: node skipped")
)

// Context is what a node sees while it runs.
type Context struct {
	World     *app.World
	Resources gpucore.ResourceContext
	Bindings  *Bindings
}

// Node is one unit of render work.
type Node interface {
	// Input declares the slots the node reads.
	Input() []SlotInfo
	// Output declares the slots the node writes.
	Output() []SlotInfo
	// Update runs the node. Every input slot is set; the node must set every
	// output slot it wants downstream nodes to see.
	Update(ctx *Context, in, out *SlotValues) error
}

// Skipper is implemented by nodes that must observe frames they did not run
// in because an upstream slot was skipped.
type Skipper interface {
	Skip(ctx *Context)
}

type slotEdge struct {
	from, fromSlot string
	toSlot         string
}

type nodeState struct {
	name   string
	node   Node
	inputs []slotEdge
	after  map[string]struct{}
	in     *SlotValues
	out    *SlotValues
}

// Graph is a set of nodes and the edges between them.
type Graph struct {
	nodes    map[string]*nodeState
	order    []string
	bindings Bindings
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*nodeState),
		bindings: Bindings{buffers: make(map[string]gpucore.BufferID)},
	}
}

// Bindings returns the graph's named resource table.
func (g *Graph) Bindings() *Bindings { return &g.bindings }

// AddNode adds n under name.
func (g *Graph) AddNode(name string, n Node) error {
	if _, dup := g.nodes[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}
	g.nodes[name] = &nodeState{
		name:  name,
		node:  n,
		after: make(map[string]struct{}),
		in:    newSlotValues(n.Input()),
		out:   newSlotValues(n.Output()),
	}
	g.order = append(g.order, name)
	return nil
}

// HasNode reports whether a node named name exists.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Node returns the node named name.
func (g *Graph) Node(name string) (Node, bool) {
	st, ok := g.nodes[name]
	if !ok {
		return nil, false
	}
	return st.node, true
}

func (g *Graph) get(name string) (*nodeState, error) {
	st, ok := g.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	return st, nil
}

// AddNodeEdge orders from before to.
func (g *Graph) AddNodeEdge(from, to string) error {
	if _, err := g.get(from); err != nil {
		return err
	}
	dst, err := g.get(to)
	if err != nil {
		return err
	}
	dst.after[from] = struct{}{}
	return nil
}

// AddSlotEdge feeds output fromSlot of from into input toSlot of to. It
// implies a node edge.
func (g *Graph) AddSlotEdge(from, fromSlot, to, toSlot string) error {
	src, err := g.get(from)
	if err != nil {
		return err
	}
	dst, err := g.get(to)
	if err != nil {
		return err
	}
	oi := src.out.index(fromSlot)
	if oi < 0 {
		return fmt.Errorf("%w: output %q of %q", ErrUnknownSlot, fromSlot, from)
	}
	ii := dst.in.index(toSlot)
	if ii < 0 {
		return fmt.Errorf("%w: input %q of %q", ErrUnknownSlot, toSlot, to)
	}
	if ot, it := src.out.infos[oi].Type, dst.in.infos[ii].Type; ot != it {
		return fmt.Errorf("%w: %s.%s is %s, %s.%s is %s", ErrSlotTypeMismatch, from, fromSlot, ot, to, toSlot, it)
	}
	for _, e := range dst.inputs {
		if e.toSlot == toSlot {
			return fmt.Errorf("%w: %s.%s", ErrSlotAlreadyConnected, to, toSlot)
		}
	}
	dst.inputs = append(dst.inputs, slotEdge{from: from, fromSlot: fromSlot, toSlot: toSlot})
	dst.after[from] = struct{}{}
	return nil
}

// Order returns the node names in execution order. Ties are broken by
// insertion order.
func (g *Graph) Order() ([]string, error) {
	indeg := make(map[string]int, len(g.nodes))
	for _, name := range g.order {
		indeg[name] = len(g.nodes[name].after)
	}
	out := make([]string, 0, len(g.order))
	done := make(map[string]bool, len(g.order))
	for len(out) < len(g.order) {
		progressed := false
		for _, name := range g.order {
			if done[name] || indeg[name] > 0 {
				continue
			}
			done[name] = true
			out = append(out, name)
			progressed = true
			for _, other := range g.order {
				if _, dep := g.nodes[other].after[name]; dep {
					indeg[other]--
				}
			}
			break
		}
		if !progressed {
			var stuck []string
			for _, name := range g.order {
				if !done[name] {
					stuck = append(stuck, name)
				}
			}
			return nil, fmt.Errorf("%w among %v", ErrCycle, stuck)
		}
	}
	return out, nil
}

// Validate checks that every declared input is connected and the graph is
// acyclic.
func (g *Graph) Validate() error {
	for _, name := range g.order {
		st := g.nodes[name]
		for _, info := range st.in.infos {
			connected := false
			for _, e := range st.inputs {
				if e.toSlot == info.Name {
					connected = true
					break
				}
			}
			if !connected {
				return fmt.Errorf("%w: %s.%s", ErrMissingInput, name, info.Name)
			}
		}
	}
	_, err := g.Order()
	return err
}

// Run executes every node once in dependency order. It stops at the first
// failing node. A node returning [ErrSkip] does not fail the run; it and the
// nodes depending on its outputs are skipped for this frame.
func (g *Graph) Run(world *app.World, rc gpucore.ResourceContext) error {
	if err := g.Validate(); err != nil {
		return err
	}
	order, _ := g.Order()
	ctx := &Context{World: world, Resources: rc, Bindings: &g.bindings}
	for _, st := range g.nodes {
		st.in.reset()
		st.out.reset()
	}
	skipped := make(map[string]bool)
	for _, name := range order {
		st := g.nodes[name]
		if from, ok := skippedInput(st, skipped); ok {
			skipped[name] = true
			logger().Debug("rendergraph: node skipped", "node", name, "input_from", from)
			if s, ok := st.node.(Skipper); ok {
				s.Skip(ctx)
			}
			continue
		}
		for _, e := range st.inputs {
			v, err := g.nodes[e.from].out.Get(e.fromSlot)
			if err != nil {
				return fmt.Errorf("rendergraph: %s.%s <- %s.%s: %w", name, e.toSlot, e.from, e.fromSlot, err)
			}
			if err := st.in.Set(e.toSlot, v); err != nil {
				return fmt.Errorf("rendergraph: %s.%s: %w", name, e.toSlot, err)
			}
		}
		if err := st.node.Update(ctx, st.in, st.out); err != nil {
			if errors.Is(err, ErrSkip) {
				skipped[name] = true
				st.out.reset()
				logger().Debug("rendergraph: node skipped", "node", name, "err", err)
				continue
			}
			return fmt.Errorf("rendergraph: node %q: %w", name, err)
		}
	}
	return nil
}

// skippedInput returns the first skipped node feeding a slot of st. Node
// edges only order execution and do not propagate a skip.
func skippedInput(st *nodeState, skipped map[string]bool) (string, bool) {
	for _, e := range st.inputs {
		if skipped[e.from] {
			return e.from, true
		}
	}
	return "", false
}

// Bindings maps binding names to resources published by nodes.
type Bindings struct {
	buffers map[string]gpucore.BufferID
}

// SetBuffer publishes id under name.
func (b *Bindings) SetBuffer(name string, id gpucore.BufferID) {
	b.buffers[name] = id
}

// Buffer returns the buffer published under name.
func (b *Bindings) Buffer(name string) (gpucore.BufferID, bool) {
	id, ok := b.buffers[name]
	return id, ok
}

// RemoveBuffer withdraws name.
func (b *Bindings) RemoveBuffer(name string) {
	delete(b.buffers, name)
}
