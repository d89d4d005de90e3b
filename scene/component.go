package scene

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// Component is a node on the canvas. Concrete shapes embed Node, which
// provides everything here except Draw.
type Component interface {
	ID() uuid.UUID
	Position() Point
	Bounds() Rect
	HitTest(p Point) bool
	Draw(c Canvas, st Style)
	Move(offset Point)
	InConnectionPoints() []*ConnectionPoint
	OutConnectionPoints() []*ConnectionPoint
	IsConnectedTo(other Component) bool
	ConnectTo(other Component)
	DisconnectFrom(other Component)
}

// PortLayouter lets a shape decide where its ports sit. LayoutPorts
// returns n centers for the ports of direction dir, each with hit radius
// radius, on a body with the given bounds.
type PortLayouter interface {
	LayoutPorts(bounds Rect, dir Direction, n int, radius float64) []Point
}

// Node is the embeddable base for components. Call Init from the shape's
// constructor, passing the shape itself as owner so ports point back at
// the outer value.
type Node struct {
	owner     Component
	id        uuid.UUID
	pos       Point
	size      Point
	radius    float64
	in        []*ConnectionPoint
	out       []*ConnectionPoint
	connected map[Component]struct{}

	Label   string
	Running bool
}

func (n *Node) Init(owner Component, pos, size Point, inputs, outputs int) {
	n.owner = owner
	n.id = uuid.New()
	n.pos = pos
	n.size = size
	if n.radius == 0 {
		n.radius = DefaultPortRadius
	}
	n.connected = make(map[Component]struct{})
	n.in = n.in[:0]
	n.out = n.out[:0]
	for i := 0; i < inputs; i++ {
		n.in = append(n.in, newConnectionPoint(owner, In, i, n.radius))
	}
	for i := 0; i < outputs; i++ {
		n.out = append(n.out, newConnectionPoint(owner, Out, i, n.radius))
	}
	n.layout()
}

func (n *Node) ID() uuid.UUID { return n.id }

func (n *Node) Position() Point { return n.pos }

func (n *Node) Size() Point { return n.size }

func (n *Node) Bounds() Rect { return RectAt(n.pos, n.size) }

func (n *Node) Center() Point { return RectCenter(n.Bounds()) }

// HitTest treats the whole bounding rectangle as the body. Shapes with a
// different silhouette override it.
func (n *Node) HitTest(p Point) bool {
	return ContainsHalfOpen(n.Bounds(), p)
}

// Move translates the node and carries its ports along.
func (n *Node) Move(offset Point) {
	n.pos = r2.Add(n.pos, offset)
	n.layout()
}

// SetPortRadius changes the hit radius of every port and reflows them.
func (n *Node) SetPortRadius(r float64) {
	if r <= 0 {
		return
	}
	n.radius = r
	for _, p := range n.in {
		p.radius = r
	}
	for _, p := range n.out {
		p.radius = r
	}
	n.layout()
}

// InConnectionPoints returns the input ports in order. Index 0 is the
// default target of Scene.ConnectComponents. The slice is a copy.
func (n *Node) InConnectionPoints() []*ConnectionPoint {
	return append([]*ConnectionPoint(nil), n.in...)
}

// OutConnectionPoints returns the output ports in order.
func (n *Node) OutConnectionPoints() []*ConnectionPoint {
	return append([]*ConnectionPoint(nil), n.out...)
}

func (n *Node) IsConnectedTo(other Component) bool {
	_, ok := n.connected[other]
	return ok
}

// ConnectTo records other in the connected set. The Scene keeps the set in
// step with its lines; it is an index, not the source of truth.
func (n *Node) ConnectTo(other Component) {
	if other == nil || other == n.owner {
		return
	}
	n.connected[other] = struct{}{}
}

func (n *Node) DisconnectFrom(other Component) {
	delete(n.connected, other)
}

// SetInputCount grows or shrinks the input ports to count and reflows
// them. It refuses to drop a port that is linked.
func (n *Node) SetInputCount(count int) bool {
	ports, ok := n.resize(n.in, In, count)
	if !ok {
		return false
	}
	n.in = ports
	n.layout()
	return true
}

// SetOutputCount is SetInputCount for output ports.
func (n *Node) SetOutputCount(count int) bool {
	ports, ok := n.resize(n.out, Out, count)
	if !ok {
		return false
	}
	n.out = ports
	n.layout()
	return true
}

func (n *Node) resize(ports []*ConnectionPoint, dir Direction, count int) ([]*ConnectionPoint, bool) {
	if count < 0 {
		return ports, false
	}
	for _, p := range ports[min(count, len(ports)):] {
		if p.link != nil {
			return ports, false
		}
	}
	if count <= len(ports) {
		return ports[:count], true
	}
	for i := len(ports); i < count; i++ {
		ports = append(ports, newConnectionPoint(n.owner, dir, i, n.radius))
	}
	return ports, true
}

// DrawPorts draws every port. Shapes call it at the end of Draw.
func (n *Node) DrawPorts(c Canvas, st Style) {
	for _, p := range n.in {
		c.DrawPort(p, st)
	}
	for _, p := range n.out {
		c.DrawPort(p, st)
	}
}

func (n *Node) layout() {
	bounds := n.Bounds()
	place := func(ports []*ConnectionPoint, dir Direction) {
		var centers []Point
		if l, ok := n.owner.(PortLayouter); ok {
			centers = l.LayoutPorts(bounds, dir, len(ports), n.radius)
		}
		if len(centers) != len(ports) {
			centers = EdgeLayout(bounds, dir, len(ports), n.radius)
		}
		for i, p := range ports {
			p.Index = i
			p.place(centers[i])
		}
	}
	place(n.in, In)
	place(n.out, Out)
}

// EdgeLayout spreads n ports evenly down the left edge for inputs and the
// right edge for outputs. Inputs sit one port diameter left of the body;
// outputs sit on Max.X, which half-open bodies already exclude.
func EdgeLayout(bounds Rect, dir Direction, n int, radius float64) []Point {
	centers := make([]Point, n)
	x := bounds.Max.X
	if dir == In {
		x = bounds.Min.X - 2*radius
	}
	h := bounds.Max.Y - bounds.Min.Y
	for i := range centers {
		centers[i] = Pt(x, bounds.Min.Y+h*float64(i+1)/float64(n+1))
	}
	return centers
}
