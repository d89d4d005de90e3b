package scene

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Direction says whether a port accepts or emits lines.
type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	default:
		return "unknown"
	}
}

// Opposite returns the direction a port must have to be joined to one of d.
func (d Direction) Opposite() Direction {
	if d == In {
		return Out
	}
	return In
}

// DefaultPortRadius is half a terminal cell, so a port covers exactly the
// cell it is centered on.
const DefaultPortRadius = 0.5

// ConnectionPoint is a port on a component. Its position belongs to the
// owning component, which repositions it whenever the component's bounds
// change. A port links to at most one other port.
type ConnectionPoint struct {
	pos    Point
	radius float64
	dir    Direction
	owner  Component
	link   *ConnectionPoint

	// Enabled ports can take part in new connections.
	Enabled bool
	// Index is the port's position within its component's ports of the
	// same direction.
	Index int
	// DataType is a free-form tag shape code may use to restrict which
	// ports go together.
	DataType string
}

func newConnectionPoint(owner Component, dir Direction, index int, radius float64) *ConnectionPoint {
	return &ConnectionPoint{
		radius:  radius,
		dir:     dir,
		owner:   owner,
		Enabled: true,
		Index:   index,
	}
}

func (p *ConnectionPoint) Position() Point { return p.pos }

// Center is the same as Position; ports are centered on their position.
func (p *ConnectionPoint) Center() Point { return p.pos }

func (p *ConnectionPoint) Radius() float64 { return p.radius }

func (p *ConnectionPoint) Direction() Direction { return p.dir }

func (p *ConnectionPoint) Component() Component { return p.owner }

// Connection returns the port this one is linked to, or nil.
func (p *ConnectionPoint) Connection() *ConnectionPoint { return p.link }

// Bounds is the port's hit region.
func (p *ConnectionPoint) Bounds() Rect {
	r := Pt(p.radius, p.radius)
	return Rect{Min: r2.Sub(p.pos, r), Max: r2.Add(p.pos, r)}
}

// Contains is the port hit-test.
func (p *ConnectionPoint) Contains(pt Point) bool {
	return ContainsClosed(p.Bounds(), pt)
}

// Available reports whether the port can accept a new link.
func (p *ConnectionPoint) Available() bool {
	return p.Enabled && p.link == nil
}

// ConnectTo links p and target in both directions. It refuses, leaving
// both ports untouched, when either side is already linked or the target
// is p itself.
func (p *ConnectionPoint) ConnectTo(target *ConnectionPoint) bool {
	if target == nil || target == p {
		return false
	}
	if p.link != nil || target.link != nil {
		return false
	}
	p.link = target
	target.link = p
	return true
}

// Disconnect clears the link on both sides.
func (p *ConnectionPoint) Disconnect() {
	if p.link == nil {
		return
	}
	if p.link.link == p {
		p.link.link = nil
	}
	p.link = nil
}

func (p *ConnectionPoint) place(pos Point) {
	p.pos = pos
}

func (p *ConnectionPoint) String() string {
	return fmt.Sprintf("%s[%d]@(%g,%g)", p.dir, p.Index, p.pos.X, p.pos.Y)
}
