package scene

import "github.com/google/uuid"

// ConnectionLine joins an output port to an input port. While the user is
// still dragging, a line has only a start and a free end that follows the
// pointer; such a line is never stored in the Scene.
type ConnectionLine struct {
	id    uuid.UUID
	start *ConnectionPoint
	end   *ConnectionPoint
	free  Point

	// Arrow draws an arrowhead at the input end.
	Arrow bool
}

// NewConnectionLine returns a finalized line from start to end. It does not
// link the ports; the Scene does that when the line is added.
func NewConnectionLine(start, end *ConnectionPoint) *ConnectionLine {
	return &ConnectionLine{
		id:    uuid.New(),
		start: start,
		end:   end,
		Arrow: true,
	}
}

func newTransientLine(from *ConnectionPoint, at Point) *ConnectionLine {
	return &ConnectionLine{
		id:    uuid.New(),
		start: from,
		free:  at,
		Arrow: from.Direction() == Out,
	}
}

func (l *ConnectionLine) ID() uuid.UUID { return l.id }

func (l *ConnectionLine) Start() *ConnectionPoint { return l.start }

// End is nil while the line is transient.
func (l *ConnectionLine) End() *ConnectionPoint { return l.end }

func (l *ConnectionLine) Finalized() bool {
	return l.start != nil && l.end != nil
}

func (l *ConnectionLine) StartPosition() Point {
	return l.start.Position()
}

func (l *ConnectionLine) EndPosition() Point {
	if l.end == nil {
		return l.free
	}
	return l.end.Position()
}

// Components returns the owners of both ends. The second is nil while the
// line is transient.
func (l *ConnectionLine) Components() (Component, Component) {
	var a, b Component
	if l.start != nil {
		a = l.start.Component()
	}
	if l.end != nil {
		b = l.end.Component()
	}
	return a, b
}

// Touches reports whether either end belongs to c.
func (l *ConnectionLine) Touches(c Component) bool {
	a, b := l.Components()
	return c != nil && (a == c || b == c)
}

// Joins reports whether the line runs between a and b, in either order.
func (l *ConnectionLine) Joins(a, b Component) bool {
	x, y := l.Components()
	return (x == a && y == b) || (x == b && y == a)
}

// Has reports whether p is one of the line's ends.
func (l *ConnectionLine) Has(p *ConnectionPoint) bool {
	return p != nil && (l.start == p || l.end == p)
}

// Other returns the end that is not p.
func (l *ConnectionLine) Other(p *ConnectionPoint) *ConnectionPoint {
	if l.start == p {
		return l.end
	}
	return l.start
}

func (l *ConnectionLine) Draw(c Canvas) {
	c.DrawLine(l.StartPosition(), l.EndPosition(), Style{
		Transient: !l.Finalized(),
		Arrow:     l.Arrow,
	})
}
