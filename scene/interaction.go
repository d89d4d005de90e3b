package scene

import "gonum.org/v1/gonum/spatial/r2"

type dragState struct {
	target Component
	grab   Point // pointer position relative to the target's origin
	origin Point // target position at press
}

type wireState struct {
	line    *ConnectionLine  // transient, follows the pointer
	anchor  *ConnectionPoint // end that stays put
	grabbed *ConnectionPoint // end picked up when rewiring
	rewire  *ConnectionLine  // existing line being re-attached
}

// HandleMouseDown starts a gesture. A press inside a component body starts
// a drag; failing that, a press on a port starts a line. Presses while a
// gesture is running are ignored.
func (s *Scene) HandleMouseDown(p Point) {
	if s.mode != Idle {
		return
	}
	if c := s.ComponentAt(p); c != nil {
		s.selected = c
		s.mode = Dragging
		s.drag = dragState{target: c, grab: r2.Sub(p, c.Position()), origin: c.Position()}
		s.log.Debug("drag started", "component", c.ID())
		s.redraw()
		return
	}

	pt := s.PointAt(p)
	if pt == nil {
		if s.selected != nil {
			s.selected = nil
			s.redraw()
		}
		return
	}
	if pt.Connection() != nil {
		// Picking up a linked port detaches that end of its line.
		l := s.LineAt(pt)
		if l == nil {
			return
		}
		anchor := l.Other(pt)
		s.wire = wireState{
			line:    newTransientLine(anchor, p),
			anchor:  anchor,
			grabbed: pt,
			rewire:  l,
		}
	} else {
		if !pt.Enabled {
			return
		}
		s.wire = wireState{line: newTransientLine(pt, p), anchor: pt}
	}
	s.mode = DrawingLine
	s.log.Debug("line started", "from", s.wire.anchor, "rewire", s.wire.rewire != nil)
	s.redraw()
}

// HandleMouseMove drags the held component so the grab point stays under
// the pointer, or moves the free end of the line being drawn.
func (s *Scene) HandleMouseMove(p Point) {
	switch s.mode {
	case Dragging:
		c := s.drag.target
		offset := r2.Sub(r2.Sub(p, s.drag.grab), c.Position())
		if isZero(offset) {
			return
		}
		c.Move(offset)
		s.redraw()
	case DrawingLine:
		s.wire.line.free = p
		s.redraw()
	}
}

// HandleMouseUp ends the running gesture. A drag that moved its component
// is recorded as one move; a line is kept only if it was dropped on a
// port it may join.
func (s *Scene) HandleMouseUp(p Point) {
	switch s.mode {
	case Dragging:
		s.finishDrag()
	case DrawingLine:
		s.finishLine(p)
	}
}

func (s *Scene) finishDrag() {
	c := s.drag.target
	offset := r2.Sub(c.Position(), s.drag.origin)
	s.resetInteraction()
	if isZero(offset) {
		return
	}
	s.history.Push(&MoveAction{scene: s, component: c, offset: offset})
	s.log.Debug("drag finished", "component", c.ID(), "dx", offset.X, "dy", offset.Y)
	s.redraw()
}

func (s *Scene) finishLine(p Point) {
	w := s.wire
	s.resetInteraction()
	target := s.PointAt(p)

	switch {
	case w.rewire != nil:
		if !s.canRewire(w, target) {
			s.log.Debug("rewire dropped", "line", w.rewire.ID())
			break
		}
		start, end := orient(w.anchor, target)
		s.MoveLine(w.rewire, start, end)
	case s.canJoin(w.anchor, target):
		start, end := orient(w.anchor, target)
		s.connectPoints(start, end)
	default:
		s.log.Debug("line dropped", "from", w.anchor)
	}
	s.redraw()
}

// canJoin is the drop rule for a new line: a free port of the opposite
// direction on another component that is not yet connected to the
// anchor's. The anchor must still be free; it may have been linked while
// the line was being drawn.
func (s *Scene) canJoin(anchor, target *ConnectionPoint) bool {
	if !anchor.Available() || target == nil || !target.Available() {
		return false
	}
	if target.Direction() == anchor.Direction() {
		return false
	}
	from, to := anchor.Component(), target.Component()
	return from != to && !from.IsConnectedTo(to)
}

// canRewire is the drop rule for moving one end of an existing line. The
// target takes the place of the grabbed port, so it must share its
// direction; it may sit on the same component as the grabbed port.
func (s *Scene) canRewire(w wireState, target *ConnectionPoint) bool {
	if target == nil || target == w.grabbed || !target.Available() {
		return false
	}
	if target.Direction() != w.grabbed.Direction() {
		return false
	}
	from, to := w.anchor.Component(), target.Component()
	if from == to {
		return false
	}
	return to == w.grabbed.Component() || !from.IsConnectedTo(to)
}

func (s *Scene) resetInteraction() {
	s.mode = Idle
	s.drag = dragState{}
	s.wire = wireState{}
}

// orient returns the pair as (output, input).
func orient(a, b *ConnectionPoint) (*ConnectionPoint, *ConnectionPoint) {
	if a.Direction() == In {
		return b, a
	}
	return a, b
}
