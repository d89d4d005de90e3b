package scene

import (
	"io"
	"log/slog"
	"slices"
)

// Mode is the interaction state. Exactly one is active at a time.
type Mode int

const (
	Idle Mode = iota
	Dragging
	DrawingLine
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case DrawingLine:
		return "drawing line"
	default:
		return "unknown"
	}
}

type Option func(*Scene)

// WithLogger sets the logger for mutation and interaction traces.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.log = l
		}
	}
}

// WithHistoryLimit bounds the undo stack.
func WithHistoryLimit(n int) Option {
	return func(s *Scene) {
		s.history = NewHistory(n)
	}
}

// Scene owns the components and lines of one diagram and turns pointer
// events into changes to them.
//
// Z-order policy: components are drawn in slice order, so the last added
// is on top, and hit-testing walks the slice from the back, so the
// topmost body under the pointer wins. Undo puts removed components back
// at their old index, which keeps the order stable.
type Scene struct {
	components []Component
	lines      []*ConnectionLine
	history    *History
	log        *slog.Logger
	onRedraw   func()

	mode     Mode
	selected Component
	drag     dragState
	wire     wireState
}

func New(opts ...Option) *Scene {
	s := &Scene{
		history: NewHistory(DefaultHistoryLimit),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnRedraw registers the single callback fired whenever the scene changes
// in a way the host should repaint. A nil fn unsubscribes.
func (s *Scene) OnRedraw(fn func()) {
	s.onRedraw = fn
}

func (s *Scene) redraw() {
	if s.onRedraw != nil {
		s.onRedraw()
	}
}

// Components returns the components in z-order, bottom first.
func (s *Scene) Components() []Component {
	return slices.Clone(s.components)
}

// Lines returns the finalized lines in draw order.
func (s *Scene) Lines() []*ConnectionLine {
	return slices.Clone(s.lines)
}

func (s *Scene) Contains(c Component) bool {
	return s.indexOf(c) >= 0
}

func (s *Scene) Mode() Mode { return s.mode }

// Selected is the component last pressed, or nil.
func (s *Scene) Selected() Component { return s.selected }

// Transient returns the line following the pointer, or nil when no line
// is being drawn.
func (s *Scene) Transient() *ConnectionLine { return s.wire.line }

func (s *Scene) History() *History { return s.history }

// ComponentAt returns the topmost component whose body contains p.
func (s *Scene) ComponentAt(p Point) Component {
	for i := len(s.components) - 1; i >= 0; i-- {
		if s.components[i].HitTest(p) {
			return s.components[i]
		}
	}
	return nil
}

// PointAt returns the port under p, searching components from the top.
func (s *Scene) PointAt(p Point) *ConnectionPoint {
	for i := len(s.components) - 1; i >= 0; i-- {
		c := s.components[i]
		for _, pt := range c.InConnectionPoints() {
			if pt.Contains(p) {
				return pt
			}
		}
		for _, pt := range c.OutConnectionPoints() {
			if pt.Contains(p) {
				return pt
			}
		}
	}
	return nil
}

// LineBetween returns the line joining a and b in either direction.
func (s *Scene) LineBetween(a, b Component) *ConnectionLine {
	for _, l := range s.lines {
		if l.Joins(a, b) {
			return l
		}
	}
	return nil
}

// LineAt returns the finalized line with p as one of its ends.
func (s *Scene) LineAt(p *ConnectionPoint) *ConnectionLine {
	for _, l := range s.lines {
		if l.Has(p) {
			return l
		}
	}
	return nil
}

// Extent returns the rectangle covering every component and line. ok is
// false for an empty scene.
func (s *Scene) Extent() (r Rect, ok bool) {
	for _, c := range s.components {
		b := c.Bounds()
		for _, p := range c.InConnectionPoints() {
			b = Union(b, p.Bounds())
		}
		for _, p := range c.OutConnectionPoints() {
			b = Union(b, p.Bounds())
		}
		if !ok {
			r, ok = b, true
			continue
		}
		r = Union(r, b)
	}
	return r, ok
}

// AddComponent puts c on top of the scene. Adding nil or a component
// already present does nothing.
func (s *Scene) AddComponent(c Component) bool {
	if c == nil || s.Contains(c) {
		return false
	}
	a := &AddAction{scene: s, component: c, index: len(s.components)}
	a.Execute()
	s.history.Push(a)
	s.log.Debug("component added", "component", c.ID(), "index", a.index)
	s.redraw()
	return true
}

// RemoveComponent removes c and every line touching it.
func (s *Scene) RemoveComponent(c Component) bool {
	return s.RemoveComponents(c)
}

// RemoveComponents removes the given components and all their lines as a
// single undoable step. Components not in the scene are ignored.
func (s *Scene) RemoveComponents(cs ...Component) bool {
	var crecs []componentRecord
	for _, c := range cs {
		i := s.indexOf(c)
		if i < 0 || slices.ContainsFunc(crecs, func(r componentRecord) bool { return r.component == c }) {
			continue
		}
		crecs = append(crecs, componentRecord{component: c, index: i})
	}
	if len(crecs) == 0 {
		return false
	}
	slices.SortFunc(crecs, func(a, b componentRecord) int { return a.index - b.index })

	var lrecs []lineRecord
	for i, l := range s.lines {
		if slices.ContainsFunc(crecs, func(r componentRecord) bool { return l.Touches(r.component) }) {
			lrecs = append(lrecs, lineRecord{line: l, index: i, start: l.start, end: l.end})
		}
	}

	a := &DeleteAction{scene: s, components: crecs, lines: lrecs}
	a.Execute()
	s.history.Push(a)
	s.log.Debug("components removed", "count", len(crecs), "lines", len(lrecs))
	s.redraw()
	return true
}

// ConnectComponents joins the first available output of a to the first
// available input of b. It returns nil, changing nothing, when a and b
// are the same, either is missing from the scene, they are already
// connected, or either lacks a free port.
func (s *Scene) ConnectComponents(a, b Component) *ConnectionLine {
	if a == nil || b == nil || a == b {
		return nil
	}
	if !s.Contains(a) || !s.Contains(b) || a.IsConnectedTo(b) {
		return nil
	}
	out := firstAvailable(a.OutConnectionPoints())
	in := firstAvailable(b.InConnectionPoints())
	if out == nil || in == nil {
		return nil
	}
	return s.connectPoints(out, in)
}

// DisconnectComponents removes the line between a and b, whichever way it
// runs.
func (s *Scene) DisconnectComponents(a, b Component) bool {
	l := s.LineBetween(a, b)
	if l == nil {
		return false
	}
	return s.RemoveLine(l)
}

// RemoveLine removes one finalized line and unlinks its ports.
func (s *Scene) RemoveLine(l *ConnectionLine) bool {
	i := slices.Index(s.lines, l)
	if i < 0 {
		return false
	}
	a := &DisconnectAction{scene: s, record: lineRecord{line: l, index: i, start: l.start, end: l.end}}
	a.Execute()
	s.history.Push(a)
	s.log.Debug("line removed", "line", l.ID())
	s.redraw()
	return true
}

// MoveComponent translates c by offset as one undoable step.
func (s *Scene) MoveComponent(c Component, offset Point) bool {
	if !s.Contains(c) || isZero(offset) {
		return false
	}
	a := &MoveAction{scene: s, component: c, offset: offset}
	a.Execute()
	s.history.Push(a)
	s.log.Debug("component moved", "component", c.ID(), "dx", offset.X, "dy", offset.Y)
	s.redraw()
	return true
}

// MoveLine re-attaches l to start and end. The new ports must be an
// output and an input on two different components in the scene, each
// either already an end of l or free, and the new pair must not already
// be joined by another line.
func (s *Scene) MoveLine(l *ConnectionLine, start, end *ConnectionPoint) bool {
	if !slices.Contains(s.lines, l) || start == nil || end == nil {
		return false
	}
	if start.Direction() != Out || end.Direction() != In {
		return false
	}
	if start == l.start && end == l.end {
		return false
	}
	from, to := start.Component(), end.Component()
	if from == to || !s.Contains(from) || !s.Contains(to) {
		return false
	}
	if (start != l.start && !start.Available()) || (end != l.end && !end.Available()) {
		return false
	}
	if other := s.LineBetween(from, to); other != nil && other != l {
		return false
	}
	a := &MoveLineAction{
		scene:     s,
		line:      l,
		fromStart: l.start,
		fromEnd:   l.end,
		toStart:   start,
		toEnd:     end,
	}
	a.Execute()
	s.history.Push(a)
	s.log.Debug("line moved", "line", l.ID(), "start", start, "end", end)
	s.redraw()
	return true
}

// Undo reverses the newest change. It does nothing mid-gesture or with an
// empty history.
func (s *Scene) Undo() bool {
	if s.mode != Idle {
		return false
	}
	a, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.log.Debug("undo", "action", a.Kind())
	s.redraw()
	return true
}

// Redo replays the newest undone change.
func (s *Scene) Redo() bool {
	if s.mode != Idle {
		return false
	}
	a, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.log.Debug("redo", "action", a.Kind())
	s.redraw()
	return true
}

func (s *Scene) CanUndo() bool { return s.mode == Idle && s.history.CanUndo() }

func (s *Scene) CanRedo() bool { return s.mode == Idle && s.history.CanRedo() }

// Draw renders components bottom to top, then lines, then the line being
// drawn, if any.
func (s *Scene) Draw(c Canvas) {
	for _, comp := range s.components {
		comp.Draw(c, Style{Selected: comp == s.selected})
	}
	for _, l := range s.lines {
		if l == s.wire.rewire {
			continue
		}
		l.Draw(c)
	}
	if s.wire.line != nil {
		s.wire.line.Draw(c)
	}
}

// connectPoints records a new line from out to in. Both ports must be
// free; otherwise nothing is inserted or pushed.
func (s *Scene) connectPoints(out, in *ConnectionPoint) *ConnectionLine {
	if out == in || !out.Available() || !in.Available() {
		s.log.Warn("connect refused, port not free", "start", out, "end", in)
		return nil
	}
	l := NewConnectionLine(out, in)
	a := &ConnectAction{scene: s, line: l, index: len(s.lines)}
	a.Execute()
	s.history.Push(a)
	s.log.Debug("line added", "line", l.ID(), "start", out, "end", in)
	s.redraw()
	return l
}

func (s *Scene) indexOf(c Component) int {
	if c == nil {
		return -1
	}
	return slices.Index(s.components, c)
}

func (s *Scene) insertComponent(c Component, i int) {
	i = max(0, min(i, len(s.components)))
	s.components = slices.Insert(s.components, i, c)
}

// detachComponent drops c and any line still touching it. A gesture that
// was holding c ends.
func (s *Scene) detachComponent(c Component) {
	for i := len(s.lines) - 1; i >= 0; i-- {
		if s.lines[i].Touches(c) {
			s.detachLine(s.lines[i])
		}
	}
	i := s.indexOf(c)
	if i < 0 {
		return
	}
	s.components = slices.Delete(s.components, i, i+1)
	if s.selected == c {
		s.selected = nil
	}
	if s.drag.target == c || (s.wire.anchor != nil && s.wire.anchor.Component() == c) ||
		(s.wire.grabbed != nil && s.wire.grabbed.Component() == c) {
		s.log.Debug("gesture target removed", "mode", s.mode, "component", c.ID())
		s.resetInteraction()
	}
}

func (s *Scene) insertLine(l *ConnectionLine, i int) {
	if !s.link(l) {
		return
	}
	i = max(0, min(i, len(s.lines)))
	s.lines = slices.Insert(s.lines, i, l)
}

func (s *Scene) detachLine(l *ConnectionLine) {
	i := slices.Index(s.lines, l)
	if i < 0 {
		return
	}
	s.unlink(l)
	s.lines = slices.Delete(s.lines, i, i+1)
	if s.wire.rewire == l {
		s.resetInteraction()
	}
}

func (s *Scene) disconnectComponents(a, b Component) {
	if l := s.LineBetween(a, b); l != nil {
		s.detachLine(l)
	}
}

// reattachLine moves l onto start and end, keeping the old ends if the new
// ports cannot be linked.
func (s *Scene) reattachLine(l *ConnectionLine, start, end *ConnectionPoint) {
	oldStart, oldEnd := l.start, l.end
	s.unlink(l)
	l.start, l.end = start, end
	if !s.link(l) {
		l.start, l.end = oldStart, oldEnd
		s.link(l)
	}
}

// link joins the ports of l and records the components as connected. It
// changes nothing and returns false when either port is already linked.
func (s *Scene) link(l *ConnectionLine) bool {
	if !l.start.ConnectTo(l.end) {
		s.log.Warn("port already linked", "line", l.ID(), "start", l.start, "end", l.end)
		return false
	}
	a, b := l.Components()
	a.ConnectTo(b)
	b.ConnectTo(a)
	return true
}

func (s *Scene) unlink(l *ConnectionLine) {
	if l.start.Connection() == l.end {
		l.start.Disconnect()
	}
	a, b := l.Components()
	a.DisconnectFrom(b)
	b.DisconnectFrom(a)
}

func firstAvailable(ports []*ConnectionPoint) *ConnectionPoint {
	for _, p := range ports {
		if p.Available() {
			return p
		}
	}
	return nil
}
