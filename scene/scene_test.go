package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// block is a plain rectangular component for tests. At (x, y) with one
// port per side its input sits at (x-1, y+2) and its output at (x+10, y+2).
type block struct {
	Node
}

func newBlock(x, y float64, inputs, outputs int) *block {
	b := &block{}
	b.Init(b, Pt(x, y), Pt(10, 4), inputs, outputs)
	return b
}

func (b *block) Draw(c Canvas, st Style) {
	c.DrawRect(b.Bounds(), st)
	b.DrawPorts(c, st)
}

type recorder struct {
	rects []Rect
	lines []Style
	ports int
}

func (r *recorder) DrawRect(b Rect, st Style)                { r.rects = append(r.rects, b) }
func (r *recorder) DrawEllipse(b Rect, st Style)             { r.rects = append(r.rects, b) }
func (r *recorder) DrawPolygon(pts []Point, st Style)        {}
func (r *recorder) DrawText(at Point, text string, st Style) {}
func (r *recorder) DrawLine(from, to Point, st Style)        { r.lines = append(r.lines, st) }
func (r *recorder) DrawPort(p *ConnectionPoint, st Style)    { r.ports++ }

// snapshot captures everything an undo must restore.
type snapshot struct {
	components []Component
	lines      []*ConnectionLine
	bounds     map[Component]Rect
	links      map[*ConnectionPoint]*ConnectionPoint
}

func takeSnapshot(s *Scene, all ...Component) snapshot {
	snap := snapshot{
		components: s.Components(),
		lines:      s.Lines(),
		bounds:     make(map[Component]Rect),
		links:      make(map[*ConnectionPoint]*ConnectionPoint),
	}
	for _, c := range all {
		snap.bounds[c] = c.Bounds()
		for _, p := range append(c.InConnectionPoints(), c.OutConnectionPoints()...) {
			snap.links[p] = p.Connection()
		}
	}
	return snap
}

func sceneWith(cs ...Component) *Scene {
	s := New()
	for _, c := range cs {
		s.AddComponent(c)
	}
	return s
}

func TestAddRemoveRestoresMembership(t *testing.T) {
	x := newBlock(0, 0, 1, 1)
	y := newBlock(20, 0, 1, 1)
	s := sceneWith(y)
	before := s.Components()

	require.True(t, s.AddComponent(x))
	require.NotNil(t, s.ConnectComponents(x, y))
	require.True(t, s.RemoveComponent(x))

	assert.Equal(t, before, s.Components())
	assert.Empty(t, s.Lines())
	assert.Nil(t, y.InConnectionPoints()[0].Connection())
	assert.False(t, y.IsConnectedTo(x))
}

func TestAddComponentRejectsDuplicatesAndNil(t *testing.T) {
	x := newBlock(0, 0, 1, 1)
	s := sceneWith(x)

	assert.False(t, s.AddComponent(x))
	assert.False(t, s.AddComponent(nil))
	assert.Len(t, s.Components(), 1)
	undo, _ := s.History().Len()
	assert.Equal(t, 1, undo)
}

func TestRemoveMissingComponent(t *testing.T) {
	s := sceneWith(newBlock(0, 0, 1, 1))
	assert.False(t, s.RemoveComponent(newBlock(50, 0, 1, 1)))
	assert.False(t, s.RemoveComponent(nil))
	assert.Len(t, s.Components(), 1)
}

func TestConnectSelfIsRejected(t *testing.T) {
	x := newBlock(0, 0, 1, 1)
	s := sceneWith(x)

	assert.Nil(t, s.ConnectComponents(x, x))
	assert.Empty(t, s.Lines())
	assert.False(t, x.IsConnectedTo(x))
}

func TestConnectIsSymmetric(t *testing.T) {
	a := newBlock(0, 0, 1, 1)
	b := newBlock(20, 0, 1, 1)
	s := sceneWith(a, b)

	l := s.ConnectComponents(a, b)
	require.NotNil(t, l)
	assert.True(t, a.IsConnectedTo(b))
	assert.True(t, b.IsConnectedTo(a))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Joins(a, b))
}

func TestConnectRefusals(t *testing.T) {
	a := newBlock(0, 0, 1, 2)
	b := newBlock(20, 0, 1, 1)
	c := newBlock(40, 0, 1, 1)
	outside := newBlock(60, 0, 1, 1)
	s := sceneWith(a, b, c)

	require.NotNil(t, s.ConnectComponents(a, b))
	assert.Nil(t, s.ConnectComponents(a, b), "already connected")
	assert.Nil(t, s.ConnectComponents(a, outside), "not in scene")
	assert.Nil(t, s.ConnectComponents(c, b), "no free input on b")
	assert.Len(t, s.Lines(), 1)
}

func TestDisconnectUndoesConnect(t *testing.T) {
	a := newBlock(0, 0, 1, 1)
	b := newBlock(20, 0, 1, 1)
	s := sceneWith(a, b)

	l := s.ConnectComponents(a, b)
	require.NotNil(t, l)
	require.True(t, s.DisconnectComponents(b, a))

	assert.False(t, a.IsConnectedTo(b))
	assert.False(t, b.IsConnectedTo(a))
	assert.NotContains(t, s.Lines(), l)
	assert.Nil(t, a.OutConnectionPoints()[0].Connection())
	assert.Nil(t, b.InConnectionPoints()[0].Connection())

	assert.False(t, s.DisconnectComponents(a, b))
}

func TestMoveRoundTrip(t *testing.T) {
	x := newBlock(3, 7, 1, 1)
	s := sceneWith(x)
	before := x.Bounds()

	require.True(t, s.MoveComponent(x, Pt(12.5, -4.25)))
	require.True(t, s.MoveComponent(x, Pt(-12.5, 4.25)))

	assert.Equal(t, before, x.Bounds())
	assert.False(t, s.MoveComponent(x, Pt(0, 0)))
}

func TestUndoRestoresExactState(t *testing.T) {
	tests := []struct {
		name string
		act  func(s *Scene, a, b, c *block)
	}{
		{"add", func(s *Scene, a, b, c *block) { s.AddComponent(newBlock(80, 0, 1, 1)) }},
		{"delete", func(s *Scene, a, b, c *block) { s.RemoveComponent(b) }},
		{"delete many", func(s *Scene, a, b, c *block) { s.RemoveComponents(c, a) }},
		{"move", func(s *Scene, a, b, c *block) { s.MoveComponent(a, Pt(5, 5)) }},
		{"connect", func(s *Scene, a, b, c *block) { s.ConnectComponents(b, c) }},
		{"disconnect", func(s *Scene, a, b, c *block) { s.DisconnectComponents(a, b) }},
		{"move line", func(s *Scene, a, b, c *block) {
			s.MoveLine(s.LineBetween(a, b), a.OutConnectionPoints()[0], c.InConnectionPoints()[0])
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newBlock(0, 0, 1, 1)
			b := newBlock(20, 0, 1, 1)
			c := newBlock(40, 0, 1, 1)
			s := sceneWith(a, b, c)
			require.NotNil(t, s.ConnectComponents(a, b))
			before := takeSnapshot(s, a, b, c)
			depth, _ := s.History().Len()

			tt.act(s, a, b, c)
			undo, _ := s.History().Len()
			require.Equal(t, depth+1, undo, "action was not recorded")
			require.True(t, s.Undo())

			assert.Equal(t, before, takeSnapshot(s, a, b, c))
		})
	}
}

func TestRedoReappliesUndoneAction(t *testing.T) {
	a := newBlock(0, 0, 1, 1)
	b := newBlock(20, 0, 1, 1)
	s := sceneWith(a, b)
	require.NotNil(t, s.ConnectComponents(a, b))
	require.True(t, s.RemoveComponent(a))
	after := takeSnapshot(s, a, b)

	require.True(t, s.Undo())
	require.True(t, s.Redo())

	assert.Equal(t, after, takeSnapshot(s, a, b))
	assert.False(t, s.Redo())
}

func TestUndoOnEmptyHistory(t *testing.T) {
	s := New()
	assert.False(t, s.Undo())
	assert.False(t, s.CanUndo())
	assert.Empty(t, s.Components())
}

func TestScenarioConnect(t *testing.T) {
	x := newBlock(0, 0, 2, 1)
	y := newBlock(30, 0, 1, 1)
	s := sceneWith(x, y)

	require.NotNil(t, s.ConnectComponents(x, y))

	assert.Len(t, s.Lines(), 1)
	assert.Same(t, y.InConnectionPoints()[0], x.OutConnectionPoints()[0].Connection())
}

func TestScenarioDeleteAndUndo(t *testing.T) {
	x := newBlock(0, 0, 2, 1)
	y := newBlock(30, 0, 1, 1)
	s := sceneWith(x, y)
	l := s.ConnectComponents(x, y)
	require.NotNil(t, l)

	require.True(t, s.RemoveComponent(x))
	assert.Empty(t, s.Lines())
	assert.Equal(t, []Component{y}, s.Components())
	assert.Nil(t, y.InConnectionPoints()[0].Connection())

	require.True(t, s.Undo())
	assert.Equal(t, []Component{x, y}, s.Components())
	assert.Equal(t, []*ConnectionLine{l}, s.Lines())
	assert.Same(t, x.OutConnectionPoints()[0], y.InConnectionPoints()[0].Connection())
	assert.True(t, y.IsConnectedTo(x))
}

func TestComponentAtPrefersTopmost(t *testing.T) {
	bottom := newBlock(0, 0, 1, 1)
	top := newBlock(5, 2, 1, 1)
	s := sceneWith(bottom, top)

	assert.Same(t, top, s.ComponentAt(Pt(6, 3)))
	assert.Same(t, bottom, s.ComponentAt(Pt(1, 1)))
	assert.Nil(t, s.ComponentAt(Pt(100, 100)))
}

func TestUndoRestoresZOrder(t *testing.T) {
	a := newBlock(0, 0, 1, 1)
	b := newBlock(5, 0, 1, 1)
	c := newBlock(10, 0, 1, 1)
	s := sceneWith(a, b, c)

	require.True(t, s.RemoveComponent(b))
	require.True(t, s.Undo())

	assert.Equal(t, []Component{a, b, c}, s.Components())
}

func TestMoveLineValidation(t *testing.T) {
	a := newBlock(0, 0, 1, 1)
	b := newBlock(20, 0, 1, 1)
	c := newBlock(40, 0, 1, 1)
	s := sceneWith(a, b, c)
	l := s.ConnectComponents(a, b)
	require.NotNil(t, l)
	require.NotNil(t, s.ConnectComponents(b, c))

	aOut, bIn, cIn := a.OutConnectionPoints()[0], b.InConnectionPoints()[0], c.InConnectionPoints()[0]

	assert.False(t, s.MoveLine(l, bIn, aOut), "wrong directions")
	assert.False(t, s.MoveLine(l, aOut, bIn), "no change")
	assert.False(t, s.MoveLine(l, aOut, cIn), "c's input is taken")
	assert.False(t, s.MoveLine(l, aOut, a.InConnectionPoints()[0]), "same component")

	require.True(t, s.RemoveLine(s.LineBetween(b, c)))
	require.True(t, s.MoveLine(l, aOut, cIn))
	assert.Same(t, cIn, aOut.Connection())
	assert.Nil(t, bIn.Connection())
	assert.True(t, a.IsConnectedTo(c))
	assert.False(t, a.IsConnectedTo(b))
}

func TestExtent(t *testing.T) {
	s := New()
	_, ok := s.Extent()
	assert.False(t, ok)

	s.AddComponent(newBlock(0, 0, 1, 1))
	s.AddComponent(newBlock(20, 10, 1, 1))
	r, ok := s.Extent()
	require.True(t, ok)
	assert.Equal(t, Pt(-1.5, 0), r.Min)
	assert.Equal(t, Pt(30.5, 14), r.Max)
}

func TestRedrawNotification(t *testing.T) {
	a := newBlock(0, 0, 1, 1)
	b := newBlock(20, 0, 1, 1)
	s := New()
	var calls int
	s.OnRedraw(func() { calls++ })

	s.AddComponent(a)
	s.AddComponent(b)
	s.ConnectComponents(a, b)
	assert.Equal(t, 3, calls)

	s.OnRedraw(nil)
	s.RemoveComponent(a)
	assert.Equal(t, 3, calls)
}

func TestDrawOrder(t *testing.T) {
	a := newBlock(0, 0, 1, 1)
	b := newBlock(20, 0, 1, 1)
	s := sceneWith(a, b)
	s.ConnectComponents(a, b)

	var r recorder
	s.Draw(&r)

	assert.Equal(t, []Rect{a.Bounds(), b.Bounds()}, r.rects)
	assert.Equal(t, 4, r.ports)
	require.Len(t, r.lines, 1)
	assert.False(t, r.lines[0].Transient)
	assert.True(t, r.lines[0].Arrow)
}

func TestConnectPointsRefusesLinkedPort(t *testing.T) {
	a := newBlock(0, 0, 1, 1)
	b := newBlock(20, 0, 1, 1)
	c := newBlock(40, 0, 1, 1)
	s := sceneWith(a, b, c)
	require.NotNil(t, s.ConnectComponents(a, b))
	before := takeSnapshot(s, a, b, c)
	depth, _ := s.History().Len()

	assert.Nil(t, s.connectPoints(a.OutConnectionPoints()[0], c.InConnectionPoints()[0]))

	assert.Equal(t, before, takeSnapshot(s, a, b, c))
	assert.False(t, a.IsConnectedTo(c))
	undo, _ := s.History().Len()
	assert.Equal(t, depth, undo)
}
