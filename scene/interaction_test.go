package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragMovesComponent(t *testing.T) {
	x := newBlock(0, 0, 1, 1)
	s := sceneWith(x)
	depth, _ := s.History().Len()

	s.HandleMouseDown(Pt(2, 2))
	require.Equal(t, Dragging, s.Mode())
	assert.Same(t, x, s.Selected())

	s.HandleMouseMove(Pt(7, 7))
	assert.Equal(t, Pt(5, 5), x.Position())
	s.HandleMouseMove(Pt(12, 12))
	s.HandleMouseUp(Pt(12, 12))

	assert.Equal(t, Idle, s.Mode())
	assert.Equal(t, Pt(10, 10), x.Position())
	assert.Empty(t, s.Lines())

	undo, _ := s.History().Len()
	require.Equal(t, depth+1, undo, "a drag is one action")
	move, ok := s.History().Peek().(*MoveAction)
	require.True(t, ok)
	assert.Equal(t, Pt(10, 10), move.Offset())

	require.True(t, s.Undo())
	assert.Equal(t, Pt(0, 0), x.Position())
	assert.Equal(t, Pt(10, 2), x.OutConnectionPoints()[0].Position())
}

func TestClickWithoutMovingRecordsNothing(t *testing.T) {
	x := newBlock(0, 0, 1, 1)
	s := sceneWith(x)
	depth, _ := s.History().Len()

	s.HandleMouseDown(Pt(2, 2))
	s.HandleMouseUp(Pt(2, 2))

	undo, _ := s.History().Len()
	assert.Equal(t, depth, undo)
	assert.Same(t, x, s.Selected())
}

func TestPressOnEmptyCanvasClearsSelection(t *testing.T) {
	x := newBlock(0, 0, 1, 1)
	s := sceneWith(x)
	s.HandleMouseDown(Pt(2, 2))
	s.HandleMouseUp(Pt(2, 2))

	s.HandleMouseDown(Pt(50, 50))
	assert.Equal(t, Idle, s.Mode())
	assert.Nil(t, s.Selected())
}

func TestDrawLineBetweenPorts(t *testing.T) {
	x := newBlock(0, 0, 1, 1)
	y := newBlock(30, 0, 1, 1)
	s := sceneWith(x, y)
	out, in := x.OutConnectionPoints()[0], y.InConnectionPoints()[0]

	s.HandleMouseDown(out.Position())
	require.Equal(t, DrawingLine, s.Mode())
	require.NotNil(t, s.Transient())
	assert.Empty(t, s.Lines(), "a transient line is not stored")

	s.HandleMouseMove(Pt(20, 5))
	assert.Equal(t, Pt(20, 5), s.Transient().EndPosition())

	s.HandleMouseMove(in.Position())
	s.HandleMouseUp(in.Position())

	assert.Equal(t, Idle, s.Mode())
	assert.Nil(t, s.Transient())
	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Same(t, out, lines[0].Start())
	assert.Same(t, in, lines[0].End())
	assert.Same(t, in, out.Connection())
}

func TestDrawLineFromInputIsStoredOutToIn(t *testing.T) {
	x := newBlock(0, 0, 1, 1)
	y := newBlock(30, 0, 1, 1)
	s := sceneWith(x, y)
	out, in := x.OutConnectionPoints()[0], y.InConnectionPoints()[0]

	s.HandleMouseDown(in.Position())
	s.HandleMouseUp(out.Position())

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Same(t, out, lines[0].Start())
	assert.Same(t, in, lines[0].End())
}

func TestDroppedLinesLeaveSceneUnchanged(t *testing.T) {
	tests := []struct {
		name string
		drop func(x, y *block) Point
	}{
		{"empty canvas", func(x, y *block) Point { return Pt(50, 50) }},
		{"own port", func(x, y *block) Point { return x.InConnectionPoints()[0].Position() }},
		{"same direction", func(x, y *block) Point { return y.OutConnectionPoints()[0].Position() }},
		{"component body", func(x, y *block) Point { return Pt(32, 2) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := newBlock(0, 0, 1, 1)
			y := newBlock(30, 0, 1, 1)
			s := sceneWith(x, y)
			before := takeSnapshot(s, x, y)
			depth, _ := s.History().Len()

			s.HandleMouseDown(x.OutConnectionPoints()[0].Position())
			s.HandleMouseUp(tt.drop(x, y))

			assert.Equal(t, Idle, s.Mode())
			assert.Equal(t, before, takeSnapshot(s, x, y))
			undo, _ := s.History().Len()
			assert.Equal(t, depth, undo)
		})
	}
}

func TestDropOnAlreadyConnectedComponent(t *testing.T) {
	x := newBlock(0, 0, 1, 2)
	y := newBlock(30, 0, 2, 1)
	s := sceneWith(x, y)
	require.NotNil(t, s.ConnectComponents(x, y))

	s.HandleMouseDown(x.OutConnectionPoints()[1].Position())
	s.HandleMouseUp(y.InConnectionPoints()[1].Position())

	assert.Len(t, s.Lines(), 1)
}

func TestDisabledPortDoesNotStartLine(t *testing.T) {
	x := newBlock(0, 0, 1, 1)
	s := sceneWith(x)
	out := x.OutConnectionPoints()[0]
	out.Enabled = false

	s.HandleMouseDown(out.Position())

	assert.Equal(t, Idle, s.Mode())
	assert.Nil(t, s.Transient())
}

func TestPressDuringGestureIsIgnored(t *testing.T) {
	x := newBlock(0, 0, 1, 1)
	y := newBlock(30, 0, 1, 1)
	s := sceneWith(x, y)

	s.HandleMouseDown(Pt(2, 2))
	s.HandleMouseDown(Pt(32, 2))

	assert.Equal(t, Dragging, s.Mode())
	assert.Same(t, x, s.Selected())
}

func TestUndoIsRefusedMidGesture(t *testing.T) {
	x := newBlock(0, 0, 1, 1)
	s := sceneWith(x)

	s.HandleMouseDown(Pt(2, 2))
	assert.False(t, s.CanUndo())
	assert.False(t, s.Undo())
	assert.Len(t, s.Components(), 1)

	s.HandleMouseUp(Pt(2, 2))
	assert.True(t, s.Undo())
	assert.Empty(t, s.Components())
}

func TestRemovingDraggedComponentEndsGesture(t *testing.T) {
	x := newBlock(0, 0, 1, 1)
	s := sceneWith(x)

	s.HandleMouseDown(Pt(2, 2))
	require.True(t, s.RemoveComponent(x))

	assert.Equal(t, Idle, s.Mode())
	assert.Nil(t, s.Selected())
	s.HandleMouseMove(Pt(20, 20))
	s.HandleMouseUp(Pt(20, 20))
	assert.Equal(t, Pt(0, 0), x.Position())
}

func TestRemovingLineSourceEndsGesture(t *testing.T) {
	x := newBlock(0, 0, 1, 1)
	y := newBlock(30, 0, 1, 1)
	s := sceneWith(x, y)

	s.HandleMouseDown(x.OutConnectionPoints()[0].Position())
	require.True(t, s.RemoveComponent(x))

	assert.Equal(t, Idle, s.Mode())
	assert.Nil(t, s.Transient())
	s.HandleMouseUp(y.InConnectionPoints()[0].Position())
	assert.Empty(t, s.Lines())
}

func TestRewireLinkedPort(t *testing.T) {
	a := newBlock(0, 0, 1, 1)
	b := newBlock(20, 0, 1, 1)
	c := newBlock(20, 10, 1, 1)
	s := sceneWith(a, b, c)
	l := s.ConnectComponents(a, b)
	require.NotNil(t, l)
	aOut, bIn, cIn := a.OutConnectionPoints()[0], b.InConnectionPoints()[0], c.InConnectionPoints()[0]

	s.HandleMouseDown(bIn.Position())
	require.Equal(t, DrawingLine, s.Mode())

	var r recorder
	s.Draw(&r)
	require.Len(t, r.lines, 1, "the line being rewired is hidden")
	assert.True(t, r.lines[0].Transient)

	s.HandleMouseMove(cIn.Position())
	s.HandleMouseUp(cIn.Position())

	assert.Equal(t, []*ConnectionLine{l}, s.Lines())
	assert.Same(t, aOut, l.Start())
	assert.Same(t, cIn, l.End())
	assert.Nil(t, bIn.Connection())
	assert.True(t, a.IsConnectedTo(c))
	assert.False(t, b.IsConnectedTo(a))
	_, ok := s.History().Peek().(*MoveLineAction)
	assert.True(t, ok)

	require.True(t, s.Undo())
	assert.Same(t, bIn, l.End())
	assert.Same(t, bIn, aOut.Connection())
	assert.Nil(t, cIn.Connection())
}

func TestRewireDroppedKeepsLine(t *testing.T) {
	a := newBlock(0, 0, 1, 1)
	b := newBlock(20, 0, 1, 1)
	s := sceneWith(a, b)
	l := s.ConnectComponents(a, b)
	require.NotNil(t, l)
	bIn := b.InConnectionPoints()[0]

	s.HandleMouseDown(bIn.Position())
	s.HandleMouseUp(Pt(60, 60))

	assert.Equal(t, []*ConnectionLine{l}, s.Lines())
	assert.Same(t, bIn, l.End())
	assert.Same(t, bIn, a.OutConnectionPoints()[0].Connection())
}

func TestDrawShowsTransientLine(t *testing.T) {
	x := newBlock(0, 0, 1, 1)
	s := sceneWith(x)

	s.HandleMouseDown(x.OutConnectionPoints()[0].Position())
	s.HandleMouseMove(Pt(20, 20))

	var r recorder
	s.Draw(&r)
	require.Len(t, r.lines, 1)
	assert.True(t, r.lines[0].Transient)
	assert.True(t, r.lines[0].Arrow)
}

func TestDropFromPortLinkedMidGesture(t *testing.T) {
	x := newBlock(0, 0, 1, 1)
	y := newBlock(30, 0, 1, 1)
	z := newBlock(30, 10, 1, 1)
	s := sceneWith(x, y, z)
	out := x.OutConnectionPoints()[0]

	s.HandleMouseDown(out.Position())
	require.Equal(t, DrawingLine, s.Mode())
	l := s.ConnectComponents(x, z)
	require.NotNil(t, l)
	depth, _ := s.History().Len()

	s.HandleMouseUp(y.InConnectionPoints()[0].Position())

	assert.Equal(t, Idle, s.Mode())
	assert.Equal(t, []*ConnectionLine{l}, s.Lines())
	assert.Same(t, z.InConnectionPoints()[0], out.Connection())
	assert.Nil(t, y.InConnectionPoints()[0].Connection())
	assert.False(t, x.IsConnectedTo(y))
	undo, _ := s.History().Len()
	assert.Equal(t, depth, undo)
}
