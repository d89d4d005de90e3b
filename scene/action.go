package scene

import "gonum.org/v1/gonum/spatial/r2"

type ActionKind int

const (
	ActionAdd ActionKind = iota
	ActionDelete
	ActionMove
	ActionConnect
	ActionDisconnect
	ActionMoveLine
)

func (k ActionKind) String() string {
	switch k {
	case ActionAdd:
		return "add"
	case ActionDelete:
		return "delete"
	case ActionMove:
		return "move"
	case ActionConnect:
		return "connect"
	case ActionDisconnect:
		return "disconnect"
	case ActionMoveLine:
		return "move line"
	default:
		return "unknown"
	}
}

// Action is one reversible change to a Scene. Execute applies the change
// from the captured state and Undo reverses it exactly. The Scene applies
// the change when the user acts, before the action is pushed; Execute runs
// again only on redo.
type Action interface {
	Kind() ActionKind
	Execute()
	Undo()
}

type componentRecord struct {
	component Component
	index     int
}

type lineRecord struct {
	line       *ConnectionLine
	index      int
	start, end *ConnectionPoint
}

// AddAction records a component added to the scene.
type AddAction struct {
	scene     *Scene
	component Component
	index     int
}

func (a *AddAction) Kind() ActionKind     { return ActionAdd }
func (a *AddAction) Component() Component { return a.component }

func (a *AddAction) Execute() {
	a.scene.insertComponent(a.component, a.index)
}

func (a *AddAction) Undo() {
	a.scene.detachComponent(a.component)
}

// DeleteAction records components removed together with every line that
// touched them, so one Undo brings all of it back.
type DeleteAction struct {
	scene      *Scene
	components []componentRecord // ascending index
	lines      []lineRecord      // ascending index
}

func (a *DeleteAction) Kind() ActionKind { return ActionDelete }

func (a *DeleteAction) Components() []Component {
	out := make([]Component, len(a.components))
	for i, r := range a.components {
		out[i] = r.component
	}
	return out
}

func (a *DeleteAction) Lines() []*ConnectionLine {
	out := make([]*ConnectionLine, len(a.lines))
	for i, r := range a.lines {
		out[i] = r.line
	}
	return out
}

// Execute removes from the back so the recorded indices stay valid.
func (a *DeleteAction) Execute() {
	for i := len(a.lines) - 1; i >= 0; i-- {
		a.scene.detachLine(a.lines[i].line)
	}
	for i := len(a.components) - 1; i >= 0; i-- {
		a.scene.detachComponent(a.components[i].component)
	}
}

func (a *DeleteAction) Undo() {
	for _, r := range a.components {
		a.scene.insertComponent(r.component, r.index)
	}
	for _, r := range a.lines {
		r.line.start, r.line.end = r.start, r.end
		a.scene.insertLine(r.line, r.index)
	}
}

// MoveAction records a translation of one component.
type MoveAction struct {
	scene     *Scene
	component Component
	offset    Point
}

func (a *MoveAction) Kind() ActionKind     { return ActionMove }
func (a *MoveAction) Component() Component { return a.component }
func (a *MoveAction) Offset() Point        { return a.offset }

func (a *MoveAction) Execute() {
	a.component.Move(a.offset)
}

func (a *MoveAction) Undo() {
	a.component.Move(r2.Scale(-1, a.offset))
}

// ConnectAction records a new line between two components.
type ConnectAction struct {
	scene *Scene
	line  *ConnectionLine
	index int
}

func (a *ConnectAction) Kind() ActionKind       { return ActionConnect }
func (a *ConnectAction) Line() *ConnectionLine { return a.line }

func (a *ConnectAction) Execute() {
	a.scene.insertLine(a.line, a.index)
}

func (a *ConnectAction) Undo() {
	x, y := a.line.Components()
	a.scene.disconnectComponents(x, y)
}

// DisconnectAction records a removed line and the ports it joined.
type DisconnectAction struct {
	scene  *Scene
	record lineRecord
}

func (a *DisconnectAction) Kind() ActionKind       { return ActionDisconnect }
func (a *DisconnectAction) Line() *ConnectionLine { return a.record.line }

func (a *DisconnectAction) Execute() {
	a.scene.detachLine(a.record.line)
}

func (a *DisconnectAction) Undo() {
	r := a.record
	r.line.start, r.line.end = r.start, r.end
	a.scene.insertLine(r.line, r.index)
}

// MoveLineAction records a line re-attached to different ports.
type MoveLineAction struct {
	scene              *Scene
	line               *ConnectionLine
	fromStart, fromEnd *ConnectionPoint
	toStart, toEnd     *ConnectionPoint
}

func (a *MoveLineAction) Kind() ActionKind       { return ActionMoveLine }
func (a *MoveLineAction) Line() *ConnectionLine { return a.line }

func (a *MoveLineAction) Execute() {
	a.scene.reattachLine(a.line, a.toStart, a.toEnd)
}

func (a *MoveLineAction) Undo() {
	a.scene.reattachLine(a.line, a.fromStart, a.fromEnd)
}
