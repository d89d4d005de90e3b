package scene

// Style carries per-draw state a Canvas may render differently.
type Style struct {
	Selected  bool // component under the pointer's last press
	Transient bool // line still following the pointer
	Arrow     bool // arrowhead at the line's end
	Running   bool // component's run flag is set
}

// Canvas is the drawing surface the host hands to Scene.Draw once per
// frame. Coordinates are scene coordinates; mapping them to cells or pixels
// is up to the implementation.
type Canvas interface {
	DrawRect(r Rect, st Style)
	DrawEllipse(r Rect, st Style)
	DrawPolygon(pts []Point, st Style)
	DrawText(at Point, text string, st Style)
	DrawLine(from, to Point, st Style)
	DrawPort(p *ConnectionPoint, st Style)
}
