// Package shapes holds the concrete components the editor can place: a
// process box, a decision diamond and a rounded terminator. Each embeds
// scene.Node and adds its own outline, hit-test and port placement.
package shapes

import (
	"math"
	"strings"

	"nodeflow/scene"
)

const (
	minWidth  = 8
	minHeight = 3
)

// sizeFor returns the body size for a label: one cell of padding either
// side and a border row above and below, like a text box.
func sizeFor(label string) scene.Point {
	lines := strings.Split(label, "\n")
	w := minWidth
	for _, line := range lines {
		if len(line)+2 > w {
			w = len(line) + 2
		}
	}
	h := max(len(lines)+2, minHeight)
	return scene.Pt(float64(w), float64(h))
}

// snapLayout is scene.EdgeLayout rounded to whole cells, so ports land on
// the terminal grid and stay where they are drawn.
func snapLayout(bounds scene.Rect, dir scene.Direction, n int, radius float64) []scene.Point {
	centers := scene.EdgeLayout(bounds, dir, n, radius)
	for i := range centers {
		centers[i].Y = math.Floor(centers[i].Y)
	}
	return centers
}

func drawLabel(c scene.Canvas, n *scene.Node, st scene.Style) {
	b := n.Bounds()
	for i, line := range strings.Split(n.Label, "\n") {
		c.DrawText(scene.Pt(b.Min.X+1, b.Min.Y+1+float64(i)), line, st)
	}
}

// Box is a rectangular process step.
type Box struct {
	scene.Node
}

func NewBox(x, y float64, label string, inputs, outputs int) *Box {
	b := &Box{}
	b.Label = label
	b.Init(b, scene.Pt(x, y), sizeFor(label), inputs, outputs)
	return b
}

func (b *Box) Draw(c scene.Canvas, st scene.Style) {
	st.Running = b.Running
	c.DrawRect(b.Bounds(), st)
	drawLabel(c, &b.Node, st)
	b.DrawPorts(c, st)
}

func (b *Box) LayoutPorts(bounds scene.Rect, dir scene.Direction, n int, radius float64) []scene.Point {
	return snapLayout(bounds, dir, n, radius)
}

// Decision is a diamond. Inputs enter from the top, outputs leave from the
// bottom.
type Decision struct {
	scene.Node
}

func NewDecision(x, y float64, label string, outputs int) *Decision {
	d := &Decision{}
	d.Label = label
	size := sizeFor(label)
	// The diamond needs room around the label.
	size.X += 4
	size.Y += 2
	d.Init(d, scene.Pt(x, y), size, 1, outputs)
	return d
}

func (d *Decision) vertices() []scene.Point {
	b := d.Bounds()
	mid := scene.RectCenter(b)
	return []scene.Point{
		scene.Pt(mid.X, b.Min.Y),
		scene.Pt(b.Max.X, mid.Y),
		scene.Pt(mid.X, b.Max.Y),
		scene.Pt(b.Min.X, mid.Y),
	}
}

// HitTest accepts points inside the diamond: every edge must see the point
// on the same side.
func (d *Decision) HitTest(p scene.Point) bool {
	if !scene.ContainsHalfOpen(d.Bounds(), p) {
		return false
	}
	pts := d.vertices()
	var positive, negative bool
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

func (d *Decision) Draw(c scene.Canvas, st scene.Style) {
	st.Running = d.Running
	c.DrawPolygon(d.vertices(), st)
	b := d.Bounds()
	mid := scene.RectCenter(b)
	c.DrawText(scene.Pt(mid.X-float64(len(d.Label))/2, math.Floor(mid.Y)), d.Label, st)
	d.DrawPorts(c, st)
}

// LayoutPorts keeps inputs a port diameter above the top vertex so their
// hit boxes stay off the body.
func (d *Decision) LayoutPorts(bounds scene.Rect, dir scene.Direction, n int, radius float64) []scene.Point {
	centers := make([]scene.Point, n)
	y := bounds.Min.Y - 2*radius
	if dir == scene.Out {
		y = bounds.Max.Y
	}
	w := bounds.Max.X - bounds.Min.X
	for i := range centers {
		centers[i] = scene.Pt(math.Floor(bounds.Min.X+w*float64(i+1)/float64(n+1)), y)
	}
	return centers
}

// Terminator is the rounded start/end shape of a flowchart.
type Terminator struct {
	scene.Node
}

func NewTerminator(x, y float64, label string, inputs, outputs int) *Terminator {
	t := &Terminator{}
	t.Label = label
	size := sizeFor(label)
	size.X += 2
	t.Init(t, scene.Pt(x, y), size, inputs, outputs)
	return t
}

// HitTest accepts points inside the ellipse inscribed in the bounds.
func (t *Terminator) HitTest(p scene.Point) bool {
	b := t.Bounds()
	if !scene.ContainsHalfOpen(b, p) {
		return false
	}
	mid := scene.RectCenter(b)
	size := scene.RectSize(b)
	rx, ry := size.X/2, size.Y/2
	if rx == 0 || ry == 0 {
		return false
	}
	dx := (p.X - mid.X) / rx
	dy := (p.Y - mid.Y) / ry
	return dx*dx+dy*dy <= 1
}

func (t *Terminator) Draw(c scene.Canvas, st scene.Style) {
	st.Running = t.Running
	c.DrawEllipse(t.Bounds(), st)
	drawLabel(c, &t.Node, st)
	t.DrawPorts(c, st)
}

func (t *Terminator) LayoutPorts(bounds scene.Rect, dir scene.Direction, n int, radius float64) []scene.Point {
	return snapLayout(bounds, dir, n, radius)
}
