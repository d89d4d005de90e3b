// Package scene is the interactive engine behind a node diagram: components
// with input and output ports, lines joining those ports, pointer driven
// dragging and line drawing, and an undo log for every structural change.
//
// The package is single threaded. All calls on a Scene, including the
// pointer handlers and Draw, must come from one goroutine (the host's event
// loop); nothing in here blocks or spawns work.
package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position or offset in scene coordinates.
type Point = r2.Vec

// Rect is an axis aligned rectangle in scene coordinates.
type Rect = r2.Box

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// RectAt returns the rectangle with origin pos and extent size.
func RectAt(pos, size Point) Rect {
	return Rect{Min: pos, Max: r2.Add(pos, size)}
}

// RectCenter returns the midpoint of r.
func RectCenter(r Rect) Point {
	return r2.Scale(0.5, r2.Add(r.Min, r.Max))
}

// RectSize returns the width and height of r.
func RectSize(r Rect) Point {
	return r2.Sub(r.Max, r.Min)
}

// ContainsHalfOpen reports whether p lies in [r.Min, r.Max). Component
// bodies use this so that two bodies sharing an edge never both claim it.
func ContainsHalfOpen(r Rect, p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X &&
		p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// ContainsClosed reports whether p lies in [r.Min, r.Max].
func ContainsClosed(r Rect, p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Union returns the smallest rectangle holding both a and b.
func Union(a, b Rect) Rect {
	return Rect{
		Min: Pt(math.Min(a.Min.X, b.Min.X), math.Min(a.Min.Y, b.Min.Y)),
		Max: Pt(math.Max(a.Max.X, b.Max.X), math.Max(a.Max.Y, b.Max.Y)),
	}
}

// Near reports whether a and b are within tol of each other on both axes.
func Near(a, b Point, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func isZero(p Point) bool {
	return p.X == 0 && p.Y == 0
}
