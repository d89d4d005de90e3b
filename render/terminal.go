// Package render provides the canvases the editor hands to Scene.Draw: a
// terminal cell grid for the live view and a raster image for export.
// Scene coordinates are cells in both: one unit is one terminal column or
// row.
package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nodeflow/scene"
)

type mark uint8

const (
	markNone mark = iota
	markSelected
	markTransient
	markPort
	markRunning
	markCursor
)

var markStyles = map[mark]lipgloss.Style{
	markSelected:  lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
	markTransient: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	markPort:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	markRunning:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	markCursor:    lipgloss.NewStyle().Reverse(true),
}

// Grid is a scene.Canvas backed by a rune matrix the size of the visible
// terminal area. panX and panY are the world coordinates of the top left
// cell.
type Grid struct {
	width, height int
	panX, panY    int
	cells         [][]rune
	marks         [][]mark
	solid         [][]bool // cells owned by a shape; lines route around them
}

func NewGrid(width, height, panX, panY int) *Grid {
	// Ensure minimum dimensions
	width = max(width, 1)
	height = max(height, 1)
	g := &Grid{
		width:  width,
		height: height,
		panX:   panX,
		panY:   panY,
		cells:  make([][]rune, height),
		marks:  make([][]mark, height),
		solid:  make([][]bool, height),
	}
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat(" ", width))
		g.marks[y] = make([]mark, width)
		g.solid[y] = make([]bool, width)
	}
	return g
}

func (g *Grid) toScreen(p scene.Point) (int, int) {
	return int(math.Floor(p.X)) - g.panX, int(math.Floor(p.Y)) - g.panY
}

func (g *Grid) isValidPos(x, y int) bool {
	return y >= 0 && y < g.height && x >= 0 && x < g.width
}

func (g *Grid) set(x, y int, r rune, m mark, solid bool) {
	if !g.isValidPos(x, y) {
		return
	}
	g.cells[y][x] = r
	g.marks[y][x] = m
	if solid {
		g.solid[y][x] = true
	}
}

func shapeMark(st scene.Style) mark {
	switch {
	case st.Selected:
		return markSelected
	case st.Running:
		return markRunning
	default:
		return markNone
	}
}

func (g *Grid) DrawRect(r scene.Rect, st scene.Style) {
	corner, horizontal, vertical := '+', '-', '|'
	if st.Selected {
		corner, horizontal, vertical = '#', '#', '#'
	}
	g.outline(r, st, corner, corner, corner, corner, horizontal, vertical, vertical)
}

// DrawEllipse draws a rounded box; at terminal resolution that is all an
// ellipse can be.
func (g *Grid) DrawEllipse(r scene.Rect, st scene.Style) {
	if st.Selected {
		g.outline(r, st, '#', '#', '#', '#', '#', '#', '#')
		return
	}
	g.outline(r, st, '.', '.', '\'', '\'', '-', '(', ')')
}

func (g *Grid) outline(r scene.Rect, st scene.Style, tl, tr, bl, br, horizontal, left, right rune) {
	m := shapeMark(st)
	x0, y0 := g.toScreen(r.Min)
	size := scene.RectSize(r)
	w, h := int(size.X), int(size.Y)
	if w <= 0 || h <= 0 {
		return
	}
	x1, y1 := x0+w-1, y0+h-1
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			var ch rune
			switch {
			case y == y0 && x == x0:
				ch = tl
			case y == y0 && x == x1:
				ch = tr
			case y == y1 && x == x0:
				ch = bl
			case y == y1 && x == x1:
				ch = br
			case y == y0 || y == y1:
				ch = horizontal
			case x == x0:
				ch = left
			case x == x1:
				ch = right
			default:
				ch = ' '
			}
			g.set(x, y, ch, m, true)
		}
	}
}

// DrawPolygon strokes each edge with the slash or bar closest to its slope.
func (g *Grid) DrawPolygon(pts []scene.Point, st scene.Style) {
	m := shapeMark(st)
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		ax, ay := g.toScreen(a)
		bx, by := g.toScreen(b)
		ch := edgeRune(bx-ax, by-ay)
		if st.Selected {
			ch = '#'
		}
		steps := max(abs(bx-ax), abs(by-ay))
		for s := 0; s <= steps; s++ {
			t := 0.0
			if steps > 0 {
				t = float64(s) / float64(steps)
			}
			x := ax + int(math.Round(t*float64(bx-ax)))
			y := ay + int(math.Round(t*float64(by-ay)))
			g.set(x, y, ch, m, true)
		}
	}
}

func edgeRune(dx, dy int) rune {
	switch {
	case dy == 0:
		return '-'
	case dx == 0:
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

func (g *Grid) DrawText(at scene.Point, text string, st scene.Style) {
	m := shapeMark(st)
	x, y := g.toScreen(at)
	for i, ch := range []rune(text) {
		g.set(x+i, y, ch, m, true)
	}
}

func (g *Grid) DrawPort(p *scene.ConnectionPoint, st scene.Style) {
	x, y := g.toScreen(p.Position())
	ch := 'o'
	if p.Connection() != nil {
		ch = '*'
	}
	if !p.Enabled {
		ch = 'x'
	}
	g.set(x, y, ch, markPort, true)
}

// DrawLine routes from one end to the other with an elbow at the
// horizontal midpoint: across, down, across. Cells owned by shapes are
// left alone.
func (g *Grid) DrawLine(from, to scene.Point, st scene.Style) {
	fx, fy := g.toScreen(from)
	tx, ty := g.toScreen(to)
	m := markNone
	horizontal, vertical, corner := '-', '|', '+'
	if st.Transient {
		m = markTransient
		horizontal, vertical, corner = '.', ':', '.'
	}
	midX := (fx + tx) / 2

	g.hline(fx, midX, fy, horizontal, m)
	g.vline(midX, fy, ty, vertical, m)
	g.hline(midX, tx, ty, horizontal, m)
	if fy != ty {
		g.stroke(midX, fy, corner, m)
		g.stroke(midX, ty, corner, m)
	}

	if st.Arrow {
		switch {
		case tx > midX:
			g.stroke(tx-1, ty, '>', m)
		case tx < midX:
			g.stroke(tx+1, ty, '<', m)
		case ty > fy:
			g.stroke(tx, ty-1, 'v', m)
		case ty < fy:
			g.stroke(tx, ty+1, '^', m)
		}
	}
}

func (g *Grid) hline(x0, x1, y int, ch rune, m mark) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		g.stroke(x, y, ch, m)
	}
}

func (g *Grid) vline(x, y0, y1 int, ch rune, m mark) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		g.stroke(x, y, ch, m)
	}
}

func (g *Grid) stroke(x, y int, ch rune, m mark) {
	if !g.isValidPos(x, y) || g.solid[y][x] {
		return
	}
	g.set(x, y, ch, m, false)
}

// Lines returns the plain text rows, right-trimmed.
func (g *Grid) Lines() []string {
	out := make([]string, g.height)
	for y, row := range g.cells {
		out[y] = strings.TrimRight(string(row), " ")
	}
	return out
}

// String renders the grid with lipgloss styles applied to marked cells.
func (g *Grid) String() string {
	return g.Render(-1, -1)
}

// Render is String with a block cursor at screen cell (cursorX, cursorY).
// The grid itself is not changed, so a drawn frame can be reused while
// only the cursor moves. Runs of cells sharing a mark are styled together.
func (g *Grid) Render(cursorX, cursorY int) string {
	var b strings.Builder
	for y, row := range g.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		marks := g.marks[y]
		if y == cursorY && g.isValidPos(cursorX, cursorY) {
			row = append([]rune(nil), row...)
			marks = append([]mark(nil), marks...)
			row[cursorX] = '█'
			marks[cursorX] = markCursor
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && marks[x] == marks[start] {
				continue
			}
			run := string(row[start:x])
			if st, ok := markStyles[marks[start]]; ok {
				run = st.Render(run)
			}
			b.WriteString(run)
			start = x
		}
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
