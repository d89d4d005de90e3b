package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"nodeflow/scene"
)

// Character cell dimensions (pixels per character)
const (
	charWidth  = 8.0
	charHeight = 16.0
	fontSize   = 12.0
	padding    = 2
)

var (
	ErrEmptyScene = errors.New("nothing to export")

	selectedColor  = color.RGBA{R: 0xd0, G: 0x20, B: 0x80, A: 0xff}
	runningColor   = color.RGBA{R: 0x20, G: 0x90, B: 0x40, A: 0xff}
	transientColor = color.Gray{Y: 0x90}
)

// Image is a scene.Canvas that rasterises onto a gg context. Each scene
// unit becomes one character cell of charWidth by charHeight pixels.
type Image struct {
	dc     *gg.Context
	origin scene.Point
}

// NewImage sizes an image to hold extent plus a margin.
func NewImage(extent scene.Rect) (*Image, error) {
	minX := math.Floor(extent.Min.X) - padding
	minY := math.Floor(extent.Min.Y) - padding
	maxX := math.Ceil(extent.Max.X) + padding
	maxY := math.Ceil(extent.Max.Y) + padding

	imageWidth := int((maxX - minX) * charWidth)
	imageHeight := int((maxY - minY) * charHeight)
	if imageWidth <= 0 || imageHeight <= 0 {
		return nil, ErrEmptyScene
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	return &Image{dc: dc, origin: scene.Pt(minX, minY)}, nil
}

// ExportPNG draws s and writes it to filename.
func ExportPNG(s *scene.Scene, filename string) error {
	extent, ok := s.Extent()
	if !ok {
		return ErrEmptyScene
	}
	img, err := NewImage(extent)
	if err != nil {
		return err
	}
	s.Draw(img)
	if err := img.SavePNG(filename); err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	return nil
}

func (i *Image) SavePNG(filename string) error {
	return i.dc.SavePNG(filename)
}

func (i *Image) Image() image.Image {
	return i.dc.Image()
}

// edge maps a cell boundary to pixels.
func (i *Image) edge(p scene.Point) (float64, float64) {
	return (p.X - i.origin.X) * charWidth, (p.Y - i.origin.Y) * charHeight
}

// center maps a cell to the pixel at its middle.
func (i *Image) center(p scene.Point) (float64, float64) {
	x, y := i.edge(p)
	return x + charWidth/2, y + charHeight/2
}

func (i *Image) pen(st scene.Style) {
	i.dc.SetLineWidth(1.0)
	switch {
	case st.Selected:
		i.dc.SetLineWidth(2.0)
		i.dc.SetColor(selectedColor)
	case st.Running:
		i.dc.SetColor(runningColor)
	case st.Transient:
		i.dc.SetColor(transientColor)
	default:
		i.dc.SetColor(color.Black)
	}
}

func (i *Image) DrawRect(r scene.Rect, st scene.Style) {
	i.pen(st)
	x, y := i.edge(r.Min)
	size := scene.RectSize(r)
	i.dc.DrawRectangle(x, y, size.X*charWidth, size.Y*charHeight)
	i.dc.Stroke()
}

func (i *Image) DrawEllipse(r scene.Rect, st scene.Style) {
	i.pen(st)
	cx, cy := i.edge(scene.RectCenter(r))
	size := scene.RectSize(r)
	i.dc.DrawEllipse(cx, cy, size.X*charWidth/2, size.Y*charHeight/2)
	i.dc.Stroke()
}

func (i *Image) DrawPolygon(pts []scene.Point, st scene.Style) {
	if len(pts) < 2 {
		return
	}
	i.pen(st)
	for n, p := range pts {
		x, y := i.edge(p)
		if n == 0 {
			i.dc.MoveTo(x, y)
			continue
		}
		i.dc.LineTo(x, y)
	}
	i.dc.ClosePath()
	i.dc.Stroke()
}

func (i *Image) DrawText(at scene.Point, text string, st scene.Style) {
	i.pen(st)
	x, y := i.edge(at)
	i.dc.DrawString(text, x, y+charHeight*0.75)
}

func (i *Image) DrawPort(p *scene.ConnectionPoint, st scene.Style) {
	i.dc.SetLineWidth(1.0)
	i.dc.SetColor(color.Black)
	x, y := i.center(p.Position())
	i.dc.DrawCircle(x, y, p.Radius()*charWidth)
	if p.Connection() != nil {
		i.dc.Fill()
		return
	}
	i.dc.Stroke()
}

func (i *Image) DrawLine(from, to scene.Point, st scene.Style) {
	i.pen(st)
	if st.Transient {
		i.dc.SetDash(4, 4)
		defer i.dc.SetDash()
	}
	x1, y1 := i.center(from)
	x2, y2 := i.center(to)
	i.dc.DrawLine(x1, y1, x2, y2)
	i.dc.Stroke()
	if st.Arrow {
		i.drawArrow(x1, y1, x2, y2)
	}
}

func (i *Image) drawArrow(fx, fy, tx, ty float64) {
	// Calculate arrow direction
	dx := tx - fx
	dy := ty - fy
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	arrowSize := 6.0
	arrowAngle := 0.5 // radians

	baseX1 := tx - arrowSize*dx + arrowSize*dy*arrowAngle
	baseY1 := ty - arrowSize*dy - arrowSize*dx*arrowAngle
	baseX2 := tx - arrowSize*dx - arrowSize*dy*arrowAngle
	baseY2 := ty - arrowSize*dy + arrowSize*dx*arrowAngle

	i.dc.MoveTo(tx, ty)
	i.dc.LineTo(baseX1, baseY1)
	i.dc.LineTo(baseX2, baseY2)
	i.dc.ClosePath()
	i.dc.Fill()
}
