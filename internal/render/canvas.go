// Package render projects scan frames onto a square pixel canvas.
package render

import (
	"image"
	"image/color"

	"git.sr.ht/~sbinet/gg"
)

var (
	Black = color.RGBA{A: 0xff}
	Red   = color.RGBA{R: 0xff, A: 0xff}
	Green = color.RGBA{G: 0xff, A: 0xff}
)

// Canvas is the drawing surface a frame is rendered onto. Coordinates are
// pixels with the origin at the top-left corner.
type Canvas interface {
	// Size returns the side length of the square canvas.
	Size() int

	// Line draws a 1 px line from (x0, y0) to (x1, y1).
	Line(x0, y0, x1, y1 int, c color.Color)

	// Dot draws a filled disc of the given radius centred on (x, y).
	Dot(x, y, radius int, c color.Color)
}

// ImageCanvas is a Canvas backed by an RGBA image.
type ImageCanvas struct {
	dc   *gg.Context
	size int
}

// NewImageCanvas returns a black size x size canvas.
func NewImageCanvas(size int) *ImageCanvas {
	dc := gg.NewContext(size, size)
	dc.SetColor(Black)
	dc.Clear()
	dc.SetLineWidth(1)
	return &ImageCanvas{dc: dc, size: size}
}

func (c *ImageCanvas) Size() int { return c.size }

// Line strokes through pixel centres so that axis-aligned lines cover exactly
// one row or column.
func (c *ImageCanvas) Line(x0, y0, x1, y1 int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawLine(float64(x0)+0.5, float64(y0)+0.5, float64(x1)+0.5, float64(y1)+0.5)
	c.dc.Stroke()
}

func (c *ImageCanvas) Dot(x, y, radius int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawCircle(float64(x)+0.5, float64(y)+0.5, float64(radius))
	c.dc.Fill()
}

// Image returns the canvas pixels.
func (c *ImageCanvas) Image() image.Image {
	return c.dc.Image()
}
