package render

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/lidarview/internal/lidar"
)

const (
	DefaultSize  = 800
	DefaultScale = 50.0 // pixels per metre
	DotRadius    = 1
)

// Cartesian returns the sensor-frame position of a sample in metres.
func Cartesian(s lidar.Sample) r2.Vec {
	return lidar.PolarToCartesian(s.Range, s.Angle)
}

// Renderer draws frames onto canvases of Size x Size pixels, with the sensor
// at the centre, +X to the right and +Y up.
type Renderer struct {
	Size  int
	Scale float64
}

// NewRenderer returns a Renderer with the default window size and scale.
func NewRenderer() Renderer {
	return Renderer{Size: DefaultSize, Scale: DefaultScale}
}

// maxCoord bounds the rounded coordinates converted to int; anything larger is
// off-canvas for every supported size.
const maxCoord = 1 << 30

// Project maps a sample to its pixel. ok is false for samples without a
// return and for pixels outside [0, Size) on either axis.
func (r Renderer) Project(s lidar.Sample) (p image.Point, ok bool) {
	if !s.Valid() {
		return image.Point{}, false
	}

	v := Cartesian(s)
	offset := float64(r.Size / 2)
	x := math.Round(v.X*r.Scale + offset)
	y := math.Round(-v.Y*r.Scale + offset)
	if !finite(x) || !finite(y) {
		return image.Point{}, false
	}

	p = image.Point{X: int(x), Y: int(y)}
	if p.X < 0 || p.X >= r.Size || p.Y < 0 || p.Y >= r.Size {
		return p, false
	}
	return p, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= maxCoord
}

// DrawAxes draws the vertical axis in red and the horizontal axis in green
// through the canvas centre.
func (r Renderer) DrawAxes(c Canvas) {
	mid := r.Size / 2
	c.Line(mid, 0, mid, r.Size, Red)
	c.Line(0, mid, r.Size, mid, Green)
}

// Draw renders axes and every projectable sample of f onto c and returns the
// number of points drawn. A nil frame draws the axes only.
func (r Renderer) Draw(c Canvas, f *lidar.Frame) int {
	r.DrawAxes(c)
	if f == nil {
		return 0
	}

	drawn := 0
	for _, s := range f.Samples {
		p, ok := r.Project(s)
		if !ok {
			continue
		}
		c.Dot(p.X, p.Y, DotRadius, Green)
		drawn++
	}
	return drawn
}

// Render allocates a fresh black canvas and draws f onto it.
func (r Renderer) Render(f *lidar.Frame) (*ImageCanvas, int) {
	c := NewImageCanvas(r.Size)
	n := r.Draw(c, f)
	return c, n
}
