package snapshot

import (
	"bytes"
	"fmt"
	"image/color"
	"image/jpeg"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/lidarview/internal/lidar"
	"github.com/banshee-data/lidarview/internal/render"
)

// PlotSize is the edge length of the square PNG scatter plot.
const PlotSize = 8 * vg.Inch

// Write encodes f in the given format into the file at path.
func Write(path string, format Format, f *lidar.Frame, r render.Renderer) error {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatPNG:
		err = WritePlot(&buf, f)
	case FormatHTML:
		err = WriteHTML(&buf, f)
	case FormatJPEG:
		err = WriteJPEG(&buf, f, r, jpeg.DefaultQuality)
	default:
		err = errors.Errorf("unknown snapshot format %q", format)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "failed to write snapshot %s", path)
	}
	return nil
}

// WritePlot draws the valid samples of f as a gonum/plot scatter in sensor
// coordinates (metres) and writes it as PNG.
func WritePlot(w io.Writer, f *lidar.Frame) error {
	p := plot.New()
	p.Title.Text = "LiDAR Scan"
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	pad := extent(f)
	p.X.Min, p.X.Max = -pad, pad
	p.Y.Min, p.Y.Max = -pad, pad
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 0, f.ValidCount())
	for _, s := range f.Samples {
		if !s.Valid() {
			continue
		}
		v := render.Cartesian(s)
		pts = append(pts, plotter.XY{X: v.X, Y: v.Y})
	}

	if len(pts) > 0 {
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return errors.Wrap(err, "failed to create scatter")
		}
		scatter.GlyphStyle.Color = color.RGBA{G: 0xa0, A: 0xff}
		scatter.GlyphStyle.Radius = vg.Points(1.5)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
	}

	// Sensor origin.
	origin, err := plotter.NewScatter(plotter.XYs{{X: 0, Y: 0}})
	if err != nil {
		return errors.Wrap(err, "failed to create origin marker")
	}
	origin.GlyphStyle.Color = render.Red
	origin.GlyphStyle.Radius = vg.Points(3)
	origin.GlyphStyle.Shape = draw.CrossGlyph{}
	p.Add(origin)

	wt, err := p.WriterTo(PlotSize, PlotSize, "png")
	if err != nil {
		return errors.Wrap(err, "failed to render plot")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write plot")
	}
	return nil
}

// WriteHTML writes a self-contained go-echarts scatter of f. Each point
// carries its intensity as the third value, which drives the colour map.
func WriteHTML(w io.Writer, f *lidar.Frame) error {
	data := make([]opts.ScatterData, 0, f.ValidCount())
	maxIntensity := 1.0
	for _, s := range f.Samples {
		if !s.Valid() {
			continue
		}
		v := render.Cartesian(s)
		data = append(data, opts.ScatterData{Value: []interface{}{v.X, v.Y, s.Intensity}})
		if s.Intensity > maxIntensity {
			maxIntensity = s.Intensity
		}
	}

	pad := extent(f)
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "LiDAR Scan", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "LiDAR Scan", Subtitle: subtitle(f)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxIntensity),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#3e4989", "#26828e", "#35b779", "#fde725"}},
		}),
	)
	scatter.AddSeries("scan", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))

	if err := scatter.Render(w); err != nil {
		return errors.Wrap(err, "failed to render chart")
	}
	return nil
}

// WriteJPEG renders f exactly as the viewer shows it and encodes it as JPEG.
func WriteJPEG(w io.Writer, f *lidar.Frame, r render.Renderer, quality int) error {
	canvas, drawn := r.Render(f)
	if err := jpeg.Encode(w, canvas.Image(), &jpeg.Options{Quality: quality}); err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to encode %d points", drawn))
	}
	return nil
}
