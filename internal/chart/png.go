package chart

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var palette = []color.Color{
	color.RGBA{R: 0xe6, G: 0x7e, B: 0x22, A: 0xff},
	color.RGBA{R: 0x8e, G: 0x5b, B: 0x3e, A: 0xff},
	color.RGBA{R: 0x95, G: 0xa5, B: 0xa6, A: 0xff},
	color.RGBA{R: 0x27, G: 0xae, B: 0x60, A: 0xff},
	color.RGBA{R: 0x8e, G: 0x44, B: 0xad, A: 0xff},
}

// PNG size.
const (
	pngWidth  = 10 * vg.Inch
	pngHeight = 5 * vg.Inch
)

// RenderPNG draws series as a line chart and writes PNG bytes to w.
func RenderPNG(w io.Writer, title string, series []Series) error {
	if len(series) == 0 {
		return ErrNoSeries
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "elapsed (s)"
	p.Y.Label.Text = "distance"
	p.Add(plotter.NewGrid())

	for i, s := range series {
		pts := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			pts[j] = plotter.XY{X: pt.T, Y: float64(pt.D)}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("line %s: %w", s.CompetitorID, err)
		}
		line.Color = palette[i%len(palette)]
		line.Width = vg.Points(2)
		p.Add(line)
		// The bundled Liberation fonts have no Hangul glyphs.
		p.Legend.Add(s.CompetitorID, line)
	}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.XOffs = 10
	p.Legend.YOffs = -10

	wt, err := p.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return fmt.Errorf("png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
