// Package report renders decode quality for human review: a PNG plot,
// an interactive HTML page and a plain-text table.
package report

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/l4records"
)

var (
	qualityColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	thresholdColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	flaggedColor   = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// WritePlot draws per-segment quality against the segment's first frame
// with the low-confidence threshold as a horizontal line, and writes it
// as a PNG.
func WritePlot(w io.Writer, results []l4records.Result, threshold float64) error {
	p := plot.New()
	p.Title.Text = "Decode quality"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Goodness of fit"
	p.Y.Min = 0
	p.Y.Max = 1
	p.X.Min = 0
	p.X.Max = 1

	pts := make(plotter.XYs, 0, len(results))
	var flagged plotter.XYs
	for _, res := range results {
		pt := plotter.XY{X: float64(res.Start), Y: res.Quality}
		pts = append(pts, pt)
		if res.LowConfidence {
			flagged = append(flagged, pt)
		}
		if x := float64(res.End); x > p.X.Max {
			p.X.Max = x
		}
	}

	if len(pts) > 0 {
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = qualityColor
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add("quality", line)
	}
	if len(flagged) > 0 {
		sc, err := plotter.NewScatter(flagged)
		if err != nil {
			return err
		}
		sc.Color = flaggedColor
		p.Add(sc)
		p.Legend.Add("low confidence", sc)
	}

	th := plotter.NewFunction(func(float64) float64 { return threshold })
	th.Color = thresholdColor
	th.Width = vg.Points(1)
	th.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(th)
	p.Legend.Add(fmt.Sprintf("threshold %.2f", threshold), th)

	p.Legend.Top = false
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = 10

	wt, err := p.WriterTo(14*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
