package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/l4records"
)

// WriteHTML renders an interactive page with a quality line chart and a
// bar chart of the vertical candidate scores.
func WriteHTML(w io.Writer, run *l4records.Run, threshold float64) error {
	sum := run.Summary()

	x := make([]string, 0, len(run.Results))
	quality := make([]opts.LineData, 0, len(run.Results))
	limit := make([]opts.LineData, 0, len(run.Results))
	for _, res := range run.Results {
		x = append(x, strconv.Itoa(res.Start))
		quality = append(quality, opts.LineData{Value: res.Quality})
		limit = append(limit, opts.LineData{Value: threshold})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Overlay decode", Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Decode quality",
			Subtitle: fmt.Sprintf("source=%s segments=%d decoded=%d low=%d", run.Source, sum.Segments, sum.Decoded, sum.LowConfidence),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frame", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Goodness of fit", Min: 0, Max: 1}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(x).
		AddSeries("quality", quality).
		AddSeries("threshold", limit)

	labels := make([]string, 0, len(run.CandidateScores))
	scores := make([]opts.BarData, 0, len(run.CandidateScores))
	for _, cs := range run.CandidateScores {
		labels = append(labels, fmt.Sprintf("dy=%d parity=%t", cs.Candidate.DY, cs.Candidate.Parity))
		scores = append(scores, opts.BarData{Value: cs.MeanScore})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "320px"}),
		charts.WithTitleOpts(opts.Title{Title: "Vertical candidates", Subtitle: "mean seconds-digit score"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("score", scores,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.PageTitle = "Overlay decode"
	page.AddCharts(line, bar)
	return page.Render(w)
}
