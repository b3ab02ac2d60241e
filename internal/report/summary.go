package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/l4records"
	"github.com/banshee-data/overlay.telemetry/internal/units"
)

// WriteSummary prints the goodness of fit of every segment followed by
// run totals and the track length, with speeds in speedUnits.
func WriteSummary(w io.Writer, run *l4records.Run, speedUnits string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "frame_index\tgoodness_of_fit\tflag")
	for _, res := range run.Results {
		flag := ""
		switch {
		case res.Err != nil:
			flag = "parse error"
		case res.LowConfidence:
			flag = "low confidence"
		}
		fmt.Fprintf(tw, "%d\t%.6f\t%s\n", res.Start, res.Quality, flag)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	sum := run.Summary()
	_, err := fmt.Fprintf(w,
		"\nframes=%d segments=%d decoded=%d parse_errors=%d low_confidence=%d mean=%.4f min=%.4f candidate=dy:%d,parity:%t\n",
		run.Frames, sum.Segments, sum.Decoded, sum.ParseErrors, sum.LowConfidence,
		sum.MeanQuality, sum.MinQuality, run.Candidate.DY, run.Candidate.Parity)
	if err != nil {
		return err
	}

	tr := Track(run.Results)
	_, err = fmt.Fprintf(w, "points=%d distance=%.3fkm max_speed=%.1f%s\n",
		tr.Points, tr.Distance/1000, units.ConvertSpeed(tr.MaxSpeed, speedUnits), speedUnits)
	return err
}
