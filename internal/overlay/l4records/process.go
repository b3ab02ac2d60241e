package l4records

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/overlay.telemetry/internal/monitoring"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/device"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/glyph"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l1video"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l2segments"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l3fields"
	"github.com/banshee-data/overlay.telemetry/internal/timeutil"
)

// Default thresholds.
const (
	DefaultThreshold     = 0.8
	DefaultLowConfidence = 0.85
)

// Options controls a decode run. Zero values select defaults.
type Options struct {
	// Source names the decoded input, usually its path.
	Source string
	// Threshold is the score a segment boundary must exceed to be trusted.
	Threshold float64
	// LowConfidence flags results whose quality is below it.
	LowConfidence float64
	// Workers bounds concurrent segment decodes. Defaults to GOMAXPROCS.
	Workers int
	// KeepFrames retains each segment's representative frame on its result.
	KeepFrames bool
	Clock      timeutil.Clock
}

func (o Options) withDefaults() Options {
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	if o.LowConfidence == 0 {
		o.LowConfidence = DefaultLowConfidence
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Clock == nil {
		o.Clock = timeutil.RealClock{}
	}
	return o
}

// Result is the decode outcome of one segment.
type Result struct {
	// Start and End are the segment's half-open frame range.
	Start int
	End   int
	// Data is nil when the segment's text could not be parsed.
	Data          *l3fields.EmbeddedData
	Quality       float64
	LowConfidence bool
	Text          string
	Err           error
	// Frame is set only when Options.KeepFrames is true.
	Frame *l1video.Stacked
}

// Run is a complete decode of one video.
type Run struct {
	ID              uuid.UUID
	Source          string
	Frames          int
	Candidate       device.Candidate
	CandidateScores []l2segments.CandidateScore
	Results         []Result
	StartedAt       time.Time
	Duration        time.Duration
}

// Summary aggregates a run's results.
type Summary struct {
	Segments      int
	Decoded       int
	ParseErrors   int
	LowConfidence int
	MeanQuality   float64
	MinQuality    float64
}

// Summary counts results and reports mean and minimum quality.
func (r *Run) Summary() Summary {
	s := Summary{Segments: len(r.Results)}
	if len(r.Results) == 0 {
		return s
	}
	s.MinQuality = math.Inf(1)
	var total float64
	for _, res := range r.Results {
		if res.Data != nil {
			s.Decoded++
		}
		if res.Err != nil {
			s.ParseErrors++
		}
		if res.LowConfidence {
			s.LowConfidence++
		}
		total += res.Quality
		s.MinQuality = math.Min(s.MinQuality, res.Quality)
	}
	s.MeanQuality = total / float64(len(r.Results))
	return s
}

// Process segments v and decodes every segment. Segments are decoded in
// parallel, each with its own record state machine, and results are
// ordered by segment start. Glyph or protocol failures abort the run; parse
// failures stay on their result.
func Process(ctx context.Context, v *l1video.Video, set *glyph.Set, profile device.Profile, opts Options) (*Run, error) {
	opts = opts.withDefaults()
	started := opts.Clock.Now()

	det, err := l2segments.Detect(v, set, profile, opts.Threshold)
	if err != nil {
		return nil, fmt.Errorf("detect segments: %w", err)
	}
	monitoring.Debugf("using vertical candidate %s across %d segments", det.Candidate, len(det.Segments))

	dec, err := NewDecoder(set, profile, det.Candidate)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(det.Segments))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, seg := range det.Segments {
		i, seg := i, seg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec := dec.NewRecord()
			out, err := dec.Decode(seg.Frame, rec)
			if err != nil {
				return fmt.Errorf("segment %d-%d: %w", seg.Start, seg.End, err)
			}
			res := Result{
				Start:         seg.Start,
				End:           seg.End,
				Data:          out.Data,
				Quality:       out.Quality,
				LowConfidence: out.Quality < opts.LowConfidence,
				Text:          out.Text,
				Err:           out.Err,
			}
			if opts.KeepFrames {
				res.Frame = seg.Frame
			}
			if res.Err != nil {
				monitoring.Logf("segment %d-%d: %v", seg.Start, seg.End, res.Err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(results, func(a, b int) bool { return results[a].Start < results[b].Start })

	run := &Run{
		ID:              uuid.New(),
		Source:          opts.Source,
		Frames:          v.Len(),
		Candidate:       det.Candidate,
		CandidateScores: det.Scores,
		Results:         results,
		StartedAt:       started,
		Duration:        opts.Clock.Since(started),
	}
	monitoring.Logf("Parsed %d frames in %.2f seconds", run.Frames, run.Duration.Seconds())
	return run, nil
}

// IsConfigError reports whether err means the glyph set or profile is
// unusable, as opposed to a failure of one input.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrGeometry) ||
		errors.Is(err, glyph.ErrInconsistentShape) ||
		errors.Is(err, glyph.ErrMissingGlyph) ||
		errors.Is(err, glyph.ErrBlankGlyph) ||
		errors.Is(err, glyph.ErrEmptyUnion) ||
		errors.Is(err, l2segments.ErrNoCandidates)
}
