package l2segments

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/overlay.telemetry/internal/monitoring"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/device"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/glyph"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l1video"
)

// ErrNoCandidates is returned when the profile has no vertical candidates.
var ErrNoCandidates = errors.New("l2segments: no vertical candidates")

// Range is a half-open range of frame indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of frames in the range.
func (r Range) Len() int { return r.End - r.Start }

// Segment is a stable stretch of frames and its representative frame.
type Segment struct {
	Range
	Frame *l1video.Stacked
}

// CandidateScore is the mean best-digit score of one vertical candidate.
type CandidateScore struct {
	Candidate device.Candidate
	MeanScore float64
}

// Detection is the outcome of segmenting one video.
type Detection struct {
	// Candidate is the vertical calibration chosen for decoding.
	Candidate device.Candidate
	// Scores holds every candidate's mean score in profile order.
	Scores []CandidateScore
	// Best and Max are the chosen candidate's per-frame best digit index
	// and best score.
	Best []int
	Max  []float64
	// Boundaries are the trusted segment starts, beginning with 0.
	Boundaries []int
	Segments   []Segment
}

// Detect calibrates the vertical offset, finds stable segments and builds
// their representative frames. A boundary is trusted only when the best
// digit score at that frame exceeds threshold.
func Detect(v *l1video.Video, set *glyph.Set, profile device.Profile, threshold float64) (*Detection, error) {
	if len(profile.Candidates) == 0 {
		return nil, ErrNoCandidates
	}
	det := &Detection{}
	n := v.Len()
	if n == 0 {
		det.Candidate = profile.Candidates[0]
		for _, c := range profile.Candidates {
			det.Scores = append(det.Scores, CandidateScore{Candidate: c})
		}
		return det, nil
	}

	digitWidth, digitHeight := set.DigitShape()
	bestMean := -1.0
	for _, c := range profile.Candidates {
		st := v.StackRegions(profile.SecondsDigitX, profile.GlyphTop+c.DY, digitWidth, digitHeight)
		best, max, err := bestDigits(set.Numbers(), st)
		if err != nil {
			return nil, fmt.Errorf("candidate %s: %w", c, err)
		}
		mean := stat.Mean(max, nil)
		monitoring.Debugf("candidate %s: mean seconds-digit score %.4f", c, mean)
		det.Scores = append(det.Scores, CandidateScore{Candidate: c, MeanScore: mean})
		if mean > bestMean {
			bestMean = mean
			det.Candidate = c
			det.Best = best
			det.Max = max
		}
	}

	det.Boundaries = Boundaries(det.Best, det.Max, threshold)
	for _, r := range Ranges(det.Boundaries, n) {
		frame, err := v.Mean(r.Start, r.End)
		if err != nil {
			return nil, err
		}
		det.Segments = append(det.Segments, Segment{Range: r, Frame: frame})
	}
	return det, nil
}

// bestDigits scores every region of st against every digit and returns,
// per region, the index of the best digit and its score.
func bestDigits(digits glyph.Alphabet, st glyph.Stack) ([]int, []float64, error) {
	n := st.Len()
	scores := make([][]float64, len(digits))
	for i, e := range digits {
		s, err := e.Scorer.ScoreStack(st)
		if err != nil {
			return nil, nil, fmt.Errorf("digit %q: %w", e.Char, err)
		}
		scores[i] = s
	}

	best := make([]int, n)
	max := make([]float64, n)
	col := make([]float64, len(digits))
	for f := 0; f < n; f++ {
		for d := range digits {
			col[d] = scores[d][f]
		}
		best[f] = floats.MaxIdx(col)
		max[f] = col[best[f]]
	}
	return best, max, nil
}

// Boundaries returns the trusted segment starts. Frame 0 always starts a
// segment. A later frame whose best digit differs from the previous
// frame's is a boundary when its max score exceeds threshold; otherwise
// the change is treated as noise.
func Boundaries(best []int, max []float64, threshold float64) []int {
	if len(best) == 0 {
		return nil
	}
	out := []int{0}
	for i := 1; i < len(best); i++ {
		if best[i] != best[i-1] && max[i] > threshold {
			out = append(out, i)
		}
	}
	return out
}

// Ranges turns sorted boundaries into contiguous ranges covering [0, n).
// With no boundaries the whole input is one range.
func Ranges(boundaries []int, n int) []Range {
	if n <= 0 {
		return nil
	}
	if len(boundaries) == 0 || boundaries[0] != 0 {
		boundaries = append([]int{0}, boundaries...)
	}
	out := make([]Range, 0, len(boundaries))
	for i, start := range boundaries {
		end := n
		if i+1 < len(boundaries) {
			end = boundaries[i+1]
		}
		if end > start {
			out = append(out, Range{Start: start, End: end})
		}
	}
	return out
}
