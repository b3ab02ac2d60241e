package l4records

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/device"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/glyph"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l1video"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l3fields"
)

// ErrGeometry means the glyph set does not fit the device profile.
var ErrGeometry = errors.New("l4records: glyph geometry does not match profile")

// Decoder classifies the characters of one representative frame.
// It holds no per-frame state and may be shared between goroutines.
type Decoder struct {
	set       *glyph.Set
	profile   device.Profile
	candidate device.Candidate
}

// NewDecoder checks that set and candidate fit profile.
func NewDecoder(set *glyph.Set, profile device.Profile, candidate device.Candidate) (*Decoder, error) {
	w, h := set.DigitShape()
	if w != profile.DigitWidth() || h != profile.GlyphHeight {
		return nil, fmt.Errorf("%w: digits are %dx%d, profile expects %dx%d", ErrGeometry, w, h, profile.DigitWidth(), profile.GlyphHeight)
	}
	neg := set.NegativeMask()
	if nw := profile.Widths[glyph.Negative]; neg.Width != nw || neg.Height != profile.GlyphHeight {
		return nil, fmt.Errorf("%w: %q is %dx%d, profile expects %dx%d", ErrGeometry, glyph.Negative, neg.Width, neg.Height, nw, profile.GlyphHeight)
	}
	top := profile.GlyphTop + candidate.DY
	if top < 0 || top+h > profile.FrameHeight {
		return nil, fmt.Errorf("%w: glyph rows %d..%d outside frame height %d", ErrGeometry, top, top+h, profile.FrameHeight)
	}
	return &Decoder{set: set, profile: profile, candidate: candidate}, nil
}

// Candidate returns the vertical calibration the decoder uses.
func (d *Decoder) Candidate() device.Candidate { return d.candidate }

// NewRecord returns a fresh record state machine matching the decoder's
// calibration.
func (d *Decoder) NewRecord() *l3fields.Record {
	return l3fields.NewRecord(d.set, d.profile, d.candidate.Parity)
}

// Decoded is the outcome of decoding one representative frame.
type Decoded struct {
	// Data is nil when the completed text failed to parse.
	Data *l3fields.EmbeddedData
	// Quality is the mean of the per-character best scores.
	Quality float64
	// Text is the raw character sequence that was read.
	Text string
	// Scores holds the best score of every classified character.
	Scores []float64
	// Err is a parse error local to this record.
	Err error
}

// Decode walks rec over frame until the record is complete. rec is reset
// first. Scoring and protocol failures are returned as errors; a parse
// failure of the completed text is reported on Decoded.Err instead.
func (d *Decoder) Decode(frame *l1video.Stacked, rec *l3fields.Record) (Decoded, error) {
	rec.Reset()
	y := d.profile.GlyphTop + d.candidate.DY
	var out Decoded
	for {
		alphabet, err := rec.Alphabet()
		if err != nil {
			return out, err
		}
		if alphabet == nil {
			break
		}
		x := rec.NextOffset()
		ch, score, err := d.classify(frame, alphabet, x, y)
		if err != nil {
			return out, fmt.Errorf("character %d at x=%d: %w", len(out.Scores), x, err)
		}
		out.Scores = append(out.Scores, score)
		if err := rec.Append(ch); err != nil {
			return out, err
		}
	}

	if len(out.Scores) > 0 {
		out.Quality = stat.Mean(out.Scores, nil)
	}
	out.Text = rec.DateTime.String() + rec.Latitude.String() + rec.Longitude.String()

	data, err := rec.Result()
	switch {
	case err == nil:
		out.Data = &data
	case errors.Is(err, l3fields.ErrParse):
		out.Err = err
	default:
		return out, err
	}
	return out, nil
}

// classify scores every entry of alphabet against the region of its own
// width at (x, y) and returns the best character. Equal scores go to the
// lowest character code.
func (d *Decoder) classify(frame *l1video.Stacked, alphabet glyph.Alphabet, x, y int) (string, float64, error) {
	regions := make(map[int]glyph.Region, 2)
	best, bestScore := "", -1.0
	for _, e := range alphabet {
		var region glyph.Region
		if m := e.Scorer.Mask(); m != nil {
			r, ok := regions[m.Width]
			if !ok {
				r = frame.Region(x, y, m.Width, m.Height)
				regions[m.Width] = r
			}
			region = r
		}
		score, err := e.Scorer.Score(region)
		if err != nil {
			return "", 0, fmt.Errorf("score %q: %w", e.Char, err)
		}
		if score > bestScore || (score == bestScore && e.Char < best) {
			best, bestScore = e.Char, score
		}
	}
	return best, bestScore, nil
}
