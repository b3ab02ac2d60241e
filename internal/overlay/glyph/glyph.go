// Package glyph scores pixel regions against the overlay font.
//
// A glyph mask is a boolean template of one character's ink. Scoring is
// intersection-over-union between the mask and the ink of a region, so a
// perfect render scores 1 and a blank region scores 0. Placeholders such as
// the space and the empty "no character" slot have no shape to compare and
// use a fixed score instead.
package glyph

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyUnion means neither the mask nor the region has any ink. It
	// can only happen with a blank mask and signals a broken glyph set.
	ErrEmptyUnion = errors.New("glyph: empty union between mask and region")

	// ErrShapeMismatch is returned when a region does not have the mask's size.
	ErrShapeMismatch = errors.New("glyph: region shape does not match mask")
)

// Mask is the ink template of one rendered character, stored row-major.
type Mask struct {
	Width  int
	Height int
	Ink    []bool
}

// NewMask builds a mask, checking that ink covers width*height pixels.
func NewMask(width, height int, ink []bool) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("glyph: invalid mask size %dx%d", width, height)
	}
	if len(ink) != width*height {
		return nil, fmt.Errorf("glyph: mask %dx%d needs %d pixels, got %d", width, height, width*height, len(ink))
	}
	return &Mask{Width: width, Height: height, Ink: ink}, nil
}

// Count returns the number of ink pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Ink {
		if v {
			n++
		}
	}
	return n
}

// SameShape reports whether two masks have identical dimensions.
func (m *Mask) SameShape(o *Mask) bool {
	return m.Width == o.Width && m.Height == o.Height
}

// Region is a block of inverted, normalized pixel intensities where 1 is
// full ink and 0 is paper.
type Region struct {
	Width  int
	Height int
	Pix    []float64
}

// Stack is a sequence of equally sized regions laid out back to back, used
// to score a whole video's worth of one screen position in a single pass.
type Stack struct {
	Width  int
	Height int
	Pix    []float64
}

// Len returns the number of regions in the stack.
func (s Stack) Len() int {
	size := s.Width * s.Height
	if size == 0 {
		return 0
	}
	return len(s.Pix) / size
}

// At returns the i-th region of the stack without copying.
func (s Stack) At(i int) Region {
	size := s.Width * s.Height
	return Region{Width: s.Width, Height: s.Height, Pix: s.Pix[i*size : (i+1)*size]}
}

type scorerKind uint8

const (
	shapeKind scorerKind = iota
	fixedKind
)

// Scorer rates how well a region matches one character. It is either a
// shape scorer backed by a Mask or a fixed scorer returning a constant.
type Scorer struct {
	kind  scorerKind
	mask  *Mask
	fixed float64
}

// Shape returns a scorer comparing regions against m.
func Shape(m *Mask) Scorer {
	return Scorer{kind: shapeKind, mask: m}
}

// Fixed returns a scorer that ignores its input and always returns score.
func Fixed(score float64) Scorer {
	return Scorer{kind: fixedKind, fixed: score}
}

// IsFixed reports whether s is a fixed-score placeholder.
func (s Scorer) IsFixed() bool { return s.kind == fixedKind }

// Mask returns the shape scorer's mask, or nil for a fixed scorer.
func (s Scorer) Mask() *Mask { return s.mask }

// Score returns the similarity of r to the scorer's character in [0, 1].
func (s Scorer) Score(r Region) (float64, error) {
	if s.kind == fixedKind {
		return s.fixed, nil
	}
	if r.Width != s.mask.Width || r.Height != s.mask.Height || len(r.Pix) != len(s.mask.Ink) {
		return 0, fmt.Errorf("%w: mask %dx%d, region %dx%d", ErrShapeMismatch, s.mask.Width, s.mask.Height, r.Width, r.Height)
	}
	return iou(s.mask.Ink, r.Pix)
}

// ScoreStack scores every region of st in one pass, returning one score per
// region in order.
func (s Scorer) ScoreStack(st Stack) ([]float64, error) {
	n := st.Len()
	out := make([]float64, n)
	if s.kind == fixedKind {
		for i := range out {
			out[i] = s.fixed
		}
		return out, nil
	}
	if st.Width != s.mask.Width || st.Height != s.mask.Height {
		return nil, fmt.Errorf("%w: mask %dx%d, stack %dx%d", ErrShapeMismatch, s.mask.Width, s.mask.Height, st.Width, st.Height)
	}
	for i := 0; i < n; i++ {
		v, err := iou(s.mask.Ink, st.At(i).Pix)
		if err != nil {
			return nil, fmt.Errorf("region %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// iou sums region intensity under the mask and divides by the number of
// pixels that are inked in either the mask or the region.
func iou(mask []bool, pix []float64) (float64, error) {
	var inter float64
	union := 0
	for i, m := range mask {
		v := pix[i]
		if m {
			inter += v
		}
		if m || v != 0 {
			union++
		}
	}
	if union == 0 {
		return 0, ErrEmptyUnion
	}
	return inter / float64(union), nil
}
