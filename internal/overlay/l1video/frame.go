package l1video

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/glyph"
)

// Channels is the number of interleaved colour channels per pixel.
const Channels = 3

// ErrEmptyRange is returned when averaging zero frames.
var ErrEmptyRange = errors.New("l1video: empty frame range")

// Frame is one cropped overlay strip as interleaved RGB bytes.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame allocates a white frame.
func NewFrame(width, height int) *Frame {
	pix := make([]uint8, width*height*Channels)
	for i := range pix {
		pix[i] = 255
	}
	return &Frame{Width: width, Height: height, Pix: pix}
}

// Video is a finite ordered sequence of equally sized frames.
type Video struct {
	Width  int
	Height int
	Frames []*Frame
}

// Len returns the number of frames.
func (v *Video) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Frames)
}

// Stacked is the per-pixel mean of a range of frames. Pix holds
// interleaved RGB values in [0, 255].
type Stacked struct {
	Width  int
	Height int
	Pix    []float64
}

// Mean averages frames[start:end] into a representative frame. Temporal
// averaging suppresses motion blur and single-frame noise.
func (v *Video) Mean(start, end int) (*Stacked, error) {
	if start < 0 || end > len(v.Frames) || start >= end {
		return nil, fmt.Errorf("%w: [%d, %d) of %d", ErrEmptyRange, start, end, len(v.Frames))
	}
	n := v.Width * v.Height * Channels
	sum := make([]float64, n)
	row := make([]float64, n)
	for _, f := range v.Frames[start:end] {
		if len(f.Pix) != n {
			return nil, fmt.Errorf("l1video: frame has %d bytes, want %d", len(f.Pix), n)
		}
		for i, b := range f.Pix {
			row[i] = float64(b)
		}
		floats.Add(sum, row)
	}
	floats.Scale(1/float64(end-start), sum)
	return &Stacked{Width: v.Width, Height: v.Height, Pix: sum}, nil
}

// Region extracts a w×h block with its top-left corner at (x, y) as
// inverted, normalized intensity. Pixels outside the frame read as paper.
func (f *Frame) Region(x, y, w, h int) glyph.Region {
	return extract(f.Width, f.Height, x, y, w, h, func(i int) float64 { return float64(f.Pix[i]) })
}

// Region extracts a w×h block of the representative frame.
func (s *Stacked) Region(x, y, w, h int) glyph.Region {
	return extract(s.Width, s.Height, x, y, w, h, func(i int) float64 { return s.Pix[i] })
}

// StackRegions extracts the same block from every frame of v and lays the
// regions back to back for batched scoring.
func (v *Video) StackRegions(x, y, w, h int) glyph.Stack {
	st := glyph.Stack{Width: w, Height: h, Pix: make([]float64, 0, len(v.Frames)*w*h)}
	for _, f := range v.Frames {
		st.Pix = append(st.Pix, f.Region(x, y, w, h).Pix...)
	}
	return st
}

func extract(fw, fh, x, y, w, h int, at func(int) float64) glyph.Region {
	pix := make([]float64, w*h)
	for ry := 0; ry < h; ry++ {
		sy := y + ry
		if sy < 0 || sy >= fh {
			continue
		}
		for rx := 0; rx < w; rx++ {
			sx := x + rx
			if sx < 0 || sx >= fw {
				continue
			}
			base := (sy*fw + sx) * Channels
			var sum float64
			for c := 0; c < Channels; c++ {
				sum += at(base + c)
			}
			pix[ry*w+rx] = 1 - sum/(Channels*255)
		}
	}
	return glyph.Region{Width: w, Height: h, Pix: pix}
}
