package l1video

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
)

// Image converts a representative frame to an 8-bit RGBA image, rounding
// each averaged channel to the nearest byte.
func (s *Stacked) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			i := (y*s.Width + x) * Channels
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(s.Pix[i]),
				G: toByte(s.Pix[i+1]),
				B: toByte(s.Pix[i+2]),
				A: 255,
			})
		}
	}
	return img
}

// EncodePNG writes s as a PNG.
func EncodePNG(w io.Writer, s *Stacked) error {
	return png.Encode(w, s.Image())
}

func toByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
