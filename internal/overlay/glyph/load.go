package glyph

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// inkThreshold is the inverted intensity above which a template pixel is ink.
const inkThreshold = 0.5

// DecodeMask reads a PNG glyph template. Dark pixels become ink.
func DecodeMask(r io.Reader) (*Mask, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode glyph png: %w", err)
	}
	return MaskFromImage(img)
}

// MaskFromImage thresholds img into a mask.
func MaskFromImage(img image.Image) (*Mask, error) {
	b := img.Bounds()
	ink := make([]bool, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			ink = append(ink, 1-float64(g.Y)/255 > inkThreshold)
		}
	}
	return NewMask(b.Dx(), b.Dy(), ink)
}

// LoadDir loads "<char>.png" templates for every digit and the negative
// sign from dir.
func LoadDir(dir string) (map[string]*Mask, error) {
	masks := make(map[string]*Mask, len(Digits)+1)
	for _, ch := range append(append([]string{}, Digits...), Negative) {
		path := filepath.Join(dir, ch+".png")
		m, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		masks[ch] = m
	}
	return masks, nil
}

func loadFile(path string) (*Mask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open glyph %s: %w", path, err)
	}
	defer f.Close()
	m, err := DecodeMask(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
