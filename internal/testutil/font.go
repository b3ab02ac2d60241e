// Package testutil provides shared test fixtures for the decode pipeline.
//
// The real overlay font ships as PNG templates next to the binary. Tests
// use a synthetic seven-segment font instead, so every digit has a
// distinct shape and a perfect render scores exactly 1 against its own mask.
package testutil

import (
	"testing"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/device"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/glyph"
)

// PlaceholderScore is the fixed score used for space and empty placeholders.
const PlaceholderScore = 0.8

type rect struct{ x0, y0, x1, y1 int }

// Seven-segment layout in a 19x30 digit cell. Half-open rectangles.
var segments = map[byte]rect{
	'a': {4, 2, 15, 5},
	'b': {14, 4, 17, 15},
	'c': {14, 15, 17, 27},
	'd': {4, 25, 15, 28},
	'e': {2, 15, 5, 27},
	'f': {2, 4, 5, 15},
	'g': {4, 14, 15, 17},
}

var digitSegments = map[string]string{
	"0": "abcdef",
	"1": "bc",
	"2": "abged",
	"3": "abgcd",
	"4": "fgbc",
	"5": "afgcd",
	"6": "afgedc",
	"7": "abc",
	"8": "abcdefg",
	"9": "abcdfg",
}

// FontMasks returns seven-segment masks sized for profile: digits use the
// digit width, the negative sign the width of "-", both GlyphHeight tall.
func FontMasks(profile device.Profile) map[string]*glyph.Mask {
	h := profile.GlyphHeight
	dw := profile.DigitWidth()
	masks := make(map[string]*glyph.Mask, len(glyph.Digits)+1)
	for d, segs := range digitSegments {
		ink := make([]bool, dw*h)
		for i := 0; i < len(segs); i++ {
			paint(ink, dw, h, segments[segs[i]])
		}
		masks[d] = &glyph.Mask{Width: dw, Height: h, Ink: ink}
	}

	nw := profile.Widths[glyph.Negative]
	ink := make([]bool, nw*h)
	paint(ink, nw, h, rect{2, 14, nw - 2, 17})
	masks[glyph.Negative] = &glyph.Mask{Width: nw, Height: h, Ink: ink}
	return masks
}

// FontSet builds a glyph.Set from FontMasks, failing the test on error.
func FontSet(t testing.TB, profile device.Profile) *glyph.Set {
	t.Helper()
	set, err := glyph.NewSet(FontMasks(profile), PlaceholderScore)
	if err != nil {
		t.Fatalf("build synthetic font: %v", err)
	}
	return set
}

func paint(ink []bool, w, h int, r rect) {
	for y := r.y0; y < r.y1 && y < h; y++ {
		for x := r.x0; x < r.x1 && x < w; x++ {
			ink[y*w+x] = true
		}
	}
}
