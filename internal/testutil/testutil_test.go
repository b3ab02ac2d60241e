package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/device"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/glyph"
)

func TestFontSetIsValid(t *testing.T) {
	p := device.Default()
	set := FontSet(t, p)
	w, h := set.DigitShape()
	assert.Equal(t, 19, w)
	assert.Equal(t, 30, h)
	assert.Equal(t, 14, set.NegativeMask().Width)
}

func TestFontDigitsAreDistinct(t *testing.T) {
	masks := FontMasks(device.Default())
	for _, a := range glyph.Digits {
		for _, b := range glyph.Digits {
			if a == b {
				continue
			}
			assert.NotEqual(t, masks[a].Ink, masks[b].Ink, "%s vs %s", a, b)
		}
	}
}

func TestCoordinateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"47.62221", []string{"", " ", "4", "7", ".", "6", "2", "2", "2", "1", " "}},
		{"-122.17650", []string{"-", "1", "2", "2", ".", "1", "7", "6", "5", "0", " "}},
		{"-47.10000", []string{"", "-", "4", "7", ".", "1", "0", "0", "0", "0", " "}},
		{"5.00001", []string{"", " ", " ", "5", ".", "0", "0", "0", "0", "1", " "}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CoordinateTokens(tt.in), tt.in)
	}
}

func TestDateTimeTokens(t *testing.T) {
	ts := time.Date(2025, 6, 1, 13, 45, 49, 0, time.UTC)
	toks := DateTimeTokens(ts)
	require.Len(t, toks, 20)
	assert.Equal(t, "2", toks[0])
	assert.Equal(t, " ", toks[19])
}

func TestRenderPlacesDigitsAtOffsets(t *testing.T) {
	p := device.Default()
	masks := FontMasks(p)
	f := Layout{Profile: p}.Render(masks, []string{"8", "/", "8"})

	// "8" has segment 'a' starting at column 4, row 2
	first := f.Region(p.BaseOffset, p.GlyphTop, 19, 30)
	assert.Equal(t, 1.0, first.Pix[2*19+4])
	second := f.Region(p.BaseOffset+21+16, p.GlyphTop, 19, 30)
	assert.Equal(t, first.Pix, second.Pix)
}

func TestRenderParityNudge(t *testing.T) {
	p := device.Default()
	masks := FontMasks(p)
	plain := Layout{Profile: p}.Render(masks, []string{"8"})
	nudged := Layout{Profile: p, Parity: true}.Render(masks, []string{"8"})

	a := plain.Region(p.BaseOffset, p.GlyphTop, 19, 30)
	b := nudged.Region(p.BaseOffset+1, p.GlyphTop, 19, 30)
	assert.Equal(t, a.Pix, b.Pix)
}
