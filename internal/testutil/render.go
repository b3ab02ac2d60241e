package testutil

import (
	"strings"
	"time"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/device"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/glyph"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l1video"
)

// DateTimeLayout is the overlay's timestamp text, including its trailing space.
const DateTimeLayout = "2006/01/02 15:04:05 "

// DateTimeTokens splits a timestamp into one token per grammar slot.
func DateTimeTokens(ts time.Time) []string {
	return strings.Split(ts.Format(DateTimeLayout), "")
}

// CoordinateTokens splits a decimal coordinate such as "47.62221" or
// "-122.17650" into one token per coordinate grammar slot: a sign-or-empty
// slot, three sign-digit-or-space slots, the period, the fraction digits
// and a trailing space.
func CoordinateTokens(value string) []string {
	intPart, frac, _ := strings.Cut(value, ".")
	var out []string
	if len(intPart) > 3 {
		out = append(out, intPart[:1])
		intPart = intPart[1:]
	} else {
		out = append(out, "")
	}
	intPart = strings.Repeat(" ", 3-len(intPart)) + intPart
	out = append(out, strings.Split(intPart, "")...)
	out = append(out, ".")
	out = append(out, strings.Split(frac, "")...)
	return append(out, " ")
}

// RecordTokens concatenates the tokens of one full overlay record.
func RecordTokens(ts time.Time, lat, lon string) []string {
	out := DateTimeTokens(ts)
	out = append(out, CoordinateTokens(lat)...)
	return append(out, CoordinateTokens(lon)...)
}

// Layout places rendered characters the way the recorder does: at the base
// offset plus the accumulated advances, optionally with the alternating
// ±1 pixel nudge per digit, and dy rows away from GlyphTop.
type Layout struct {
	Profile device.Profile
	DY      int
	Parity  bool
}

// Render paints tokens onto a white frame. Only digits and the negative
// sign are inked; literals and placeholders only advance the cursor.
func (l Layout) Render(masks map[string]*glyph.Mask, tokens []string) *l1video.Frame {
	p := l.Profile
	f := l1video.NewFrame(p.FrameWidth, p.FrameHeight)
	total := 0
	sign := 1
	for _, tok := range tokens {
		nudge := 0
		if l.Parity {
			nudge = sign
		}
		if m, ok := masks[tok]; ok {
			stamp(f, m, p.BaseOffset+total+nudge, p.GlyphTop+l.DY)
		}
		isDigit := len(tok) == 1 && tok[0] >= '0' && tok[0] <= '9'
		if isDigit && l.Parity {
			total += sign
			sign = -sign
		}
		if w := p.Widths[tok]; w > 0 {
			total += w + p.CharGap
		}
	}
	return f
}

// Video renders each token sequence count times, in order, as one video.
func (l Layout) Video(masks map[string]*glyph.Mask, runs ...Run) *l1video.Video {
	v := &l1video.Video{Width: l.Profile.FrameWidth, Height: l.Profile.FrameHeight}
	for _, r := range runs {
		f := l.Render(masks, r.Tokens)
		for i := 0; i < r.Count; i++ {
			v.Frames = append(v.Frames, f)
		}
	}
	return v
}

// Run is a stretch of identical frames.
type Run struct {
	Tokens []string
	Count  int
}

func stamp(f *l1video.Frame, m *glyph.Mask, x, y int) {
	for my := 0; my < m.Height; my++ {
		for mx := 0; mx < m.Width; mx++ {
			if !m.Ink[my*m.Width+mx] {
				continue
			}
			fx, fy := x+mx, y+my
			if fx < 0 || fx >= f.Width || fy < 0 || fy >= f.Height {
				continue
			}
			i := (fy*f.Width + fx) * l1video.Channels
			f.Pix[i], f.Pix[i+1], f.Pix[i+2] = 0, 0, 0
		}
	}
}
