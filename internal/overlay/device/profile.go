// Package device describes the pixel geometry of a recorder's burned-in
// telemetry overlay.
//
// Everything downstream (glyph scoring, segment detection, the field
// grammars) addresses pixels through a Profile, so supporting a different
// recorder or resolution means supplying a different Profile rather than
// touching the decode logic.
package device

import (
	"errors"
	"fmt"
)

// ErrInvalidProfile is returned by Validate for unusable geometry.
var ErrInvalidProfile = errors.New("invalid device profile")

// Candidate is one vertical calibration guess tried during segment
// detection. Units are pixels relative to GlyphTop.
type Candidate struct {
	DY int `json:"dy" yaml:"dy"`
	// Parity enables the alternating ±1 drift correction for records
	// decoded at this vertical offset.
	Parity bool `json:"parity" yaml:"parity"`
}

func (c Candidate) String() string {
	if c.Parity {
		return fmt.Sprintf("dy=%+d parity", c.DY)
	}
	return fmt.Sprintf("dy=%+d", c.DY)
}

// WidthTable maps a rendered character to its advance in pixels.
// The empty string is the "no character" placeholder and has width 0.
type WidthTable map[string]int

// Width returns the advance of ch and whether ch is known.
func (w WidthTable) Width(ch string) (int, bool) {
	v, ok := w[ch]
	return v, ok
}

// Profile holds the fixed overlay geometry for one recorder model.
type Profile struct {
	Name string

	// Source video geometry and the crop that isolates the overlay strip.
	SourceWidth  int
	SourceHeight int
	CropX        int
	CropY        int

	// Cropped frame geometry (3 channels, 8 bits each).
	FrameWidth  int
	FrameHeight int

	// Glyph rows inside the cropped frame, before vertical calibration.
	GlyphTop    int
	GlyphHeight int

	// Left column of the seconds digit used for change detection.
	SecondsDigitX int

	// Left column of the first character of a record.
	BaseOffset int

	// Gap added after every character with a non-zero width.
	CharGap int

	Widths     WidthTable
	Candidates []Candidate
}

// Characters every profile must be able to advance over.
var requiredChars = []string{
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"/", ":", ".", "-", " ", "",
}

// DefaultWidths returns the character width table of the RCT715 overlay font.
func DefaultWidths() WidthTable {
	w := WidthTable{
		"/": 14,
		":": 14,
		".": 14,
		"-": 14,
		" ": 8,
		"":  0,
	}
	for d := '0'; d <= '9'; d++ {
		w[string(d)] = 19
	}
	return w
}

// Default returns the profile of a Garmin Varia RCT715 recording at 1080p.
func Default() Profile {
	return Profile{
		Name:          "rct715-1080p",
		SourceWidth:   1920,
		SourceHeight:  1080,
		CropX:         0,
		CropY:         1035,
		FrameWidth:    1450,
		FrameHeight:   40,
		GlyphTop:      5,
		GlyphHeight:   30,
		SecondsDigitX: 561,
		BaseOffset:    214,
		CharGap:       2,
		Widths:        DefaultWidths(),
		Candidates: []Candidate{
			{DY: 0, Parity: false},
			{DY: -1, Parity: true},
		},
	}
}

// DigitWidth is the advance shared by all ten digits.
func (p Profile) DigitWidth() int {
	return p.Widths["0"]
}

// Validate reports geometry that cannot be decoded.
func (p Profile) Validate() error {
	if p.FrameWidth <= 0 || p.FrameHeight <= 0 {
		return fmt.Errorf("%w: frame size %dx%d", ErrInvalidProfile, p.FrameWidth, p.FrameHeight)
	}
	if p.GlyphHeight <= 0 || p.GlyphTop < 0 {
		return fmt.Errorf("%w: glyph rows top=%d height=%d", ErrInvalidProfile, p.GlyphTop, p.GlyphHeight)
	}
	if p.CharGap < 0 || p.BaseOffset < 0 || p.SecondsDigitX < 0 {
		return fmt.Errorf("%w: negative offset", ErrInvalidProfile)
	}
	if len(p.Candidates) == 0 {
		return fmt.Errorf("%w: no vertical candidates", ErrInvalidProfile)
	}
	for _, c := range p.Candidates {
		top := p.GlyphTop + c.DY
		if top < 0 || top+p.GlyphHeight > p.FrameHeight {
			return fmt.Errorf("%w: candidate %s places glyphs outside the frame", ErrInvalidProfile, c)
		}
	}
	for _, ch := range requiredChars {
		if _, ok := p.Widths[ch]; !ok {
			return fmt.Errorf("%w: no width for %q", ErrInvalidProfile, ch)
		}
	}
	if p.Widths[""] != 0 {
		return fmt.Errorf("%w: empty placeholder must have zero width", ErrInvalidProfile)
	}
	d := p.DigitWidth()
	for ch := '1'; ch <= '9'; ch++ {
		if p.Widths[string(ch)] != d {
			return fmt.Errorf("%w: digit %q width %d differs from %d", ErrInvalidProfile, ch, p.Widths[string(ch)], d)
		}
	}
	return nil
}
