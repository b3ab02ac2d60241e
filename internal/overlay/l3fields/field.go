package l3fields

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/device"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/glyph"
)

var (
	// ErrGrammarExhausted is returned when appending to a complete field.
	ErrGrammarExhausted = errors.New("l3fields: grammar exhausted")
	// ErrUnknownChar is returned for a character without a known width.
	ErrUnknownChar = errors.New("l3fields: unknown character")
	// ErrIncomplete is returned when a result is requested too early.
	ErrIncomplete = errors.New("l3fields: value is incomplete")
	// ErrParse is returned when a complete value has an invalid layout.
	ErrParse = errors.New("l3fields: parse error")
)

// DateTimeLayout is the overlay's timestamp text.
const DateTimeLayout = "2006/01/02 15:04:05 "

var coordinatePattern = regexp.MustCompile(`^-?[0-9]+\.[0-9]+$`)

// Field walks one value's grammar and tracks the predicted horizontal
// offset of the next character relative to the start of the value.
type Field struct {
	grammar []Slot
	set     *glyph.Set
	widths  device.WidthTable
	gap     int

	pos          int
	chars        []string
	offset       int
	history      []int
	forceNumeric bool
}

func newField(grammar []Slot, set *glyph.Set, p device.Profile) Field {
	return Field{grammar: grammar, set: set, widths: p.Widths, gap: p.CharGap}
}

// Alphabet consumes any literal slots at the current position and returns
// the alphabet of the next slot that needs scoring. It returns nil once
// the field is complete.
func (f *Field) Alphabet() (glyph.Alphabet, error) {
	for f.pos < len(f.grammar) {
		slot := f.grammar[f.pos]
		if lit, ok := slot.Literal(); ok {
			if err := f.Append(lit, 0); err != nil {
				return nil, err
			}
			continue
		}
		switch slot {
		case Number:
			return f.set.Numbers(), nil
		case NegativeOrNumber:
			if f.forceNumeric {
				return f.set.Numbers(), nil
			}
			return f.set.NegativeOrNumber(), nil
		case NegativeOrNothing:
			return f.set.NegativeOrNothing(), nil
		default:
			return nil, fmt.Errorf("l3fields: unexpected slot %s", slot)
		}
	}
	return nil, nil
}

// Append records ch at the current slot. drift is added to the offset
// before the character is placed. Digits are recorded in the offset
// history, then the cursor advances by the character width plus the gap.
func (f *Field) Append(ch string, drift int) error {
	if f.pos >= len(f.grammar) {
		return fmt.Errorf("%w: %q after %d slots", ErrGrammarExhausted, ch, len(f.grammar))
	}
	w, ok := f.widths.Width(ch)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownChar, ch)
	}
	digit := isDigit(ch)
	if digit || ch == glyph.Negative {
		f.forceNumeric = true
	}
	f.chars = append(f.chars, ch)
	f.pos++
	f.offset += drift
	if digit {
		f.history = append(f.history, f.offset)
	}
	if w > 0 {
		f.offset += w + f.gap
	}
	return nil
}

// Complete reports whether every slot has been filled.
func (f *Field) Complete() bool { return f.pos >= len(f.grammar) }

// Offset is the offset of the next character relative to the field start.
func (f *Field) Offset() int { return f.offset }

// History returns the offset of every digit appended so far.
func (f *Field) History() []int { return append([]int(nil), f.history...) }

// String returns the characters appended so far.
func (f *Field) String() string { return strings.Join(f.chars, "") }

// Reset clears all state so the field can decode another value.
func (f *Field) Reset() {
	f.pos = 0
	f.chars = f.chars[:0]
	f.offset = 0
	f.history = f.history[:0]
	f.forceNumeric = false
}

// DateTime is a field holding the overlay timestamp.
type DateTime struct{ Field }

// NewDateTime returns a timestamp field for profile.
func NewDateTime(set *glyph.Set, p device.Profile) *DateTime {
	return &DateTime{newField(DateTimeGrammar, set, p)}
}

// Result parses the completed timestamp as UTC.
func (d *DateTime) Result() (time.Time, error) {
	if !d.Complete() {
		return time.Time{}, ErrIncomplete
	}
	ts, err := time.Parse(DateTimeLayout, d.String())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: datetime %q: %v", ErrParse, d.String(), err)
	}
	return ts, nil
}

// Coordinate is a field holding a latitude or longitude.
type Coordinate struct {
	Field
	// limit bounds the absolute value; zero means unbounded.
	limit decimal.Decimal
}

// Coordinate magnitude limits in degrees.
var (
	MaxLatitude  = decimal.NewFromInt(90)
	MaxLongitude = decimal.NewFromInt(180)
)

// NewCoordinate returns an unbounded coordinate field for profile.
func NewCoordinate(set *glyph.Set, p device.Profile) *Coordinate {
	return &Coordinate{Field: newField(CoordinateGrammar, set, p)}
}

// NewLatitude returns a coordinate field that rejects values beyond ±90.
func NewLatitude(set *glyph.Set, p device.Profile) *Coordinate {
	return &Coordinate{Field: newField(CoordinateGrammar, set, p), limit: MaxLatitude}
}

// NewLongitude returns a coordinate field that rejects values beyond ±180.
func NewLongitude(set *glyph.Set, p device.Profile) *Coordinate {
	return &Coordinate{Field: newField(CoordinateGrammar, set, p), limit: MaxLongitude}
}

// Result parses the completed coordinate, keeping its printed precision.
func (c *Coordinate) Result() (decimal.Decimal, error) {
	if !c.Complete() {
		return decimal.Decimal{}, ErrIncomplete
	}
	s := strings.TrimSpace(c.String())
	if !coordinatePattern.MatchString(s) {
		return decimal.Decimal{}, fmt.Errorf("%w: coordinate %q", ErrParse, c.String())
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: coordinate %q: %v", ErrParse, c.String(), err)
	}
	if !c.limit.IsZero() && v.Abs().GreaterThan(c.limit) {
		return decimal.Decimal{}, fmt.Errorf("%w: coordinate %q out of range ±%s", ErrParse, c.String(), c.limit)
	}
	return v, nil
}

func isDigit(ch string) bool {
	return len(ch) == 1 && ch[0] >= '0' && ch[0] <= '9'
}
