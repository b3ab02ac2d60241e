package glyph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInconsistentShape means the digit masks are not all the same size.
	ErrInconsistentShape = errors.New("glyph: numerical characters are not a consistent shape")
	// ErrMissingGlyph means a required character has no mask.
	ErrMissingGlyph = errors.New("glyph: missing glyph")
	// ErrBlankGlyph means a mask has no ink at all.
	ErrBlankGlyph = errors.New("glyph: mask has no ink")
)

// Digits lists the numeric characters in order.
var Digits = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

// Negative is the sign character.
const Negative = "-"

// Entry pairs a candidate character with its scorer.
type Entry struct {
	Char   string
	Scorer Scorer
}

// Alphabet is an ordered set of candidate characters for one grammar slot.
type Alphabet []Entry

// Chars returns the characters of a in order.
func (a Alphabet) Chars() []string {
	out := make([]string, len(a))
	for i, e := range a {
		out[i] = e.Char
	}
	return out
}

// Lookup returns the scorer for ch.
func (a Alphabet) Lookup(ch string) (Scorer, bool) {
	for _, e := range a {
		if e.Char == ch {
			return e.Scorer, true
		}
	}
	return Scorer{}, false
}

// Set is a loaded overlay font with the alphabets the field grammars use.
// It is immutable and safe to share between decode tasks.
type Set struct {
	numbers           Alphabet
	negativeOrNumber  Alphabet
	negativeOrNothing Alphabet
	digitWidth        int
	digitHeight       int
}

// NewSet validates masks and builds the alphabets. Every digit and the
// negative sign must be present, all digits must share one shape, and no
// mask may be blank. placeholder is the fixed score of the space and empty
// placeholders.
func NewSet(masks map[string]*Mask, placeholder float64) (*Set, error) {
	for _, ch := range append(append([]string{}, Digits...), Negative) {
		m, ok := masks[ch]
		if !ok || m == nil {
			return nil, fmt.Errorf("%w: %q", ErrMissingGlyph, ch)
		}
		if m.Count() == 0 {
			return nil, fmt.Errorf("%w: %q", ErrBlankGlyph, ch)
		}
	}

	first := masks[Digits[0]]
	for _, d := range Digits[1:] {
		if !masks[d].SameShape(first) {
			return nil, fmt.Errorf("%w:\n%s", ErrInconsistentShape, describeShapes(masks))
		}
	}

	numbers := make(Alphabet, 0, len(Digits))
	for _, d := range Digits {
		numbers = append(numbers, Entry{Char: d, Scorer: Shape(masks[d])})
	}
	negative := Entry{Char: Negative, Scorer: Shape(masks[Negative])}

	negOrNum := make(Alphabet, 0, len(numbers)+2)
	negOrNum = append(negOrNum, numbers...)
	negOrNum = append(negOrNum, negative, Entry{Char: " ", Scorer: Fixed(placeholder)})

	return &Set{
		numbers:           numbers,
		negativeOrNumber:  negOrNum,
		negativeOrNothing: Alphabet{negative, {Char: "", Scorer: Fixed(placeholder)}},
		digitWidth:        first.Width,
		digitHeight:       first.Height,
	}, nil
}

// Numbers returns the ten digit scorers.
func (s *Set) Numbers() Alphabet { return s.numbers }

// NegativeOrNumber returns digits, the negative sign and a fixed-score space.
func (s *Set) NegativeOrNumber() Alphabet { return s.negativeOrNumber }

// NegativeOrNothing returns the negative sign and a fixed-score empty placeholder.
func (s *Set) NegativeOrNothing() Alphabet { return s.negativeOrNothing }

// DigitShape returns the width and height shared by all digit masks.
func (s *Set) DigitShape() (width, height int) { return s.digitWidth, s.digitHeight }

// NegativeMask returns the mask of the negative sign.
func (s *Set) NegativeMask() *Mask {
	sc, _ := s.negativeOrNothing.Lookup(Negative)
	return sc.Mask()
}

func describeShapes(masks map[string]*Mask) string {
	lines := make([]string, 0, len(Digits))
	for _, d := range Digits {
		m := masks[d]
		lines = append(lines, fmt.Sprintf("%s = (%d, %d)", d, m.Height, m.Width))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
