package l3fields

import "fmt"

// Slot is the kind of character allowed at one grammar position.
type Slot uint8

const (
	// Number is a single digit.
	Number Slot = iota
	// Slash is a literal "/".
	Slash
	// Colon is a literal ":".
	Colon
	// Period is a literal ".".
	Period
	// Space is a literal " ".
	Space
	// NegativeOrNumber is a sign, a digit or a padding space.
	NegativeOrNumber
	// NegativeOrNothing is a sign or nothing at all.
	NegativeOrNothing
)

var slotNames = [...]string{
	Number:            "NUMBER",
	Slash:             "SLASH",
	Colon:             "COLON",
	Period:            "PERIOD",
	Space:             "SPACE",
	NegativeOrNumber:  "NEGATIVE_OR_NUMBER",
	NegativeOrNothing: "NEGATIVE_OR_NOTHING",
}

func (s Slot) String() string {
	if int(s) < len(slotNames) {
		return slotNames[s]
	}
	return fmt.Sprintf("Slot(%d)", uint8(s))
}

// Literal returns the character of a literal slot. Literal slots are
// consumed without scoring.
func (s Slot) Literal() (string, bool) {
	switch s {
	case Slash:
		return "/", true
	case Colon:
		return ":", true
	case Period:
		return ".", true
	case Space:
		return " ", true
	default:
		return "", false
	}
}

// DateTimeGrammar is "YYYY/MM/DD HH:MM:SS " with its trailing space.
var DateTimeGrammar = []Slot{
	Number, Number, Number, Number, Slash,
	Number, Number, Slash,
	Number, Number, Space,
	Number, Number, Colon,
	Number, Number, Colon,
	Number, Number, Space,
}

// CoordinateGrammar is an optional sign, up to three integer digits padded
// with spaces, the period, five fraction digits and a trailing space.
var CoordinateGrammar = []Slot{
	NegativeOrNothing,
	NegativeOrNumber, NegativeOrNumber, NegativeOrNumber,
	Period,
	Number, Number, Number, Number, Number,
	Space,
}
