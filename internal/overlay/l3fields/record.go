package l3fields

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/device"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/glyph"
)

// EmbeddedData is one decoded overlay record.
type EmbeddedData struct {
	Time      time.Time
	Latitude  decimal.NullDecimal
	Longitude decimal.NullDecimal
}

type value interface {
	Alphabet() (glyph.Alphabet, error)
	Append(ch string, drift int) error
	Complete() bool
	Offset() int
	Reset()
}

// Record sequences the timestamp, latitude and longitude fields of one
// overlay line. Offsets carry over from one field to the next so the
// predicted position increases across the whole line.
//
// In parity mode each digit is nudged by an alternating ±1 pixel, starting
// at +1, to cancel the renderer's accumulated rounding error.
type Record struct {
	DateTime  *DateTime
	Latitude  *Coordinate
	Longitude *Coordinate

	base       int
	parity     bool
	fields     [3]value
	active     int
	cumulative int
	sign       int
}

// NewRecord returns a record decoder for profile. parity enables the
// alternating drift correction.
func NewRecord(set *glyph.Set, p device.Profile, parity bool) *Record {
	r := &Record{
		DateTime:  NewDateTime(set, p),
		Latitude:  NewLatitude(set, p),
		Longitude: NewLongitude(set, p),
		base:      p.BaseOffset,
		parity:    parity,
		sign:      1,
	}
	r.fields = [3]value{r.DateTime, r.Latitude, r.Longitude}
	return r
}

// Alphabet returns the alphabet of the next character to score, advancing
// past fields completed by literal slots. It returns nil once the record
// is complete.
func (r *Record) Alphabet() (glyph.Alphabet, error) {
	for r.active < len(r.fields) {
		a, err := r.fields[r.active].Alphabet()
		if err != nil {
			return nil, err
		}
		if r.advance() {
			continue
		}
		return a, nil
	}
	return nil, nil
}

// NextOffset predicts the screen column of the next character.
func (r *Record) NextOffset() int {
	off := r.base + r.cumulative
	if r.active < len(r.fields) {
		off += r.fields[r.active].Offset()
	}
	if r.parity {
		off += r.sign
	}
	return off
}

// Append records ch in the active field.
func (r *Record) Append(ch string) error {
	if r.active >= len(r.fields) {
		return fmt.Errorf("%w: %q after record end", ErrGrammarExhausted, ch)
	}
	drift := 0
	if isDigit(ch) && r.parity {
		drift = r.sign
		r.sign = -r.sign
	}
	if err := r.fields[r.active].Append(ch, drift); err != nil {
		return err
	}
	r.advance()
	return nil
}

// advance folds a completed active field into the cumulative offset and
// moves on to the next one.
func (r *Record) advance() bool {
	if r.active >= len(r.fields) || !r.fields[r.active].Complete() {
		return false
	}
	r.cumulative += r.fields[r.active].Offset()
	r.active++
	return true
}

// Complete reports whether all three fields are complete.
func (r *Record) Complete() bool { return r.active >= len(r.fields) }

// Parity reports whether drift correction is enabled.
func (r *Record) Parity() bool { return r.parity }

// Result parses the three completed fields.
func (r *Record) Result() (EmbeddedData, error) {
	if !r.Complete() {
		return EmbeddedData{}, ErrIncomplete
	}
	ts, err := r.DateTime.Result()
	if err != nil {
		return EmbeddedData{}, err
	}
	lat, err := r.Latitude.Result()
	if err != nil {
		return EmbeddedData{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := r.Longitude.Result()
	if err != nil {
		return EmbeddedData{}, fmt.Errorf("longitude: %w", err)
	}
	return EmbeddedData{
		Time:      ts,
		Latitude:  decimal.NewNullDecimal(lat),
		Longitude: decimal.NewNullDecimal(lon),
	}, nil
}

// Reset returns the record and its fields to their initial state.
func (r *Record) Reset() {
	for _, f := range r.fields {
		f.Reset()
	}
	r.active = 0
	r.cumulative = 0
	r.sign = 1
}
