package l4records

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/device"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/glyph"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l1video"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l3fields"
	"github.com/banshee-data/overlay.telemetry/internal/testutil"
)

func stacked(f *l1video.Frame) *l1video.Stacked {
	v := &l1video.Video{Width: f.Width, Height: f.Height, Frames: []*l1video.Frame{f}}
	s, err := v.Mean(0, 1)
	if err != nil {
		panic(err)
	}
	return s
}

func TestDecodeRenderedFrame(t *testing.T) {
	tests := []struct {
		name      string
		layout    func(device.Profile) testutil.Layout
		candidate device.Candidate
		ts        time.Time
		lat, lon  string
	}{
		{
			name:      "plain",
			layout:    func(p device.Profile) testutil.Layout { return testutil.Layout{Profile: p} },
			candidate: device.Candidate{DY: 0},
			ts:        time.Date(2025, 6, 1, 13, 45, 49, 0, time.UTC),
			lat:       "47.62221",
			lon:       "-122.17650",
		},
		{
			name:      "parity",
			layout:    func(p device.Profile) testutil.Layout { return testutil.Layout{Profile: p, DY: -1, Parity: true} },
			candidate: device.Candidate{DY: -1, Parity: true},
			ts:        time.Date(2024, 6, 8, 14, 23, 55, 0, time.UTC),
			lat:       "47.64068",
			lon:       "-122.17916",
		},
		{
			name:      "southern hemisphere",
			layout:    func(p device.Profile) testutil.Layout { return testutil.Layout{Profile: p} },
			candidate: device.Candidate{DY: 0},
			ts:        time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
			lat:       "-3.50000",
			lon:       "151.20732",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := device.Default()
			set := testutil.FontSet(t, p)
			frame := tt.layout(p).Render(testutil.FontMasks(p), testutil.RecordTokens(tt.ts, tt.lat, tt.lon))

			dec, err := NewDecoder(set, p, tt.candidate)
			require.NoError(t, err)
			out, err := dec.Decode(stacked(frame), dec.NewRecord())
			require.NoError(t, err)
			require.NoError(t, out.Err)
			require.NotNil(t, out.Data, "text %q", out.Text)

			assert.Equal(t, tt.ts, out.Data.Time)
			assert.Equal(t, tt.lat, out.Data.Latitude.Decimal.StringFixed(5))
			assert.Equal(t, tt.lon, out.Data.Longitude.Decimal.StringFixed(5))
			assert.Greater(t, out.Quality, 0.9)
			assert.LessOrEqual(t, out.Quality, 1.0)
		})
	}
}

// A two-digit negative latitude draws its sign in the optional sign slot,
// which shifts the digits one slot left. The result must surface as a parse
// error rather than a coordinate off the globe.
func TestDecodeTwoDigitNegativeLatitude(t *testing.T) {
	p := device.Default()
	set := testutil.FontSet(t, p)
	ts := time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)
	frame := testutil.Layout{Profile: p}.Render(testutil.FontMasks(p), testutil.RecordTokens(ts, "-33.86785", "151.20732"))

	dec, err := NewDecoder(set, p, device.Candidate{})
	require.NoError(t, err)
	out, err := dec.Decode(stacked(frame), dec.NewRecord())
	require.NoError(t, err)
	assert.Nil(t, out.Data)
	assert.True(t, errors.Is(out.Err, l3fields.ErrParse), "got %v", out.Err)
	assert.Contains(t, out.Err.Error(), "latitude")
}

func TestDecodeQualityCountsPlaceholders(t *testing.T) {
	p := device.Default()
	set := testutil.FontSet(t, p)
	ts := time.Date(2025, 6, 1, 13, 45, 49, 0, time.UTC)
	frame := testutil.Layout{Profile: p}.Render(testutil.FontMasks(p), testutil.RecordTokens(ts, "47.62221", "-122.17650"))

	dec, err := NewDecoder(set, p, device.Candidate{})
	require.NoError(t, err)
	out, err := dec.Decode(stacked(frame), dec.NewRecord())
	require.NoError(t, err)

	// 14 timestamp digits, "" + " " + 7 digits, "-" + 8 digits
	require.Len(t, out.Scores, 32)
	assert.InDelta(t, (30+2*testutil.PlaceholderScore)/32, out.Quality, 1e-9)
	assert.Equal(t, "2025/06/01 13:45:49  47.62221 -122.17650 ", out.Text)
}

func TestDecodeBlankFrameIsParseError(t *testing.T) {
	p := device.Default()
	set := testutil.FontSet(t, p)
	frame := l1video.NewFrame(p.FrameWidth, p.FrameHeight)

	dec, err := NewDecoder(set, p, device.Candidate{})
	require.NoError(t, err)
	out, err := dec.Decode(stacked(frame), dec.NewRecord())
	require.NoError(t, err)
	assert.Nil(t, out.Data)
	assert.True(t, errors.Is(out.Err, l3fields.ErrParse))
	assert.Less(t, out.Quality, DefaultLowConfidence)
	// all-zero digit scores tie and resolve to "0"
	assert.Equal(t, "0000/00/00 00:00:00 ", out.Text[:20])
}

func TestDecodeResetsRecord(t *testing.T) {
	p := device.Default()
	set := testutil.FontSet(t, p)
	masks := testutil.FontMasks(p)
	dec, err := NewDecoder(set, p, device.Candidate{})
	require.NoError(t, err)

	rec := dec.NewRecord()
	for _, sec := range []int{1, 2} {
		ts := time.Date(2025, 6, 1, 0, 0, sec, 0, time.UTC)
		frame := testutil.Layout{Profile: p}.Render(masks, testutil.RecordTokens(ts, "1.00000", "2.00000"))
		out, err := dec.Decode(stacked(frame), rec)
		require.NoError(t, err)
		require.NotNil(t, out.Data)
		assert.Equal(t, ts, out.Data.Time)
	}
}

func TestClassifyTieBreak(t *testing.T) {
	p := device.Default()
	set := testutil.FontSet(t, p)
	dec, err := NewDecoder(set, p, device.Candidate{})
	require.NoError(t, err)
	frame := stacked(l1video.NewFrame(p.FrameWidth, p.FrameHeight))

	tests := []struct {
		name     string
		alphabet glyph.Alphabet
		want     string
	}{
		{"placeholders", glyph.Alphabet{{Char: " ", Scorer: glyph.Fixed(0.8)}, {Char: "", Scorer: glyph.Fixed(0.8)}}, ""},
		{"higher wins", glyph.Alphabet{{Char: "", Scorer: glyph.Fixed(0.1)}, {Char: "9", Scorer: glyph.Fixed(0.9)}}, "9"},
		{"digits on blank", set.Numbers(), "0"},
		{"sign or nothing on blank", set.NegativeOrNothing(), ""},
		{"sign or number on blank", set.NegativeOrNumber(), " "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch, _, err := dec.classify(frame, tt.alphabet, p.BaseOffset, p.GlyphTop)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ch)
		})
	}
}

func TestNewDecoderGeometry(t *testing.T) {
	p := device.Default()
	set := testutil.FontSet(t, p)

	_, err := NewDecoder(set, p, device.Candidate{DY: -10})
	assert.True(t, errors.Is(err, ErrGeometry))

	tall := p
	tall.GlyphHeight = 31
	_, err = NewDecoder(set, tall, device.Candidate{})
	assert.True(t, errors.Is(err, ErrGeometry))

	wide := p
	wide.Widths = device.DefaultWidths()
	wide.Widths["-"] = 15
	_, err = NewDecoder(set, wide, device.Candidate{})
	assert.True(t, errors.Is(err, ErrGeometry))
	assert.True(t, IsConfigError(err))
}
