package report

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/device"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l2segments"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l3fields"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l4records"
	"github.com/banshee-data/overlay.telemetry/internal/units"
)

func sampleRun() *l4records.Run {
	return &l4records.Run{
		Source:    "clip.mp4",
		Frames:    90,
		Candidate: device.Candidate{DY: -1, Parity: true},
		CandidateScores: []l2segments.CandidateScore{
			{Candidate: device.Candidate{}, MeanScore: 0.42},
			{Candidate: device.Candidate{DY: -1, Parity: true}, MeanScore: 0.97},
		},
		Results: []l4records.Result{
			{Start: 0, End: 30, Quality: 0.98, Data: &l3fields.EmbeddedData{}},
			{Start: 30, End: 60, Quality: 0.6, LowConfidence: true, Err: fmt.Errorf("%w: month", l3fields.ErrParse)},
			{Start: 60, End: 90, Quality: 0.82, LowConfidence: true, Data: &l3fields.EmbeddedData{}},
		},
	}
}

func TestWritePlot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlot(&buf, sampleRun().Results, 0.85))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), img.Bounds().Dy())
}

func TestWritePlotEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlot(&buf, nil, 0.85))
	_, err := png.Decode(&buf)
	assert.NoError(t, err)
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sampleRun(), 0.85))

	html := buf.String()
	assert.Contains(t, html, "Decode quality")
	assert.Contains(t, html, "Vertical candidates")
	assert.Contains(t, html, "dy=-1 parity=true")
	assert.Contains(t, html, "segments=3 decoded=2 low=2")
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleRun(), units.KPH))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, []string{"frame_index", "goodness_of_fit", "flag"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"0", "0.980000"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"30", "0.600000", "parse", "error"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"60", "0.820000", "low", "confidence"}, strings.Fields(lines[3]))
	assert.Equal(t, "", lines[4])
	assert.Equal(t,
		"frames=90 segments=3 decoded=2 parse_errors=1 low_confidence=2 mean=0.8000 min=0.6000 candidate=dy:-1,parity:true",
		lines[5])
	assert.Equal(t, "points=0 distance=0.000km max_speed=0.0kph", lines[6])
}

func TestTrack(t *testing.T) {
	fix := func(sec int, lat, lon string) *l3fields.EmbeddedData {
		return &l3fields.EmbeddedData{
			Time:      time.Date(2025, 6, 1, 13, 45, sec, 0, time.UTC),
			Latitude:  decimal.NewNullDecimal(decimal.RequireFromString(lat)),
			Longitude: decimal.NewNullDecimal(decimal.RequireFromString(lon)),
		}
	}
	results := []l4records.Result{
		{Start: 60, Data: fix(51, "0.00020", "0.00000")},
		{Start: 0, Data: fix(49, "0.00000", "0.00000")},
		{Start: 30, Data: fix(50, "0.00010", "0.00000")},
		{Start: 45, Err: l3fields.ErrParse},
	}

	st := Track(results)
	assert.Equal(t, 3, st.Points)
	// 0.0001 degrees of latitude is about 11.12 m.
	assert.InDelta(t, 22.239, st.Distance, 0.01)
	assert.InDelta(t, 11.12, st.MaxSpeed, 0.01)
}
