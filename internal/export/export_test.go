package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkrajina/gpxgo/gpx"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/l3fields"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l4records"
)

func record(sec int, lat, lon string) *l3fields.EmbeddedData {
	return &l3fields.EmbeddedData{
		Time:      time.Date(2025, 6, 1, 13, 45, sec, 0, time.UTC),
		Latitude:  decimal.NewNullDecimal(decimal.RequireFromString(lat)),
		Longitude: decimal.NewNullDecimal(decimal.RequireFromString(lon)),
	}
}

func results() []l4records.Result {
	return []l4records.Result{
		{Start: 31, End: 60, Data: record(50, "47.62230", "-122.17660"), Quality: 0.97},
		{Start: 0, End: 31, Data: record(49, "47.62221", "-122.17650"), Quality: 0.985},
		{Start: 60, End: 75, Quality: 0.4, LowConfidence: true, Err: fmt.Errorf("%w: bad", l3fields.ErrParse)},
		{Start: 75, End: 90, Data: &l3fields.EmbeddedData{Time: time.Date(2025, 6, 1, 13, 45, 52, 0, time.UTC)}, Quality: 0.9},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, results()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{"0", "2025-06-01 13:45:49", "47.62221", "-122.1765", "0.985000", "false", ""}, rows[1])
	assert.Equal(t, "31", rows[2][0])
	assert.Equal(t, []string{"60", "", "", "", "0.400000", "true", "l3fields: parse error: bad"}, rows[3])
	assert.Equal(t, []string{"75", "2025-06-01 13:45:52", "", "", "0.900000", "false", ""}, rows[4])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "frame_index,datetime,latitude,longitude,quality,low_confidence,error\n", buf.String())
}

func TestWriteGPX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGPX(&buf, results(), "rct2gpx test"))

	doc, err := gpx.ParseBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "rct2gpx test", doc.Creator)
	require.Len(t, doc.Tracks, 1)
	require.Len(t, doc.Tracks[0].Segments, 1)

	points := doc.Tracks[0].Segments[0].Points
	require.Len(t, points, 2)
	assert.InDelta(t, 47.62221, points[0].Latitude, 1e-9)
	assert.InDelta(t, -122.1765, points[0].Longitude, 1e-9)
	assert.True(t, points[0].Timestamp.Equal(time.Date(2025, 6, 1, 13, 45, 49, 0, time.UTC)))
	assert.InDelta(t, 47.6223, points[1].Latitude, 1e-9)
}

func TestWriteGPXNoPoints(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGPX(&buf, nil, "rct2gpx"))
	doc, err := gpx.ParseBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "1.1", doc.Version)
}
