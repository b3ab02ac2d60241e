// Package export writes decoded records as CSV tables and GPX track logs.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/l4records"
)

// CSVHeader lists the columns written by WriteCSV.
var CSVHeader = []string{"frame_index", "datetime", "latitude", "longitude", "quality", "low_confidence", "error"}

// WriteCSV writes one row per result, keyed by the segment's first frame.
// Missing values are written as empty cells.
func WriteCSV(w io.Writer, results []l4records.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, res := range sorted(results) {
		row := []string{strconv.Itoa(res.Start), "", "", "", strconv.FormatFloat(res.Quality, 'f', 6, 64), strconv.FormatBool(res.LowConfidence), ""}
		if res.Data != nil {
			row[1] = res.Data.Time.Format(time.DateTime)
			if res.Data.Latitude.Valid {
				row[2] = res.Data.Latitude.Decimal.String()
			}
			if res.Data.Longitude.Valid {
				row[3] = res.Data.Longitude.Decimal.String()
			}
		}
		if res.Err != nil {
			row[6] = res.Err.Error()
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGPX writes a single track with one segment holding a point per
// decoded record in frame order. Records without both coordinates are
// skipped.
func WriteGPX(w io.Writer, results []l4records.Result, creator string) error {
	var points []gpx.GPXPoint
	for _, res := range sorted(results) {
		if res.Data == nil || !res.Data.Latitude.Valid || !res.Data.Longitude.Valid {
			continue
		}
		lat, _ := res.Data.Latitude.Decimal.Float64()
		lon, _ := res.Data.Longitude.Decimal.Float64()
		points = append(points, gpx.GPXPoint{
			Point:     gpx.Point{Latitude: lat, Longitude: lon},
			Timestamp: res.Data.Time,
		})
	}

	doc := &gpx.GPX{
		Creator: creator,
		Tracks: []gpx.GPXTrack{{
			Segments: []gpx.GPXTrackSegment{{Points: points}},
		}},
	}
	data, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return fmt.Errorf("encode gpx: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func sorted(results []l4records.Result) []l4records.Result {
	out := append([]l4records.Result(nil), results...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
