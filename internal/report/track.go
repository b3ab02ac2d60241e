package report

import (
	"sort"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/l4records"
	"github.com/banshee-data/overlay.telemetry/internal/units"
)

// TrackStats summarizes the path traced by the decoded coordinates.
type TrackStats struct {
	Points int
	// Distance is the summed great-circle distance in meters.
	Distance float64
	// MaxSpeed is the fastest hop between consecutive fixes, in m/s.
	MaxSpeed float64
}

// Track walks decoded fixes in frame order.
func Track(results []l4records.Result) TrackStats {
	rs := append([]l4records.Result(nil), results...)
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Start < rs[j].Start })

	var st TrackStats
	var prevLat, prevLon float64
	var prev *l4records.Result
	for i := range rs {
		res := &rs[i]
		if res.Data == nil || !res.Data.Latitude.Valid || !res.Data.Longitude.Valid {
			continue
		}
		lat, _ := res.Data.Latitude.Decimal.Float64()
		lon, _ := res.Data.Longitude.Decimal.Float64()
		st.Points++
		if prev != nil {
			d := units.Distance(prevLat, prevLon, lat, lon)
			st.Distance += d
			if v := units.Speed(d, prev.Data.Time, res.Data.Time); v > st.MaxSpeed {
				st.MaxSpeed = v
			}
		}
		prev, prevLat, prevLon = res, lat, lon
	}
	return st
}
