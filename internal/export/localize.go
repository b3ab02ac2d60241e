package export

import (
	"time"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/l4records"
	"github.com/banshee-data/overlay.telemetry/internal/units"
)

// Localize returns a copy of results whose timestamps are reinterpreted
// as wall clock readings in loc and converted to UTC. The input is not
// modified.
func Localize(results []l4records.Result, loc *time.Location) []l4records.Result {
	out := make([]l4records.Result, len(results))
	for i, res := range results {
		if res.Data != nil {
			data := *res.Data
			data.Time = units.WallClockToUTC(data.Time, loc)
			res.Data = &data
		}
		out[i] = res
	}
	return out
}
