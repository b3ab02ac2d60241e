package units

import (
	"math"
	"time"
)

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371008.8

// Distance returns the great-circle distance in meters between two points
// given in decimal degrees.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) + math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * EarthRadius * math.Asin(math.Min(1, math.Sqrt(a)))
}

// Speed returns meters per second covered between two fixes. It is zero
// when the fixes are not strictly ordered in time.
func Speed(meters float64, from, to time.Time) float64 {
	dt := to.Sub(from).Seconds()
	if dt <= 0 {
		return 0
	}
	return meters / dt
}
