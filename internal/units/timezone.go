package units

import (
	"fmt"
	"time"
)

// LoadLocation resolves a tz database name. Empty means UTC.
func LoadLocation(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", tz, err)
	}
	return loc, nil
}

// WallClockToUTC reinterprets the wall clock reading of t as local time in
// loc and returns the corresponding UTC instant. The overlay clock carries
// no zone, so decoded timestamps hold the camera's wall clock as UTC.
func WallClockToUTC(t time.Time, loc *time.Location) time.Time {
	if loc == nil || loc == time.UTC {
		return t.UTC()
	}
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, mo, d, h, mi, s, t.Nanosecond(), loc).UTC()
}
