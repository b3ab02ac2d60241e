package units

import (
	"math"
	"testing"
	"time"
)

func TestConvertSpeed(t *testing.T) {
	tests := []struct {
		name     string
		speedMPS float64
		units    string
		expected float64
	}{
		{"10 m/s to mph", 10.0, MPH, 22.3694},
		{"10 m/s to kmph", 10.0, KMPH, 36.0},
		{"10 m/s to kph", 10.0, KPH, 36.0},
		{"10 m/s to mps", 10.0, MPS, 10.0},
		{"unknown units default to mps", 10.0, "unknown", 10.0},
		{"highway speed 31.29 m/s to mph", 31.29, MPH, 70.0},
		{"city speed 13.89 m/s to kmph", 13.89, KMPH, 50.004},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertSpeed(tt.speedMPS, tt.units)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("ConvertSpeed(%f, %s) = %f, want %f", tt.speedMPS, tt.units, result, tt.expected)
			}
		})
	}
}

func TestValidateUnit(t *testing.T) {
	for _, u := range ValidUnits {
		if err := ValidateUnit(u); err != nil {
			t.Errorf("ValidateUnit(%q) = %v", u, err)
		}
	}
	if err := ValidateUnit("knots"); err == nil {
		t.Error("ValidateUnit(knots) should fail")
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want, tolerance        float64
	}{
		{"same point", 47.62221, -122.1765, 47.62221, -122.1765, 0, 1e-9},
		{"one degree of latitude", 0, 0, 1, 0, 111195, 1},
		{"one degree of longitude at equator", 0, 0, 0, 1, 111195, 1},
		{"short hop", 47.62221, -122.1765, 47.62230, -122.1766, 12.5, 0.2},
		{"antipodes", 0, 0, 0, 180, math.Pi * EarthRadius, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Distance() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestSpeed(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 13, 45, 49, 0, time.UTC)
	if got := Speed(30, t0, t0.Add(2*time.Second)); got != 15 {
		t.Errorf("Speed = %f, want 15", got)
	}
	if got := Speed(30, t0, t0); got != 0 {
		t.Errorf("Speed with no elapsed time = %f, want 0", got)
	}
	if got := Speed(30, t0, t0.Add(-time.Second)); got != 0 {
		t.Errorf("Speed backwards in time = %f, want 0", got)
	}
}
