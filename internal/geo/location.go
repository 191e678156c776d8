package geo

import (
	"fmt"
	"math"
)

// Location is a WGS84 position. Altitude is in meters, zero when unknown.
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Altitude  float64 `json:"altitude,omitempty" yaml:"altitude,omitempty"`
}

// NewLocation returns a location without altitude.
func NewLocation(latitude, longitude float64) Location {
	return Location{Latitude: latitude, Longitude: longitude}
}

// Validate reports whether the location lies within the valid degree ranges.
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", l.Latitude)
	}
	if math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", l.Longitude)
	}
	if math.IsNaN(l.Altitude) || math.IsInf(l.Altitude, 0) {
		return fmt.Errorf("altitude %v is not finite", l.Altitude)
	}

	return nil
}

// String formats the location as hemisphere-suffixed decimal degrees.
func (l Location) String() string {
	return FormatLatitude(l.Latitude) + " " + FormatLongitude(l.Longitude)
}
