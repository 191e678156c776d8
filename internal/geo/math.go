package geo

import (
	"math"
	"strconv"
)

// KeyPrecision is the number of decimal places coordinates are normalized to
// when they take part in an identity.
const KeyPrecision = 6

// FeetToMeters converts an elevation in feet to meters.
const FeetToMeters = 0.3048

// RoundTo rounds v to places decimal digits.
func RoundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// FormatKeyCoordinate renders v with KeyPrecision fixed decimals.
// -0 is normalized to 0 so both spellings produce the same text.
func FormatKeyCoordinate(v float64) string {
	r := RoundTo(v, KeyPrecision)
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', KeyPrecision, 64)
}

// FormatLatitude renders a latitude as e.g. "61.100000°N".
func FormatLatitude(lat float64) string {
	if lat < 0 {
		return FormatKeyCoordinate(-lat) + "°S"
	}
	return FormatKeyCoordinate(lat) + "°N"
}

// FormatLongitude renders a longitude as e.g. "150.000000°W".
func FormatLongitude(lon float64) string {
	if lon < 0 {
		return FormatKeyCoordinate(-lon) + "°W"
	}
	return FormatKeyCoordinate(lon) + "°E"
}
