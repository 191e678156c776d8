package waypoint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/woozymasta/wpmap/internal/geo"

	"github.com/google/uuid"
)

// Row is one record of an external waypoint table, keyed by column name.
type Row map[string]string

// Column aliases, matched case-insensitively in priority order.
var (
	keyColumns       = []string{"ICAO_ID", "ID", "IDENT", "KEY"}
	latitudeColumns  = []string{"WGS_DLAT", "LATITUDE", "LAT"}
	longitudeColumns = []string{"WGS_DLONG", "LONGITUDE", "LON", "LNG"}
	elevationColumns = []string{"ELEV", "ELEVATION"}
	nameColumns      = []string{"ARPT_NAME", "NAME"}
)

// coordinateSpace namespaces the name-based UUIDs synthesized for bare positions.
var coordinateSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:wpmap:coordinate"))

// lookup returns the first non-empty column among names and the actual
// column name it was found under.
func (r Row) lookup(names []string) (value, column string) {
	for _, name := range names {
		for col, v := range r {
			if strings.EqualFold(col, name) {
				if v = strings.TrimSpace(v); v != "" {
					return v, col
				}
			}
		}
	}
	return "", ""
}

func (r Row) isAirport() bool {
	if v, _ := r.lookup([]string{"ICAO_ID", "ARPT_NAME"}); v != "" {
		return true
	}
	v, _ := r.lookup([]string{"TYPE"})
	return strings.EqualFold(v, airportTag)
}

// FromTableRow builds a waypoint from one row of an airport or waypoint table.
// Columns not used for the key, position or elevation are copied into
// Properties unchanged.
func FromTableRow(row Row) (*Waypoint, error) {
	key, keyCol := row.lookup(keyColumns)
	if key == "" {
		return nil, fmt.Errorf("%w: missing key column", ErrMalformedRecord)
	}

	lat, latCol, err := row.float(latitudeColumns, "latitude")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, key, err)
	}
	lon, lonCol, err := row.float(longitudeColumns, "longitude")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, key, err)
	}

	loc := geo.NewLocation(lat, lon)
	consumed := map[string]bool{keyCol: true, latCol: true, lonCol: true}

	if elev, elevCol := row.lookup(elevationColumns); elev != "" {
		feet, err := strconv.ParseFloat(elev, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: elevation %q is not numeric", ErrMalformedRecord, key, elev)
		}
		loc.Altitude = feet * geo.FeetToMeters
		consumed[elevCol] = true
	}

	typ := Marker
	if row.isAirport() {
		typ = Airport
	}

	w, err := New(key, loc, typ)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	if name, _ := row.lookup(nameColumns); name != "" {
		if typ == Airport {
			w.DisplayName = key + ": " + name
		} else {
			w.DisplayName = name
		}
	}

	for col, v := range row {
		if !consumed[col] {
			w.Properties[col] = String(v)
		}
	}

	return w, nil
}

func (r Row) float(names []string, what string) (float64, string, error) {
	s, col := r.lookup(names)
	if s == "" {
		return 0, "", fmt.Errorf("missing %s column", what)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%s %q is not numeric", what, s)
	}
	return f, col, nil
}

// CoordinateKey returns the key FromDegrees assigns to a position. Positions
// equal after rounding to geo.KeyPrecision share a key.
func CoordinateKey(latitude, longitude float64) string {
	name := geo.FormatKeyCoordinate(latitude) + "," + geo.FormatKeyCoordinate(longitude)
	return uuid.NewSHA1(coordinateSpace, []byte(name)).String()
}

// FromDegrees builds a marker at a bare position, e.g. a point picked on the map.
func FromDegrees(latitude, longitude float64) (*Waypoint, error) {
	loc := geo.NewLocation(latitude, longitude)
	if err := loc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	w, err := New(CoordinateKey(latitude, longitude), loc, Marker)
	if err != nil {
		return nil, err
	}
	w.DisplayName = loc.String()

	return w, nil
}
