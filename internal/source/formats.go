package source

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/woozymasta/wpmap/internal/geo"
	"github.com/woozymasta/wpmap/internal/store"
	"github.com/woozymasta/wpmap/internal/waypoint"
)

// readCSV reads a table whose first record names the columns.
func readCSV(r io.Reader, name string) ([]*waypoint.Waypoint, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var ws []*waypoint.Waypoint
	skipped := 0
	for n := 1; ; n++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("csv: %w", err)
		}

		if len(record) != len(header) {
			skip(name, n, fmt.Errorf("%d fields, header has %d", len(record), len(header)))
			skipped++
			continue
		}

		row := make(waypoint.Row, len(header))
		for i, col := range header {
			row[col] = record[i]
		}

		w, err := waypoint.FromTableRow(row)
		if err != nil {
			skip(name, n, err)
			skipped++
			continue
		}
		ws = append(ws, w)
	}

	return ws, skipped, nil
}

// readJSONRows reads an array of flat objects, one table row each.
func readJSONRows(r io.Reader, name string) ([]*waypoint.Waypoint, int, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return nil, 0, fmt.Errorf("json: %w", err)
	}

	var ws []*waypoint.Waypoint
	skipped := 0
	for i, obj := range objects {
		row := make(waypoint.Row, len(obj))
		for k, v := range obj {
			row[k] = text(v)
		}

		w, err := waypoint.FromTableRow(row)
		if err != nil {
			skip(name, i, err)
			skipped++
			continue
		}
		ws = append(ws, w)
	}

	return ws, skipped, nil
}

// readGeoJSON reads Point features. Features whose properties carry a key
// and a type tag are read as property lists, others as table rows.
func readGeoJSON(r io.Reader, name string) ([]*waypoint.Waypoint, int, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var fc geo.GeoJSONFeatureCollection
	if err := dec.Decode(&fc); err != nil {
		return nil, 0, fmt.Errorf("geojson: %w", err)
	}

	var ws []*waypoint.Waypoint
	skipped := 0
	for i, f := range fc.Features {
		loc, ok := f.Point()
		if !ok {
			skip(name, i, fmt.Errorf("geometry %s is not a point", f.Geometry.Type))
			skipped++
			continue
		}

		w, err := featureWaypoint(f, loc)
		if err != nil {
			skip(name, i, err)
			skipped++
			continue
		}
		ws = append(ws, w)
	}

	return ws, skipped, nil
}

func featureWaypoint(f geo.GeoJSONFeature, loc geo.Location) (*waypoint.Waypoint, error) {
	_, hasKey := f.Properties[waypoint.FieldKey]
	_, hasType := f.Properties[waypoint.FieldType]

	if hasKey && hasType {
		pl := make(waypoint.PropertyList, len(f.Properties)+3)
		for k, v := range f.Properties {
			pl[k] = v
		}
		pl[waypoint.FieldLatitude] = loc.Latitude
		pl[waypoint.FieldLongitude] = loc.Longitude
		if loc.Altitude != 0 {
			pl[waypoint.FieldAltitude] = loc.Altitude
		} else {
			delete(pl, waypoint.FieldAltitude)
		}
		return waypoint.FromPropertyList(pl)
	}

	row := make(waypoint.Row, len(f.Properties)+3)
	for k, v := range f.Properties {
		row[k] = text(v)
	}
	row["LAT"] = strconv.FormatFloat(loc.Latitude, 'f', -1, 64)
	row["LON"] = strconv.FormatFloat(loc.Longitude, 'f', -1, 64)
	if loc.Altitude != 0 {
		row["ELEV"] = strconv.FormatFloat(loc.Altitude/geo.FeetToMeters, 'f', -1, 64)
	}
	return waypoint.FromTableRow(row)
}

func readPlist(r io.Reader) ([]*waypoint.Waypoint, error) {
	return store.Decode(r, store.YAML)
}

// text renders a decoded JSON value as a table cell.
func text(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case json.Number:
		return vv.String()
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(vv)
	case nil:
		return ""
	default:
		b, err := json.Marshal(vv)
		if err != nil {
			return fmt.Sprint(vv)
		}
		return string(b)
	}
}
