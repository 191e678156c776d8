package waypoint

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/woozymasta/wpmap/internal/geo"

	"github.com/google/go-cmp/cmp"
)

func sampleWaypoints(t *testing.T) []*Waypoint {
	t.Helper()

	airport, err := FromTableRow(Row{
		"ICAO_ID": "PAFA", "ARPT_NAME": "FAIRBANKS INTL",
		"WGS_DLAT": "64.815114", "WGS_DLONG": "-147.856267", "ELEV": "439",
		"freq": "118.3",
	})
	if err != nil {
		t.Fatal(err)
	}
	airport.Properties["runways"] = List{
		Map{"id": String("2L/20R"), "length": Number(11800), "lighted": Bool(true)},
		Map{"id": String("2R/20L"), "length": Number(6501), "lighted": Bool(false)},
	}

	marker, err := FromDegrees(61.1, -150.0)
	if err != nil {
		t.Fatal(err)
	}
	marker.DisplayName = "Fuel cache"

	plain, err := New("Z", geo.NewLocation(-90, 180), Marker)
	if err != nil {
		t.Fatal(err)
	}

	return []*Waypoint{airport, marker, plain}
}

func TestPropertyListRoundTrip(t *testing.T) {
	for _, w := range sampleWaypoints(t) {
		t.Run(w.Key(), func(t *testing.T) {
			got, err := FromPropertyList(w.PropertyList())
			if err != nil {
				t.Fatalf("FromPropertyList() error = %v", err)
			}
			if !got.Equal(w) {
				t.Errorf("round trip mismatch (-want +got):\n%s", cmp.Diff(w.PropertyList(), got.PropertyList()))
			}
		})
	}
}

func TestPropertyListRoundTripJSON(t *testing.T) {
	for _, w := range sampleWaypoints(t) {
		t.Run(w.Key(), func(t *testing.T) {
			data, err := json.Marshal(w.PropertyList())
			if err != nil {
				t.Fatal(err)
			}

			var pl PropertyList
			if err := json.Unmarshal(data, &pl); err != nil {
				t.Fatal(err)
			}

			got, err := FromPropertyList(pl)
			if err != nil {
				t.Fatalf("FromPropertyList() error = %v", err)
			}
			if !got.Equal(w) {
				t.Errorf("round trip mismatch (-want +got):\n%s", cmp.Diff(w.PropertyList(), got.PropertyList()))
			}
		})
	}
}

func TestPropertyListShape(t *testing.T) {
	w, err := New("PABE", geo.NewLocation(60.779778, -161.837917), Airport)
	if err != nil {
		t.Fatal(err)
	}
	w.DisplayName = "PABE: BETHEL"
	w.Properties["freq"] = String("118.3")

	want := PropertyList{
		"key":         "PABE",
		"latitude":    60.779778,
		"longitude":   -161.837917,
		"type":        "airport",
		"displayName": "PABE: BETHEL",
		"properties":  map[string]any{"freq": "118.3"},
	}
	if diff := cmp.Diff(want, w.PropertyList()); diff != "" {
		t.Errorf("PropertyList() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromPropertyListMalformed(t *testing.T) {
	valid := func() PropertyList {
		return PropertyList{"key": "A", "latitude": 1.0, "longitude": 2.0, "type": "marker"}
	}

	tests := []struct {
		name   string
		mutate func(PropertyList)
	}{
		{name: "missing key", mutate: func(pl PropertyList) { delete(pl, "key") }},
		{name: "empty key", mutate: func(pl PropertyList) { pl["key"] = "" }},
		{name: "missing latitude", mutate: func(pl PropertyList) { delete(pl, "latitude") }},
		{name: "missing longitude", mutate: func(pl PropertyList) { delete(pl, "longitude") }},
		{name: "missing type", mutate: func(pl PropertyList) { delete(pl, "type") }},
		{name: "unknown type", mutate: func(pl PropertyList) { pl["type"] = "heliport" }},
		{name: "latitude string", mutate: func(pl PropertyList) { pl["latitude"] = "1.0" }},
		{name: "latitude out of range", mutate: func(pl PropertyList) { pl["latitude"] = 100.0 }},
		{name: "display name number", mutate: func(pl PropertyList) { pl["displayName"] = 4.0 }},
		{name: "properties list", mutate: func(pl PropertyList) { pl["properties"] = []any{"a"} }},
		{name: "property null", mutate: func(pl PropertyList) { pl["properties"] = map[string]any{"a": nil} }},
	}

	if _, err := FromPropertyList(valid()); err != nil {
		t.Fatalf("valid property list rejected: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl := valid()
			tt.mutate(pl)
			if _, err := FromPropertyList(pl); !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("FromPropertyList() error = %v, want ErrMalformedRecord", err)
			}
		})
	}
}

func TestFromPropertyListIntegers(t *testing.T) {
	// YAML decodes whole numbers as int.
	w, err := FromPropertyList(PropertyList{
		"key": "A", "latitude": 61, "longitude": -150, "type": "marker",
		"properties": map[string]any{"count": 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	if w.Location() != geo.NewLocation(61, -150) {
		t.Errorf("Location() = %v", w.Location())
	}
	if !Equal(w.Properties["count"], Number(3)) {
		t.Errorf("properties[count] = %#v", w.Properties["count"])
	}
}

func TestPropertyListSkipsNilValues(t *testing.T) {
	w, err := New("PAJN", geo.NewLocation(58.354972, -134.576278), Airport)
	if err != nil {
		t.Fatal(err)
	}
	w.Properties["unset"] = nil
	w.Properties["runway"] = Map{"id": String("8/26"), "surface": nil}
	w.Properties["freqs"] = List{nil, Number(118.7)}

	want := map[string]any{
		"runway": map[string]any{"id": "8/26"},
		"freqs":  []any{118.7},
	}
	pl := w.PropertyList()
	if diff := cmp.Diff(want, pl[FieldProperties]); diff != "" {
		t.Errorf("properties mismatch (-want +got):\n%s", diff)
	}

	got, err := FromPropertyList(pl)
	if err != nil {
		t.Fatalf("FromPropertyList() error = %v", err)
	}
	if !got.Equal(w) {
		t.Errorf("round trip with nil entries mismatch: %v", got.Properties)
	}
}
