package source

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/wpmap/internal/config"
	"github.com/woozymasta/wpmap/internal/waypoint"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zstd"
)

const airportsCSV = `ICAO_ID,ARPT_NAME,WGS_DLAT,WGS_DLONG,ELEV,freq
PANC,TED STEVENS ANCHORAGE INTL,61.174361,-149.998194,152,118.3
PAFA,FAIRBANKS INTL,64.815114,-147.856267,439,118.3
BAD,NO LATITUDE,,-150,10,
PABE,BETHEL,60.779778,-161.837917,126
PABE2,BETHEL,60.779778,-161.837917,126,
`

func keys(ws []*waypoint.Waypoint) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Key()
	}
	return out
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadCSV(t *testing.T) {
	p := writeFile(t, "airports.csv", []byte("\ufeff"+airportsCSV))
	res := Load(context.Background(), http.DefaultClient, config.Source{Name: "faa", Path: p})

	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if diff := cmp.Diff([]string{"PANC", "PAFA", "PABE2"}, keys(res.Waypoints)); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if res.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", res.Skipped)
	}
	if got, _ := res.Waypoints[0].Properties.Text("freq"); got != "118.3" {
		t.Errorf("properties[freq] = %q", got)
	}
	if res.Waypoints[0].Type() != waypoint.Airport {
		t.Errorf("Type() = %s", res.Waypoints[0].Type())
	}
}

func TestLoadZstdOverHTTP(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := zw.Write([]byte(airportsCSV)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/airports.csv.zst" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	res := Load(context.Background(), srv.Client(), config.Source{Name: "remote", Path: srv.URL + "/airports.csv.zst"})
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if len(res.Waypoints) != 3 {
		t.Errorf("len(Waypoints) = %d, want 3", len(res.Waypoints))
	}

	missing := Load(context.Background(), srv.Client(), config.Source{Name: "missing", Path: srv.URL + "/none.csv"})
	if missing.Err == nil {
		t.Error("Load() of 404 source expected error")
	}
}

func TestLoadJSONRows(t *testing.T) {
	p := writeFile(t, "markers.json", []byte(`[
		{"id": "camp", "name": "Base camp", "lat": 61.5, "lng": -149.25, "fuel": true},
		{"name": "no id", "lat": 1, "lng": 2}
	]`))

	res := Load(context.Background(), http.DefaultClient, config.Source{Name: "markers", Path: p})
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if len(res.Waypoints) != 1 || res.Skipped != 1 {
		t.Fatalf("got %d waypoints, %d skipped", len(res.Waypoints), res.Skipped)
	}

	w := res.Waypoints[0]
	if w.DisplayName != "Base camp" || w.Location().Latitude != 61.5 {
		t.Errorf("waypoint = %v", w)
	}
	if got, _ := w.Properties.Text("fuel"); got != "true" {
		t.Errorf("properties[fuel] = %q", got)
	}
}

func TestLoadGeoJSON(t *testing.T) {
	p := writeFile(t, "points.geojson", []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-147.856267, 64.815114, 133.8]},
			 "properties": {"key": "PAFA", "type": "airport", "displayName": "Fairbanks", "properties": {"freq": "118.3"}}},
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-150, 61.1]},
			 "properties": {"ID": "M1", "NAME": "Lake"}},
			{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [0, 0]},
			 "properties": {"ID": "L"}}
		]
	}`))

	res := Load(context.Background(), http.DefaultClient, config.Source{Name: "geo", Path: p})
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if diff := cmp.Diff([]string{"PAFA", "M1"}, keys(res.Waypoints)); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}

	pafa := res.Waypoints[0]
	if pafa.Type() != waypoint.Airport || pafa.DisplayName != "Fairbanks" || pafa.Location().Altitude != 133.8 {
		t.Errorf("PAFA = %v alt %v", pafa, pafa.Location().Altitude)
	}
	if got, _ := pafa.Properties.Text("freq"); got != "118.3" {
		t.Errorf("properties[freq] = %q", got)
	}
	if m1 := res.Waypoints[1]; m1.Type() != waypoint.Marker || m1.DisplayName != "Lake" {
		t.Errorf("M1 = %v", m1)
	}
}

func TestLoadAllKeepsOrder(t *testing.T) {
	a := writeFile(t, "a.csv", []byte("ID,LAT,LON\nA,1,1\n"))
	b := writeFile(t, "b.yaml", []byte("- {key: B, latitude: 2, longitude: 2, type: marker}\n"))
	c := writeFile(t, "c.csv", []byte("ID,LAT,LON\nC,3,3\n"))

	results := LoadAll(context.Background(), http.DefaultClient, []config.Source{
		{Name: "a", Path: a},
		{Name: "off", Path: c, Disabled: true},
		{Name: "b", Path: b},
		{Name: "broken", Path: filepath.Join(t.TempDir(), "absent.csv")},
	}, 3)

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results[0].Source.Name != "a" || results[1].Source.Name != "b" || results[2].Source.Name != "broken" {
		t.Errorf("order = %s, %s, %s", results[0].Source.Name, results[1].Source.Name, results[2].Source.Name)
	}
	if results[2].Err == nil {
		t.Error("absent source expected error")
	}
	if got := keys(results[1].Waypoints); len(got) != 1 || got[0] != "B" {
		t.Errorf("plist keys = %v", got)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		src     config.Source
		want    string
		wantErr bool
	}{
		{src: config.Source{Path: "x.csv.zst"}, want: FormatCSV},
		{src: config.Source{Path: "x.GEOJSON"}, want: FormatGeoJSON},
		{src: config.Source{Path: "x.json"}, want: FormatJSON},
		{src: config.Source{Path: "x.yml"}, want: FormatPlist},
		{src: config.Source{Path: "x.dat", Format: "CSV"}, want: FormatCSV},
		{src: config.Source{Path: "x.dat"}, wantErr: true},
	}

	for _, tt := range tests {
		got, err := DetectFormat(tt.src)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("DetectFormat(%+v) = %q, %v", tt.src, got, err)
		}
	}
}
