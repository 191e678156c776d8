package catalog

import (
	"errors"
	"testing"

	"github.com/woozymasta/wpmap/internal/geo"
	"github.com/woozymasta/wpmap/internal/waypoint"

	"github.com/google/go-cmp/cmp"
)

func mustWaypoint(t *testing.T, key, name string) *waypoint.Waypoint {
	t.Helper()
	w, err := waypoint.New(key, geo.NewLocation(61, -150), waypoint.Airport)
	if err != nil {
		t.Fatal(err)
	}
	w.DisplayName = name
	return w
}

func names(view []*waypoint.Waypoint) []string {
	out := make([]string, len(view))
	for i, w := range view {
		out[i] = w.DisplayName
	}
	return out
}

func alaska(t *testing.T, opts ...Option) *Collection {
	t.Helper()
	c := New(opts...)
	c.Put(mustWaypoint(t, "PANC", "Anchorage"))
	c.Put(mustWaypoint(t, "PAFA", "Fairbanks"))
	c.Put(mustWaypoint(t, "PABE", "Bethel"))
	return c
}

func TestRefreshAllFilter(t *testing.T) {
	c := alaska(t)

	c.SetFilter("an")
	if diff := cmp.Diff([]string{"Anchorage", "Fairbanks"}, names(c.RefreshAll())); diff != "" {
		t.Errorf("filtered view mismatch (-want +got):\n%s", diff)
	}

	c.SetFilter("")
	if diff := cmp.Diff([]string{"Anchorage", "Fairbanks", "Bethel"}, names(c.RefreshAll())); diff != "" {
		t.Errorf("cleared view mismatch (-want +got):\n%s", diff)
	}
}

func TestSetFilterDoesNotRefresh(t *testing.T) {
	c := alaska(t)
	c.RefreshAll()

	c.SetFilter("bet")
	if got := len(c.View()); got != 3 {
		t.Errorf("View() before RefreshAll has %d entries, want 3", got)
	}
	if diff := cmp.Diff([]string{"Bethel"}, names(c.RefreshAll())); diff != "" {
		t.Errorf("view mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterCaseAndDiacritics(t *testing.T) {
	c := New()
	c.Put(mustWaypoint(t, "ENAL", "Ålesund Vigra"))
	c.Put(mustWaypoint(t, "EDDM", "MÜNCHEN"))
	c.Put(mustWaypoint(t, "PANC", "Anchorage"))

	tests := []struct {
		filter string
		want   []string
	}{
		{filter: "alesund", want: []string{"Ålesund Vigra"}},
		{filter: "münchen", want: []string{"MÜNCHEN"}},
		{filter: "MUNCHEN", want: []string{"MÜNCHEN"}},
		{filter: "  ", want: []string{"Ålesund Vigra", "MÜNCHEN", "Anchorage"}},
		{filter: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			c.SetFilter(tt.filter)
			if diff := cmp.Diff(tt.want, names(c.RefreshAll())); diff != "" {
				t.Errorf("view mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterSearchFields(t *testing.T) {
	c := alaska(t, WithSearchFields("freq"))
	w, _ := c.Get("PABE")
	w.Properties["freq"] = waypoint.String("118.3")

	c.SetFilter("118")
	if diff := cmp.Diff([]string{"Bethel"}, names(c.RefreshAll())); diff != "" {
		t.Errorf("view mismatch (-want +got):\n%s", diff)
	}
}

func TestRefreshAllDoesNotMutate(t *testing.T) {
	c := alaska(t)
	before := make(map[string]waypoint.PropertyList)
	for _, w := range c.All() {
		before[w.Key()] = w.PropertyList()
	}

	c.SetFilter("FAIR")
	c.RefreshAll()

	for _, w := range c.All() {
		if diff := cmp.Diff(before[w.Key()], w.PropertyList()); diff != "" {
			t.Errorf("%s mutated by filtering:\n%s", w.Key(), diff)
		}
	}
}

func TestListenerReceivesView(t *testing.T) {
	var got []string
	c := alaska(t, WithListener(ListenerFunc(func(view []*waypoint.Waypoint) {
		got = names(view)
	})))

	c.SetFilter("fair")
	c.RefreshAll()
	if diff := cmp.Diff([]string{"Fairbanks"}, got); diff != "" {
		t.Errorf("listener view mismatch (-want +got):\n%s", diff)
	}
}

func TestPutDuplicateKeyReplaces(t *testing.T) {
	c := alaska(t)
	c.Put(mustWaypoint(t, "PAFA", "Fairbanks International"))

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	w, err := c.Get("PAFA")
	if err != nil {
		t.Fatal(err)
	}
	if w.DisplayName != "Fairbanks International" {
		t.Errorf("DisplayName = %q, want newer value", w.DisplayName)
	}
	if diff := cmp.Diff([]string{"Anchorage", "Fairbanks International", "Bethel"}, names(c.All())); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestRemove(t *testing.T) {
	c := alaska(t)
	if err := c.Remove("PAFA"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Anchorage", "Bethel"}, names(c.All())); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if err := c.Remove("PAFA"); !errors.Is(err, waypoint.ErrNotFound) {
		t.Errorf("second Remove() error = %v, want ErrNotFound", err)
	}
}

type recordingReadout struct {
	w     *waypoint.Waypoint
	title string
	calls int
}

func (r *recordingReadout) ShowWaypoint(w *waypoint.Waypoint, title string) {
	r.w, r.title = w, title
	r.calls++
}

func TestSelect(t *testing.T) {
	c := alaska(t)
	r := &recordingReadout{}

	w, err := c.Select("PABE", "", r)
	if err != nil {
		t.Fatal(err)
	}
	stored, _ := c.Get("PABE")
	if w != stored || r.w != stored {
		t.Error("Select() did not hand over the stored instance")
	}
	if r.title != "Bethel" {
		t.Errorf("title = %q, want display name", r.title)
	}

	if _, err := c.Select("PABE", "Bethel Airport", r); err != nil {
		t.Fatal(err)
	}
	if r.title != "Bethel Airport" {
		t.Errorf("title = %q, want explicit title", r.title)
	}
}

func TestSelectMiss(t *testing.T) {
	c := alaska(t)
	before := names(c.All())
	r := &recordingReadout{}

	if _, err := c.Select("KSEA", "Seattle", r); !errors.Is(err, waypoint.ErrNotFound) {
		t.Errorf("Select() error = %v, want ErrNotFound", err)
	}
	if r.calls != 0 {
		t.Error("readout called on miss")
	}
	if diff := cmp.Diff(before, names(c.All())); diff != "" {
		t.Errorf("collection altered by miss:\n%s", diff)
	}
}

func TestCells(t *testing.T) {
	c := alaska(t)
	cells := Cells(c.All(), "PAFA")

	if len(cells) != 3 {
		t.Fatalf("len(cells) = %d", len(cells))
	}
	if !cells[1].Selected || cells[0].Selected || cells[2].Selected {
		t.Errorf("selection flags = %v %v %v", cells[0].Selected, cells[1].Selected, cells[2].Selected)
	}
	if cells[0].IconPath != waypoint.AirportIcon || cells[0].Type != "airport" {
		t.Errorf("cell = %+v", cells[0])
	}
}
