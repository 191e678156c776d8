// Package readout presents the detail of the waypoint selected in a list.
package readout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/woozymasta/wpmap/internal/geo"
	"github.com/woozymasta/wpmap/internal/waypoint"
)

// Highlighter marks the selected waypoint on the map.
type Highlighter interface {
	HighlightWaypoint(w *waypoint.Waypoint)
}

// Row is one label/value line of the readout.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Controller holds the waypoint currently shown. The waypoint is shared with
// the collection, so later edits to its name or properties show up in Rows.
type Controller struct {
	Waypoint *waypoint.Waypoint
	Title    string
	Map      Highlighter
}

// ShowWaypoint makes w the current waypoint and highlights it on the map.
func (c *Controller) ShowWaypoint(w *waypoint.Waypoint, title string) {
	c.Waypoint = w
	c.Title = title
	if c.Map != nil {
		c.Map.HighlightWaypoint(w)
	}
}

// Rows renders the current waypoint. It returns nil when nothing is shown.
func (c *Controller) Rows() []Row {
	w := c.Waypoint
	if w == nil {
		return nil
	}

	loc := w.Location()
	rows := []Row{
		{Label: "Name", Value: w.DisplayName},
		{Label: "Type", Value: typeLabel(w.Type())},
		{Label: "Latitude", Value: geo.FormatLatitude(loc.Latitude)},
		{Label: "Longitude", Value: geo.FormatLongitude(loc.Longitude)},
	}
	if loc.Altitude != 0 {
		feet := loc.Altitude / geo.FeetToMeters
		rows = append(rows, Row{Label: "Elevation", Value: fmt.Sprintf("%.0f ft", feet)})
	}

	for _, k := range w.Properties.Keys() {
		if k == waypoint.IconProperty || w.Properties[k] == nil {
			continue
		}
		rows = append(rows, Row{Label: k, Value: formatValue(w.Properties[k])})
	}

	return rows
}

func typeLabel(t waypoint.Type) string {
	if t == waypoint.Airport {
		return "Airport"
	}
	return "Marker"
}

func formatValue(v waypoint.Value) string {
	switch vv := v.(type) {
	case waypoint.String:
		return string(vv)
	case waypoint.Number:
		return strconv.FormatFloat(float64(vv), 'f', -1, 64)
	case waypoint.Bool:
		if vv {
			return "yes"
		}
		return "no"
	case waypoint.List:
		parts := make([]string, len(vv))
		for i, e := range vv {
			parts[i] = formatValue(e)
		}
		return strings.Join(parts, ", ")
	case waypoint.Map:
		keys := waypoint.Properties(vv).Keys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + formatValue(vv[k])
		}
		return "{" + strings.Join(parts, " ") + "}"
	default:
		return ""
	}
}
