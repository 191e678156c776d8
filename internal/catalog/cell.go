package catalog

import "github.com/woozymasta/wpmap/internal/waypoint"

// Cell is what a list row needs to draw one waypoint.
type Cell struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Detail   string `json:"detail"`
	IconPath string `json:"icon"`
	Type     string `json:"type"`
	Selected bool   `json:"selected,omitempty"`
}

// CellFor projects w into a list row.
func CellFor(w *waypoint.Waypoint) Cell {
	return Cell{
		Key:      w.Key(),
		Label:    w.DisplayName,
		Detail:   w.Location().String(),
		IconPath: w.IconPath(),
		Type:     w.Type().String(),
	}
}

// Cells projects a view, flagging the row whose key equals selected.
func Cells(view []*waypoint.Waypoint, selected string) []Cell {
	cells := make([]Cell, len(view))
	for i, w := range view {
		cells[i] = CellFor(w)
		cells[i].Selected = selected != "" && w.Key() == selected
	}
	return cells
}
