// Package waypoint models navigational points (airports and markers) and the
// property-list format they are persisted in.
//
// A Waypoint is only obtained through New, FromTableRow, FromDegrees or
// FromPropertyList. Key, location and type never change after construction;
// DisplayName and Properties belong to the owning collection code.
package waypoint

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/woozymasta/wpmap/internal/geo"
)

// Type classifies a waypoint.
type Type int

const (
	Airport Type = iota
	Marker
)

// Type tags as written to property lists.
const (
	airportTag = "airport"
	markerTag  = "marker"
)

// Default icon files, relative to the icon directory.
const (
	AirportIcon = "airport.png"
	MarkerIcon  = "marker.png"
)

// IconProperty overrides the type icon when it holds a String.
const IconProperty = "icon"

// String returns the property-list tag of t.
func (t Type) String() string {
	switch t {
	case Airport:
		return airportTag
	case Marker:
		return markerTag
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Valid reports whether t is one of the defined types.
func (t Type) Valid() bool {
	return t == Airport || t == Marker
}

// ParseType maps a property-list tag back to its Type.
func ParseType(tag string) (Type, error) {
	switch tag {
	case airportTag:
		return Airport, nil
	case markerTag:
		return Marker, nil
	default:
		return 0, fmt.Errorf("unknown waypoint type %q", tag)
	}
}

// IconLoader resolves an icon path to a decoded image.
// On failure it may return a fallback image together with the error.
type IconLoader interface {
	Load(ctx context.Context, path string) (image.Image, error)
}

// Waypoint is a navigational point of interest.
type Waypoint struct {
	key      string
	location geo.Location
	typ      Type

	DisplayName string
	Properties  Properties

	iconMu  sync.Mutex
	iconFor string
	iconImg image.Image
}

// New is the canonical constructor every other path funnels through.
// DisplayName defaults to the key.
func New(key string, location geo.Location, typ Type) (*Waypoint, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidArgument)
	}
	if err := location.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArgument, key, err)
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %s: undefined type %d", ErrInvalidArgument, key, int(typ))
	}

	return &Waypoint{
		key:         key,
		location:    location,
		typ:         typ,
		DisplayName: key,
		Properties:  Properties{},
	}, nil
}

// Key returns the stable identifier.
func (w *Waypoint) Key() string { return w.key }

// Location returns the position.
func (w *Waypoint) Location() geo.Location { return w.location }

// Type returns the classification.
func (w *Waypoint) Type() Type { return w.typ }

// IconPath returns the icon file for the waypoint, derived from the icon
// property when present and from the type otherwise.
func (w *Waypoint) IconPath() string {
	if p, ok := w.Properties.Text(IconProperty); ok && p != "" {
		return p
	}
	if w.typ == Airport {
		return AirportIcon
	}
	return MarkerIcon
}

// IconImage returns the icon image, loading it through loader on first use.
// Successful loads are kept on the instance until IconPath changes.
func (w *Waypoint) IconImage(ctx context.Context, loader IconLoader) (image.Image, error) {
	path := w.IconPath()

	w.iconMu.Lock()
	if w.iconImg != nil && w.iconFor == path {
		img := w.iconImg
		w.iconMu.Unlock()
		return img, nil
	}
	w.iconMu.Unlock()

	img, err := loader.Load(ctx, path)
	if err != nil {
		return img, err
	}

	w.iconMu.Lock()
	w.iconFor, w.iconImg = path, img
	w.iconMu.Unlock()

	return img, nil
}

// Equal reports whether w and o agree on key, location, type, display name
// and properties.
func (w *Waypoint) Equal(o *Waypoint) bool {
	if w == nil || o == nil {
		return w == o
	}
	return w.key == o.key &&
		w.location == o.location &&
		w.typ == o.typ &&
		w.DisplayName == o.DisplayName &&
		w.Properties.Equal(o.Properties)
}

func (w *Waypoint) String() string {
	return fmt.Sprintf("%s %q (%s) %s", w.typ, w.DisplayName, w.key, w.location)
}
