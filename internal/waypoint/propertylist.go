package waypoint

import (
	"encoding/json"
	"fmt"

	"github.com/woozymasta/wpmap/internal/geo"
)

// PropertyList is the persisted form of a waypoint. It holds only strings,
// float64, bool, map[string]any and []any values.
type PropertyList map[string]any

// Property list field names. These and the type tags are the storage format.
const (
	FieldKey         = "key"
	FieldLatitude    = "latitude"
	FieldLongitude   = "longitude"
	FieldAltitude    = "altitude"
	FieldType        = "type"
	FieldDisplayName = "displayName"
	FieldProperties  = "properties"
)

// PropertyList serializes w. The icon image is not part of it.
func (w *Waypoint) PropertyList() PropertyList {
	pl := PropertyList{
		FieldKey:         w.key,
		FieldLatitude:    w.location.Latitude,
		FieldLongitude:   w.location.Longitude,
		FieldType:        w.typ.String(),
		FieldDisplayName: w.DisplayName,
		FieldProperties:  w.Properties.toMap(),
	}
	if w.location.Altitude != 0 {
		pl[FieldAltitude] = w.location.Altitude
	}

	return pl
}

// FromPropertyList reconstructs a waypoint written by PropertyList.
// Unknown top-level fields are ignored.
func FromPropertyList(pl PropertyList) (*Waypoint, error) {
	key, ok := pl[FieldKey].(string)
	if !ok || key == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedRecord, FieldKey)
	}

	var loc geo.Location
	var err error
	if loc.Latitude, err = pl.number(FieldLatitude, true); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, key, err)
	}
	if loc.Longitude, err = pl.number(FieldLongitude, true); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, key, err)
	}
	if loc.Altitude, err = pl.number(FieldAltitude, false); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, key, err)
	}

	tag, ok := pl[FieldType].(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing %s", ErrMalformedRecord, key, FieldType)
	}
	typ, err := ParseType(tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, key, err)
	}

	w, err := New(key, loc, typ)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	if raw, present := pl[FieldDisplayName]; present {
		name, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %s is %T, not a string", ErrMalformedRecord, key, FieldDisplayName, raw)
		}
		w.DisplayName = name
	}

	if raw, present := pl[FieldProperties]; present && raw != nil {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %s is %T, not a mapping", ErrMalformedRecord, key, FieldProperties, raw)
		}
		if w.Properties, err = PropertiesOf(m); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, key, err)
		}
	}

	return w, nil
}

func (pl PropertyList) number(field string, required bool) (float64, error) {
	raw, present := pl[field]
	if !present {
		if required {
			return 0, fmt.Errorf("missing %s", field)
		}
		return 0, nil
	}

	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("%s is %T, not a number", field, raw)
	}
}
